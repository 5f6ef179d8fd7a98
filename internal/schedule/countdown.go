package schedule

import (
	"context"
	"fmt"
	"time"
)

// RenderRemaining はターゲット日時までの残り時間を表示用文字列にレンダリングする。
// 残り24時間超: "D Day(s) HH:MM:SS"（日数のみゼロ埋めなし、Day/Daysを使い分け）、
// 残り24時間以内: "HH:MM:SS"、残り0秒以下: "Starting now"。
func RenderRemaining(target, now time.Time) string {
	totalSeconds := int(target.Sub(now).Seconds())
	if totalSeconds <= 0 {
		return "Starting now"
	}

	days := totalSeconds / (24 * 60 * 60)
	hours := (totalSeconds % (24 * 60 * 60)) / (60 * 60)
	minutes := (totalSeconds % (60 * 60)) / 60
	seconds := totalSeconds % 60

	if totalSeconds > 24*60*60 {
		return fmt.Sprintf("%d %s %02d:%02d:%02d", days, pluralize("Day", days), hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// Countdown はイベント開始までの残り時間を1秒間隔で再計算するライブカウントダウン。
// 純粋に表示用であり、永続状態には一切影響しない。
type Countdown struct {
	target time.Time
	now    func() time.Time
	tick   time.Duration
}

// NewCountdown はtargetに向けたCountdownを生成する。
func NewCountdown(target time.Time) *Countdown {
	return &Countdown{
		target: target,
		now:    time.Now,
		tick:   time.Second,
	}
}

// Run はレンダリング済み文字列を1秒ごとに送信するチャネルを返す。
// 開始直後に現在値を即時送信し、以降は毎秒更新する。
// ctxのキャンセルでティッカーを停止しチャネルをクローズする（アンマウント相当）。
func (c *Countdown) Run(ctx context.Context) <-chan string {
	out := make(chan string, 1)

	go func() {
		defer close(out)

		ticker := time.NewTicker(c.tick)
		defer ticker.Stop()

		// 初回は即時にレンダリングする
		out <- RenderRemaining(c.target, c.now())

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				select {
				case out <- RenderRemaining(c.target, c.now()):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}
