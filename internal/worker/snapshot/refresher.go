// Package snapshot は公開イベントスナップショットの定期更新を提供する。
// DBが一時的に落ちてもダッシュボードがフォールバック表示できるよう、
// ローカルスナップショットをバックグラウンドで温め続ける。
package snapshot

import (
	"context"
	"log/slog"
	"time"

	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/localstore"
	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/repository"
)

const (
	// initialBackoff は連続失敗時の初回リトライ遅延。
	initialBackoff = 30 * time.Second
	// maxBackoff はリトライ遅延の上限。
	maxBackoff = 10 * time.Minute
)

// Refresher は公開イベントをDBから読み取り、スナップショットを更新する。
// 連続失敗時は指数バックオフでリトライ間隔を広げる。
type Refresher struct {
	eventRepo repository.EventRepository
	store     *localstore.Store
	logger    *slog.Logger

	consecutiveErrors int
}

// NewRefresher はRefresherの新しいインスタンスを生成する。
func NewRefresher(eventRepo repository.EventRepository, store *localstore.Store, logger *slog.Logger) *Refresher {
	return &Refresher{
		eventRepo: eventRepo,
		store:     store,
		logger:    logger,
	}
}

// CalculateBackoff は連続エラー回数に基づいて指数バックオフ遅延を計算する。
// 初回30秒、2倍ずつ増加、最大10分。
func CalculateBackoff(consecutiveErrors int) time.Duration {
	delay := initialBackoff
	for i := 0; i < consecutiveErrors; i++ {
		delay *= 2
		if delay > maxBackoff {
			return maxBackoff
		}
	}
	return delay
}

// RunOnce は公開イベントを1回読み取り、スナップショットを上書きする。
// 匿名視点（actorID=nil）で読むため、非公開イベントはスナップショットに入らない。
func (r *Refresher) RunOnce(ctx context.Context) error {
	start := time.Now()

	events, err := r.eventRepo.ListVisible(ctx, nil)
	if err != nil {
		r.consecutiveErrors++
		r.logger.Error("スナップショット用のイベント読み取りに失敗しました",
			slog.String("error", err.Error()),
			slog.Int("consecutive_errors", r.consecutiveErrors),
		)
		return err
	}

	if err := r.store.Save(events); err != nil {
		r.consecutiveErrors++
		r.logger.Error("スナップショットの書き込みに失敗しました",
			slog.String("error", err.Error()),
			slog.Int("consecutive_errors", r.consecutiveErrors),
		)
		return err
	}

	r.consecutiveErrors = 0

	duration := time.Since(start)
	r.logger.Info("スナップショットを更新しました",
		slog.Int("event_count", len(events)),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}

// Start は指定間隔でスナップショット更新を実行する。
// 失敗が続く間はバックオフした間隔で次回を予約する。
// コンテキストがキャンセルされるまで実行を継続する。
func (r *Refresher) Start(ctx context.Context, interval time.Duration) {
	r.logger.Info("スナップショット更新ワーカーを開始しました",
		slog.Duration("interval", interval),
	)

	// 起動直後に1回実行
	_ = r.RunOnce(ctx)

	timer := time.NewTimer(r.nextDelay(interval))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("スナップショット更新ワーカーを停止しました")
			return
		case <-timer.C:
			_ = r.RunOnce(ctx)
			timer.Reset(r.nextDelay(interval))
		}
	}
}

// nextDelay は次回実行までの遅延を返す。
// 正常時は通常間隔、連続失敗時は指数バックオフを適用する。
func (r *Refresher) nextDelay(interval time.Duration) time.Duration {
	if r.consecutiveErrors == 0 {
		return interval
	}
	delay := CalculateBackoff(r.consecutiveErrors - 1)
	if delay > interval {
		return interval
	}
	return delay
}
