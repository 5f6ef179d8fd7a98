package schedule

import (
	"time"

	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/model"
)

// Period はダッシュボードの期間フィルタを表す。
type Period string

const (
	// PeriodAll は期間で絞り込まないフィルタ。
	PeriodAll Period = "all"
	// PeriodToday は当日開始のイベントのみに絞り込むフィルタ。
	PeriodToday Period = "today"
	// PeriodMonth は今月開始のイベントのみに絞り込むフィルタ。
	PeriodMonth Period = "month"
)

// ParsePeriod は文字列をPeriodに変換する。未知の値はPeriodAllとして扱う。
func ParsePeriod(s string) Period {
	switch Period(s) {
	case PeriodToday:
		return PeriodToday
	case PeriodMonth:
		return PeriodMonth
	default:
		return PeriodAll
	}
}

// GroupByBucket はイベント群をバケットごとの順序付きリストに分割する。
// 全バケットが必ずキーとして存在し、メンバーのないバケットは空リストになる。
// 各バケット内では入力の相対順序が保たれる（安定パーティション）。
// 分類はnowを1回だけ基準として行い、イベントごとに時刻を取り直さない。
func GroupByBucket(events []model.EventDetail, now time.Time) map[Bucket][]model.EventDetail {
	groups := make(map[Bucket][]model.EventDetail, len(AllBuckets()))
	for _, b := range AllBuckets() {
		groups[b] = []model.EventDetail{}
	}

	for _, ev := range events {
		b := Classify(ev.StartsAt, now)
		groups[b] = append(groups[b], ev)
	}

	return groups
}

// VisibleBuckets は選択された期間フィルタに対して表示するバケットを返す。
// バケット名は分類・グルーピングと同一の語彙を使用する。
func VisibleBuckets(period Period) []Bucket {
	switch period {
	case PeriodToday:
		return []Bucket{BucketToday}
	case PeriodMonth:
		return []Bucket{BucketToday, BucketTomorrow, BucketThisWeek, BucketThisMonth}
	default:
		return AllBuckets()
	}
}

// MatchesPeriod は開始日時tが期間フィルタに一致するかを返す。
// today: nowと同一暦日、month: nowと同一暦月、all: 常にtrue。
func MatchesPeriod(t, now time.Time, period Period) bool {
	switch period {
	case PeriodToday:
		return isSameDay(t, now)
	case PeriodMonth:
		return isSameMonth(t, now)
	default:
		return true
	}
}
