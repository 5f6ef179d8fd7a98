// Package schedule はイベント開始日時の分類・グルーピング・カウントダウン表示を提供する。
//
// 分類はすべて「基準時刻now」を引数に取る純粋関数として実装する。
// nowは呼び出し側が評価パスの先頭で1回だけ取得し、述語ごとに
// time.Now()を呼び直さないこと。境界をまたいだ瞬間に同一イベントが
// 異なるバケットに揺れる（flicker）のを防ぐため。
package schedule

import (
	"fmt"
	"time"
)

// Bucket はイベントの時間相対カテゴリを表す。
type Bucket string

// バケットは以下の優先順位で判定される（最初に一致したものが採用される）。
const (
	BucketToday      Bucket = "Today"
	BucketTomorrow   Bucket = "Tomorrow"
	BucketThisWeek   Bucket = "This Week"
	BucketThisMonth  Bucket = "This Month"
	BucketPastEvents Bucket = "Past Events"
	BucketUpcoming   Bucket = "Upcoming"
)

// AllBuckets は全バケットを判定優先順ではなく表示順で返す。
// グルーピング結果は空のバケットもこの順序で必ず含む。
func AllBuckets() []Bucket {
	return []Bucket{
		BucketToday,
		BucketTomorrow,
		BucketThisWeek,
		BucketThisMonth,
		BucketUpcoming,
		BucketPastEvents,
	}
}

// Classify は開始日時tを基準時刻nowに対するバケットに分類する。
// 判定順: Today → Tomorrow → This Week → This Month → Past Events → Upcoming。
// 週はnowの属する暦週（日曜始まり）、月はnowの属する暦月で判定する。
// 過去の日時でも同日・同週・同月内であれば先行する判定が優先される。
func Classify(t, now time.Time) Bucket {
	switch {
	case isSameDay(t, now):
		return BucketToday
	case isSameDay(t, now.AddDate(0, 0, 1)):
		return BucketTomorrow
	case isSameWeek(t, now):
		return BucketThisWeek
	case isSameMonth(t, now):
		return BucketThisMonth
	case t.Before(now):
		return BucketPastEvents
	default:
		return BucketUpcoming
	}
}

// CountdownText は未来の開始日時に対する相対残り時間の文字列を返す。
// 過去の日時には "Event has passed" を返す。
// 粒度は日 → 時間 → 分の順で最大の単位を採用し、単数形・複数形を使い分ける。
func CountdownText(t, now time.Time) string {
	if t.Before(now) {
		return "Event has passed"
	}

	remaining := t.Sub(now)

	if days := int(remaining.Hours() / 24); days > 0 {
		return fmt.Sprintf("%d %s", days, pluralize("day", days))
	}
	if hours := int(remaining.Hours()); hours > 0 {
		return fmt.Sprintf("%d %s", hours, pluralize("hour", hours))
	}
	if minutes := int(remaining.Minutes()); minutes > 0 {
		return fmt.Sprintf("%d %s", minutes, pluralize("minute", minutes))
	}

	return "Starting now"
}

// FormatEventTime は開始日時の絶対表示文字列を返す。
// 当日: "Today at h:mm a"、翌日: "Tomorrow at h:mm a"、
// 今週内: "<曜日> at h:mm a"、それ以外: "<月> d, yyyy at h:mm a"。
func FormatEventTime(t, now time.Time) string {
	clock := t.Format("3:04 PM")

	switch {
	case isSameDay(t, now):
		return "Today at " + clock
	case isSameDay(t, now.AddDate(0, 0, 1)):
		return "Tomorrow at " + clock
	case isSameWeek(t, now):
		return t.Format("Monday") + " at " + clock
	default:
		return t.Format("Jan 2, 2006") + " at " + clock
	}
}

// isSameDay はaとbが同一暦日かを返す。
func isSameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// isSameWeek はaとbが同一暦週（日曜始まり）に属するかを返す。
func isSameWeek(a, b time.Time) bool {
	return startOfWeek(a).Equal(startOfWeek(b))
}

// startOfWeek はtの属する週の日曜0時を返す。
func startOfWeek(t time.Time) time.Time {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -int(midnight.Weekday()))
}

// isSameMonth はaとbが同一暦月に属するかを返す。
func isSameMonth(a, b time.Time) bool {
	ay, am, _ := a.Date()
	by, bm, _ := b.Date()
	return ay == by && am == bm
}

// pluralize はn==1のとき単数形を、それ以外で複数形を返す。
func pluralize(unit string, n int) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
