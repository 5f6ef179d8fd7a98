package schedule

import (
	"testing"
	"time"
)

// 基準時刻。2025-06-18は水曜日。
var testNow = time.Date(2025, 6, 18, 15, 0, 0, 0, time.UTC)

// nowと同一時刻の分類はTodayになることを検証
func TestClassify_NowIsToday(t *testing.T) {
	if got := Classify(testNow, testNow); got != BucketToday {
		t.Errorf("Classify(now, now) = %q, want %q", got, BucketToday)
	}
}

// 分類の優先順位と境界条件を検証
func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want Bucket
	}{
		{"当日の朝（過去時刻でもToday優先）", time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC), BucketToday},
		{"当日の深夜", time.Date(2025, 6, 18, 23, 59, 59, 0, time.UTC), BucketToday},
		{"翌日の0時", time.Date(2025, 6, 19, 0, 0, 0, 0, time.UTC), BucketTomorrow},
		{"今週の土曜（週は日曜始まり）", time.Date(2025, 6, 21, 12, 0, 0, 0, time.UTC), BucketThisWeek},
		{"今週の月曜（過去でもThis Week優先）", time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC), BucketThisWeek},
		{"来週だが同月", time.Date(2025, 6, 25, 12, 0, 0, 0, time.UTC), BucketThisMonth},
		{"月初の過去日（同月はThis Month優先）", time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC), BucketThisMonth},
		{"先月末", time.Date(2025, 5, 31, 12, 0, 0, 0, time.UTC), BucketPastEvents},
		{"昨年", time.Date(2024, 6, 18, 15, 0, 0, 0, time.UTC), BucketPastEvents},
		{"来月", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), BucketUpcoming},
		{"来年", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), BucketUpcoming},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.at, testNow); got != tt.want {
				t.Errorf("Classify(%v) = %q, want %q", tt.at, got, tt.want)
			}
		})
	}
}

// 週の境界（日曜始まり）をまたぐ分類を検証
func TestClassify_WeekStartsOnSunday(t *testing.T) {
	// 2025-06-22は日曜日。水曜基準では翌週の開始日。
	nextSunday := time.Date(2025, 6, 22, 10, 0, 0, 0, time.UTC)
	if got := Classify(nextSunday, testNow); got != BucketThisMonth {
		t.Errorf("次の日曜は週境界の外: got %q, want %q", got, BucketThisMonth)
	}

	// 2025-06-15は日曜日。水曜基準では同週の開始日。
	thisSunday := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	if got := Classify(thisSunday, testNow); got != BucketThisWeek {
		t.Errorf("今週の日曜: got %q, want %q", got, BucketThisWeek)
	}
}

// 月境界をまたぐTomorrow判定を検証
func TestClassify_TomorrowAcrossMonthBoundary(t *testing.T) {
	eom := time.Date(2025, 6, 30, 20, 0, 0, 0, time.UTC)
	firstOfJuly := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)

	if got := Classify(firstOfJuly, eom); got != BucketTomorrow {
		t.Errorf("月末基準の翌月1日 = %q, want %q", got, BucketTomorrow)
	}
}

// 同一の評価パス内で分類が安定していることを検証
// （nowを1回だけ捕捉して使い回せば同一入力は常に同一バケットになる）
func TestClassify_StableWithinPass(t *testing.T) {
	at := time.Date(2025, 6, 19, 0, 0, 0, 0, time.UTC)
	first := Classify(at, testNow)
	for i := 0; i < 100; i++ {
		if got := Classify(at, testNow); got != first {
			t.Fatalf("iteration %d: Classify = %q, want stable %q", i, got, first)
		}
	}
}

// 相対残り時間テキストの粒度と単複形を検証
func TestCountdownText(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"過去のイベント", testNow.Add(-1 * time.Minute), "Event has passed"},
		{"3日後", testNow.Add(72 * time.Hour), "3 days"},
		{"ちょうど1日後", testNow.Add(24 * time.Hour), "1 day"},
		{"5時間後", testNow.Add(5 * time.Hour), "5 hours"},
		{"1時間後", testNow.Add(60 * time.Minute), "1 hour"},
		{"30分後", testNow.Add(30 * time.Minute), "30 minutes"},
		{"1分後", testNow.Add(1 * time.Minute), "1 minute"},
		{"30秒後", testNow.Add(30 * time.Second), "Starting now"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountdownText(tt.at, testNow); got != tt.want {
				t.Errorf("CountdownText = %q, want %q", got, tt.want)
			}
		})
	}
}

// 絶対表示文字列のフォーマットを検証
func TestFormatEventTime(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"当日", time.Date(2025, 6, 18, 19, 30, 0, 0, time.UTC), "Today at 7:30 PM"},
		{"翌日", time.Date(2025, 6, 19, 9, 5, 0, 0, time.UTC), "Tomorrow at 9:05 AM"},
		{"今週の金曜", time.Date(2025, 6, 20, 18, 0, 0, 0, time.UTC), "Friday at 6:00 PM"},
		{"来月", time.Date(2025, 7, 4, 12, 0, 0, 0, time.UTC), "Jul 4, 2025 at 12:00 PM"},
		{"過去の別週", time.Date(2025, 3, 1, 8, 15, 0, 0, time.UTC), "Mar 1, 2025 at 8:15 AM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatEventTime(tt.at, testNow); got != tt.want {
				t.Errorf("FormatEventTime = %q, want %q", got, tt.want)
			}
		})
	}
}
