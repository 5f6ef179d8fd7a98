package security

import (
	"strings"
	"testing"
)

// TestSanitize_StripsAllTags はすべてのHTMLタグが除去されることを検証する。
func TestSanitize_StripsAllTags(t *testing.T) {
	sanitizer := NewContentSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "pタグが除去されテキストが残る",
			input: "<p>決勝戦の詳細</p>",
			want:  "決勝戦の詳細",
		},
		{
			name:  "strongタグが除去される",
			input: "Bring your <strong>own</strong> gear",
			want:  "Bring your own gear",
		},
		{
			name:  "aタグが除去されリンクテキストのみ残る",
			input: `詳細は<a href="https://example.com">こちら</a>`,
			want:  "詳細はこちら",
		},
		{
			name:  "divとspanのネストが除去される",
			input: "<div><span>Gates open at 6pm</span></div>",
			want:  "Gates open at 6pm",
		},
		{
			name:  "imgタグが丸ごと除去される",
			input: `注意事項<img src="https://example.com/map.png" alt="地図">`,
			want:  "注意事項",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.Sanitize(tt.input)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestSanitize_XSSPayloads は典型的なXSSペイロードが無害化されることを検証する。
func TestSanitize_XSSPayloads(t *testing.T) {
	sanitizer := NewContentSanitizer()

	tests := []struct {
		name       string
		input      string
		wantAbsent []string
	}{
		{
			name:       "scriptタグが内容ごと除去される",
			input:      `試合詳細<script>alert('xss')</script>`,
			wantAbsent: []string{"<script", "alert"},
		},
		{
			name:       "styleタグが内容ごと除去される",
			input:      `試合詳細<style>body{display:none}</style>`,
			wantAbsent: []string{"<style", "display:none"},
		},
		{
			name:       "iframeタグが除去される",
			input:      `<iframe src="https://evil.com"></iframe>試合詳細`,
			wantAbsent: []string{"<iframe", "evil.com"},
		},
		{
			name:       "SVG onloadによるXSS",
			input:      `<svg onload="alert('xss')">試合詳細`,
			wantAbsent: []string{"<svg", "onload", "alert"},
		},
		{
			name:       "img onerrorによるXSS",
			input:      `<img src="x" onerror="alert('xss')">試合詳細`,
			wantAbsent: []string{"onerror", "alert"},
		},
		{
			name:       "javascript URIを持つリンク",
			input:      `<a href="javascript:alert('xss')">クリック</a>`,
			wantAbsent: []string{"javascript:", "href"},
		},
		{
			name:       "イベントハンドラの大文字混在",
			input:      `<p OnClick="alert('xss')">試合詳細</p>`,
			wantAbsent: []string{"onclick", "alert"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.Sanitize(tt.input)
			for _, absent := range tt.wantAbsent {
				if strings.Contains(strings.ToLower(got), strings.ToLower(absent)) {
					t.Errorf("Sanitize(%q) = %q, should NOT contain %q (case-insensitive)", tt.input, got, absent)
				}
			}
		})
	}
}

// TestSanitize_PlainText はプレーンテキストがそのまま通過することを検証する。
func TestSanitize_PlainText(t *testing.T) {
	sanitizer := NewContentSanitizer()

	input := "Annual charity tournament. All skill levels welcome."
	got := sanitizer.Sanitize(input)
	if got != input {
		t.Errorf("Sanitize(%q) = %q, expected unchanged", input, got)
	}
}

// TestSanitize_TrimsWhitespace は前後の空白がトリムされることを検証する。
func TestSanitize_TrimsWhitespace(t *testing.T) {
	sanitizer := NewContentSanitizer()

	got := sanitizer.Sanitize("  Gates open at 6pm.  \n")
	want := "Gates open at 6pm."
	if got != want {
		t.Errorf("Sanitize = %q, want %q", got, want)
	}
}

// TestSanitize_EmptyInput は空文字列の入力を安全に処理できることを検証する。
func TestSanitize_EmptyInput(t *testing.T) {
	sanitizer := NewContentSanitizer()

	got := sanitizer.Sanitize("")
	if got != "" {
		t.Errorf("Sanitize(\"\") = %q, expected empty string", got)
	}
}

// TestSanitize_Idempotent は同一入力に対して常に同一出力（冪等性）を検証する。
func TestSanitize_Idempotent(t *testing.T) {
	sanitizer := NewContentSanitizer()

	input := `<p>決勝戦<strong>18時開始</strong></p>`

	result1 := sanitizer.Sanitize(input)
	result2 := sanitizer.Sanitize(input)
	result3 := sanitizer.Sanitize(result1) // 二重サニタイズ

	if result1 != result2 {
		t.Errorf("冪等性違反: 1回目=%q, 2回目=%q", result1, result2)
	}
	if result1 != result3 {
		t.Errorf("二重サニタイズで結果が変わった: 1回目=%q, 二重=%q", result1, result3)
	}
}

// TestContentSanitizerInterface はContentSanitizerServiceインターフェースの適合を検証する。
func TestContentSanitizerInterface(t *testing.T) {
	var _ ContentSanitizerService = NewContentSanitizer()
}
