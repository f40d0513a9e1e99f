package format

import "testing"

func TestEscapeMarkdown(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		version int
		want    string
	}{
		{"v1 underscore", "ivan_petrov", MarkdownV1, `ivan\_petrov`},
		{"v1 bracket and star", "[5*] price", MarkdownV1, `\[5\*] price`},
		{"v1 backtick", "a`b", MarkdownV1, "a\\`b"},
		{"v1 plain", "Moscow Oblast", MarkdownV1, "Moscow Oblast"},
		{"v2 punctuation", "1.5-2 (rub)!", MarkdownV2, `1\.5\-2 \(rub\)\!`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := EscapeMarkdown(tc.in, tc.version)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Fatalf("EscapeMarkdown(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
	if _, err := EscapeMarkdown("x", 3); err == nil {
		t.Fatal("expected error for unknown version")
	}
	if Markdown("@user_name") != `@user\_name` {
		t.Fatalf("Markdown() = %q", Markdown("@user_name"))
	}
}
