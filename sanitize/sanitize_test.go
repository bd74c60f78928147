package sanitize

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestHTMLEscapesScriptPayload(t *testing.T) {
	got := HTML(`<script>"x"</script>`)
	want := "&lt;script&gt;&quot;x&quot;&lt;&#x2F;script&gt;"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if strings.ContainsAny(got, `<>"`) {
		t.Fatalf("output still contains raw metacharacters: %q", got)
	}
}

func TestHTMLEscapesEveryOccurrence(t *testing.T) {
	got := HTML("a'b'c/d/e")
	want := "a&#x27;b&#x27;c&#x2F;d&#x2F;e"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestHTMLLeavesAmpersand(t *testing.T) {
	if got := HTML("fish & chips &lt;"); got != "fish & chips &lt;" {
		t.Fatalf("expected ampersand untouched, got %q", got)
	}
}

func TestHTMLStrictEscapesAmpersandOnce(t *testing.T) {
	got := HTMLStrict(`&lt;b&gt; & "q"`)
	want := "&amp;lt;b&amp;gt; &amp; &quot;q&quot;"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFilenameReplacesOneForOne(t *testing.T) {
	if got := Filename(`a/b\c:d`); got != "a_b_c_d" {
		t.Fatalf("expected a_b_c_d, got %q", got)
	}

	in := "x<y>z:\"w\"/v\\u|t?s*r\x00q\x1fp\tn\x7f"
	got := Filename(in)
	if utf8.RuneCountInString(got) != utf8.RuneCountInString(in) {
		t.Fatalf("rune count changed: %d -> %d", utf8.RuneCountInString(in), utf8.RuneCountInString(got))
	}
	want := "x_y_z__w__v_u_t_s_r_q_p_n\x7f"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFilenameIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain.txt",
		`C:\Users\a\b.doc`,
		"../../etc/passwd",
		"\x00\x01\x02 report?.pdf",
		"résumé|final*.docx",
		"____",
	}
	for _, in := range inputs {
		once := Filename(in)
		if twice := Filename(once); twice != once {
			t.Fatalf("not idempotent for %q: %q != %q", in, twice, once)
		}
	}
}

func TestInputTrimsAndStripsAngleBrackets(t *testing.T) {
	tests := map[string]string{
		"  hello  ":         "hello",
		"\t<b>bold</b>\n":   "bbold/b",
		"a > b < c":         "a  b  c",
		"":                  "",
		"   ":               "",
		"no brackets here.": "no brackets here.",
	}
	for in, want := range tests {
		if got := Input(in); got != want {
			t.Fatalf("Input(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestURLAllowsOnlyWebAndMailSchemes(t *testing.T) {
	tests := map[string]string{
		"https://example.com/a?b=c":   "https://example.com/a?b=c",
		"  http://example.com  ":      "http://example.com",
		"mailto:team@example.com":     "mailto:team@example.com",
		"javascript:alert(1)":         "",
		"JAVASCRIPT:alert(1)":         "",
		"data:text/html;base64,PHNj":  "",
		"/relative":                   "",
		"https://":                    "",
		"":                            "",
	}
	for in, want := range tests {
		if got := URL(in); got != want {
			t.Fatalf("URL(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestStripTagsRemovesMarkup(t *testing.T) {
	got := StripTags(`<p>Hello <script>alert(1)</script><b>world</b></p>`)
	if strings.ContainsAny(got, "<>") {
		t.Fatalf("expected markup removed, got %q", got)
	}
	if !strings.Contains(got, "Hello") || !strings.Contains(got, "world") {
		t.Fatalf("expected text content kept, got %q", got)
	}
}

func TestNormalizeFoldsFullWidth(t *testing.T) {
	if got := Normalize("＜script＞"); got != "<script>" {
		t.Fatalf("expected full-width brackets folded, got %q", got)
	}
	if got := Normalize("plain"); got != "plain" {
		t.Fatalf("expected ASCII unchanged, got %q", got)
	}
}
