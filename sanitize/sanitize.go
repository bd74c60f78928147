package sanitize

import (
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

// Replacement is substituted for every character Filename removes.
const Replacement = '_'

// htmlReplacer escapes in the fixed order < > " ' /. strings.Replacer matches
// single bytes left to right, so each occurrence is rewritten exactly once.
var htmlReplacer = strings.NewReplacer(
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
)

var strictPolicy = bluemonday.StrictPolicy()

// HTML escapes the HTML-significant characters < > " ' / to entities.
// The ampersand is left as is; see the package documentation.
func HTML(s string) string {
	return htmlReplacer.Replace(s)
}

// HTMLStrict escapes & first and then applies [HTML], so the output contains no
// raw markup and no caller-supplied entity survives.
func HTMLStrict(s string) string {
	return HTML(strings.ReplaceAll(s, "&", "&amp;"))
}

// Filename replaces each of < > : " / \ | ? * and every C0 control character
// (0x00-0x1F) with [Replacement]. Replacement is one-for-one, so the output has
// the same number of runes as the input and the transform is idempotent.
func Filename(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 {
			return Replacement
		}
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return Replacement
		}
		return r
	}, s)
}

// Input trims surrounding whitespace and drops bare < and > characters. It is a
// coarse first pass for stored input, not a substitute for [HTML] at render time.
func Input(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r == '<' || r == '>' {
			return -1
		}
		return r
	}, s)
}

// URL returns the trimmed input when it is an absolute http, https or mailto
// URL and "" otherwise. Script-bearing schemes such as javascript: and data:
// never pass.
func URL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}

	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return ""
		}
	case "mailto":
		if u.Opaque == "" {
			return ""
		}
	default:
		return ""
	}

	return s
}

// StripTags removes all markup, keeping only text content.
func StripTags(s string) string {
	return strictPolicy.Sanitize(s)
}

// Normalize returns the NFKC form of s. Compatibility folding maps look-alike
// characters (full-width brackets, ligatures) onto their ASCII counterparts so
// allow-list rules see what a renderer would display.
func Normalize(s string) string {
	return norm.NFKC.String(s)
}
