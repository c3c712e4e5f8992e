package clone

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// transliterations spell out Latin letters that have no Unicode decomposition,
// so stripping combining marks alone would drop them.
var transliterations = strings.NewReplacer(
	"ß", "ss", "ẞ", "SS",
	"æ", "ae", "Æ", "AE",
	"œ", "oe", "Œ", "OE",
	"ø", "o", "Ø", "O",
	"ł", "l", "Ł", "L",
	"đ", "d", "Đ", "D",
	"ð", "d", "Ð", "D",
	"þ", "th", "Þ", "TH",
	"ħ", "h", "Ħ", "H",
	"ŧ", "t", "Ŧ", "T",
	"ŋ", "n", "Ŋ", "N",
	"ĳ", "ij", "Ĳ", "IJ",
	"ı", "i", "ĸ", "k", "ŀ", "l", "Ŀ", "L", "ŉ", "n", "ſ", "s",
)

// Sanitize turns s into a URL slug: lowercase ASCII letters and digits
// separated by single dashes. Accented letters are folded to their base
// letter and letters without a decomposition are transliterated.
func Sanitize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, transliterations.Replace(s))
	if err != nil {
		folded = s
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		default:
			dash = true
		}
	}
	return b.String()
}

// uniqueSlug derives the slug for a copy of an item with the given slug:
// "<slug>-copy", then "<slug>-copy-2", "<slug>-copy-3", ... until no item of
// postType uses it.
func uniqueSlug(ctx context.Context, repo Repository, postType, slug string) (string, error) {
	base := Sanitize(slug + "-copy")
	candidate := base
	for n := 2; ; n++ {
		taken, err := repo.SlugExists(ctx, postType, candidate)
		if err != nil {
			return "", fmt.Errorf("checking slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}
