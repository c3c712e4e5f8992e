// Package i18n holds the translated user-facing strings.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys. The key doubles as the English text.
const (
	CopySuffix       = "(Copy)"
	ActionClone      = "Clone"
	ActionCloneEdit  = "Clone & Edit"
	LabelClone       = "Clone \"%s\""
	LabelCloneEdit   = "Clone & Edit \"%s\""
	NoticeCloned     = "Content cloned successfully!"
	NoticeFailed     = "Failed to clone content."
	ErrInvalid       = "Invalid request"
	ErrPermission    = "Permission denied"
	ErrSecurity      = "Security check failed"
	ErrCloneFailed   = "Failed to clone content"
	ErrLoginRequired = "Enter a username and password."
	ErrLoginFailed   = "Wrong username or password."
)

var translations = map[language.Tag]map[string]string{
	language.Slovenian: {
		CopySuffix:       "(Kopija)",
		ActionClone:      "Kloniraj",
		ActionCloneEdit:  "Kloniraj in uredi",
		LabelClone:       "Kloniraj \"%s\"",
		LabelCloneEdit:   "Kloniraj in uredi \"%s\"",
		NoticeCloned:     "Vsebina je bila uspešno klonirana!",
		NoticeFailed:     "Kloniranje vsebine ni uspelo.",
		ErrInvalid:       "Neveljavna zahteva",
		ErrPermission:    "Dostop zavrnjen",
		ErrSecurity:      "Varnostno preverjanje ni uspelo",
		ErrCloneFailed:   "Kloniranje vsebine ni uspelo",
		ErrLoginRequired: "Vnesite uporabniško ime in geslo.",
		ErrLoginFailed:   "Napačno uporabniško ime ali geslo.",
	},
}

var supported = []language.Tag{language.English, language.Slovenian}

var (
	cat     catalog.Catalog
	matcher = language.NewMatcher(supported)
)

func init() {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range translations {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	cat = b
}

// Translator looks up strings for one language.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a translator for the best supported match of lang
// (a BCP 47 tag or an Accept-Language header value). Unknown or empty
// values fall back to English.
func New(lang string) *Translator {
	tag := language.English
	if lang != "" {
		if tags, _, err := language.ParseAcceptLanguage(lang); err == nil && len(tags) > 0 {
			_, idx, _ := matcher.Match(tags...)
			tag = supported[idx]
		}
	}
	return &Translator{tag: tag, printer: message.NewPrinter(tag, message.Catalog(cat))}
}

// T returns the translation of key formatted with args.
func (t *Translator) T(key string, args ...any) string {
	return t.printer.Sprintf(key, args...)
}

// Lang returns the language tag in use.
func (t *Translator) Lang() string {
	return t.tag.String()
}
