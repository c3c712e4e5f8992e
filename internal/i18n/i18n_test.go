package i18n

import "testing"

func TestTranslatorFallsBackToEnglish(t *testing.T) {
	for _, lang := range []string{"", "de", "not a tag"} {
		tr := New(lang)
		if got := tr.T(CopySuffix); got != "(Copy)" {
			t.Errorf("New(%q).T(CopySuffix) = %q, want %q", lang, got, "(Copy)")
		}
	}
}

func TestTranslatorSlovenian(t *testing.T) {
	tr := New("sl")
	if tr.Lang() != "sl" {
		t.Errorf("expected lang 'sl', got %q", tr.Lang())
	}
	if got := tr.T(CopySuffix); got != "(Kopija)" {
		t.Errorf("expected '(Kopija)', got %q", got)
	}
	if got := tr.T(LabelClone, "Domov"); got != `Kloniraj "Domov"` {
		t.Errorf("unexpected formatted label %q", got)
	}
}

func TestTranslatorAcceptLanguage(t *testing.T) {
	tr := New("sl-SI,sl;q=0.9,en;q=0.8")
	if got := tr.T(NoticeCloned); got != "Vsebina je bila uspešno klonirana!" {
		t.Errorf("unexpected notice %q", got)
	}
}
