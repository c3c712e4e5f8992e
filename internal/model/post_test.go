package model

import "testing"

func TestPostTypeCloneable(t *testing.T) {
	tests := []struct {
		pt   PostType
		want bool
	}{
		{PostType{Name: TypePost, Builtin: true, Public: true, ShowUI: true}, true},
		{PostType{Name: TypePage, Builtin: true, Public: true, ShowUI: true}, true},
		{PostType{Name: TypeProduct, Public: true, ShowUI: true}, true},
		{PostType{Name: TypeProductVariation}, false},
		{PostType{Name: "attachment", Builtin: true, Public: true, ShowUI: true}, false},
		{PostType{Name: "event", Public: true, ShowUI: false}, false},
		{PostType{Name: "internal", Public: false, ShowUI: true}, false},
	}

	for _, tt := range tests {
		if got := tt.pt.Cloneable(); got != tt.want {
			t.Errorf("PostType{%s}.Cloneable() = %v, want %v", tt.pt.Name, got, tt.want)
		}
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusDraft, StatusPending, StatusPrivate, StatusPublish} {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = false", s)
		}
	}
	for _, s := range []string{"", "published", "trash"} {
		if ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = true", s)
		}
	}
}
