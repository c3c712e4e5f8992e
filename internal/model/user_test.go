package model

import "testing"

func TestRoleAtLeast(t *testing.T) {
	ranked := []string{RoleUser, RoleManager, RoleAdmin}
	for i, role := range ranked {
		for j, minimum := range ranked {
			if got, want := RoleAtLeast(role, minimum), i >= j; got != want {
				t.Errorf("RoleAtLeast(%q, %q) = %v, want %v", role, minimum, got, want)
			}
		}
	}

	// Unknown roles never pass.
	for _, pair := range [][2]string{{"unknown", RoleUser}, {RoleAdmin, "unknown"}, {"", ""}} {
		if RoleAtLeast(pair[0], pair[1]) {
			t.Errorf("RoleAtLeast(%q, %q) = true", pair[0], pair[1])
		}
	}
}

func TestValidRole(t *testing.T) {
	for _, r := range []string{RoleUser, RoleManager, RoleAdmin} {
		if !ValidRole(r) {
			t.Errorf("ValidRole(%q) = false", r)
		}
	}
	if ValidRole("editor") || ValidRole("") {
		t.Error("ValidRole accepted an unknown role")
	}
}

func TestValidatePassword(t *testing.T) {
	for pw, ok := range map[string]bool{
		"":                 false,
		"1234567":          false,
		"12345678":         true,
		"a-valid-password": true,
	} {
		if err := ValidatePassword(pw); (err == nil) != ok {
			t.Errorf("ValidatePassword(%q) = %v", pw, err)
		}
	}
}

func TestCanEditPost(t *testing.T) {
	own := &Post{ID: 1, AuthorID: 7}
	other := &Post{ID: 2, AuthorID: 8}

	tests := []struct {
		name   string
		userID int64
		role   string
		post   *Post
		want   bool
	}{
		{"admin any", 1, RoleAdmin, other, true},
		{"manager any", 2, RoleManager, other, true},
		{"user own", 7, RoleUser, own, true},
		{"user other", 7, RoleUser, other, false},
		{"unknown role own", 7, "guest", own, false},
		{"nil post", 1, RoleAdmin, nil, false},
	}

	for _, tt := range tests {
		if got := CanEditPost(tt.userID, tt.role, tt.post); got != tt.want {
			t.Errorf("%s: CanEditPost = %v, want %v", tt.name, got, tt.want)
		}
	}
}
