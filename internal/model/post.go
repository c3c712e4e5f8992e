package model

import "time"

// Post is a content item: a post, page, product, variation or custom type record.
type Post struct {
	ID            int64     `json:"id"`
	Type          string    `json:"type"`
	Title         string    `json:"title"`
	Content       string    `json:"content,omitempty"`
	Excerpt       string    `json:"excerpt,omitempty"`
	Status        string    `json:"status"`
	Slug          string    `json:"slug"`
	ParentID      int64     `json:"parent_id,omitempty"`
	AuthorID      int64     `json:"author_id"`
	MenuOrder     int       `json:"menu_order"`
	CommentStatus string    `json:"comment_status"`
	PingStatus    string    `json:"ping_status"`
	Password      string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Post statuses.
const (
	StatusDraft   = "draft"
	StatusPending = "pending"
	StatusPrivate = "private"
	StatusPublish = "publish"
)

// Post types known to the application. Other types may be registered at runtime.
const (
	TypePost             = "post"
	TypePage             = "page"
	TypeProduct          = "product"
	TypeProductVariation = "product_variation"
)

// ValidStatus reports whether s is a known post status.
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusPending, StatusPrivate, StatusPublish:
		return true
	}
	return false
}

// PostType describes a registered content type.
type PostType struct {
	Name    string `json:"name"`
	Label   string `json:"label"`
	Public  bool   `json:"public"`
	ShowUI  bool   `json:"show_ui"`
	Builtin bool   `json:"builtin"`
}

// Cloneable reports whether items of this type get clone actions.
// Built-in posts and pages always do; other types must be public and have a UI.
func (pt *PostType) Cloneable() bool {
	if pt.Name == TypePost || pt.Name == TypePage {
		return true
	}
	return !pt.Builtin && pt.Public && pt.ShowUI
}
