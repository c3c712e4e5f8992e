package model

import "time"

// Meta is a single key/value annotation attached to a post.
// A post may carry several entries with the same key; order is meta ID order.
type Meta struct {
	ID     int64  `json:"id"`
	PostID int64  `json:"post_id"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

// Well-known meta keys.
const (
	MetaSKU       = "_sku"
	MetaThumbnail = "_thumbnail_id"
	MetaEditLock  = "_edit_lock"
	MetaEditLast  = "_edit_last"
)

// Taxonomy is a named classification scheme attached to one post type.
type Taxonomy struct {
	Name       string `json:"name"`
	ObjectType string `json:"object_type"`
}

// Term is one classification value within a taxonomy.
type Term struct {
	ID       int64  `json:"id"`
	Taxonomy string `json:"taxonomy"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
}

// Media is an uploaded image attachment. Data is loaded separately.
type Media struct {
	ID        int64     `json:"id"`
	Filename  string    `json:"filename"`
	MIME      string    `json:"mime"`
	CreatedAt time.Time `json:"created_at"`
}
