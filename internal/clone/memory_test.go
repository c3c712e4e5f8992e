package clone

import (
	"context"
	"errors"
	"sort"
	"strconv"

	"github.com/enterrahost/quickclone/internal/model"
)

// memRepo is an in-memory Repository for duplicator tests.
type memRepo struct {
	posts  map[int64]*model.Post
	types  map[string]*model.PostType
	meta   []model.Meta
	taxes  map[string][]string
	terms  map[int64]map[string][]int64
	nextID int64
	metaID int64
	writes int

	failCreate int // 1-based CreatePost call that fails; 0 disables
	created    int
}

func newMemRepo() *memRepo {
	return &memRepo{
		posts: map[int64]*model.Post{},
		types: map[string]*model.PostType{
			model.TypePost:             {Name: model.TypePost, Public: true, ShowUI: true, Builtin: true},
			model.TypePage:             {Name: model.TypePage, Public: true, ShowUI: true, Builtin: true},
			model.TypeProduct:          {Name: model.TypeProduct, Public: true, ShowUI: true},
			model.TypeProductVariation: {Name: model.TypeProductVariation},
		},
		taxes: map[string][]string{
			model.TypePost:    {"category", "post_tag"},
			model.TypeProduct: {"product_cat"},
		},
		terms: map[int64]map[string][]int64{},
	}
}

// seed inserts p without counting it as a write.
func (m *memRepo) seed(p model.Post, meta ...[2]string) int64 {
	m.nextID++
	p.ID = m.nextID
	m.posts[p.ID] = &p
	for _, kv := range meta {
		m.metaID++
		m.meta = append(m.meta, model.Meta{ID: m.metaID, PostID: p.ID, Key: kv[0], Value: kv[1]})
	}
	return p.ID
}

func (m *memRepo) seedTerms(postID int64, taxonomy string, ids ...int64) {
	if m.terms[postID] == nil {
		m.terms[postID] = map[string][]int64{}
	}
	m.terms[postID][taxonomy] = ids
}

func (m *memRepo) GetPost(_ context.Context, id int64) (*model.Post, error) {
	p, ok := m.posts[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memRepo) GetPostType(_ context.Context, name string) (*model.PostType, error) {
	return m.types[name], nil
}

func (m *memRepo) CreatePost(_ context.Context, p *model.Post) (int64, error) {
	if m.failCreate > 0 && m.created+1 >= m.failCreate {
		return 0, errors.New("disk full")
	}
	m.writes++
	m.created++
	m.nextID++
	cp := *p
	cp.ID = m.nextID
	m.posts[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memRepo) SlugExists(_ context.Context, postType, slug string) (bool, error) {
	for _, p := range m.posts {
		if p.Type == postType && p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) PostMeta(_ context.Context, postID int64) ([]model.Meta, error) {
	var out []model.Meta
	for _, e := range m.meta {
		if e.PostID == postID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memRepo) AddPostMeta(_ context.Context, postID int64, key, value string) error {
	m.writes++
	m.metaID++
	m.meta = append(m.meta, model.Meta{ID: m.metaID, PostID: postID, Key: key, Value: value})
	return nil
}

func (m *memRepo) Taxonomies(_ context.Context, postType string) ([]string, error) {
	return m.taxes[postType], nil
}

func (m *memRepo) PostTermIDs(_ context.Context, postID int64, taxonomy string) ([]int64, error) {
	return m.terms[postID][taxonomy], nil
}

func (m *memRepo) SetPostTerms(_ context.Context, postID int64, taxonomy string, termIDs []int64) error {
	m.writes++
	ids := append([]int64(nil), termIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	m.seedTerms(postID, taxonomy, ids...)
	return nil
}

func (m *memRepo) Children(_ context.Context, parentID int64, postType string) ([]model.Post, error) {
	var out []model.Post
	for _, p := range m.posts {
		if p.ParentID == parentID && p.Type == postType {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memRepo) ThumbnailID(_ context.Context, postID int64) (int64, error) {
	for _, e := range m.meta {
		if e.PostID == postID && e.Key == model.MetaThumbnail {
			return strconv.ParseInt(e.Value, 10, 64)
		}
	}
	return 0, nil
}

func (m *memRepo) SetThumbnailID(_ context.Context, postID, mediaID int64) error {
	m.writes++
	kept := m.meta[:0]
	for _, e := range m.meta {
		if !(e.PostID == postID && e.Key == model.MetaThumbnail) {
			kept = append(kept, e)
		}
	}
	m.meta = kept
	m.metaID++
	m.meta = append(m.meta, model.Meta{ID: m.metaID, PostID: postID, Key: model.MetaThumbnail, Value: strconv.FormatInt(mediaID, 10)})
	return nil
}

// metaMap returns the values of every key on postID.
func (m *memRepo) metaMap(postID int64) map[string][]string {
	out := map[string][]string{}
	for _, e := range m.meta {
		if e.PostID == postID {
			out[e.Key] = append(out[e.Key], e.Value)
		}
	}
	return out
}
