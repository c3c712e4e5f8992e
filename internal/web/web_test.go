package web

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/enterrahost/quickclone/internal/auth"
	"github.com/enterrahost/quickclone/internal/clone"
	"github.com/enterrahost/quickclone/internal/db"
	"github.com/enterrahost/quickclone/internal/i18n"
	"github.com/enterrahost/quickclone/internal/model"
	"github.com/enterrahost/quickclone/internal/store"
)

const (
	testJWTSecret   = "test-secret"
	testNonceSecret = "test-nonce-secret"
)

func init() {
	auth.HashCost = bcrypt.MinCost
}

type testEnv struct {
	db      *sql.DB
	handler http.Handler
	admin   *model.User
	author  *model.User
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := db.NewTestDB(t)

	handler, err := NewRouter(Config{
		DB:          database,
		JWTSecret:   testJWTSecret,
		NonceSecret: testNonceSecret,
		Duplicator:  clone.New(store.NewRepository(database), clone.Options{CopyLabel: "(Copy)"}),
		Translator:  i18n.New("en"),
	})
	if err != nil {
		t.Fatalf("creating router: %v", err)
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	ctx := context.Background()
	admin, err := store.CreateUser(ctx, database, "admin", string(hash), model.RoleAdmin)
	if err != nil {
		t.Fatalf("creating admin: %v", err)
	}
	author, err := store.CreateUser(ctx, database, "author", string(hash), model.RoleUser)
	if err != nil {
		t.Fatalf("creating author: %v", err)
	}

	return &testEnv{db: database, handler: handler, admin: admin, author: author}
}

func (e *testEnv) token(t *testing.T, u *model.User) string {
	t.Helper()
	token, err := auth.GenerateToken(testJWTSecret, u.ID, u.Username, u.Role)
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}
	return token
}

func (e *testEnv) do(t *testing.T, method, target, token string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) createPost(t *testing.T, p *model.Post) *model.Post {
	t.Helper()
	created, err := store.CreatePost(context.Background(), e.db, p)
	if err != nil {
		t.Fatalf("creating post: %v", err)
	}
	return created
}

func (e *testEnv) countPosts(t *testing.T, postType string) int {
	t.Helper()
	posts, err := store.ListPosts(context.Background(), e.db, postType, "")
	if err != nil {
		t.Fatalf("listing posts: %v", err)
	}
	return len(posts)
}

func cloneURL(t *testing.T, path string, postID int64, nonceAction string, userID int64) string {
	t.Helper()
	nonce, err := auth.CreateNonce(testNonceSecret, nonceAction, userID)
	if err != nil {
		t.Fatalf("creating nonce: %v", err)
	}
	return path + "?" + url.Values{"post": {fmt.Sprint(postID)}, "_nonce": {nonce}}.Encode()
}

func TestCloneRequiresLogin(t *testing.T) {
	e := setupTestEnv(t)

	rec := e.do(t, "GET", "/actions/clone?post=1&_nonce=x", "", nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "/login?next=") {
		t.Errorf("expected redirect to login with next, got %q", loc)
	}
}

func TestCloneInvalidRequest(t *testing.T) {
	e := setupTestEnv(t)
	token := e.token(t, e.admin)

	for _, target := range []string{
		"/actions/clone",
		"/actions/clone?post=1",
		"/actions/clone?_nonce=abc",
		"/actions/clone?post=abc&_nonce=abc",
		"/actions/clone?post=-3&_nonce=abc",
		"/actions/clone-edit?post=&_nonce=abc",
	} {
		rec := e.do(t, "GET", target, token, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Invalid request") {
			t.Errorf("%s: expected invalid request message, got %q", target, rec.Body.String())
		}
	}
}

func TestClonePermissionDenied(t *testing.T) {
	e := setupTestEnv(t)
	p := e.createPost(t, &model.Post{Type: model.TypePost, Title: "Admin post", Slug: "admin-post", AuthorID: e.admin.ID})

	target := cloneURL(t, "/actions/clone", p.ID, auth.CloneAction(p.ID), e.author.ID)
	rec := e.do(t, "GET", target, e.token(t, e.author), nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Permission denied") {
		t.Errorf("expected permission message, got %q", rec.Body.String())
	}
	if n := e.countPosts(t, model.TypePost); n != 1 {
		t.Errorf("expected no clone, found %d posts", n)
	}

	// A missing post is denied the same way.
	target = cloneURL(t, "/actions/clone", 999, auth.CloneAction(999), e.admin.ID)
	rec = e.do(t, "GET", target, e.token(t, e.admin), nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for missing post, got %d", rec.Code)
	}
}

func TestCloneRejectsBadNonce(t *testing.T) {
	e := setupTestEnv(t)
	p := e.createPost(t, &model.Post{Type: model.TypePost, Title: "Hello", Slug: "hello", AuthorID: e.admin.ID})
	other := e.createPost(t, &model.Post{Type: model.TypePost, Title: "Other", Slug: "other", AuthorID: e.admin.ID})
	token := e.token(t, e.admin)

	cases := map[string]string{
		"garbage":      "/actions/clone?post=" + fmt.Sprint(p.ID) + "&_nonce=garbage",
		"other action": cloneURL(t, "/actions/clone", p.ID, auth.CloneEditAction(p.ID), e.admin.ID),
		"other post":   cloneURL(t, "/actions/clone", p.ID, auth.CloneAction(other.ID), e.admin.ID),
		"other user":   cloneURL(t, "/actions/clone", p.ID, auth.CloneAction(p.ID), e.author.ID),
		"edit action":  cloneURL(t, "/actions/clone-edit", p.ID, auth.CloneAction(p.ID), e.admin.ID),
	}
	for name, target := range cases {
		rec := e.do(t, "GET", target, token, nil)
		if rec.Code != http.StatusForbidden {
			t.Errorf("%s: expected 403, got %d", name, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Security check failed") {
			t.Errorf("%s: expected security message, got %q", name, rec.Body.String())
		}
	}

	if n := e.countPosts(t, model.TypePost); n != 2 {
		t.Errorf("expected no clones, found %d posts", n)
	}
}

func TestCloneCreatesDraftAndShowsNoticeOnce(t *testing.T) {
	e := setupTestEnv(t)
	ctx := context.Background()
	p := e.createPost(t, &model.Post{
		Type: model.TypePost, Title: "Hello", Slug: "hello", Status: model.StatusPublish, AuthorID: e.admin.ID,
	})
	if err := store.AddPostMeta(ctx, e.db, p.ID, "color", "red"); err != nil {
		t.Fatal(err)
	}
	token := e.token(t, e.admin)

	target := cloneURL(t, "/actions/clone", p.ID, auth.CloneAction(p.ID), e.admin.ID)
	rec := e.do(t, "GET", target, token, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d: %s", rec.Code, rec.Body.String())
	}

	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parsing location: %v", err)
	}
	if loc.Path != "/posts" || loc.Query().Get("type") != model.TypePost || loc.Query().Get("cloned") != "1" {
		t.Errorf("unexpected redirect %q", loc)
	}
	if loc.Query().Get("_nonce") == "" {
		t.Error("expected notice nonce in redirect")
	}

	posts, _ := store.ListPosts(ctx, e.db, model.TypePost, "")
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	var copied *model.Post
	for i := range posts {
		if posts[i].ID != p.ID {
			copied = &posts[i]
		}
	}
	if copied.Title != "Hello (Copy)" || copied.Status != model.StatusDraft || copied.Slug != "hello-copy" {
		t.Errorf("unexpected clone %+v", copied)
	}
	if v, _ := store.GetPostMetaValue(ctx, e.db, copied.ID, "color"); v != "red" {
		t.Errorf("expected copied meta, got %q", v)
	}

	// The action nonce is single use.
	rec = e.do(t, "GET", target, token, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 on replay, got %d", rec.Code)
	}
	if n := e.countPosts(t, model.TypePost); n != 2 {
		t.Errorf("replay created a clone: %d posts", n)
	}

	rec = e.do(t, "GET", loc.RequestURI(), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Content cloned successfully!") {
		t.Error("expected success notice")
	}

	rec = e.do(t, "GET", loc.RequestURI(), token, nil)
	if strings.Contains(rec.Body.String(), "Content cloned successfully!") {
		t.Error("notice shown twice")
	}
}

func TestNoticeNeedsValidNonce(t *testing.T) {
	e := setupTestEnv(t)
	rec := e.do(t, "GET", "/posts?type=post&cloned=1&_nonce=forged", e.token(t, e.admin), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "Content cloned successfully!") {
		t.Error("notice shown without a valid nonce")
	}
}

func TestCloneEditRedirectsToEditor(t *testing.T) {
	e := setupTestEnv(t)
	p := e.createPost(t, &model.Post{Type: model.TypePage, Title: "About", Slug: "about", AuthorID: e.admin.ID})
	token := e.token(t, e.admin)

	target := cloneURL(t, "/actions/clone-edit", p.ID, auth.CloneEditAction(p.ID), e.admin.ID)
	rec := e.do(t, "GET", target, token, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d: %s", rec.Code, rec.Body.String())
	}

	var newID int64
	if _, err := fmt.Sscanf(rec.Header().Get("Location"), "/posts/%d/edit", &newID); err != nil {
		t.Fatalf("unexpected location %q", rec.Header().Get("Location"))
	}
	if newID == p.ID {
		t.Fatal("redirected to the source")
	}

	rec = e.do(t, "GET", fmt.Sprintf("/posts/%d/edit", newID), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "About (Copy)") {
		t.Error("editor does not show the clone")
	}
}

func TestCloneUnsupportedType(t *testing.T) {
	e := setupTestEnv(t)
	v := e.createPost(t, &model.Post{Type: model.TypeProductVariation, Title: "Blue", Slug: "blue", AuthorID: e.admin.ID})
	token := e.token(t, e.admin)

	target := cloneURL(t, "/actions/clone-edit", v.ID, auth.CloneEditAction(v.ID), e.admin.ID)
	rec := e.do(t, "GET", target, token, nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Failed to clone content") {
		t.Errorf("expected failure message, got %q", rec.Body.String())
	}

	target = cloneURL(t, "/actions/clone", v.ID, auth.CloneAction(v.ID), e.admin.ID)
	rec = e.do(t, "GET", target, token, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	loc, _ := url.Parse(rec.Header().Get("Location"))
	if loc.Query().Get("clone_failed") != "1" {
		t.Errorf("expected clone_failed in %q", loc)
	}
	if n := e.countPosts(t, model.TypeProductVariation); n != 1 {
		t.Errorf("expected no new variation, got %d", n)
	}
}

func TestAuthorClonesOwnPost(t *testing.T) {
	e := setupTestEnv(t)
	p := e.createPost(t, &model.Post{Type: model.TypePost, Title: "Mine", Slug: "mine", AuthorID: e.author.ID})

	target := cloneURL(t, "/actions/clone", p.ID, auth.CloneAction(p.ID), e.author.ID)
	rec := e.do(t, "GET", target, e.token(t, e.author), nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}

	posts, _ := store.ListPosts(context.Background(), e.db, model.TypePost, "")
	for _, got := range posts {
		if got.AuthorID != e.author.ID {
			t.Errorf("post %d has author %d", got.ID, got.AuthorID)
		}
	}
}

func TestPostsPageRowActions(t *testing.T) {
	e := setupTestEnv(t)
	e.createPost(t, &model.Post{Type: model.TypePost, Title: "Hello", Slug: "hello", AuthorID: e.admin.ID})

	rec := e.do(t, "GET", "/posts?type=post", e.token(t, e.admin), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `aria-label="Clone &#34;Hello&#34;"`) {
		t.Error("missing clone action")
	}
	if !strings.Contains(body, "/actions/clone-edit?") {
		t.Error("missing clone & edit action")
	}

	// Authors see other people's posts without clone actions.
	rec = e.do(t, "GET", "/posts?type=post", e.token(t, e.author), nil)
	if strings.Contains(rec.Body.String(), "/actions/clone?") {
		t.Error("author got clone action on someone else's post")
	}

	rec = e.do(t, "GET", "/posts?type=product_variation", e.token(t, e.admin), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for type without UI, got %d", rec.Code)
	}
}

func TestFeaturedImageUploadAndClone(t *testing.T) {
	e := setupTestEnv(t)
	ctx := context.Background()
	p := e.createPost(t, &model.Post{Type: model.TypeProduct, Title: "Mug", Slug: "mug", AuthorID: e.admin.ID})
	token := e.token(t, e.admin)

	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for x := range 20 {
		img.Set(x, 5, color.RGBA{R: 200, A: 255})
	}
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		t.Fatal(err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, _ := mw.CreateFormFile("image", "mug.png")
	fw.Write(pngBuf.Bytes())
	mw.Close()

	req := httptest.NewRequest("POST", fmt.Sprintf("/posts/%d/thumbnail", p.ID), &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d: %s", rec.Code, rec.Body.String())
	}

	thumb, err := store.GetThumbnailID(ctx, e.db, p.ID)
	if err != nil || thumb == 0 {
		t.Fatalf("expected featured image, got %d (%v)", thumb, err)
	}

	rec = e.do(t, "GET", fmt.Sprintf("/media/%d", thumb), token, nil)
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/jpeg" {
		t.Errorf("expected JPEG media, got %d %s", rec.Code, rec.Header().Get("Content-Type"))
	}

	target := cloneURL(t, "/actions/clone-edit", p.ID, auth.CloneEditAction(p.ID), e.admin.ID)
	rec = e.do(t, "GET", target, token, nil)
	var newID int64
	if _, err := fmt.Sscanf(rec.Header().Get("Location"), "/posts/%d/edit", &newID); err != nil {
		t.Fatalf("unexpected location %q", rec.Header().Get("Location"))
	}
	copied, _ := store.GetThumbnailID(ctx, e.db, newID)
	if copied != thumb {
		t.Errorf("expected clone to share featured image %d, got %d", thumb, copied)
	}
}

func TestEditorRecordsLastEditor(t *testing.T) {
	e := setupTestEnv(t)
	ctx := context.Background()
	p := e.createPost(t, &model.Post{Type: model.TypePost, Title: "Draft", Slug: "draft", AuthorID: e.author.ID})
	token := e.token(t, e.author)

	rec := e.do(t, "GET", fmt.Sprintf("/posts/%d/edit", p.ID), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if lock, _ := store.GetPostMetaValue(ctx, e.db, p.ID, model.MetaEditLock); lock == "" {
		t.Error("expected edit lock")
	}

	rec = e.do(t, "POST", fmt.Sprintf("/posts/%d/edit", p.ID), token, url.Values{
		"title": {"Ready"}, "slug": {""}, "status": {model.StatusPending}, "menu_order": {"2"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}

	got, _ := store.GetPost(ctx, e.db, p.ID)
	if got.Title != "Ready" || got.Slug != "ready" || got.Status != model.StatusPending || got.MenuOrder != 2 {
		t.Errorf("unexpected post %+v", got)
	}
	if last, _ := store.GetPostMetaValue(ctx, e.db, p.ID, model.MetaEditLast); last != fmt.Sprint(e.author.ID) {
		t.Errorf("expected last editor %d, got %q", e.author.ID, last)
	}
	if lock, _ := store.GetPostMetaValue(ctx, e.db, p.ID, model.MetaEditLock); lock != "" {
		t.Error("expected edit lock released")
	}

	// Someone else's post is off limits.
	other := e.createPost(t, &model.Post{Type: model.TypePost, Title: "Theirs", Slug: "theirs", AuthorID: e.admin.ID})
	rec = e.do(t, "GET", fmt.Sprintf("/posts/%d/edit", other.ID), token, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestPostTermsSubmit(t *testing.T) {
	e := setupTestEnv(t)
	ctx := context.Background()
	p := e.createPost(t, &model.Post{Type: model.TypePost, Title: "Tagged", Slug: "tagged", AuthorID: e.admin.ID})
	news, _ := store.CreateTerm(ctx, e.db, "category", "News", "news")
	tag, _ := store.CreateTerm(ctx, e.db, "post_tag", "Go", "go")

	rec := e.do(t, "POST", fmt.Sprintf("/posts/%d/terms", p.ID), e.token(t, e.admin), url.Values{
		"tax_category": {fmt.Sprint(news.ID)},
		"tax_post_tag": {fmt.Sprint(tag.ID)},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}

	cats, _ := store.GetPostTerms(ctx, e.db, p.ID, "category")
	tags, _ := store.GetPostTerms(ctx, e.db, p.ID, "post_tag")
	if len(cats) != 1 || len(tags) != 1 {
		t.Errorf("expected one term each, got %d categories and %d tags", len(cats), len(tags))
	}
}

func TestLoginAndLogout(t *testing.T) {
	e := setupTestEnv(t)

	rec := e.do(t, "POST", "/login", "", url.Values{"username": {"admin"}, "password": {"wrong"}})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Wrong username or password.") {
		t.Error("expected login error")
	}

	rec = e.do(t, "POST", "/login", "", url.Values{
		"username": {"admin"}, "password": {"password"}, "next": {"/posts?type=page"},
	})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/posts?type=page" {
		t.Fatalf("expected redirect to next, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	var token string
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			token = c.Value
		}
	}
	if token == "" {
		t.Fatal("no session cookie")
	}

	if rec := e.do(t, "GET", "/posts", token, nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	e.do(t, "POST", "/logout", token, nil)
	rec = e.do(t, "GET", "/posts", token, nil)
	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected revoked session to redirect, got %d", rec.Code)
	}
}

func TestSafeNext(t *testing.T) {
	tests := map[string]string{
		"/posts?type=page":     "/posts?type=page",
		"":                     "/posts",
		"//evil.example":       "/posts",
		"https://evil.example": "/posts",
		"/\\evil.example":      "/posts",
	}
	for in, want := range tests {
		if got := safeNext(in); got != want {
			t.Errorf("safeNext(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUsersPageAdminOnly(t *testing.T) {
	e := setupTestEnv(t)

	if rec := e.do(t, "GET", "/users", e.token(t, e.author), nil); rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}

	rec := e.do(t, "POST", "/users", e.token(t, e.admin), url.Values{
		"username": {"editor"}, "password": {"longenough"}, "role": {model.RoleManager},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	u, _ := store.GetUserByUsername(context.Background(), e.db, "editor")
	if u == nil || u.Role != model.RoleManager {
		t.Errorf("expected manager user, got %+v", u)
	}
}

func TestUserRoleAndDelete(t *testing.T) {
	e := setupTestEnv(t)
	ctx := context.Background()
	admin := e.token(t, e.admin)
	target := fmt.Sprintf("/users/%d", e.author.ID)

	if rec := e.do(t, "POST", target+"/role", e.token(t, e.author), url.Values{"role": {model.RoleAdmin}}); rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for self-promotion, got %d", rec.Code)
	}

	if rec := e.do(t, "POST", target+"/role", admin, url.Values{"role": {model.RoleManager}}); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	u, _ := store.GetUser(ctx, e.db, e.author.ID)
	if u.Role != model.RoleManager {
		t.Errorf("expected manager, got %q", u.Role)
	}

	self := fmt.Sprintf("/users/%d", e.admin.ID)
	e.do(t, "POST", self+"/role", admin, url.Values{"role": {model.RoleUser}})
	e.do(t, "POST", self+"/delete", admin, nil)
	u, _ = store.GetUser(ctx, e.db, e.admin.ID)
	if u.Role != model.RoleAdmin || u.DeletedAt != nil {
		t.Errorf("admin changed their own account: %+v", u)
	}

	if rec := e.do(t, "POST", target+"/delete", admin, nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	u, _ = store.GetUser(ctx, e.db, e.author.ID)
	if u.DeletedAt == nil {
		t.Error("expected author to be soft-deleted")
	}
}
