package store

import (
	"context"
	"testing"

	"github.com/enterrahost/quickclone/internal/db"
	"github.com/enterrahost/quickclone/internal/model"
)

func TestListTaxonomies(t *testing.T) {
	database := db.NewTestDB(t)

	names, err := ListTaxonomies(context.Background(), database, model.TypeProduct)
	if err != nil {
		t.Fatalf("ListTaxonomies: %v", err)
	}
	if len(names) != 2 || names[0] != "product_cat" || names[1] != "product_tag" {
		t.Errorf("unexpected product taxonomies: %v", names)
	}
}

func TestSetPostTerms(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	post, _ := CreatePost(ctx, database, &model.Post{Type: model.TypePost, Title: "Tagged"})
	news, _ := CreateTerm(ctx, database, "category", "News", "news")
	sport, _ := CreateTerm(ctx, database, "category", "Sport", "sport")
	hot, _ := CreateTerm(ctx, database, "post_tag", "Hot", "hot")

	if err := SetPostTerms(ctx, database, post.ID, "category", []int64{news.ID, sport.ID}); err != nil {
		t.Fatalf("SetPostTerms: %v", err)
	}
	if err := SetPostTerms(ctx, database, post.ID, "post_tag", []int64{hot.ID}); err != nil {
		t.Fatalf("SetPostTerms: %v", err)
	}

	// Replacing one taxonomy leaves the other alone.
	if err := SetPostTerms(ctx, database, post.ID, "category", []int64{sport.ID}); err != nil {
		t.Fatalf("SetPostTerms: %v", err)
	}

	cats, _ := GetPostTerms(ctx, database, post.ID, "category")
	if len(cats) != 1 || cats[0].ID != sport.ID {
		t.Errorf("expected only 'sport', got %+v", cats)
	}
	tags, _ := GetPostTerms(ctx, database, post.ID, "post_tag")
	if len(tags) != 1 {
		t.Errorf("expected tag to survive, got %+v", tags)
	}
}

func TestSetPostTermsRejectsForeignTaxonomy(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	post, _ := CreatePost(ctx, database, &model.Post{Type: model.TypePost, Title: "x"})
	hot, _ := CreateTerm(ctx, database, "post_tag", "Hot", "hot")

	if err := SetPostTerms(ctx, database, post.ID, "category", []int64{hot.ID}); err == nil {
		t.Error("expected error attaching a tag as a category")
	}
}
