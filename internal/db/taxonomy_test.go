package db

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/quillcms/quill/internal/models"
)

func TestTagCRUD(t *testing.T) {
	repo := setupTestDB(t)

	tag := &models.Tag{Name: "golang", Slug: "golang"}
	if err := repo.CreateTag(tag); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := repo.GetTag(tag.ID.String())
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Name != "golang" {
		t.Errorf("unexpected tag: %+v", got)
	}

	got.Name = "go"
	if err := repo.UpdateTag(got); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	tags, err := repo.ListTags()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "go" {
		t.Errorf("unexpected list: %+v", tags)
	}

	if err := repo.DeleteTag(tag.ID.String()); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := repo.DeleteTag(tag.ID.String()); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows on double delete, got %v", err)
	}
}

func TestListTagsOrderedByName(t *testing.T) {
	repo := setupTestDB(t)

	for _, name := range []string{"zig", "ada", "go"} {
		if err := repo.CreateTag(&models.Tag{Name: name, Slug: name}); err != nil {
			t.Fatalf("create %s failed: %v", name, err)
		}
	}

	tags, err := repo.ListTags()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	want := []string{"ada", "go", "zig"}
	for i, tag := range tags {
		if tag.Name != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], tag.Name)
		}
	}
}

func TestDeleteTagCascadesPostTags(t *testing.T) {
	repo := setupTestDB(t)

	tag := &models.Tag{Name: "go", Slug: "go"}
	if err := repo.CreateTag(tag); err != nil {
		t.Fatalf("create tag failed: %v", err)
	}
	post := &models.Post{Title: "Tagged"}
	if err := repo.CreatePost(post); err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	if err := repo.ReplacePostTags(post.ID.String(), []string{tag.ID.String()}); err != nil {
		t.Fatalf("tag sync failed: %v", err)
	}

	if err := repo.DeleteTag(tag.ID.String()); err != nil {
		t.Fatalf("delete tag failed: %v", err)
	}
	ids, err := repo.GetPostTagIDs(post.ID.String())
	if err != nil {
		t.Fatalf("get tags failed: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected post_tags rows cascaded, got %v", ids)
	}
}

func TestCategoryCRUD(t *testing.T) {
	repo := setupTestDB(t)

	category := &models.Category{Name: "News", Slug: "news"}
	if err := repo.CreateCategory(category); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := repo.GetCategory(category.ID.String())
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Slug != "news" {
		t.Errorf("unexpected category: %+v", got)
	}

	got.Name = "Announcements"
	if err := repo.UpdateCategory(got); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	categories, err := repo.ListCategories()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(categories) != 1 || categories[0].Name != "Announcements" {
		t.Errorf("unexpected list: %+v", categories)
	}

	if err := repo.DeleteCategory(category.ID.String()); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
}
