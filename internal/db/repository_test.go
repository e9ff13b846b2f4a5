package db

import (
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/quillcms/quill/internal/models"
	"github.com/quillcms/quill/migrations"
)

// setupTestDB opens an in-memory database with the full schema applied.
func setupTestDB(t *testing.T) *Repository {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	// One connection only: each pooled connection would otherwise see its own
	// empty in-memory database.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	migrator := NewMigrator(conn, migrations.FS)
	if err := migrator.Initialize(); err != nil {
		t.Fatalf("failed to initialize migrations: %v", err)
	}
	if err := migrator.Up(); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}

	return NewRepository(conn)
}

// setCreatedAt pins a post's created_at so list-order assertions are stable.
func setCreatedAt(t *testing.T, repo *Repository, id string, ts int64) {
	t.Helper()
	if _, err := repo.db.Exec("UPDATE posts SET created_at = ? WHERE id = ?", ts, id); err != nil {
		t.Fatalf("failed to pin created_at: %v", err)
	}
}

func TestCreateAndGetPost(t *testing.T) {
	repo := setupTestDB(t)

	post := &models.Post{
		AuthorID: "author-1",
		Title:    "Hello",
		Slug:     "hello",
		Content:  "body text",
	}
	if err := repo.CreatePost(post); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if post.ID == "" {
		t.Fatal("expected assigned id")
	}
	if post.Status != models.StatusDraft {
		t.Errorf("expected default status draft, got %s", post.Status)
	}
	if post.CreatedAt == 0 || post.UpdatedAt == 0 {
		t.Error("expected assigned timestamps")
	}

	got, err := repo.GetPost(post.ID.String())
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Title != "Hello" || got.Content != "body text" {
		t.Errorf("unexpected post: %+v", got)
	}
	// Optional columns round-trip as empty strings, not NULL scan failures.
	if got.CategoryID != "" || got.PublishedAt != "" {
		t.Errorf("expected empty optional columns, got %q %q", got.CategoryID, got.PublishedAt)
	}
}

func TestGetPostNotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.GetPost("00000000-0000-4000-8000-000000000000")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestUpdatePostFieldsTx(t *testing.T) {
	repo := setupTestDB(t)

	post := &models.Post{Title: "Before", Content: "old"}
	if err := repo.CreatePost(post); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	tx, err := repo.Begin()
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	patch := map[string]interface{}{
		"title":        "After",
		"status":       models.StatusPublished,
		"published_at": "2026-03-04T10:00",
		"no_index":     true,
	}
	if err := repo.UpdatePostFieldsTx(tx, post.ID.String(), patch); err != nil {
		tx.Rollback()
		t.Fatalf("update failed: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	got, err := repo.GetPost(post.ID.String())
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Title != "After" || got.Status != models.StatusPublished {
		t.Errorf("patch not applied: %+v", got)
	}
	if got.PublishedAt != "2026-03-04T10:00" {
		t.Errorf("expected published_at stored verbatim, got %q", got.PublishedAt)
	}
	if !got.NoIndex {
		t.Error("expected no_index set")
	}
	if got.Content != "old" {
		t.Errorf("untouched column changed: %q", got.Content)
	}
}

func TestUpdatePostFieldsTxRejectsUnknownColumn(t *testing.T) {
	repo := setupTestDB(t)

	post := &models.Post{Title: "T"}
	if err := repo.CreatePost(post); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	tx, err := repo.Begin()
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	defer tx.Rollback()

	err = repo.UpdatePostFieldsTx(tx, post.ID.String(), map[string]interface{}{
		"tag_ids": []interface{}{"x"},
	})
	if err == nil {
		t.Fatal("expected error for side-table key in patch")
	}

	// Release the single pooled connection before querying outside the tx.
	tx.Rollback()

	got, _ := repo.GetPost(post.ID.String())
	if got.Title != "T" {
		t.Error("failed patch must not modify the row")
	}
}

func TestUpdatePostFieldsTxMissingPost(t *testing.T) {
	repo := setupTestDB(t)

	tx, err := repo.Begin()
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	defer tx.Rollback()

	err = repo.UpdatePostFieldsTx(tx, "00000000-0000-4000-8000-000000000000",
		map[string]interface{}{"title": "x"})
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestListPostsPaginationAndOrder(t *testing.T) {
	repo := setupTestDB(t)

	ids := make([]string, 3)
	for i, title := range []string{"oldest", "middle", "newest"} {
		post := &models.Post{Title: title}
		if err := repo.CreatePost(post); err != nil {
			t.Fatalf("create %s failed: %v", title, err)
		}
		ids[i] = post.ID.String()
		setCreatedAt(t, repo, ids[i], int64(1000+i))
	}

	posts, err := repo.ListPosts(2, 0, NewFilterBuilder())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	if posts[0].Title != "newest" || posts[1].Title != "middle" {
		t.Errorf("unexpected order: %s, %s", posts[0].Title, posts[1].Title)
	}

	rest, err := repo.ListPosts(2, 2, NewFilterBuilder())
	if err != nil {
		t.Fatalf("list offset failed: %v", err)
	}
	if len(rest) != 1 || rest[0].Title != "oldest" {
		t.Errorf("unexpected second page: %+v", rest)
	}

	count, err := repo.CountPosts(nil)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected count 3, got %d", count)
	}
}

func TestListPostsFiltered(t *testing.T) {
	repo := setupTestDB(t)

	category := &models.Category{Name: "news", Slug: "news"}
	if err := repo.CreateCategory(category); err != nil {
		t.Fatalf("create category failed: %v", err)
	}

	drafts := &models.Post{Title: "Go generics draft", Status: models.StatusDraft}
	published := &models.Post{
		Title:      "Release notes",
		Status:     models.StatusPublished,
		CategoryID: category.ID.String(),
	}
	for _, p := range []*models.Post{drafts, published} {
		if err := repo.CreatePost(p); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	byStatus, err := repo.ListPosts(10, 0, NewFilterBuilder().Status(models.StatusPublished))
	if err != nil {
		t.Fatalf("status filter failed: %v", err)
	}
	if len(byStatus) != 1 || byStatus[0].Title != "Release notes" {
		t.Errorf("unexpected status result: %+v", byStatus)
	}

	bySearch, err := repo.ListPosts(10, 0, NewFilterBuilder().Search("generics"))
	if err != nil {
		t.Fatalf("search filter failed: %v", err)
	}
	if len(bySearch) != 1 || bySearch[0].Title != "Go generics draft" {
		t.Errorf("unexpected search result: %+v", bySearch)
	}

	byCategory, err := repo.CountPosts(NewFilterBuilder().Category(category.ID.String()))
	if err != nil {
		t.Fatalf("category filter failed: %v", err)
	}
	if byCategory != 1 {
		t.Errorf("expected 1 post in category, got %d", byCategory)
	}

	combined, err := repo.CountPosts(NewFilterBuilder().
		Status(models.StatusPublished).Search("Release").Category(category.ID.String()))
	if err != nil {
		t.Fatalf("combined filter failed: %v", err)
	}
	if combined != 1 {
		t.Errorf("expected 1 combined match, got %d", combined)
	}
}

func TestDeletePostCascades(t *testing.T) {
	repo := setupTestDB(t)

	tag := &models.Tag{Name: "go", Slug: "go"}
	if err := repo.CreateTag(tag); err != nil {
		t.Fatalf("create tag failed: %v", err)
	}

	post := &models.Post{Title: "Doomed"}
	if err := repo.CreatePost(post); err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	id := post.ID.String()

	if err := repo.ReplacePostTags(id, []string{tag.ID.String()}); err != nil {
		t.Fatalf("tag sync failed: %v", err)
	}
	if err := repo.ReplacePostVideo(id, "https://youtu.be/abc"); err != nil {
		t.Fatalf("video sync failed: %v", err)
	}

	tx, err := repo.Begin()
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	version := &models.PostVersion{PostID: post.ID, ContentSnapshot: "{}"}
	if err := repo.InsertPostVersionTx(tx, version); err != nil {
		tx.Rollback()
		t.Fatalf("version insert failed: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	if err := repo.DeletePost(id); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if tags, _ := repo.GetPostTagIDs(id); len(tags) != 0 {
		t.Errorf("expected tag rows cascaded, got %v", tags)
	}
	if rows, _ := repo.CountPostVideoRows(id); rows != 0 {
		t.Errorf("expected video rows cascaded, got %d", rows)
	}
	if count, _ := repo.CountPostVersions(id); count != 0 {
		t.Errorf("expected version rows cascaded, got %d", count)
	}

	if err := repo.DeletePost(id); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows on double delete, got %v", err)
	}
}
