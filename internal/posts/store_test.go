package posts

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/quillcms/quill/internal/changeset"
	"github.com/quillcms/quill/internal/db"
	apperrors "github.com/quillcms/quill/internal/errors"
	"github.com/quillcms/quill/internal/models"
	"github.com/quillcms/quill/migrations"
)

func newTestStore(t *testing.T) (*Store, *db.Repository) {
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

	migrator := db.NewMigrator(conn, migrations.FS)
	if err := migrator.Initialize(); err != nil {
		t.Fatalf("failed to initialize migrations: %v", err)
	}
	if err := migrator.Up(); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}

	repo := db.NewRepository(conn)
	return NewStore(repo, StaticIdentity("author-1")), repo
}

func createTestTag(t *testing.T, repo *db.Repository, name string) string {
	t.Helper()
	tag := &models.Tag{Name: name, Slug: name}
	if err := repo.CreateTag(tag); err != nil {
		t.Fatalf("failed to create tag %s: %v", name, err)
	}
	return tag.ID.String()
}

func TestCreateHydratesAssociations(t *testing.T) {
	store, repo := newTestStore(t)
	tagA := createTestTag(t, repo, "go")
	tagB := createTestTag(t, repo, "sqlite")

	post, err := store.Create(changeset.FieldMap{
		"title":       "Hello",
		"content":     "first draft",
		"tag_ids":     []interface{}{tagA, tagB},
		"youtube_url": "https://youtu.be/abc123",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if post.Title != "Hello" {
		t.Errorf("expected title Hello, got %s", post.Title)
	}
	if post.Status != models.StatusDraft {
		t.Errorf("expected default status draft, got %s", post.Status)
	}
	if post.AuthorID != "author-1" {
		t.Errorf("expected identity author, got %s", post.AuthorID)
	}
	if len(post.TagIDs) != 2 {
		t.Fatalf("expected 2 tag ids, got %d", len(post.TagIDs))
	}
	if post.VideoURL != "https://youtu.be/abc123" {
		t.Errorf("expected video URL, got %q", post.VideoURL)
	}

	// Creation starts an empty history; snapshots begin with the first update.
	count, err := repo.CountPostVersions(post.ID.String())
	if err != nil {
		t.Fatalf("count versions failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 versions after create, got %d", count)
	}
}

func TestUpdateWritesPreUpdateSnapshot(t *testing.T) {
	store, repo := newTestStore(t)

	post, err := store.Create(changeset.FieldMap{"title": "First", "content": "one"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	id := post.ID.String()

	updated, outcome, err := store.Update(id, changeset.FieldMap{"title": "Second"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if outcome != OutcomeUpdated {
		t.Fatalf("expected updated outcome, got %s", outcome)
	}
	if updated.Title != "Second" {
		t.Errorf("expected title Second, got %s", updated.Title)
	}

	versions, err := store.ListVersions(id)
	if err != nil {
		t.Fatalf("list versions failed: %v", err)
	}
	if len(versions) != 1 {
		t.Fatalf("expected 1 version, got %d", len(versions))
	}
	if versions[0].AuthorID != "author-1" {
		t.Errorf("expected snapshot author author-1, got %s", versions[0].AuthorID)
	}

	snapshot, err := versions[0].Snapshot()
	if err != nil {
		t.Fatalf("snapshot decode failed: %v", err)
	}
	if snapshot["title"] != "First" {
		t.Errorf("expected snapshot to hold pre-update title, got %v", snapshot["title"])
	}
	// The snapshot is the full field map, not just the changed fields.
	for _, key := range []string{"content", "status", "tag_ids", "youtube_url", "no_index"} {
		if _, ok := snapshot[key]; !ok {
			t.Errorf("expected snapshot to contain %s", key)
		}
	}

	count, _ := repo.CountPostVersions(id)
	if count != 1 {
		t.Errorf("expected 1 version row, got %d", count)
	}
}

func TestUpdateNoChangeSkipsEverything(t *testing.T) {
	store, repo := newTestStore(t)
	tagA := createTestTag(t, repo, "go")
	tagB := createTestTag(t, repo, "sqlite")

	post, err := store.Create(changeset.FieldMap{
		"title":       "Stable",
		"content":     "body",
		"tag_ids":     []interface{}{tagA, tagB},
		"youtube_url": "https://youtu.be/abc123",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	id := post.ID.String()

	// Same values: tag order reversed, video padded with whitespace.
	same, outcome, err := store.Update(id, changeset.FieldMap{
		"title":       "Stable",
		"content":     "body",
		"tag_ids":     []interface{}{tagB, tagA},
		"youtube_url": "  https://youtu.be/abc123  ",
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if outcome != OutcomeNoChange {
		t.Fatalf("expected no-change outcome, got %s", outcome)
	}
	if same.UpdatedAt != post.UpdatedAt {
		t.Errorf("no-op update must not touch updated_at")
	}

	count, _ := repo.CountPostVersions(id)
	if count != 0 {
		t.Errorf("expected no snapshot for no-op update, got %d", count)
	}
}

func TestUpdateTagSetChangeWritesSnapshot(t *testing.T) {
	store, repo := newTestStore(t)
	tagA := createTestTag(t, repo, "go")
	tagB := createTestTag(t, repo, "sqlite")

	post, err := store.Create(changeset.FieldMap{
		"title":   "Tagged",
		"tag_ids": []interface{}{tagA},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	id := post.ID.String()

	updated, outcome, err := store.Update(id, changeset.FieldMap{
		"tag_ids": []interface{}{tagA, tagB},
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if outcome != OutcomeUpdated {
		t.Fatalf("expected updated outcome, got %s", outcome)
	}
	if len(updated.TagIDs) != 2 {
		t.Errorf("expected 2 tags after update, got %d", len(updated.TagIDs))
	}

	versions, err := store.ListVersions(id)
	if err != nil {
		t.Fatalf("list versions failed: %v", err)
	}
	if len(versions) != 1 {
		t.Fatalf("expected 1 version, got %d", len(versions))
	}
	snapshot, err := versions[0].Snapshot()
	if err != nil {
		t.Fatalf("snapshot decode failed: %v", err)
	}
	old, ok := snapshot["tag_ids"].([]interface{})
	if !ok || len(old) != 1 || old[0] != tagA {
		t.Errorf("expected snapshot tag_ids [%s], got %v", tagA, snapshot["tag_ids"])
	}
}

func TestUpdateClearsTags(t *testing.T) {
	store, repo := newTestStore(t)
	tagA := createTestTag(t, repo, "go")

	post, err := store.Create(changeset.FieldMap{
		"title":   "Tagged",
		"tag_ids": []interface{}{tagA},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, outcome, err := store.Update(post.ID.String(), changeset.FieldMap{
		"tag_ids": []interface{}{},
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if outcome != OutcomeUpdated {
		t.Fatalf("expected updated outcome, got %s", outcome)
	}
	if len(updated.TagIDs) != 0 {
		t.Errorf("expected all tags cleared, got %v", updated.TagIDs)
	}
}

func TestUpdateClearsVideo(t *testing.T) {
	store, repo := newTestStore(t)

	post, err := store.Create(changeset.FieldMap{
		"title":       "With video",
		"youtube_url": "https://youtu.be/abc123",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	id := post.ID.String()

	updated, outcome, err := store.Update(id, changeset.FieldMap{"youtube_url": ""})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if outcome != OutcomeUpdated {
		t.Fatalf("expected updated outcome, got %s", outcome)
	}
	if updated.VideoURL != "" {
		t.Errorf("expected video cleared, got %q", updated.VideoURL)
	}

	// The side table must hold zero rows, not an empty-URL row.
	rows, err := repo.CountPostVideoRows(id)
	if err != nil {
		t.Fatalf("count video rows failed: %v", err)
	}
	if rows != 0 {
		t.Errorf("expected 0 video rows after clear, got %d", rows)
	}
}

func TestVersionHistoryNewestFirst(t *testing.T) {
	store, _ := newTestStore(t)

	post, err := store.Create(changeset.FieldMap{"title": "v0"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	id := post.ID.String()

	for _, title := range []string{"v1", "v2", "v3"} {
		if _, _, err := store.Update(id, changeset.FieldMap{"title": title}); err != nil {
			t.Fatalf("update to %s failed: %v", title, err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	versions, err := store.ListVersions(id)
	if err != nil {
		t.Fatalf("list versions failed: %v", err)
	}
	if len(versions) != 3 {
		t.Fatalf("expected 3 versions, got %d", len(versions))
	}

	// Newest first: the latest snapshot shows the state before the v3 update.
	wantTitles := []string{"v2", "v1", "v0"}
	for i, v := range versions {
		snapshot, err := v.Snapshot()
		if err != nil {
			t.Fatalf("snapshot %d decode failed: %v", i, err)
		}
		if snapshot["title"] != wantTitles[i] {
			t.Errorf("version %d: expected title %s, got %v", i, wantTitles[i], snapshot["title"])
		}
		if i > 0 && versions[i-1].CreatedAt < v.CreatedAt {
			t.Errorf("version %d out of order", i)
		}
	}
}

func TestVersionsOfUnknownPostEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	versions, err := store.ListVersions("00000000-0000-4000-8000-000000000000")
	if err != nil {
		t.Fatalf("list versions failed: %v", err)
	}
	if len(versions) != 0 {
		t.Errorf("expected empty history, got %d versions", len(versions))
	}
}

func TestUpdateMissingPost(t *testing.T) {
	store, _ := newTestStore(t)

	_, _, err := store.Update("00000000-0000-4000-8000-000000000000", changeset.FieldMap{"title": "x"})
	if err == nil {
		t.Fatal("expected error for missing post")
	}
	if apperrors.CodeOf(err) != apperrors.ErrPostNotFound {
		t.Errorf("expected POST_NOT_FOUND, got %s", apperrors.CodeOf(err))
	}
}

func TestUpdateTypedContent(t *testing.T) {
	store, _ := newTestStore(t)

	post, err := store.Create(changeset.FieldMap{"title": "Doc", "content": "plain body"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	id := post.ID.String()

	updated, outcome, err := store.Update(id, changeset.FieldMap{
		"content": map[string]interface{}{"format": "markdown", "body": "# heading"},
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if outcome != OutcomeUpdated {
		t.Fatalf("expected updated outcome, got %s", outcome)
	}

	body := updated.Body()
	if !body.IsTyped() || body.Format != "markdown" {
		t.Errorf("expected typed markdown content, got %+v", body)
	}
	if body.Text() != "# heading" {
		t.Errorf("expected updated body text, got %q", body.Text())
	}

	// Resubmitting the identical typed value is a no-op.
	_, outcome, err = store.Update(id, changeset.FieldMap{
		"content": map[string]interface{}{"format": "markdown", "body": "# heading"},
	})
	if err != nil {
		t.Fatalf("second update failed: %v", err)
	}
	if outcome != OutcomeNoChange {
		t.Errorf("expected no-change outcome, got %s", outcome)
	}
}

func TestUpdateTimestampLayoutEquivalence(t *testing.T) {
	store, _ := newTestStore(t)

	post, err := store.Create(changeset.FieldMap{"title": "Scheduled"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	id := post.ID.String()

	_, outcome, err := store.Update(id, changeset.FieldMap{"published_at": "2026-03-04T10:00"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if outcome != OutcomeUpdated {
		t.Fatalf("expected updated outcome, got %s", outcome)
	}

	// Same instant in RFC 3339 form must compare equal to the stored value.
	_, outcome, err = store.Update(id, changeset.FieldMap{"published_at": "2026-03-04T10:00:00Z"})
	if err != nil {
		t.Fatalf("second update failed: %v", err)
	}
	if outcome != OutcomeNoChange {
		t.Errorf("expected no-change outcome for equivalent timestamp, got %s", outcome)
	}
}
