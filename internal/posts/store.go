// Package posts implements the revisioned post store: every real update
// persists a full snapshot of the pre-update record before the change lands,
// and semantically empty updates are detected and skipped entirely.
package posts

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/quillcms/quill/internal/changeset"
	"github.com/quillcms/quill/internal/db"
	apperrors "github.com/quillcms/quill/internal/errors"
	"github.com/quillcms/quill/internal/logging"
	"github.com/quillcms/quill/internal/models"
)

// Identity supplies the acting user id stamped onto version snapshots.
type Identity interface {
	CurrentUserID() string
}

// StaticIdentity is an Identity with a fixed user id, used by the single-admin
// server and by tests.
type StaticIdentity string

// CurrentUserID returns the fixed user id.
func (s StaticIdentity) CurrentUserID() string {
	return string(s)
}

// UpdateOutcome distinguishes a real write from a detected no-op. A no-op is
// a normal outcome, not an error.
type UpdateOutcome string

const (
	OutcomeUpdated  UpdateOutcome = "updated"
	OutcomeNoChange UpdateOutcome = "no_change"
)

// HydratedPost is a post with its side-table associations resolved.
type HydratedPost struct {
	models.Post
	TagIDs   []string `json:"tag_ids"`
	VideoURL string   `json:"youtube_url,omitempty"`
}

// Fields returns the full field map of the hydrated post, the shape stored in
// version snapshots and consumed by the change-set and diff code.
func (p *HydratedPost) Fields() changeset.FieldMap {
	body := p.Body()
	var content interface{} = body.Text()
	if body.IsTyped() {
		content = map[string]interface{}{"format": body.Format, "body": body.Text()}
	}

	tagIDs := make([]interface{}, len(p.TagIDs))
	for i, id := range p.TagIDs {
		tagIDs[i] = id
	}

	return changeset.FieldMap{
		"author_id":       p.AuthorID,
		"title":           p.Title,
		"slug":            p.Slug,
		"excerpt":         p.Excerpt,
		"content":         content,
		"cover_image_url": p.CoverImageURL,
		"category_id":     nilIfEmpty(p.CategoryID),
		"status":          p.Status,
		"published_at":    nilIfEmpty(p.PublishedAt),
		"seo_title":       p.SEOTitle,
		"seo_description": p.SEODescription,
		"canonical_url":   p.CanonicalURL,
		"no_index":        p.NoIndex,
		"tag_ids":         tagIDs,
		"youtube_url":     p.VideoURL,
	}
}

// Store wraps the repository with snapshot-on-update semantics. The storage
// handle is injected at construction; the store holds no global state.
type Store struct {
	repo     *db.Repository
	identity Identity
}

// NewStore creates a Store over the given repository and identity source.
func NewStore(repo *db.Repository, identity Identity) *Store {
	return &Store{repo: repo, identity: identity}
}

// Get loads a post with its tag and video associations resolved.
func (s *Store) Get(id string) (*HydratedPost, error) {
	post, err := s.repo.GetPost(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.New(apperrors.ErrPostNotFound, "post not found: "+id)
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, "failed to load post", err)
	}

	tagIDs, err := s.repo.GetPostTagIDs(id)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, "failed to load post tags", err)
	}
	videoURL, err := s.repo.GetPostVideoURL(id)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, "failed to load post video", err)
	}

	return &HydratedPost{Post: *post, TagIDs: tagIDs, VideoURL: videoURL}, nil
}

// Create inserts a new post and synchronizes any association fields present
// in the payload, then returns the hydrated record. Creation writes no
// snapshot; history begins with the first update.
func (s *Store) Create(payload changeset.FieldMap) (*HydratedPost, error) {
	post, err := postFromPayload(payload)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPostInvalid, "invalid post payload", err)
	}
	if post.AuthorID == "" {
		post.AuthorID = s.identity.CurrentUserID()
	}

	if err := s.repo.CreatePost(post); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, "failed to create post", err)
	}

	id := post.ID.String()
	if raw, ok := payload["tag_ids"]; ok {
		if err := s.repo.ReplacePostTags(id, changeset.StringSlice(raw)); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrStorage, "failed to sync post tags", err)
		}
	}
	if raw, ok := payload["youtube_url"]; ok {
		if err := s.repo.ReplacePostVideo(id, stringValue(raw)); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrStorage, "failed to sync post video", err)
		}
	}

	logging.Info("post created", map[string]interface{}{"post_id": id})
	return s.Get(id)
}

// Update applies a partial payload to a post. The sequence is fixed: load the
// current record, reduce the payload to real changes, and only if something
// differs — capture the pre-update snapshot, then atomically apply the field
// patch, reconcile associations, and append the snapshot to the version
// history. A payload that changes nothing returns the current record with
// OutcomeNoChange and touches nothing.
func (s *Store) Update(id string, payload changeset.FieldMap) (*HydratedPost, UpdateOutcome, error) {
	current, err := s.Get(id)
	if err != nil {
		return nil, "", err
	}
	baseline := current.Fields()

	// Plain-field changes, association keys excluded. Keys that are not
	// patchable columns are ignored rather than rejected.
	plain := changeset.FieldMap{}
	for key, value := range payload {
		if !db.PatchColumn(key) {
			continue
		}
		plain[key] = value
	}
	patch := changeset.Compute(plain, baseline)

	rawTags, hasTags := payload["tag_ids"]
	tagsChanged := hasTags && !changeset.Equal("tag_ids", rawTags, baseline["tag_ids"])

	rawVideo, hasVideo := payload["youtube_url"]
	videoChanged := hasVideo &&
		strings.TrimSpace(stringValue(rawVideo)) != strings.TrimSpace(current.VideoURL)

	if len(patch) == 0 && !tagsChanged && !videoChanged {
		logging.Debug("post update skipped, no changes", map[string]interface{}{"post_id": id})
		return current, OutcomeNoChange, nil
	}

	// Snapshot source is captured before any mutation begins; the history row
	// always shows the record as it stood immediately prior to this change.
	snapshot, err := json.Marshal(baseline)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternal, "failed to encode snapshot", err)
	}

	tx, err := s.repo.Begin()
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrStorage, "failed to begin update", err)
	}
	defer tx.Rollback()

	if len(patch) > 0 {
		if err := s.repo.UpdatePostFieldsTx(tx, id, patch); err != nil {
			return nil, "", apperrors.Wrap(apperrors.ErrStorage, "failed to update post fields", err)
		}
	}
	if hasTags {
		// An explicit empty list means "clear all tags".
		if err := s.repo.ReplacePostTagsTx(tx, id, changeset.StringSlice(rawTags)); err != nil {
			return nil, "", apperrors.Wrap(apperrors.ErrStorage, "failed to sync post tags", err)
		}
	}
	if hasVideo {
		// An explicit empty URL means "remove the video".
		if err := s.repo.ReplacePostVideoTx(tx, id, stringValue(rawVideo)); err != nil {
			return nil, "", apperrors.Wrap(apperrors.ErrStorage, "failed to sync post video", err)
		}
	}

	version := &models.PostVersion{
		PostID:          current.ID,
		AuthorID:        s.identity.CurrentUserID(),
		ContentSnapshot: string(snapshot),
	}
	if err := s.repo.InsertPostVersionTx(tx, version); err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrStorage, "failed to write version snapshot", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrStorage, "failed to commit update", err)
	}

	logging.Info("post updated", map[string]interface{}{
		"post_id":    id,
		"fields":     len(patch),
		"version_id": version.ID.String(),
	})

	updated, err := s.Get(id)
	if err != nil {
		return nil, "", err
	}
	return updated, OutcomeUpdated, nil
}

// ListVersions returns the post's snapshots newest-first. A post with no
// history yields an empty slice, not an error.
func (s *Store) ListVersions(id string) ([]models.PostVersion, error) {
	versions, err := s.repo.ListPostVersions(id)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, "failed to list versions", err)
	}
	return versions, nil
}

// GetVersion returns one snapshot row by version id.
func (s *Store) GetVersion(versionID string) (*models.PostVersion, error) {
	version, err := s.repo.GetPostVersion(versionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.New(apperrors.ErrVersionNotFound, "version not found: "+versionID)
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, "failed to load version", err)
	}
	return version, nil
}

// postFromPayload maps a creation payload onto a Post. Unknown keys are
// ignored on create; the repository rejects them on update.
func postFromPayload(payload changeset.FieldMap) (*models.Post, error) {
	post := &models.Post{}
	for key, value := range payload {
		switch key {
		case "author_id":
			post.AuthorID = stringValue(value)
		case "title":
			post.Title = stringValue(value)
		case "slug":
			post.Slug = stringValue(value)
		case "excerpt":
			post.Excerpt = stringValue(value)
		case "content":
			text, err := contentColumn(value)
			if err != nil {
				return nil, err
			}
			post.Content = text
		case "cover_image_url":
			post.CoverImageURL = stringValue(value)
		case "category_id":
			post.CategoryID = stringValue(value)
		case "status":
			post.Status = stringValue(value)
		case "published_at":
			post.PublishedAt = stringValue(value)
		case "seo_title":
			post.SEOTitle = stringValue(value)
		case "seo_description":
			post.SEODescription = stringValue(value)
		case "canonical_url":
			post.CanonicalURL = stringValue(value)
		case "no_index":
			post.NoIndex = boolValue(value)
		}
	}
	return post, nil
}

// contentColumn serializes a content union value for the content column.
func contentColumn(value interface{}) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case models.Content:
		if !v.IsTyped() {
			return v.Text(), nil
		}
		data, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case map[string]interface{}:
		data, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return "", errors.New("unsupported content value")
}

func stringValue(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func boolValue(v interface{}) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return false
}

func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
