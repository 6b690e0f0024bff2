// ABOUTME: Publishes and restores corpus snapshots through charm KV
// ABOUTME: A manifest per model records code order; entries hold course and vector
package charm

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/harper/course-recommender/internal/models"
)

// ErrNoSnapshot is returned when no manifest exists for a model
var ErrNoSnapshot = errors.New("no snapshot published for model")

// Manifest lists the courses of a published snapshot in corpus order
type Manifest struct {
	Model     string    `json:"model"`
	Dimension int       `json:"dimension"`
	Codes     []string  `json:"codes"`
	PushedAt  time.Time `json:"pushed_at"`
}

// PushSnapshot writes every entry and the manifest, removes entries no longer
// in the snapshot, then syncs
func (c *Client) PushSnapshot(ctx context.Context, snap models.CorpusSnapshot) (*Manifest, error) {
	if snap.Model == "" {
		return nil, errors.New("snapshot has no model")
	}
	if len(snap.Entries) == 0 {
		return nil, errors.New("snapshot has no entries")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	m := &Manifest{
		Model:     snap.Model,
		Dimension: len(snap.Entries[0].Vector),
		Codes:     make([]string, 0, len(snap.Entries)),
		PushedAt:  time.Now().UTC(),
	}
	for _, e := range snap.Entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := c.setJSON(CourseKey(snap.Model, e.Course.Code), e); err != nil {
			return nil, err
		}
		m.Codes = append(m.Codes, e.Course.Code)
	}

	existing, err := c.listKeys(CourseKey(snap.Model, ""))
	if err != nil {
		return nil, err
	}
	for _, key := range existing {
		code := strings.TrimPrefix(key, CourseKey(snap.Model, ""))
		if slices.Contains(m.Codes, code) {
			continue
		}
		if err := c.store.Delete([]byte(key)); err != nil {
			return nil, fmt.Errorf("failed to delete key %s: %w", key, err)
		}
	}

	if err := c.setJSON(ManifestKey(snap.Model), m); err != nil {
		return nil, err
	}
	if err := c.syncIfEnabled(); err != nil {
		return nil, fmt.Errorf("failed to sync: %w", err)
	}
	return m, nil
}

// PullSnapshot syncs and rebuilds the snapshot of model in manifest order
func (c *Client) PullSnapshot(ctx context.Context, model string) (models.CorpusSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.syncIfEnabled(); err != nil {
		return models.CorpusSnapshot{}, fmt.Errorf("failed to sync: %w", err)
	}

	m, err := c.manifest(model)
	if err != nil {
		return models.CorpusSnapshot{}, err
	}

	snap := models.CorpusSnapshot{Model: model, Entries: make([]models.SnapshotEntry, 0, len(m.Codes))}
	for _, code := range m.Codes {
		if err := ctx.Err(); err != nil {
			return models.CorpusSnapshot{}, err
		}
		var e models.SnapshotEntry
		if err := c.getJSON(CourseKey(model, code), &e); err != nil {
			return models.CorpusSnapshot{}, fmt.Errorf("snapshot entry %s: %w", code, err)
		}
		snap.Entries = append(snap.Entries, e)
	}
	return snap, nil
}

// Manifests lists every published snapshot manifest, sorted by model
func (c *Client) Manifests() ([]Manifest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys, err := c.listKeys(ManifestPrefix)
	if err != nil {
		return nil, err
	}
	out := make([]Manifest, 0, len(keys))
	for _, key := range keys {
		var m Manifest
		if err := c.getJSON(key, &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (c *Client) manifest(model string) (*Manifest, error) {
	keys, err := c.listKeys(ManifestKey(model))
	if err != nil {
		return nil, err
	}
	if !slices.Contains(keys, ManifestKey(model)) {
		return nil, fmt.Errorf("%w %s", ErrNoSnapshot, model)
	}
	var m Manifest
	if err := c.getJSON(ManifestKey(model), &m); err != nil {
		return nil, err
	}
	return &m, nil
}
