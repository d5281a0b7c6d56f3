package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ghoplin/internal/domain"
)

// TagReconciler caches the tags of one sync run so each distinct tag name is
// created at most once. It is not safe for concurrent use.
type TagReconciler struct {
	tags   TagStore
	cache  map[string]domain.Tag
	logger *slog.Logger
}

// LoadTagReconciler reads every tag page into a fresh cache.
func LoadTagReconciler(ctx context.Context, tags TagStore, logger *slog.Logger) (*TagReconciler, error) {
	r := &TagReconciler{
		tags:   tags,
		cache:  make(map[string]domain.Tag),
		logger: logger,
	}

	for page := 1; ; page++ {
		items, hasMore, err := tags.ListTags(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("list tags page %d: %w", page, err)
		}
		for _, tag := range items {
			key := NormalizeTag(tag.Title)
			if _, seen := r.cache[key]; !seen {
				r.cache[key] = tag
			}
		}
		if !hasMore {
			break
		}
	}

	logger.Debug("loaded tags", "count", len(r.cache))
	return r, nil
}

// Len returns the number of cached tags.
func (r *TagReconciler) Len() int {
	return len(r.cache)
}

// Lookup returns the cached tag for name.
func (r *TagReconciler) Lookup(name string) (domain.Tag, bool) {
	tag, ok := r.cache[NormalizeTag(name)]
	return tag, ok
}

// EnsureAndAssign attaches the union of postTags and autoTags to the note,
// creating missing tags. Failures are logged per tag and counted; they never
// stop the remaining tags.
func (r *TagReconciler) EnsureAndAssign(ctx context.Context, noteID string, postTags, autoTags []string) (assigned []string, failed int) {
	for _, name := range MergeTags(postTags, autoTags) {
		logger := r.logger.With("tag", name, "note_id", noteID)

		tag, ok := r.cache[name]
		if !ok {
			logger.Debug("creating tag")
			created, err := r.tags.CreateTag(ctx, name)
			if err != nil {
				logger.Error("tag creation failed", "error", err)
				failed++
				continue
			}
			tag = created
			r.cache[name] = tag
		}

		if err := r.tags.AssignTag(ctx, tag.ID, noteID); err != nil {
			logger.Error("tag assignment failed", "tag_id", tag.ID,
				"error", fmt.Errorf("%w: %w", domain.ErrTagAssignmentFailed, err))
			failed++
			continue
		}
		assigned = append(assigned, name)
	}
	return assigned, failed
}

// NormalizeTag lowercases and trims a tag name. Joplin stores tag titles in
// lower case, so this is the identity used for matching.
func NormalizeTag(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// MergeTags returns the normalized, de-duplicated union of the given lists in
// first-seen order. Blank names are dropped.
func MergeTags(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var merged []string
	for _, list := range lists {
		for _, name := range list {
			key := NormalizeTag(name)
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, key)
		}
	}
	return merged
}
