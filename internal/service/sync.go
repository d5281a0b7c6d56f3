package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ghoplin/internal/config"
	"ghoplin/internal/domain"
)

type SyncService struct {
	state     StateRepository
	source    Source
	tags      TagStore
	ingestor  *NoteIngestor
	resolver  *NotebookResolver
	publisher Publisher
	logger    *slog.Logger
	config    config.SyncConfig
	now       func() time.Time
}

func NewSyncService(
	state StateRepository,
	source Source,
	notes NoteStore,
	tags TagStore,
	notebooks NotebookStore,
	publisher Publisher,
	logger *slog.Logger,
	cfg config.SyncConfig,
) *SyncService {
	return &SyncService{
		state:     state,
		source:    source,
		tags:      tags,
		ingestor:  NewNoteIngestor(notes, cfg.SettleDelay, cfg.ConvertMarkdown, logger),
		resolver:  NewNotebookResolver(notebooks, logger),
		publisher: publisher,
		logger:    logger,
		config:    cfg,
		now:       time.Now,
	}
}

// Sync pulls new posts of every enabled blog into Joplin and saves the state
// once at the end. A failing post or blog is logged and skipped.
func (s *SyncService) Sync(ctx context.Context) (*domain.SyncStats, error) {
	startTime := s.now()
	s.logger.Info("starting sync")

	state, err := s.loadState(ctx)
	if err != nil {
		return nil, err
	}

	tags, err := LoadTagReconciler(ctx, s.tags, s.logger)
	if err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}

	blogs := state.Enabled()
	stats := &domain.SyncStats{
		Blogs:   len(blogs),
		Skipped: len(state.Blogs) - len(blogs),
	}

	for _, blog := range blogs {
		if ctx.Err() != nil {
			break
		}
		newNotes, err := s.syncBlog(ctx, blog, tags, stats)
		stats.New += newNotes
		if err != nil {
			stats.Failed++
			s.logger.Error("an error while updating blog",
				"blog_url", blog.BlogURL,
				"error", err,
			)
		}
	}

	// Progress made before a cancellation is still worth keeping.
	if err := s.state.Save(context.WithoutCancel(ctx), state); err != nil {
		return stats, fmt.Errorf("save state: %w", err)
	}

	stats.Duration = s.now().Sub(startTime)

	s.logger.Info("sync completed",
		"blogs", stats.Blogs,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"fetched", stats.Fetched,
		"new", stats.New,
		"errors", stats.Errors,
		"tag_errors", stats.TagErrors,
		"published", stats.Published,
		"duration", stats.Duration,
	)

	return stats, ctx.Err()
}

// syncBlog ingests the blog's posts in source order. The watermark moves to
// each post right after it has been stored and tagged. Posts are skipped only
// against the watermark the blog had when the run started.
func (s *SyncService) syncBlog(ctx context.Context, blog *domain.BlogState, tags *TagReconciler, stats *domain.SyncStats) (int, error) {
	logger := s.logger.With("blog_url", blog.BlogURL)
	logger.Info("processing blog", "blog_title", blog.Title)

	runStart := s.now().UTC()

	since := blog.LastFetch
	posts, err := s.source.ListPostsSince(ctx, blog.BlogURL, blog.APIKey, since)
	if err != nil {
		return 0, fmt.Errorf("fetch posts: %w", err)
	}
	stats.Fetched += len(posts)

	newNotes := 0
	defer func() { blog.NotesTotal += newNotes }()

	for i := range posts {
		if err := ctx.Err(); err != nil {
			return newNotes, err
		}

		post := posts[i]
		postLogger := logger.With("post_title", post.Title)

		watermark := post.Watermark(runStart)
		if !watermark.After(since) {
			postLogger.Debug("post already ingested", "watermark", watermark)
			continue
		}

		postLogger.Info("adding note")
		noteID, err := s.ingestor.CreateNote(ctx, blog.NotebookID, post)
		if err != nil {
			stats.Errors++
			postLogger.Error("error while processing note", "error", err)
			continue
		}
		newNotes++
		postLogger.Debug("created note", "note_id", noteID)

		if err := sleep(ctx, s.config.NoteDelay); err != nil {
			postLogger.Debug("note delay interrupted", "error", err)
		}

		assigned, failed := tags.EnsureAndAssign(ctx, noteID, post.Tags, blog.AutoTags)
		stats.TagErrors += failed

		blog.Advance(watermark)
		blog.LastFetchedPost = domain.NoteLink(post.Title, noteID)

		s.publish(ctx, postLogger, stats, domain.NoteEvent{
			BlogURL:    blog.BlogURL,
			BlogTitle:  blog.Title,
			NotebookID: blog.NotebookID,
			NoteID:     noteID,
			Title:      post.Title,
			SourceURL:  post.URL,
			Tags:       assigned,
		})
	}

	return newNotes, nil
}

func (s *SyncService) publish(ctx context.Context, logger *slog.Logger, stats *domain.SyncStats, event domain.NoteEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		stats.Errors++
		logger.Warn("failed to publish note event", "note_id", event.NoteID, "error", err)
		return
	}
	stats.Published++
}

// AddBlog registers a new blog after checking that both the notebook and the
// blog can be reached.
func (s *SyncService) AddBlog(ctx context.Context, apiKey, blogURL, notebook string, autoTags []string) (*domain.BlogState, error) {
	switch {
	case strings.TrimSpace(notebook) == "":
		return nil, errors.New("notebook is required")
	case strings.TrimSpace(apiKey) == "":
		return nil, errors.New("api key is required")
	case strings.TrimSpace(blogURL) == "":
		return nil, errors.New("blog url is required")
	}

	state, err := s.loadState(ctx)
	if err != nil {
		return nil, err
	}

	for _, b := range state.Blogs {
		if b.BlogURL == blogURL {
			return nil, fmt.Errorf("%w: %s", domain.ErrBlogAlreadyTracked, blogURL)
		}
	}

	nb, err := s.resolver.Resolve(ctx, notebook)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("found notebook", "notebook_title", nb.Title, "notebook_id", nb.ID)

	title, err := s.source.GetBlogTitle(ctx, blogURL, apiKey)
	if err != nil {
		return nil, fmt.Errorf("contact blog: %w", err)
	}
	s.logger.Info("connected to blog", "blog_title", title, "blog_url", blogURL)

	tags := MergeTags(autoTags)
	if tags == nil {
		tags = []string{}
	}

	state.Blogs = append(state.Blogs, domain.BlogState{
		BlogURL:    blogURL,
		APIKey:     apiKey,
		NotebookID: nb.ID,
		AutoTags:   tags,
		Title:      title,
	})

	if err := s.state.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("save state: %w", err)
	}

	s.logger.Info("added blog", "blog_title", title, "blog_url", blogURL)

	added := state.Blogs[len(state.Blogs)-1]
	return &added, nil
}

// loadState returns the saved state, creating the reserved document on
// first use.
func (s *SyncService) loadState(ctx context.Context) (*domain.SyncState, error) {
	state, err := s.state.Load(ctx)
	if errors.Is(err, domain.ErrConfigNotFound) {
		s.logger.Info("no saved state yet, creating it")
		state, err = s.state.Create(ctx)
		if err != nil {
			return nil, fmt.Errorf("create state: %w", err)
		}
		return state, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	return state, nil
}
