package ghost

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"ghoplin/internal/domain"
)

// filterLayout is the timestamp format used inside NQL filters.
const filterLayout = "2006-01-02T15:04:05"

// Config holds Ghost source configuration.
type Config struct {
	APIPath           string
	Timeout           time.Duration
	RequestsPerSecond float64
}

// Source reads posts from Ghost blogs through the Content API.
type Source struct {
	httpClient  *http.Client
	apiPath     string
	rateLimiter *rate.Limiter
	logger      *slog.Logger
}

// New creates a new Ghost source.
func New(cfg Config, logger *slog.Logger) *Source {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &Source{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		apiPath:     strings.Trim(cfg.APIPath, "/"),
		rateLimiter: rate.NewLimiter(limit, 1),
		logger:      logger.With("source", "ghost"),
	}
}

// ListPostsSince returns posts updated after since, oldest first.
func (s *Source) ListPostsSince(ctx context.Context, blogURL, apiKey string, since time.Time) ([]domain.Post, error) {
	query := url.Values{
		"include": {"tags,authors"},
		"limit":   {"all"},
		"filter":  {fmt.Sprintf("updated_at:>'%s'", since.UTC().Format(filterLayout))},
		"order":   {"updated_at asc"},
	}

	var resp postsResponse
	if err := s.get(ctx, blogURL, apiKey, "posts/", query, &resp); err != nil {
		return nil, err
	}

	s.logger.Debug("fetched posts", "blog_url", blogURL, "count", len(resp.Posts), "since", since)

	return s.transform(resp.Posts), nil
}

// GetBlogTitle returns the blog's configured title.
func (s *Source) GetBlogTitle(ctx context.Context, blogURL, apiKey string) (string, error) {
	var resp settingsResponse
	if err := s.get(ctx, blogURL, apiKey, "settings/", nil, &resp); err != nil {
		return "", err
	}
	if resp.Settings == nil {
		return "", fmt.Errorf("%w: %s: %w: settings missing", domain.ErrSourceUnreachable, blogURL, domain.ErrMalformedResponse)
	}
	return resp.Settings.Title, nil
}

func (s *Source) get(ctx context.Context, blogURL, apiKey, resource string, query url.Values, out any) error {
	if strings.TrimSpace(blogURL) == "" || strings.TrimSpace(apiKey) == "" {
		return fmt.Errorf("%w: blog URL and API key must be set", domain.ErrSourceUnreachable)
	}

	endpoint, err := url.Parse(blogURL)
	if err != nil {
		return fmt.Errorf("%w: parse blog url: %w", domain.ErrSourceUnreachable, err)
	}
	endpoint = endpoint.JoinPath(s.apiPath, resource)
	if !strings.HasSuffix(endpoint.Path, "/") {
		endpoint.Path += "/"
	}

	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	q.Set("key", apiKey)
	endpoint.RawQuery = q.Encode()

	if err := s.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("%w: create request: %w", domain.ErrSourceUnreachable, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Ghoplin/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrSourceUnreachable, blogURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s: unexpected status: %d", domain.ErrSourceUnreachable, blogURL, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: decode response: %w", domain.ErrSourceUnreachable, blogURL, err)
	}

	return nil
}

func (s *Source) transform(posts []apiPost) []domain.Post {
	result := make([]domain.Post, 0, len(posts))

	for _, p := range posts {
		post := domain.Post{
			Title:       p.Title,
			HTML:        p.HTML,
			URL:         p.URL,
			PublishedAt: s.parseTime(p.ID, "published_at", p.PublishedAt),
			UpdatedAt:   s.parseTime(p.ID, "updated_at", p.UpdatedAt),
		}

		for _, tag := range p.Tags {
			post.Tags = append(post.Tags, tag.Name)
		}

		result = append(result, post)
	}

	return result
}

func (s *Source) parseTime(postID, field string, value *string) *time.Time {
	if value == nil || *value == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		s.logger.Warn("failed to parse date",
			"post_id", postID,
			"field", field,
			"value", *value,
		)
		return nil
	}
	t = t.UTC()
	return &t
}
