package acl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/quotevault/quotevault/internal/adapters/clients"
	"github.com/quotevault/quotevault/internal/domain"
	"github.com/quotevault/quotevault/internal/platform/logging"
)

// placeholderText substitutes feed records whose title is empty or
// whitespace; the record still syncs so its id stays reserved.
const placeholderText = "(untitled)"

// feedCategory is the category assigned to every feed record.
const feedCategory = "server"

// FeedClientConfig contains configuration for the feed client.
type FeedClientConfig struct {
	// Client is the HTTP client to use for requests.
	// The client's BaseURL should be set to the feed endpoint.
	Client *clients.Client

	// Path is the feed resource path, e.g. "/posts".
	Path string

	// Limit caps the number of records fetched per cycle. There is no
	// pagination beyond this fixed fetch size.
	Limit int

	// Logger is the structured logger.
	Logger *slog.Logger
}

// FeedClient implements ports.QuoteFeed against a JSON feed of
// {id, title} records. It demonstrates the ACL pattern: the external
// shape is translated to quote-shaped records and pushed through the
// domain normalizer, so everything it returns satisfies the collection
// invariants.
type FeedClient struct {
	client *clients.Client
	path   string
	limit  int
	logger *slog.Logger
}

// NewFeedClient creates a new feed client adapter.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewFeedClient(cfg FeedClientConfig) *FeedClient {
	if cfg.Client == nil {
		panic("FeedClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &FeedClient{
		client: cfg.Client,
		path:   cfg.Path,
		limit:  cfg.Limit,
		logger: logger,
	}
}

// feedItem is the external DTO from the feed API.
// This is an internal type - never exposed outside the ACL.
type feedItem struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Fetch retrieves the feed and returns its records as normalized
// quotes with server provenance.
// Implements ports.QuoteFeed.
func (c *FeedClient) Fetch(ctx context.Context) ([]domain.Quote, error) {
	path := c.path
	if c.limit > 0 {
		path = fmt.Sprintf("%s?_limit=%d", c.path, c.limit)
	}

	c.logger.Log(ctx, logging.LevelTrace, "starting request", slog.String("path", path))
	c.logger.DebugContext(ctx, "fetching quote feed")

	resp, err := c.client.Get(ctx, path)
	if err != nil {
		return nil, MapHTTPError(nil, err, "quote-feed", "fetch feed", "")
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Log(ctx, logging.LevelTrace, "request complete",
		slog.String("path", path),
		slog.Int("status", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		return nil, MapHTTPError(resp, nil, "quote-feed", "fetch feed", "")
	}

	return c.parseFeedResponse(ctx, resp.Body)
}

// parseFeedResponse reads the external DTOs and translates them to
// domain quotes. This is the core ACL translation function.
func (c *FeedClient) parseFeedResponse(ctx context.Context, body io.Reader) ([]domain.Quote, error) {
	var items []feedItem

	err := json.NewDecoder(body).Decode(&items)
	if err != nil {
		return nil, fmt.Errorf("decoding feed response: %w", err)
	}

	quotes, dropped := domain.Normalize(c.translateToRecords(items), domain.SourceServer)

	c.logger.Log(ctx, logging.LevelTrace, "translated feed DTOs to domain",
		slog.Int("fetched", len(items)),
		slog.Int("quotes", len(quotes)),
		slog.Int("dropped", dropped))

	return quotes, nil
}

// translateToRecords maps feed items to quote-shaped records: the
// numeric feed id becomes "server-<id>", the title becomes the text
// (or a placeholder when blank), and every record is tagged with the
// server category.
func (c *FeedClient) translateToRecords(items []feedItem) []any {
	records := make([]any, 0, len(items))

	for _, item := range items {
		text := strings.TrimSpace(item.Title)
		if text == "" {
			text = placeholderText
		}

		records = append(records, map[string]any{
			"id":       "server-" + strconv.FormatInt(item.ID, 10),
			"text":     text,
			"category": feedCategory,
			"source":   string(domain.SourceServer),
		})
	}

	return records
}

// Name returns the health check name for this client.
// Implements ports.HealthChecker.
func (c *FeedClient) Name() string {
	return "quote-feed"
}

// Check performs a health check by fetching a single feed record.
// Implements ports.HealthChecker.
func (c *FeedClient) Check(ctx context.Context) error {
	resp, err := c.client.Get(ctx, c.path+"?_limit=1")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("feed API returned status %d", resp.StatusCode)
	}

	return nil
}
