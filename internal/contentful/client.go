// Package contentful reads game pages from the Contentful Delivery API and
// creates them through the Management API.
package contentful

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/meur/gamelib/internal/models"
)

const (
	DefaultDeliveryURL   = "https://cdn.contentful.com"
	DefaultManagementURL = "https://api.contentful.com"
	DefaultEnvironment   = "master"
	DefaultContentType   = "gamePage"
	DefaultLocale        = "en-US"

	userAgent = "gamelib/1.0"

	// Contentful caps page size at 1000.
	pageLimit = 1000
	// Stop paginating past this many skipped entries.
	maxSkip = 50000

	deliveryRequestsPerSecond   = 50
	managementRequestsPerSecond = 7
)

// Config holds the space credentials
type Config struct {
	SpaceID         string
	Environment     string
	AccessToken     string
	ManagementToken string
	ContentType     string
	Locale          string
	DeliveryURL     string
	ManagementURL   string
	Publish         bool
	Timeout         time.Duration
}

// Client talks to one Contentful space
type Client struct {
	httpClient *http.Client
	cfg        Config
	cdaLimiter *rate.Limiter
	cmaLimiter *rate.Limiter
}

// NewClient creates a client, filling unset config with defaults
func NewClient(cfg Config) *Client {
	if cfg.Environment == "" {
		cfg.Environment = DefaultEnvironment
	}
	if cfg.ContentType == "" {
		cfg.ContentType = DefaultContentType
	}
	if cfg.Locale == "" {
		cfg.Locale = DefaultLocale
	}
	if cfg.DeliveryURL == "" {
		cfg.DeliveryURL = DefaultDeliveryURL
	}
	if cfg.ManagementURL == "" {
		cfg.ManagementURL = DefaultManagementURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	cfg.DeliveryURL = strings.TrimRight(cfg.DeliveryURL, "/")
	cfg.ManagementURL = strings.TrimRight(cfg.ManagementURL, "/")

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		cdaLimiter: rate.NewLimiter(rate.Limit(deliveryRequestsPerSecond), deliveryRequestsPerSecond),
		cmaLimiter: rate.NewLimiter(rate.Limit(managementRequestsPerSecond), managementRequestsPerSecond),
	}
}

// ContentType returns the configured game page content type id
func (c *Client) ContentType() string {
	return c.cfg.ContentType
}

func (c *Client) spacePath() string {
	return "/spaces/" + url.PathEscape(c.cfg.SpaceID) + "/environments/" + url.PathEscape(c.cfg.Environment)
}

// doJSON performs a request and decodes a 2xx body into out.
func (c *Client) doJSON(ctx context.Context, limiter *rate.Limiter, req *http.Request, out any) error {
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit error: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr ErrorResponse
		if json.Unmarshal(b, &apiErr) == nil && apiErr.Message != "" {
			return &APIError{Status: resp.StatusCode, ID: apiErr.Sys.ID, Message: apiErr.Message}
		}
		return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(b))}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) deliveryRequest(ctx context.Context, params url.Values) (*EntriesResponse, error) {
	endpoint := c.cfg.DeliveryURL + c.spacePath() + "/entries?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)

	var page EntriesResponse
	if err := c.doJSON(ctx, c.cdaLimiter, req, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetEntries fetches every entry of contentType, following pagination
func (c *Client) GetEntries(ctx context.Context, contentType string) ([]models.Game, error) {
	var games []models.Game
	skip := 0
	for {
		params := url.Values{}
		params.Set("content_type", contentType)
		params.Set("limit", strconv.Itoa(pageLimit))
		params.Set("skip", strconv.Itoa(skip))
		params.Set("include", "1")

		page, err := c.deliveryRequest(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("get entries (skip %d): %w", skip, err)
		}

		assets := indexAssets(page.Includes.Asset)
		for _, e := range page.Items {
			games = append(games, toGame(e, assets))
		}

		skip += len(page.Items)
		if len(page.Items) == 0 || skip >= page.Total || skip > maxSkip {
			break
		}
	}
	if games == nil {
		games = []models.Game{}
	}
	return games, nil
}

// GetEntry fetches one entry by id, or nil when it does not exist
func (c *Client) GetEntry(ctx context.Context, id string) (*models.Game, error) {
	params := url.Values{}
	params.Set("sys.id", id)
	params.Set("include", "1")

	page, err := c.deliveryRequest(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("get entry %s: %w", id, err)
	}
	if len(page.Items) == 0 {
		return nil, nil
	}
	g := toGame(page.Items[0], indexAssets(page.Includes.Asset))
	return &g, nil
}

// ListGames implements catalog.Source
func (c *Client) ListGames(ctx context.Context) ([]models.Game, error) {
	return c.GetEntries(ctx, c.cfg.ContentType)
}

// GetGame implements catalog.Source
func (c *Client) GetGame(ctx context.Context, id string) (*models.Game, error) {
	return c.GetEntry(ctx, id)
}

// AddGame creates a game page entry from the admin form
func (c *Client) AddGame(ctx context.Context, in models.GameCreate) (string, error) {
	return c.CreateEntry(ctx, c.cfg.ContentType, in)
}

// CreateEntry creates an entry of contentType through the Management API and
// returns its id. The entry is published when the client is configured to.
func (c *Client) CreateEntry(ctx context.Context, contentType string, in models.GameCreate) (string, error) {
	if c.cfg.ManagementToken == "" {
		return "", ErrNoManagementToken
	}

	body, err := json.Marshal(map[string]any{"fields": c.localizedFields(in)})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	endpoint := c.cfg.ManagementURL + c.spacePath() + "/entries"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	c.managementHeaders(req)
	req.Header.Set("X-Contentful-Content-Type", contentType)

	var created Entry
	if err := c.doJSON(ctx, c.cmaLimiter, req, &created); err != nil {
		return "", fmt.Errorf("create entry: %w", err)
	}

	if c.cfg.Publish {
		if err := c.publish(ctx, created.Sys.ID, created.Sys.Version); err != nil {
			return created.Sys.ID, err
		}
	}
	return created.Sys.ID, nil
}

func (c *Client) publish(ctx context.Context, id string, version int) error {
	endpoint := c.cfg.ManagementURL + c.spacePath() + "/entries/" + url.PathEscape(id) + "/published"
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.managementHeaders(req)
	req.Header.Set("X-Contentful-Version", strconv.Itoa(version))

	if err := c.doJSON(ctx, c.cmaLimiter, req, nil); err != nil {
		return fmt.Errorf("publish entry %s: %w", id, err)
	}
	return nil
}

func (c *Client) managementHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.cfg.ManagementToken)
	req.Header.Set("Content-Type", "application/vnd.contentful.management.v1+json")
}

// localizedFields wraps every set field in the configured locale
func (c *Client) localizedFields(in models.GameCreate) map[string]any {
	loc := func(v any) map[string]any { return map[string]any{c.cfg.Locale: v} }

	fields := map[string]any{
		"title":       loc(in.Title),
		"masterpiece": loc(in.Masterpiece),
	}
	if in.CoverAssetID != "" {
		fields["cover"] = loc(map[string]any{
			"sys": map[string]any{"type": "Link", "linkType": "Asset", "id": in.CoverAssetID},
		})
	}
	if in.Rating != nil {
		fields["rating"] = loc(*in.Rating)
	}
	if in.Platform != "" {
		fields["platform"] = loc(in.Platform)
	}
	if in.Category != "" {
		fields["category"] = loc(in.Category)
	}
	if len(in.Friends) > 0 {
		fields["friends"] = loc(in.Friends)
	}
	for i, link := range in.ExternalLinks {
		if i >= 2 {
			break
		}
		fields["externalLink"+strconv.Itoa(i+1)] = loc(link)
	}
	for i, video := range in.VideoReviews {
		if i >= 3 {
			break
		}
		key := "videoReview"
		if i > 0 {
			key += strconv.Itoa(i + 1)
		}
		fields[key] = loc(video)
	}
	if strings.TrimSpace(in.Review) != "" {
		fields["article"] = loc(PlainDocument(in.Review))
	}
	return fields
}

func indexAssets(assets []Asset) map[string]Asset {
	out := make(map[string]Asset, len(assets))
	for _, a := range assets {
		out[a.Sys.ID] = a
	}
	return out
}

// toGame maps an entry onto the catalog model, resolving its cover link
func toGame(e Entry, assets map[string]Asset) models.Game {
	f := e.Fields
	g := models.Game{
		ID:          e.Sys.ID,
		Title:       strings.TrimSpace(f.Title),
		Platform:    f.Platform,
		Rating:      f.Rating,
		Masterpiece: f.Masterpiece,
		Category:    f.Category,
		Friends:     f.Friends,
		Article:     f.Article,
		UpdatedAt:   e.Sys.UpdatedAt,
	}
	if f.Cover != nil {
		if a, ok := assets[f.Cover.Sys.ID]; ok {
			g.CoverURL = AssetURL(a.Fields.File.URL)
		}
	}
	for _, l := range []string{f.ExternalLink1, f.ExternalLink2} {
		if l != "" {
			g.ExternalLinks = append(g.ExternalLinks, l)
		}
	}
	for _, v := range []string{f.VideoReview, f.VideoReview2, f.VideoReview3} {
		if v != "" {
			g.VideoReviews = append(g.VideoReviews, v)
		}
	}
	return g
}

// AssetURL turns Contentful's protocol-relative asset URLs into https URLs
func AssetURL(u string) string {
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	return u
}
