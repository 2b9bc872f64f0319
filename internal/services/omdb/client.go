package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/amaumene/gowatcharr/internal/config"
	"github.com/amaumene/gowatcharr/internal/metrics"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNotFound is a logical failure: the API answered but knows no such title
	ErrNotFound = errors.New("not found on OMDb")
	// ErrAPIError is any other logical failure reported via the Response flag
	ErrAPIError = errors.New("OMDb API error")
)

// Client wraps direct OMDb API HTTP calls. All operations share one endpoint
// and differ only by query parameters; a well-formed response can still be a
// logical failure, signalled by Response == "False".
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new OMDb client
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	if cfg.OMDbURL == "" {
		return nil, fmt.Errorf("OMDb URL is required")
	}
	if cfg.OMDbAPIKey == "" {
		return nil, fmt.Errorf("OMDb API key is required")
	}

	return &Client{
		baseURL: cfg.OMDbURL,
		apiKey:  cfg.OMDbAPIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}, nil
}

// Search performs a title search. mediaType may be "movie", "series" or empty for both.
func (c *Client) Search(ctx context.Context, title, mediaType string) (results []SearchResult, err error) {
	defer func() { metrics.RemoteRequests.WithLabelValues("search", outcome(err)).Inc() }()

	params := url.Values{}
	params.Set("s", title)
	if mediaType != "" {
		params.Set("type", mediaType)
	}

	var response searchResponse
	if err = c.get(ctx, params, &response); err != nil {
		return nil, err
	}
	if err = logicalError(response.Response, response.Error); err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"title": title,
		"count": len(response.Search),
	}).Debug("OMDb search completed")

	return response.Search, nil
}

// GetByID fetches the full detail of a title or episode by external ID
func (c *Client) GetByID(ctx context.Context, imdbID string) (detail *Detail, err error) {
	defer func() { metrics.RemoteRequests.WithLabelValues("detail", outcome(err)).Inc() }()

	params := url.Values{}
	params.Set("i", imdbID)
	params.Set("plot", "full")

	var response Detail
	if err = c.get(ctx, params, &response); err != nil {
		return nil, err
	}
	if err = logicalError(response.Response, response.Error); err != nil {
		return nil, err
	}

	return &response, nil
}

// GetSeason fetches the episode listing of one season of a series
func (c *Client) GetSeason(ctx context.Context, imdbID string, season int) (result *Season, err error) {
	defer func() { metrics.RemoteRequests.WithLabelValues("season", outcome(err)).Inc() }()

	params := url.Values{}
	params.Set("i", imdbID)
	params.Set("Season", strconv.Itoa(season))

	var response Season
	if err = c.get(ctx, params, &response); err != nil {
		return nil, err
	}
	if err = logicalError(response.Response, response.Error); err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"imdb_id":  imdbID,
		"season":   season,
		"episodes": len(response.Episodes),
	}).Debug("OMDb season fetch completed")

	return &response, nil
}

// get performs the parameterized fetch against the single OMDb endpoint
func (c *Client) get(ctx context.Context, params url.Values, result interface{}) error {
	apiURL, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("invalid OMDb URL: %w", err)
	}

	params.Set("apikey", c.apiKey)
	apiURL.RawQuery = params.Encode()
	finalURL := apiURL.String()

	c.logger.WithField("url", finalURL).Debug("Performing OMDb request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, finalURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "gowatcharr/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("OMDb API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"body":        string(body),
		}).Error("OMDb API returned non-OK status")
		return fmt.Errorf("OMDb API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to parse OMDb response: %w", err)
	}

	return nil
}

// logicalError maps a "False" response flag to a typed error
func logicalError(response, message string) error {
	if response != "False" {
		return nil
	}
	if strings.Contains(message, "not found") || message == "Incorrect IMDb ID." {
		return fmt.Errorf("%w: %s", ErrNotFound, message)
	}
	return fmt.Errorf("%w: %s", ErrAPIError, message)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAPIError):
		return "api_error"
	default:
		return "transport_error"
	}
}

// FieldOrNil converts an OMDb string field to an optional value,
// treating "N/A" and empty strings as absent
func FieldOrNil(value string) *string {
	if value == "" || value == "N/A" {
		return nil
	}
	return &value
}
