// Package tmdb is the outbound client for The Movie Database API. Calls are plain
// request/response: no retries and no caching.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"movie-explorer/internal/data/entity"
	"movie-explorer/pkg/utils"

	"go.uber.org/zap"
)

const (
	defaultBaseURL      = "https://api.themoviedb.org/3"
	defaultImageBaseURL = "https://image.tmdb.org/t/p"
	defaultImageSize    = "w500"
	detailsAppend       = "credits,videos,similar"
	maxErrorBody        = 512
)

var categories = map[string]string{
	"popular":     "/movie/popular",
	"top_rated":   "/movie/top_rated",
	"upcoming":    "/movie/upcoming",
	"now_playing": "/movie/now_playing",
}

var imageSizes = map[string]bool{
	"w200":     true,
	"w500":     true,
	"original": true,
}

// StatusError is returned when TMDB answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tmdb returned status %d: %s", e.Code, e.Body)
}

type Client struct {
	baseURL      string
	imageBaseURL string
	apiKey       string
	httpClient   *http.Client
	log          *zap.Logger
}

// New builds a client. A zero timeout in config leaves requests bounded only by
// the caller's context.
func New(config utils.TMDBConfig, log *zap.Logger) *Client {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	imageBaseURL := strings.TrimRight(config.ImageBaseURL, "/")
	if imageBaseURL == "" {
		imageBaseURL = defaultImageBaseURL
	}

	return &Client{
		baseURL:      baseURL,
		imageBaseURL: imageBaseURL,
		apiKey:       config.APIKey,
		httpClient:   &http.Client{Timeout: config.Timeout},
		log:          log.With(zap.String("gateway", "tmdb")),
	}
}

// Trending returns this week's trending movies.
func (c *Client) Trending(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/trending/movie/week", nil)
}

// Search runs a title search with adult titles excluded.
func (c *Client) Search(ctx context.Context, query string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")
	return c.get(ctx, "/search/movie", params)
}

// Details returns one movie with credits, videos and similar movies appended.
func (c *Client) Details(ctx context.Context, id int) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("append_to_response", detailsAppend)
	return c.get(ctx, "/movie/"+strconv.Itoa(id), params)
}

// Category lists popular, top_rated, upcoming or now_playing movies; any other
// name lists popular ones.
func (c *Client) Category(ctx context.Context, name string) (json.RawMessage, error) {
	return c.get(ctx, CategoryPath(name), nil)
}

// Movie decodes the details of one movie into the stored subset.
func (c *Client) Movie(ctx context.Context, id int) (*entity.Movie, error) {
	body, err := c.Details(ctx, id)
	if err != nil {
		return nil, err
	}

	var movie entity.Movie
	if err := json.Unmarshal(body, &movie); err != nil {
		return nil, fmt.Errorf("decode movie %d: %w", id, err)
	}
	return &movie, nil
}

// ImageURL builds a CDN URL for a stored image path. Unknown sizes use w500; an
// empty path gives an empty URL.
func (c *Client) ImageURL(path, size string) string {
	return ImageURL(c.imageBaseURL, path, size)
}

func ImageURL(base, path, size string) string {
	if path == "" {
		return ""
	}
	if !imageSizes[size] {
		size = defaultImageSize
	}
	if base == "" {
		base = defaultImageBaseURL
	}
	return base + "/" + size + path
}

func CategoryPath(name string) string {
	if path, ok := categories[name]; ok {
		return path
	}
	return categories["popular"]
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("TMDB request failed", zap.Error(err), zap.String("path", path))
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.log.Warn("TMDB returned error status",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return nil, &StatusError{Code: resp.StatusCode, Body: string(snippet)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response %s: %w", path, err)
	}
	return body, nil
}
