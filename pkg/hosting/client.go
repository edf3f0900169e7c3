// Package hosting provides the client for the pathway hosting API.
//
// The hosting service stores deployed pathways and serves them to the voice
// agent runtime. This client covers the endpoints the pipeline needs:
// listing hosted pathways, fetching a pathway document, creating a pathway,
// and pushing an updated document.
//
// Read operations are cached through [httputil.Cache] and retried with
// exponential backoff; writes are never cached. HTTP status codes are mapped
// to structured error codes so callers can branch on [errors.GetCode].
package hosting

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	pferrors "github.com/pathforge/pathforge/pkg/errors"
	"github.com/pathforge/pathforge/pkg/httputil"
	"github.com/pathforge/pathforge/pkg/observability"
	"github.com/pathforge/pathforge/pkg/pathway"
)

// DefaultBaseURL is the production hosting endpoint.
const DefaultBaseURL = "https://api.bland.ai"

// DefaultTimeout bounds a single HTTP request.
const DefaultTimeout = 10 * time.Second

// Options configures a hosting client.
type Options struct {
	// BaseURL is the hosting API root. Defaults to DefaultBaseURL.
	BaseURL string

	// Token authenticates requests. Required.
	Token string

	// Cache stores GET responses. Nil disables response caching.
	Cache *httputil.Cache

	// Timeout bounds a single request. Defaults to DefaultTimeout.
	Timeout time.Duration

	// Logger receives request-level debug logs.
	Logger *log.Logger
}

// ValidateAndSetDefaults checks required fields and applies defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Token == "" {
		return pferrors.New(pferrors.ErrCodeUnauthorized, "hosting API token is required")
	}
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if _, err := url.Parse(o.BaseURL); err != nil {
		return pferrors.Wrap(pferrors.ErrCodeInvalidInput, err, "invalid base URL %q", o.BaseURL)
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// Client talks to the pathway hosting API.
type Client struct {
	http  *http.Client
	opts  Options
	cache *httputil.Cache
}

// NewClient creates a hosting client.
func NewClient(opts Options) (*Client, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &Client{
		http:  &http.Client{Timeout: opts.Timeout},
		opts:  opts,
		cache: opts.Cache,
	}, nil
}

// =============================================================================
// API Types
// =============================================================================

// Summary describes a hosted pathway in listings.
type Summary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Document is the hosted representation of a pathway.
type Document struct {
	ID          string           `json:"id,omitempty"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Pathway     *pathway.Pathway `json:"pathway,omitempty"`
}

type createRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type createResponse struct {
	Status    string `json:"status"`
	PathwayID string `json:"pathway_id"`
}

type updateRequest struct {
	Name        string                   `json:"name"`
	Description string                   `json:"description,omitempty"`
	Nodes       map[string]*pathway.Node `json:"nodes"`
	Edges       map[string]*pathway.Edge `json:"edges"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// =============================================================================
// Operations
// =============================================================================

// List fetches the summaries of all hosted pathways.
func (c *Client) List(ctx context.Context, refresh bool) ([]Summary, error) {
	var out []Summary
	err := c.cached(ctx, "hosted:list", refresh, &out, func() error {
		return c.getJSON(ctx, "/v1/pathway", &out)
	})
	return out, err
}

// Get fetches one hosted pathway document by ID.
func (c *Client) Get(ctx context.Context, id string, refresh bool) (*Document, error) {
	if err := pferrors.ValidatePathwayID(id); err != nil {
		return nil, err
	}
	var doc Document
	err := c.cached(ctx, "pathways:"+id, refresh, &doc, func() error {
		return c.getJSON(ctx, "/v1/pathway/"+url.PathEscape(id), &doc)
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Create registers a new named pathway and returns its hosted ID.
func (c *Client) Create(ctx context.Context, name, description string) (string, error) {
	if err := pferrors.ValidatePathwayName(name); err != nil {
		return "", err
	}
	var resp createResponse
	err := c.postJSON(ctx, "/v1/pathway/create", createRequest{Name: name, Description: description}, &resp)
	if err != nil {
		return "", err
	}
	if resp.PathwayID == "" {
		return "", pferrors.New(pferrors.ErrCodeInternal, "hosting returned no pathway id")
	}
	return resp.PathwayID, nil
}

// Update pushes a pathway document to an existing hosted pathway. The cached
// copy of the document is replaced so the next Get sees the new version.
func (c *Client) Update(ctx context.Context, id string, doc Document) error {
	if err := pferrors.ValidatePathwayID(id); err != nil {
		return err
	}
	if doc.Pathway == nil {
		return pferrors.New(pferrors.ErrCodeInvalidPathway, "document has no pathway")
	}
	req := updateRequest{
		Name:        doc.Name,
		Description: doc.Description,
		Nodes:       doc.Pathway.Nodes,
		Edges:       doc.Pathway.Edges,
	}
	var resp statusResponse
	if err := c.postJSON(ctx, "/v1/pathway/"+url.PathEscape(id), req, &resp); err != nil {
		return err
	}
	if c.cache != nil {
		doc.ID = id
		_ = c.cache.Set("pathways:"+id, doc)
	}
	return nil
}

// =============================================================================
// Transport
// =============================================================================

// cached retrieves a value from cache or executes fetch and caches the result.
// If refresh is true, the cache is bypassed and fetch is always called.
func (c *Client) cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	if c.cache != nil && !refresh {
		if ok, _ := c.cache.Get(key, v); ok {
			observability.Cache().OnCacheHit(ctx, "http")
			return nil
		}
		observability.Cache().OnCacheMiss(ctx, "http")
	}
	if err := httputil.RetryWithBackoff(ctx, fetch); err != nil {
		return err
	}
	if c.cache != nil {
		_ = c.cache.Set(key, v)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	return c.do(ctx, http.MethodGet, path, nil, v)
}

func (c *Client) postJSON(ctx context.Context, path string, body, v any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return pferrors.Wrap(pferrors.ErrCodeInternal, err, "encode request body")
	}
	return c.do(ctx, http.MethodPost, path, data, v)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, v any) error {
	u := c.opts.BaseURL + path
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return pferrors.Wrap(pferrors.ErrCodeInternal, err, "build request")
	}
	req.Header.Set("Authorization", c.opts.Token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	host := req.URL.Host
	observability.HTTP().OnRequest(ctx, method, host, path)
	c.opts.Logger.Debug("hosting request", "method", method, "path", path)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, method, host, path, err)
		return &httputil.RetryableError{
			Err: pferrors.Wrap(pferrors.ErrCodeNetwork, err, "%s %s", method, path),
		}
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, method, host, path, resp.StatusCode, time.Since(start))

	if err := c.checkStatus(resp); err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return pferrors.Wrap(pferrors.ErrCodeInternal, err, "decode response from %s", path)
	}
	return nil
}

func (c *Client) checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return pferrors.New(pferrors.ErrCodePathwayNotFound, "pathway not found")
	case code == http.StatusUnauthorized:
		return pferrors.New(pferrors.ErrCodeUnauthorized, "invalid hosting API token")
	case code == http.StatusForbidden:
		return pferrors.New(pferrors.ErrCodeForbidden, "access denied")
	case code == http.StatusTooManyRequests:
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return &httputil.RetryableError{
			Err: pferrors.Wrap(pferrors.ErrCodeRateLimited,
				&pferrors.RateLimitedError{RetryAfter: retryAfter}, "hosting rate limit"),
		}
	case code >= 500:
		return &httputil.RetryableError{
			Err: pferrors.New(pferrors.ErrCodeNetwork, "hosting returned status %d", code),
		}
	default:
		return pferrors.New(pferrors.ErrCodeNetwork, "hosting returned status %d", code)
	}
}
