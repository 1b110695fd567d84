// Package webhook is the HTTP client for the external document webhook API
// (Chainletter-style): collections of uploaded files that can be stamped to a
// chain and queried for status. Authentication is a key in the URL path plus
// a secret header; a network header selects the target chain.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/NTBooks/solquiz/internal/config"
	"github.com/NTBooks/solquiz/internal/model"
)

// Sentinel errors for webhook operations.
var (
	ErrUpload   = errors.New("webhook upload failed")
	ErrStamp    = errors.New("webhook stamp failed")
	ErrUpstream = errors.New("webhook request failed")
	ErrNotFound = errors.New("file not found in collection")
)

// Client issues requests against one webhook endpoint pattern:
// {base}/hook/{key}/{collection}.
type Client struct {
	baseURL string
	apiKey  string
	secret  string
	network string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient creates a webhook Client from configuration.
func NewClient(cfg *config.Config, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.HookBaseURL, "/"),
		apiKey:  cfg.HookAPIKey,
		secret:  cfg.HookAPISecret,
		network: cfg.HookNetwork,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log.With().Str("component", "webhook_client").Logger(),
	}
}

// endpoint builds the collection-scoped URL. Collections are created
// server-side on first upload, so there is no separate create call.
func (c *Client) endpoint(collection string) string {
	return fmt.Sprintf("%s/hook/%s/%s", c.baseURL, url.PathEscape(c.apiKey), url.PathEscape(collection))
}

// setAuth applies the secret and network-selector headers every call carries.
func (c *Client) setAuth(req *http.Request) {
	req.Header.Set("x-api-secret", c.secret)
	req.Header.Set("x-network", c.network)
}

// Upload sends file bytes as a multipart POST into the named collection and
// returns the content hash the webhook reports. A 2xx response without a hash
// field is still a success and yields the "unknown" sentinel.
func (c *Client) Upload(ctx context.Context, collection, filename string, file io.Reader) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(collection), &body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.setAuth(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("%w: %s: %s", ErrUpload, resp.Status, strings.TrimSpace(string(raw)))
	}

	hash := extractHash(raw)
	c.log.Info().
		Str("collection", collection).
		Str("filename", filename).
		Str("filehash", hash).
		Msg("Certificate uploaded")
	return hash, nil
}

// Stamp issues the follow-up PATCH that anchors the collection's current
// contents. It must only be called after a successful Upload; its failure
// never invalidates the upload.
func (c *Client) Stamp(ctx context.Context, collection string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.endpoint(collection), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStamp, err)
	}
	c.setAuth(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStamp, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: %s: %s", ErrStamp, resp.Status, strings.TrimSpace(string(raw)))
	}

	c.log.Info().Str("collection", collection).Msg("Collection stamped")
	return nil
}

// ListFiles fetches every file record in the collection. A 2xx response
// without the expected file list field is malformed and reported as
// ErrUpstream.
func (c *Client) ListFiles(ctx context.Context, collection string) ([]model.FileRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(collection), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	c.setAuth(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %s: %s", ErrUpstream, resp.Status, strings.TrimSpace(string(raw)))
	}

	var payload struct {
		Files *[]model.FileRecord `json:"files"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode listing: %v", ErrUpstream, err)
	}
	if payload.Files == nil {
		return nil, fmt.Errorf("%w: listing has no files field", ErrUpstream)
	}
	return *payload.Files, nil
}

// FileInfo returns the collection entry matching hash. The listing is fetched
// in full and filtered locally; a listing without the hash is ErrNotFound.
func (c *Client) FileInfo(ctx context.Context, collection, hash string) (*model.FileRecord, error) {
	files, err := c.ListFiles(ctx, collection)
	if err != nil {
		return nil, err
	}
	for i := range files {
		if files[i].FileHash == hash {
			return &files[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, hash)
}

// FileStatus fetches chain status for one hash directly, server-side filtered
// via the x-filehash header, with export links expanded. The upstream payload
// is passed through untouched.
func (c *Client) FileStatus(ctx context.Context, collection, hash string) (json.RawMessage, error) {
	u := c.endpoint(collection) + "?expand=links"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	c.setAuth(req)
	req.Header.Set("x-filehash", hash)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUpstream, err)
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("%w: %s: %s", ErrUpstream, resp.Status, strings.TrimSpace(string(raw)))
	}
	return json.RawMessage(raw), nil
}

// extractHash pulls the content hash out of an upload response body. Current
// API responds with "filehash"; older deployments used "hash". Anything else
// yields the "unknown" sentinel.
func extractHash(raw []byte) string {
	var body struct {
		FileHash string `json:"filehash"`
		Hash     string `json:"hash"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return model.UnknownHash
	}
	if body.FileHash != "" {
		return body.FileHash
	}
	if body.Hash != "" {
		return body.Hash
	}
	return model.UnknownHash
}
