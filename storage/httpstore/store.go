package httpstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"

	"github.com/skosovsky/recipebook"
	"github.com/skosovsky/recipebook/internal/codec"
)

var _ recipebook.Storage = (*Store)(nil)

// maxBodySize limits response bodies (1 MB); records are small.
const maxBodySize = 1 << 20

const defaultUserAgent = "recipebook-httpstore/1.0"

// Store talks to the remote endpoint. Safe for concurrent use.
type Store struct {
	baseURL    string
	httpClient *http.Client
	authToken  string
	userAgent  string
	sf         singleflight.Group
}

// New creates a Store. baseURL must be an absolute URL (e.g. https://objects.example.com/v1).
func New(baseURL string, opts ...Option) (*Store, error) {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if baseURL == "" {
		return nil, errors.New("httpstore: base URL must not be empty")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" {
		return nil, fmt.Errorf("httpstore: invalid base URL %q", baseURL)
	}
	s := &Store{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateObject PUTs the encoded record.
func (s *Store) CreateObject(ctx context.Context, namespace, id string, payload map[string]any, format recipebook.Format) error {
	u, err := s.objectURL(namespace, id, format)
	if err != nil {
		return err
	}
	data, err := codec.Marshal(format, payload)
	if err != nil {
		return err
	}
	resp, err := s.do(ctx, http.MethodPut, u, data, contentType(format))
	if err != nil {
		return err
	}
	defer drain(resp)
	return checkStatus(resp, u)
}

// ReadObject GETs and decodes the record. Concurrent reads of the same key share one request;
// each caller decodes its own copy.
func (s *Store) ReadObject(ctx context.Context, namespace, id string, format recipebook.Format) (map[string]any, error) {
	u, err := s.objectURL(namespace, id, format)
	if err != nil {
		return nil, err
	}
	v, err, _ := s.sf.Do(u, func() (any, error) {
		fetchCtx, cancel := detachCancel(ctx)
		defer cancel()
		return s.get(fetchCtx, u)
	})
	if err != nil {
		return nil, err
	}
	return codec.Unmarshal(format, v.([]byte))
}

// DeleteObject sends DELETE. 404 is reported as recipebook.ErrObjectNotFound.
func (s *Store) DeleteObject(ctx context.Context, namespace, id string, format recipebook.Format) error {
	u, err := s.objectURL(namespace, id, format)
	if err != nil {
		return err
	}
	resp, err := s.do(ctx, http.MethodDelete, u, nil, "")
	if err != nil {
		return err
	}
	defer drain(resp)
	return checkStatus(resp, u)
}

// GetObjects GETs the namespace index and keeps keys with the format's extension.
func (s *Store) GetObjects(ctx context.Context, namespace string, format recipebook.Format) ([]string, error) {
	if err := recipebook.ValidateID(namespace); err != nil {
		return nil, err
	}
	u := s.baseURL + "/" + url.PathEscape(namespace) + "/"
	data, err := s.get(ctx, u)
	if errors.Is(err, recipebook.ErrObjectNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	var all []string
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("%w: decode index %s: %w", ErrFetchFailed, u, err)
	}
	ext := format.Ext()
	keys := make([]string, 0, len(all))
	for _, k := range all {
		if strings.HasSuffix(k, ext) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// ObjectExists sends HEAD.
func (s *Store) ObjectExists(ctx context.Context, namespace, id string, format recipebook.Format) (bool, error) {
	u, err := s.objectURL(namespace, id, format)
	if err != nil {
		return false, err
	}
	resp, err := s.do(ctx, http.MethodHead, u, nil, "")
	if err != nil {
		return false, err
	}
	defer drain(resp)
	if err := checkStatus(resp, u); err != nil {
		if errors.Is(err, recipebook.ErrObjectNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Store) objectURL(namespace, id string, format recipebook.Format) (string, error) {
	if err := recipebook.ValidateID(namespace); err != nil {
		return "", err
	}
	if err := recipebook.ValidateID(id); err != nil {
		return "", err
	}
	return s.baseURL + "/" + url.PathEscape(namespace) + "/" + url.PathEscape(recipebook.ObjectKey(id, format)), nil
}

func (s *Store) get(ctx context.Context, u string) ([]byte, error) {
	resp, err := s.do(ctx, http.MethodGet, u, nil, "")
	if err != nil {
		return nil, err
	}
	defer drain(resp)
	if err := checkStatus(resp, u); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrFetchFailed, err)
	}
	// More data after the limit means the body was truncated.
	probe := make([]byte, 1)
	if n, _ := resp.Body.Read(probe); n > 0 {
		return nil, fmt.Errorf("%w: response body exceeds %d bytes", ErrFetchFailed, maxBodySize)
	}
	return data, nil
}

func (s *Store) do(ctx context.Context, method, u string, body []byte, ctype string) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	if ctype != "" {
		req.Header.Set("Content-Type", ctype)
	}
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}
	resp, err := s.httpClient.Do(req) // #nosec G704 -- URL is from config and path-escaped ids
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	return resp, nil
}

func checkStatus(resp *http.Response, u string) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", recipebook.ErrObjectNotFound, u)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: %w: %s %s", ErrFetchFailed, ErrHTTPStatus, resp.Status, u)
	}
	return nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
	_ = resp.Body.Close()
}

func contentType(format recipebook.Format) string {
	if format == recipebook.FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// detachCancel keeps a shared read alive when one waiting caller cancels,
// while still honouring the parent's deadline.
func detachCancel(parent context.Context) (context.Context, context.CancelFunc) {
	ctx := context.WithoutCancel(parent)
	if dl, ok := parent.Deadline(); ok {
		return context.WithDeadline(ctx, dl)
	}
	return context.WithCancel(ctx)
}
