// Package services holds the HTTP clients for the remote account, user,
// product and shopping microservices.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-shop-client/internal/config"
	apperrors "github.com/jrsteele09/go-shop-client/internal/errors"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const (
	headerRequestID = "X-Request-ID"
	maxErrorBody    = 4096
)

// Client talks to the remote services. Authenticated calls take the bearer
// token from the TokenSource at request time.
type Client struct {
	urls           config.ServicesConfig
	public         *http.Client
	authed         *http.Client
	base           http.RoundTripper
	onUnauthorized func()

	Account  *AccountService
	Users    *UserService
	Products *ProductService
	Shopping *ShoppingService
}

// ClientOption defines a function type to modify the Client instance.
type ClientOption func(*Client)

// WithTransport sets the underlying transport (primarily for testing)
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *Client) {
		c.base = rt
	}
}

// WithUnauthorizedHandler registers fn to run whenever a service answers 401.
func WithUnauthorizedHandler(fn func()) ClientOption {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

// New creates a Client for the services at urls.
func New(urls config.ServicesConfig, tokens oauth2.TokenSource, options ...ClientOption) (*Client, error) {
	if urls == nil {
		return nil, errors.New("[services.New] service URLs are required")
	}
	if tokens == nil {
		return nil, errors.New("[services.New] token source is required")
	}

	c := &Client{urls: urls, base: http.DefaultTransport}
	for _, opt := range options {
		opt(c)
	}

	base := &requestIDTransport{base: c.base}
	c.public = &http.Client{Transport: base}
	c.authed = &http.Client{Transport: &oauth2.Transport{Source: tokens, Base: base}}

	c.Account = &AccountService{c: c}
	c.Users = &UserService{c: c}
	c.Products = &ProductService{c: c}
	c.Shopping = &ShoppingService{c: c}
	return c, nil
}

// requestIDTransport tags every outbound request with a fresh X-Request-ID.
type requestIDTransport struct {
	base http.RoundTripper
}

func (t *requestIDTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if r.Header.Get(headerRequestID) != "" {
		return t.base.RoundTrip(r)
	}
	r2 := r.Clone(r.Context())
	r2.Header.Set(headerRequestID, uuid.New().String())
	return t.base.RoundTrip(r2)
}

type call struct {
	op     string
	method string
	url    string
	body   any
	out    any
	authed bool
	// Replaces the service's message for 403 answers
	forbiddenMsg string
}

func (c *Client) do(ctx context.Context, cl call) error {
	var body io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return errors.Wrapf(err, "[%s] marshal request", cl.op)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, cl.url, body)
	if err != nil {
		return errors.Wrapf(apperrors.ErrInvalidRequest, "[%s] %s", cl.op, err.Error())
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	hc := c.public
	if cl.authed {
		hc = c.authed
	}

	resp, err := hc.Do(req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotAuthenticated) || errors.Is(err, apperrors.ErrSessionExpired) {
			return errors.Wrapf(err, "[%s]", cl.op)
		}
		log.Error().Err(err).Str("op", cl.op).Msg("transport failure")
		return errors.Wrapf(apperrors.ErrTransport, "[%s] %s", cl.op, err.Error())
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(apperrors.ErrTransport, "[%s] read body: %s", cl.op, err.Error())
	}

	if resp.StatusCode >= 400 {
		return c.statusError(cl, resp.StatusCode, data)
	}

	if msg := errorField(data, false); msg != "" {
		return &RemoteError{Op: cl.op, Message: msg, Kind: apperrors.ErrRemote}
	}

	if cl.out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, cl.out); err != nil {
		return errors.Wrapf(apperrors.ErrRemote, "[%s] decode response: %s", cl.op, err.Error())
	}
	return nil
}

func (c *Client) statusError(cl call, status int, data []byte) error {
	kind := kindForStatus(status)
	rerr := &RemoteError{Op: cl.op, Status: status, Kind: kind, Message: errorField(data, true)}

	switch {
	case status == http.StatusUnauthorized && cl.authed:
		rerr.Message = apperrors.ErrSessionExpired.Error()
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
	case status == http.StatusForbidden && cl.forbiddenMsg != "":
		rerr.Message = cl.forbiddenMsg
	case rerr.Message == "" && len(data) > 0 && len(data) <= maxErrorBody && !bytes.HasPrefix(bytes.TrimSpace(data), []byte("<")):
		rerr.Message = strings.TrimSpace(string(data))
	}

	log.Warn().Str("op", cl.op).Int("status", status).Str("remote_message", rerr.Message).Msg("remote service error")
	return rerr
}

// errorField extracts {"error": "..."} from a JSON body, falling back to
// {"message": "..."} when withMessage is set.
func errorField(data []byte, withMessage bool) string {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ""
	}
	var body struct {
		Error   any    `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(trimmed, &body); err != nil {
		return ""
	}
	switch e := body.Error.(type) {
	case string:
		if e != "" {
			return e
		}
	case map[string]any:
		if m, ok := e["message"].(string); ok && m != "" {
			return m
		}
	}
	if withMessage {
		return body.Message
	}
	return ""
}

func join(base string, parts ...string) string {
	var sb strings.Builder
	sb.WriteString(base)
	for _, p := range parts {
		sb.WriteString("/")
		sb.WriteString(url.PathEscape(strings.TrimPrefix(p, "/")))
	}
	return sb.String()
}
