// Package rest wraps the dashboard backend's REST API. Every call resolves
// to a Result{Error, Data} pair; transport failures and non-2xx statuses
// never surface as Go errors to the stores.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/shuleplus/ukaguzi/core"
	"github.com/shuleplus/ukaguzi/core/session"
)

const defaultRefreshPath = "/aauth/refresh-token"

// Result is the uniform outcome of every request: exactly one of Error and
// Data is meaningful. TotalCount carries the X-Total-Count header on list
// responses that have one.
type Result struct {
	Error      *core.APIError
	Data       json.RawMessage
	TotalCount int
}

// TokenPair is the access/refresh pair issued by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Options struct {
	BaseURL     string
	Timeout     time.Duration
	Session     *session.Session
	Logger      core.Logger
	RefreshPath string // defaults to /aauth/refresh-token

	// OnForcedLogout fires after the session has been cleared because the
	// refresh endpoint itself failed. The router hooks navigation here.
	OnForcedLogout func()
}

// Client issues the five verbs against the backend, attaching the bearer
// token from the session on every request. On a token-expired failure it
// refreshes the token pair exactly once; the failed request is not
// replayed, retrying is the caller's business.
type Client struct {
	base        string
	http        *http.Client
	session     *session.Session
	logger      core.Logger
	refreshPath string
	onLogout    func()
}

func NewClient(opts Options) *Client {
	if opts.RefreshPath == "" {
		opts.RefreshPath = defaultRefreshPath
	}
	if opts.Timeout == 0 {
		opts.Timeout = core.Conf.API.Timeout
	}
	if opts.Logger == nil {
		opts.Logger = core.NewConsoleLogger(log.Default())
	}
	return &Client{
		base:        strings.TrimSuffix(opts.BaseURL, "/"),
		http:        &http.Client{Timeout: opts.Timeout},
		session:     opts.Session,
		logger:      opts.Logger,
		refreshPath: opts.RefreshPath,
		onLogout:    opts.OnForcedLogout,
	}
}

func (c *Client) Get(ctx context.Context, path string) Result {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) Post(ctx context.Context, path string, body interface{}) Result {
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *Client) Put(ctx context.Context, path string, body interface{}) Result {
	return c.do(ctx, http.MethodPut, path, body)
}

func (c *Client) Patch(ctx context.Context, path string, body interface{}) Result {
	return c.do(ctx, http.MethodPatch, path, body)
}

func (c *Client) Delete(ctx context.Context, path string) Result {
	return c.do(ctx, http.MethodDelete, path, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) Result {
	c.logger.Debug(method + " " + path)

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return Result{Error: core.NewTransportError(errors.Wrap(err, "marshalling request body"))}
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reqBody)
	if err != nil {
		return Result{Error: core.NewTransportError(errors.Wrap(err, "building request"))}
	}
	req.Header.Set("Content-Type", "application/json")
	if tok := c.session.AccessToken(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return Result{Error: core.NewTransportError(err)}
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return Result{Error: core.NewTransportError(errors.Wrap(err, "reading response body"))}
	}

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		result := Result{Data: resBody}
		if tc := res.Header.Get("X-Total-Count"); tc != "" {
			result.TotalCount, _ = strconv.Atoi(tc)
		}
		return result
	}

	apiErr := core.NewAPIError(res.StatusCode, parseErrorPayload(resBody))
	c.recoverAuth(ctx, path, apiErr)
	return Result{Error: apiErr}
}

// recoverAuth is the response-failure hook: an expired access token buys one
// refresh attempt, and a failure of the refresh endpoint itself forces the
// session out.
func (c *Client) recoverAuth(ctx context.Context, path string, apiErr *core.APIError) {
	if strings.Contains(path, c.refreshPath) {
		c.logger.Warn("token refresh rejected, logging out")
		if err := c.session.Clear(); err != nil {
			c.logger.Error("clearing session", err)
		}
		if c.onLogout != nil {
			c.onLogout()
		}
		return
	}
	if apiErr.IsTokenExpired() {
		c.logger.Debug("refreshing token...")
		if _, err := c.Refresh(ctx); err != nil {
			c.logger.Warn("token refresh failed", err)
		}
	}
}

// Refresh exchanges the stored refresh token for a new pair and persists it.
func (c *Client) Refresh(ctx context.Context) (TokenPair, error) {
	res := c.Post(ctx, c.refreshPath, map[string]string{
		"refreshToken": c.session.RefreshToken(),
	})
	if res.Error != nil {
		return TokenPair{}, res.Error
	}
	var payload struct {
		Data TokenPair `json:"data"`
	}
	if err := json.Unmarshal(res.Data, &payload); err != nil {
		return TokenPair{}, errors.Wrap(err, "unmarshalling token pair")
	}
	if err := c.session.SetTokens(payload.Data.AccessToken, payload.Data.RefreshToken); err != nil {
		return TokenPair{}, errors.Wrap(err, "storing token pair")
	}
	return payload.Data, nil
}

// parseErrorPayload pulls the payload out of the server's {"error": ...}
// wrapper, falling back to the raw body for non-conforming responses.
func parseErrorPayload(body []byte) []byte {
	var wrapper struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapper); err == nil && wrapper.Error != nil {
		return wrapper.Error
	}
	return body
}
