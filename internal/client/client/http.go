package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/moneytracker/internal/client/models"
	"github.com/dmitrijs2005/moneytracker/internal/common"
	"github.com/shopspring/decimal"
)

const tokenExpiredMsg = "token expired"

// HTTPClient is a Client over the REST API. It is safe for concurrent use.
type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type request struct {
	method string
	path   string
	body   []byte
	ctype  string
	auth   bool
}

func jsonRequest(method, path string, v any) (request, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return request{}, err
	}
	return request{method: method, path: path, body: b, ctype: "application/json"}, nil
}

func formRequest(method, path string, v url.Values) request {
	return request{method: method, path: path, body: []byte(v.Encode()), ctype: "application/x-www-form-urlencoded", auth: true}
}

func (c *HTTPClient) tokens() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken, c.refreshToken
}

func (c *HTTPClient) setSession(s *models.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = s.Token
	c.refreshToken = s.RefreshToken
}

// do sends r and decodes a 2xx JSON answer into out (when non-nil). An
// expired access token is refreshed once and the request retried.
func (c *HTTPClient) do(ctx context.Context, r request, out any) error {
	status, body, err := c.send(ctx, r)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && r.auth && errorMessage(body) == tokenExpiredMsg {
		if _, refresh := c.tokens(); refresh != "" {
			if err := c.refresh(ctx, refresh); err != nil {
				return err
			}
			if status, body, err = c.send(ctx, r); err != nil {
				return err
			}
		}
	}

	if status < 200 || status > 299 {
		msg := errorMessage(body)
		if status == http.StatusUnauthorized {
			return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
		}
		return &APIError{Status: status, Msg: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *HTTPClient) send(ctx context.Context, r request) (int, []byte, error) {
	var rd io.Reader
	if r.body != nil {
		rd = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, rd)
	if err != nil {
		return 0, nil, err
	}
	if r.ctype != "" {
		req.Header.Set("Content-Type", r.ctype)
	}
	if r.auth {
		access, _ := c.tokens()
		if access == "" {
			return 0, nil, ErrNotLoggedIn
		}
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+access)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, nil, ctx.Err()
		}
		return 0, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp.StatusCode, body, nil
}

func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}

func (c *HTTPClient) refresh(ctx context.Context, token string) error {
	r, err := jsonRequest(http.MethodPost, "/auth/refresh", map[string]string{"refreshToken": token})
	if err != nil {
		return err
	}
	var s models.Session
	if err := c.do(ctx, r, &s); err != nil {
		return err
	}
	c.setSession(&s)
	return nil
}

func (c *HTTPClient) authenticate(ctx context.Context, path string, payload map[string]string) (*models.Session, error) {
	r, err := jsonRequest(http.MethodPost, path, payload)
	if err != nil {
		return nil, err
	}
	var s models.Session
	if err := c.do(ctx, r, &s); err != nil {
		return nil, err
	}
	c.setSession(&s)
	return &s, nil
}

func (c *HTTPClient) Register(ctx context.Context, userName, email string, password []byte) (*models.Session, error) {
	payload := map[string]string{"username": userName, "password": string(password)}
	if email != "" {
		payload["email"] = email
	}
	return c.authenticate(ctx, "/auth/register", payload)
}

func (c *HTTPClient) Login(ctx context.Context, userName string, password []byte) (*models.Session, error) {
	return c.authenticate(ctx, "/auth/login", map[string]string{"username": userName, "password": string(password)})
}

// Logout forgets the session tokens.
func (c *HTTPClient) Logout() {
	c.setSession(&models.Session{})
}

func (c *HTTPClient) CheckUsername(ctx context.Context, userName string) (bool, error) {
	var out struct {
		Exists bool `json:"exists"`
	}
	r := request{method: http.MethodGet, path: "/auth/check-username?username=" + url.QueryEscape(userName)}
	if err := c.do(ctx, r, &out); err != nil {
		return false, err
	}
	return out.Exists, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodGet, path: "/health"}, nil)
}

func (c *HTTPClient) People(ctx context.Context) ([]models.Person, error) {
	var out []models.Person
	if err := c.do(ctx, request{method: http.MethodGet, path: "/people/all", auth: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) AddPerson(ctx context.Context, name string) (*models.Person, error) {
	var out models.Person
	if err := c.do(ctx, formRequest(http.MethodPost, "/people/add", url.Values{"name": {name}}), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeletePerson(ctx context.Context, name string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/people/" + url.PathEscape(name), auth: true}, nil)
}

func (c *HTTPClient) Recalculate(ctx context.Context, name string) (*models.Person, error) {
	var out models.Person
	r := request{method: http.MethodPost, path: "/people/" + url.PathEscape(name) + "/recalculate", auth: true}
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Send(ctx context.Context, name string, amount decimal.Decimal, description string) (*models.Transaction, error) {
	return c.move(ctx, "/transactions/send", name, amount, description)
}

func (c *HTTPClient) Receive(ctx context.Context, name string, amount decimal.Decimal, description string) (*models.Transaction, error) {
	return c.move(ctx, "/transactions/receive", name, amount, description)
}

func (c *HTTPClient) move(ctx context.Context, path, name string, amount decimal.Decimal, description string) (*models.Transaction, error) {
	v := url.Values{"name": {name}, "amount": {amount.String()}}
	if description != "" {
		v.Set("description", description)
	}
	var out models.Transaction
	if err := c.do(ctx, formRequest(http.MethodPost, path, v), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Transactions(ctx context.Context) ([]models.Transaction, error) {
	var out []models.Transaction
	if err := c.do(ctx, request{method: http.MethodGet, path: "/transactions/all", auth: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) PersonTransactions(ctx context.Context, name string) ([]models.Transaction, error) {
	var out []models.Transaction
	r := request{method: http.MethodGet, path: "/people/" + url.PathEscape(name) + "/transactions", auth: true}
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Reverse(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/transactions/" + url.PathEscape(id) + "/reverse", auth: true}, nil)
}

func (c *HTTPClient) Export(ctx context.Context) (*models.Statement, error) {
	var out models.Statement
	if err := c.do(ctx, request{method: http.MethodGet, path: "/transactions/export", auth: true}, &out); err != nil {
		return nil, err
	}
	if out.URL == "" {
		return nil, errors.New("server returned no statement url")
	}
	return &out, nil
}
