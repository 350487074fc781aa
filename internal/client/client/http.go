package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/glucosync/internal/client/models"
)

// DefaultTimeout bounds every remote call.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response is kept as the message.
const maxErrorBody = 512

// HTTPClient talks to the remote service over HTTP/JSON.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
}

// NewHTTPClient builds a client for baseURL. tokens may be nil, in which
// case no Authorization header is sent. A zero timeout means DefaultTimeout.
func NewHTTPClient(baseURL, apiKey string, tokens TokenSource, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	base := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: timeout}).DialContext,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
		IdleConnTimeout:       90 * time.Second,
	}

	return &HTTPClient{
		baseURL: u,
		http: &http.Client{
			Timeout:   timeout,
			Transport: &headerTransport{base: base, apiKey: apiKey, tokens: tokens},
		},
	}, nil
}

func (c *HTTPClient) endpoint(path string, query url.Values) string {
	u := c.baseURL.ResolveReference(&url.URL{Path: strings.TrimPrefix(path, "/")})
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do sends the request and decodes a 2xx JSON body into out. 401 and 403
// map to a credential rejection; any other non-2xx status is a transport
// error carrying the status and body text.
func (c *HTTPClient) do(ctx context.Context, op, method, target string, body any, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return transportErr(op, 0, "encode request", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return transportErr(op, 0, "build request", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return transportErr(op, 0, "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := readMessage(resp.Body)
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return authRejected(op, resp.StatusCode, msg)
		}
		return transportErr(op, resp.StatusCode, msg, nil)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return transportErr(op, resp.StatusCode, "decode response", err)
	}
	return nil
}

func readMessage(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(b, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(b))
}

type validatePasswordResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
	Message   string `json:"message,omitempty"`
}

// Authenticate exchanges the password for a token. ExpiresIn is in
// milliseconds.
func (c *HTTPClient) Authenticate(ctx context.Context, password string) (*models.AuthResult, error) {
	const op = "authenticate"

	var resp validatePasswordResponse
	err := c.do(ctx, op, http.MethodPost, c.endpoint("validatePassword", nil),
		map[string]string{"password": password}, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.Success || resp.Token == "" {
		msg := resp.Message
		if msg == "" {
			msg = "password rejected"
		}
		return nil, authRejected(op, http.StatusOK, msg)
	}

	return &models.AuthResult{
		Token: resp.Token,
		TTL:   time.Duration(resp.ExpiresIn) * time.Millisecond,
	}, nil
}

type readingsResponse struct {
	Result        string            `json:"result"`
	Message       string            `json:"message"`
	TotalReadings int               `json:"totalReadings"`
	Readings      []json.RawMessage `json:"readings"`
}

func (c *HTTPClient) FetchReadings(ctx context.Context, owner string) ([]json.RawMessage, error) {
	const op = "fetch readings"

	var resp readingsResponse
	err := c.do(ctx, op, http.MethodGet,
		c.endpoint("readings", url.Values{"name": {owner}}), nil, &resp)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(resp.Result, "error") {
		return nil, transportErr(op, http.StatusOK, resp.Message, nil)
	}
	return resp.Readings, nil
}

type addReadingResponse struct {
	Result  string          `json:"result"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *HTTPClient) SubmitReading(ctx context.Context, s models.Submission) (*models.SubmitAck, error) {
	const op = "submit reading"

	q := url.Values{}
	q.Set("name", s.Name)
	q.Set("reading", FormatValue(s.Value))
	q.Set("units", string(s.Unit))
	if s.Comment != nil {
		q.Set("comment", *s.Comment)
	}
	q.Set("snackPass", strconv.FormatBool(s.SnackPass))
	q.Set("source", s.Source)

	var resp addReadingResponse
	if err := c.do(ctx, op, http.MethodGet, c.endpoint("addReadingFromUrl", q), nil, &resp); err != nil {
		return nil, err
	}
	if strings.EqualFold(resp.Result, "error") {
		return nil, transportErr(op, http.StatusOK, resp.Message, nil)
	}

	return &models.SubmitAck{Result: resp.Result, Message: resp.Message, RemoteID: remoteID(resp.Data)}, nil
}

func remoteID(data json.RawMessage) string {
	var obj struct {
		ID        string `json:"id"`
		ReadingID string `json:"readingId"`
	}
	if len(data) == 0 || json.Unmarshal(data, &obj) != nil {
		return ""
	}
	if obj.ID != "" {
		return obj.ID
	}
	return obj.ReadingID
}

func (c *HTTPClient) VerifyToken(ctx context.Context, token string) (bool, error) {
	var resp struct {
		Valid bool `json:"valid"`
	}
	err := c.do(ctx, "verify token", http.MethodPost, c.endpoint("verifyToken", nil),
		map[string]string{"token": token}, &resp)
	var re *RemoteError
	if errors.As(err, &re) && (re.StatusCode == http.StatusUnauthorized || re.StatusCode == http.StatusForbidden) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return resp.Valid, nil
}

// Ping reports whether the service answers at all. Any HTTP response,
// whatever its status, counts as reachable.
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL.String(), http.NoBody)
	if err != nil {
		return transportErr("ping", 0, "build request", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return transportErr("ping", 0, "", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}
