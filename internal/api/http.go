package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// BaseURL is the default clocko:do API root. Paths passed to HttpClient start with a slash.
var BaseURL = "https://my.clockodo.com/api"

// ExternalApplication identifies this client to clocko:do, as "<name>;<contact>".
const ExternalApplication = "clockodo-cli;clockodo-cli@users.noreply.github.com"

// Caller issues one authenticated request and decodes the JSON response into dest.
// GET params travel in the query string, everything else as a form body.
type Caller interface {
	Call(method, path string, params Params, dest any) error
}

// HttpClient wraps authenticated requests to the clocko:do API.
type HttpClient struct {
	user     string
	token    string
	language string
	baseURL  string
	client   *http.Client
	debug    bool
}

// NewHttpClient creates an HttpClient for the given API user (e-mail) and API token.
func NewHttpClient(user, token string) *HttpClient {
	return &HttpClient{
		user:     user,
		token:    token,
		language: "en",
		baseURL:  BaseURL,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

// SetLanguage sets the Accept-Language sent with every request.
func (c *HttpClient) SetLanguage(lang string) {
	if lang != "" {
		c.language = lang
	}
}

// SetBaseURL points the client at another API root.
func (c *HttpClient) SetBaseURL(base string) {
	if base != "" {
		c.baseURL = strings.TrimRight(base, "/")
	}
}

// SetDebug enables request logging.
func (c *HttpClient) SetDebug(debug bool) {
	c.debug = debug
}

// Get performs an authenticated GET request and decodes the JSON response into dest.
func (c *HttpClient) Get(path string, params Params, dest any) error {
	return c.Call(http.MethodGet, path, params, dest)
}

// Post performs an authenticated POST request.
func (c *HttpClient) Post(path string, params Params, dest any) error {
	return c.Call(http.MethodPost, path, params, dest)
}

// Put performs an authenticated PUT request.
func (c *HttpClient) Put(path string, params Params, dest any) error {
	return c.Call(http.MethodPut, path, params, dest)
}

// Delete performs an authenticated DELETE request.
func (c *HttpClient) Delete(path string, dest any) error {
	return c.Call(http.MethodDelete, path, nil, dest)
}

// Call implements Caller.
func (c *HttpClient) Call(method, path string, params Params, dest any) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return err
	}

	var body io.Reader
	if method == http.MethodGet {
		u.RawQuery = params.Values().Encode()
	} else if len(params) > 0 {
		body = strings.NewReader(params.Values().Encode())
	}

	req, err := http.NewRequest(method, u.String(), body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	return c.doJSON(req, dest)
}

func (c *HttpClient) doJSON(req *http.Request, dest any) error {
	req.Header.Set("X-ClockodoApiUser", c.user)
	req.Header.Set("X-ClockodoApiKey", c.token)
	req.Header.Set("X-Clockodo-External-Application", ExternalApplication)
	req.Header.Set("Accept-Language", c.language)
	req.Header.Set("Accept", "application/json")

	if c.debug {
		log.Printf("Request: %s %s", req.Method, req.URL)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if c.debug {
		log.Printf("Response: %s (%d bytes)", resp.Status, len(respBody))
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return &AuthError{newApiError(resp, respBody)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newApiError(resp, respBody)
		return &apiErr
	}

	if dest != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, dest); err != nil {
			return &DecodeError{Entity: "response", Err: err}
		}
	}
	return nil
}

func newApiError(resp *http.Response, body []byte) ApiError {
	e := ApiError{
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
		Body:       string(body),
	}
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &parsed) == nil {
		e.Message = parsed.Error.Message
	}
	return e
}
