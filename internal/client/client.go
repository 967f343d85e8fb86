// Package client provides a Twilio API client for internal use.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// DefaultBaseURL is the Twilio REST API base URL.
const DefaultBaseURL = "https://api.twilio.com/2010-04-01"

// Layout Twilio expects for StartTime filters.
const timeLayout = "2006-01-02T15:04:05Z"

// Client is a Twilio API client.
type Client struct {
	accountSID string
	authToken  string
	baseURL    string
	httpClient *http.Client
}

// Config configures the Twilio client.
type Config struct {
	AccountSID string
	AuthToken  string
	BaseURL    string
	HTTPClient *http.Client
}

// New creates a new Twilio client.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	accountSID := cfg.AccountSID
	if accountSID == "" {
		accountSID = os.Getenv("TWILIO_ACCOUNT_SID")
	}
	if accountSID == "" {
		return nil, fmt.Errorf("TWILIO_ACCOUNT_SID is required")
	}

	authToken := cfg.AuthToken
	if authToken == "" {
		authToken = os.Getenv("TWILIO_AUTH_TOKEN")
	}
	if authToken == "" {
		return nil, fmt.Errorf("TWILIO_AUTH_TOKEN is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 30 * time.Second,
		}
	}

	return &Client{
		accountSID: accountSID,
		authToken:  authToken,
		baseURL:    baseURL,
		httpClient: httpClient,
	}, nil
}

// Call represents a Twilio call resource.
type Call struct {
	SID         string `json:"sid"`
	To          string `json:"to"`
	From        string `json:"from"`
	Status      string `json:"status"`
	Direction   string `json:"direction"`
	Duration    string `json:"duration"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	DateCreated string `json:"date_created"`
}

// ListCallsParams filter a call listing. Zero fields are not sent.
type ListCallsParams struct {
	To              string
	From            string
	Status          string
	StartTimeAfter  time.Time
	StartTimeBefore time.Time
	PageSize        int
}

type callPage struct {
	Calls       []Call `json:"calls"`
	NextPageURI string `json:"next_page_uri"`
}

// ListCalls returns every call matching params, following pagination.
func (c *Client) ListCalls(ctx context.Context, params *ListCallsParams) ([]Call, error) {
	if params == nil {
		params = &ListCallsParams{}
	}

	q := url.Values{}
	if params.To != "" {
		q.Set("To", params.To)
	}
	if params.From != "" {
		q.Set("From", params.From)
	}
	if params.Status != "" {
		q.Set("Status", params.Status)
	}
	if !params.StartTimeAfter.IsZero() {
		q.Set("StartTime>", params.StartTimeAfter.UTC().Format(timeLayout))
	}
	if !params.StartTimeBefore.IsZero() {
		q.Set("StartTime<", params.StartTimeBefore.UTC().Format(timeLayout))
	}
	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = 1000
	}
	q.Set("PageSize", fmt.Sprintf("%d", pageSize))

	endpoint := fmt.Sprintf("%s/Accounts/%s/Calls.json?%s", c.baseURL, c.accountSID, q.Encode())

	var calls []Call
	for endpoint != "" {
		var page callPage
		if err := c.get(ctx, endpoint, &page); err != nil {
			return nil, err
		}
		calls = append(calls, page.Calls...)

		next, err := c.resolve(page.NextPageURI)
		if err != nil {
			return nil, err
		}
		endpoint = next
	}

	return calls, nil
}

// resolve turns a next_page_uri, which is relative to the API host, into
// an absolute URL.
func (c *Client) resolve(uri string) (string, error) {
	if uri == "" {
		return "", nil
	}
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}
	ref, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("invalid next page uri: %w", err)
	}
	return base.ResolveReference(ref).String(), nil
}

// Error represents a Twilio API error.
type Error struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	MoreInfo string `json:"more_info"`
	Status   int    `json:"status"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("twilio error %d: %s", e.Code, e.Message)
}

// get performs a GET request.
func (c *Client) get(ctx context.Context, url string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return c.do(req, result)
}

// do executes a request with authentication.
func (c *Client) do(req *http.Request, result any) error {
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		var apiErr Error
		if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Message == "" {
			return fmt.Errorf("twilio error: %s", string(body))
		}
		return &apiErr
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}
