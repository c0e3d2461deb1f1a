package railradar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL   = "https://railradar.in/api/v1"
	DefaultUserAgent = "Mozilla/5.0"
	DefaultTimeout   = 10 * time.Second
)

var (
	// ErrUnexpectedStatus is wrapped by every *StatusError.
	ErrUnexpectedStatus = errors.New("unexpected status code")
	// ErrDecode marks a response body that could not be decoded.
	ErrDecode = errors.New("decoding response")
)

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// Options tunes a Client. Zero values fall back to the defaults above.
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Client is a RailRadar API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewClient creates a new RailRadar client.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		userAgent:  opts.UserAgent,
	}
}

// SearchStations looks up stations matching a free-text query.
func (c *Client) SearchStations(ctx context.Context, query string) (*StationSearchResponse, error) {
	var result StationSearchResponse
	if err := c.get(ctx, "/search/stations", url.Values{"q": {query}}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TrainsBetween lists trains running from one station code to another.
func (c *Client) TrainsBetween(ctx context.Context, from, to string) (*TrainsBetweenResponse, error) {
	var result TrainsBetweenResponse
	if err := c.get(ctx, "/trains/between", url.Values{"from": {from}, "to": {to}}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TrainSchedule retrieves the static route of a train for a journey date.
func (c *Client) TrainSchedule(ctx context.Context, trainNumber, journeyDate string) (*ScheduleResponse, error) {
	var result ScheduleResponse
	path := "/trains/" + url.PathEscape(trainNumber) + "/schedule"
	if err := c.get(ctx, path, url.Values{"journeyDate": {journeyDate}}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TrainLive retrieves the live position of a train for a journey date.
func (c *Client) TrainLive(ctx context.Context, trainNumber, journeyDate string) (*LiveResponse, error) {
	var result LiveResponse
	path := "/trains/" + url.PathEscape(trainNumber)
	query := url.Values{"dataType": {"live"}, "journeyDate": {journeyDate}}
	if err := c.get(ctx, path, query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TrainDetail retrieves the detail record of a train.
func (c *Client) TrainDetail(ctx context.Context, trainNumber string) (*DetailResponse, error) {
	var result DetailResponse
	if err := c.get(ctx, "/trains/"+url.PathEscape(trainNumber), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return nil
}
