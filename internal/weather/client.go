package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
)

// defaultHTTPClient is a configured HTTP client with proper timeouts.
var defaultHTTPClient = &http.Client{
	Timeout: 10 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	},
}

// Client calls the WeatherAPI current-conditions endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a weather client. baseURL should not include a
// trailing slash; pass "" to use the public API endpoint.
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.weatherapi.com"
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: defaultHTTPClient,
	}
}

// SetHTTPClient overrides the HTTP client, used in tests.
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

// Current fetches current conditions for place. When aqi is true the
// response includes air quality data with the EPA category resolved.
func (c *Client) Current(ctx context.Context, place string, aqi bool) (*Current, error) {
	if place == "" {
		return nil, fmt.Errorf("place is required")
	}

	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("q", place)
	if aqi {
		q.Set("aqi", "yes")
	} else {
		q.Set("aqi", "no")
	}

	reqURL := c.baseURL + "/v1/current.json?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build weather request: %w", err)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach weather service: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read weather response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("weather API error for %q: %s", place, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("weather API returned %s for %q", res.Status, place)
	}

	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("malformed weather response for %q: %w", place, err)
	}

	cur := &Current{
		Place:      resp.Location.Name,
		Region:     resp.Location.Region,
		Country:    resp.Location.Country,
		LocalTime:  resp.Location.LocalTime,
		TempC:      resp.Current.TempC,
		TempF:      resp.Current.TempF,
		Condition:  resp.Current.Condition.Text,
		Humidity:   resp.Current.Humidity,
		WindKph:    resp.Current.WindKph,
		FeelsLikeC: resp.Current.FeelsLikeC,
	}
	if aq := resp.Current.AirQuality; aq != nil {
		cur.AirQuality = &AirQuality{
			CO:          aq.CO,
			NO2:         aq.NO2,
			O3:          aq.O3,
			PM25:        aq.PM25,
			PM10:        aq.PM10,
			USEPAIndex:  aq.USEPAIndex,
			EPACategory: EPACategory(aq.USEPAIndex),
		}
	}
	return cur, nil
}

// IsTransient reports whether a weather call failure is worth retrying.
// Connection problems and timeouts are transient; API-level rejections
// (bad key, unknown location) are not.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	// *url.Error wraps permanent failures too (TLS rejection, bad URL);
	// only connection-level errors inside it are retryable.
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		var opErr *net.OpError
		return errors.As(urlErr.Err, &opErr)
	}
	return false
}
