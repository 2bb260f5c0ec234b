// Package recordstore fetches consumable-usage records from the remote
// record store and caches them per month.
package recordstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gunmagohkin/co2-dashboard-daily/internal/logger"
	"github.com/gunmagohkin/co2-dashboard-daily/internal/models"
)

// pageLimit is the record store's maximum page size.
const pageLimit = 500

// Client talks to a Kintone-style records API.
type Client struct {
	baseURL    string
	appID      string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for the given domain, app and API token.
func NewClient(domain, appID, token string) *Client {
	return &Client{
		baseURL:    "https://" + domain + "/k/v1/records.json",
		appID:      appID,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientWithBaseURL creates a client pointed at an explicit endpoint.
func NewClientWithBaseURL(baseURL, appID, token string) *Client {
	return &Client{
		baseURL:    baseURL,
		appID:      appID,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type recordsResponse struct {
	Records []models.RawRecord `json:"records"`
}

// monthQuery builds the record store query for one month and category,
// optionally constrained to a plant.
func monthQuery(year int, month time.Month, category, plant string) string {
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	q := fmt.Sprintf(`%s >= "%04d-%02d-01" and %s <= "%04d-%02d-%02d"`,
		models.FieldDate, year, month,
		models.FieldDate, year, month, lastDay)
	if category != "" {
		q += fmt.Sprintf(` and %s = "%s"`, models.FieldCategory, category)
	}
	if plant != "" {
		q += fmt.Sprintf(` and %s = "%s"`, models.FieldPlant, plant)
	}
	return q
}

// FetchMonth retrieves all records for one month, paging through the
// API until a short page is returned.
func (c *Client) FetchMonth(ctx context.Context, year int, month time.Month, category, plant string) ([]models.Record, error) {
	query := monthQuery(year, month, category, plant)

	var all []models.RawRecord
	for offset := 0; ; offset += pageLimit {
		page, err := c.fetchPage(ctx, query, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < pageLimit {
			break
		}
	}

	return models.ParseRecords(all), nil
}

func (c *Client) fetchPage(ctx context.Context, query string, offset int) ([]models.RawRecord, error) {
	paged := fmt.Sprintf("%s order by %s asc limit %d offset %d",
		query, models.FieldDate, pageLimit, offset)

	reqURL := fmt.Sprintf("%s?app=%s&query=%s",
		c.baseURL, url.QueryEscape(c.appID), url.QueryEscape(paged))

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create records request: %w", err)
	}
	req.Header.Set("X-Cybozu-API-Token", c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("records request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read records response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("records request failed (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed recordsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse records response: %w", err)
	}

	return parsed.Records, nil
}
