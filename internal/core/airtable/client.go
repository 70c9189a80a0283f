package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Acurioustractor/aime-knowledge-hub/internal/config"
	"github.com/Acurioustractor/aime-knowledge-hub/internal/core"
	"github.com/Acurioustractor/aime-knowledge-hub/internal/models"
)

const defaultBaseURL = "https://api.airtable.com/v0"

// Client talks to an Airtable-style tabular record store: list/get/update/
// create by table name and record id.
type Client struct {
	httpClient *http.Client
	baseURL    string
	baseID     string
	apiKey     string
}

var _ core.RecordStore = (*Client)(nil)

func NewClient(cfg *config.Config) (*Client, error) {
	if cfg.AirtableAPIKey == "" {
		return nil, fmt.Errorf("airtable api key not set")
	}
	if cfg.AirtableBaseID == "" {
		return nil, fmt.Errorf("airtable base id not set")
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		baseID:     cfg.AirtableBaseID,
		apiKey:     cfg.AirtableAPIKey,
	}, nil
}

// WithBaseURL points the client at a different API host. Used by tests.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

type listResponse struct {
	Records []models.Record `json:"records"`
	Offset  string          `json:"offset"`
}

type recordEnvelope struct {
	Fields map[string]any `json:"fields"`
}

// ListAll fetches every record in a table, following pagination offsets.
func (c *Client) ListAll(ctx context.Context, table string) ([]models.Record, error) {
	var out []models.Record
	offset := ""

	for {
		endpoint := fmt.Sprintf("%s/%s/%s", c.baseURL, c.baseID, url.PathEscape(table))
		if offset != "" {
			endpoint += "?offset=" + url.QueryEscape(offset)
		}

		var page listResponse
		if err := c.do(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
			return nil, fmt.Errorf("list %s: %w", table, err)
		}
		out = append(out, page.Records...)

		if page.Offset == "" {
			return out, nil
		}
		offset = page.Offset
	}
}

// Get fetches a single record by id.
func (c *Client) Get(ctx context.Context, table, id string) (*models.Record, error) {
	endpoint := fmt.Sprintf("%s/%s/%s/%s", c.baseURL, c.baseID, url.PathEscape(table), url.PathEscape(id))

	var rec models.Record
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &rec); err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", table, id, err)
	}
	return &rec, nil
}

// Update patches the given fields on a record, leaving others untouched.
func (c *Client) Update(ctx context.Context, table, id string, fields map[string]any) error {
	endpoint := fmt.Sprintf("%s/%s/%s/%s", c.baseURL, c.baseID, url.PathEscape(table), url.PathEscape(id))

	if err := c.do(ctx, http.MethodPatch, endpoint, &recordEnvelope{Fields: fields}, nil); err != nil {
		return fmt.Errorf("update %s/%s: %w", table, id, err)
	}
	return nil
}

// Create inserts a new record and returns it with its assigned id.
func (c *Client) Create(ctx context.Context, table string, fields map[string]any) (*models.Record, error) {
	endpoint := fmt.Sprintf("%s/%s/%s", c.baseURL, c.baseID, url.PathEscape(table))

	var rec models.Record
	if err := c.do(ctx, http.MethodPost, endpoint, &recordEnvelope{Fields: fields}, &rec); err != nil {
		return nil, fmt.Errorf("create in %s: %w", table, err)
	}
	return &rec, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, into any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("record store returned %d: %s", resp.StatusCode, string(payload))
	}

	if into == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
