// Package api talks to the remote contacts collection resource over HTTP.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Daskott/agenda/models"
	"github.com/pkg/errors"
)

const DEFAULT_TIMEOUT = 10 * time.Second

// CollectionAPI is the set of operations supported by the contacts collection resource
type CollectionAPI interface {
	// List fetches every contact in the collection
	List(ctx context.Context) ([]models.Contact, error)

	// Get fetches a single contact by id
	Get(ctx context.Context, id int) (*models.Contact, error)

	// Create adds a new contact & returns the record created by the resource
	Create(ctx context.Context, draft models.Draft) (*models.Contact, error)

	// Update replaces the editable fields of contact 'id'
	Update(ctx context.Context, id int, draft models.Draft) (*models.Contact, error)

	// Delete removes contact 'id'
	Delete(ctx context.Context, id int) error
}

// ResponseError is returned for any non-2xx response.
// Detail holds the structured rejection reason sent by the resource, if any.
type ResponseError struct {
	StatusCode int
	Detail     string
}

func (e *ResponseError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("unexpected response status %d", e.StatusCode)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a Client for the collection at baseURL e.g. http://127.0.0.1:8000/api/v1/contacts
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DEFAULT_TIMEOUT
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) List(ctx context.Context) ([]models.Contact, error) {
	contacts := []models.Contact{}
	err := c.do(ctx, http.MethodGet, c.baseURL, nil, &contacts)
	if err != nil {
		return nil, err
	}

	return contacts, nil
}

func (c *Client) Get(ctx context.Context, id int) (*models.Contact, error) {
	contact := models.Contact{}
	err := c.do(ctx, http.MethodGet, c.contactURL(id), nil, &contact)
	if err != nil {
		return nil, err
	}

	return &contact, nil
}

func (c *Client) Create(ctx context.Context, draft models.Draft) (*models.Contact, error) {
	contact := models.Contact{}
	err := c.do(ctx, http.MethodPost, c.baseURL, draft, &contact)
	if err != nil {
		return nil, err
	}

	return &contact, nil
}

func (c *Client) Update(ctx context.Context, id int, draft models.Draft) (*models.Contact, error) {
	contact := models.Contact{}
	err := c.do(ctx, http.MethodPut, c.contactURL(id), draft, &contact)
	if err != nil {
		return nil, err
	}

	return &contact, nil
}

func (c *Client) Delete(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, c.contactURL(id), nil, nil)
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func (c *Client) contactURL(id int) string {
	return fmt.Sprintf("%s/%d", c.baseURL, id)
}

func (c *Client) do(ctx context.Context, method, url string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return errors.Wrapf(err, "building %s request", method)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ResponseError{StatusCode: resp.StatusCode, Detail: parseDetail(resp.Body)}
	}

	if result == nil {
		return nil
	}

	err = json.NewDecoder(resp.Body).Decode(result)
	if err != nil {
		return errors.Wrapf(err, "decoding %s %s response", method, url)
	}

	return nil
}

// parseDetail extracts the 'detail' field of an error body. Detail is either a
// plain string or a list of {"msg": "..."} objects.
func parseDetail(body io.Reader) string {
	payload := struct {
		Detail json.RawMessage `json:"detail"`
	}{}

	if err := json.NewDecoder(body).Decode(&payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}

	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err == nil {
		return strings.TrimSpace(detail)
	}

	items := []struct {
		Msg string `json:"msg"`
	}{}
	if err := json.Unmarshal(payload.Detail, &items); err != nil {
		return ""
	}

	msgs := []string{}
	for _, item := range items {
		if strings.TrimSpace(item.Msg) != "" {
			msgs = append(msgs, strings.TrimSpace(item.Msg))
		}
	}

	return strings.Join(msgs, "; ")
}
