package kommo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xavierca1/lead-ledger/internal/entity"
)

var ErrNotConfigured = errors.New("kommo: not configured")

type Client struct {
	apiToken   string
	baseURL    string
	statusID   int
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient targets baseURL (e.g. https://acme.kommo.com/api/v4). statusID places created
// leads in a pipeline stage; zero leaves the CRM default.
func NewClient(baseURL, apiToken string, statusID int, logger *slog.Logger) *Client {
	return &Client{
		apiToken:   apiToken,
		baseURL:    strings.TrimRight(baseURL, "/"),
		statusID:   statusID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// CreateLead files a converted lead in the CRM under its contact, reusing a contact
// with the same phone number when one exists. Price is the commission truncated to whole
// units. A failed contact lookup fails the call so the worker can retry it.
func (c *Client) CreateLead(ctx context.Context, event entity.LeadEvent) (int, error) {
	if c.apiToken == "" || c.baseURL == "" {
		return 0, ErrNotConfigured
	}

	contactID, err := c.findOrCreateContact(ctx, event)
	if err != nil {
		return 0, fmt.Errorf("kommo contact: %w", err)
	}

	payload := []leadRequest{{
		Name:     fmt.Sprintf("%s - %s", event.CompanyName, event.Province),
		StatusID: c.statusID,
		Price:    event.Commission.IntPart(),
		Embedded: leadEmbedded{
			Tags:     []tag{{Name: "converted"}, {Name: event.Province}},
			Contacts: []ref{{ID: contactID}},
		},
	}}

	var result embeddedResponse
	if err := c.do(ctx, http.MethodPost, "/leads", payload, &result); err != nil {
		return 0, fmt.Errorf("kommo create lead: %w", err)
	}
	if len(result.Embedded.Leads) == 0 {
		return 0, errors.New("kommo create lead: empty response")
	}

	leadID := result.Embedded.Leads[0].ID
	c.logger.Info("kommo lead created", "crm_lead_id", leadID, "lead_id", event.LeadID, "contact_id", contactID)
	return leadID, nil
}

func (c *Client) findOrCreateContact(ctx context.Context, event entity.LeadEvent) (int, error) {
	id, err := c.findContactByPhone(ctx, event.Phone)
	if err != nil {
		return 0, fmt.Errorf("lookup: %w", err)
	}
	if id > 0 {
		return id, nil
	}
	return c.createContact(ctx, event)
}

func (c *Client) findContactByPhone(ctx context.Context, phone string) (int, error) {
	var result embeddedResponse
	if err := c.do(ctx, http.MethodGet, "/contacts?query="+url.QueryEscape(phone), nil, &result); err != nil {
		return 0, err
	}
	if len(result.Embedded.Contacts) == 0 {
		return 0, nil
	}
	return result.Embedded.Contacts[0].ID, nil
}

func (c *Client) createContact(ctx context.Context, event entity.LeadEvent) (int, error) {
	payload := []contactRequest{{
		Name: event.ContactName,
		CustomFieldsValues: []customField{
			{FieldCode: "PHONE", Values: []customFieldValue{{Value: event.Phone, EnumCode: "WORK"}}},
			{FieldCode: "EMAIL", Values: []customFieldValue{{Value: event.Email, EnumCode: "WORK"}}},
		},
	}}

	var result embeddedResponse
	if err := c.do(ctx, http.MethodPost, "/contacts", payload, &result); err != nil {
		return 0, err
	}
	if len(result.Embedded.Contacts) == 0 {
		return 0, errors.New("no contact id in response")
	}
	return result.Embedded.Contacts[0].ID, nil
}

// do sends body as JSON and decodes a 2xx response into out. Kommo answers an empty
// search with 204.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	c.addAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(raw))
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func (c *Client) addAuthHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
