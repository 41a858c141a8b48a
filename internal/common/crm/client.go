// internal/common/crm/client.go
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	commonhttp "rental-wizard/internal/common/http"
)

// Client talks to the lettings CRM REST API. One lead per applicant; the
// wizard only ever creates leads and moves their stage forward.
type Client struct {
	oauthToken string
	baseURL    string
	httpClient *commonhttp.Client
}

type Lead struct {
	ID         string `json:"id,omitempty"`
	Email      string `json:"Email"`
	FirstName  string `json:"First_Name"`
	LastName   string `json:"Last_Name"`
	Phone      string `json:"Phone,omitempty"`
	PropertyID string `json:"Property_Id,omitempty"`
	Stage      string `json:"Lead_Stage,omitempty"`
	Source     string `json:"Lead_Source,omitempty"`
}

type writeResponse struct {
	Data []struct {
		Code    string `json:"code"`
		Details struct {
			ID string `json:"id"`
		} `json:"details"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"data"`
}

func NewClient(baseURL, oauthToken string) *Client {
	return &Client{
		oauthToken: oauthToken,
		baseURL:    baseURL,
		httpClient: commonhttp.NewClient(30 * time.Second),
	}
}

// UpsertLead creates the applicant's lead, or updates it when a lead with
// the same email already exists. Returns the lead id.
func (c *Client) UpsertLead(ctx context.Context, lead *Lead) (string, error) {
	existing, err := c.SearchLeads(ctx, lead.Email)
	if err == nil && len(existing) > 0 {
		lead.ID = existing[0].ID
		if err := c.UpdateLead(ctx, existing[0].ID, lead); err != nil {
			return "", err
		}
		return existing[0].ID, nil
	}
	return c.CreateLead(ctx, lead)
}

func (c *Client) CreateLead(ctx context.Context, lead *Lead) (string, error) {
	url := fmt.Sprintf("%s/Leads", c.baseURL)

	payload := map[string]interface{}{
		"data": []Lead{*lead},
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.oauthToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to create lead (status %d): %s", resp.StatusCode, string(body))
	}

	var createResp writeResponse
	if err := json.Unmarshal(body, &createResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(createResp.Data) == 0 {
		return "", fmt.Errorf("no data in response")
	}
	if createResp.Data[0].Status != "success" {
		return "", fmt.Errorf("lead creation failed: %s", createResp.Data[0].Message)
	}
	return createResp.Data[0].Details.ID, nil
}

func (c *Client) UpdateLead(ctx context.Context, leadID string, lead *Lead) error {
	url := fmt.Sprintf("%s/Leads/%s", c.baseURL, leadID)

	payload := map[string]interface{}{
		"data": []Lead{*lead},
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.oauthToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to update lead (status %d): %s", resp.StatusCode, string(body))
	}
	return nil
}

// SearchLeads finds leads by email.
func (c *Client) SearchLeads(ctx context.Context, email string) ([]Lead, error) {
	url := fmt.Sprintf("%s/Leads/search?email=%s", c.baseURL, email)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.oauthToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to search leads (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Data []Lead `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return result.Data, nil
}
