// Package client talks to the backend that fronts the issue tracker and the
// test case generator.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fjglira/storycases/internal/domain"
)

// Backend is the subset of backend operations the rest of the tool uses.
type Backend interface {
	Authenticate(ctx context.Context, creds domain.Credentials) (*AuthResult, error)
	FetchStories(ctx context.Context, creds domain.Credentials, jiraID string) ([]domain.Story, error)
	GenerateTestCases(ctx context.Context, req GenerateRequest) (*domain.Generation, error)
}

// Client is a lightweight JSON client for the backend.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New creates a client for baseURL with the given request timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// AuthResult is the backend's answer to an authentication request.
type AuthResult struct {
	Message       string `json:"message,omitempty"`
	Status        string `json:"status,omitempty"`
	Authenticated *bool  `json:"authenticated,omitempty"`
}

// GenerateRequest asks the backend to generate test cases for one story.
type GenerateRequest struct {
	JiraID             string `json:"jira_id"`
	UserStory          string `json:"user_story"`
	AcceptanceCriteria string `json:"acceptance_criteria,omitempty"`
}

type authRequest struct {
	Domain    string `json:"domain"`
	Email     string `json:"email"`
	JiraToken string `json:"jira_token"`
}

type storiesRequest struct {
	Domain    string `json:"domain"`
	Email     string `json:"email"`
	JiraID    string `json:"jira_id"`
	JiraToken string `json:"jira_token"`
}

type storiesResponse struct {
	Stories []domain.Story `json:"stories"`
	Message string         `json:"message"`
}

type generateResponse struct {
	Content    string `json:"content"`
	TokenCount int    `json:"token_count"`
	Message    string `json:"message"`
}

// RequestForStory builds the generation request the way the story card
// describes a story: "<title> - <description>", with the epic as
// acceptance criteria when one is linked.
func RequestForStory(s domain.Story) GenerateRequest {
	req := GenerateRequest{
		JiraID:    s.ID,
		UserStory: fmt.Sprintf("%s - %s", s.Title, s.Description),
	}
	if s.EpicLink != "" {
		req.AcceptanceCriteria = "Epic: " + s.EpicLink
	}
	return req
}

// Authenticate checks the credentials against the tracker.
func (c *Client) Authenticate(ctx context.Context, creds domain.Credentials) (*AuthResult, error) {
	body, err := c.doPost(ctx, "/authenticate", authRequest{
		Domain:    creds.Domain,
		Email:     creds.Email,
		JiraToken: creds.Token,
	})
	if err != nil {
		return nil, domain.NewErrorWithSuggestion("auth", "", 0,
			"error authenticating with JIRA",
			"check your domain, email and API token", err)
	}

	var result AuthResult
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, domain.NewError("auth", "", 0, "failed to parse response", err)
		}
	}
	if result.Authenticated != nil && !*result.Authenticated {
		msg := result.Message
		if msg == "" {
			msg = "credentials rejected"
		}
		return nil, domain.NewErrorWithSuggestion("auth", "", 0, msg,
			"check your domain, email and API token", nil)
	}
	return &result, nil
}

// FetchStories lists the user stories for a tracker project.
func (c *Client) FetchStories(ctx context.Context, creds domain.Credentials, jiraID string) ([]domain.Story, error) {
	body, err := c.doPost(ctx, "/fetch-stories", storiesRequest{
		Domain:    creds.Domain,
		Email:     creds.Email,
		JiraID:    jiraID,
		JiraToken: creds.Token,
	})
	if err != nil {
		return nil, domain.NewErrorWithSuggestion("fetch", "", 0,
			"error connecting with JIRA",
			"check your credentials and the JIRA project id", err)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var stories []domain.Story
		if err := json.Unmarshal(trimmed, &stories); err != nil {
			return nil, domain.NewError("fetch", "", 0, "failed to parse stories", err)
		}
		return stories, nil
	}

	var resp storiesResponse
	if err := json.Unmarshal(trimmed, &resp); err != nil {
		return nil, domain.NewError("fetch", "", 0, "failed to parse stories", err)
	}
	if resp.Stories == nil && resp.Message != "" {
		return nil, domain.NewError("fetch", "", 0, resp.Message, nil)
	}
	return resp.Stories, nil
}

// GenerateTestCases asks the generator for test cases for one story.
func (c *Client) GenerateTestCases(ctx context.Context, req GenerateRequest) (*domain.Generation, error) {
	body, err := c.doPost(ctx, "/generate-test-cases", req)
	if err != nil {
		return nil, domain.NewError("generate", req.JiraID, 0, "error generating test cases", err)
	}

	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, domain.NewError("generate", req.JiraID, 0, "failed to parse response", err)
	}
	if resp.Content == "" && resp.Message != "" {
		return nil, domain.NewError("generate", req.JiraID, 0, resp.Message, nil)
	}

	return &domain.Generation{
		StoryID:    req.JiraID,
		Content:    resp.Content,
		TokenCount: resp.TokenCount,
	}, nil
}

// doPost sends payload as JSON and returns the response body of a 2xx reply.
func (c *Client) doPost(ctx context.Context, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, truncate(body, 300))
	}

	return body, nil
}

func truncate(b []byte, max int) string {
	s := string(b)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
