package bank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 60 * time.Second

// Client implements Bank over the question bank's REST API.
type Client struct {
	baseURL string
	client  *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.client = &http.Client{Timeout: d}
		}
	}
}

// NewClient creates a client for the API rooted at baseURL, e.g.
// http://localhost:8080/api/v1.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type topicRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type importRequest struct {
	TopicID   TopicID    `json:"topicId"`
	Questions []Question `json:"questions"`
}

// Register creates the account. A duplicate account comes back as an
// APIError for which IsConflict is true.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	return c.do(ctx, http.MethodPost, "/auth/register", "", registerRequest{
		Name:     name,
		Email:    email,
		Password: password,
	}, nil)
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", loginRequest{
		Email:    email,
		Password: password,
	}, &resp); err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("login response has no access token")
	}
	return resp.AccessToken, nil
}

// CreateTopic creates a topic and returns it with its bank-assigned id.
func (c *Client) CreateTopic(ctx context.Context, name, description, token string) (Topic, error) {
	var topic Topic
	if err := c.do(ctx, http.MethodPost, "/topics", token, topicRequest{
		Name:        name,
		Description: description,
	}, &topic); err != nil {
		return Topic{}, err
	}
	if topic.ID == "" {
		return Topic{}, fmt.Errorf("create topic %q: response has no id", name)
	}
	return topic, nil
}

// ImportQuestions submits all questions as a single request.
func (c *Client) ImportQuestions(ctx context.Context, topicID TopicID, questions []Question, token string) (ImportResult, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/questions/import", token, importRequest{
		TopicID:   topicID,
		Questions: questions,
	}, &raw); err != nil {
		return ImportResult{}, err
	}
	return ImportResult{Accepted: acceptedCount(raw, len(questions))}, nil
}

// acceptedCount reads the bank's view of how many questions were stored. The
// endpoint answers either with the created questions or with a summary
// object; anything else falls back to the submitted count.
func acceptedCount(raw json.RawMessage, submitted int) int {
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		return len(list)
	}

	var summary struct {
		TotalImported *int `json:"totalImported"`
	}
	if err := json.Unmarshal(raw, &summary); err == nil && summary.TotalImported != nil {
		return *summary.TotalImported
	}
	return submitted
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal %s %s response: %w", method, path, err)
	}
	return nil
}
