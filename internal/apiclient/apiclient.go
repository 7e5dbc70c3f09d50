// Package apiclient is a thin HTTP client over the task-queue REST API,
// used by the taskqueuectl CLI so the command layer never depends on
// the service package directly.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to a running taskqueued server over HTTP.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Token   string
}

// New builds a Client against baseURL (e.g. "http://localhost:16080").
func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if jsonErr := json.Unmarshal(respBody, &apiErr); jsonErr == nil && apiErr.Message != "" {
			return fmt.Errorf("%s: %s", apiErr.Error, apiErr.Message)
		}
		return fmt.Errorf("%s %s: unexpected status %d: %s", method, path, resp.StatusCode, string(respBody))
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decoding response from %s %s: %w", method, path, err)
	}
	return nil
}

// --- Tasks ---

type TaskPayload struct {
	Name               string          `json:"name"`
	Command            string          `json:"command"`
	Description        string          `json:"description,omitempty"`
	TechnicalSpecs      string          `json:"technical_specs,omitempty"`
	AcceptanceCriteria string          `json:"acceptance_criteria,omitempty"`
	ProjectID          string          `json:"project_id,omitempty"`
	TaskType           string          `json:"task_type,omitempty"`
	Priority           string          `json:"priority,omitempty"`
	AIReviewsRequired  int             `json:"ai_reviews_required,omitempty"`
}

func (c *Client) SubmitTask(ctx context.Context, p TaskPayload) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, http.MethodPost, "/tasks/", nil, p, &out)
	return out, err
}

func (c *Client) GetTask(ctx context.Context, id string) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, http.MethodGet, "/tasks/"+id+"/", nil, nil, &out)
	return out, err
}

func (c *Client) ListTasks(ctx context.Context, projectID, status string) (map[string]any, error) {
	q := url.Values{}
	if projectID != "" {
		q.Set("project_id", projectID)
	}
	if status != "" {
		q.Set("status", status)
	}
	var out map[string]any
	err := c.do(ctx, http.MethodGet, "/tasks/", q, nil, &out)
	return out, err
}

func (c *Client) CancelTask(ctx context.Context, id, reason string) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, http.MethodPost, "/tasks/"+id+"/cancel", nil, map[string]string{"reason": reason}, &out)
	return out, err
}

func (c *Client) RetryTask(ctx context.Context, id string, resetRetryCount bool) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, http.MethodPost, "/tasks/"+id+"/retry", nil, map[string]bool{"reset_retry_count": resetRetryCount}, &out)
	return out, err
}

func (c *Client) AdvancePhase(ctx context.Context, id string) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, http.MethodPost, "/tasks/"+id+"/advance-phase", nil, nil, &out)
	return out, err
}

func (c *Client) AdvanceWorkflow(ctx context.Context, id string) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, http.MethodPost, "/tasks/"+id+"/advance-workflow", nil, nil, &out)
	return out, err
}

func (c *Client) DeleteTask(ctx context.Context, id string) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, http.MethodDelete, "/tasks/"+id+"/", nil, nil, &out)
	return out, err
}

// --- Projects ---

func (c *Client) CreateProject(ctx context.Context, name, description string, tags []string) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, http.MethodPost, "/projects/", nil, map[string]any{
		"name": name, "description": description, "tags": tags,
	}, &out)
	return out, err
}

func (c *Client) ListProjects(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, http.MethodGet, "/projects/", nil, nil, &out)
	return out, err
}

func (c *Client) GetProject(ctx context.Context, id string) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, http.MethodGet, "/projects/"+id+"/", nil, nil, &out)
	return out, err
}

// --- Workflows ---

func (c *Client) SubmitWorkflow(ctx context.Context, name, description string, tasks []TaskPayload) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, http.MethodPost, "/workflows/", nil, map[string]any{
		"name": name, "description": description, "tasks": tasks,
	}, &out)
	return out, err
}

func (c *Client) GetWorkflow(ctx context.Context, id string) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, http.MethodGet, "/workflows/"+id+"/", nil, nil, &out)
	return out, err
}

func (c *Client) ListWorkflows(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, http.MethodGet, "/workflows/", nil, nil, &out)
	return out, err
}

func (c *Client) ApproveWorkflow(ctx context.Context, id string) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, http.MethodPost, "/workflows/"+id+"/approve", nil, nil, &out)
	return out, err
}
