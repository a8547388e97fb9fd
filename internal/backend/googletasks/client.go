// Package googletasks implements repository.Repository on top of the Google Tasks API.
package googletasks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"todo/internal/config"
	"todo/internal/repository"
	"todo/internal/task"
)

const (
	// DefaultListID is the special ID for the user's default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks requested per page.
	PageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"

	statusNeedsAction = "needsAction"
	statusCompleted   = "completed"
)

var _ repository.Repository = (*Client)(nil)

// Client stores todo tasks in one Google Tasks list.
type Client struct {
	svc    *tasks.Service
	listID string
}

// New creates a Google Tasks client from the credentials in the config dir.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}

	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json (run: todo login): %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}

	// Token source refreshes the access token as needed
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}

	return &Client{svc: svc, listID: listOrDefault(cfg.GoogleList)}, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, listID string, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc, listID: listOrDefault(listID)}, nil
}

// ListID returns the Google task list this client reads and writes.
func (c *Client) ListID() string {
	return c.listID
}

// GetAll returns every task in the list, completed and hidden ones included.
func (c *Client) GetAll(ctx context.Context) ([]task.Task, error) {
	items, err := c.listRemote(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]task.Task, 0, len(items))
	for _, item := range items {
		t, err := fromRemote(item.task)
		if err != nil {
			continue // Untitled items cannot be represented
		}
		result = append(result, t)
	}
	return result, nil
}

// GetByID scans the list for the task carrying the given todo id.
func (c *Client) GetByID(ctx context.Context, id string) (task.Task, bool, error) {
	item, found, err := c.findRemote(ctx, id)
	if err != nil || !found {
		return task.Task{}, false, err
	}
	t, err := fromRemote(item)
	if err != nil {
		return task.Task{}, false, nil
	}
	return t, true, nil
}

// Save updates the remote task carrying t's id, or inserts a new one.
func (c *Client) Save(ctx context.Context, t task.Task) error {
	existing, found, err := c.findRemote(ctx, t.ID())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	body := toRemote(t)
	if found {
		body.Id = existing.Id
		_, err = c.svc.Tasks.Update(c.listID, existing.Id, body).Context(ctx).Do()
	} else {
		_, err = c.svc.Tasks.Insert(c.listID, body).Context(ctx).Do()
	}
	return wrapError(err)
}

// Delete removes the remote task carrying the id, if any.
func (c *Client) Delete(ctx context.Context, id string) error {
	existing, found, err := c.findRemote(ctx, id)
	if err != nil || !found {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	return wrapError(c.svc.Tasks.Delete(c.listID, existing.Id).Context(ctx).Do())
}

type remoteItem struct {
	task *tasks.Task
	id   string // todo id, from the notes trailer or the Google id
}

// listRemote fetches all pages of the list.
func (c *Client) listRemote(ctx context.Context) ([]remoteItem, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var items []remoteItem
	err := c.svc.Tasks.List(c.listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				if t.Deleted {
					continue
				}
				items = append(items, remoteItem{task: t, id: todoID(t)})
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}
	return items, nil
}

// findRemote returns the first remote task whose todo id matches.
func (c *Client) findRemote(ctx context.Context, id string) (*tasks.Task, bool, error) {
	items, err := c.listRemote(ctx)
	if err != nil {
		return nil, false, err
	}
	for _, item := range items {
		if item.id == id {
			return item.task, true, nil
		}
	}
	return nil, false, nil
}

func listOrDefault(listID string) string {
	if strings.TrimSpace(listID) == "" {
		return DefaultListID
	}
	return listID
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()

	if strings.Contains(errStr, "context deadline exceeded") {
		return fmt.Errorf("request timed out")
	}

	if strings.Contains(errStr, "401") || strings.Contains(errStr, "403") {
		return fmt.Errorf("token expired or revoked (run: todo login)")
	}

	if strings.Contains(errStr, "404") {
		return fmt.Errorf("task list not found")
	}

	return err
}
