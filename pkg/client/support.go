package client

import (
	"context"
	"net/http"
)

func (c *Client) ListSupportQueries(ctx context.Context, filter SupportFilter) ([]SupportQuery, *Pagination, error) {
	q := listQuery(filter.ListOptions)
	setIf(q, "status", filter.Status)
	setIf(q, "priority", filter.Priority)
	setIf(q, "category", filter.Category)

	var resp struct {
		Queries    []SupportQuery `json:"queries"`
		Pagination *Pagination    `json:"pagination"`
	}
	if err := c.do(ctx, http.MethodGet, "/support", q, nil, &resp); err != nil {
		return nil, nil, err
	}
	return resp.Queries, resp.Pagination, nil
}

func (c *Client) GetSupportQuery(ctx context.Context, id string) (*SupportQuery, error) {
	path, err := idPath("/support", id)
	if err != nil {
		return nil, err
	}
	return c.supportCall(ctx, http.MethodGet, path, nil)
}

// UpdateSupportStatus sets the status; resolution is kept when resolving.
func (c *Client) UpdateSupportStatus(ctx context.Context, id, status, resolution string) (*SupportQuery, error) {
	path, err := idPath("/support", id, "status")
	if err != nil {
		return nil, err
	}

	body := map[string]string{"status": status}
	if resolution != "" {
		body["resolution"] = resolution
	}
	return c.supportCall(ctx, http.MethodPatch, path, body)
}

func (c *Client) AssignSupportQuery(ctx context.Context, id, adminID string) (*SupportQuery, error) {
	path, err := idPath("/support", id, "assign")
	if err != nil {
		return nil, err
	}
	if adminID == "" {
		return nil, &ValidationError{Field: "assignedTo", Message: "assignee is required"}
	}
	return c.supportCall(ctx, http.MethodPatch, path, map[string]string{"assignedTo": adminID})
}

func (c *Client) SupportStats(ctx context.Context) (*SupportStats, error) {
	var resp struct {
		Stats SupportStats `json:"stats"`
	}
	if err := c.do(ctx, http.MethodGet, "/support/stats", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Stats, nil
}

func (c *Client) supportCall(ctx context.Context, method, path string, body interface{}) (*SupportQuery, error) {
	var resp struct {
		Query SupportQuery `json:"query"`
	}
	if err := c.do(ctx, method, path, nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp.Query, nil
}
