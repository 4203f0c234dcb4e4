package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"mecfinder/pkg/moderation"
)

// BanInput is the ban form. An empty BanType means TEMPORARY.
type BanInput struct {
	BanType  moderation.BanType `json:"banType"`
	Reason   string             `json:"reason"`
	Duration int                `json:"duration,omitempty"`
}

// validate runs the same rules as the server so a bad ban never leaves the
// process.
func (in BanInput) validate() (BanInput, error) {
	if in.BanType == "" {
		in.BanType = moderation.DefaultBanType
	}
	if in.BanType == moderation.BanTypePermanent {
		in.Duration = 0
	}

	req := moderation.BanRequest{BanType: in.BanType, Reason: in.Reason, Duration: in.Duration}
	if err := req.Validate(); err != nil {
		var verr *moderation.ValidationError
		if errors.As(err, &verr) {
			return in, &ValidationError{Field: verr.Field, Message: verr.Message}
		}
		return in, err
	}
	return in, nil
}

func accountQuery(filter AccountFilter) url.Values {
	q := listQuery(filter.ListOptions)
	setIf(q, "status", filter.Status)
	if filter.IsOnline != nil {
		q.Set("isOnline", strconv.FormatBool(*filter.IsOnline))
	}
	return q
}

func (c *Client) ListUsers(ctx context.Context, filter AccountFilter) ([]User, *Pagination, error) {
	var resp struct {
		Users      []User      `json:"users"`
		Pagination *Pagination `json:"pagination"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/users", accountQuery(filter), nil, &resp); err != nil {
		return nil, nil, err
	}
	return resp.Users, resp.Pagination, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*User, *AccountStats, error) {
	path, err := idPath("/admin/users", id)
	if err != nil {
		return nil, nil, err
	}

	var resp struct {
		User  User          `json:"user"`
		Stats *AccountStats `json:"stats"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, nil, err
	}
	return &resp.User, resp.Stats, nil
}

func (c *Client) UpdateUserStatus(ctx context.Context, id, status string) (*User, error) {
	return c.userCall(ctx, id, "status", http.MethodPatch, map[string]string{"status": status})
}

func (c *Client) BanUser(ctx context.Context, id string, in BanInput) (*User, error) {
	in, err := in.validate()
	if err != nil {
		return nil, err
	}
	return c.userCall(ctx, id, "ban", http.MethodPost, in)
}

func (c *Client) UnbanUser(ctx context.Context, id, reason string) (*User, error) {
	return c.userCall(ctx, id, "unban", http.MethodPost, moderation.UnbanRequest{Reason: reason})
}

func (c *Client) userCall(ctx context.Context, id, action, method string, body interface{}) (*User, error) {
	path, err := idPath("/admin/users", id, action)
	if err != nil {
		return nil, err
	}

	var resp struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, method, path, nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) ListMechanics(ctx context.Context, filter AccountFilter) ([]Mechanic, *Pagination, error) {
	var resp struct {
		Mechanics  []Mechanic  `json:"mechanics"`
		Pagination *Pagination `json:"pagination"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/mechanics", accountQuery(filter), nil, &resp); err != nil {
		return nil, nil, err
	}
	return resp.Mechanics, resp.Pagination, nil
}

func (c *Client) GetMechanic(ctx context.Context, id string) (*Mechanic, *AccountStats, error) {
	path, err := idPath("/admin/mechanics", id)
	if err != nil {
		return nil, nil, err
	}

	var resp struct {
		Mechanic Mechanic      `json:"mechanic"`
		Stats    *AccountStats `json:"stats"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, nil, err
	}
	return &resp.Mechanic, resp.Stats, nil
}

func (c *Client) UpdateMechanicStatus(ctx context.Context, id, status, reason string) (*Mechanic, error) {
	body := map[string]string{"status": status}
	if reason != "" {
		body["reason"] = reason
	}
	return c.mechanicCall(ctx, id, "status", http.MethodPatch, body)
}

func (c *Client) BanMechanic(ctx context.Context, id string, in BanInput) (*Mechanic, error) {
	in, err := in.validate()
	if err != nil {
		return nil, err
	}
	return c.mechanicCall(ctx, id, "ban", http.MethodPost, in)
}

func (c *Client) UnbanMechanic(ctx context.Context, id, reason string) (*Mechanic, error) {
	return c.mechanicCall(ctx, id, "unban", http.MethodPost, moderation.UnbanRequest{Reason: reason})
}

func (c *Client) mechanicCall(ctx context.Context, id, action, method string, body interface{}) (*Mechanic, error) {
	path, err := idPath("/admin/mechanics", id, action)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Mechanic Mechanic `json:"mechanic"`
	}
	if err := c.do(ctx, method, path, nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp.Mechanic, nil
}
