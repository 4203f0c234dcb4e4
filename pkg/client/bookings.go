package client

import (
	"context"
	"net/http"
)

func (c *Client) ListBookings(ctx context.Context, filter BookingFilter) ([]Booking, *Pagination, error) {
	q := listQuery(filter.ListOptions)
	setIf(q, "status", filter.Status)
	setIf(q, "paymentMethod", filter.PaymentMethod)
	setIf(q, "startDate", filter.StartDate)
	setIf(q, "endDate", filter.EndDate)

	var resp struct {
		Bookings   []Booking   `json:"bookings"`
		Pagination *Pagination `json:"pagination"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/bookings", q, nil, &resp); err != nil {
		return nil, nil, err
	}
	return resp.Bookings, resp.Pagination, nil
}

func (c *Client) GetBooking(ctx context.Context, id string) (*Booking, error) {
	path, err := idPath("/admin/bookings", id)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Booking Booking `json:"booking"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Booking, nil
}

// UpdateBookingStatus moves a booking along its flow. Cancelling a paid online
// booking refunds it on the server.
func (c *Client) UpdateBookingStatus(ctx context.Context, id, status, note string) (*Booking, error) {
	path, err := idPath("/admin/bookings", id, "status")
	if err != nil {
		return nil, err
	}
	if status == "" {
		return nil, &ValidationError{Field: "status", Message: "status is required"}
	}

	body := map[string]string{"status": status}
	if note != "" {
		body["note"] = note
	}

	var resp struct {
		Booking Booking `json:"booking"`
	}
	if err := c.do(ctx, http.MethodPatch, path, nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp.Booking, nil
}

func (c *Client) Dashboard(ctx context.Context, refresh bool) (*Dashboard, error) {
	q := listQuery(ListOptions{})
	if refresh {
		q.Set("refresh", "true")
	}

	var resp Dashboard
	if err := c.do(ctx, http.MethodGet, "/admin/dashboard/stats", q, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
