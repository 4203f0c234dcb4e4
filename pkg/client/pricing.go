package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"mecfinder/pkg/pricing"
)

// PreviewPricing computes a breakdown locally. The server uses the same
// package, so the preview always matches what Upsert will store.
func PreviewPricing(basePrice float64, gstPercent, platformFeePercent, travelCharge *float64) (*pricing.Breakdown, error) {
	breakdown, err := pricing.Calculate(pricing.StandardDefaults().Resolve(basePrice, gstPercent, platformFeePercent, travelCharge))
	if err != nil {
		var verr *pricing.ValidationError
		if errors.As(err, &verr) {
			return nil, &ValidationError{Field: verr.Field, Message: verr.Message}
		}
		return nil, err
	}
	return breakdown, nil
}

func (c *Client) UpsertPricing(ctx context.Context, in PricingInput) (*Pricing, error) {
	if in.ServiceID == "" {
		return nil, &ValidationError{Field: "serviceId", Message: "service is required"}
	}
	if in.RegionID == "" {
		return nil, &ValidationError{Field: "regionId", Message: "region is required"}
	}

	var resp struct {
		Pricing Pricing `json:"pricing"`
	}
	if err := c.do(ctx, http.MethodPost, "/pricing", nil, in, &resp); err != nil {
		return nil, err
	}
	return &resp.Pricing, nil
}

func (c *Client) ListPricing(ctx context.Context, filter PricingFilter) ([]Pricing, error) {
	q := url.Values{}
	setIf(q, "serviceId", filter.ServiceID)
	setIf(q, "regionId", filter.RegionID)
	setIf(q, "status", filter.Status)

	var resp struct {
		Pricing []Pricing `json:"pricing"`
	}
	if err := c.do(ctx, http.MethodGet, "/pricing", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Pricing, nil
}

func (c *Client) GetPricing(ctx context.Context, id string) (*Pricing, error) {
	path, err := idPath("/pricing", id)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Pricing Pricing `json:"pricing"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Pricing, nil
}

func (c *Client) UpdatePricing(ctx context.Context, id string, update PricingUpdate) (*Pricing, error) {
	path, err := idPath("/pricing", id)
	if err != nil {
		return nil, err
	}
	if update == (PricingUpdate{}) {
		return nil, &ValidationError{Field: "body", Message: "at least one field must be provided"}
	}

	var resp struct {
		Pricing Pricing `json:"pricing"`
	}
	if err := c.do(ctx, http.MethodPut, path, nil, update, &resp); err != nil {
		return nil, err
	}
	return &resp.Pricing, nil
}

func (c *Client) DeletePricing(ctx context.Context, id string) error {
	path, err := idPath("/pricing", id)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// CalculatePricing asks the server for a breakdown. PreviewPricing gives the
// same answer without a round trip.
func (c *Client) CalculatePricing(ctx context.Context, basePrice float64, gstPercent, platformFeePercent, travelCharge *float64) (*pricing.Breakdown, error) {
	body := map[string]interface{}{"basePrice": basePrice}
	if gstPercent != nil {
		body["gstPercent"] = *gstPercent
	}
	if platformFeePercent != nil {
		body["platformFeePercent"] = *platformFeePercent
	}
	if travelCharge != nil {
		body["travelCharge"] = *travelCharge
	}

	var resp struct {
		Breakdown pricing.Breakdown `json:"breakdown"`
	}
	if err := c.do(ctx, http.MethodPost, "/pricing/calculate", nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp.Breakdown, nil
}

// ExportPricing returns the XLSX workbook bytes.
func (c *Client) ExportPricing(ctx context.Context, filter PricingFilter) ([]byte, error) {
	if c.Session() == nil {
		return nil, ErrNotLoggedIn
	}

	q := url.Values{}
	setIf(q, "serviceId", filter.ServiceID)
	setIf(q, "regionId", filter.RegionID)
	setIf(q, "status", filter.Status)

	var data []byte
	if err := c.send(ctx, http.MethodGet, "/pricing/export", q, nil, &data, true); err != nil {
		return nil, err
	}
	return data, nil
}
