package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
)

func (c *Client) ListCategories(ctx context.Context, status string) ([]Category, error) {
	q := url.Values{}
	setIf(q, "status", status)

	var resp struct {
		Categories []Category `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, "/services/categories", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

// SeedCategories installs the default categories; repeated calls are no-ops.
func (c *Client) SeedCategories(ctx context.Context) ([]Category, error) {
	var resp struct {
		Categories []Category `json:"categories"`
	}
	if err := c.do(ctx, http.MethodPost, "/services/categories/seed", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

func (c *Client) SetCategoryStatus(ctx context.Context, id, status string) (*Category, error) {
	path, err := idPath("/services/categories", id, "status")
	if err != nil {
		return nil, err
	}

	var resp struct {
		Category Category `json:"category"`
	}
	if err := c.do(ctx, http.MethodPatch, path, nil, map[string]string{"status": status}, &resp); err != nil {
		return nil, err
	}
	return &resp.Category, nil
}

func (c *Client) ListServices(ctx context.Context, categoryID, status string, opts ListOptions) ([]Service, *Pagination, error) {
	q := listQuery(opts)
	setIf(q, "categoryId", categoryID)
	setIf(q, "status", status)

	var resp struct {
		Services   []Service   `json:"services"`
		Pagination *Pagination `json:"pagination"`
	}
	if err := c.do(ctx, http.MethodGet, "/services", q, nil, &resp); err != nil {
		return nil, nil, err
	}
	return resp.Services, resp.Pagination, nil
}

func (c *Client) GetService(ctx context.Context, id string) (*Service, error) {
	path, err := idPath("/services", id)
	if err != nil {
		return nil, err
	}
	return c.serviceCall(ctx, http.MethodGet, path, nil)
}

func (c *Client) CreateService(ctx context.Context, in ServiceInput) (*Service, error) {
	if in.Name == "" {
		return nil, &ValidationError{Field: "name", Message: "name is required"}
	}
	if in.CategoryID == "" {
		return nil, &ValidationError{Field: "categoryId", Message: "category is required"}
	}
	if in.BasePrice <= 0 {
		return nil, &ValidationError{Field: "basePrice", Message: "basePrice must be greater than 0"}
	}
	return c.serviceCall(ctx, http.MethodPost, "/services", in)
}

func (c *Client) UpdateService(ctx context.Context, id string, in ServiceInput) (*Service, error) {
	path, err := idPath("/services", id)
	if err != nil {
		return nil, err
	}
	return c.serviceCall(ctx, http.MethodPut, path, in)
}

func (c *Client) DeleteService(ctx context.Context, id string) error {
	path, err := idPath("/services", id)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// UploadServiceIcon sends the image as multipart field "icon".
func (c *Client) UploadServiceIcon(ctx context.Context, id, filename string, image io.Reader) (*Service, error) {
	path, err := idPath("/services", id, "icon")
	if err != nil {
		return nil, err
	}

	body := &multipartBody{buf: &bytes.Buffer{}}
	writer := multipart.NewWriter(body.buf)
	part, err := writer.CreateFormFile("icon", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("failed to read icon: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish form: %w", err)
	}
	body.contentType = writer.FormDataContentType()

	return c.serviceCall(ctx, http.MethodPost, path, body)
}

func (c *Client) serviceCall(ctx context.Context, method, path string, body interface{}) (*Service, error) {
	var resp struct {
		Service Service `json:"service"`
	}
	if err := c.do(ctx, method, path, nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp.Service, nil
}

func (c *Client) ListRegions(ctx context.Context, status string) ([]Region, error) {
	q := url.Values{}
	setIf(q, "status", status)

	var resp struct {
		Regions []Region `json:"regions"`
	}
	if err := c.do(ctx, http.MethodGet, "/regions", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Regions, nil
}

func (c *Client) CreateRegion(ctx context.Context, in RegionInput) (*Region, error) {
	if in.Name == "" {
		return nil, &ValidationError{Field: "name", Message: "name is required"}
	}
	if in.State == "" {
		return nil, &ValidationError{Field: "state", Message: "state is required"}
	}
	return c.regionCall(ctx, http.MethodPost, "/regions", in)
}

func (c *Client) UpdateRegion(ctx context.Context, id string, in RegionInput) (*Region, error) {
	path, err := idPath("/regions", id)
	if err != nil {
		return nil, err
	}
	return c.regionCall(ctx, http.MethodPut, path, in)
}

// DeleteRegion also removes every pricing record of the region.
func (c *Client) DeleteRegion(ctx context.Context, id string) error {
	path, err := idPath("/regions", id)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) regionCall(ctx context.Context, method, path string, body interface{}) (*Region, error) {
	var resp struct {
		Region Region `json:"region"`
	}
	if err := c.do(ctx, method, path, nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp.Region, nil
}

type multipartBody struct {
	buf         *bytes.Buffer
	contentType string
}

func listQuery(opts ListOptions) url.Values {
	q := url.Values{}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	setIf(q, "search", opts.Search)
	return q
}
