package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/linea-it/pzserver-desktop/internal/model"
)

// ListReleases fetches the releases available for form selects
func (c *Client) ListReleases(ctx context.Context) ([]model.Release, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/releases/", nil, nil, "")
	if err != nil {
		return nil, err
	}

	var page Page[model.Release]
	if err := c.do(req, &page, 0); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// ListProductTypes fetches the product type enumeration in display order
func (c *Client) ListProductTypes(ctx context.Context) ([]model.ProductType, error) {
	v := url.Values{}
	v.Set("ordering", "order")

	req, err := c.newRequest(ctx, http.MethodGet, "/api/product-types/", v, nil, "")
	if err != nil {
		return nil, err
	}

	var page Page[model.ProductType]
	if err := c.do(req, &page, 0); err != nil {
		return nil, err
	}
	return page.Results, nil
}
