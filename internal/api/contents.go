package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/linea-it/pzserver-desktop/internal/model"
)

// ListProductContents lists the columns discovered from a product's main
// file, in file order
func (c *Client) ListProductContents(ctx context.Context, productID int) (*Page[model.ProductContent], error) {
	v := url.Values{}
	v.Set("product", strconv.Itoa(productID))
	v.Set("ordering", "order")

	req, err := c.newRequest(ctx, http.MethodGet, "/api/product-contents/", v, nil, "")
	if err != nil {
		return nil, err
	}

	var page Page[model.ProductContent]
	if err := c.do(req, &page, 0); err != nil {
		return nil, err
	}
	return &page, nil
}

// AssociateContent sets or clears the UCD and alias of a column. Nil clears
// the corresponding association on the backend.
func (c *Client) AssociateContent(ctx context.Context, contentID int, ucd, alias *string) (*model.ProductContent, error) {
	payload := struct {
		UCD   *string `json:"ucd"`
		Alias *string `json:"alias"`
	}{UCD: ucd, Alias: alias}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPatch, fmt.Sprintf("/api/product-contents/%d/", contentID), nil, bytes.NewReader(body), "application/json")
	if err != nil {
		return nil, err
	}

	var content model.ProductContent
	if err := c.do(req, &content, 0); err != nil {
		return nil, err
	}
	return &content, nil
}
