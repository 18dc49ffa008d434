package api

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/linea-it/pzserver-desktop/internal/model"
)

// ProductForm carries the writable product attributes for create and update.
// The backend consumes them as multipart form fields.
type ProductForm struct {
	ID              int
	DisplayName     string `rule:"required,max=255"`
	ProductType     int    `rule:"required"`
	Release         *int
	ReleaseYear     string
	Survey          string
	PzCode          string
	Description     string `rule:"required"`
	OfficialProduct bool
	Status          *model.ProductStatus
}

// multipart encodes the form the way the backend expects: optional
// relations are omitted entirely when unset rather than sent empty
func (f ProductForm) multipart() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fields := map[string]string{
		"display_name":     f.DisplayName,
		"official_product": strconv.FormatBool(f.OfficialProduct),
		"survey":           f.Survey,
		"pz_code":          f.PzCode,
		"description":      f.Description,
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}

	if f.ProductType != 0 {
		if err := w.WriteField("product_type", strconv.Itoa(f.ProductType)); err != nil {
			return nil, "", err
		}
	}
	if f.Release != nil {
		if err := w.WriteField("release", strconv.Itoa(*f.Release)); err != nil {
			return nil, "", err
		}
	}
	if f.ReleaseYear != "" {
		if err := w.WriteField("release_year", f.ReleaseYear); err != nil {
			return nil, "", err
		}
	}
	if f.Status != nil {
		if err := w.WriteField("status", strconv.Itoa(int(*f.Status))); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

// ListProducts fetches one page of the product listing
func (c *Client) ListProducts(ctx context.Context, q ListQuery, f ProductFilters) (*Page[model.Product], error) {
	v := q.values()
	f.apply(v, q.Search)

	req, err := c.newRequest(ctx, http.MethodGet, "/api/products/", v, nil, "")
	if err != nil {
		return nil, err
	}

	var page Page[model.Product]
	if err := c.do(req, &page, 0); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetProduct fetches a single product by id
func (c *Client) GetProduct(ctx context.Context, id int) (*model.Product, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/api/products/%d/", id), nil, nil, "")
	if err != nil {
		return nil, err
	}

	var product model.Product
	if err := c.do(req, &product, 0); err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductByInternalName resolves a published product by its internal name,
// returning ErrProductNotFound when no single match exists
func (c *Client) GetProductByInternalName(ctx context.Context, internalName string) (*model.Product, error) {
	page, err := c.ListProducts(ctx, ListQuery{}, ProductFilters{InternalName: internalName})
	if err != nil {
		return nil, err
	}
	if page.Count != 1 || len(page.Results) != 1 {
		return nil, ErrProductNotFound
	}
	return &page.Results[0], nil
}

// CreateProduct creates a draft product (status Registering)
func (c *Client) CreateProduct(ctx context.Context, form ProductForm) (*model.Product, error) {
	body, contentType, err := form.multipart()
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/products/", nil, body, contentType)
	if err != nil {
		return nil, err
	}

	var product model.Product
	if err := c.do(req, &product, 0); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct patches an existing product with the form's attributes
func (c *Client) UpdateProduct(ctx context.Context, form ProductForm) (*model.Product, error) {
	body, contentType, err := form.multipart()
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPatch, fmt.Sprintf("/api/products/%d/", form.ID), nil, body, contentType)
	if err != nil {
		return nil, err
	}

	var product model.Product
	if err := c.do(req, &product, 0); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes a product. The backend only allows the owner or an
// admin; anyone else gets a 403.
func (c *Client) DeleteProduct(ctx context.Context, id int) error {
	req, err := c.newRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/products/%d/", id), nil, nil, "")
	if err != nil {
		return err
	}
	return c.do(req, nil, 0)
}

// RegistryProduct asks the backend to register the uploaded main file,
// discovering its columns. Required before column association.
func (c *Client) RegistryProduct(ctx context.Context, id int) (*model.Product, error) {
	req, err := c.newRequest(ctx, http.MethodPost, fmt.Sprintf("/api/products/%d/registry/", id), nil, nil, "")
	if err != nil {
		return nil, err
	}

	var product model.Product
	if err := c.do(req, &product, 0); err != nil {
		return nil, err
	}
	return &product, nil
}

// PendingPublication returns the caller's draft product still in Registering
// status, or nil when there is none. The backend keeps at most one.
func (c *Client) PendingPublication(ctx context.Context) (*model.Product, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/products/pending_publication/", nil, nil, "")
	if err != nil {
		return nil, err
	}

	var payload struct {
		Product *model.Product `json:"product"`
	}
	if err := c.do(req, &payload, 0); err != nil {
		return nil, err
	}
	return payload.Product, nil
}

// PublishProduct transitions the product from Registering to Published,
// which makes the backend assign its internal name
func (c *Client) PublishProduct(ctx context.Context, id int) (*model.Product, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	if err := w.WriteField("status", strconv.Itoa(int(model.StatusPublished))); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPatch, fmt.Sprintf("/api/products/%d/", id), nil, buf, w.FormDataContentType())
	if err != nil {
		return nil, err
	}

	var product model.Product
	if err := c.do(req, &product, 0); err != nil {
		return nil, err
	}
	return &product, nil
}

// DownloadProduct fetches the zipped product bundle, returning the payload
// and the file name suggested by the backend
func (c *Client) DownloadProduct(ctx context.Context, id int) ([]byte, string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/api/products/%d/download/", id), nil, nil, "")
	if err != nil {
		return nil, "", err
	}

	body, headers, err := c.doRaw(req, TransferTimeout)
	if err != nil {
		return nil, "", err
	}

	name := fmt.Sprintf("product_%d.zip", id)
	if disposition := headers.Get("Content-Disposition"); disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			if fn, ok := params["filename"]; ok && fn != "" {
				name = fn
			}
		}
	}
	return body, name, nil
}

// ReadProductData fetches one page of the tabular contents of a published
// product for preview. Page is zero-based like every other listing here.
func (c *Client) ReadProductData(ctx context.Context, id, page, pageSize int) (*Page[map[string]any], error) {
	v := url.Values{}
	v.Set("page", strconv.Itoa(page+1))
	if pageSize > 0 {
		v.Set("page_size", strconv.Itoa(pageSize))
	}

	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/api/products/%d/read_data/", id), v, nil, "")
	if err != nil {
		return nil, err
	}

	var result Page[map[string]any]
	if err := c.do(req, &result, TransferTimeout); err != nil {
		return nil, err
	}
	return &result, nil
}
