package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/linea-it/pzserver-desktop/internal/model"
	"github.com/linea-it/pzserver-desktop/internal/transfer"
)

// ListProductFiles lists the files attached to a product, ordered by role so
// the main file comes first
func (c *Client) ListProductFiles(ctx context.Context, productID int) (*Page[model.ProductFile], error) {
	v := url.Values{}
	v.Set("product_id", strconv.Itoa(productID))
	v.Set("ordering", "role")

	req, err := c.newRequest(ctx, http.MethodGet, "/api/product-files/", v, nil, "")
	if err != nil {
		return nil, err
	}

	var page Page[model.ProductFile]
	if err := c.do(req, &page, 0); err != nil {
		return nil, err
	}
	return &page, nil
}

// UploadProductFile streams a file to the backend under the given role,
// reporting progress as a 0-100 percentage while the body is consumed.
// Size validation happens before this call; the backend still applies its
// own business rules and may answer 400.
func (c *Client) UploadProductFile(ctx context.Context, productID int, name string, src io.Reader, size int64, role model.FileRole, mimeType string, onProgress func(int)) (*model.ProductFile, error) {
	pr, pw := io.Pipe()
	w := multipart.NewWriter(pw)

	go func() {
		err := writeUploadForm(w, productID, name, src, size, role, mimeType, onProgress)
		pw.CloseWithError(err)
	}()

	req, err := c.newRequest(ctx, http.MethodPost, "/api/product-files/", nil, pr, w.FormDataContentType())
	if err != nil {
		return nil, err
	}

	var file model.ProductFile
	if err := c.do(req, &file, TransferTimeout); err != nil {
		return nil, err
	}
	return &file, nil
}

func writeUploadForm(w *multipart.Writer, productID int, name string, src io.Reader, size int64, role model.FileRole, mimeType string, onProgress func(int)) error {
	if err := w.WriteField("product", strconv.Itoa(productID)); err != nil {
		return err
	}
	if err := w.WriteField("role", strconv.Itoa(int(role))); err != nil {
		return err
	}
	if mimeType != "" {
		if err := w.WriteField("type", mimeType); err != nil {
			return err
		}
	}

	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, transfer.NewProgressReader(src, size, onProgress)); err != nil {
		return err
	}
	return w.Close()
}

// DeleteProductFile removes a single attached file; the rest of the set is
// unaffected
func (c *Client) DeleteProductFile(ctx context.Context, id int) error {
	req, err := c.newRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/product-files/%d/", id), nil, nil, "")
	if err != nil {
		return err
	}
	return c.do(req, nil, 0)
}
