package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/linea-it/pzserver-desktop/internal/model"
)

// fakeListing serves /api/products/ with server-side paging over a fixed set
func fakeListing(t *testing.T, total int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products/" {
			http.NotFound(w, r)
			return
		}

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
		if page < 1 || pageSize < 1 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		start := (page - 1) * pageSize
		end := start + pageSize
		if end > total {
			end = total
		}

		results := []model.Product{}
		for id := start + 1; id <= end; id++ {
			results = append(results, model.Product{ID: id, DisplayName: fmt.Sprintf("Product %d", id)})
		}

		json.NewEncoder(w).Encode(map[string]any{
			"count":   total,
			"results": results,
		})
	}))
}

func TestListProductsPaginationRoundTrip(t *testing.T) {
	const total = 23
	const pageSize = 10

	server := fakeListing(t, total)
	defer server.Close()

	client := New(server.URL, nil)

	seen := map[int]int{}
	fetched := 0
	for page := 0; fetched < total; page++ {
		result, err := client.ListProducts(context.Background(), ListQuery{Page: page, PageSize: pageSize}, ProductFilters{})
		if err != nil {
			t.Fatalf("Page %d: expected no error, got %v", page, err)
		}
		if result.Count != total {
			t.Errorf("Expected count %d, got %d", total, result.Count)
		}
		for _, p := range result.Results {
			seen[p.ID]++
		}
		fetched += len(result.Results)
		if page > total {
			t.Fatal("Runaway pagination")
		}
	}

	// Union of all pages reconstructs the collection exactly once per record
	if len(seen) != total {
		t.Errorf("Expected %d distinct records, got %d", total, len(seen))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("Record %d fetched %d times", id, n)
		}
	}
}

func TestPendingPublication(t *testing.T) {
	pending := true
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if pending {
			w.Write([]byte(`{"product":{"id":12,"display_name":"Draft","status":0}}`))
			return
		}
		w.Write([]byte(`{"product":null}`))
	}))
	defer server.Close()

	client := New(server.URL, nil)

	product, err := client.PendingPublication(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if product == nil || product.ID != 12 {
		t.Fatalf("Expected pending product 12, got %+v", product)
	}
	if !product.Status.IsPending() {
		t.Error("Expected pending product to be in Registering status")
	}

	pending = false
	product, err = client.PendingPublication(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if product != nil {
		t.Errorf("Expected nil product, got %+v", product)
	}
}

func TestCreateProductSendsMultipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("Expected multipart form: %v", err)
		}
		if got := r.FormValue("display_name"); got != "DP1 Training Set" {
			t.Errorf("Expected display_name, got %q", got)
		}
		if got := r.FormValue("product_type"); got != "4" {
			t.Errorf("Expected product_type 4, got %q", got)
		}
		if got := r.FormValue("release"); got != "2" {
			t.Errorf("Expected release 2, got %q", got)
		}
		if r.Form.Has("release_year") {
			t.Error("Empty release_year must be omitted")
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":31,"display_name":"DP1 Training Set","status":0}`))
	}))
	defer server.Close()

	client := New(server.URL, nil)
	release := 2
	product, err := client.CreateProduct(context.Background(), ProductForm{
		DisplayName: "DP1 Training Set",
		ProductType: 4,
		Release:     &release,
		Description: "training set for DP1",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if product.ID != 31 {
		t.Errorf("Expected id 31, got %d", product.ID)
	}
}

func TestPublishProduct(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("Expected PATCH, got %s", r.Method)
		}
		r.ParseMultipartForm(1 << 20)
		if got := r.FormValue("status"); got != "1" {
			t.Errorf("Expected status 1, got %q", got)
		}
		w.Write([]byte(`{"id":31,"internal_name":"31_dp1_training_set","status":1}`))
	}))
	defer server.Close()

	client := New(server.URL, nil)
	product, err := client.PublishProduct(context.Background(), 31)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if product.InternalName != "31_dp1_training_set" {
		t.Errorf("Expected internal name, got %q", product.InternalName)
	}
	if !product.Status.IsPublished() {
		t.Error("Expected product to be published")
	}
}

func TestGetProductByInternalName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("internal_name")
		if name == "31_dp1_training_set" {
			w.Write([]byte(`{"count":1,"results":[{"id":31,"internal_name":"31_dp1_training_set"}]}`))
			return
		}
		w.Write([]byte(`{"count":0,"results":[]}`))
	}))
	defer server.Close()

	client := New(server.URL, nil)

	product, err := client.GetProductByInternalName(context.Background(), "31_dp1_training_set")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if product.ID != 31 {
		t.Errorf("Expected product 31, got %d", product.ID)
	}

	_, err = client.GetProductByInternalName(context.Background(), "nope")
	if !errors.Is(err, ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}
}

func TestDownloadProductFilename(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="31_dp1_training_set_ab12.zip"`)
		w.Write([]byte("zipbytes"))
	}))
	defer server.Close()

	client := New(server.URL, nil)
	payload, name, err := client.DownloadProduct(context.Background(), 31)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(payload) != "zipbytes" {
		t.Errorf("Expected payload, got %q", string(payload))
	}
	if name != "31_dp1_training_set_ab12.zip" {
		t.Errorf("Expected filename from header, got %q", name)
	}
}

func TestUploadProductFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("Expected multipart form: %v", err)
		}
		if got := r.FormValue("product"); got != "31" {
			t.Errorf("Expected product 31, got %q", got)
		}
		if got := r.FormValue("role"); got != "0" {
			t.Errorf("Expected role 0, got %q", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("Expected file part: %v", err)
		}
		defer file.Close()
		if header.Filename != "catalog.csv" {
			t.Errorf("Expected filename catalog.csv, got %q", header.Filename)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":5,"product":31,"name":"catalog.csv","size":11,"role":0}`))
	}))
	defer server.Close()

	client := New(server.URL, nil)

	var last int
	body := "id,ra,dec\n1"
	file, err := client.UploadProductFile(context.Background(), 31, "catalog.csv",
		bytes.NewReader([]byte(body)), int64(len(body)), model.RoleMain, "text/csv",
		func(p int) { last = p })
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if file.ID != 5 || file.Role != model.RoleMain {
		t.Errorf("Unexpected file: %+v", file)
	}
	if last != 100 {
		t.Errorf("Expected final progress 100, got %d", last)
	}
}
