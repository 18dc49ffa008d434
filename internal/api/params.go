package api

import (
	"net/url"
	"strconv"
)

// SortField is a single-field sort specification
type SortField struct {
	Field      string
	Descending bool
}

// ListQuery carries pagination, sorting and search parameters for list
// endpoints. Page is zero-based; the backend pager is one-based and the
// translation happens here.
type ListQuery struct {
	Page     int
	PageSize int
	Sort     *SortField
	Search   string
}

// values translates the query into backend parameters
func (q ListQuery) values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page+1))
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if q.Sort != nil && q.Sort.Field != "" {
		ordering := q.Sort.Field
		if q.Sort.Descending {
			ordering = "-" + ordering
		}
		v.Set("ordering", ordering)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	return v
}

// ProductFilters narrows a product listing. A nil pointer means the filter is
// not applied. Release 0 is the "no release" bucket and maps to an is-null
// filter on the backend.
type ProductFilters struct {
	ProductType  *int
	Release      *int
	Status       *int
	InternalName string
	OfficialOnly bool
}

// apply adds the filters to the query parameters. A free-text search runs
// across all records, so scoped filters are suppressed while searching;
// official_product applies either way (source-of-truth behavior of the
// backend listing).
func (f ProductFilters) apply(v url.Values, search string) {
	if search == "" {
		if f.ProductType != nil {
			v.Set("product_type", strconv.Itoa(*f.ProductType))
		}
		if f.Release != nil {
			if *f.Release == 0 {
				v.Set("release__isnull", "true")
			} else {
				v.Set("release", strconv.Itoa(*f.Release))
			}
		}
		if f.Status != nil {
			v.Set("status", strconv.Itoa(*f.Status))
		}
		if f.InternalName != "" {
			v.Set("internal_name", f.InternalName)
		}
	}
	if f.OfficialOnly {
		v.Set("official_product", "true")
	}
}

// Page is one page of a paginated listing
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}
