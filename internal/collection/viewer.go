// Package collection implements the server-paginated product listing: page
// state, sorting, scoped filters, and text search, with every change in view
// parameters answered by a fresh backend fetch.
package collection

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/linea-it/pzserver-desktop/internal/api"
	"github.com/linea-it/pzserver-desktop/internal/logging"
	"github.com/linea-it/pzserver-desktop/internal/model"
)

// DefaultPageSize matches the backend pager default
const DefaultPageSize = 25

// Fetcher retrieves one page of products for the current view parameters
type Fetcher func(ctx context.Context, query api.ListQuery, filters api.ProductFilters) (*api.Page[model.Product], error)

// Row is a displayed record with a stable key for selection tracking
type Row struct {
	Key string
	model.Product
}

// Viewer holds the view parameters and the last fetched page. All state is
// guarded so Refresh can run on a background goroutine while widget callbacks
// read Rows and Loading from the UI goroutine. The lock is never held across
// the fetch itself.
type Viewer struct {
	fetch Fetcher
	log   zerolog.Logger

	stateMutex sync.RWMutex
	page       int
	pageSize   int
	sort       *api.SortField
	search     string
	filters    api.ProductFilters
	rows       []Row
	total      int
	loading    bool
	lastErr    error
}

// NewViewer creates a viewer over the given fetcher
func NewViewer(fetch Fetcher) *Viewer {
	return &Viewer{
		fetch:    fetch,
		pageSize: DefaultPageSize,
		log:      logging.Logger().With().Str("component", "collection").Logger(),
	}
}

// SetPage moves to the given zero-based page, clamped to the known range
func (v *Viewer) SetPage(page int) {
	v.stateMutex.Lock()
	defer v.stateMutex.Unlock()

	if page < 0 {
		page = 0
	}
	if max := v.pageCount() - 1; max >= 0 && page > max {
		page = max
	}
	v.page = page
}

// SetPageSize changes the page size and returns to the first page
func (v *Viewer) SetPageSize(size int) {
	v.stateMutex.Lock()
	defer v.stateMutex.Unlock()

	if size < 1 {
		size = DefaultPageSize
	}
	v.pageSize = size
	v.page = 0
}

// SetSort replaces the sort order and returns to the first page
func (v *Viewer) SetSort(sort *api.SortField) {
	v.stateMutex.Lock()
	defer v.stateMutex.Unlock()

	v.sort = sort
	v.page = 0
}

// SetSearch replaces the search text and returns to the first page
func (v *Viewer) SetSearch(text string) {
	v.stateMutex.Lock()
	defer v.stateMutex.Unlock()

	v.search = text
	v.page = 0
}

// SetFilters replaces the scoped filters and returns to the first page
func (v *Viewer) SetFilters(filters api.ProductFilters) {
	v.stateMutex.Lock()
	defer v.stateMutex.Unlock()

	v.filters = filters
	v.page = 0
}

// Refresh fetches the page for the current view parameters
func (v *Viewer) Refresh(ctx context.Context) error {
	v.stateMutex.Lock()
	v.loading = true
	v.lastErr = nil
	query := api.ListQuery{
		Page:     v.page,
		PageSize: v.pageSize,
		Sort:     v.sort,
		Search:   v.search,
	}
	filters := v.filters
	v.stateMutex.Unlock()

	result, err := v.fetch(ctx, query, filters)

	v.stateMutex.Lock()
	v.loading = false
	if err != nil {
		v.lastErr = err
		v.stateMutex.Unlock()
		v.log.Error().Err(err).Int("page", query.Page).Msg("fetch failed")
		return err
	}

	rows := make([]Row, 0, len(result.Results))
	for _, p := range result.Results {
		rows = append(rows, Row{Key: strconv.Itoa(p.ID), Product: p})
	}
	v.rows = rows
	v.total = result.Count

	// The collection may have shrunk under us; snap back to the last page
	if max := v.pageCount() - 1; max >= 0 && v.page > max {
		v.page = max
		v.stateMutex.Unlock()
		return v.Refresh(ctx)
	}
	v.stateMutex.Unlock()
	return nil
}

// Rows returns the records of the last fetched page. The slice is replaced
// wholesale on every fetch, so the returned snapshot stays valid.
func (v *Viewer) Rows() []Row {
	v.stateMutex.RLock()
	defer v.stateMutex.RUnlock()
	return v.rows
}

// Total returns the record count across all pages
func (v *Viewer) Total() int {
	v.stateMutex.RLock()
	defer v.stateMutex.RUnlock()
	return v.total
}

// Page returns the current zero-based page
func (v *Viewer) Page() int {
	v.stateMutex.RLock()
	defer v.stateMutex.RUnlock()
	return v.page
}

// PageSize returns the current page size
func (v *Viewer) PageSize() int {
	v.stateMutex.RLock()
	defer v.stateMutex.RUnlock()
	return v.pageSize
}

// PageCount returns the number of pages for the current total
func (v *Viewer) PageCount() int {
	v.stateMutex.RLock()
	defer v.stateMutex.RUnlock()
	return v.pageCount()
}

// pageCount requires the lock to be held
func (v *Viewer) pageCount() int {
	if v.total == 0 {
		return 0
	}
	return (v.total + v.pageSize - 1) / v.pageSize
}

// Loading reports whether a fetch is in flight
func (v *Viewer) Loading() bool {
	v.stateMutex.RLock()
	defer v.stateMutex.RUnlock()
	return v.loading
}

// Err returns the failure of the last fetch, if any
func (v *Viewer) Err() error {
	v.stateMutex.RLock()
	defer v.stateMutex.RUnlock()
	return v.lastErr
}

// Search returns the current search text
func (v *Viewer) Search() string {
	v.stateMutex.RLock()
	defer v.stateMutex.RUnlock()
	return v.search
}

// Filters returns the current scoped filters
func (v *Viewer) Filters() api.ProductFilters {
	v.stateMutex.RLock()
	defer v.stateMutex.RUnlock()
	return v.filters
}

// DefaultDebounce is how long typing must pause before a search fires
const DefaultDebounce = 600 * time.Millisecond

// Debouncer coalesces bursts of calls into one, keeping only the last
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

// NewDebouncer creates a debouncer with the given delay
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

// Do schedules fn, replacing any previously scheduled call
func (d *Debouncer) Do(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Cancel drops any pending call
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
