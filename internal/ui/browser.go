package ui

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/linea-it/pzserver-desktop/internal/api"
	"github.com/linea-it/pzserver-desktop/internal/collection"
	"github.com/linea-it/pzserver-desktop/internal/model"
)

// Browser column layout
var browserColumns = []struct {
	title string
	width float32
}{
	{"Name", 260},
	{"Type", 140},
	{"Release", 110},
	{"Uploaded By", 120},
	{"Status", 100},
	{"Created", 100},
}

// Sort choices offered in the browser
var browserSorts = []struct {
	label string
	sort  *api.SortField
}{
	{"Newest first", &api.SortField{Field: "created_at", Descending: true}},
	{"Oldest first", &api.SortField{Field: "created_at"}},
	{"Name A-Z", &api.SortField{Field: "display_name"}},
	{"Name Z-A", &api.SortField{Field: "display_name", Descending: true}},
}

// Browser is the paginated product listing with search, filters and sorting
type Browser struct {
	window fyne.Window
	client *api.Client
	viewer *collection.Viewer

	searchDebounce *collection.Debouncer

	releases []model.Release
	types    []model.ProductType

	searchEntry    *widget.Entry
	typeSelect     *widget.Select
	releaseSelect  *widget.Select
	officialCheck  *widget.Check
	sortSelect     *widget.Select
	table          *widget.Table
	pageLabel      *widget.Label
	prevBtn        *widget.Button
	nextBtn        *widget.Button
	pageSizeSelect *widget.Select
	statusLabel    *widget.Label

	// OnOpen is invoked when a row is activated
	OnOpen func(model.Product)

	content fyne.CanvasObject
}

// NewBrowser creates the product browser over the gateway
func NewBrowser(window fyne.Window, client *api.Client) *Browser {
	b := &Browser{
		window:         window,
		client:         client,
		viewer:         collection.NewViewer(client.ListProducts),
		searchDebounce: collection.NewDebouncer(collection.DefaultDebounce),
	}
	b.createUI()
	return b
}

// Content returns the view's root canvas object
func (b *Browser) Content() fyne.CanvasObject {
	return b.content
}

// createUI creates the browser UI
func (b *Browser) createUI() {
	// Search with debounce so a request fires only when typing pauses
	b.searchEntry = widget.NewEntry()
	b.searchEntry.SetPlaceHolder("Search name, description, uploader...")
	b.searchEntry.OnChanged = func(text string) {
		b.searchDebounce.Do(func() {
			fyne.Do(func() {
				b.viewer.SetSearch(text)
				b.refresh()
			})
		})
	}

	b.typeSelect = widget.NewSelect([]string{"All"}, func(string) { b.onFiltersChanged() })
	b.typeSelect.PlaceHolder = "Product type"

	b.releaseSelect = widget.NewSelect([]string{"All", "No release"}, func(string) { b.onFiltersChanged() })
	b.releaseSelect.PlaceHolder = "Release"

	b.officialCheck = widget.NewCheck("Official only", func(bool) { b.onFiltersChanged() })

	sortLabels := make([]string, len(browserSorts))
	for i, s := range browserSorts {
		sortLabels[i] = s.label
	}
	b.sortSelect = widget.NewSelect(sortLabels, b.onSortChanged)
	b.sortSelect.SetSelectedIndex(0)

	filters := container.NewHBox(
		container.NewGridWrap(fyne.NewSize(SearchEntryWidth, b.searchEntry.MinSize().Height), b.searchEntry),
		b.typeSelect,
		b.releaseSelect,
		b.officialCheck,
		b.sortSelect,
	)

	// Product table
	b.table = widget.NewTable(
		func() (int, int) { return len(b.viewer.Rows()), len(browserColumns) },
		func() fyne.CanvasObject {
			label := widget.NewLabel("")
			label.Truncation = fyne.TextTruncateEllipsis
			return label
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			label := obj.(*widget.Label)
			rows := b.viewer.Rows()
			if id.Row >= len(rows) {
				label.SetText("")
				return
			}
			label.SetText(cellText(rows[id.Row].Product, id.Col))
		},
	)
	b.table.ShowHeaderRow = true
	b.table.CreateHeader = func() fyne.CanvasObject {
		label := widget.NewLabel("")
		label.TextStyle = fyne.TextStyle{Bold: true}
		return label
	}
	b.table.UpdateHeader = func(id widget.TableCellID, obj fyne.CanvasObject) {
		label := obj.(*widget.Label)
		if id.Col >= 0 && id.Col < len(browserColumns) {
			label.SetText(browserColumns[id.Col].title)
		}
	}
	for i, col := range browserColumns {
		b.table.SetColumnWidth(i, col.width)
	}
	b.table.OnSelected = func(id widget.TableCellID) {
		rows := b.viewer.Rows()
		if id.Row >= 0 && id.Row < len(rows) && b.OnOpen != nil {
			b.OnOpen(rows[id.Row].Product)
		}
		b.table.UnselectAll()
	}

	// Pager
	b.prevBtn = widget.NewButton("<", func() { b.onPageChange(b.viewer.Page() - 1) })
	b.nextBtn = widget.NewButton(">", func() { b.onPageChange(b.viewer.Page() + 1) })
	b.pageLabel = widget.NewLabel("")

	sizeLabels := make([]string, len(PageSizeOptions))
	for i, size := range PageSizeOptions {
		sizeLabels[i] = fmt.Sprintf("%d", size)
	}
	b.pageSizeSelect = widget.NewSelect(sizeLabels, b.onPageSizeChanged)
	b.pageSizeSelect.SetSelected(fmt.Sprintf("%d", b.viewer.PageSize()))

	b.statusLabel = widget.NewLabel("")

	pager := container.NewHBox(
		b.statusLabel,
		widget.NewSeparator(),
		widget.NewLabel("Rows:"),
		b.pageSizeSelect,
		b.prevBtn,
		b.pageLabel,
		b.nextBtn,
	)

	b.content = container.NewBorder(filters, pager, nil, nil, b.table)
}

// cellText renders one table cell for a product
func cellText(p model.Product, col int) string {
	switch col {
	case 0:
		return p.DisplayName
	case 1:
		return p.ProductTypeName
	case 2:
		if p.ReleaseName == "" {
			return DashPlaceholder
		}
		return p.ReleaseName
	case 3:
		return p.UploadedBy
	case 4:
		return p.Status.String()
	case 5:
		return p.CreatedAt.Format("2006-01-02")
	default:
		return ""
	}
}

// LoadReferenceData fetches the release and product type lists that back the
// filter choices, then runs the first listing fetch
func (b *Browser) LoadReferenceData() {
	go func() {
		ctx := context.Background()

		releases, err := b.client.ListReleases(ctx)
		if err == nil {
			b.releases = releases
		}
		types, err := b.client.ListProductTypes(ctx)
		if err == nil {
			b.types = types
		}

		fyne.Do(func() {
			typeOptions := []string{"All"}
			for _, pt := range b.types {
				typeOptions = append(typeOptions, pt.DisplayName)
			}
			b.typeSelect.Options = typeOptions
			b.typeSelect.SetSelected("All")

			releaseOptions := []string{"All", "No release"}
			for _, rel := range b.releases {
				releaseOptions = append(releaseOptions, rel.DisplayName)
			}
			b.releaseSelect.Options = releaseOptions
			b.releaseSelect.SetSelected("All")

			b.refresh()
		})
	}()
}

// currentFilters translates the filter widgets into gateway filters
func (b *Browser) currentFilters() api.ProductFilters {
	var filters api.ProductFilters

	for _, pt := range b.types {
		if pt.DisplayName == b.typeSelect.Selected {
			id := pt.ID
			filters.ProductType = &id
			break
		}
	}

	if b.releaseSelect.Selected == "No release" {
		noRelease := 0
		filters.Release = &noRelease
	} else {
		for _, rel := range b.releases {
			if rel.DisplayName == b.releaseSelect.Selected {
				id := rel.ID
				filters.Release = &id
				break
			}
		}
	}

	filters.OfficialOnly = b.officialCheck.Checked
	return filters
}

// onFiltersChanged applies the filter widgets and refetches
func (b *Browser) onFiltersChanged() {
	b.viewer.SetFilters(b.currentFilters())
	b.refresh()
}

// onSortChanged applies the selected sort and refetches
func (b *Browser) onSortChanged(label string) {
	for _, s := range browserSorts {
		if s.label == label {
			b.viewer.SetSort(s.sort)
			break
		}
	}
	b.refresh()
}

// onPageChange moves to another page and refetches
func (b *Browser) onPageChange(page int) {
	b.viewer.SetPage(page)
	b.refresh()
}

// onPageSizeChanged applies a new page size and refetches
func (b *Browser) onPageSizeChanged(label string) {
	var size int
	fmt.Sscanf(label, "%d", &size)
	if size > 0 && size != b.viewer.PageSize() {
		b.viewer.SetPageSize(size)
		b.refresh()
	}
}

// Refresh refetches the current page; safe to call from the UI goroutine
func (b *Browser) Refresh() {
	b.refresh()
}

// refresh runs the fetch in the background and updates the table
func (b *Browser) refresh() {
	b.statusLabel.SetText("Loading...")

	go func() {
		err := b.viewer.Refresh(context.Background())
		fyne.Do(func() {
			if err != nil {
				b.statusLabel.SetText(api.ErrorMessage(err))
			} else {
				b.statusLabel.SetText(fmt.Sprintf("%d products", b.viewer.Total()))
			}

			pages := b.viewer.PageCount()
			if pages == 0 {
				b.pageLabel.SetText(DashPlaceholder)
			} else {
				b.pageLabel.SetText(fmt.Sprintf("Page %d of %d", b.viewer.Page()+1, pages))
			}

			if b.viewer.Page() <= 0 {
				b.prevBtn.Disable()
			} else {
				b.prevBtn.Enable()
			}
			if b.viewer.Page() >= pages-1 {
				b.nextBtn.Disable()
			} else {
				b.nextBtn.Enable()
			}

			b.table.Refresh()
		})
	}()
}
