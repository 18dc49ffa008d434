package ui

import (
	"context"
	"fmt"
	"sort"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/dustin/go-humanize"

	"github.com/linea-it/pzserver-desktop/internal/api"
	"github.com/linea-it/pzserver-desktop/internal/config"
	"github.com/linea-it/pzserver-desktop/internal/model"
	"github.com/linea-it/pzserver-desktop/internal/platform"
	"github.com/linea-it/pzserver-desktop/internal/transfer"
)

// ProductDetail is the read-only product view with download, preview and
// delete actions
type ProductDetail struct {
	window   fyne.Window
	client   *api.Client
	settings *config.Settings
	product  model.Product

	// OnChanged is invoked after the product was deleted so the listing can
	// refetch
	OnChanged func()

	statusLabel *widget.Label
	dialog      dialog.Dialog
}

// ShowProductDetail opens the detail dialog for a product
func ShowProductDetail(window fyne.Window, client *api.Client, settings *config.Settings, product model.Product, onChanged func()) {
	pd := &ProductDetail{
		window:    window,
		client:    client,
		settings:  settings,
		product:   product,
		OnChanged: onChanged,
	}
	pd.createUI()
	pd.dialog.Show()
}

// createUI creates the detail dialog UI
func (pd *ProductDetail) createUI() {
	p := pd.product

	internalName := p.InternalName
	if internalName == "" {
		internalName = DashPlaceholder
	}
	releaseName := p.ReleaseName
	if releaseName == "" {
		releaseName = DashPlaceholder
	}

	form := widget.NewForm(
		widget.NewFormItem("Internal Name", widget.NewLabel(internalName)),
		widget.NewFormItem("Type", widget.NewLabel(p.ProductTypeName)),
		widget.NewFormItem("Release", widget.NewLabel(releaseName)),
		widget.NewFormItem("Uploaded By", widget.NewLabel(p.UploadedBy)),
		widget.NewFormItem("Status", widget.NewLabel(p.Status.String())),
		widget.NewFormItem("Created", widget.NewLabel(p.CreatedAt.Format("2006-01-02 15:04"))),
	)

	description := widget.NewLabel(p.Description)
	description.Wrapping = fyne.TextWrapWord

	pd.statusLabel = widget.NewLabel("")

	downloadBtn := widget.NewButton("Download", pd.onDownload)
	downloadBtn.Importance = widget.HighImportance

	previewBtn := widget.NewButton("Preview Data", pd.onPreview)
	if !p.Status.IsPublished() {
		previewBtn.Disable()
	}

	actions := container.NewHBox(downloadBtn, previewBtn)
	if p.CanDelete {
		deleteBtn := widget.NewButton("Delete", pd.onDelete)
		deleteBtn.Importance = widget.DangerImportance
		actions.Add(deleteBtn)
	}

	content := container.NewVBox(
		form,
		widget.NewSeparator(),
		description,
		widget.NewSeparator(),
		actions,
		pd.statusLabel,
	)

	pd.dialog = dialog.NewCustom(p.DisplayName, "Close", content, pd.window)
	pd.dialog.Resize(fyne.NewSize(560, 440))
}

// onDownload fetches the product bundle and saves it to the configured
// download directory
func (pd *ProductDetail) onDownload() {
	pd.statusLabel.SetText("Downloading...")

	go func() {
		payload, name, err := pd.client.DownloadProduct(context.Background(), pd.product.ID)
		if err != nil {
			fyne.Do(func() { pd.statusLabel.SetText(api.ErrorMessage(err)) })
			return
		}

		path, err := transfer.SaveBlob(payload, pd.settings.GetDownloadDirectory(), name)
		if err != nil {
			fyne.Do(func() { pd.statusLabel.SetText(err.Error()) })
			return
		}

		fyne.Do(func() {
			pd.statusLabel.SetText(fmt.Sprintf("Saved %s (%s)", name, humanize.Bytes(uint64(len(payload)))))
		})
		platform.OpenFileInManager(path)
	}()
}

// onPreview fetches the first rows of the tabular contents and shows them
func (pd *ProductDetail) onPreview() {
	pd.statusLabel.SetText("Loading data...")

	go func() {
		page, err := pd.client.ReadProductData(context.Background(), pd.product.ID, 0, 25)
		fyne.Do(func() {
			if err != nil {
				pd.statusLabel.SetText(api.ErrorMessage(err))
				return
			}
			pd.statusLabel.SetText("")
			pd.showPreview(page)
		})
	}()
}

// showPreview renders fetched rows in a table dialog
func (pd *ProductDetail) showPreview(page *api.Page[map[string]any]) {
	if len(page.Results) == 0 {
		dialog.ShowInformation("Preview", "The product has no tabular data.", pd.window)
		return
	}

	// Stable column order from the first row
	columns := make([]string, 0, len(page.Results[0]))
	for name := range page.Results[0] {
		columns = append(columns, name)
	}
	sort.Strings(columns)

	table := widget.NewTable(
		func() (int, int) { return len(page.Results), len(columns) },
		func() fyne.CanvasObject {
			label := widget.NewLabel("")
			label.Truncation = fyne.TextTruncateEllipsis
			return label
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			label := obj.(*widget.Label)
			if id.Row >= len(page.Results) || id.Col >= len(columns) {
				label.SetText("")
				return
			}
			label.SetText(fmt.Sprintf("%v", page.Results[id.Row][columns[id.Col]]))
		},
	)
	table.ShowHeaderRow = true
	table.CreateHeader = func() fyne.CanvasObject {
		label := widget.NewLabel("")
		label.TextStyle = fyne.TextStyle{Bold: true}
		return label
	}
	table.UpdateHeader = func(id widget.TableCellID, obj fyne.CanvasObject) {
		label := obj.(*widget.Label)
		if id.Col >= 0 && id.Col < len(columns) {
			label.SetText(columns[id.Col])
		}
	}

	title := fmt.Sprintf("Preview - %d of %d rows", len(page.Results), page.Count)
	preview := dialog.NewCustom(title, "Close", table, pd.window)
	preview.Resize(fyne.NewSize(700, 460))
	preview.Show()
}

// onDelete removes the product after confirmation
func (pd *ProductDetail) onDelete() {
	dialog.ShowConfirm("Delete Product",
		fmt.Sprintf("Delete %q permanently? This cannot be undone.", pd.product.DisplayName),
		func(confirmed bool) {
			if !confirmed {
				return
			}
			go func() {
				err := pd.client.DeleteProduct(context.Background(), pd.product.ID)
				fyne.Do(func() {
					if err != nil {
						pd.statusLabel.SetText(api.ErrorMessage(err))
						return
					}
					pd.dialog.Hide()
					if pd.OnChanged != nil {
						pd.OnChanged()
					}
				})
			}()
		}, pd.window)
}
