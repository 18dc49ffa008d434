package ui

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/linea-it/pzserver-desktop/internal/config"
)

// SettingsDialog edits the persisted application preferences
type SettingsDialog struct {
	settings *config.Settings
	window   fyne.Window
	dialog   *dialog.ConfirmDialog

	// OnSaved is invoked after the settings were written, so the caller can
	// apply a changed server URL or theme
	OnSaved func()

	serverURLEntry   *widget.Entry
	downloadDirEntry *widget.Entry
	maxUploadEntry   *widget.Entry
	darkModeCheck    *widget.Check
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, window fyne.Window, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		settings: settings,
		window:   window,
		OnSaved:  onSaved,
	}
	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	sd.serverURLEntry = widget.NewEntry()
	sd.serverURLEntry.SetPlaceHolder(config.DefaultServerURL)

	sd.downloadDirEntry = widget.NewEntry()
	sd.downloadDirEntry.SetPlaceHolder("Download directory path")
	browseDirBtn := widget.NewButton("Browse", sd.onBrowseDirectory)
	downloadDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.downloadDirEntry)

	sd.maxUploadEntry = widget.NewEntry()
	sd.maxUploadEntry.SetPlaceHolder("1-200")

	sd.darkModeCheck = widget.NewCheck("Dark mode (applies on restart)", nil)

	form := container.NewVBox(
		widget.NewLabel("Server"),
		widget.NewSeparator(),

		widget.NewLabel("Server URL:"),
		sd.serverURLEntry,

		widget.NewSeparator(),
		widget.NewLabel("Transfers"),
		widget.NewSeparator(),

		widget.NewLabel("Download Directory:"),
		downloadDirRow,

		widget.NewLabel("Max Upload Size (MB):"),
		sd.maxUploadEntry,

		widget.NewSeparator(),
		widget.NewLabel("Interface"),
		widget.NewSeparator(),

		sd.darkModeCheck,
	)

	sd.dialog = dialog.NewCustomConfirm(
		"Settings",
		"Save",
		"Cancel",
		form,
		sd.onSave,
		sd.window,
	)
	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.serverURLEntry.SetText(sd.settings.GetServerURL())
	sd.downloadDirEntry.SetText(sd.settings.GetDownloadDirectory())
	sd.maxUploadEntry.SetText(strconv.Itoa(sd.settings.GetMaxUploadSizeMB()))
	sd.darkModeCheck.SetChecked(sd.settings.GetDarkMode())
}

// onBrowseDirectory handles directory browsing
func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.downloadDirEntry.SetText(uri.Path())
	}, sd.window)
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	if sd.serverURLEntry.Text != "" {
		sd.settings.SetServerURL(sd.serverURLEntry.Text)
	}
	if sd.downloadDirEntry.Text != "" {
		sd.settings.SetDownloadDirectory(sd.downloadDirEntry.Text)
	}
	if mb, err := strconv.Atoi(sd.maxUploadEntry.Text); err == nil {
		sd.settings.SetMaxUploadSizeMB(mb)
	}
	sd.settings.SetDarkMode(sd.darkModeCheck.Checked)

	if sd.OnSaved != nil {
		sd.OnSaved()
	}
}
