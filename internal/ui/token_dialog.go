package ui

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/linea-it/pzserver-desktop/internal/api"
)

// ShowTokenDialog generates a personal API token for programmatic access and
// offers it for copying. Generating a new token invalidates the previous one.
func ShowTokenDialog(window fyne.Window, client *api.Client) {
	tokenEntry := widget.NewEntry()
	tokenEntry.SetPlaceHolder("No token generated yet")
	tokenEntry.Disable()

	statusLabel := widget.NewLabel("The token authenticates command line and script access to the server.")
	statusLabel.Wrapping = fyne.TextWrapWord

	copyBtn := widget.NewButton("Copy", func() {
		if tokenEntry.Text == "" {
			return
		}
		window.Clipboard().SetContent(tokenEntry.Text)
		statusLabel.SetText("Token copied to clipboard.")
	})

	generateBtn := widget.NewButton("Generate New Token", nil)
	generateBtn.Importance = widget.HighImportance
	generateBtn.OnTapped = func() {
		generateBtn.Disable()
		statusLabel.SetText("Generating...")

		go func() {
			token, err := client.GenerateAPIToken(context.Background())
			fyne.Do(func() {
				generateBtn.Enable()
				if err != nil {
					statusLabel.SetText(api.ErrorMessage(err))
					return
				}
				tokenEntry.Enable()
				tokenEntry.SetText(token)
				statusLabel.SetText("A new token was generated. The previous one is no longer valid.")
			})
		}()
	}

	content := container.NewVBox(
		statusLabel,
		container.NewBorder(nil, nil, nil, copyBtn, tokenEntry),
		generateBtn,
	)

	d := dialog.NewCustom("API Token", "Close", content, window)
	d.Resize(fyne.NewSize(TokenDialogWidth, TokenDialogHeight))
	d.Show()
}
