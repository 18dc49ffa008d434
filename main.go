package main

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/linea-it/pzserver-desktop/internal/api"
	"github.com/linea-it/pzserver-desktop/internal/config"
	"github.com/linea-it/pzserver-desktop/internal/logging"
	"github.com/linea-it/pzserver-desktop/internal/session"
	"github.com/linea-it/pzserver-desktop/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "br.org.linea.pzserver-desktop"
	AppName = "Photo-z Server"
)

func main() {
	logging.Init()
	logging.Logger().Info().Str("version", version).Msg("starting")

	// Create new Fyne app
	myApp := app.NewWithID(AppID)

	settings := config.NewSettings(myApp)
	myApp.Settings().SetTheme(ui.NewAppTheme(settings.GetDarkMode()))

	windowTitle := fmt.Sprintf("%s v%s", AppName, version)
	myWindow := myApp.NewWindow(windowTitle)
	myWindow.Resize(fyne.NewSize(ui.WindowMinWidth, ui.WindowMinHeight))

	// The gateway reads the persisted token on every request, so a token
	// issued after sign-in is picked up without rebuilding the client
	client := api.New(settings.GetServerURL(), func() (api.Credential, bool) {
		token, ok := settings.AccessToken()
		return api.Credential{Token: token}, ok
	})

	sessionMgr := session.NewManager(settings, client)

	// Create and setup UI
	ui.NewRootUI(myWindow, myApp, client, settings, sessionMgr)

	// Show and run
	myWindow.ShowAndRun()
}
