package ui

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/rs/zerolog"

	"github.com/linea-it/pzserver-desktop/internal/api"
	"github.com/linea-it/pzserver-desktop/internal/config"
	"github.com/linea-it/pzserver-desktop/internal/logging"
	"github.com/linea-it/pzserver-desktop/internal/model"
	"github.com/linea-it/pzserver-desktop/internal/platform"
	"github.com/linea-it/pzserver-desktop/internal/session"
)

// RootUI represents the main UI structure
type RootUI struct {
	window   fyne.Window
	app      fyne.App
	client   *api.Client
	settings *config.Settings
	session  *session.Manager
	log      zerolog.Logger

	browser   *Browser
	loginView *LoginView
	userLabel *widget.Label
	content   *fyne.Container
	mainView  fyne.CanvasObject
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, app fyne.App, client *api.Client, settings *config.Settings, sessionMgr *session.Manager) *RootUI {
	ui := &RootUI{
		window:   window,
		app:      app,
		client:   client,
		settings: settings,
		session:  sessionMgr,
		log:      logging.Logger().With().Str("component", "ui").Logger(),
	}

	// Ensure the download directory exists up front
	platform.CreateDirectoryIfNotExists(settings.GetDownloadDirectory())

	window.SetTitle(AppTitle)
	window.Resize(fyne.NewSize(WindowMinWidth, WindowMinHeight))

	sessionMgr.OnSignIn = func(model.User) { fyne.Do(ui.showMain) }
	sessionMgr.OnSignOut = func() { fyne.Do(ui.showLogin) }

	ui.setupUI()
	return ui
}

// setupUI creates and arranges all UI components, then resolves the persisted
// session in the background
func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.loginView = NewLoginView(ui.window, ui.session)
	ui.buildMainView()

	ui.content = container.NewStack(ui.loginView.Content())
	ui.window.SetContent(ui.content)

	go func() {
		if err := ui.session.Hydrate(context.Background()); err != nil {
			ui.log.Error().Err(err).Msg("session hydration failed")
		}
		fyne.Do(func() {
			if ui.session.IsAuthenticated() {
				ui.showMain()
			} else {
				ui.showLogin()
			}
		})
	}()
}

// buildMainView creates the authenticated view: toolbar and product browser
func (ui *RootUI) buildMainView() {
	ui.browser = NewBrowser(ui.window, ui.client)
	ui.browser.OnOpen = ui.onOpenProduct

	newProductBtn := widget.NewButton("New Product", ui.onNewProduct)
	newProductBtn.Importance = widget.HighImportance

	ui.userLabel = widget.NewLabel("")

	tokenBtn := widget.NewButton("API Token", ui.onShowToken)
	tokenBtn.Importance = widget.LowImportance
	settingsBtn := widget.NewButton("Settings", ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance
	signOutBtn := widget.NewButton("Sign Out", ui.onSignOut)
	signOutBtn.Importance = widget.LowImportance

	title := widget.NewLabel(AppTitle)
	title.TextStyle = fyne.TextStyle{Bold: true}

	toolbar := container.NewBorder(nil, nil,
		container.NewHBox(title, newProductBtn),
		container.NewHBox(ui.userLabel, tokenBtn, settingsBtn, signOutBtn),
	)

	ui.mainView = container.NewBorder(toolbar, nil, nil, nil, ui.browser.Content())
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem("Settings", ui.onShowSettings)
	tokenItem := fyne.NewMenuItem("API Token", ui.onShowToken)
	signOutItem := fyne.NewMenuItem("Sign Out", ui.onSignOut)

	mainMenu := fyne.NewMainMenu(
		fyne.NewMenu("File", settingsItem),
		fyne.NewMenu("Account", tokenItem, signOutItem),
	)
	ui.window.SetMainMenu(mainMenu)
}

// showLogin swaps in the sign-in form
func (ui *RootUI) showLogin() {
	ui.content.Objects = []fyne.CanvasObject{ui.loginView.Content()}
	ui.content.Refresh()
}

// showMain swaps in the authenticated view and loads the listing
func (ui *RootUI) showMain() {
	if user, ok := ui.session.User(); ok {
		ui.userLabel.SetText(user.Username)
	}
	ui.content.Objects = []fyne.CanvasObject{ui.mainView}
	ui.content.Refresh()

	ui.browser.LoadReferenceData()
}

// onOpenProduct shows the detail dialog for a listed product
func (ui *RootUI) onOpenProduct(product model.Product) {
	ShowProductDetail(ui.window, ui.client, ui.settings, product, ui.browser.Refresh)
}

// onNewProduct starts the registration wizard
func (ui *RootUI) onNewProduct() {
	ShowWizard(ui.window, ui.client, ui.settings, ui.browser.Refresh)
}

// onShowToken shows the API token dialog
func (ui *RootUI) onShowToken() {
	if !ui.session.IsAuthenticated() {
		return
	}
	ShowTokenDialog(ui.window, ui.client)
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	NewSettingsDialog(ui.settings, ui.window, func() {
		// A changed server URL applies to the next request; just refetch
		ui.client.SetBaseURL(ui.settings.GetServerURL())
		if ui.session.IsAuthenticated() {
			ui.browser.Refresh()
		}
	}).Show()
}

// onSignOut ends the session
func (ui *RootUI) onSignOut() {
	if !ui.session.IsAuthenticated() {
		return
	}
	ui.session.SignOut()
}
