package ui

import (
	"context"
	"errors"
	"sort"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/linea-it/pzserver-desktop/internal/rule"
	"github.com/linea-it/pzserver-desktop/internal/session"
)

// LoginView is the sign-in form shown until a session exists
type LoginView struct {
	window  fyne.Window
	session *session.Manager

	usernameEntry *widget.Entry
	passwordEntry *widget.Entry
	errorLabel    *widget.Label
	signInBtn     *widget.Button
	content       fyne.CanvasObject
}

// NewLoginView creates the sign-in form
func NewLoginView(window fyne.Window, sessionMgr *session.Manager) *LoginView {
	lv := &LoginView{
		window:  window,
		session: sessionMgr,
	}
	lv.createUI()
	return lv
}

// Content returns the view's root canvas object
func (lv *LoginView) Content() fyne.CanvasObject {
	return lv.content
}

// createUI creates the sign-in form UI
func (lv *LoginView) createUI() {
	title := widget.NewLabel(AppTitle)
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.Alignment = fyne.TextAlignCenter

	lv.usernameEntry = widget.NewEntry()
	lv.usernameEntry.SetPlaceHolder("Username")

	lv.passwordEntry = widget.NewPasswordEntry()
	lv.passwordEntry.SetPlaceHolder("Password")
	// Submit from the password field with Enter
	lv.passwordEntry.OnSubmitted = func(string) { lv.onSignIn() }

	lv.errorLabel = widget.NewLabel("")
	lv.errorLabel.Wrapping = fyne.TextWrapWord
	lv.errorLabel.Importance = widget.DangerImportance
	lv.errorLabel.Hide()

	lv.signInBtn = widget.NewButton("Sign In", lv.onSignIn)
	lv.signInBtn.Importance = widget.HighImportance

	form := container.NewVBox(
		title,
		widget.NewSeparator(),
		lv.usernameEntry,
		lv.passwordEntry,
		lv.errorLabel,
		lv.signInBtn,
	)

	// Center a fixed-width card in the window
	lv.content = container.NewCenter(container.NewGridWrap(fyne.NewSize(360, 280), form))
}

// onSignIn handles the sign-in button click
func (lv *LoginView) onSignIn() {
	username := strings.TrimSpace(lv.usernameEntry.Text)
	password := lv.passwordEntry.Text

	lv.signInBtn.Disable()
	lv.errorLabel.Hide()

	go func() {
		err := lv.session.SignIn(context.Background(), username, password)
		fyne.Do(func() {
			lv.signInBtn.Enable()
			if err != nil {
				lv.showError(err)
				return
			}
			lv.passwordEntry.SetText("")
		})
	}()
}

// showError renders validation and backend failures in the form
func (lv *LoginView) showError(err error) {
	var fields rule.FieldErrors
	if errors.As(err, &fields) {
		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)

		lines := make([]string, 0, len(names))
		for _, name := range names {
			lines = append(lines, fields[name])
		}
		lv.errorLabel.SetText(strings.Join(lines, "\n"))
	} else {
		lv.errorLabel.SetText(err.Error())
	}
	lv.errorLabel.Show()
}
