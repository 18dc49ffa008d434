package ui

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Text fragments
const (
	DashPlaceholder = "—"
	AppTitle        = "Photo-z Server"
)

// Window and dialog sizing
const (
	WindowMinWidth  float32 = 1000
	WindowMinHeight float32 = 640

	WizardWidth  float32 = 760
	WizardHeight float32 = 520

	SettingsDialogWidth  float32 = 500
	SettingsDialogHeight float32 = 360

	TokenDialogWidth  float32 = 460
	TokenDialogHeight float32 = 180
)

// Browser layout
const (
	SearchEntryWidth float32 = 260
)

// Page size choices offered in the browser pager
var PageSizeOptions = []int{10, 25, 50, 100}
