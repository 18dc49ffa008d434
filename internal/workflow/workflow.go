// Package workflow drives the product registration wizard: a draft product
// moves through basic info, file upload, column association and confirmation
// before it is published. At most one draft exists per user; an unfinished
// draft found at start must be resumed or discarded before a new one can
// begin.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/linea-it/pzserver-desktop/internal/api"
	"github.com/linea-it/pzserver-desktop/internal/config"
	"github.com/linea-it/pzserver-desktop/internal/logging"
	"github.com/linea-it/pzserver-desktop/internal/model"
	"github.com/linea-it/pzserver-desktop/internal/rule"
	"github.com/linea-it/pzserver-desktop/internal/transfer"
)

// State identifies the wizard step
type State int

const (
	// StatePendingCheck is the initial state, before the backend has been
	// asked whether an unfinished draft exists
	StatePendingCheck State = iota
	StateBasicInfo
	StateFileUpload
	StateColumnAssociation
	StateConfirm
	StatePublished
)

// String returns a human-readable step name
func (s State) String() string {
	switch s {
	case StatePendingCheck:
		return "pending check"
	case StateBasicInfo:
		return "basic information"
	case StateFileUpload:
		return "file upload"
	case StateColumnAssociation:
		return "column association"
	case StateConfirm:
		return "confirmation"
	case StatePublished:
		return "published"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	// ErrPendingDecision means an unfinished draft exists and must be
	// resumed or discarded before the wizard can proceed
	ErrPendingDecision = errors.New("an unfinished product registration exists; resume or discard it first")

	// ErrMainFileRequired gates the step past file upload
	ErrMainFileRequired = errors.New("a main file must be uploaded before columns can be associated")

	// ErrUCDInUse means the UCD is already assigned to another column
	ErrUCDInUse = errors.New("this UCD is already assigned to another column")

	// ErrNotPending means the product is no longer a draft and cannot be
	// published again
	ErrNotPending = errors.New("only a product still in registration can be published")
)

// stateError reports an operation attempted in the wrong step
func stateError(op string, s State) error {
	return fmt.Errorf("%s is not available during %s", op, s)
}

// Wizard is the registration state machine. The UI drives the transitions
// from one goroutine, but runs them in the background while widget callbacks
// read State, Files and Contents, so all state is guarded. The lock is never
// held across a backend call; the files and contents slices are replaced
// wholesale so returned snapshots stay valid.
type Wizard struct {
	client   *api.Client
	settings *config.Settings
	log      zerolog.Logger

	stateMutex sync.RWMutex
	state      State
	product    *model.Product
	pending    *model.Product
	files      []model.ProductFile
	contents   []model.ProductContent
}

// NewWizard creates a wizard in the pending-check state
func NewWizard(client *api.Client, settings *config.Settings) *Wizard {
	return &Wizard{
		client:   client,
		settings: settings,
		state:    StatePendingCheck,
		log:      logging.Logger().With().Str("component", "workflow").Logger(),
	}
}

// State returns the current step
func (w *Wizard) State() State {
	w.stateMutex.RLock()
	defer w.stateMutex.RUnlock()
	return w.state
}

// Product returns the draft being registered, if one exists yet
func (w *Wizard) Product() *model.Product {
	w.stateMutex.RLock()
	defer w.stateMutex.RUnlock()
	return w.product
}

// Pending returns the unfinished draft found at start, while the
// resume-or-discard decision is still open
func (w *Wizard) Pending() *model.Product {
	w.stateMutex.RLock()
	defer w.stateMutex.RUnlock()
	return w.pending
}

// Files returns the files attached to the draft, main file first
func (w *Wizard) Files() []model.ProductFile {
	w.stateMutex.RLock()
	defer w.stateMutex.RUnlock()
	return w.files
}

// Contents returns the columns discovered from the main file
func (w *Wizard) Contents() []model.ProductContent {
	w.stateMutex.RLock()
	defer w.stateMutex.RUnlock()
	return w.contents
}

// Start asks the backend for an unfinished draft. With none, the wizard moves
// straight to basic info; otherwise it stays put and reports the draft so the
// user can decide between Resume and Discard.
func (w *Wizard) Start(ctx context.Context) (*model.Product, error) {
	if w.State() != StatePendingCheck {
		return nil, stateError("start", w.State())
	}

	draft, err := w.client.PendingPublication(ctx)
	if err != nil {
		return nil, err
	}

	w.stateMutex.Lock()
	defer w.stateMutex.Unlock()
	if draft == nil {
		w.state = StateBasicInfo
		return nil, nil
	}

	w.pending = draft
	w.log.Info().Int("product", draft.ID).Msg("unfinished registration found")
	return draft, nil
}

// Resume continues the unfinished draft at the basic info step with the form
// prefilled, so every later step can be revisited
func (w *Wizard) Resume() error {
	w.stateMutex.Lock()
	defer w.stateMutex.Unlock()

	if w.pending == nil {
		return stateError("resume", w.state)
	}
	w.product = w.pending
	w.pending = nil
	w.state = StateBasicInfo
	w.log.Info().Int("product", w.product.ID).Msg("resuming registration")
	return nil
}

// Discard deletes the unfinished draft and starts the wizard fresh
func (w *Wizard) Discard(ctx context.Context) error {
	pending := w.Pending()
	if pending == nil {
		return stateError("discard", w.State())
	}
	if err := w.client.DeleteProduct(ctx, pending.ID); err != nil {
		return err
	}
	w.log.Info().Int("product", pending.ID).Msg("discarded registration")

	w.stateMutex.Lock()
	defer w.stateMutex.Unlock()
	w.pending = nil
	w.product = nil
	w.state = StateBasicInfo
	return nil
}

// validateBasicInfo combines the static form rules with the requirements that
// depend on the selected product type
func validateBasicInfo(form api.ProductForm, typeInternalName string) error {
	fields := rule.FieldErrors{}
	if err := rule.ValidateStruct(form); err != nil {
		var fe rule.FieldErrors
		if !errors.As(err, &fe) {
			return err
		}
		fields = fe
	}

	if model.ReleaseRequired(typeInternalName) && form.Release == nil {
		fields["release"] = "release is required for this product type"
	}
	if model.ReleaseYearRequired(typeInternalName) && form.ReleaseYear == "" {
		fields["releaseyear"] = "release year is required for this product type"
	}

	if len(fields) > 0 {
		return fields
	}
	return nil
}

// SubmitBasicInfo validates and saves the form, creating the draft on first
// submit and patching it on a revisit, then advances to file upload. Fields
// that do not apply to the selected type are dropped rather than saved.
func (w *Wizard) SubmitBasicInfo(ctx context.Context, form api.ProductForm, typeInternalName string) error {
	w.stateMutex.RLock()
	state := w.state
	pendingOpen := w.pending != nil
	current := w.product
	w.stateMutex.RUnlock()

	if state != StateBasicInfo {
		return stateError("basic info", state)
	}
	if pendingOpen {
		return ErrPendingDecision
	}

	if err := validateBasicInfo(form, typeInternalName); err != nil {
		return err
	}

	if !model.ReleaseRequired(typeInternalName) {
		form.Release = nil
	}
	if !model.ReleaseYearRequired(typeInternalName) {
		form.ReleaseYear = ""
	}
	if !model.PzCodeAccepted(typeInternalName) {
		form.PzCode = ""
	}

	var (
		product *model.Product
		err     error
	)
	if current == nil {
		product, err = w.client.CreateProduct(ctx, form)
	} else {
		form.ID = current.ID
		product, err = w.client.UpdateProduct(ctx, form)
	}
	if err != nil {
		return err
	}

	w.stateMutex.Lock()
	w.product = product
	w.state = StateFileUpload
	w.stateMutex.Unlock()

	w.log.Info().Int("product", product.ID).Str("name", product.DisplayName).Msg("basic info saved")
	return w.LoadFiles(ctx)
}

// LoadFiles refreshes the attached file set from the backend
func (w *Wizard) LoadFiles(ctx context.Context) error {
	product := w.Product()
	if product == nil {
		return stateError("file listing", w.State())
	}

	page, err := w.client.ListProductFiles(ctx, product.ID)
	if err != nil {
		return err
	}

	w.stateMutex.Lock()
	w.files = page.Results
	w.stateMutex.Unlock()
	return nil
}

// UploadFile validates the local file against the size cap and streams it to
// the backend under the given role, then refreshes the file set
func (w *Wizard) UploadFile(ctx context.Context, path string, role model.FileRole, onProgress func(int)) error {
	w.stateMutex.RLock()
	state := w.state
	product := w.product
	w.stateMutex.RUnlock()

	if state != StateFileUpload {
		return stateError("upload", state)
	}

	info, err := transfer.ValidateAndSelect(path, w.settings.GetMaxUploadSizeMB())
	if err != nil {
		return err
	}

	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	name := filepath.Base(path)
	if _, err := w.client.UploadProductFile(ctx, product.ID, name, src, info.Size(), role, "", onProgress); err != nil {
		return err
	}

	w.log.Info().Int("product", product.ID).Str("file", name).Int("role", int(role)).Msg("file uploaded")
	return w.LoadFiles(ctx)
}

// DeleteFile detaches one file and refreshes the set
func (w *Wizard) DeleteFile(ctx context.Context, fileID int) error {
	if state := w.State(); state != StateFileUpload {
		return stateError("file removal", state)
	}
	if err := w.client.DeleteProductFile(ctx, fileID); err != nil {
		return err
	}
	return w.LoadFiles(ctx)
}

// HasMainFile reports whether the draft has its main file attached
func (w *Wizard) HasMainFile() bool {
	return model.HasMainFile(w.Files())
}

// AdvanceToColumns registers the uploaded main file so the backend discovers
// its columns, then moves to column association. Gated on the main file.
func (w *Wizard) AdvanceToColumns(ctx context.Context) error {
	if state := w.State(); state != StateFileUpload {
		return stateError("column association", state)
	}
	if !w.HasMainFile() {
		return ErrMainFileRequired
	}

	product, err := w.client.RegistryProduct(ctx, w.Product().ID)
	if err != nil {
		return err
	}

	w.stateMutex.Lock()
	w.product = product
	w.stateMutex.Unlock()

	if err := w.LoadContents(ctx); err != nil {
		return err
	}

	w.stateMutex.Lock()
	w.state = StateColumnAssociation
	w.stateMutex.Unlock()
	return nil
}

// LoadContents refreshes the discovered columns from the backend
func (w *Wizard) LoadContents(ctx context.Context) error {
	product := w.Product()
	if product == nil {
		return stateError("column listing", w.State())
	}

	page, err := w.client.ListProductContents(ctx, product.ID)
	if err != nil {
		return err
	}

	w.stateMutex.Lock()
	w.contents = page.Results
	w.stateMutex.Unlock()
	return nil
}

// AvailableUCDs returns the vocabulary entries still assignable to the given
// column
func (w *Wizard) AvailableUCDs(contentID int) []model.UCD {
	return model.AvailableUCDs(w.Contents(), contentID)
}

// Associate sets or clears a column's UCD and alias. A UCD held by another
// column of the same product is rejected before any request is made.
func (w *Wizard) Associate(ctx context.Context, contentID int, ucd, alias *string) error {
	if state := w.State(); state != StateColumnAssociation {
		return stateError("association", state)
	}

	if ucd != nil {
		for _, pc := range w.Contents() {
			if pc.ID != contentID && pc.UCD != nil && *pc.UCD == *ucd {
				return ErrUCDInUse
			}
		}
	}

	updated, err := w.client.AssociateContent(ctx, contentID, ucd, alias)
	if err != nil {
		return err
	}

	w.stateMutex.Lock()
	contents := make([]model.ProductContent, len(w.contents))
	copy(contents, w.contents)
	for i := range contents {
		if contents[i].ID == contentID {
			contents[i] = *updated
			break
		}
	}
	w.contents = contents
	w.stateMutex.Unlock()
	return nil
}

// AdvanceToConfirm moves to the confirmation step. Only a draft still in
// registration can go on to be published.
func (w *Wizard) AdvanceToConfirm() error {
	w.stateMutex.Lock()
	defer w.stateMutex.Unlock()

	if w.state != StateColumnAssociation {
		return stateError("confirmation", w.state)
	}
	if !w.product.Status.IsPending() {
		return ErrNotPending
	}
	w.state = StateConfirm
	return nil
}

// Publish transitions the draft to published and returns the internal name
// assigned by the backend
func (w *Wizard) Publish(ctx context.Context) (string, error) {
	w.stateMutex.RLock()
	state := w.state
	current := w.product
	w.stateMutex.RUnlock()

	if state != StateConfirm {
		return "", stateError("publish", state)
	}
	if !current.Status.IsPending() {
		return "", ErrNotPending
	}

	product, err := w.client.PublishProduct(ctx, current.ID)
	if err != nil {
		return "", err
	}

	w.stateMutex.Lock()
	w.product = product
	w.state = StatePublished
	w.stateMutex.Unlock()

	w.log.Info().Int("product", product.ID).Str("internal_name", product.InternalName).Msg("product published")
	return product.InternalName, nil
}

// Prev moves one step back without touching the backend, so nothing entered
// so far is lost
func (w *Wizard) Prev() error {
	w.stateMutex.Lock()
	defer w.stateMutex.Unlock()

	switch w.state {
	case StateFileUpload:
		w.state = StateBasicInfo
	case StateColumnAssociation:
		w.state = StateFileUpload
	case StateConfirm:
		w.state = StateColumnAssociation
	default:
		return stateError("previous step", w.state)
	}
	return nil
}
