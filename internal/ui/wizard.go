package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/dustin/go-humanize"

	"github.com/linea-it/pzserver-desktop/internal/api"
	"github.com/linea-it/pzserver-desktop/internal/collection"
	"github.com/linea-it/pzserver-desktop/internal/config"
	"github.com/linea-it/pzserver-desktop/internal/model"
	"github.com/linea-it/pzserver-desktop/internal/rule"
	"github.com/linea-it/pzserver-desktop/internal/workflow"
)

// wizardStep is one page of the registration wizard. Commit validates and
// persists the step's input; it runs off the UI goroutine and may block on
// the backend.
type wizardStep interface {
	Title() string
	Content() fyne.CanvasObject
	OnShow()
	Commit(ctx context.Context) error
}

// WizardUI is the shell that hosts the steps and the navigation buttons
type WizardUI struct {
	window   fyne.Window
	flow     *workflow.Wizard
	client   *api.Client
	settings *config.Settings

	steps []wizardStep
	index int

	titleLabel *widget.Label
	stepArea   *fyne.Container
	errorLabel *widget.Label
	prevBtn    *widget.Button
	nextBtn    *widget.Button
	dialog     dialog.Dialog

	// OnFinished is invoked after a successful publication or cancel
	OnFinished func()
}

// ShowWizard starts a registration: it first resolves any unfinished draft
// with the user, then opens the step dialog
func ShowWizard(window fyne.Window, client *api.Client, settings *config.Settings, onFinished func()) {
	flow := workflow.NewWizard(client, settings)

	wz := &WizardUI{
		window:     window,
		flow:       flow,
		client:     client,
		settings:   settings,
		OnFinished: onFinished,
	}
	wz.steps = []wizardStep{
		newBasicInfoStep(wz, client),
		newFileUploadStep(wz),
		newColumnsStep(wz),
		newConfirmStep(wz),
	}

	go func() {
		draft, err := flow.Start(context.Background())
		fyne.Do(func() {
			if err != nil {
				dialog.ShowError(errors.New(api.ErrorMessage(err)), window)
				return
			}
			if draft == nil {
				wz.open()
				return
			}
			wz.resolvePending(draft)
		})
	}()
}

// resolvePending asks whether the unfinished draft should be resumed or
// discarded before the wizard opens
func (wz *WizardUI) resolvePending(draft *model.Product) {
	message := widget.NewLabel(fmt.Sprintf(
		"An unfinished registration exists for %q.\nResume it, or discard it to start over?",
		draft.DisplayName))
	message.Wrapping = fyne.TextWrapWord

	dialog.NewCustomConfirm("Unfinished Registration", "Resume", "Discard", message,
		func(resume bool) {
			if resume {
				if err := wz.flow.Resume(); err != nil {
					dialog.ShowError(err, wz.window)
					return
				}
				wz.open()
				return
			}
			go func() {
				err := wz.flow.Discard(context.Background())
				fyne.Do(func() {
					if err != nil {
						dialog.ShowError(errors.New(api.ErrorMessage(err)), wz.window)
						return
					}
					wz.open()
				})
			}()
		}, wz.window).Show()
}

// open builds and shows the step dialog
func (wz *WizardUI) open() {
	wz.titleLabel = widget.NewLabel("")
	wz.titleLabel.TextStyle = fyne.TextStyle{Bold: true}

	wz.errorLabel = widget.NewLabel("")
	wz.errorLabel.Wrapping = fyne.TextWrapWord
	wz.errorLabel.Importance = widget.DangerImportance
	wz.errorLabel.Hide()

	wz.prevBtn = widget.NewButton("Previous", wz.onPrev)
	wz.nextBtn = widget.NewButton("Next", wz.onNext)
	wz.nextBtn.Importance = widget.HighImportance

	wz.stepArea = container.NewStack()

	nav := container.NewBorder(nil, nil, wz.prevBtn, wz.nextBtn, wz.errorLabel)
	content := container.NewBorder(wz.titleLabel, nav, nil, nil, wz.stepArea)

	wz.dialog = dialog.NewCustom("New Product", "Cancel", content, wz.window)
	wz.dialog.Resize(fyne.NewSize(WizardWidth, WizardHeight))
	wz.dialog.SetOnClosed(func() {
		if wz.OnFinished != nil {
			wz.OnFinished()
		}
	})

	wz.showStep(0)
	wz.dialog.Show()
}

// showStep swaps in the step at the given index
func (wz *WizardUI) showStep(index int) {
	wz.index = index
	step := wz.steps[index]

	wz.titleLabel.SetText(fmt.Sprintf("Step %d of %d - %s", index+1, len(wz.steps), step.Title()))
	wz.errorLabel.Hide()

	wz.stepArea.Objects = []fyne.CanvasObject{step.Content()}
	wz.stepArea.Refresh()

	if index == 0 {
		wz.prevBtn.Disable()
	} else {
		wz.prevBtn.Enable()
	}
	if index == len(wz.steps)-1 {
		wz.nextBtn.SetText("Publish")
	} else {
		wz.nextBtn.SetText("Next")
	}

	step.OnShow()
}

// onPrev steps back without saving anything
func (wz *WizardUI) onPrev() {
	if wz.index == 0 {
		return
	}
	if err := wz.flow.Prev(); err != nil {
		wz.showError(err)
		return
	}
	wz.showStep(wz.index - 1)
}

// onNext commits the current step in the background and advances
func (wz *WizardUI) onNext() {
	step := wz.steps[wz.index]

	wz.nextBtn.Disable()
	wz.errorLabel.Hide()

	go func() {
		err := step.Commit(context.Background())
		fyne.Do(func() {
			wz.nextBtn.Enable()
			if err != nil {
				wz.showError(err)
				return
			}
			if wz.index < len(wz.steps)-1 {
				wz.showStep(wz.index + 1)
			}
		})
	}()
}

// showError renders a commit failure under the navigation row
func (wz *WizardUI) showError(err error) {
	var fields rule.FieldErrors
	if errors.As(err, &fields) {
		wz.errorLabel.SetText(fields.Error())
	} else {
		wz.errorLabel.SetText(api.ErrorMessage(err))
	}
	wz.errorLabel.Show()
}

// finish closes the wizard after a successful publication and opens the
// published product's detail view under its assigned internal name
func (wz *WizardUI) finish(internalName string) {
	wz.dialog.Hide()

	go func() {
		product, err := wz.client.GetProductByInternalName(context.Background(), internalName)
		fyne.Do(func() {
			if err != nil {
				dialog.ShowInformation("Product Published",
					fmt.Sprintf("The product was published as %s.", internalName), wz.window)
				return
			}
			ShowProductDetail(wz.window, wz.client, wz.settings, *product, wz.OnFinished)
		})
	}()
}

// --- Step 1: basic information ---

type basicInfoStep struct {
	wz     *WizardUI
	client *api.Client

	types    []model.ProductType
	releases []model.Release
	loaded   bool

	nameEntry        *widget.Entry
	typeSelect       *widget.Select
	releaseSelect    *widget.Select
	releaseYearEntry *widget.Entry
	surveyEntry      *widget.Entry
	pzCodeEntry      *widget.Entry
	descriptionEntry *widget.Entry
	officialCheck    *widget.Check

	releaseItem     *widget.FormItem
	releaseYearItem *widget.FormItem
	pzCodeItem      *widget.FormItem
	form            *widget.Form
	content         fyne.CanvasObject
}

func newBasicInfoStep(wz *WizardUI, client *api.Client) *basicInfoStep {
	s := &basicInfoStep{wz: wz, client: client}

	s.nameEntry = widget.NewEntry()
	s.typeSelect = widget.NewSelect(nil, func(string) { s.applyTypeRules() })
	s.releaseSelect = widget.NewSelect(nil, nil)
	s.releaseYearEntry = widget.NewEntry()
	s.releaseYearEntry.SetPlaceHolder("e.g. 2024")
	s.surveyEntry = widget.NewEntry()
	s.pzCodeEntry = widget.NewEntry()
	s.pzCodeEntry.SetPlaceHolder("Photo-z algorithm run identifier")
	s.descriptionEntry = widget.NewMultiLineEntry()
	s.descriptionEntry.SetMinRowsVisible(4)
	s.officialCheck = widget.NewCheck("Official product", nil)

	s.releaseItem = widget.NewFormItem("Release", s.releaseSelect)
	s.releaseYearItem = widget.NewFormItem("Release Year", s.releaseYearEntry)
	s.pzCodeItem = widget.NewFormItem("Pz Code", s.pzCodeEntry)

	s.form = widget.NewForm(
		widget.NewFormItem("Name", s.nameEntry),
		widget.NewFormItem("Type", s.typeSelect),
		s.releaseItem,
		s.releaseYearItem,
		widget.NewFormItem("Survey", s.surveyEntry),
		s.pzCodeItem,
		widget.NewFormItem("Description", s.descriptionEntry),
		widget.NewFormItem("", s.officialCheck),
	)
	s.content = container.NewVScroll(s.form)
	return s
}

func (s *basicInfoStep) Title() string              { return "Basic Information" }
func (s *basicInfoStep) Content() fyne.CanvasObject { return s.content }

func (s *basicInfoStep) OnShow() {
	if s.loaded {
		s.prefill()
		return
	}

	go func() {
		ctx := context.Background()
		types, terr := s.client.ListProductTypes(ctx)
		releases, rerr := s.client.ListReleases(ctx)
		fyne.Do(func() {
			if terr != nil || rerr != nil {
				s.wz.showError(errors.New("failed to load product types and releases"))
				return
			}
			s.types = types
			s.releases = releases
			s.loaded = true

			typeOptions := make([]string, len(types))
			for i, pt := range types {
				typeOptions[i] = pt.DisplayName
			}
			s.typeSelect.Options = typeOptions

			releaseOptions := make([]string, len(releases))
			for i, rel := range releases {
				releaseOptions[i] = rel.DisplayName
			}
			s.releaseSelect.Options = releaseOptions

			s.prefill()
		})
	}()
}

// prefill fills the form from a resumed draft
func (s *basicInfoStep) prefill() {
	product := s.wz.flow.Product()
	if product == nil {
		return
	}

	s.nameEntry.SetText(product.DisplayName)
	for _, pt := range s.types {
		if pt.ID == product.ProductType {
			s.typeSelect.SetSelected(pt.DisplayName)
		}
	}
	if product.Release != nil {
		for _, rel := range s.releases {
			if rel.ID == *product.Release {
				s.releaseSelect.SetSelected(rel.DisplayName)
			}
		}
	}
	s.releaseYearEntry.SetText(product.ReleaseYear)
	s.surveyEntry.SetText(product.Survey)
	s.pzCodeEntry.SetText(product.PzCode)
	s.descriptionEntry.SetText(product.Description)
	s.officialCheck.SetChecked(product.OfficialProduct)
}

// selectedType returns the chosen product type, if any
func (s *basicInfoStep) selectedType() *model.ProductType {
	for i := range s.types {
		if s.types[i].DisplayName == s.typeSelect.Selected {
			return &s.types[i]
		}
	}
	return nil
}

// applyTypeRules shows only the fields the selected type takes
func (s *basicInfoStep) applyTypeRules() {
	pt := s.selectedType()
	if pt == nil {
		return
	}

	setFormItemVisible(s.releaseSelect, model.ReleaseRequired(pt.Name))
	setFormItemVisible(s.releaseYearEntry, model.ReleaseYearRequired(pt.Name))
	setFormItemVisible(s.pzCodeEntry, model.PzCodeAccepted(pt.Name))
	s.form.Refresh()
}

func setFormItemVisible(obj fyne.CanvasObject, visible bool) {
	if visible {
		obj.Show()
	} else {
		obj.Hide()
	}
}

func (s *basicInfoStep) Commit(ctx context.Context) error {
	pt := s.selectedType()
	if pt == nil {
		return rule.FieldErrors{"producttype": "product type is required"}
	}

	form := api.ProductForm{
		DisplayName:     s.nameEntry.Text,
		ProductType:     pt.ID,
		ReleaseYear:     s.releaseYearEntry.Text,
		Survey:          s.surveyEntry.Text,
		PzCode:          s.pzCodeEntry.Text,
		Description:     s.descriptionEntry.Text,
		OfficialProduct: s.officialCheck.Checked,
	}
	for _, rel := range s.releases {
		if rel.DisplayName == s.releaseSelect.Selected {
			id := rel.ID
			form.Release = &id
			break
		}
	}

	return s.wz.flow.SubmitBasicInfo(ctx, form, pt.Name)
}

// --- Step 2: file upload ---

type fileUploadStep struct {
	wz *WizardUI

	roleSelect  *widget.Select
	fileList    *widget.List
	progressBar *widget.ProgressBar
	statusLabel *widget.Label
	content     fyne.CanvasObject
}

// Upload role choices in display order
var roleOptions = []struct {
	label string
	role  model.FileRole
}{
	{"Main", model.RoleMain},
	{"Description", model.RoleDescription},
	{"Auxiliary", model.RoleAuxiliary},
}

func newFileUploadStep(wz *WizardUI) *fileUploadStep {
	s := &fileUploadStep{wz: wz}

	labels := make([]string, len(roleOptions))
	for i, r := range roleOptions {
		labels[i] = r.label
	}
	s.roleSelect = widget.NewSelect(labels, nil)
	s.roleSelect.SetSelectedIndex(0)

	chooseBtn := widget.NewButton("Choose File...", s.onChooseFile)
	chooseBtn.Importance = widget.HighImportance

	s.progressBar = widget.NewProgressBar()
	s.progressBar.Hide()

	s.statusLabel = widget.NewLabel("Upload the main product file. Description and auxiliary files are optional.")
	s.statusLabel.Wrapping = fyne.TextWrapWord

	s.fileList = widget.NewList(
		func() int { return len(s.wz.flow.Files()) },
		func() fyne.CanvasObject {
			name := widget.NewLabel("")
			name.Truncation = fyne.TextTruncateEllipsis
			remove := widget.NewButton("Remove", nil)
			return container.NewBorder(nil, nil, nil, remove, name)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			files := s.wz.flow.Files()
			if id >= len(files) {
				return
			}
			file := files[id]
			row := obj.(*fyne.Container)
			name := row.Objects[0].(*widget.Label)
			remove := row.Objects[1].(*widget.Button)

			name.SetText(fmt.Sprintf("%s  (%s, %s)", file.Name, roleLabel(file.Role), humanize.Bytes(uint64(file.Size))))
			remove.OnTapped = func() { s.onRemoveFile(file.ID) }
		},
	)

	top := container.NewVBox(
		s.statusLabel,
		container.NewHBox(widget.NewLabel("Role:"), s.roleSelect, chooseBtn),
		s.progressBar,
	)
	s.content = container.NewBorder(top, nil, nil, nil, s.fileList)
	return s
}

func roleLabel(role model.FileRole) string {
	for _, r := range roleOptions {
		if r.role == role {
			return r.label
		}
	}
	return "Unknown"
}

func (s *fileUploadStep) Title() string              { return "Upload Files" }
func (s *fileUploadStep) Content() fyne.CanvasObject { return s.content }

func (s *fileUploadStep) OnShow() {
	go func() {
		err := s.wz.flow.LoadFiles(context.Background())
		fyne.Do(func() {
			if err != nil {
				s.statusLabel.SetText(api.ErrorMessage(err))
				return
			}
			s.fileList.Refresh()
		})
	}()
}

// selectedRole returns the role chosen for the next upload
func (s *fileUploadStep) selectedRole() model.FileRole {
	for _, r := range roleOptions {
		if r.label == s.roleSelect.Selected {
			return r.role
		}
	}
	return model.RoleMain
}

// onChooseFile opens the file picker and streams the chosen file
func (s *fileUploadStep) onChooseFile() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		s.upload(path, s.selectedRole())
	}, s.wz.window)
}

// upload streams the file with a progress bar
func (s *fileUploadStep) upload(path string, role model.FileRole) {
	s.progressBar.SetValue(0)
	s.progressBar.Show()
	s.statusLabel.SetText("Uploading...")

	go func() {
		err := s.wz.flow.UploadFile(context.Background(), path, role, func(percent int) {
			fyne.Do(func() { s.progressBar.SetValue(float64(percent) / 100) })
		})
		fyne.Do(func() {
			s.progressBar.Hide()
			if err != nil {
				s.statusLabel.SetText(api.ErrorMessage(err))
				return
			}
			s.statusLabel.SetText("Upload complete.")
			s.fileList.Refresh()
		})
	}()
}

// onRemoveFile detaches an uploaded file
func (s *fileUploadStep) onRemoveFile(fileID int) {
	go func() {
		err := s.wz.flow.DeleteFile(context.Background(), fileID)
		fyne.Do(func() {
			if err != nil {
				s.statusLabel.SetText(api.ErrorMessage(err))
				return
			}
			s.fileList.Refresh()
		})
	}()
}

// Commit registers the main file so its columns are discovered
func (s *fileUploadStep) Commit(ctx context.Context) error {
	return s.wz.flow.AdvanceToColumns(ctx)
}

// --- Step 3: column association ---

type columnsStep struct {
	wz *WizardUI

	rows    *fyne.Container
	content fyne.CanvasObject
}

// noUCDOption is the select entry that clears an association
const noUCDOption = "None"

func newColumnsStep(wz *WizardUI) *columnsStep {
	s := &columnsStep{wz: wz}

	s.rows = container.NewVBox()

	help := widget.NewLabel("Associate the product columns with the standard " +
		"quantities. Each quantity can be assigned to one column only; an " +
		"alias renames the column on download.")
	help.Wrapping = fyne.TextWrapWord

	s.content = container.NewBorder(help, nil, nil, nil, container.NewVScroll(s.rows))
	return s
}

func (s *columnsStep) Title() string              { return "Associate Columns" }
func (s *columnsStep) Content() fyne.CanvasObject { return s.content }

func (s *columnsStep) OnShow() {
	s.rebuild()
}

// rebuild recreates one row per discovered column with the currently
// available UCD choices
func (s *columnsStep) rebuild() {
	s.rows.Objects = nil

	for _, pc := range s.wz.flow.Contents() {
		s.rows.Add(s.buildRow(pc))
	}
	s.rows.Refresh()
}

func (s *columnsStep) buildRow(pc model.ProductContent) fyne.CanvasObject {
	name := widget.NewLabel(pc.ColumnName)
	name.TextStyle = fyne.TextStyle{Monospace: true}

	options := []string{noUCDOption}
	for _, u := range s.wz.flow.AvailableUCDs(pc.ID) {
		options = append(options, u.Name)
	}

	aliasEntry := widget.NewEntry()
	aliasEntry.SetPlaceHolder("Alias")
	if pc.Alias != nil {
		aliasEntry.SetText(*pc.Alias)
	}

	ucdSelect := widget.NewSelect(options, nil)
	if pc.UCD != nil {
		ucdSelect.SetSelected(model.UCDName(*pc.UCD))
	} else {
		ucdSelect.SetSelected(noUCDOption)
	}

	contentID := pc.ID
	save := func(ucdName, alias string) {
		var ucd *string
		if ucdName != noUCDOption {
			for _, u := range model.UCDs() {
				if u.Name == ucdName {
					value := u.Value
					ucd = &value
					break
				}
			}
		}
		var aliasPtr *string
		if alias != "" {
			aliasPtr = &alias
		}

		go func() {
			err := s.wz.flow.Associate(context.Background(), contentID, ucd, aliasPtr)
			fyne.Do(func() {
				if err != nil {
					s.wz.showError(err)
					return
				}
				// Availability changed for every other row
				s.rebuild()
			})
		}()
	}

	ucdSelect.OnChanged = func(selected string) {
		save(selected, aliasEntry.Text)
	}

	// Alias saves after typing pauses rather than on every keystroke
	aliasDebounce := collection.NewDebouncer(collection.DefaultDebounce)
	aliasEntry.OnChanged = func(text string) {
		aliasDebounce.Do(func() {
			fyne.Do(func() { save(ucdSelect.Selected, text) })
		})
	}

	return container.NewBorder(nil, nil, container.NewGridWrap(fyne.NewSize(180, name.MinSize().Height), name), nil,
		container.NewGridWithColumns(2, ucdSelect, aliasEntry))
}

// Commit moves on to confirmation; association itself is already saved
func (s *columnsStep) Commit(ctx context.Context) error {
	return s.wz.flow.AdvanceToConfirm()
}

// --- Step 4: confirmation ---

type confirmStep struct {
	wz *WizardUI

	summary *fyne.Container
	content fyne.CanvasObject
}

func newConfirmStep(wz *WizardUI) *confirmStep {
	s := &confirmStep{wz: wz}
	s.summary = container.NewVBox()
	s.content = container.NewVScroll(s.summary)
	return s
}

func (s *confirmStep) Title() string              { return "Confirm and Publish" }
func (s *confirmStep) Content() fyne.CanvasObject { return s.content }

func (s *confirmStep) OnShow() {
	s.summary.Objects = nil

	product := s.wz.flow.Product()
	if product == nil {
		return
	}

	addLine := func(label, value string) {
		if value == "" {
			value = DashPlaceholder
		}
		row := widget.NewLabel(fmt.Sprintf("%s: %s", label, value))
		s.summary.Add(row)
	}

	addLine("Name", product.DisplayName)
	addLine("Type", product.ProductTypeName)
	addLine("Release", product.ReleaseName)
	addLine("Release Year", product.ReleaseYear)
	addLine("Survey", product.Survey)
	addLine("Pz Code", product.PzCode)
	addLine("Official", strconv.FormatBool(product.OfficialProduct))
	addLine("Files", strconv.Itoa(len(s.wz.flow.Files())))

	associated := 0
	for _, pc := range s.wz.flow.Contents() {
		if pc.UCD != nil {
			associated++
		}
	}
	addLine("Associated Columns", fmt.Sprintf("%d of %d", associated, len(s.wz.flow.Contents())))

	s.summary.Add(widget.NewSeparator())
	note := widget.NewLabel("Publishing makes the product visible to every user and assigns its internal name.")
	note.Wrapping = fyne.TextWrapWord
	s.summary.Add(note)
	s.summary.Refresh()
}

// Commit publishes the draft
func (s *confirmStep) Commit(ctx context.Context) error {
	internalName, err := s.wz.flow.Publish(ctx)
	if err != nil {
		return err
	}
	fyne.Do(func() { s.wz.finish(internalName) })
	return nil
}
