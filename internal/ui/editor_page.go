package ui

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/yotoup/card-studio/internal/audio"
	"github.com/yotoup/card-studio/internal/config"
	"github.com/yotoup/card-studio/internal/editor"
	"github.com/yotoup/card-studio/internal/model"
	"github.com/yotoup/card-studio/internal/platform"
)

// treeIDSeparator joins chapter and track keys into tree node IDs
const treeIDSeparator = "/"

// EditorPage is the card editing screen: metadata form on the left, the
// chapter/track tree on the right, and the save controls at the bottom.
type EditorPage struct {
	window   fyne.Window
	store    *config.Store
	saver    editor.Saver
	audioSvc audio.Normalizer
	toasts   *ToastManager

	card  *model.Card
	dirty bool

	// Metadata form
	titleEntry       *widget.Entry
	authorEntry      *widget.Entry
	descriptionEntry *widget.Entry
	categorySelect   *widget.Select
	genreEntry       *widget.Entry
	tagsEntry        *widget.Entry
	minAgeSelect     *widget.Select
	maxAgeSelect     *widget.Select
	coverImage       *canvas.Image

	// Content tree
	tree       *widget.Tree
	selectedID widget.TreeNodeID

	statusLabel *widget.Label
	saveBtn     *widget.Button

	content fyne.CanvasObject
}

// NewEditorPage creates the editor page and wires the service callbacks
func NewEditorPage(window fyne.Window, store *config.Store, saver editor.Saver, audioSvc audio.Normalizer, toasts *ToastManager) *EditorPage {
	page := &EditorPage{
		window:   window,
		store:    store,
		saver:    saver,
		audioSvc: audioSvc,
		toasts:   toasts,
		card:     newEmptyCard(),
	}

	page.createUI()
	page.applyCard()
	page.dirty = false

	// Service callbacks arrive on worker goroutines; marshal onto the UI thread
	saver.SetUpdateCallback(func(task *model.SaveTask) {
		fyne.Do(func() {
			page.onSaveUpdate(task)
		})
	})
	audioSvc.SetUpdateCallback(func(task *model.NormalizeTask) {
		fyne.Do(func() {
			page.onNormalizeUpdate(task)
		})
	})

	return page
}

// newEmptyCard creates a fresh unsaved card
func newEmptyCard() *model.Card {
	return &model.Card{
		Metadata: &model.CardMetadata{Category: model.CategoryNone},
		Content:  &model.CardContent{},
	}
}

// Content returns the page's root canvas object
func (p *EditorPage) Content() fyne.CanvasObject {
	return p.content
}

// Card returns the card currently being edited
func (p *EditorPage) Card() *model.Card {
	return p.card
}

// Dirty reports whether there are unsaved changes
func (p *EditorPage) Dirty() bool {
	return p.dirty
}

// createUI builds the editor layout
func (p *EditorPage) createUI() {
	// Metadata form
	p.titleEntry = widget.NewEntry()
	p.titleEntry.SetPlaceHolder("Card title (required)")
	p.titleEntry.OnChanged = func(string) { p.markDirty() }

	p.authorEntry = widget.NewEntry()
	p.authorEntry.OnChanged = func(string) { p.markDirty() }

	p.descriptionEntry = widget.NewMultiLineEntry()
	p.descriptionEntry.Wrapping = fyne.TextWrapWord
	p.descriptionEntry.SetMinRowsVisible(3)
	p.descriptionEntry.OnChanged = func(string) { p.markDirty() }

	p.categorySelect = widget.NewSelect(model.Categories(), func(string) { p.markDirty() })

	p.genreEntry = widget.NewEntry()
	p.genreEntry.SetPlaceHolder("Comma separated, e.g. bedtime, fairy tales")
	p.genreEntry.OnChanged = func(string) { p.markDirty() }

	p.tagsEntry = widget.NewEntry()
	p.tagsEntry.SetPlaceHolder("Comma separated")
	p.tagsEntry.OnChanged = func(string) { p.markDirty() }

	ageOptions := make([]string, 0, MaxCardAge-MinCardAge+1)
	for age := MinCardAge; age <= MaxCardAge; age++ {
		ageOptions = append(ageOptions, strconv.Itoa(age))
	}
	p.minAgeSelect = widget.NewSelect(ageOptions, func(string) { p.markDirty() })
	p.maxAgeSelect = widget.NewSelect(ageOptions, func(string) { p.markDirty() })

	p.coverImage = &canvas.Image{FillMode: canvas.ImageFillContain}
	p.coverImage.SetMinSize(fyne.NewSize(CoverPreviewSize, CoverPreviewSize))
	coverBtn := widget.NewButton("Choose Cover…", p.onChooseCover)

	form := container.NewVBox(
		widget.NewLabel("Title:"),
		p.titleEntry,
		widget.NewLabel("Author:"),
		p.authorEntry,
		widget.NewLabel("Description:"),
		p.descriptionEntry,
		widget.NewLabel("Category:"),
		p.categorySelect,
		widget.NewLabel("Genre:"),
		p.genreEntry,
		widget.NewLabel("Tags:"),
		p.tagsEntry,
		container.NewHBox(
			widget.NewLabel("Age range:"),
			p.minAgeSelect,
			widget.NewLabel(DashPlaceholder),
			p.maxAgeSelect,
		),
		widget.NewLabel("Cover:"),
		p.coverImage,
		coverBtn,
	)

	// Chapter/track tree
	p.tree = widget.NewTree(p.childIDs, p.isBranch, p.createNode, p.updateNode)
	p.tree.OnSelected = func(id widget.TreeNodeID) {
		p.selectedID = id
	}
	p.tree.OnUnselected = func(id widget.TreeNodeID) {
		if p.selectedID == id {
			p.selectedID = ""
		}
	}

	addChapterBtn := widget.NewButton(IconChapter+" Add Chapter", p.onAddChapter)
	addTrackBtn := widget.NewButton(IconMusic+" Add Track", p.onAddTrack)
	importBtn := widget.NewButton(IconFolder+" Import Folder", p.onImportFolder)
	removeBtn := widget.NewButton("Remove", p.onRemoveSelected)
	normalizeBtn := widget.NewButton("Normalize", p.onNormalizeSelected)
	revealBtn := widget.NewButton("Reveal", p.onRevealSelected)

	treeToolbar := container.NewHBox(addChapterBtn, addTrackBtn, importBtn, removeBtn, normalizeBtn, revealBtn)
	treePanel := container.NewBorder(treeToolbar, nil, nil, nil, p.tree)

	// Bottom panel
	p.statusLabel = widget.NewLabel("")
	p.saveBtn = widget.NewButton("Save to Yoto", p.onSave)
	p.saveBtn.Importance = widget.HighImportance
	bottomPanel := container.NewBorder(nil, nil, p.statusLabel, p.saveBtn)

	split := container.NewHSplit(container.NewVScroll(form), treePanel)
	split.SetOffset(0.42)

	p.content = container.NewBorder(nil, bottomPanel, nil, nil, split)
}

// LoadCard replaces the edited card and refreshes the form
func (p *EditorPage) LoadCard(card *model.Card) {
	if card.Metadata == nil {
		card.Metadata = &model.CardMetadata{Category: model.CategoryNone}
	}
	if card.Content == nil {
		card.Content = &model.CardContent{}
	}
	p.card = card
	p.applyCard()
	p.dirty = false
	p.updateStatus("")
}

// NewCard starts editing a fresh card, confirming discard of unsaved changes
func (p *EditorPage) NewCard() {
	p.ConfirmDiscard(func() {
		p.LoadCard(newEmptyCard())
	})
}

// ConfirmDiscard runs the action, asking for confirmation first when there
// are unsaved changes
func (p *EditorPage) ConfirmDiscard(action func()) {
	if !p.dirty {
		action()
		return
	}

	dialog.NewCustomConfirm(
		"Unsaved Changes",
		"Discard",
		"Keep Editing",
		widget.NewLabel("This card has unsaved changes. Discard them?"),
		func(confirmed bool) {
			if confirmed {
				action()
			}
		},
		p.window,
	).Show()
}

// applyCard loads the card fields into the form widgets
func (p *EditorPage) applyCard() {
	meta := p.card.Metadata

	p.titleEntry.SetText(p.card.Title)
	p.authorEntry.SetText(meta.Author)
	p.descriptionEntry.SetText(meta.Description)
	if meta.Category != "" {
		p.categorySelect.SetSelected(meta.Category)
	} else {
		p.categorySelect.SetSelected(model.CategoryNone)
	}
	p.genreEntry.SetText(model.JoinCommaList(meta.Genre))
	p.tagsEntry.SetText(model.JoinCommaList(meta.Tags))
	p.minAgeSelect.SetSelected(strconv.Itoa(clampAge(meta.MinAge)))
	p.maxAgeSelect.SetSelected(strconv.Itoa(clampAge(meta.MaxAge)))
	p.refreshCover()

	p.selectedID = ""
	p.tree.Refresh()
	p.tree.OpenAllBranches()
}

// collectForm writes the form widgets back into the card
func (p *EditorPage) collectForm() {
	meta := p.card.Metadata

	p.card.Title = strings.TrimSpace(p.titleEntry.Text)
	meta.Author = strings.TrimSpace(p.authorEntry.Text)
	meta.Description = strings.TrimSpace(p.descriptionEntry.Text)
	meta.Category = p.categorySelect.Selected
	meta.Genre = model.ParseCommaList(p.genreEntry.Text)
	meta.Tags = model.ParseCommaList(p.tagsEntry.Text)
	meta.MinAge = parseAge(p.minAgeSelect.Selected)
	meta.MaxAge = parseAge(p.maxAgeSelect.Selected)

	if meta.MaxAge < meta.MinAge {
		meta.MaxAge = meta.MinAge
	}
}

// refreshCover updates the cover preview from the card metadata
func (p *EditorPage) refreshCover() {
	cover := p.card.Metadata.Cover
	if cover != nil && cover.ImageL != "" && !strings.HasPrefix(cover.ImageL, "http") {
		p.coverImage.File = cover.ImageL
	} else {
		p.coverImage.File = ""
	}
	p.coverImage.Refresh()
}

// markDirty flags unsaved changes
func (p *EditorPage) markDirty() {
	p.dirty = true
}

// Tree data callbacks

func (p *EditorPage) childIDs(id widget.TreeNodeID) []widget.TreeNodeID {
	if id == "" {
		ids := make([]widget.TreeNodeID, 0, len(p.card.Content.Chapters))
		for _, chapter := range p.card.Content.Chapters {
			ids = append(ids, chapter.Key)
		}
		return ids
	}

	chapter := p.findChapter(id)
	if chapter == nil {
		return nil
	}
	ids := make([]widget.TreeNodeID, 0, len(chapter.Tracks))
	for _, track := range chapter.Tracks {
		ids = append(ids, id+treeIDSeparator+track.Key)
	}
	return ids
}

func (p *EditorPage) isBranch(id widget.TreeNodeID) bool {
	return id == "" || !strings.Contains(id, treeIDSeparator)
}

func (p *EditorPage) createNode(branch bool) fyne.CanvasObject {
	return widget.NewLabel("")
}

func (p *EditorPage) updateNode(id widget.TreeNodeID, branch bool, node fyne.CanvasObject) {
	label := node.(*widget.Label)

	if branch {
		chapter := p.findChapter(id)
		if chapter == nil {
			return
		}
		label.SetText(fmt.Sprintf("%s %s (%d)", IconChapter, chapter.Title, len(chapter.Tracks)))
		return
	}

	_, track := p.findTrack(id)
	if track == nil {
		return
	}
	text := IconMusic + " " + track.Title
	if duration := track.GetDurationString(); duration != "" {
		text += MiddleDotSeparator + duration
	}
	label.SetText(text)
}

// findChapter returns the chapter with the given key, or nil
func (p *EditorPage) findChapter(key string) *model.Chapter {
	for _, chapter := range p.card.Content.Chapters {
		if chapter.Key == key {
			return chapter
		}
	}
	return nil
}

// findTrack resolves a track tree ID to its chapter and track
func (p *EditorPage) findTrack(id widget.TreeNodeID) (*model.Chapter, *model.Track) {
	chapterKey, trackKey, found := strings.Cut(id, treeIDSeparator)
	if !found {
		return nil, nil
	}
	chapter := p.findChapter(chapterKey)
	if chapter == nil {
		return nil, nil
	}
	for _, track := range chapter.Tracks {
		if track.Key == trackKey {
			return chapter, track
		}
	}
	return chapter, nil
}

// selectedChapter returns the chapter of the current selection, whether a
// chapter or one of its tracks is selected
func (p *EditorPage) selectedChapter() *model.Chapter {
	if p.selectedID == "" {
		return nil
	}
	if p.isBranch(p.selectedID) {
		return p.findChapter(p.selectedID)
	}
	chapter, _ := p.findTrack(p.selectedID)
	return chapter
}

// Toolbar actions

// onAddChapter appends a new empty chapter
func (p *EditorPage) onAddChapter() {
	chapter := &model.Chapter{
		Key:   model.NewContentKey(),
		Title: fmt.Sprintf("Chapter %d", len(p.card.Content.Chapters)+1),
	}
	p.card.Content.Chapters = append(p.card.Content.Chapters, chapter)
	p.markDirty()
	p.tree.Refresh()
	p.tree.OpenBranch(chapter.Key)
}

// onAddTrack picks an audio file and appends it to the selected chapter
func (p *EditorPage) onAddTrack() {
	chapter := p.selectedChapter()
	if chapter == nil {
		p.toasts.Warning("Select a chapter first")
		return
	}

	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		path := reader.URI().Path()
		if !platform.IsAudioFile(path) {
			p.toasts.Warning("Not a supported audio file")
			return
		}
		p.addTrackFromFile(chapter, path)
		p.tree.Refresh()
	}, p.window)
	fileDialog.SetFilter(storage.NewExtensionFileFilter(platform.AudioExtensions()))
	fileDialog.Show()
}

// onImportFolder builds a chapter from every audio file in a folder
func (p *EditorPage) onImportFolder() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}

		files, err := platform.ListAudioFiles(uri.Path())
		if err != nil {
			p.toasts.Error("Failed to read folder: " + err.Error())
			return
		}
		if len(files) == 0 {
			p.toasts.Info("No audio files found in folder")
			return
		}

		chapter := &model.Chapter{
			Key:   model.NewContentKey(),
			Title: platform.TrackTitleFromPath(uri.Path()),
		}
		p.card.Content.Chapters = append(p.card.Content.Chapters, chapter)
		for _, file := range files {
			p.addTrackFromFile(chapter, file)
		}

		p.markDirty()
		p.tree.Refresh()
		p.tree.OpenBranch(chapter.Key)
		p.toasts.Success(fmt.Sprintf("Imported %d tracks", len(chapter.Tracks)))
	}, p.window)
}

// addTrackFromFile appends a track for the given audio file and probes its
// duration in the background
func (p *EditorPage) addTrackFromFile(chapter *model.Chapter, path string) {
	track := &model.Track{
		Key:      model.NewContentKey(),
		Title:    platform.TrackTitleFromPath(path),
		TrackURL: path,
		Format:   platform.TrackFormatFromPath(path),
		Type:     model.TrackTypeAudio,
	}
	chapter.Tracks = append(chapter.Tracks, track)
	p.markDirty()

	go func() {
		duration, err := p.audioSvc.ProbeDuration(path)
		if err != nil {
			log.Printf("Failed to probe duration for %s: %v", path, err)
			return
		}
		fyne.Do(func() {
			track.Duration = duration
			p.tree.Refresh()
		})
	}()
}

// onRemoveSelected removes the selected chapter or track
func (p *EditorPage) onRemoveSelected() {
	if p.selectedID == "" {
		p.toasts.Warning("Select a chapter or track first")
		return
	}

	if p.isBranch(p.selectedID) {
		for i, chapter := range p.card.Content.Chapters {
			if chapter.Key == p.selectedID {
				p.card.Content.Chapters = append(p.card.Content.Chapters[:i], p.card.Content.Chapters[i+1:]...)
				break
			}
		}
	} else {
		chapter, track := p.findTrack(p.selectedID)
		if chapter != nil && track != nil {
			for i, t := range chapter.Tracks {
				if t == track {
					chapter.Tracks = append(chapter.Tracks[:i], chapter.Tracks[i+1:]...)
					break
				}
			}
		}
	}

	p.selectedID = ""
	p.tree.UnselectAll()
	p.markDirty()
	p.tree.Refresh()
}

// onNormalizeSelected starts loudness normalization for the selected track
func (p *EditorPage) onNormalizeSelected() {
	if p.selectedID == "" || p.isBranch(p.selectedID) {
		p.toasts.Warning("Select a track first")
		return
	}

	_, track := p.findTrack(p.selectedID)
	if track == nil || track.TrackURL == "" {
		p.toasts.Warning("Track has no local file")
		return
	}
	if strings.HasPrefix(track.TrackURL, "http") {
		p.toasts.Warning("Track is already uploaded")
		return
	}

	target := p.store.AudioTargetLUFS()
	task, err := p.audioSvc.StartNormalize(track.TrackURL, target)
	if err != nil {
		p.toasts.Error("Normalization failed to start: " + err.Error())
		return
	}

	log.Printf("Started normalization task %s for %s (target %.1f LUFS)", task.ID, track.TrackURL, target)
	p.updateStatus(fmt.Sprintf("Normalizing %s…", track.Title))
}

// onRevealSelected shows the selected track's file in the system file manager
func (p *EditorPage) onRevealSelected() {
	if p.selectedID == "" || p.isBranch(p.selectedID) {
		p.toasts.Warning("Select a track first")
		return
	}

	_, track := p.findTrack(p.selectedID)
	if track == nil || track.TrackURL == "" || strings.HasPrefix(track.TrackURL, "http") {
		p.toasts.Warning("Track has no local file")
		return
	}

	if err := platform.OpenFileInManager(track.TrackURL); err != nil {
		log.Printf("Failed to reveal file %s: %v", track.TrackURL, err)
		p.toasts.Error("Could not open file manager")
	}
}

// onChooseCover picks a cover image file
func (p *EditorPage) onChooseCover() {
	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		if p.card.Metadata.Cover == nil {
			p.card.Metadata.Cover = &model.CardCover{}
		}
		p.card.Metadata.Cover.ImageL = reader.URI().Path()
		p.markDirty()
		p.refreshCover()
	}, p.window)
	fileDialog.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".gif"}))
	fileDialog.Show()
}

// Save handling

// onSave validates the form and hands the card to the save service
func (p *EditorPage) onSave() {
	p.collectForm()

	if p.card.Title == "" {
		p.toasts.Error("Title is required")
		return
	}

	task, err := p.saver.SaveCard(p.card)
	if err != nil {
		p.toasts.Error("Save failed: " + err.Error())
		return
	}

	log.Printf("Started save task %s for card %q", task.ID, p.card.GetDisplayTitle())
	p.saveBtn.Disable()
	p.updateStatus("Saving…")
}

// onSaveUpdate reacts to save task status changes (UI thread)
func (p *EditorPage) onSaveUpdate(task *model.SaveTask) {
	switch task.Status {
	case model.TaskStatusCompleted:
		p.dirty = false
		p.saveBtn.Enable()
		p.updateStatus("")
		p.toasts.Success("Card saved: " + task.Card.GetDisplayTitle())
	case model.TaskStatusError:
		p.saveBtn.Enable()
		p.updateStatus("")
		p.toasts.Error("Save failed: " + task.LastError)
	case model.TaskStatusCancelled:
		p.saveBtn.Enable()
		p.updateStatus("")
		p.toasts.Info("Save cancelled")
	case model.TaskStatusRunning:
		p.updateStatus("Saving…")
	}
}

// onNormalizeUpdate reacts to normalization task status changes (UI thread)
func (p *EditorPage) onNormalizeUpdate(task *model.NormalizeTask) {
	switch task.Status {
	case model.TaskStatusCompleted:
		p.adoptNormalizedOutput(task)
		p.updateStatus("")
		p.toasts.Success("Normalization complete")
	case model.TaskStatusError:
		p.updateStatus("")
		p.toasts.Error("Normalization failed: " + task.LastError)
	case model.TaskStatusCancelled:
		p.updateStatus("")
		p.toasts.Info("Normalization cancelled")
	case model.TaskStatusRunning:
		p.updateStatus(fmt.Sprintf("Normalizing… %d%%", task.Percent))
	}
}

// adoptNormalizedOutput points the matching track at the normalized file
func (p *EditorPage) adoptNormalizedOutput(task *model.NormalizeTask) {
	for _, chapter := range p.card.Content.Chapters {
		for _, track := range chapter.Tracks {
			if track.TrackURL == task.InputPath {
				track.TrackURL = task.OutputPath
				p.markDirty()
				p.tree.Refresh()
				return
			}
		}
	}
}

// updateStatus sets the bottom status label
func (p *EditorPage) updateStatus(text string) {
	p.statusLabel.SetText(text)
}

// clampAge bounds an age value into the selectable range
func clampAge(age int) int {
	if age < MinCardAge {
		return MinCardAge
	}
	if age > MaxCardAge {
		return MaxCardAge
	}
	return age
}

// parseAge converts a select value back to an int
func parseAge(value string) int {
	age, err := strconv.Atoi(value)
	if err != nil {
		return MinCardAge
	}
	return clampAge(age)
}
