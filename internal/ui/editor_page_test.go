package ui

import (
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2/test"

	"github.com/yotoup/card-studio/internal/config"
	"github.com/yotoup/card-studio/internal/model"
)

// fakeSaver records saved cards without touching the network
type fakeSaver struct {
	saved    []*model.Card
	callback func(*model.SaveTask)
}

func (f *fakeSaver) SetUpdateCallback(callback func(*model.SaveTask)) {
	f.callback = callback
}

func (f *fakeSaver) SaveCard(card *model.Card) (*model.SaveTask, error) {
	f.saved = append(f.saved, card)
	return &model.SaveTask{ID: "save-1", Card: card, Status: model.TaskStatusPending}, nil
}

func (f *fakeSaver) GetTask(id string) (*model.SaveTask, bool) { return nil, false }

func (f *fakeSaver) GetAllTasks() []*model.SaveTask { return nil }

func (f *fakeSaver) CancelSave(id string) error { return nil }

// fakeNormalizer is an inert audio service
type fakeNormalizer struct {
	callback func(*model.NormalizeTask)
}

func (f *fakeNormalizer) SetUpdateCallback(callback func(*model.NormalizeTask)) {
	f.callback = callback
}

func (f *fakeNormalizer) ProbeDuration(filePath string) (float64, error) {
	return 0, nil
}

func (f *fakeNormalizer) StartNormalize(inputPath string, targetLUFS float64) (*model.NormalizeTask, error) {
	return &model.NormalizeTask{ID: "normalize-1", Status: model.TaskStatusPending}, nil
}

func (f *fakeNormalizer) CancelNormalize(taskID string) error { return nil }

func (f *fakeNormalizer) GetTask(taskID string) (*model.NormalizeTask, bool) { return nil, false }

func newTestEditorPage(t *testing.T) (*EditorPage, *fakeSaver) {
	t.Helper()
	test.NewApp()

	window := test.NewWindow(nil)
	t.Cleanup(window.Close)

	store := config.NewStore(filepath.Join(t.TempDir(), "settings.json"))
	saver := &fakeSaver{}
	toasts := NewToastManager(window)

	page := NewEditorPage(window, store, saver, &fakeNormalizer{}, toasts)
	window.SetContent(page.Content())
	return page, saver
}

func TestEditorPageStartsClean(t *testing.T) {
	page, _ := newTestEditorPage(t)

	if page.Dirty() {
		t.Error("Expected fresh editor page to not be dirty")
	}
	if !page.Card().IsNew() {
		t.Error("Expected fresh card to be new")
	}
}

func TestEditorPageDirtyOnEdit(t *testing.T) {
	page, _ := newTestEditorPage(t)

	page.titleEntry.SetText("Bedtime Stories")

	if !page.Dirty() {
		t.Error("Expected page to be dirty after editing the title")
	}
}

func TestEditorPageAddChapter(t *testing.T) {
	page, _ := newTestEditorPage(t)

	page.onAddChapter()
	page.onAddChapter()

	chapters := page.Card().Content.Chapters
	if len(chapters) != 2 {
		t.Fatalf("Expected 2 chapters, got %d", len(chapters))
	}
	if chapters[1].Title != "Chapter 2" {
		t.Errorf("Expected sequential chapter title, got %q", chapters[1].Title)
	}
	if chapters[0].Key == chapters[1].Key {
		t.Error("Expected unique chapter keys")
	}
	if !page.Dirty() {
		t.Error("Expected page to be dirty after adding chapters")
	}
}

func TestEditorPageRemoveSelectedChapter(t *testing.T) {
	page, _ := newTestEditorPage(t)

	page.onAddChapter()
	key := page.Card().Content.Chapters[0].Key

	page.selectedID = key
	page.onRemoveSelected()

	if len(page.Card().Content.Chapters) != 0 {
		t.Error("Expected chapter to be removed")
	}
	if page.selectedID != "" {
		t.Error("Expected selection to be cleared after removal")
	}
}

func TestEditorPageRemoveSelectedTrack(t *testing.T) {
	page, _ := newTestEditorPage(t)

	page.onAddChapter()
	chapter := page.Card().Content.Chapters[0]
	chapter.Tracks = append(chapter.Tracks, &model.Track{Key: "t1", Title: "One"})
	chapter.Tracks = append(chapter.Tracks, &model.Track{Key: "t2", Title: "Two"})

	page.selectedID = chapter.Key + treeIDSeparator + "t1"
	page.onRemoveSelected()

	if len(chapter.Tracks) != 1 {
		t.Fatalf("Expected 1 track after removal, got %d", len(chapter.Tracks))
	}
	if chapter.Tracks[0].Key != "t2" {
		t.Errorf("Expected remaining track t2, got %q", chapter.Tracks[0].Key)
	}
}

func TestEditorPageSaveRequiresTitle(t *testing.T) {
	page, saver := newTestEditorPage(t)

	page.onSave()

	if len(saver.saved) != 0 {
		t.Error("Expected save to be rejected without a title")
	}
}

func TestEditorPageSaveCollectsForm(t *testing.T) {
	page, saver := newTestEditorPage(t)

	page.titleEntry.SetText("  Bedtime Stories  ")
	page.authorEntry.SetText("Jane Doe")
	page.genreEntry.SetText("bedtime, fairy tales")
	page.tagsEntry.SetText("calm")
	page.categorySelect.SetSelected(model.CategoryStories)
	page.minAgeSelect.SetSelected("3")
	page.maxAgeSelect.SetSelected("7")

	page.onSave()

	if len(saver.saved) != 1 {
		t.Fatalf("Expected 1 saved card, got %d", len(saver.saved))
	}

	card := saver.saved[0]
	if card.Title != "Bedtime Stories" {
		t.Errorf("Expected trimmed title, got %q", card.Title)
	}
	meta := card.Metadata
	if meta.Author != "Jane Doe" || meta.Category != model.CategoryStories {
		t.Errorf("Unexpected metadata: %+v", meta)
	}
	if len(meta.Genre) != 2 || meta.Genre[1] != "fairy tales" {
		t.Errorf("Unexpected genre list: %v", meta.Genre)
	}
	if meta.MinAge != 3 || meta.MaxAge != 7 {
		t.Errorf("Unexpected age range: %d-%d", meta.MinAge, meta.MaxAge)
	}
}

func TestEditorPageMaxAgeNotBelowMinAge(t *testing.T) {
	page, saver := newTestEditorPage(t)

	page.titleEntry.SetText("Stories")
	page.minAgeSelect.SetSelected("8")
	page.maxAgeSelect.SetSelected("3")

	page.onSave()

	if len(saver.saved) != 1 {
		t.Fatalf("Expected 1 saved card, got %d", len(saver.saved))
	}
	meta := saver.saved[0].Metadata
	if meta.MaxAge != meta.MinAge {
		t.Errorf("Expected max age raised to min age, got %d-%d", meta.MinAge, meta.MaxAge)
	}
}

func TestEditorPageLoadCardResetsDirty(t *testing.T) {
	page, _ := newTestEditorPage(t)

	page.titleEntry.SetText("Draft")
	if !page.Dirty() {
		t.Fatal("Expected page to be dirty before load")
	}

	page.LoadCard(&model.Card{
		CardID: "card-42",
		Title:  "From Library",
		Content: &model.CardContent{Chapters: []*model.Chapter{
			{Key: "c1", Title: "Chapter 1", Tracks: []*model.Track{
				{Key: "t1", Title: "Track 1", Duration: 61},
			}},
		}},
	})

	if page.Dirty() {
		t.Error("Expected page to be clean after loading a card")
	}
	if page.titleEntry.Text != "From Library" {
		t.Errorf("Expected form to show loaded title, got %q", page.titleEntry.Text)
	}
}

func TestEditorPageTreeIDs(t *testing.T) {
	page, _ := newTestEditorPage(t)

	page.LoadCard(&model.Card{
		Title: "Stories",
		Content: &model.CardContent{Chapters: []*model.Chapter{
			{Key: "c1", Title: "Chapter 1", Tracks: []*model.Track{
				{Key: "t1", Title: "One"},
				{Key: "t2", Title: "Two"},
			}},
			{Key: "c2", Title: "Chapter 2"},
		}},
	})

	roots := page.childIDs("")
	if len(roots) != 2 || roots[0] != "c1" || roots[1] != "c2" {
		t.Fatalf("Unexpected root IDs: %v", roots)
	}

	tracks := page.childIDs("c1")
	if len(tracks) != 2 || tracks[0] != "c1/t1" {
		t.Fatalf("Unexpected track IDs: %v", tracks)
	}

	if !page.isBranch("c1") || page.isBranch("c1/t1") {
		t.Error("Branch detection mismatch")
	}

	chapter, track := page.findTrack("c1/t2")
	if chapter == nil || track == nil || track.Title != "Two" {
		t.Errorf("findTrack failed: chapter=%v track=%v", chapter, track)
	}
}
