package telegram

import (
	"strings"
	"testing"

	"MuzBot/core/flow"
	"MuzBot/model"
)

func samplePage(items int, hasPrev, hasNext bool) *flow.PageResult {
	page := &flow.PageResult{
		Query:       "test query",
		QueryKey:    "abcdef123456",
		Page:        1,
		HasPrevious: hasPrev,
		HasNext:     hasNext,
	}
	for i := 0; i < items; i++ {
		page.Items = append(page.Items, flow.PageItem{
			Token: "100_200",
			Track: model.CatalogTrack{ID: "100_200", Title: "Song", Artist: "Artist"},
		})
	}
	return page
}

func TestResultsKeyboardRows(t *testing.T) {
	kb := resultsKeyboard(samplePage(6, true, true))
	if len(kb.InlineKeyboard) != 7 {
		t.Fatalf("expected 6 track rows plus navigation, got %d rows", len(kb.InlineKeyboard))
	}
	nav := kb.InlineKeyboard[6]
	if len(nav) != 2 {
		t.Fatalf("expected both navigation buttons, got %d", len(nav))
	}
	if nav[0].CallbackData != flow.EncodePage("abcdef123456", 0) {
		t.Errorf("prev button payload = %q", nav[0].CallbackData)
	}
	if nav[1].CallbackData != flow.EncodePage("abcdef123456", 2) {
		t.Errorf("next button payload = %q", nav[1].CallbackData)
	}
}

func TestResultsKeyboardFirstPageHidesPrev(t *testing.T) {
	page := samplePage(6, false, true)
	page.Page = 0
	kb := resultsKeyboard(page)
	nav := kb.InlineKeyboard[len(kb.InlineKeyboard)-1]
	if len(nav) != 1 || nav[0].Text != "Next »" {
		t.Fatalf("expected only a next button, got %+v", nav)
	}
}

func TestResultsKeyboardPartialPageNoNav(t *testing.T) {
	page := samplePage(3, false, false)
	kb := resultsKeyboard(page)
	if len(kb.InlineKeyboard) != 3 {
		t.Fatalf("expected 3 rows with no navigation, got %d", len(kb.InlineKeyboard))
	}
}

func TestResultsKeyboardTrackPayload(t *testing.T) {
	kb := resultsKeyboard(samplePage(1, false, false))
	got := kb.InlineKeyboard[0][0].CallbackData
	if got != "download:100_200" {
		t.Fatalf("track button payload = %q", got)
	}
	if len(got) > 64 {
		t.Fatalf("payload exceeds the 64 byte limit: %d", len(got))
	}
}

func TestCollectionPickKeyboard(t *testing.T) {
	summaries := []*model.CollectionSummary{
		{Collection: model.Collection{ID: 7, Name: "Favorites"}, TrackCount: 3},
		{Collection: model.Collection{ID: 9, Name: "Road trip"}, TrackCount: 0},
	}
	kb := collectionPickKeyboard(summaries, "100_200")
	if len(kb.InlineKeyboard) != 2 {
		t.Fatalf("expected one row per collection, got %d", len(kb.InlineKeyboard))
	}
	first := kb.InlineKeyboard[0][0]
	if first.Text != "Favorites (3)" {
		t.Errorf("label = %q", first.Text)
	}
	if first.CallbackData != flow.EncodeAlbumAdd(7, "100_200") {
		t.Errorf("payload = %q", first.CallbackData)
	}
}

func TestCollectionsKeyboard(t *testing.T) {
	summaries := []*model.CollectionSummary{
		{Collection: model.Collection{ID: 7, Name: "Favorites"}, TrackCount: 3},
	}
	kb := collectionsKeyboard(summaries)
	if len(kb.InlineKeyboard) != 2 {
		t.Fatalf("expected a delete row plus the create row, got %d", len(kb.InlineKeyboard))
	}
	if kb.InlineKeyboard[0][0].CallbackData != flow.EncodeAlbumDelete(7) {
		t.Errorf("delete payload = %q", kb.InlineKeyboard[0][0].CallbackData)
	}
	last := kb.InlineKeyboard[1][0]
	if last.CallbackData != flow.EncodeNewAlbum() {
		t.Errorf("create payload = %q", last.CallbackData)
	}
}

func TestTrackActionsKeyboard(t *testing.T) {
	kb := trackActionsKeyboard("100_200")
	data := kb.InlineKeyboard[0][0].CallbackData
	if !strings.HasPrefix(data, "add_album:") {
		t.Fatalf("unexpected payload %q", data)
	}
}
