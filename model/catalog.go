package model

import "unicode/utf8"

// CatalogTrack is a track descriptor as returned by the external catalog.
// Immutable once constructed; cached copies are replaceable snapshots.
type CatalogTrack struct {
	ID       string `json:"id"` // composite owner_item catalog id
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Duration int    `json:"duration"` // seconds
	MediaURL string `json:"mediaUrl"`
	ThumbURL string `json:"thumbUrl,omitempty"`
}

// Label renders the "Artist - Title" line shown on keyboard buttons,
// truncated to at most max runes.
func (t *CatalogTrack) Label(max int) string {
	label := t.Artist + " - " + t.Title
	if max <= 0 || utf8.RuneCountInString(label) <= max {
		return label
	}
	runes := []rune(label)
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// Stored converts the descriptor into its persistent form.
func (t *CatalogTrack) Stored() *Track {
	return &Track{
		ID:       t.ID,
		Title:    t.Title,
		Artist:   t.Artist,
		Duration: t.Duration,
		MediaURL: t.MediaURL,
		ThumbURL: t.ThumbURL,
	}
}
