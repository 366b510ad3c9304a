package flow

import (
	"errors"
	"testing"
)

func TestCallbackRoundTrips(t *testing.T) {
	cases := []struct {
		data string
		kind CallbackKind
	}{
		{EncodeDownload("1_100"), CallbackDownload},
		{EncodePage("a1b2c3d4e5f6", 3), CallbackPage},
		{EncodeAlbumMenu("1_100"), CallbackAlbumMenu},
		{EncodeAlbumAdd(42, "1_100"), CallbackAlbumAdd},
		{EncodeAlbumDelete(42), CallbackAlbumDelete},
		{EncodeNewAlbum(), CallbackNewAlbum},
	}
	for _, tc := range cases {
		cb, err := ParseCallback(tc.data)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.data, err)
		}
		if cb.Kind != tc.kind {
			t.Fatalf("parse %q: expected kind %d, got %d", tc.data, tc.kind, cb.Kind)
		}
	}
}

func TestCallbackFields(t *testing.T) {
	cb, err := ParseCallback("album_add:42:1_100")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cb.CollectionID != 42 || cb.TrackID != "1_100" {
		t.Fatalf("unexpected fields: %+v", cb)
	}

	cb, err = ParseCallback("search_page:a1b2c3:7")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cb.QueryKey != "a1b2c3" || cb.Page != 7 {
		t.Fatalf("unexpected fields: %+v", cb)
	}
}

func TestCallbackRejectsMalformed(t *testing.T) {
	bad := []string{
		"",
		"unknown:1",
		"download:",
		"download:a:b",
		"search_page:key",
		"search_page:key:notanum",
		"search_page:key:-1",
		"search_page::3",
		"album_add:notanum:1_100",
		"album_add:0:1_100",
		"album_add:42:",
		"album_del:notanum",
		"album_del:0",
		"album_del:1:extra",
		"create_album:extra",
	}
	for _, data := range bad {
		if _, err := ParseCallback(data); !errors.Is(err, ErrMalformedCallback) {
			t.Fatalf("parse %q: expected ErrMalformedCallback, got %v", data, err)
		}
	}
}

func TestEncodePageStaysWithinCallbackBudget(t *testing.T) {
	data := EncodePage("a1b2c3d4e5f6", 9999)
	if len(data) > maxCallbackData {
		t.Fatalf("payload %q exceeds %d bytes", data, maxCallbackData)
	}
}
