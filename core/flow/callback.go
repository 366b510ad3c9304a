package flow

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Callback payloads are tagged variants encoded as colon-separated fields.
// Free text never appears in a payload: search queries travel as registry
// keys, so the separator cannot collide with user input. The whole payload
// must fit the platform's 64-byte callback-data limit.
const (
	tagDownload  = "download"    // download:<token>
	tagPage      = "search_page" // search_page:<queryKey>:<page>
	tagAlbumMenu = "add_album"   // add_album:<trackId>
	tagAlbumAdd  = "album_add"   // album_add:<collectionId>:<trackId>
	tagAlbumDel  = "album_del"   // album_del:<collectionId>
	tagNewAlbum  = "create_album"
)

// CallbackKind discriminates parsed payloads.
type CallbackKind int

const (
	CallbackDownload CallbackKind = iota
	CallbackPage
	CallbackAlbumMenu
	CallbackAlbumAdd
	CallbackAlbumDelete
	CallbackNewAlbum
)

// Callback is a validated, decoded callback payload.
type Callback struct {
	Kind         CallbackKind
	Token        string // CallbackDownload
	QueryKey     string // CallbackPage
	Page         int    // CallbackPage
	TrackID      string // CallbackAlbumMenu, CallbackAlbumAdd
	CollectionID int64  // CallbackAlbumAdd, CallbackAlbumDelete
}

// EncodeDownload renders a track selection payload.
func EncodeDownload(token string) string {
	return tagDownload + ":" + token
}

// EncodePage renders a pagination payload.
func EncodePage(queryKey string, page int) string {
	return fmt.Sprintf("%s:%s:%d", tagPage, queryKey, page)
}

// EncodeAlbumMenu renders the "pick a collection for this track" payload.
func EncodeAlbumMenu(trackID string) string {
	return tagAlbumMenu + ":" + trackID
}

// EncodeAlbumAdd renders the "add track to collection" payload.
func EncodeAlbumAdd(collectionID int64, trackID string) string {
	return fmt.Sprintf("%s:%d:%s", tagAlbumAdd, collectionID, trackID)
}

// EncodeAlbumDelete renders the "delete collection" payload.
func EncodeAlbumDelete(collectionID int64) string {
	return fmt.Sprintf("%s:%d", tagAlbumDel, collectionID)
}

// EncodeNewAlbum renders the "create a collection" payload.
func EncodeNewAlbum() string {
	return tagNewAlbum
}

// fitsCallbackBudget reports whether a token stays within the payload limit
// for every encoder that may carry it, not just the shortest one. The widest
// form is album_add with a full-width collection id.
func fitsCallbackBudget(token string) bool {
	return len(EncodeAlbumAdd(math.MaxInt64, token)) <= maxCallbackData
}

// ParseCallback decodes and validates a callback payload. Field counts and
// types are checked per tag; anything else is ErrMalformedCallback.
func ParseCallback(data string) (*Callback, error) {
	parts := strings.Split(data, ":")
	switch parts[0] {
	case tagDownload:
		if len(parts) != 2 || parts[1] == "" {
			return nil, fmt.Errorf("%w: %q", ErrMalformedCallback, data)
		}
		return &Callback{Kind: CallbackDownload, Token: parts[1]}, nil

	case tagPage:
		if len(parts) != 3 || parts[1] == "" {
			return nil, fmt.Errorf("%w: %q", ErrMalformedCallback, data)
		}
		page, err := strconv.Atoi(parts[2])
		if err != nil || page < 0 {
			return nil, fmt.Errorf("%w: bad page in %q", ErrMalformedCallback, data)
		}
		return &Callback{Kind: CallbackPage, QueryKey: parts[1], Page: page}, nil

	case tagAlbumMenu:
		if len(parts) != 2 || parts[1] == "" {
			return nil, fmt.Errorf("%w: %q", ErrMalformedCallback, data)
		}
		return &Callback{Kind: CallbackAlbumMenu, TrackID: parts[1]}, nil

	case tagAlbumAdd:
		if len(parts) != 3 || parts[2] == "" {
			return nil, fmt.Errorf("%w: %q", ErrMalformedCallback, data)
		}
		id, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: bad collection id in %q", ErrMalformedCallback, data)
		}
		return &Callback{Kind: CallbackAlbumAdd, CollectionID: id, TrackID: parts[2]}, nil

	case tagAlbumDel:
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: %q", ErrMalformedCallback, data)
		}
		id, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: bad collection id in %q", ErrMalformedCallback, data)
		}
		return &Callback{Kind: CallbackAlbumDelete, CollectionID: id}, nil

	case tagNewAlbum:
		if len(parts) != 1 {
			return nil, fmt.Errorf("%w: %q", ErrMalformedCallback, data)
		}
		return &Callback{Kind: CallbackNewAlbum}, nil
	}
	return nil, fmt.Errorf("%w: unknown tag in %q", ErrMalformedCallback, data)
}
