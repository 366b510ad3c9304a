package telegram

import (
	"fmt"

	"MuzBot/core/flow"
	"MuzBot/model"

	"github.com/go-telegram/bot/models"
)

const buttonLabelMax = 60

// resultsKeyboard renders one search page: a button per track plus a
// navigation row when neighbouring pages exist.
func resultsKeyboard(page *flow.PageResult) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(page.Items)+1)
	for _, item := range page.Items {
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         item.Track.Label(buttonLabelMax),
			CallbackData: flow.EncodeDownload(item.Token),
		}})
	}

	var nav []models.InlineKeyboardButton
	if page.HasPrevious {
		nav = append(nav, models.InlineKeyboardButton{
			Text:         "« Prev",
			CallbackData: flow.EncodePage(page.QueryKey, page.Page-1),
		})
	}
	if page.HasNext {
		nav = append(nav, models.InlineKeyboardButton{
			Text:         "Next »",
			CallbackData: flow.EncodePage(page.QueryKey, page.Page+1),
		})
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}

	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// trackActionsKeyboard is attached under a delivered track. It carries the
// result token, which is sized to fit every callback form it appears in.
func trackActionsKeyboard(token string) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{{
			{Text: "Add to collection", CallbackData: flow.EncodeAlbumMenu(token)},
		}},
	}
}

// collectionsKeyboard accompanies the /albums listing: a delete button per
// collection and a create button at the bottom.
func collectionsKeyboard(summaries []*model.CollectionSummary) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(summaries)+1)
	for _, s := range summaries {
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         "Delete " + s.Name,
			CallbackData: flow.EncodeAlbumDelete(s.ID),
		}})
	}
	rows = append(rows, []models.InlineKeyboardButton{{
		Text:         "＋ New collection",
		CallbackData: flow.EncodeNewAlbum(),
	}})
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// collectionPickKeyboard lets the user choose where to put a track.
func collectionPickKeyboard(summaries []*model.CollectionSummary, token string) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         collectionLabel(s),
			CallbackData: flow.EncodeAlbumAdd(s.ID, token),
		}})
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func collectionLabel(s *model.CollectionSummary) string {
	return fmt.Sprintf("%s (%d)", s.Name, s.TrackCount)
}
