package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"MuzBot/core/flow"
	"MuzBot/logger"
	"MuzBot/model"
	"MuzBot/repository"
	"MuzBot/server"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// handleCallback routes every inline-keyboard press. The payload is parsed
// once; anything malformed or stale is answered with a short alert instead
// of leaving the button spinner hanging.
func (g *Gateway) handleCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.CallbackQuery == nil {
		return
	}
	cq := update.CallbackQuery

	cb, err := flow.ParseCallback(cq.Data)
	if err != nil {
		server.CallbackErrorsTotal.Inc()
		logger.Warn("malformed callback", logger.String("data", cq.Data), logger.ErrorField(err))
		g.answerCallback(ctx, cq.ID, "This button is no longer valid.", true)
		return
	}

	message := cq.Message.Message
	if message == nil {
		g.answerCallback(ctx, cq.ID, "This message is too old.", true)
		return
	}

	switch cb.Kind {
	case flow.CallbackDownload:
		g.answerCallback(ctx, cq.ID, "Fetching the track…", false)
		g.deliverTrack(ctx, cq, message, cb.Token)
	case flow.CallbackPage:
		g.turnPage(ctx, cq, message, cb.QueryKey, cb.Page)
	case flow.CallbackAlbumMenu:
		g.answerCallback(ctx, cq.ID, "", false)
		g.showCollectionPicker(ctx, cq, message, cb.TrackID)
	case flow.CallbackAlbumAdd:
		g.addToCollection(ctx, cq, message, cb.CollectionID, cb.TrackID)
	case flow.CallbackAlbumDelete:
		g.deleteCollection(ctx, cq, message, cb.CollectionID)
	case flow.CallbackNewAlbum:
		g.answerCallback(ctx, cq.ID, "", false)
		g.pending.begin(cq.From.ID)
		g.sendText(ctx, message.Chat.ID,
			fmt.Sprintf("Send me a name for the new collection (up to %d characters), or /cancel.", collectionNameMax))
	}
}

// deliverTrack resolves the token, materializes the media and sends it as
// audio. A failed media download degrades to sending the raw stream URL.
func (g *Gateway) deliverTrack(ctx context.Context, cq *models.CallbackQuery, message *models.Message, token string) {
	track, err := g.flow.Resolve(ctx, token)
	if err != nil {
		g.reportResolveError(ctx, message.Chat.ID, err)
		return
	}

	if g.downloadSem != nil {
		select {
		case g.downloadSem <- struct{}{}:
			defer func() { <-g.downloadSem }()
		case <-ctx.Done():
			return
		}
	}

	bundle, err := g.flow.Materialize(ctx, track)
	if err != nil {
		if errors.Is(err, flow.ErrDownloadFailed) && track.MediaURL != "" {
			server.DownloadsTotal.WithLabelValues("fallback_link").Inc()
			g.sendText(ctx, message.Chat.ID,
				fmt.Sprintf("Couldn't fetch the file, here is a direct link instead:\n%s", track.MediaURL))
			return
		}
		server.DownloadsTotal.WithLabelValues("failed").Inc()
		logger.Error("materialize failed", logger.String("track", track.ID), logger.ErrorField(err))
		g.sendText(ctx, message.Chat.ID, "Couldn't fetch this track, try again later.")
		return
	}

	params := &bot.SendAudioParams{
		ChatID:      message.Chat.ID,
		Audio:       &models.InputFileUpload{Filename: audioFilename(track), Data: bytes.NewReader(bundle.Audio)},
		Title:       bundle.Title,
		Performer:   bundle.Performer,
		Duration:    bundle.Duration,
		ReplyMarkup: trackActionsKeyboard(token),
	}
	if len(bundle.Thumbnail) > 0 {
		params.Thumbnail = &models.InputFileUpload{Filename: "cover.jpg", Data: bytes.NewReader(bundle.Thumbnail)}
	}

	if _, err := g.bot.SendAudio(ctx, params); err != nil {
		server.DownloadsTotal.WithLabelValues("failed").Inc()
		logger.Error("sendAudio failed", logger.String("track", track.ID), logger.ErrorField(err))
		g.sendText(ctx, message.Chat.ID, "Couldn't deliver the audio, try again later.")
		return
	}

	server.DownloadsTotal.WithLabelValues("sent").Inc()
	if err := g.tracks.RecordDownload(ctx, cq.From.ID, track); err != nil {
		logger.Warn("failed to record download", logger.ErrorField(err))
	}
}

// turnPage replaces the result keyboard in place. An empty target page keeps
// the current keyboard and only shows a notice, so the user never strands on
// a blank message.
func (g *Gateway) turnPage(ctx context.Context, cq *models.CallbackQuery, message *models.Message, queryKey string, targetPage int) {
	page, err := g.flow.Paginate(ctx, queryKey, targetPage, 0)
	if err != nil {
		if errors.Is(err, flow.ErrUnknownToken) {
			g.answerCallback(ctx, cq.ID, "These results have expired, send the search again.", true)
			return
		}
		logger.Error("pagination failed", logger.String("queryKey", queryKey), logger.ErrorField(err))
		g.answerCallback(ctx, cq.ID, "The catalog is unavailable right now.", true)
		return
	}
	if page.Empty() {
		g.answerCallback(ctx, cq.ID, "No more results.", true)
		return
	}

	g.answerCallback(ctx, cq.ID, "", false)
	_, err = g.bot.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      message.Chat.ID,
		MessageID:   message.ID,
		Text:        fmt.Sprintf("Results for %q, page %d:", page.Query, page.Page+1),
		ReplyMarkup: resultsKeyboard(page),
	})
	if err != nil {
		logger.Warn("failed to edit results page", logger.ErrorField(err))
	}
}

// showCollectionPicker offers the user's collections as targets for a track.
func (g *Gateway) showCollectionPicker(ctx context.Context, cq *models.CallbackQuery, message *models.Message, token string) {
	summaries, err := g.collections.ListCollections(ctx, cq.From.ID)
	if err != nil {
		logger.Error("failed to list collections", logger.ErrorField(err))
		g.sendText(ctx, message.Chat.ID, "Couldn't load your collections, try again later.")
		return
	}
	if len(summaries) == 0 {
		g.sendText(ctx, message.Chat.ID, "You have no collections yet. Create one with /albums first.")
		return
	}

	_, err = g.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      message.Chat.ID,
		Text:        "Add the track to which collection?",
		ReplyMarkup: collectionPickKeyboard(summaries, token),
	})
	if err != nil {
		logger.Warn("failed to send collection picker", logger.ErrorField(err))
	}
}

// addToCollection stores the track in the chosen collection, de-duplicating
// repeat additions. The callback carries a result token, so the track is
// resolved first and membership is checked against its catalog id.
func (g *Gateway) addToCollection(ctx context.Context, cq *models.CallbackQuery, message *models.Message, collectionID int64, token string) {
	track, err := g.flow.Resolve(ctx, token)
	if err != nil {
		g.answerCallback(ctx, cq.ID, "", false)
		g.reportResolveError(ctx, message.Chat.ID, err)
		return
	}

	already, err := g.collections.Contains(ctx, collectionID, track.ID)
	if err != nil {
		logger.Error("membership check failed", logger.ErrorField(err))
		g.answerCallback(ctx, cq.ID, "Something went wrong, try again.", true)
		return
	}
	if already {
		g.answerCallback(ctx, cq.ID, "This track is already in that collection.", true)
		return
	}

	if err := g.collections.AddTrack(ctx, collectionID, track); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			g.answerCallback(ctx, cq.ID, "That collection no longer exists.", true)
			return
		}
		logger.Error("failed to add track to collection", logger.ErrorField(err))
		g.answerCallback(ctx, cq.ID, "Something went wrong, try again.", true)
		return
	}

	g.answerCallback(ctx, cq.ID, "Added!", false)
	g.sendText(ctx, message.Chat.ID, fmt.Sprintf("%s saved to the collection.", track.Label(buttonLabelMax)))
}

// deleteCollection removes a collection after checking it belongs to the
// pressing user, then re-renders the /albums message.
func (g *Gateway) deleteCollection(ctx context.Context, cq *models.CallbackQuery, message *models.Message, collectionID int64) {
	col, err := g.collections.GetCollectionByID(ctx, collectionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			g.answerCallback(ctx, cq.ID, "That collection no longer exists.", true)
			return
		}
		logger.Error("failed to load collection", logger.ErrorField(err))
		g.answerCallback(ctx, cq.ID, "Something went wrong, try again.", true)
		return
	}
	if col.OwnerID != cq.From.ID {
		g.answerCallback(ctx, cq.ID, "That collection no longer exists.", true)
		return
	}

	if err := g.collections.DeleteCollection(ctx, collectionID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		logger.Error("failed to delete collection", logger.ErrorField(err))
		g.answerCallback(ctx, cq.ID, "Something went wrong, try again.", true)
		return
	}

	g.answerCallback(ctx, cq.ID, fmt.Sprintf("%q deleted.", col.Name), false)

	summaries, err := g.collections.ListCollections(ctx, cq.From.ID)
	if err != nil {
		logger.Warn("failed to refresh collections", logger.ErrorField(err))
		return
	}
	text := "You have no collections yet."
	if len(summaries) > 0 {
		text = collectionsText(summaries)
	}
	_, err = g.bot.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      message.Chat.ID,
		MessageID:   message.ID,
		Text:        text,
		ReplyMarkup: collectionsKeyboard(summaries),
	})
	if err != nil {
		logger.Warn("failed to refresh albums message", logger.ErrorField(err))
	}
}

func (g *Gateway) reportResolveError(ctx context.Context, chatID int64, err error) {
	if errors.Is(err, flow.ErrUnknownToken) {
		g.sendText(ctx, chatID, "These results have expired, send the search again.")
		return
	}
	logger.Error("resolve failed", logger.ErrorField(err))
	g.sendText(ctx, chatID, "The music catalog is unavailable right now, try again in a minute.")
}

func (g *Gateway) answerCallback(ctx context.Context, callbackID, text string, alert bool) {
	_, err := g.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       alert,
	})
	if err != nil {
		logger.Warn("failed to answer callback", logger.ErrorField(err))
	}
}

func audioFilename(track *model.CatalogTrack) string {
	return fmt.Sprintf("%s.mp3", track.ID)
}
