package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"MuzBot/logger"
	"MuzBot/model"
	"MuzBot/repository"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const collectionNameMax = 50

func (g *Gateway) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil {
		return
	}
	g.rememberUser(ctx, update.Message.From)
	g.sendText(ctx, update.Message.Chat.ID,
		"Hi! Send me a song title or artist and I'll find it.\n"+
			"You can also send a voice note with music playing and I'll try to recognize it.\n\n"+
			"/albums shows your collections.")
}

func (g *Gateway) handleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil {
		return
	}
	g.sendText(ctx, update.Message.Chat.ID,
		"Type any text to search the catalog.\n"+
			"Tap a result to receive the track as audio.\n"+
			"Send a voice or audio message to identify a song.\n\n"+
			"/albums - your collections\n"+
			"/cancel - abort the current action")
}

func (g *Gateway) handleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil {
		return
	}
	if g.pending.cancel(update.Message.From.ID) {
		g.sendText(ctx, update.Message.Chat.ID, "Cancelled.")
		return
	}
	g.sendText(ctx, update.Message.Chat.ID, "Nothing to cancel.")
}

// handleAlbums lists the user's collections with track counts.
func (g *Gateway) handleAlbums(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil {
		return
	}
	message := update.Message

	summaries, err := g.collections.ListCollections(ctx, message.From.ID)
	if err != nil {
		logger.Error("failed to list collections", logger.ErrorField(err))
		g.sendText(ctx, message.Chat.ID, "Couldn't load your collections, try again later.")
		return
	}

	text := "You have no collections yet."
	if len(summaries) > 0 {
		text = collectionsText(summaries)
	}

	_, err = g.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      message.Chat.ID,
		Text:        text,
		ReplyMarkup: collectionsKeyboard(summaries),
	})
	if err != nil {
		logger.Warn("failed to send collections", logger.ErrorField(err))
	}
}

// collectionsText renders the /albums listing body.
func collectionsText(summaries []*model.CollectionSummary) string {
	var sb strings.Builder
	sb.WriteString("Your collections:\n")
	for _, s := range summaries {
		fmt.Fprintf(&sb, "• %s\n", collectionLabel(s))
	}
	return sb.String()
}

// finishCreateCollection consumes the name typed after a create prompt.
func (g *Gateway) finishCreateCollection(ctx context.Context, message *models.Message, name string) {
	if utf8.RuneCountInString(name) > collectionNameMax {
		g.pending.begin(message.From.ID)
		g.sendText(ctx, message.Chat.ID,
			fmt.Sprintf("That name is too long, %d characters max. Try another one or /cancel.", collectionNameMax))
		return
	}

	_, err := g.collections.CreateCollection(ctx, message.From.ID, name)
	if errors.Is(err, repository.ErrDuplicateName) {
		g.pending.begin(message.From.ID)
		g.sendText(ctx, message.Chat.ID,
			fmt.Sprintf("You already have a collection named %q. Try another one or /cancel.", name))
		return
	}
	if err != nil {
		logger.Error("failed to create collection", logger.ErrorField(err))
		g.sendText(ctx, message.Chat.ID, "Couldn't create the collection, try again later.")
		return
	}

	g.sendText(ctx, message.Chat.ID, fmt.Sprintf("Collection %q created. Open it with /albums.", name))
}
