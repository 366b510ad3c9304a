package telegram

import (
	"context"
	"fmt"

	"MuzBot/logger"
	"MuzBot/server"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// runSearch executes the first page of a query and renders the keyboard.
func (g *Gateway) runSearch(ctx context.Context, message *models.Message, query string) {
	server.SearchesTotal.Inc()
	if message.From != nil {
		g.rememberUser(ctx, message.From)
	}

	page, err := g.flow.Search(ctx, query, 0)
	if err != nil {
		logger.Error("search failed", logger.String("query", query), logger.ErrorField(err))
		g.sendText(ctx, message.Chat.ID, "The music catalog is unavailable right now, try again in a minute.")
		return
	}
	if page.Empty() {
		g.sendText(ctx, message.Chat.ID, fmt.Sprintf("Nothing found for %q.", query))
		return
	}

	_, err = g.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      message.Chat.ID,
		Text:        fmt.Sprintf("Results for %q:", query),
		ReplyMarkup: resultsKeyboard(page),
	})
	if err != nil {
		logger.Warn("failed to send results", logger.ErrorField(err))
	}
}

// rememberUser upserts the sender so stats and collections have an owner row.
func (g *Gateway) rememberUser(ctx context.Context, from *models.User) {
	if err := g.users.UpsertUser(ctx, from.ID, from.Username, from.FirstName); err != nil {
		logger.Warn("failed to upsert user", logger.Int64("telegramId", from.ID), logger.ErrorField(err))
	}
}
