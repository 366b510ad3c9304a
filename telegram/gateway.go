package telegram

import (
	"context"
	"net/http"
	"strings"

	"MuzBot/config"
	"MuzBot/core/flow"
	"MuzBot/core/recognize"
	"MuzBot/logger"
	"MuzBot/repository"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Gateway is the thin transport between Telegram updates and the session
// flow. Each update is handled on its own goroutine by the bot library;
// all shared state lives behind the flow, the repositories and pending.
type Gateway struct {
	bot         *bot.Bot
	cfg         *config.Config
	flow        *flow.Session
	recognizer  *recognize.Client
	users       repository.UserRepository
	collections repository.CollectionRepository
	tracks      repository.TrackRepository
	pending     *pendingNames
	downloadSem chan struct{} // bounds concurrent materializations
	fileClient  *http.Client  // voice file downloads
}

// New builds the gateway and registers all handlers.
func New(cfg *config.Config, session *flow.Session, recognizer *recognize.Client,
	users repository.UserRepository, collections repository.CollectionRepository,
	tracks repository.TrackRepository) (*Gateway, error) {

	g := &Gateway{
		cfg:         cfg,
		flow:        session,
		recognizer:  recognizer,
		users:       users,
		collections: collections,
		tracks:      tracks,
		pending:     newPendingNames(),
		fileClient:  &http.Client{Timeout: cfg.DownloadTimeout},
	}
	if cfg.DownloadConc > 0 {
		g.downloadSem = make(chan struct{}, cfg.DownloadConc)
	}

	b, err := bot.New(cfg.BotToken, bot.WithDefaultHandler(g.handleUpdate))
	if err != nil {
		return nil, err
	}
	g.bot = b

	b.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, g.handleStart)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypePrefix, g.handleHelp)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/albums", bot.MatchTypePrefix, g.handleAlbums)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypePrefix, g.handleCancel)

	for _, prefix := range []string{"download:", "search_page:", "add_album:", "album_add:", "album_del:", "create_album"} {
		b.RegisterHandler(bot.HandlerTypeCallbackQueryData, prefix, bot.MatchTypePrefix, g.handleCallback)
	}

	return g, nil
}

// Start announces the bot commands and polls for updates until ctx is done.
func (g *Gateway) Start(ctx context.Context) {
	me, err := g.bot.GetMe(ctx)
	if err != nil {
		logger.Error("getMe failed", logger.ErrorField(err))
	} else {
		logger.Info("bot started", logger.String("username", me.Username))
	}

	_, _ = g.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: []models.BotCommand{
			{Command: "start", Description: "Start the bot"},
			{Command: "albums", Description: "My collections"},
			{Command: "help", Description: "How to use the bot"},
			{Command: "cancel", Description: "Cancel the current action"},
		},
	})

	g.bot.Start(ctx)
}

// handleUpdate receives everything the explicit handlers didn't match:
// plain text (search queries or a pending collection name) and voice notes.
func (g *Gateway) handleUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil {
		return
	}
	message := update.Message

	if message.Voice != nil || message.Audio != nil {
		g.handleVoice(ctx, message)
		return
	}

	text := strings.TrimSpace(message.Text)
	if text == "" || strings.HasPrefix(text, "/") {
		return
	}

	if message.From != nil && g.pending.consume(message.From.ID) {
		g.finishCreateCollection(ctx, message, text)
		return
	}

	g.runSearch(ctx, message, text)
}

// sendText replies with plain text, logging failures.
func (g *Gateway) sendText(ctx context.Context, chatID int64, text string) {
	_, err := g.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		logger.Warn("failed to send message", logger.Int64("chat", chatID), logger.ErrorField(err))
	}
}
