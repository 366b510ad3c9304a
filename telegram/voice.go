package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"MuzBot/logger"
	"MuzBot/server"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// maxSampleSize caps the recognition sample; the service only needs a few
// seconds of audio and rejects large uploads anyway.
const maxSampleSize = 10 << 20

// handleVoice downloads a voice or audio sample, identifies it and reuses
// the regular search flow with the recognized title.
func (g *Gateway) handleVoice(ctx context.Context, message *models.Message) {
	fileID := ""
	switch {
	case message.Voice != nil:
		fileID = message.Voice.FileID
	case message.Audio != nil:
		fileID = message.Audio.FileID
	default:
		return
	}

	sample, err := g.downloadTelegramFile(ctx, fileID)
	if err != nil {
		logger.Error("failed to fetch voice sample", logger.ErrorField(err))
		server.RecognitionsTotal.WithLabelValues("failed").Inc()
		g.sendText(ctx, message.Chat.ID, "Couldn't read that audio, please try again.")
		return
	}

	result, err := g.recognizer.Recognize(ctx, sample)
	if err != nil {
		logger.Error("recognition failed", logger.ErrorField(err))
		server.RecognitionsTotal.WithLabelValues("failed").Inc()
		g.sendText(ctx, message.Chat.ID, "The recognition service is unavailable right now.")
		return
	}
	if !result.Identified() {
		server.RecognitionsTotal.WithLabelValues("no_match").Inc()
		g.sendText(ctx, message.Chat.ID, "Couldn't recognize this track.")
		return
	}

	server.RecognitionsTotal.WithLabelValues("matched").Inc()
	query := result.Query()
	g.sendText(ctx, message.Chat.ID, fmt.Sprintf("Sounds like %s. Searching…", query))
	g.runSearch(ctx, message, query)
}

// downloadTelegramFile resolves a file id into its bytes via the file API.
func (g *Gateway) downloadTelegramFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := g.bot.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("getFile: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.bot.FileDownloadLink(file), nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.fileClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("file download status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSampleSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxSampleSize {
		return nil, errors.New("sample too large")
	}
	return data, nil
}
