// Package notify delivers run outcomes to a Telegram chat. Delivery is best
// effort: a notifier with no token configured is a silent no-op, and callers
// are expected to log send errors rather than fail the run on them.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	stdlog "log"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

const (
	defaultAPIBase = "https://api.telegram.org"

	messageTimeout = 30 * time.Second
	photoTimeout   = 60 * time.Second

	// Telegram caps photo captions at 1024 characters.
	captionLimit = 1024
)

type Telegram struct {
	botToken string
	chatID   string
	apiBase  string
	client   *retryablehttp.Client
	logger   zerolog.Logger
}

func NewTelegram(botToken, chatID string, logger zerolog.Logger) *Telegram {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.Logger = stdlog.New(io.Discard, "", stdlog.LstdFlags)

	t := &Telegram{
		botToken: botToken,
		chatID:   chatID,
		apiBase:  defaultAPIBase,
		client:   client,
		logger:   logger,
	}
	if !t.Enabled() {
		logger.Warn().Msg("telegram notifications are not configured")
	}
	return t
}

func (t *Telegram) Enabled() bool {
	return t.botToken != "" && t.chatID != ""
}

// SendMessage posts a HTML-formatted text message to the configured chat.
func (t *Telegram) SendMessage(ctx context.Context, text string) error {
	if !t.Enabled() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, messageTimeout)
	defer cancel()

	form := url.Values{}
	form.Set("chat_id", t.chatID)
	form.Set("text", text)
	form.Set("parse_mode", "HTML")

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.botToken),
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return t.do(req, "sendMessage")
}

// SendPhoto uploads a screenshot with a caption. Captions beyond the
// Telegram limit are truncated rather than rejected.
func (t *Telegram) SendPhoto(ctx context.Context, path, caption string) error {
	if !t.Enabled() {
		return nil
	}

	photo, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read %s: %w", path, err)
	}

	if runes := []rune(caption); len(runes) > captionLimit {
		caption = string(runes[:captionLimit])
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField("chat_id", t.chatID); err != nil {
		return err
	}
	if err := w.WriteField("caption", caption); err != nil {
		return err
	}
	part, err := w.CreateFormFile("photo", filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := part.Write(photo); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, photoTimeout)
	defer cancel()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/bot%s/sendPhoto", t.apiBase, t.botToken),
		body.Bytes())
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	return t.do(req, "sendPhoto")
}

func (t *Telegram) do(req *retryablehttp.Request, method string) error {
	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram %s returned status %d", method, resp.StatusCode)
	}
	return nil
}
