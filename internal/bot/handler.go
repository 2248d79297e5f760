// Package bot wires the Telegram surface to the extraction pipeline.
package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"invoicebot/internal/extract"
	"invoicebot/internal/imaging"
	"invoicebot/internal/pdf"
)

// User-facing strings. The bot serves a Spanish-speaking audience.
const (
	msgStart = "Hola! Envía una foto de una factura (o un documento de imagen o PDF).\n" +
		"Opcionalmente añade texto con pistas. Te devolveré un JSON con los datos extraídos."
	msgHelp = "Instrucciones:\n" +
		"- Envía una foto nítida de la factura, o un PDF.\n" +
		"- Puedes añadir un mensaje con pistas (p. ej., moneda por defecto).\n" +
		"- Recibirás un JSON con propiedades en inglés."
	msgHintStored      = "Gracias. Ahora envía la imagen de la factura para extraer los datos."
	msgUnsupportedDoc  = "El documento no es una imagen ni un PDF compatible."
	msgNoAttachment    = "No se pudo obtener la imagen."
	msgDownloadFailed  = "Error descargando el archivo."
	msgNoPagesRendered = "El PDF no contiene páginas renderizables."
	msgSchemaViolation = "Error: la respuesta del modelo no cumplió el esquema de factura."
)

type Config struct {
	Mode            extract.Mode
	DefaultCurrency string
	PDF             pdf.Options
	Workers         int
}

type Bot struct {
	api          *tgbotapi.BotAPI
	extractor    extract.Extractor
	sessions     *Sessions
	queue        *Queue
	cfg          Config
	log          *slog.Logger
	http         *http.Client
	fileEndpoint string
}

type Option func(*Bot)

// WithFileEndpoint overrides the attachment download host, in the same
// printf form as tgbotapi.FileEndpoint (token, file path). Used with
// self-hosted Bot API servers and in tests.
func WithFileEndpoint(endpoint string) Option {
	return func(b *Bot) {
		if endpoint != "" {
			b.fileEndpoint = endpoint
		}
	}
}

func New(api *tgbotapi.BotAPI, extractor extract.Extractor, cfg Config, logger *slog.Logger, opts ...Option) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Bot{
		api:          api,
		extractor:    extractor,
		sessions:     NewSessions(),
		queue:        NewQueue(logger, WithWorkers(cfg.Workers)),
		cfg:          cfg,
		log:          logger,
		http:         &http.Client{Timeout: 30 * time.Second},
		fileEndpoint: tgbotapi.FileEndpoint,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Run consumes the long-polling update stream until ctx is cancelled.
// Attachments are handed to the worker queue; everything else is answered
// inline.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			b.dispatch(upd)
		}
	}
}

// Shutdown drains the worker queue.
func (b *Bot) Shutdown(ctx context.Context) {
	b.queue.Shutdown(ctx)
}

func (b *Bot) dispatch(upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil {
		return
	}
	chatID := msg.Chat.ID

	switch {
	case msg.IsCommand():
		switch msg.Command() {
		case "start":
			b.reply(chatID, msgStart)
		case "help":
			b.reply(chatID, msgHelp)
		}
	case len(msg.Photo) > 0 || msg.Document != nil:
		b.queue.Submit(func(ctx context.Context) {
			b.handleAttachment(ctx, msg)
		})
	case msg.Text != "":
		b.sessions.SetHint(chatID, msg.Text)
		b.reply(chatID, msgHintStored)
	}
}

// handleAttachment runs the full pipeline for one photo or document:
// download, normalize (rasterizing PDFs), extract, reply. Every failure
// turns into a user-visible reply; nothing here crashes the process.
func (b *Bot) handleAttachment(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	hint := b.sessions.Hint(chatID)

	images, notice, ok := b.collectImages(ctx, msg)
	if !ok {
		return
	}

	req, err := extract.NewRequest(images, hint, b.cfg.DefaultCurrency, b.cfg.Mode)
	if err != nil {
		b.log.Error("request build failed", "chat_id", chatID, "error", err)
		b.reply(chatID, msgNoAttachment)
		return
	}

	b.sendTyping(chatID)

	res, err := b.extractor.Extract(ctx, req)
	if err != nil {
		b.replyExtractionError(chatID, err)
		return
	}

	b.reply(chatID, FormatReply(res.Output.Text(), replyLimit, replyCut))
	if notice != "" {
		b.reply(chatID, notice)
	}
}

// collectImages turns the message's attachment into encoded images. On any
// failure it informs the user and reports ok=false.
func (b *Bot) collectImages(ctx context.Context, msg *tgbotapi.Message) (images []imaging.Image, notice string, ok bool) {
	chatID := msg.Chat.ID

	switch {
	case len(msg.Photo) > 0:
		// Telegram sends several sizes; take the highest resolution.
		photo := msg.Photo[len(msg.Photo)-1]
		raw, err := b.download(ctx, photo.FileID)
		if err != nil {
			b.log.Error("photo download failed", "chat_id", chatID, "error", err)
			b.reply(chatID, msgDownloadFailed)
			return nil, "", false
		}
		return []imaging.Image{imaging.Encode(raw, "image/jpeg")}, "", true

	case msg.Document != nil:
		doc := msg.Document
		switch {
		case strings.HasPrefix(doc.MimeType, "image/"):
			raw, err := b.download(ctx, doc.FileID)
			if err != nil {
				b.log.Error("document download failed", "chat_id", chatID, "error", err)
				b.reply(chatID, msgDownloadFailed)
				return nil, "", false
			}
			return []imaging.Image{imaging.Encode(raw, doc.MimeType)}, "", true

		case doc.MimeType == "application/pdf":
			raw, err := b.download(ctx, doc.FileID)
			if err != nil {
				b.log.Error("pdf download failed", "chat_id", chatID, "error", err)
				b.reply(chatID, msgDownloadFailed)
				return nil, "", false
			}
			res, err := pdf.Rasterize(ctx, raw, b.cfg.PDF)
			if err != nil {
				b.log.Error("pdf rasterization failed", "chat_id", chatID, "error", err)
				b.reply(chatID, "No se pudo procesar el PDF: "+err.Error())
				return nil, "", false
			}
			if len(res.Images) == 0 {
				b.reply(chatID, msgNoPagesRendered)
				return nil, "", false
			}
			if res.Truncated > 0 {
				notice = fmt.Sprintf("Nota: se procesaron solo las primeras %d de %d páginas.",
					len(res.Images), res.PageCount)
			}
			return res.Images, notice, true

		default:
			b.reply(chatID, msgUnsupportedDoc)
			return nil, "", false
		}
	}

	b.reply(chatID, msgNoAttachment)
	return nil, "", false
}

// replyExtractionError surfaces an oracle failure: freeform mode answers
// with an error payload, structured mode with error text.
func (b *Bot) replyExtractionError(chatID int64, err error) {
	b.log.Error("extraction failed", "chat_id", chatID, "error", err)

	var sv *extract.SchemaViolationError
	if errors.As(err, &sv) {
		b.reply(chatID, msgSchemaViolation)
		return
	}
	if b.cfg.Mode == extract.ModeFreeform {
		payload, _ := json.Marshal(map[string]string{
			"error":   "oracle_request_failed",
			"message": err.Error(),
		})
		b.reply(chatID, FormatReply(string(payload), replyLimit, replyCut))
		return
	}
	b.reply(chatID, FormatReply("Error procesando la factura: "+err.Error(), replyLimit, replyCut))
}

func (b *Bot) download(ctx context.Context, fileID string) ([]byte, error) {
	f, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("resolve file: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(b.fileEndpoint, b.api.Token, f.FilePath), nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}
	resp, err := b.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file body: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("downloaded file is empty")
	}
	return raw, nil
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.log.Error("send reply failed", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) sendTyping(chatID int64) {
	if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		b.log.Warn("send chat action failed", "chat_id", chatID, "error", err)
	}
}
