// Package azure implements extract.Extractor against an Azure OpenAI
// chat-completions deployment with vision support.
package azure

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"invoicebot/internal/extract"
)

type Config struct {
	Endpoint   string
	APIKey     string
	APIVersion string
	Deployment string
	Timeout    time.Duration
}

type Client struct {
	api        *openai.Client
	deployment string
	timeout    time.Duration
	log        *slog.Logger
}

// NewClient builds a client for an Azure OpenAI deployment.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	ccfg := openai.DefaultAzureConfig(cfg.APIKey, cfg.Endpoint)
	if cfg.APIVersion != "" {
		ccfg.APIVersion = cfg.APIVersion
	}
	return NewClientWithConfig(ccfg, cfg.Deployment, cfg.Timeout, logger)
}

// NewClientWithConfig accepts a prepared client config; tests use it to
// point at a fake endpoint.
func NewClientWithConfig(ccfg openai.ClientConfig, deployment string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		api:        openai.NewClientWithConfig(ccfg),
		deployment: deployment,
		timeout:    timeout,
		log:        logger,
	}
}

// Extract sends one multi-image chat request to the deployment and decodes
// the response per the request mode. Failures are returned as-is and never
// retried; structured-mode output that fails local validation comes back
// as *extract.SchemaViolationError.
func (c *Client) Extract(ctx context.Context, req extract.Request) (extract.Result, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("oracle.extract.start",
		"req_id", rid,
		"deployment", c.deployment,
		"mode", string(req.Mode),
		"images", len(req.Images),
		"hint_len", len(req.HintText),
	)

	var parts []openai.ChatMessagePart
	if txt := req.UserText(); txt != "" {
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeText,
			Text: txt,
		})
	}
	for _, img := range req.Images {
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    img.DataURL,
				Detail: openai.ImageURLDetailAuto,
			},
		})
	}

	ccr := openai.ChatCompletionRequest{
		Model: c.deployment,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extract.SystemPrompt(req.Mode)},
			{Role: openai.ChatMessageRoleUser, MultiContent: parts},
		},
	}

	if req.Mode == extract.ModeStructured {
		schemaBytes, err := json.Marshal(extract.InvoiceSchema())
		if err != nil {
			return extract.Result{}, fmt.Errorf("marshal invoice schema: %w", err)
		}
		ccr.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "invoice_extraction",
				Schema: json.RawMessage(schemaBytes),
				Strict: true,
			},
		}
	} else {
		ccr.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	cctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(cctx, ccr)
	if err != nil {
		c.log.Error("oracle.extract.request_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return extract.Result{}, fmt.Errorf("oracle request: %w", err)
	}
	if len(resp.Choices) == 0 {
		c.log.Error("oracle.extract.no_choices",
			"req_id", rid,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return extract.Result{}, fmt.Errorf("oracle response has no choices")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)

	if req.Mode == extract.ModeStructured {
		raw := []byte(content)
		if err := extract.ValidateAgainstSchema(extract.InvoiceSchema(), raw); err != nil {
			c.log.Error("oracle.extract.schema_violation",
				"req_id", rid, "error", err, "content_len", len(content),
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return extract.Result{}, &extract.SchemaViolationError{Cause: err}
		}
		var rec extract.InvoiceRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return extract.Result{}, &extract.SchemaViolationError{Cause: err}
		}
		out := extract.EnsureJSON(content)
		c.log.Info("oracle.extract.ok",
			"req_id", rid,
			"is_invoice", rec.IsInvoice,
			"document_type", rec.DocumentType,
			"bytes", len(out.Text()),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return extract.Result{Output: out, Record: &rec}, nil
	}

	out := extract.EnsureJSON(content)
	c.log.Info("oracle.extract.ok",
		"req_id", rid,
		"parsed_json", out.IsJSON(),
		"bytes", len(out.Text()),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return extract.Result{Output: out}, nil
}
