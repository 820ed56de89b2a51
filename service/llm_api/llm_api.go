package llmApi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"google.golang.org/genai"
)

const (
	DefaultDocumentPrompt = "Ringkas dokumen berikut:"
	DefaultAudioPrompt    = "Transkrip audio berikut:"
)

const suggestPromptSeed = `Based on the conversation so far and the last user message, generate a list of short possible user prompts/questions the user might want to ask next.
- Keep each prompt under 10 words.
- Respond with a raw JSON array of strings, for example: ["Question 1", "Question 2"].
- The first character of your response must be '[' and the last must be ']'.
- Output must be valid JSON without backticks, code fences, markdown, or commentary.
- If no prompts apply, respond with [].`

// Attachment describes one multimodal route: the multipart field holding the
// file and the prompt used when the caller sends none.
type Attachment struct {
	Field         string
	DefaultPrompt string
}

var (
	ImageAttachment    = Attachment{Field: "image"}
	DocumentAttachment = Attachment{Field: "document", DefaultPrompt: DefaultDocumentPrompt}
	AudioAttachment    = Attachment{Field: "audio", DefaultPrompt: DefaultAudioPrompt}
)

// HandlerFunc returns the value for the "result" key or an error for WriteError.
type HandlerFunc func(c *gin.Context) (any, error)

type Handler struct {
	provider       Provider
	timeout        time.Duration
	maxUploadBytes int64
}

func NewHandler(provider Provider, timeout time.Duration, maxUploadBytes int64) *Handler {
	return &Handler{
		provider:       provider,
		timeout:        timeout,
		maxUploadBytes: maxUploadBytes,
	}
}

// Handle adapts fn to gin and writes either {result} or the error envelope.
func Handle(fn HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := fn(c)
		if err != nil {
			WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, ResultResponse{Result: result})
	}
}

// Tie to request and bound time
func (h *Handler) callContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

// ---------------------------
// Text
// ---------------------------

func (h *Handler) GenerateText(c *gin.Context) (any, error) {
	var req GenerateTextRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		return nil, NewValidationError("invalid JSON body: %v", err)
	}

	ctx, cancel := h.callContext(c)
	defer cancel()

	resp, err := h.provider.Generate(ctx, genai.Text(req.Prompt))
	if err != nil {
		return nil, err
	}
	return ExtractText(resp), nil
}

// ---------------------------
// Image / document / audio
// ---------------------------

func (h *Handler) GenerateFromAttachment(a Attachment) HandlerFunc {
	return func(c *gin.Context) (any, error) {
		if h.maxUploadBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
		}

		data, mimeType, err := readAttachment(c, a.Field)
		if err != nil {
			return nil, err
		}

		prompt, ok := c.GetPostForm("prompt")
		if !ok {
			prompt = a.DefaultPrompt
		}

		log.WithFields(log.Fields{
			"field":     a.Field,
			"mime_type": mimeType,
			"bytes":     len(data),
		}).Debug("forwarding attachment")

		ctx, cancel := h.callContext(c)
		defer cancel()

		resp, err := h.provider.Generate(ctx, buildAttachmentContents(prompt, mimeType, data))
		if err != nil {
			return nil, err
		}
		return ExtractText(resp), nil
	}
}

func readAttachment(c *gin.Context, field string) ([]byte, string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		// Anything short of a readable multipart form with this field means no attachment.
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", NewValidationError("file too large (limit %d bytes)", tooLarge.Limit)
		}
		return nil, "", NewValidationError("no file attached (expected multipart field %q)", field)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, "", fmt.Errorf("open attachment: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", fmt.Errorf("read attachment: %w", err)
	}
	if len(data) == 0 {
		return nil, "", NewValidationError("no file attached (field %q is empty)", field)
	}

	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return data, mimeType, nil
}

// buildAttachmentContents builds one user turn of [prompt, inline bytes]. The
// SDK base64-encodes Blob.Data on the wire. An empty prompt adds no text part:
// the API rejects a part with no data set ("required oneof field 'data'").
func buildAttachmentContents(prompt, mimeType string, data []byte) []*genai.Content {
	var parts []*genai.Part
	if prompt != "" {
		parts = append(parts, &genai.Part{Text: prompt})
	}
	parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}})

	return []*genai.Content{{Role: genai.RoleUser, Parts: parts}}
}

// ---------------------------
// Chat
// ---------------------------

func (h *Handler) Chat(c *gin.Context) (any, error) {
	req, err := decodeChatRequest(c)
	if err != nil {
		return nil, err
	}
	history, last, err := BuildChatHistory(req.Messages)
	if err != nil {
		return nil, err
	}

	ctx, cancel := h.callContext(c)
	defer cancel()

	resp, err := h.provider.Chat(ctx, history, last)
	if err != nil {
		return nil, err
	}
	return ExtractText(resp), nil
}

func (h *Handler) SuggestPrompts(c *gin.Context) (any, error) {
	req, err := decodeChatRequest(c)
	if err != nil {
		return nil, err
	}
	history, last, err := BuildChatHistory(req.Messages)
	if err != nil {
		return nil, err
	}

	contents := append(history,
		&genai.Content{Role: genai.RoleUser, Parts: []*genai.Part{{Text: suggestPromptSeed}}},
		&genai.Content{Role: genai.RoleUser, Parts: []*genai.Part{{Text: last}}},
	)

	ctx, cancel := h.callContext(c)
	defer cancel()

	resp, err := h.provider.Generate(ctx, contents)
	if err != nil {
		return nil, err
	}
	return parsePrompts(ExtractText(resp)), nil
}

func decodeChatRequest(c *gin.Context) (ChatRequest, error) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Messages) == 0 {
		return req, NewValidationError("messages[] is required")
	}
	return req, nil
}

// BuildChatHistory validates messages and splits them into the provider
// history (every message but the last) and the text of the final user turn.
func BuildChatHistory(messages []ChatMessage) ([]*genai.Content, string, error) {
	if len(messages) == 0 {
		return nil, "", NewValidationError("messages[] is required")
	}
	last := messages[len(messages)-1]
	if last.RoleOrDefault() != RoleUser {
		return nil, "", NewValidationError("Last message must have role 'user'.")
	}

	history := make([]*genai.Content, 0, len(messages)-1)
	for i, m := range messages[:len(messages)-1] {
		role, ok := toGenAIRole(m.RoleOrDefault())
		if !ok {
			return nil, "", NewValidationError("messages[%d] has unsupported role %q (want 'user' or 'assistant')", i, m.RoleOrDefault())
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Text()}},
		})
	}
	return history, last.Text(), nil
}

func toGenAIRole(s string) (string, bool) {
	switch s {
	case RoleAssistant:
		return genai.RoleModel, true
	case RoleUser:
		return genai.RoleUser, true
	default:
		return "", false
	}
}

func parsePrompts(raw string) []string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var prompts []string
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &prompts); err != nil {
			log.WithError(err).Warn("suggestions: unable to parse response as JSON array")
		}
	}
	if prompts == nil {
		prompts = []string{}
	}
	return prompts
}
