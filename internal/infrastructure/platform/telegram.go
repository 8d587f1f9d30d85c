package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	vo "zavod/internal/domain/publication/value_objects"
	"zavod/internal/shared/services/render"
	"zavod/internal/shared/utils"
)

const defaultTelegramAPIBase = "https://api.telegram.org"

type telegramMeta struct {
	ChatID                string `json:"chat_id" validate:"required"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

// TelegramAdapter delivers posts through the Bot API sendMessage method.
// Bodies are rendered to the HTML subset Telegram accepts.
type TelegramAdapter struct {
	httpClient *http.Client
	apiBase    string
	render     render.Service
}

func NewTelegramAdapter(apiBase string, timeout time.Duration, renderService render.Service) *TelegramAdapter {
	if apiBase == "" {
		apiBase = defaultTelegramAPIBase
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TelegramAdapter{
		httpClient: &http.Client{Timeout: timeout},
		apiBase:    apiBase,
		render:     renderService,
	}
}

func (a *TelegramAdapter) Platform() vo.Platform {
	return vo.PlatformTelegram
}

type telegramAPIResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

type telegramSentMessage struct {
	MessageID int64 `json:"message_id"`
	Chat      struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
	} `json:"chat"`
}

func (a *TelegramAdapter) Publish(ctx context.Context, req Request) (*PostRef, error) {
	meta := telegramMeta{
		ChatID:                metaString(req.Metadata, "chat_id"),
		DisableWebPagePreview: metaBool(req.Metadata, "disable_web_page_preview"),
	}
	if err := utils.ValidateStruct(meta); err != nil {
		return nil, err
	}

	text, err := a.render.TelegramHTML(req.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to render telegram body: %w", err)
	}

	body := map[string]any{
		"chat_id":    meta.ChatID,
		"text":       text,
		"parse_mode": "HTML",
	}
	if meta.DisableWebPagePreview {
		body["disable_web_page_preview"] = true
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", a.apiBase, req.Credentials)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, NewPlatformError(vo.PlatformTelegram.String(), 0, err.Error())
	}
	defer resp.Body.Close()

	var result telegramAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, NewPlatformError(vo.PlatformTelegram.String(), resp.StatusCode, "failed to decode response: "+err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !result.OK {
		return nil, NewPlatformError(vo.PlatformTelegram.String(), resp.StatusCode, result.Description)
	}

	var message telegramSentMessage
	if err := json.Unmarshal(result.Result, &message); err != nil {
		return nil, NewPlatformError(vo.PlatformTelegram.String(), resp.StatusCode, "failed to decode message: "+err.Error())
	}

	ref := &PostRef{PostID: strconv.FormatInt(message.MessageID, 10)}
	if message.Chat.Username != "" {
		ref.PostURL = fmt.Sprintf("https://t.me/%s/%d", message.Chat.Username, message.MessageID)
	}
	return ref, nil
}

// metaString reads a string-ish metadata value; JSON numbers are formatted
// so numeric chat ids survive the map round trip.
func metaString(metadata map[string]interface{}, key string) string {
	v, ok := metadata[key]
	if !ok {
		return ""
	}
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	default:
		return ""
	}
}

func metaBool(metadata map[string]interface{}, key string) bool {
	v, ok := metadata[key]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}
