package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	vo "zavod/internal/domain/publication/value_objects"
	"zavod/internal/shared/services/render"
	"zavod/internal/shared/utils"
)

const (
	defaultVKAPIBase = "https://api.vk.com"
	vkAPIVersion     = "5.199"
)

type vkMeta struct {
	OwnerID   string `json:"owner_id" validate:"required"`
	FromGroup bool   `json:"from_group"`
}

// VKAdapter posts to a community or profile wall. VK has no HTML mode, so
// bodies are rendered to plain text.
type VKAdapter struct {
	httpClient *http.Client
	apiBase    string
	render     render.Service
}

func NewVKAdapter(apiBase string, timeout time.Duration, renderService render.Service) *VKAdapter {
	if apiBase == "" {
		apiBase = defaultVKAPIBase
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &VKAdapter{
		httpClient: &http.Client{Timeout: timeout},
		apiBase:    apiBase,
		render:     renderService,
	}
}

func (a *VKAdapter) Platform() vo.Platform {
	return vo.PlatformVK
}

type vkAPIResponse struct {
	Response *struct {
		PostID int64 `json:"post_id"`
	} `json:"response"`
	Error *struct {
		ErrorCode int    `json:"error_code"`
		ErrorMsg  string `json:"error_msg"`
	} `json:"error"`
}

func (a *VKAdapter) Publish(ctx context.Context, req Request) (*PostRef, error) {
	meta := vkMeta{
		OwnerID:   metaString(req.Metadata, "owner_id"),
		FromGroup: metaBool(req.Metadata, "from_group"),
	}
	if err := utils.ValidateStruct(meta); err != nil {
		return nil, err
	}

	message, err := a.render.PlainText(req.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to render vk body: %w", err)
	}

	form := url.Values{}
	form.Set("access_token", req.Credentials)
	form.Set("v", vkAPIVersion)
	form.Set("owner_id", meta.OwnerID)
	form.Set("message", message)
	if meta.FromGroup {
		form.Set("from_group", "1")
	}

	endpoint := fmt.Sprintf("%s/method/wall.post", a.apiBase)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, NewPlatformError(vo.PlatformVK.String(), 0, err.Error())
	}
	defer resp.Body.Close()

	var result vkAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, NewPlatformError(vo.PlatformVK.String(), resp.StatusCode, "failed to decode response: "+err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, NewPlatformError(vo.PlatformVK.String(), resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	if result.Error != nil {
		detail := fmt.Sprintf("code %d: %s", result.Error.ErrorCode, result.Error.ErrorMsg)
		return nil, NewPlatformError(vo.PlatformVK.String(), resp.StatusCode, detail)
	}
	if result.Response == nil {
		return nil, NewPlatformError(vo.PlatformVK.String(), resp.StatusCode, "empty response")
	}

	postID := strconv.FormatInt(result.Response.PostID, 10)
	return &PostRef{
		PostID:  postID,
		PostURL: fmt.Sprintf("https://vk.com/wall%s_%s", meta.OwnerID, postID),
	}, nil
}
