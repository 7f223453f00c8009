package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

const oneSignalEndpoint = "https://onesignal.com/api/v1/notifications"

// OneSignalClient sends push notifications through the OneSignal REST API.
// Users are addressed by external user id, which the mobile client sets to
// the platform user id at login.
type OneSignalClient struct {
	appID      string
	restAPIKey string
	httpClient *http.Client
}

// NewOneSignalClient returns a client, or nil when credentials are not
// configured so callers can skip dispatch.
func NewOneSignalClient(appID, restAPIKey string) *OneSignalClient {
	if appID == "" || restAPIKey == "" {
		return nil
	}
	return &OneSignalClient{
		appID:      appID,
		restAPIKey: restAPIKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type oneSignalRequest struct {
	AppID            string            `json:"app_id"`
	IncludeExternal  []string          `json:"include_external_user_ids"`
	Headings         map[string]string `json:"headings"`
	Contents         map[string]string `json:"contents"`
	URL              string            `json:"url,omitempty"`
	Data             map[string]string `json:"data,omitempty"`
	ChannelForExtIDs string            `json:"channel_for_external_user_ids"`
}

type oneSignalResponse struct {
	ID         string   `json:"id"`
	Recipients int      `json:"recipients"`
	Errors     []string `json:"errors"`
}

// Send pushes one notification to one user and returns the recipient count
// OneSignal reports.
func (c *OneSignalClient) Send(ctx context.Context, userID uint, title, message, url string, data map[string]string) (int, error) {
	reqBody := oneSignalRequest{
		AppID:            c.appID,
		IncludeExternal:  []string{strconv.FormatUint(uint64(userID), 10)},
		Headings:         map[string]string{"en": title},
		Contents:         map[string]string{"en": message},
		URL:              url,
		Data:             data,
		ChannelForExtIDs: "push",
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal onesignal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, oneSignalEndpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build onesignal request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+c.restAPIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("onesignal request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("failed to read onesignal response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("onesignal returned status %d: %s", resp.StatusCode, respBody)
	}

	var parsed oneSignalResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return 0, fmt.Errorf("failed to decode onesignal response: %w", err)
	}
	if len(parsed.Errors) > 0 {
		return parsed.Recipients, fmt.Errorf("onesignal reported errors: %v", parsed.Errors)
	}
	return parsed.Recipients, nil
}
