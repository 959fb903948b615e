package api

import (
	"context"
	"net/http"
	"net/url"
)

type WebhooksAPI struct {
	gw *Gateway
}

func NewWebhooksAPI(gw *Gateway) *WebhooksAPI {
	return &WebhooksAPI{gw: gw}
}

type webhookResponse struct {
	Message    string `json:"message"`
	WebhookURL string `json:"webhook_url"`
}

// SetupTelegram registers the campaign's member webhook with Telegram and
// returns the configured URL.
func (w *WebhooksAPI) SetupTelegram(ctx context.Context, campaignID string) (string, error) {
	var resp webhookResponse
	path := "/webhooks/telegram-member/" + url.PathEscape(campaignID) + "/setup"
	if err := w.gw.Do(ctx, http.MethodPost, path, nil, nil, &resp); err != nil {
		return "", err
	}
	return resp.WebhookURL, nil
}

func (w *WebhooksAPI) RemoveTelegram(ctx context.Context, campaignID string) error {
	path := "/webhooks/telegram-member/" + url.PathEscape(campaignID) + "/remove"
	return w.gw.Do(ctx, http.MethodPost, path, nil, nil, nil)
}
