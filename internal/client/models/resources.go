package models

import "encoding/json"

// Campaign is a tracked UTM campaign. Stats and script bodies are opaque.
type Campaign struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	TelegramBotID     string          `json:"telegram_bot_id"`
	IsActive          bool            `json:"is_active"`
	CaptureWebhookURL string          `json:"capture_webhook_url,omitempty"`
	MemberWebhookURL  string          `json:"member_webhook_url,omitempty"`
	Stats             json.RawMessage `json:"stats,omitempty"`
}

// CampaignInput is the body of campaign create/update calls.
type CampaignInput struct {
	Name          string `json:"name,omitempty"`
	Description   string `json:"description,omitempty"`
	TelegramBotID string `json:"telegram_bot_id,omitempty"`
	IsActive      *bool  `json:"is_active,omitempty"`
}

// CampaignFilter maps to the query string of GET /campaigns.
type CampaignFilter struct {
	TelegramBotID string
	IsActive      *bool
	Page          int
	PerPage       int
}

type Pagination struct {
	Page    int  `json:"page"`
	Pages   int  `json:"pages"`
	PerPage int  `json:"per_page"`
	Total   int  `json:"total"`
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
}

type CampaignPage struct {
	Campaigns  []Campaign `json:"campaigns"`
	Pagination Pagination `json:"pagination"`
}

// Lead is a Telegram member attributed to a campaign.
type Lead struct {
	TelegramID  json.RawMessage `json:"telegram_id"`
	Username    string          `json:"username,omitempty"`
	FirstName   string          `json:"first_name,omitempty"`
	UTMSource   string          `json:"utm_source,omitempty"`
	UTMMedium   string          `json:"utm_medium,omitempty"`
	UTMCampaign string          `json:"utm_campaign,omitempty"`
	CreatedAt   string          `json:"created_at,omitempty"`
}

// TelegramBot is a bot attached to a channel or group.
type TelegramBot struct {
	ID          string `json:"id"`
	BotUsername string `json:"bot_username,omitempty"`
	ChatID      string `json:"chat_id"`
	ChatName    string `json:"chat_name,omitempty"`
	ChatType    string `json:"chat_type,omitempty"`
	IsPrivate   bool   `json:"is_private"`
	IsActive    bool   `json:"is_active"`
	WebhookURL  string `json:"webhook_url,omitempty"`
}

type TelegramBotInput struct {
	BotToken  string `json:"bot_token,omitempty"`
	ChatID    string `json:"chat_id,omitempty"`
	IsPrivate bool   `json:"is_private"`
}

// ExportRequest is the body of POST /dashboard/export. Dates are ISO-8601.
type ExportRequest struct {
	Type       string `json:"type"`
	CampaignID string `json:"campaign_id,omitempty"`
	StartDate  string `json:"start_date,omitempty"`
	EndDate    string `json:"end_date,omitempty"`
}

type ExportResult struct {
	Data         json.RawMessage `json:"data"`
	TotalRecords int             `json:"total_records"`
	ExportType   string          `json:"export_type"`
}
