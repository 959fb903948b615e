// Package campaigns holds the stub server's tracking data: Telegram bots,
// the campaigns that point at them and the leads captured per campaign.
// Everything lives in memory and is scoped to the owning user.
package campaigns

import "time"

type Bot struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	BotToken    string    `json:"-"`
	BotUsername string    `json:"bot_username"`
	ChatID      string    `json:"chat_id"`
	ChatName    string    `json:"chat_name"`
	ChatType    string    `json:"chat_type"`
	IsPrivate   bool      `json:"is_private"`
	IsActive    bool      `json:"is_active"`
	WebhookURL  string    `json:"webhook_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type BotInput struct {
	BotToken  string `json:"bot_token"`
	ChatID    string `json:"chat_id"`
	IsPrivate bool   `json:"is_private"`
}

type Campaign struct {
	ID                string    `json:"id"`
	UserID            string    `json:"-"`
	Name              string    `json:"name"`
	Description       string    `json:"description,omitempty"`
	TelegramBotID     string    `json:"telegram_bot_id"`
	IsActive          bool      `json:"is_active"`
	CaptureWebhookURL string    `json:"capture_webhook_url,omitempty"`
	MemberWebhookURL  string    `json:"member_webhook_url,omitempty"`
	Stats             Stats     `json:"stats"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type Stats struct {
	TotalLeads int `json:"total_leads"`
}

type CampaignInput struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	TelegramBotID *string `json:"telegram_bot_id"`
	IsActive      *bool   `json:"is_active"`
}

type Filter struct {
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

type Page struct {
	Campaigns  []Campaign `json:"campaigns"`
	Pagination Pagination `json:"pagination"`
}

type Lead struct {
	ID          string    `json:"id"`
	CampaignID  string    `json:"campaign_id"`
	TelegramID  int64     `json:"telegram_id"`
	Username    string    `json:"username,omitempty"`
	FirstName   string    `json:"first_name,omitempty"`
	UTMSource   string    `json:"utm_source,omitempty"`
	UTMMedium   string    `json:"utm_medium,omitempty"`
	UTMCampaign string    `json:"utm_campaign,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Overview struct {
	TotalCampaigns  int `json:"total_campaigns"`
	ActiveCampaigns int `json:"active_campaigns"`
	TotalBots       int `json:"total_bots"`
	TotalLeads      int `json:"total_leads"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Leads int    `json:"leads"`
}

type Analytics struct {
	Period     string       `json:"period"`
	DailyLeads []DailyCount `json:"daily_leads"`
}

type ExportRequest struct {
	Type       string `json:"type"`
	CampaignID string `json:"campaign_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

type Export struct {
	Data         any    `json:"data"`
	TotalRecords int    `json:"total_records"`
	ExportType   string `json:"export_type"`
}
