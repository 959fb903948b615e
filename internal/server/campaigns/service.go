package campaigns

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vitortiger/utm-tracker-saas/internal/common"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100

	ExportLeads     = "leads"
	ExportCampaigns = "campaigns"
)

var periods = map[string]int{"7d": 7, "30d": 30, "90d": 90}

// Service applies ownership and validation rules on top of a Repository.
type Service struct {
	repo      Repository
	publicURL string
	now       func() time.Time
}

// NewService returns a Service whose generated webhook URLs start with
// publicURL (scheme and host of the stub).
func NewService(repo Repository, publicURL string) *Service {
	return &Service{repo: repo, publicURL: strings.TrimRight(publicURL, "/"), now: time.Now}
}

func (s *Service) ListBots(ctx context.Context, userID string) ([]Bot, error) {
	return s.repo.ListBots(ctx, userID)
}

func (s *Service) GetBot(ctx context.Context, userID, id string) (*Bot, error) {
	return s.repo.GetBot(ctx, userID, id)
}

func (s *Service) CreateBot(ctx context.Context, userID string, in BotInput) (*Bot, error) {
	in.BotToken = strings.TrimSpace(in.BotToken)
	in.ChatID = strings.TrimSpace(in.ChatID)
	if in.BotToken == "" || in.ChatID == "" {
		return nil, common.Invalid("Bot token and chat ID are required")
	}

	bot, err := s.repo.CreateBot(ctx, &Bot{
		ID:          uuid.NewString(),
		UserID:      userID,
		BotToken:    in.BotToken,
		BotUsername: botUsername(in.BotToken),
		ChatID:      in.ChatID,
		ChatName:    "Chat " + in.ChatID,
		ChatType:    chatType(in.ChatID),
		IsPrivate:   in.IsPrivate,
		IsActive:    true,
		CreatedAt:   s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return bot, nil
}

func (s *Service) UpdateBot(ctx context.Context, userID, id string, in BotInput) (*Bot, error) {
	bot, err := s.repo.GetBot(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if t := strings.TrimSpace(in.BotToken); t != "" {
		bot.BotToken = t
		bot.BotUsername = botUsername(t)
	}
	if c := strings.TrimSpace(in.ChatID); c != "" {
		bot.ChatID = c
		bot.ChatName = "Chat " + c
		bot.ChatType = chatType(c)
	}
	bot.IsPrivate = in.IsPrivate
	return s.repo.UpdateBot(ctx, bot)
}

// DeleteBot refuses to delete a bot that campaigns still point at.
func (s *Service) DeleteBot(ctx context.Context, userID, id string) error {
	if _, err := s.repo.GetBot(ctx, userID, id); err != nil {
		return err
	}
	cs, err := s.repo.ListCampaigns(ctx, userID)
	if err != nil {
		return err
	}
	for _, c := range cs {
		if c.TelegramBotID == id {
			return common.Invalid("Cannot delete a bot that is used by campaigns")
		}
	}
	return s.repo.DeleteBot(ctx, userID, id)
}

// TestBot reports what a getMe/getChat round trip would return. The stub
// never contacts Telegram.
func (s *Service) TestBot(ctx context.Context, userID, id string) (map[string]any, error) {
	bot, err := s.repo.GetBot(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"success":  true,
		"bot_info": map[string]any{"username": bot.BotUsername, "is_bot": true},
		"chat_info": map[string]any{
			"id":    bot.ChatID,
			"title": bot.ChatName,
			"type":  bot.ChatType,
		},
	}, nil
}

func botUsername(token string) string {
	id, _, _ := strings.Cut(token, ":")
	return "stub_" + id + "_bot"
}

func chatType(chatID string) string {
	if strings.HasPrefix(chatID, "-100") {
		return "supergroup"
	}
	if strings.HasPrefix(chatID, "-") {
		return "group"
	}
	return "channel"
}

// ListCampaigns filters and pages the user's campaigns. Out of range pages
// come back empty with correct totals.
func (s *Service) ListCampaigns(ctx context.Context, userID string, f Filter) (*Page, error) {
	all, err := s.repo.ListCampaigns(ctx, userID)
	if err != nil {
		return nil, err
	}

	matched := make([]Campaign, 0, len(all))
	for _, c := range all {
		if f.TelegramBotID != "" && c.TelegramBotID != f.TelegramBotID {
			continue
		}
		if f.IsActive != nil && c.IsActive != *f.IsActive {
			continue
		}
		matched = append(matched, c)
	}

	page, perPage := f.Page, f.PerPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	total := len(matched)
	pages := int(math.Ceil(float64(total) / float64(perPage)))
	start := min((page-1)*perPage, total)
	end := min(start+perPage, total)

	return &Page{
		Campaigns: matched[start:end],
		Pagination: Pagination{
			Page:    page,
			Pages:   pages,
			PerPage: perPage,
			Total:   total,
			HasNext: page < pages,
			HasPrev: page > 1,
		},
	}, nil
}

func (s *Service) GetCampaign(ctx context.Context, userID, id string) (*Campaign, error) {
	return s.repo.GetCampaign(ctx, userID, id)
}

func (s *Service) CreateCampaign(ctx context.Context, userID string, in CampaignInput) (*Campaign, error) {
	name := strings.TrimSpace(deref(in.Name))
	botID := deref(in.TelegramBotID)
	if name == "" || botID == "" {
		return nil, common.Invalid("Name and telegram_bot_id are required")
	}
	if _, err := s.repo.GetBot(ctx, userID, botID); err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}

	now := s.now()
	id := uuid.NewString()
	c := &Campaign{
		ID:                id,
		UserID:            userID,
		Name:              name,
		Description:       deref(in.Description),
		TelegramBotID:     botID,
		IsActive:          true,
		CaptureWebhookURL: s.publicURL + "/api/webhooks/capture/" + id,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	return s.repo.CreateCampaign(ctx, c)
}

func (s *Service) UpdateCampaign(ctx context.Context, userID, id string, in CampaignInput) (*Campaign, error) {
	c, err := s.repo.GetCampaign(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, common.Invalid("Name cannot be empty")
		}
		c.Name = name
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.TelegramBotID != nil {
		if _, err := s.repo.GetBot(ctx, userID, *in.TelegramBotID); err != nil {
			return nil, fmt.Errorf("telegram bot: %w", err)
		}
		c.TelegramBotID = *in.TelegramBotID
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	c.UpdatedAt = s.now()
	return s.repo.UpdateCampaign(ctx, c)
}

func (s *Service) DeleteCampaign(ctx context.Context, userID, id string) error {
	return s.repo.DeleteCampaign(ctx, userID, id)
}

func (s *Service) Leads(ctx context.Context, userID, campaignID string) ([]Lead, error) {
	if _, err := s.repo.GetCampaign(ctx, userID, campaignID); err != nil {
		return nil, err
	}
	return s.repo.ListLeads(ctx, campaignID)
}

// Script returns the landing-page snippet that forwards UTM parameters to
// the campaign's capture webhook.
func (s *Service) Script(ctx context.Context, userID, campaignID string) (map[string]any, error) {
	c, err := s.repo.GetCampaign(ctx, userID, campaignID)
	if err != nil {
		return nil, err
	}
	script := fmt.Sprintf(`<script>(function(){var p=new URLSearchParams(location.search);`+
		`fetch(%q,{method:"POST",headers:{"Content-Type":"application/json"},`+
		`body:JSON.stringify({utm_source:p.get("utm_source"),utm_medium:p.get("utm_medium"),utm_campaign:p.get("utm_campaign")})});})();</script>`,
		c.CaptureWebhookURL)
	return map[string]any{
		"campaign_id":         c.ID,
		"capture_webhook_url": c.CaptureWebhookURL,
		"script":              script,
	}, nil
}

// CaptureLead records a lead for a campaign. It is reached through the
// unauthenticated capture webhook, so ownership is not checked.
func (s *Service) CaptureLead(ctx context.Context, campaignID string, lead Lead) (*Lead, error) {
	lead.ID = uuid.NewString()
	lead.CampaignID = campaignID
	lead.CreatedAt = s.now()
	if err := s.repo.AddLead(ctx, &lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

func (s *Service) SetupWebhook(ctx context.Context, userID, campaignID string) (string, error) {
	c, err := s.repo.GetCampaign(ctx, userID, campaignID)
	if err != nil {
		return "", err
	}
	c.MemberWebhookURL = s.publicURL + "/api/webhooks/telegram-member/" + c.ID
	if _, err := s.repo.UpdateCampaign(ctx, c); err != nil {
		return "", err
	}
	return c.MemberWebhookURL, nil
}

func (s *Service) RemoveWebhook(ctx context.Context, userID, campaignID string) error {
	c, err := s.repo.GetCampaign(ctx, userID, campaignID)
	if err != nil {
		return err
	}
	c.MemberWebhookURL = ""
	_, err = s.repo.UpdateCampaign(ctx, c)
	return err
}

func (s *Service) Overview(ctx context.Context, userID string) (*Overview, error) {
	bots, err := s.repo.ListBots(ctx, userID)
	if err != nil {
		return nil, err
	}
	cs, err := s.repo.ListCampaigns(ctx, userID)
	if err != nil {
		return nil, err
	}

	o := &Overview{TotalCampaigns: len(cs), TotalBots: len(bots)}
	for _, c := range cs {
		if c.IsActive {
			o.ActiveCampaigns++
		}
		o.TotalLeads += c.Stats.TotalLeads
	}
	return o, nil
}

// Analytics counts leads per day over period ("7d", "30d" or "90d"; empty
// means 30d), oldest day first.
func (s *Service) Analytics(ctx context.Context, userID, period string) (*Analytics, error) {
	if period == "" {
		period = "30d"
	}
	days, ok := periods[period]
	if !ok {
		return nil, common.Invalid("Invalid period")
	}

	leads, err := s.userLeads(ctx, userID, "")
	if err != nil {
		return nil, err
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	counts := make(map[string]int, days)
	for _, l := range leads {
		counts[l.CreatedAt.UTC().Format(time.DateOnly)]++
	}

	out := &Analytics{Period: period, DailyLeads: make([]DailyCount, 0, days)}
	for i := days - 1; i >= 0; i-- {
		d := today.AddDate(0, 0, -i).Format(time.DateOnly)
		out.DailyLeads = append(out.DailyLeads, DailyCount{Date: d, Leads: counts[d]})
	}
	return out, nil
}

// Export returns leads or campaigns, optionally narrowed to one campaign
// and to a creation date range.
func (s *Service) Export(ctx context.Context, userID string, req ExportRequest) (*Export, error) {
	from, err := parseBound(req.StartDate, false)
	if err != nil {
		return nil, err
	}
	to, err := parseBound(req.EndDate, true)
	if err != nil {
		return nil, err
	}
	inRange := func(t time.Time) bool {
		return (from.IsZero() || !t.Before(from)) && (to.IsZero() || t.Before(to))
	}

	switch req.Type {
	case ExportLeads:
		leads, err := s.userLeads(ctx, userID, req.CampaignID)
		if err != nil {
			return nil, err
		}
		data := []Lead{}
		for _, l := range leads {
			if inRange(l.CreatedAt) {
				data = append(data, l)
			}
		}
		return &Export{Data: data, TotalRecords: len(data), ExportType: ExportLeads}, nil

	case ExportCampaigns:
		cs, err := s.repo.ListCampaigns(ctx, userID)
		if err != nil {
			return nil, err
		}
		data := []Campaign{}
		for _, c := range cs {
			if req.CampaignID != "" && c.ID != req.CampaignID {
				continue
			}
			if inRange(c.CreatedAt) {
				data = append(data, c)
			}
		}
		return &Export{Data: data, TotalRecords: len(data), ExportType: ExportCampaigns}, nil
	}

	return nil, common.Invalid("Invalid export type")
}

func (s *Service) userLeads(ctx context.Context, userID, campaignID string) ([]Lead, error) {
	if campaignID != "" {
		return s.Leads(ctx, userID, campaignID)
	}
	cs, err := s.repo.ListCampaigns(ctx, userID)
	if err != nil {
		return nil, err
	}
	var out []Lead
	for _, c := range cs {
		leads, err := s.repo.ListLeads(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, leads...)
	}
	return out, nil
}

// parseBound accepts RFC 3339 or a bare date. A bare end date includes the
// whole day.
func parseBound(v string, end bool) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, common.Invalid("Invalid date format")
	}
	if end {
		t = t.AddDate(0, 0, 1)
	}
	return t, nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
