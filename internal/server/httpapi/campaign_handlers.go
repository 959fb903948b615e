package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/vitortiger/utm-tracker-saas/internal/common"
	"github.com/vitortiger/utm-tracker-saas/internal/server/campaigns"
)

func pathID(r *http.Request) string {
	return mux.Vars(r)["id"]
}

func parseFilter(r *http.Request) (campaigns.Filter, error) {
	q := r.URL.Query()
	f := campaigns.Filter{TelegramBotID: q.Get("telegram_bot_id")}

	for name, dst := range map[string]*int{"page": &f.Page, "per_page": &f.PerPage} {
		if v := q.Get(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return f, common.Invalid("Invalid " + name)
			}
			*dst = n
		}
	}
	if v := q.Get("is_active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, common.Invalid("Invalid is_active")
		}
		f.IsActive = &b
	}
	return f, nil
}

func (s *Server) listCampaigns(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		s.fail(w, r, err, "Campaign")
		return
	}
	page, err := s.campaigns.ListCampaigns(r.Context(), userFrom(r.Context()).ID, f)
	if err != nil {
		s.fail(w, r, err, "Campaign")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) getCampaign(w http.ResponseWriter, r *http.Request) {
	c, err := s.campaigns.GetCampaign(r.Context(), userFrom(r.Context()).ID, pathID(r))
	if err != nil {
		s.fail(w, r, err, "Campaign")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"campaign": c})
}

func (s *Server) createCampaign(w http.ResponseWriter, r *http.Request) {
	var in campaigns.CampaignInput
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err, "Campaign")
		return
	}
	c, err := s.campaigns.CreateCampaign(r.Context(), userFrom(r.Context()).ID, in)
	if err != nil {
		s.fail(w, r, err, "Telegram bot")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Campaign created successfully", "campaign": c})
}

func (s *Server) updateCampaign(w http.ResponseWriter, r *http.Request) {
	var in campaigns.CampaignInput
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err, "Campaign")
		return
	}
	c, err := s.campaigns.UpdateCampaign(r.Context(), userFrom(r.Context()).ID, pathID(r), in)
	if err != nil {
		s.fail(w, r, err, "Campaign")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Campaign updated successfully", "campaign": c})
}

func (s *Server) deleteCampaign(w http.ResponseWriter, r *http.Request) {
	if err := s.campaigns.DeleteCampaign(r.Context(), userFrom(r.Context()).ID, pathID(r)); err != nil {
		s.fail(w, r, err, "Campaign")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Campaign deleted successfully"})
}

func (s *Server) campaignLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := s.campaigns.Leads(r.Context(), userFrom(r.Context()).ID, pathID(r))
	if err != nil {
		s.fail(w, r, err, "Campaign")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"leads": leads, "total": len(leads)})
}

func (s *Server) campaignScript(w http.ResponseWriter, r *http.Request) {
	script, err := s.campaigns.Script(r.Context(), userFrom(r.Context()).ID, pathID(r))
	if err != nil {
		s.fail(w, r, err, "Campaign")
		return
	}
	writeJSON(w, http.StatusOK, script)
}

func (s *Server) listBots(w http.ResponseWriter, r *http.Request) {
	bots, err := s.campaigns.ListBots(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		s.fail(w, r, err, "Telegram bot")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bots": bots})
}

func (s *Server) getBot(w http.ResponseWriter, r *http.Request) {
	b, err := s.campaigns.GetBot(r.Context(), userFrom(r.Context()).ID, pathID(r))
	if err != nil {
		s.fail(w, r, err, "Telegram bot")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bot": b})
}

func (s *Server) createBot(w http.ResponseWriter, r *http.Request) {
	var in campaigns.BotInput
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err, "Telegram bot")
		return
	}
	b, err := s.campaigns.CreateBot(r.Context(), userFrom(r.Context()).ID, in)
	if err != nil {
		s.fail(w, r, err, "Telegram bot")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Telegram bot created successfully", "bot": b})
}

func (s *Server) updateBot(w http.ResponseWriter, r *http.Request) {
	var in campaigns.BotInput
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err, "Telegram bot")
		return
	}
	b, err := s.campaigns.UpdateBot(r.Context(), userFrom(r.Context()).ID, pathID(r), in)
	if err != nil {
		s.fail(w, r, err, "Telegram bot")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Telegram bot updated successfully", "bot": b})
}

func (s *Server) deleteBot(w http.ResponseWriter, r *http.Request) {
	if err := s.campaigns.DeleteBot(r.Context(), userFrom(r.Context()).ID, pathID(r)); err != nil {
		s.fail(w, r, err, "Telegram bot")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Telegram bot deleted successfully"})
}

func (s *Server) testBot(w http.ResponseWriter, r *http.Request) {
	res, err := s.campaigns.TestBot(r.Context(), userFrom(r.Context()).ID, pathID(r))
	if err != nil {
		s.fail(w, r, err, "Telegram bot")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) setupWebhook(w http.ResponseWriter, r *http.Request) {
	url, err := s.campaigns.SetupWebhook(r.Context(), userFrom(r.Context()).ID, pathID(r))
	if err != nil {
		s.fail(w, r, err, "Campaign")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Webhook configured successfully", "webhook_url": url})
}

func (s *Server) removeWebhook(w http.ResponseWriter, r *http.Request) {
	if err := s.campaigns.RemoveWebhook(r.Context(), userFrom(r.Context()).ID, pathID(r)); err != nil {
		s.fail(w, r, err, "Campaign")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Webhook removed successfully"})
}

func (s *Server) captureLead(w http.ResponseWriter, r *http.Request) {
	var lead campaigns.Lead
	if err := decode(r, &lead); err != nil {
		s.fail(w, r, err, "Campaign")
		return
	}
	l, err := s.campaigns.CaptureLead(r.Context(), pathID(r), lead)
	if err != nil {
		s.fail(w, r, err, "Campaign")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"lead": l})
}
