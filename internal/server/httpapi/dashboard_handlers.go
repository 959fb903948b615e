package httpapi

import (
	"net/http"

	"github.com/vitortiger/utm-tracker-saas/internal/server/campaigns"
)

func (s *Server) overview(w http.ResponseWriter, r *http.Request) {
	o, err := s.campaigns.Overview(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		s.fail(w, r, err, "Campaign")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) analytics(w http.ResponseWriter, r *http.Request) {
	a, err := s.campaigns.Analytics(r.Context(), userFrom(r.Context()).ID, r.URL.Query().Get("period"))
	if err != nil {
		s.fail(w, r, err, "Campaign")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	var req campaigns.ExportRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err, "Campaign")
		return
	}
	res, err := s.campaigns.Export(r.Context(), userFrom(r.Context()).ID, req)
	if err != nil {
		s.fail(w, r, err, "Campaign")
		return
	}
	writeJSON(w, http.StatusOK, res)
}
