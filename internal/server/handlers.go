package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/freightwiz/loadscout/internal/dispatch"
	"github.com/freightwiz/loadscout/internal/rpm"
	"github.com/freightwiz/loadscout/internal/store"
	"github.com/freightwiz/loadscout/pkg/models"
)

func (s *Server) listTemplates(w http.ResponseWriter, r *http.Request) {
	tpls, err := s.store.GetTemplates(r.Context())
	if err != nil {
		s.logger.Error("failed to list templates", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to list templates")
		return
	}
	s.writeJSON(w, http.StatusOK, tpls)
}

func (s *Server) saveTemplate(w http.ResponseWriter, r *http.Request) {
	var tpl models.Template
	if !s.decode(w, r, &tpl) {
		return
	}
	if strings.TrimSpace(tpl.Name) == "" || strings.TrimSpace(tpl.Body) == "" {
		s.writeError(w, http.StatusBadRequest, "template name and body are required")
		return
	}

	if err := s.store.SaveTemplate(r.Context(), &tpl); err != nil {
		s.logger.Error("failed to save template", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to save template")
		return
	}
	s.writeJSON(w, http.StatusCreated, tpl)
}

func (s *Server) updateTemplate(w http.ResponseWriter, r *http.Request) {
	var tpl models.Template
	if !s.decode(w, r, &tpl) {
		return
	}
	tpl.ID = chi.URLParam(r, "id")

	if _, err := s.store.GetTemplate(r.Context(), tpl.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "template not found")
			return
		}
		s.logger.Error("failed to read template", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to read template")
		return
	}

	if err := s.store.SaveTemplate(r.Context(), &tpl); err != nil {
		s.logger.Error("failed to update template", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to update template")
		return
	}
	s.writeJSON(w, http.StatusOK, tpl)
}

func (s *Server) deleteTemplate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.DeleteTemplate(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "template not found")
			return
		}
		s.logger.Error("failed to delete template", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to delete template")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) setDefaultTemplate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.SetDefaultTemplate(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "template not found")
			return
		}
		s.logger.Error("failed to set default template", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to set default template")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	accts, err := s.store.GetAccounts(r.Context())
	if err != nil {
		s.logger.Error("failed to list accounts", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to list accounts")
		return
	}
	s.writeJSON(w, http.StatusOK, accts)
}

func (s *Server) saveAccount(w http.ResponseWriter, r *http.Request) {
	var acct models.EmailAccount
	if !s.decode(w, r, &acct) {
		return
	}
	if strings.TrimSpace(acct.Email) == "" {
		s.writeError(w, http.StatusBadRequest, "account email is required")
		return
	}

	if err := s.store.SaveAccount(r.Context(), &acct); err != nil {
		s.logger.Error("failed to save account", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to save account")
		return
	}
	s.writeJSON(w, http.StatusCreated, acct)
}

func (s *Server) updateAccount(w http.ResponseWriter, r *http.Request) {
	var acct models.EmailAccount
	if !s.decode(w, r, &acct) {
		return
	}
	acct.ID = chi.URLParam(r, "id")

	if _, err := s.store.GetAccount(r.Context(), acct.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "account not found")
			return
		}
		s.logger.Error("failed to read account", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to read account")
		return
	}

	if err := s.store.SaveAccount(r.Context(), &acct); err != nil {
		s.logger.Error("failed to update account", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to update account")
		return
	}
	s.writeJSON(w, http.StatusOK, acct)
}

func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.store.DeleteAccount(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrLastAccount):
		s.writeError(w, http.StatusConflict, "cannot delete the last account")
	case errors.Is(err, store.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "account not found")
	case err != nil:
		s.logger.Error("failed to delete account", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to delete account")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) selectAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.SetActiveAccount(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "account not found")
			return
		}
		s.logger.Error("failed to select account", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to select account")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) sendOneClick(w http.ResponseWriter, r *http.Request) {
	var rec models.LoadRecord
	if !s.decode(w, r, &rec) {
		return
	}

	err := s.dispatcher.SendOneClick(r.Context(), &rec)
	switch {
	case errors.Is(err, dispatch.ErrNoTemplate):
		s.writeError(w, http.StatusPreconditionFailed, "no email template found")
	case errors.Is(err, dispatch.ErrNoRecipient):
		s.writeError(w, http.StatusUnprocessableEntity, "load has no broker email")
	case err != nil:
		s.logger.Error("failed to send email", "load_id", rec.LoadID, "error", err)
		s.writeError(w, http.StatusBadGateway, "failed to send email")
	default:
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "sent", "load_id": rec.LoadID})
	}
}

func (s *Server) openCompose(w http.ResponseWriter, r *http.Request) {
	var rec models.LoadRecord
	if !s.decode(w, r, &rec) {
		return
	}

	if err := s.dispatcher.OpenCompose(r.Context(), &rec); err != nil {
		if errors.Is(err, dispatch.ErrNoRecipient) {
			s.writeError(w, http.StatusUnprocessableEntity, "load has no broker email")
			return
		}
		s.logger.Error("failed to open compose", "load_id", rec.LoadID, "error", err)
		s.writeError(w, http.StatusBadGateway, "failed to open compose")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "opened", "load_id": rec.LoadID})
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetStats(r.Context())
	if err != nil {
		s.logger.Error("failed to read stats", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to read stats")
		return
	}

	emailed, err := s.store.EmailedCount(r.Context())
	if err != nil {
		s.logger.Error("failed to count emailed loads", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to count emailed loads")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"stats":   stats,
		"emailed": emailed,
	})
}

func (s *Server) brokerCheck(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MC string `json:"mc"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.MC) == "" {
		s.writeError(w, http.StatusBadRequest, "mc number is required")
		return
	}

	report, err := s.checker.Check(r.Context(), req.MC)
	if err != nil {
		s.logger.Error("broker check failed", "mc", req.MC, "error", err)
		s.writeError(w, http.StatusInternalServerError, "broker check failed")
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) calculateRPM(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Rate      float64 `json:"rate"`
		Miles     int     `json:"miles"`
		Deadhead  int     `json:"deadhead"`
		FuelPrice float64 `json:"fuel_price"`
		MPG       float64 `json:"mpg"`
		Tolls     float64 `json:"tolls"`
	}
	if !s.decode(w, r, &in) {
		return
	}

	result, err := rpm.Calculate(rpm.Input{
		Rate:      in.Rate,
		Miles:     in.Miles,
		Deadhead:  in.Deadhead,
		FuelPrice: in.FuelPrice,
		MPG:       in.MPG,
		Tolls:     in.Tolls,
	})
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) triggerScan(w http.ResponseWriter, r *http.Request) {
	if s.watcher != nil {
		s.watcher.ScanNow()
	}
	s.writeJSON(w, http.StatusAccepted, map[string]string{"status": "scan requested"})
}

func (s *Server) resetInjections(w http.ResponseWriter, r *http.Request) {
	if s.reset == nil {
		s.writeError(w, http.StatusConflict, "no live snapshot to reset")
		return
	}
	removed := s.reset()
	s.logger.Info("injection state reset", "removed", removed)
	if s.watcher != nil {
		s.watcher.ScanNow()
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}
