package server

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"serium/internal/model"
)

func (s Server) settingsGet() http.HandlerFunc {
	type response model.SiteSettings
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := s.settingsSnapshot(r.Context())
		if err != nil {
			s.Logger.Errorf("settingsGet: Error getting settings snapshot, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.writeJsonResponse(w, response(settings), http.StatusOK)
	}
}

func (s Server) settingsUpdate() http.HandlerFunc {
	type request model.SiteSettings
	type response struct {
		Success bool `json:"success"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		req := request{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.Logger.Debugf("settingsUpdate: Error decoding JSON, err: %v", err)
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		settings := model.SiteSettings(req)
		if err := validateSettings(settings); err != nil {
			s.Logger.Debugf("settingsUpdate: Invalid settings, err: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := s.DB.SettingsUpsert(r.Context(), settings); err != nil {
			s.Logger.Errorf("settingsUpdate: Error upserting settings, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		if err := s.Cache.SettingsInvalidate(r.Context()); err != nil {
			s.Logger.Warnf("settingsUpdate: Error invalidating settings cache, err: %v", err)
		}
		s.writeJsonResponse(w, response{Success: true}, http.StatusOK)
	}
}

func validateSettings(settings model.SiteSettings) error {
	if settings.LowStockThreshold < 0 {
		return errors.Errorf("low stock threshold must not be negative, got: %d", settings.LowStockThreshold)
	}
	if settings.Features.VerificationTimeout < 0 {
		return errors.Errorf("verification timeout must not be negative, got: %d", settings.Features.VerificationTimeout)
	}
	seen := make(map[string]bool)
	for _, col := range settings.CustomColumns {
		if col.ID == "" {
			return errors.New("custom column id must not be empty")
		}
		if seen[col.ID] {
			return errors.Errorf("duplicate custom column id: %s", col.ID)
		}
		seen[col.ID] = true
		switch col.Type {
		case model.ColumnText, model.ColumnNumber, model.ColumnBoolean:
		default:
			return errors.Errorf("unknown custom column type: %s", col.Type)
		}
	}
	return nil
}
