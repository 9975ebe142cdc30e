package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"serium/internal/model"
)

func intParam(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func (s Server) writeJsonResponse(w http.ResponseWriter, response any, statusCode int) {
	if resp, err := json.Marshal(response); err != nil {
		s.Logger.Errorf("Error encoding response: %+v, err: %v", response, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	} else {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(statusCode)
		if _, err = w.Write(resp); err != nil {
			s.Logger.Errorf("Error writing JSON response: %s, err: %v", resp, err)
		}
	}
}

// settingsSnapshot returns the current settings, from the cache when
// available. Core functions receive this snapshot per call instead of reading
// configuration themselves. Cache failures degrade to DB reads.
func (s Server) settingsSnapshot(ctx context.Context) (model.SiteSettings, error) {
	if st, ok, err := s.Cache.SettingsGet(ctx); err != nil {
		s.Logger.Warnf("settingsSnapshot: Error reading settings cache, falling back to DB, err: %v", err)
	} else if ok {
		return st, nil
	}

	st, err := s.DB.SettingsFind(ctx)
	if err != nil {
		return st, err
	}
	if err := s.Cache.SettingsSet(ctx, st); err != nil {
		s.Logger.Warnf("settingsSnapshot: Error caching settings, err: %v", err)
	}
	return st, nil
}
