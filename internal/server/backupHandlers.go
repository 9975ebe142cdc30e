package server

import (
	"io"
	"net/http"

	"github.com/pkg/errors"

	"serium/internal/backup"
)

func (s Server) backupExport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := backup.Export(r.Context(), s.DB)
		if err != nil {
			s.Logger.Errorf("backupExport: Error exporting backup, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.Logger.Infof("backupExport: Exported %d Item(s) and %d HistoryEntries", len(f.Inventory), len(f.History))
		s.writeJsonResponse(w, f, http.StatusOK)
	}
}

func (s Server) backupImport() http.HandlerFunc {
	type response struct {
		Success bool               `json:"success"`
		Stats   backup.ImportStats `json:"stats"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			s.Logger.Debugf("backupImport: Error reading request body, err: %v", err)
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		stats, err := backup.Import(r.Context(), s.DB, data)
		if err != nil {
			if errors.Is(err, backup.ErrInvalidBackup) {
				s.Logger.Debugf("backupImport: Invalid backup payload, err: %v", err)
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			// Clear-then-bulk-add is not transactional; report how far the
			// restore got before failing.
			s.Logger.Errorf("backupImport: Error importing backup, stats: %+v, err: %v", stats, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		if err := s.Cache.SettingsInvalidate(r.Context()); err != nil {
			s.Logger.Warnf("backupImport: Error invalidating settings cache, err: %v", err)
		}
		s.Logger.Infof("backupImport: Imported %d Item(s) and %d HistoryEntries", stats.Items, stats.HistoryEntries)
		s.writeJsonResponse(w, response{Success: true, Stats: stats}, http.StatusOK)
	}
}
