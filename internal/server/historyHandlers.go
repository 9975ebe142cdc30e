package server

import (
	"encoding/json"
	"net/http"

	"serium/internal/model"
	"serium/internal/query"
)

func (s Server) historyGet() http.HandlerFunc {
	type request struct {
		Search   string `json:"search"`
		Scope    string `json:"scope"`
		Action   string `json:"action"`
		ItemID   string `json:"item_id"`
		Order    string `json:"order"`
		Page     int    `json:"page"`
		PageSize int    `json:"page_size"`
	}
	type response struct {
		Entries   []model.HistoryEntry `json:"entries"`
		Total     int                  `json:"total"`
		Page      int                  `json:"page"`
		PageCount int                  `json:"page_count"`
		PageSize  int                  `json:"page_size"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		req := request{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.Logger.Debugf("historyGet: Error decoding JSON, err: %v", err)
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if req.PageSize <= 0 {
			req.PageSize = 8
		}

		es, err := s.History.GetHistory(r.Context(), query.HistoryFilter{
			Search: req.Search,
			Scope:  query.HistoryScope(req.Scope),
			Action: req.Action,
			ItemID: req.ItemID,
		})
		if err != nil {
			s.Logger.Errorf("historyGet: Error getting history, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		// Base order is timestamp ascending; reverse here for the usual
		// newest-first view.
		if req.Order == "desc" {
			for l, r := 0, len(es)-1; l < r; l, r = l+1, r-1 {
				es[l], es[r] = es[r], es[l]
			}
		}

		pageCount := query.PageCount(len(es), req.PageSize)
		page := query.ClampPage(req.Page, pageCount)
		s.writeJsonResponse(w, response{
			Entries:   query.Paginate(es, page, req.PageSize),
			Total:     len(es),
			Page:      page,
			PageCount: pageCount,
			PageSize:  req.PageSize,
		}, http.StatusOK)
	}
}

func (s Server) historyClear() http.HandlerFunc {
	type response struct {
		Success bool `json:"success"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.DB.HistoryClear(r.Context()); err != nil {
			s.Logger.Errorf("historyClear: Error clearing history, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.writeJsonResponse(w, response{Success: true}, http.StatusOK)
	}
}
