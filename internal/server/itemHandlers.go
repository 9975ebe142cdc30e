package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"serium/internal/history"
	"serium/internal/model"
	"serium/internal/query"
)

type itemFields struct {
	Name         string         `json:"name"`
	SKU          string         `json:"sku"`
	Description  string         `json:"description"`
	Quantity     int            `json:"quantity"`
	Price        float64        `json:"price"`
	Category     string         `json:"category"`
	Location     string         `json:"location"`
	Status       string         `json:"status"`
	CustomFields map[string]any `json:"custom_fields"`
}

// toItem builds an Item from request fields, filling empty facets from the
// configured defaults.
func (f itemFields) toItem(settings model.SiteSettings) model.Item {
	i := model.Item{
		Name:         f.Name,
		SKU:          f.SKU,
		Description:  f.Description,
		Quantity:     f.Quantity,
		Price:        f.Price,
		Category:     f.Category,
		Location:     f.Location,
		Status:       f.Status,
		CustomFields: f.CustomFields,
	}
	if i.Category == "" {
		i.Category = settings.DefaultCategory
	}
	if i.Location == "" {
		i.Location = settings.DefaultLocation
	}
	if i.Status == "" {
		i.Status = settings.DefaultStatus
	}
	return i
}

func (s Server) itemAdd() http.HandlerFunc {
	type request itemFields
	type response struct {
		ItemID   string              `json:"item_id"`
		Item     model.Item          `json:"item"`
		Tracking history.TrackResult `json:"tracking"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		uc, err := getUserContext(r.Context())
		if err != nil {
			s.Logger.Errorf("itemAdd: Error getting userContext, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		req := request{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.Logger.Debugf("itemAdd: Error decoding JSON, err: %v", err)
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		settings, err := s.settingsSnapshot(r.Context())
		if err != nil {
			s.Logger.Errorf("itemAdd: Error getting settings snapshot, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		i := itemFields(req).toItem(settings)
		if err := i.Validate(); err != nil {
			s.Logger.Debugf("itemAdd: Invalid item, err: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := settings.ValidateCustomFields(i.CustomFields); err != nil {
			s.Logger.Debugf("itemAdd: Invalid custom fields, err: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		itemID, err := s.DB.ItemInsert(r.Context(), i)
		if err != nil {
			s.Logger.Errorf("itemAdd: Error inserting Item, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		i.ID, err = primitive.ObjectIDFromHex(itemID)
		if err != nil {
			s.Logger.Errorf("itemAdd: Error creating ObjectID from hex: %s, err: %v", itemID, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		tr, err := s.History.TrackChange(r.Context(), settings, itemID, model.ActionCreate, nil, &i, uc.user.ID.Hex())
		if err != nil {
			s.Logger.Errorf("itemAdd: Error tracking create for ItemID: %s, err: %v", itemID, err)
		}

		s.writeJsonResponse(w, response{ItemID: itemID, Item: i, Tracking: tr}, http.StatusOK)
	}
}

func (s Server) itemUpdate() http.HandlerFunc {
	type request struct {
		ItemID string `json:"item_id"`
		itemFields
	}
	type response struct {
		Success  bool                `json:"success"`
		Item     model.Item          `json:"item"`
		Tracking history.TrackResult `json:"tracking"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		uc, err := getUserContext(r.Context())
		if err != nil {
			s.Logger.Errorf("itemUpdate: Error getting userContext, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		req := request{}
		if err = json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.Logger.Debugf("itemUpdate: Error decoding JSON, err: %v", err)
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		old, err := s.DB.ItemFindOne(r.Context(), req.ItemID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) || errors.Is(err, primitive.ErrInvalidHex) {
				s.Logger.Debugf("itemUpdate: No Item found with ID: %s, err: %v", req.ItemID, err)
				http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
				return
			}
			s.Logger.Errorf("itemUpdate: Error finding Item with ID: %s, err: %v", req.ItemID, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		settings, err := s.settingsSnapshot(r.Context())
		if err != nil {
			s.Logger.Errorf("itemUpdate: Error getting settings snapshot, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		updated := req.itemFields.toItem(settings)
		updated.ID = old.ID
		updated.LastVerified = old.LastVerified
		updated.CreatedAt = old.CreatedAt
		if err := updated.Validate(); err != nil {
			s.Logger.Debugf("itemUpdate: Invalid item, err: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := settings.ValidateCustomFields(updated.CustomFields); err != nil {
			s.Logger.Debugf("itemUpdate: Invalid custom fields, err: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err = s.DB.ItemUpdate(r.Context(), updated); err != nil {
			s.Logger.Errorf("itemUpdate: Error updating Item with ID: %s, err: %v", req.ItemID, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		tr, err := s.History.TrackChange(r.Context(), settings, req.ItemID, model.ActionUpdate, &old, &updated, uc.user.ID.Hex())
		if err != nil {
			s.Logger.Errorf("itemUpdate: Error tracking update for ItemID: %s, err: %v", req.ItemID, err)
		}

		s.writeJsonResponse(w, response{Success: true, Item: updated, Tracking: tr}, http.StatusOK)
	}
}

func (s Server) itemRemove() http.HandlerFunc {
	type request struct {
		ItemID string `json:"item_id"`
	}
	type response struct {
		Success  bool                `json:"success"`
		Tracking history.TrackResult `json:"tracking"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		uc, err := getUserContext(r.Context())
		if err != nil {
			s.Logger.Errorf("itemRemove: Error getting userContext, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		req := request{}
		if err = json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.Logger.Debugf("itemRemove: Error decoding JSON, err: %v", err)
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		old, err := s.DB.ItemFindOne(r.Context(), req.ItemID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) || errors.Is(err, primitive.ErrInvalidHex) {
				s.Logger.Debugf("itemRemove: No Item found with ID: %s, err: %v", req.ItemID, err)
				http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
				return
			}
			s.Logger.Errorf("itemRemove: Error finding Item with ID: %s, err: %v", req.ItemID, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		if err = s.DB.ItemDelete(r.Context(), req.ItemID); err != nil {
			s.Logger.Errorf("itemRemove: Error deleting Item with ID: %s, err: %v", req.ItemID, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		settings, err := s.settingsSnapshot(r.Context())
		if err != nil {
			s.Logger.Errorf("itemRemove: Error getting settings snapshot, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		tr, err := s.History.TrackChange(r.Context(), settings, req.ItemID, model.ActionDelete, &old, nil, uc.user.ID.Hex())
		if err != nil {
			s.Logger.Errorf("itemRemove: Error tracking delete for ItemID: %s, err: %v", req.ItemID, err)
		}

		s.writeJsonResponse(w, response{Success: true, Tracking: tr}, http.StatusOK)
	}
}

func (s Server) itemGetOne() http.HandlerFunc {
	type response struct {
		Item     model.Item `json:"item"`
		Verified bool       `json:"verified"`
		LowStock bool       `json:"low_stock"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		itemID := mux.Vars(r)["itemID"]
		if itemID == "" {
			s.Logger.Debug("itemGetOne: itemID not supplied")
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		i, err := s.DB.ItemFindOne(r.Context(), itemID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) || errors.Is(err, primitive.ErrInvalidHex) {
				s.Logger.Debugf("itemGetOne: No Item found with ID: %s, err: %v", itemID, err)
				http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
				return
			}
			s.Logger.Errorf("itemGetOne: Error finding Item with ID: %s, err: %v", itemID, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		settings, err := s.settingsSnapshot(r.Context())
		if err != nil {
			s.Logger.Errorf("itemGetOne: Error getting settings snapshot, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.writeJsonResponse(w, response{
			Item:     i,
			Verified: i.Verified(settings.VerificationWindow()),
			LowStock: i.Quantity <= settings.LowStockThreshold,
		}, http.StatusOK)
	}
}

func (s Server) itemGetAll() http.HandlerFunc {
	type response struct {
		Items     []model.Item `json:"items"`
		Total     int          `json:"total"`
		Page      int          `json:"page"`
		PageCount int          `json:"page_count"`
		PageSize  int          `json:"page_size"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := query.ItemFilter{
			Search:     q.Get("search"),
			Scope:      query.ItemScope(q.Get("scope")),
			Categories: q["category"],
			Statuses:   q["status"],
			Locations:  q["location"],
		}
		pageIndex := intParam(q.Get("page"), 0)
		pageSize := intParam(q.Get("page_size"), 8)

		is, err := s.DB.ItemsFindAll(r.Context())
		if err != nil {
			s.Logger.Errorf("itemGetAll: Error getting all Items, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		filtered := query.FilterItems(is, filter)
		query.SortItems(filtered, q.Get("sort"), query.SortDirection(q.Get("dir")))

		pageCount := query.PageCount(len(filtered), pageSize)
		pageIndex = query.ClampPage(pageIndex, pageCount)
		s.writeJsonResponse(w, response{
			Items:     query.Paginate(filtered, pageIndex, pageSize),
			Total:     len(filtered),
			Page:      pageIndex,
			PageCount: pageCount,
			PageSize:  pageSize,
		}, http.StatusOK)
	}
}

func (s Server) itemLookup() http.HandlerFunc {
	type response struct {
		Item model.Item `json:"item"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := s.settingsSnapshot(r.Context())
		if err != nil {
			s.Logger.Errorf("itemLookup: Error getting settings snapshot, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		if !settings.Features.BarcodeScanning {
			s.Logger.Debug("itemLookup: Barcode scanning is disabled")
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}

		sku := r.URL.Query().Get("sku")
		if sku == "" {
			s.Logger.Debug("itemLookup: \"sku\" query parameter is not supplied")
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		i, err := s.DB.ItemFindBySKU(r.Context(), sku)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				s.Logger.Debugf("itemLookup: No Item found with SKU: %s", sku)
				http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
				return
			}
			s.Logger.Errorf("itemLookup: Error finding Item with SKU: %s, err: %v", sku, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.writeJsonResponse(w, response{Item: i}, http.StatusOK)
	}
}

func (s Server) itemVerify() http.HandlerFunc {
	type response struct {
		Success  bool                `json:"success"`
		Item     model.Item          `json:"item"`
		Tracking history.TrackResult `json:"tracking"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		uc, err := getUserContext(r.Context())
		if err != nil {
			s.Logger.Errorf("itemVerify: Error getting userContext, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		settings, err := s.settingsSnapshot(r.Context())
		if err != nil {
			s.Logger.Errorf("itemVerify: Error getting settings snapshot, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		if !settings.Features.ItemVerification {
			s.Logger.Debug("itemVerify: Item verification is disabled")
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}

		itemID := mux.Vars(r)["itemID"]
		old, err := s.DB.ItemFindOne(r.Context(), itemID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) || errors.Is(err, primitive.ErrInvalidHex) {
				s.Logger.Debugf("itemVerify: No Item found with ID: %s, err: %v", itemID, err)
				http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
				return
			}
			s.Logger.Errorf("itemVerify: Error finding Item with ID: %s, err: %v", itemID, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		verified := old
		now := primitive.NewDateTimeFromTime(time.Now())
		verified.LastVerified = &now
		if err = s.DB.ItemUpdate(r.Context(), verified); err != nil {
			s.Logger.Errorf("itemVerify: Error updating Item with ID: %s, err: %v", itemID, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		tr, err := s.History.TrackChange(r.Context(), settings, itemID, model.ActionUpdate, &old, &verified, uc.user.ID.Hex())
		if err != nil {
			s.Logger.Errorf("itemVerify: Error tracking verification for ItemID: %s, err: %v", itemID, err)
		}

		s.writeJsonResponse(w, response{Success: true, Item: verified, Tracking: tr}, http.StatusOK)
	}
}
