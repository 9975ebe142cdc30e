package model

import (
	"time"

	"github.com/pkg/errors"
)

// SettingsID is the fixed key of the singleton SiteSettings record.
const SettingsID = "site-settings"

type ColumnType string

const (
	ColumnText    ColumnType = "text"
	ColumnNumber  ColumnType = "number"
	ColumnBoolean ColumnType = "boolean"
)

type CustomColumn struct {
	ID       string     `bson:"id" json:"id"`
	Label    string     `bson:"label" json:"label"`
	Type     ColumnType `bson:"type" json:"type"`
	Required bool       `bson:"required" json:"required"`
}

type Features struct {
	BarcodeScanning         bool   `bson:"barcode_scanning" json:"barcode_scanning"`
	QRCodeSupport           bool   `bson:"qr_code_support" json:"qr_code_support"`
	HistoryTracking         bool   `bson:"history_tracking" json:"history_tracking"`
	Notifications           bool   `bson:"notifications" json:"notifications"`
	ItemVerification        bool   `bson:"item_verification" json:"item_verification"`
	VerificationTimeout     int    `bson:"verification_timeout" json:"verification_timeout"`
	VerificationTimeoutUnit string `bson:"verification_timeout_unit" json:"verification_timeout_unit"`
}

// SiteSettings is the singleton configuration record. Core functions receive
// a snapshot of it per call and never read it from ambient state.
type SiteSettings struct {
	ID                string          `bson:"_id" json:"id"`
	Currency          string          `bson:"currency" json:"currency"`
	DateFormat        string          `bson:"date_format" json:"date_format"`
	Theme             string          `bson:"theme" json:"theme"`
	LowStockThreshold int             `bson:"low_stock_threshold" json:"low_stock_threshold"`
	DefaultCategory   string          `bson:"default_category" json:"default_category"`
	DefaultLocation   string          `bson:"default_location" json:"default_location"`
	DefaultStatus     string          `bson:"default_status" json:"default_status"`
	Categories        []string        `bson:"categories" json:"categories"`
	Statuses          []string        `bson:"statuses" json:"statuses"`
	CustomColumns     []CustomColumn  `bson:"custom_columns" json:"custom_columns"`
	VisibleColumns    map[string]bool `bson:"visible_columns" json:"visible_columns"`
	Features          Features        `bson:"features" json:"features"`
}

func DefaultSettings() SiteSettings {
	return SiteSettings{
		ID:                SettingsID,
		Currency:          "USD",
		DateFormat:        "MM/DD/YYYY",
		Theme:             "system",
		LowStockThreshold: 5,
		DefaultCategory:   "General",
		DefaultLocation:   "Main",
		DefaultStatus:     "active",
		Categories:        []string{"General"},
		Statuses:          []string{"active", "inactive"},
		CustomColumns:     []CustomColumn{},
		VisibleColumns:    map[string]bool{},
		Features: Features{
			HistoryTracking:         true,
			VerificationTimeout:     7,
			VerificationTimeoutUnit: "days",
		},
	}
}

// VerificationWindow converts the verification timeout setting into a
// duration. Unknown units fall back to days.
func (s SiteSettings) VerificationWindow() time.Duration {
	n := time.Duration(s.Features.VerificationTimeout)
	switch s.Features.VerificationTimeoutUnit {
	case "minutes":
		return n * time.Minute
	case "hours":
		return n * time.Hour
	default:
		return n * 24 * time.Hour
	}
}

// ColumnVisible reports whether a field should be shown. The name column is
// always visible; fields without a toggle default to visible.
func (s SiteSettings) ColumnVisible(field string) bool {
	if field == "name" {
		return true
	}
	v, ok := s.VisibleColumns[field]
	return !ok || v
}

// ValidateCustomFields checks custom field values against the declared custom
// columns. Required columns must be present with a value of the declared type.
// Keys without a matching column are allowed through; the store is lenient
// about stale keys left behind by removed columns.
func (s SiteSettings) ValidateCustomFields(fields map[string]any) error {
	for _, col := range s.CustomColumns {
		v, ok := fields[col.ID]
		if !ok || v == nil {
			if col.Required {
				return errors.Errorf("custom field %q (%s) is required", col.Label, col.ID)
			}
			continue
		}
		switch col.Type {
		case ColumnText:
			if _, ok := v.(string); !ok {
				return errors.Errorf("custom field %q must be text, got: %T", col.Label, v)
			}
		case ColumnNumber:
			switch v.(type) {
			case float64, float32, int, int32, int64:
			default:
				return errors.Errorf("custom field %q must be a number, got: %T", col.Label, v)
			}
		case ColumnBoolean:
			if _, ok := v.(bool); !ok {
				return errors.Errorf("custom field %q must be a boolean, got: %T", col.Label, v)
			}
		}
	}
	return nil
}
