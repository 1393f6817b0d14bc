package models

import (
	"database/sql"
	"time"
)

type Item struct {
	ID              int             `json:"id" db:"id"`
	Name            string          `json:"name" db:"name"`
	Description     string          `json:"description,omitempty" db:"description"`
	Category        Category        `json:"category" db:"category"`
	SerialNumber    string          `json:"serial_number" db:"serial_number"`
	ConditionStatus ConditionStatus `json:"condition_status" db:"condition_status"`
	Location        Location        `json:"location" db:"location"`
	Section         string          `json:"section,omitempty" db:"section"`
	StockLevel      int             `json:"stock_level" db:"stock_level"`
	MinStockLevel   int             `json:"min_stock_level" db:"min_stock_level"`
	Unit            string          `json:"unit" db:"unit"`
	Supplier        string          `json:"supplier,omitempty" db:"supplier"`
	Cost            float64         `json:"cost" db:"cost"`
	DateReceived    time.Time       `json:"date_received" db:"date_received"`
	LastIssued      *time.Time      `json:"last_issued,omitempty" db:"last_issued"`
	IsActive        bool            `json:"is_active" db:"is_active"`
	Version         int             `json:"-" db:"version"`
}

// FlatItemRecord mirrors a row of the items table with nullable columns
// kept scannable.
type FlatItemRecord struct {
	ID              int            `db:"id"`
	Name            string         `db:"name"`
	Description     sql.NullString `db:"description"`
	Category        string         `db:"category"`
	SerialNumber    string         `db:"serial_number"`
	ConditionStatus string         `db:"condition_status"`
	Location        string         `db:"location"`
	Section         sql.NullString `db:"section"`
	StockLevel      int            `db:"stock_level"`
	MinStockLevel   int            `db:"min_stock_level"`
	Unit            string         `db:"unit"`
	Supplier        sql.NullString `db:"supplier"`
	Cost            float64        `db:"cost"`
	DateReceived    time.Time      `db:"date_received"`
	LastIssued      sql.NullTime   `db:"last_issued"`
	IsActive        bool           `db:"is_active"`
	Version         int            `db:"version"`
}

func (f *FlatItemRecord) TransformToItem() Item {
	item := Item{
		ID:              f.ID,
		Name:            f.Name,
		Description:     f.Description.String,
		Category:        Category(f.Category),
		SerialNumber:    f.SerialNumber,
		ConditionStatus: ConditionStatus(f.ConditionStatus),
		Location:        Location(f.Location),
		Section:         f.Section.String,
		StockLevel:      f.StockLevel,
		MinStockLevel:   f.MinStockLevel,
		Unit:            f.Unit,
		Supplier:        f.Supplier.String,
		Cost:            f.Cost,
		DateReceived:    f.DateReceived,
		IsActive:        f.IsActive,
		Version:         f.Version,
	}
	if f.LastIssued.Valid {
		t := f.LastIssued.Time
		item.LastIssued = &t
	}
	return item
}

// LowStock reports whether the item sits at or below its minimum level.
func (i *Item) LowStock() bool {
	return i.StockLevel <= i.MinStockLevel
}

func (i *Item) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   i.ID,
		ResourceType: "item",
	}
}
