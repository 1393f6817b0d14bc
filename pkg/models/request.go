package models

import (
	"database/sql"
	"time"
)

// RequestItem is a line-item snapshot taken at request creation. Name,
// serial, category, unit and estimated cost are copied from the item at
// that moment and never refreshed afterwards.
type RequestItem struct {
	ID            int      `json:"id" db:"id"`
	RequestID     int      `json:"-" db:"request_id"`
	ItemID        int      `json:"item_id" db:"item_id"`
	ItemName      string   `json:"item_name" db:"item_name"`
	SerialNumber  string   `json:"serial_number" db:"serial_number"`
	Category      Category `json:"category" db:"category"`
	Quantity      int      `json:"quantity" db:"quantity"`
	Unit          string   `json:"unit" db:"unit"`
	Purpose       string   `json:"purpose" db:"purpose"`
	EstimatedCost float64  `json:"estimated_cost" db:"estimated_cost"`
}

type Request struct {
	ID               int           `json:"id"`
	RequestNumber    string        `json:"request_number"`
	RequesterID      int           `json:"requester_id"`
	RequesterName    string        `json:"requester_name"`
	RequesterSection string        `json:"requester_section"`
	RequesterRank    string        `json:"requester_rank,omitempty"`
	Items            []RequestItem `json:"items"`
	Status           RequestStatus `json:"status"`
	Priority         Priority      `json:"priority"`
	SourceLocation   Location      `json:"source_location"`
	CurrentLocation  Location      `json:"current_location"`
	ApprovedBy       *int          `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time    `json:"approved_at,omitempty"`
	RejectionReason  string        `json:"rejection_reason,omitempty"`
	AllocatedFrom    Location      `json:"allocated_from,omitempty"`
	AllocationDate   *time.Time    `json:"allocation_date,omitempty"`
	AllocatedBy      *int          `json:"allocated_by,omitempty"`
	Notes            string        `json:"notes"`
	TotalCost        float64       `json:"total_cost"`
	EstimatedDelivery *time.Time   `json:"estimated_delivery_date,omitempty"`
	ActualDelivery   *time.Time    `json:"actual_delivery_date,omitempty"`
	IsActive         bool          `json:"is_active"`
	RequestDate      time.Time     `json:"request_date"`
	Version          int           `json:"-"`
}

// AppendNote concatenates to the free-text note log, newline separated.
func (r *Request) AppendNote(text string) {
	if text == "" {
		return
	}
	if r.Notes == "" {
		r.Notes = text
		return
	}
	r.Notes += "\n" + text
}

type FlatRequestRecord struct {
	ID                int            `db:"id"`
	RequestNumber     string         `db:"request_number"`
	RequesterID       int            `db:"requester_id"`
	RequesterName     string         `db:"requester_name"`
	RequesterSection  string         `db:"requester_section"`
	RequesterRank     sql.NullString `db:"requester_rank"`
	Status            string         `db:"status"`
	Priority          string         `db:"priority"`
	SourceLocation    string         `db:"source_location"`
	CurrentLocation   string         `db:"current_location"`
	ApprovedBy        sql.NullInt64  `db:"approved_by"`
	ApprovedAt        sql.NullTime   `db:"approved_at"`
	RejectionReason   sql.NullString `db:"rejection_reason"`
	AllocatedFrom     sql.NullString `db:"allocated_from"`
	AllocationDate    sql.NullTime   `db:"allocation_date"`
	AllocatedBy       sql.NullInt64  `db:"allocated_by"`
	Notes             string         `db:"notes"`
	TotalCost         float64        `db:"total_cost"`
	EstimatedDelivery sql.NullTime   `db:"estimated_delivery_date"`
	ActualDelivery    sql.NullTime   `db:"actual_delivery_date"`
	IsActive          bool           `db:"is_active"`
	RequestDate       time.Time      `db:"created_at"`
	Version           int            `db:"version"`
}

func (f *FlatRequestRecord) TransformToRequest() Request {
	req := Request{
		ID:               f.ID,
		RequestNumber:    f.RequestNumber,
		RequesterID:      f.RequesterID,
		RequesterName:    f.RequesterName,
		RequesterSection: f.RequesterSection,
		RequesterRank:    f.RequesterRank.String,
		Status:           RequestStatus(f.Status),
		Priority:         Priority(f.Priority),
		SourceLocation:   Location(f.SourceLocation),
		CurrentLocation:  Location(f.CurrentLocation),
		RejectionReason:  f.RejectionReason.String,
		AllocatedFrom:    Location(f.AllocatedFrom.String),
		Notes:            f.Notes,
		TotalCost:        f.TotalCost,
		IsActive:         f.IsActive,
		RequestDate:      f.RequestDate,
		Version:          f.Version,
	}
	if f.ApprovedBy.Valid {
		v := int(f.ApprovedBy.Int64)
		req.ApprovedBy = &v
	}
	if f.ApprovedAt.Valid {
		t := f.ApprovedAt.Time
		req.ApprovedAt = &t
	}
	if f.AllocationDate.Valid {
		t := f.AllocationDate.Time
		req.AllocationDate = &t
	}
	if f.AllocatedBy.Valid {
		v := int(f.AllocatedBy.Int64)
		req.AllocatedBy = &v
	}
	if f.EstimatedDelivery.Valid {
		t := f.EstimatedDelivery.Time
		req.EstimatedDelivery = &t
	}
	if f.ActualDelivery.Valid {
		t := f.ActualDelivery.Time
		req.ActualDelivery = &t
	}
	return req
}

func (r *Request) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   r.ID,
		ResourceType: "request",
	}
}
