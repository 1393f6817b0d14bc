package requests

import (
	"fmt"
	"time"

	"github.com/Ankitshrma25/IMS/internal/repository"
	"github.com/Ankitshrma25/IMS/pkg/apperrors"
	"github.com/Ankitshrma25/IMS/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type RequestRepository interface {
	InsertRequest(tx *goqu.TxDatabase, req *models.Request) (int, error)
	GetRequest(requestID int) (*models.Request, error)
	GetRequestTx(tx *goqu.TxDatabase, requestID int) (*models.Request, error)
	ListRequests(filter ListFilter) ([]models.Request, error)
	UpdateRequest(tx *goqu.TxDatabase, requestID int, changes goqu.Record, expectedVersion int) error
	NextRequestCounter(tx *goqu.TxDatabase, day time.Time) (int, error)
}

// ListFilter narrows request listings; zero values mean "any".
type ListFilter struct {
	Status   models.RequestStatus
	Section  string
	Priority models.Priority
	Location models.Location
}

type requestRepository struct {
	repo *repository.Repository
}

func NewRepository(r *repository.Repository) RequestRepository {
	return &requestRepository{repo: r}
}

var requestColumns = []interface{}{
	"id", "request_number", "requester_id", "requester_name",
	"requester_section", "requester_rank", "status", "priority",
	"source_location", "current_location", "approved_by", "approved_at",
	"rejection_reason", "allocated_from", "allocation_date", "allocated_by",
	"notes", "total_cost", "estimated_delivery_date", "actual_delivery_date",
	"is_active", "created_at", "version",
}

func (r *requestRepository) InsertRequest(tx *goqu.TxDatabase, req *models.Request) (int, error) {
	query := tx.Insert("requests").
		Rows(goqu.Record{
			"request_number":    req.RequestNumber,
			"requester_id":      req.RequesterID,
			"requester_name":    req.RequesterName,
			"requester_section": req.RequesterSection,
			"requester_rank":    nullableString(req.RequesterRank),
			"status":            req.Status,
			"priority":          req.Priority,
			"source_location":   req.SourceLocation,
			"current_location":  req.CurrentLocation,
			"notes":             req.Notes,
			"total_cost":        req.TotalCost,
		}).
		Returning("id")

	var requestID int
	if _, err := query.Executor().ScanVal(&requestID); err != nil {
		return 0, fmt.Errorf("failed to insert request record: %w", err)
	}

	var rows []goqu.Record
	for _, item := range req.Items {
		rows = append(rows, goqu.Record{
			"request_id":     requestID,
			"item_id":        item.ItemID,
			"item_name":      item.ItemName,
			"serial_number":  item.SerialNumber,
			"category":       item.Category,
			"quantity":       item.Quantity,
			"unit":           item.Unit,
			"purpose":        item.Purpose,
			"estimated_cost": item.EstimatedCost,
		})
	}

	itemsQuery := tx.Insert("request_items").Rows(rows)
	if _, err := itemsQuery.Executor().Exec(); err != nil {
		return 0, fmt.Errorf("failed to insert request line items: %w", err)
	}

	return requestID, nil
}

func (r *requestRepository) GetRequest(requestID int) (*models.Request, error) {
	return r.scanRequest(r.repo.GoquDBWrapper.From("requests"), r.repo.GoquDBWrapper.From("request_items"), requestID)
}

func (r *requestRepository) GetRequestTx(tx *goqu.TxDatabase, requestID int) (*models.Request, error) {
	return r.scanRequest(tx.From("requests"), tx.From("request_items"), requestID)
}

func (r *requestRepository) scanRequest(requestDS, itemsDS *goqu.SelectDataset, requestID int) (*models.Request, error) {
	var flat models.FlatRequestRecord

	query := requestDS.
		Select(requestColumns...).
		Where(goqu.Ex{"id": requestID})

	found, err := query.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, apperrors.NewNotFoundError("request", requestID)
	}

	request := flat.TransformToRequest()

	itemsQuery := itemsDS.
		Select("id", "request_id", "item_id", "item_name", "serial_number",
			"category", "quantity", "unit", "purpose", "estimated_cost").
		Where(goqu.Ex{"request_id": requestID}).
		Order(goqu.I("id").Asc())

	if err := itemsQuery.Executor().ScanStructs(&request.Items); err != nil {
		return nil, fmt.Errorf("error loading request line items: %w", err)
	}

	return &request, nil
}

// statusRankExpr orders listings pending-first, closed last; within one
// rank, newest first.
var statusRankExpr = goqu.L(`CASE status
	WHEN 'pending' THEN 0
	WHEN 'forwardedToWSG' THEN 1
	WHEN 'approved' THEN 2
	WHEN 'allocated' THEN 3
	WHEN 'forwardedToCOD' THEN 4
	WHEN 'completed' THEN 5
	WHEN 'rejected' THEN 6
	ELSE 7 END`)

func (r *requestRepository) ListRequests(filter ListFilter) ([]models.Request, error) {
	conditions := goqu.Ex{"is_active": true}
	if filter.Status != "" {
		conditions["status"] = filter.Status
	}
	if filter.Section != "" {
		conditions["requester_section"] = filter.Section
	}
	if filter.Priority != "" {
		conditions["priority"] = filter.Priority
	}
	if filter.Location != "" {
		conditions["current_location"] = filter.Location
	}

	query := r.repo.GoquDBWrapper.
		Select(requestColumns...).
		From("requests").
		Where(conditions).
		Order(statusRankExpr.Asc(), goqu.I("created_at").Desc())

	var flats []models.FlatRequestRecord
	if err := query.Executor().ScanStructs(&flats); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	requests := make([]models.Request, 0, len(flats))
	for i := range flats {
		request := flats[i].TransformToRequest()

		itemsQuery := r.repo.GoquDBWrapper.
			Select("id", "request_id", "item_id", "item_name", "serial_number",
				"category", "quantity", "unit", "purpose", "estimated_cost").
			From("request_items").
			Where(goqu.Ex{"request_id": request.ID}).
			Order(goqu.I("id").Asc())

		if err := itemsQuery.Executor().ScanStructs(&request.Items); err != nil {
			return nil, fmt.Errorf("error loading line items for request %d: %w", request.ID, err)
		}

		requests = append(requests, request)
	}

	return requests, nil
}

// UpdateRequest applies changes only if nobody else touched the row since
// the caller read it; zero rows affected surfaces as a retryable conflict.
func (r *requestRepository) UpdateRequest(tx *goqu.TxDatabase, requestID int, changes goqu.Record, expectedVersion int) error {
	changes["version"] = goqu.L("version + 1")
	changes["updated_at"] = goqu.L("NOW()")

	query := tx.Update("requests").
		Set(changes).
		Where(goqu.Ex{"id": requestID, "version": expectedVersion})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update request %d: %w", requestID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for request %d: %w", requestID, err)
	}
	if rowsAffected == 0 {
		return apperrors.NewConflictError("request", requestID)
	}

	return nil
}

// NextRequestCounter bumps the per-day sequence row atomically and
// returns the new value. The upsert makes day one and day N the same
// statement, so two concurrent creators can never draw the same number.
func (r *requestRepository) NextRequestCounter(tx *goqu.TxDatabase, day time.Time) (int, error) {
	query := tx.Insert("request_counters").
		Rows(goqu.Record{
			"day":     day.Format("2006-01-02"),
			"counter": 1,
		}).
		OnConflict(goqu.DoUpdate("day", goqu.Record{
			"counter": goqu.L("request_counters.counter + 1"),
		})).
		Returning("counter")

	var counter int
	if _, err := query.Executor().ScanVal(&counter); err != nil {
		return 0, fmt.Errorf("failed to advance request counter: %w", err)
	}

	return counter, nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
