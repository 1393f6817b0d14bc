package requests

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Ankitshrma25/IMS/internal/ledger"
	"github.com/Ankitshrma25/IMS/pkg/apperrors"
	"github.com/Ankitshrma25/IMS/pkg/models"
	"github.com/Ankitshrma25/IMS/pkg/roles"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

// TxRunner abstracts the transaction scope every workflow action runs in.
type TxRunner interface {
	WithTx(fn func(tx *goqu.TxDatabase) error) error
}

// RequestService is the workflow engine: the only component allowed to
// move a request between statuses and the only writer path that touches
// item stock as a side effect of a request.
type RequestService struct {
	tx     TxRunner
	rr     RequestRepository
	ledger ledger.LedgerRepository
	log    *zap.Logger
}

func NewService(tx TxRunner, rr RequestRepository, lr ledger.LedgerRepository, log *zap.Logger) *RequestService {
	return &RequestService{tx: tx, rr: rr, ledger: lr, log: log}
}

type RequestItemInput struct {
	ItemID   int    `json:"item_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
	Purpose  string `json:"purpose"`
}

type CreateRequestInput struct {
	RequesterID      int
	RequesterName    string
	RequesterSection string
	RequesterRank    string
	Items            []RequestItemInput
	Priority         models.Priority
	Notes            string
	SourceLocation   models.Location
}

type ActionInput struct {
	Action        Action
	PerformedBy   int
	PerformerName string
	Role          roles.Role
	Notes         string
	AllocatedFrom models.Location
}

// Create validates every line item against the ledger, snapshots costs,
// draws a reference number from the per-day sequence and persists the
// request in pending state. All of it happens in one transaction.
func (s *RequestService) Create(input CreateRequestInput) (*models.Request, error) {
	if input.RequesterID == 0 || input.RequesterName == "" || input.RequesterSection == "" {
		return nil, apperrors.NewValidationError("requester identity, name and section are required")
	}
	if len(input.Items) == 0 {
		return nil, apperrors.NewValidationError("a request needs at least one line item")
	}

	if input.SourceLocation == "" {
		input.SourceLocation = models.LocationLocalStore
	}
	if !input.SourceLocation.Valid() {
		return nil, apperrors.NewValidationError("unknown source location %q", input.SourceLocation)
	}

	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, apperrors.NewValidationError("unknown priority %q", input.Priority)
	}

	now := time.Now()
	request := &models.Request{
		RequesterID:      input.RequesterID,
		RequesterName:    input.RequesterName,
		RequesterSection: input.RequesterSection,
		RequesterRank:    input.RequesterRank,
		Status:           models.StatusPending,
		Priority:         input.Priority,
		SourceLocation:   input.SourceLocation,
		CurrentLocation:  input.SourceLocation,
		Notes:            input.Notes,
		IsActive:         true,
		RequestDate:      now,
		Version:          1,
	}

	err := s.tx.WithTx(func(tx *goqu.TxDatabase) error {
		for _, line := range input.Items {
			if line.Quantity <= 0 {
				return apperrors.NewValidationError("quantity for item %d must be positive, got %d", line.ItemID, line.Quantity)
			}

			item, err := s.ledger.GetItemTx(tx, line.ItemID)
			if err != nil {
				return err
			}
			if item.Location != input.SourceLocation {
				return apperrors.NewValidationError("item %s is not available at %s", item.Name, input.SourceLocation)
			}

			estimatedCost := item.Cost * float64(line.Quantity)
			request.Items = append(request.Items, models.RequestItem{
				ItemID:        item.ID,
				ItemName:      item.Name,
				SerialNumber:  item.SerialNumber,
				Category:      item.Category,
				Quantity:      line.Quantity,
				Unit:          item.Unit,
				Purpose:       line.Purpose,
				EstimatedCost: estimatedCost,
			})
			request.TotalCost += estimatedCost
		}

		counter, err := s.rr.NextRequestCounter(tx, now)
		if err != nil {
			return err
		}
		number, err := FormatRequestNumber(now, counter)
		if err != nil {
			return err
		}
		request.RequestNumber = number

		requestID, err := s.rr.InsertRequest(tx, request)
		if err != nil {
			return err
		}
		request.ID = requestID

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("request created",
		zap.String("request_number", request.RequestNumber),
		zap.Int("requester_id", request.RequesterID),
		zap.Float64("total_cost", request.TotalCost),
	)

	return request, nil
}

func (s *RequestService) Get(requestID int) (*models.Request, error) {
	return s.rr.GetRequest(requestID)
}

func (s *RequestService) List(filter ListFilter) ([]models.Request, error) {
	return s.rr.ListRequests(filter)
}

// PerformAction runs one workflow step: role policy, transition guard,
// then the action's own checks and mutations, all inside one transaction
// with optimistic version checks on every touched row. Any guard failure
// or version conflict rolls back the entire step.
func (s *RequestService) PerformAction(requestID int, input ActionInput) (*models.Request, error) {
	if !input.Action.Known() {
		return nil, apperrors.NewValidationError("unknown action %q", input.Action)
	}
	if input.PerformedBy == 0 {
		return nil, apperrors.NewValidationError("performer identity is required")
	}
	if !input.Action.allowedForRole(input.Role) {
		return nil, apperrors.NewForbiddenError(string(input.Action), string(input.Role))
	}

	var request *models.Request

	err := s.tx.WithTx(func(tx *goqu.TxDatabase) error {
		var err error
		request, err = s.rr.GetRequestTx(tx, requestID)
		if err != nil {
			return err
		}

		if !input.Action.allowedFrom(request.Status) {
			return apperrors.NewInvalidTransitionError(string(input.Action), string(request.Status))
		}

		changes := goqu.Record{}

		switch input.Action {
		case ActionApprove:
			if err := s.approve(tx, request, input, changes); err != nil {
				return err
			}
		case ActionReject:
			s.reject(request, input, changes)
		case ActionForwardToWSG:
			request.Status = models.StatusForwardedToWSG
			request.CurrentLocation = models.LocationWSGStore
			changes["status"] = request.Status
			changes["current_location"] = request.CurrentLocation
		case ActionForwardToCOD:
			request.Status = models.StatusForwardedToCOD
			request.CurrentLocation = models.LocationCOD
			changes["status"] = request.Status
			changes["current_location"] = request.CurrentLocation
		case ActionAllocate:
			if err := s.allocate(tx, request, input, changes); err != nil {
				return err
			}
		case ActionComplete:
			now := time.Now()
			request.Status = models.StatusCompleted
			request.ActualDelivery = &now
			changes["status"] = request.Status
			changes["actual_delivery_date"] = now
		case ActionCancel:
			request.Status = models.StatusCancelled
			request.IsActive = false
			changes["status"] = request.Status
			changes["is_active"] = false
		}

		if input.Notes != "" && input.Action != ActionReject {
			request.AppendNote(input.Notes)
			changes["notes"] = request.Notes
		}

		if err := s.rr.UpdateRequest(tx, request.ID, changes, request.Version); err != nil {
			return err
		}
		request.Version++

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("request action performed",
		zap.String("action", string(input.Action)),
		zap.String("request_number", request.RequestNumber),
		zap.String("status", string(request.Status)),
		zap.Int("performed_by", input.PerformedBy),
	)

	return request, nil
}

func (s *RequestService) approve(tx *goqu.TxDatabase, request *models.Request, input ActionInput, changes goqu.Record) error {
	// Local-store approvals issue stock immediately; anything else is a
	// pure status change and the stock moves later, at allocation.
	if request.SourceLocation == models.LocationLocalStore {
		issueNotes := fmt.Sprintf("Issued on approval for request %s", request.RequestNumber)
		if err := s.issueLineItems(tx, request, models.LocationLocalStore, false, input, issueNotes); err != nil {
			return err
		}
	}

	now := time.Now()
	request.Status = models.StatusApproved
	request.ApprovedBy = &input.PerformedBy
	request.ApprovedAt = &now
	changes["status"] = request.Status
	changes["approved_by"] = input.PerformedBy
	changes["approved_at"] = now

	return nil
}

func (s *RequestService) reject(request *models.Request, input ActionInput, changes goqu.Record) {
	reason := input.Notes
	if reason == "" {
		reason = "Request rejected"
	}

	request.Status = models.StatusRejected
	request.RejectionReason = reason
	request.AppendNote("Rejection reason: " + reason)
	changes["status"] = request.Status
	changes["rejection_reason"] = reason
	changes["notes"] = request.Notes
}

func (s *RequestService) allocate(tx *goqu.TxDatabase, request *models.Request, input ActionInput, changes goqu.Record) error {
	if input.AllocatedFrom != models.LocationLocalStore && input.AllocatedFrom != models.LocationWSGStore {
		return apperrors.NewValidationError("allocation source must be localStore or wsgStore, got %q", input.AllocatedFrom)
	}

	// The WSG store may draw from its own shelves or any local store;
	// every other source requires an exact location match.
	wsgFlexible := input.AllocatedFrom == models.LocationWSGStore
	issueNotes := fmt.Sprintf("Allocated for request %s", request.RequestNumber)
	if err := s.issueLineItems(tx, request, input.AllocatedFrom, wsgFlexible, input, issueNotes); err != nil {
		return err
	}

	now := time.Now()
	request.Status = models.StatusAllocated
	request.AllocatedFrom = input.AllocatedFrom
	request.AllocationDate = &now
	request.AllocatedBy = &input.PerformedBy
	changes["status"] = request.Status
	changes["allocated_from"] = input.AllocatedFrom
	changes["allocation_date"] = now
	changes["allocated_by"] = input.PerformedBy

	return nil
}

// issueLineItems is the check-all-then-mutate-all core: a full read and
// guard pass over every line item, then the stock decrements and history
// rows. A single failing line aborts before any stock moves; a version
// conflict during the mutate phase rolls the transaction back, so the
// all-or-nothing property survives concurrent writers too. Lines may
// repeat an item, so each item is read once, stock is checked against
// the summed quantity, and every decrement after the first carries the
// version the previous one bumped the row to.
func (s *RequestService) issueLineItems(tx *goqu.TxDatabase, request *models.Request, source models.Location, wsgFlexible bool, input ActionInput, notes string) error {
	checked := make(map[int]*models.Item, len(request.Items))
	required := make(map[int]int, len(request.Items))

	for _, line := range request.Items {
		item, seen := checked[line.ItemID]
		if !seen {
			var err error
			item, err = s.ledger.GetItemTx(tx, line.ItemID)
			if err != nil {
				return err
			}

			if wsgFlexible {
				if item.Location != models.LocationWSGStore && item.Location != models.LocationLocalStore {
					return apperrors.NewValidationError("item %s is not available at wsgStore or localStore", item.Name)
				}
			} else if item.Location != source {
				return apperrors.NewValidationError("item %s is not available at %s", item.Name, source)
			}

			checked[line.ItemID] = item
		}

		required[line.ItemID] += line.Quantity
		if item.StockLevel < required[line.ItemID] {
			return apperrors.NewInsufficientStockError(item.Name, item.StockLevel, required[line.ItemID])
		}
	}

	performer := input.PerformerName
	if performer == "" {
		performer = strconv.Itoa(input.PerformedBy)
	}

	versions := make(map[int]int, len(checked))
	for itemID, item := range checked {
		versions[itemID] = item.Version
	}

	for _, line := range request.Items {
		if err := s.ledger.AdjustStock(tx, line.ItemID, line.Quantity, models.TransactionIssued, versions[line.ItemID]); err != nil {
			return err
		}
		versions[line.ItemID]++

		txn := models.Transaction{
			Type:        models.TransactionIssued,
			Quantity:    line.Quantity,
			Reference:   request.RequestNumber,
			Notes:       notes,
			PerformedBy: performer,
		}
		if err := s.ledger.RecordTransaction(tx, line.ItemID, txn); err != nil {
			return err
		}
	}

	return nil
}
