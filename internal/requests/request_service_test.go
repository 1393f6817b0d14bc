package requests

import (
	"testing"
	"time"

	"github.com/Ankitshrma25/IMS/pkg/apperrors"
	"github.com/Ankitshrma25/IMS/pkg/models"
	"github.com/Ankitshrma25/IMS/pkg/roles"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) InsertRequest(tx *goqu.TxDatabase, req *models.Request) (int, error) {
	args := m.Called(tx, req)
	return args.Int(0), args.Error(1)
}

func (m *MockRequestRepository) GetRequest(requestID int) (*models.Request, error) {
	args := m.Called(requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Request), args.Error(1)
}

func (m *MockRequestRepository) GetRequestTx(tx *goqu.TxDatabase, requestID int) (*models.Request, error) {
	args := m.Called(tx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Request), args.Error(1)
}

func (m *MockRequestRepository) ListRequests(filter ListFilter) ([]models.Request, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Request), args.Error(1)
}

func (m *MockRequestRepository) UpdateRequest(tx *goqu.TxDatabase, requestID int, changes goqu.Record, expectedVersion int) error {
	args := m.Called(tx, requestID, changes, expectedVersion)
	return args.Error(0)
}

func (m *MockRequestRepository) NextRequestCounter(tx *goqu.TxDatabase, day time.Time) (int, error) {
	args := m.Called(tx, day)
	return args.Int(0), args.Error(1)
}

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) GetItem(itemID int) (*models.Item, error) {
	args := m.Called(itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockLedgerRepository) GetItemTx(tx *goqu.TxDatabase, itemID int) (*models.Item, error) {
	args := m.Called(tx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockLedgerRepository) GetStockLevel(itemID int) (int, error) {
	args := m.Called(itemID)
	return args.Int(0), args.Error(1)
}

func (m *MockLedgerRepository) AdjustStock(tx *goqu.TxDatabase, itemID, quantity int, txnType models.TransactionType, expectedVersion int) error {
	args := m.Called(tx, itemID, quantity, txnType, expectedVersion)
	return args.Error(0)
}

func (m *MockLedgerRepository) RecordTransaction(tx *goqu.TxDatabase, itemID int, txn models.Transaction) error {
	args := m.Called(tx, itemID, txn)
	return args.Error(0)
}

func (m *MockLedgerRepository) ListTransactions(itemID int) ([]models.Transaction, error) {
	args := m.Called(itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Transaction), args.Error(1)
}

// fakeTxRunner runs the callback without a real database.
type fakeTxRunner struct{}

func (f *fakeTxRunner) WithTx(fn func(tx *goqu.TxDatabase) error) error {
	return fn(nil)
}

func newTestService(rr RequestRepository, lr *MockLedgerRepository) *RequestService {
	return NewService(&fakeTxRunner{}, rr, lr, zap.NewNop())
}

func wrenchItem(id, stock, version int) *models.Item {
	return &models.Item{
		ID:           id,
		Name:         "Torque Wrench",
		Category:     models.CategoryDGEME,
		SerialNumber: "TW-001",
		Location:     models.LocationLocalStore,
		StockLevel:   stock,
		Unit:         "pcs",
		Cost:         150,
		IsActive:     true,
		Version:      version,
	}
}

func pendingRequest(items ...models.RequestItem) *models.Request {
	return &models.Request{
		ID:               42,
		RequestNumber:    "REQ-20260827-0003",
		RequesterID:      7,
		RequesterName:    "J. Smith",
		RequesterSection: "Engine Bay",
		Status:           models.StatusPending,
		Priority:         models.PriorityMedium,
		SourceLocation:   models.LocationLocalStore,
		CurrentLocation:  models.LocationLocalStore,
		Items:            items,
		IsActive:         true,
		Version:          1,
	}
}

func TestCreateRequestSnapshotsItems(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	mockLedger := new(MockLedgerRepository)
	service := newTestService(mockRepo, mockLedger)

	item := wrenchItem(10, 5, 1)

	mockLedger.On("GetItemTx", mock.Anything, 10).Return(item, nil).Once()
	mockRepo.On("NextRequestCounter", mock.Anything, mock.Anything).Return(7, nil).Once()
	mockRepo.On("InsertRequest", mock.Anything, mock.Anything).Return(42, nil).Once()

	request, err := service.Create(CreateRequestInput{
		RequesterID:      7,
		RequesterName:    "J. Smith",
		RequesterSection: "Engine Bay",
		Items:            []RequestItemInput{{ItemID: 10, Quantity: 2, Purpose: "bench work"}},
	})

	assert.NoError(t, err)
	assert.Equal(t, 42, request.ID)
	assert.Equal(t, models.StatusPending, request.Status)
	assert.True(t, request.IsActive)
	assert.Regexp(t, `^REQ-\d{8}-0007$`, request.RequestNumber)

	assert.Len(t, request.Items, 1)
	line := request.Items[0]
	assert.Equal(t, "Torque Wrench", line.ItemName)
	assert.Equal(t, "TW-001", line.SerialNumber)
	assert.Equal(t, models.CategoryDGEME, line.Category)
	assert.Equal(t, 300.0, line.EstimatedCost)
	assert.Equal(t, 300.0, request.TotalCost)

	mockRepo.AssertExpectations(t)
	mockLedger.AssertExpectations(t)
}

func TestCreateRequestValidation(t *testing.T) {
	wsgItem := wrenchItem(11, 5, 1)
	wsgItem.Location = models.LocationWSGStore

	isValidation := func(t *testing.T, err error) {
		var validation *apperrors.ValidationError
		assert.ErrorAs(t, err, &validation)
	}
	isNotFound := func(t *testing.T, err error) {
		var notFound *apperrors.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	}

	tests := []struct {
		name  string
		input CreateRequestInput
		setup func(lr *MockLedgerRepository)
		check func(t *testing.T, err error)
	}{
		{
			name: "missing requester",
			input: CreateRequestInput{
				Items: []RequestItemInput{{ItemID: 10, Quantity: 1}},
			},
			check: isValidation,
		},
		{
			name: "empty line items",
			input: CreateRequestInput{
				RequesterID: 7, RequesterName: "J. Smith", RequesterSection: "Engine Bay",
			},
			check: isValidation,
		},
		{
			name: "non-positive quantity",
			input: CreateRequestInput{
				RequesterID: 7, RequesterName: "J. Smith", RequesterSection: "Engine Bay",
				Items: []RequestItemInput{{ItemID: 10, Quantity: 0}},
			},
			check: isValidation,
		},
		{
			name: "unknown item",
			input: CreateRequestInput{
				RequesterID: 7, RequesterName: "J. Smith", RequesterSection: "Engine Bay",
				Items: []RequestItemInput{{ItemID: 99, Quantity: 1}},
			},
			setup: func(lr *MockLedgerRepository) {
				lr.On("GetItemTx", mock.Anything, 99).Return(nil, apperrors.NewNotFoundError("item", 99)).Once()
			},
			check: isNotFound,
		},
		{
			name: "item at the wrong location",
			input: CreateRequestInput{
				RequesterID: 7, RequesterName: "J. Smith", RequesterSection: "Engine Bay",
				Items: []RequestItemInput{{ItemID: 11, Quantity: 1}},
			},
			setup: func(lr *MockLedgerRepository) {
				lr.On("GetItemTx", mock.Anything, 11).Return(wsgItem, nil).Once()
			},
			check: isValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRequestRepository)
			mockLedger := new(MockLedgerRepository)
			if tt.setup != nil {
				tt.setup(mockLedger)
			}
			service := newTestService(mockRepo, mockLedger)

			_, err := service.Create(tt.input)

			assert.Error(t, err)
			tt.check(t, err)
			mockRepo.AssertNotCalled(t, "InsertRequest", mock.Anything, mock.Anything)
		})
	}
}

func TestApproveIssuesEveryLineOnce(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	mockLedger := new(MockLedgerRepository)
	service := newTestService(mockRepo, mockLedger)

	request := pendingRequest(
		models.RequestItem{ItemID: 10, ItemName: "Torque Wrench", Quantity: 2},
		models.RequestItem{ItemID: 11, ItemName: "Feeler Gauge", Quantity: 1},
	)

	first := wrenchItem(10, 5, 3)
	second := wrenchItem(11, 4, 8)

	mockRepo.On("GetRequestTx", mock.Anything, 42).Return(request, nil).Once()
	mockLedger.On("GetItemTx", mock.Anything, 10).Return(first, nil).Once()
	mockLedger.On("GetItemTx", mock.Anything, 11).Return(second, nil).Once()
	mockLedger.On("AdjustStock", mock.Anything, 10, 2, models.TransactionIssued, 3).Return(nil).Once()
	mockLedger.On("AdjustStock", mock.Anything, 11, 1, models.TransactionIssued, 8).Return(nil).Once()
	mockLedger.On("RecordTransaction", mock.Anything, 10, mock.Anything).Return(nil).Once()
	mockLedger.On("RecordTransaction", mock.Anything, 11, mock.Anything).Return(nil).Once()
	mockRepo.On("UpdateRequest", mock.Anything, 42, mock.Anything, 1).Return(nil).Once()

	updated, err := service.PerformAction(42, ActionInput{
		Action:        ActionApprove,
		PerformedBy:   3,
		PerformerName: "storekeeper",
		Role:          roles.LocalStoreManager,
	})

	assert.NoError(t, err)
	assert.Equal(t, models.StatusApproved, updated.Status)
	assert.NotNil(t, updated.ApprovedBy)
	assert.Equal(t, 3, *updated.ApprovedBy)
	assert.NotNil(t, updated.ApprovedAt)

	mockRepo.AssertExpectations(t)
	mockLedger.AssertExpectations(t)
}

func TestApproveInsufficientStockTouchesNothing(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	mockLedger := new(MockLedgerRepository)
	service := newTestService(mockRepo, mockLedger)

	request := pendingRequest(
		models.RequestItem{ItemID: 10, ItemName: "Torque Wrench", Quantity: 2},
		models.RequestItem{ItemID: 11, ItemName: "Feeler Gauge", Quantity: 10},
	)

	mockRepo.On("GetRequestTx", mock.Anything, 42).Return(request, nil).Once()
	mockLedger.On("GetItemTx", mock.Anything, 10).Return(wrenchItem(10, 5, 1), nil).Once()
	mockLedger.On("GetItemTx", mock.Anything, 11).Return(wrenchItem(11, 3, 1), nil).Once()

	_, err := service.PerformAction(42, ActionInput{
		Action:      ActionApprove,
		PerformedBy: 3,
		Role:        roles.LocalStoreManager,
	})

	var insufficient *apperrors.InsufficientStockError
	assert.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 3, insufficient.Available)
	assert.Equal(t, 10, insufficient.Requested)

	// No line moved, not even the one that had enough stock.
	mockLedger.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "UpdateRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestApproveRepeatedItemLinesTrackVersions(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	mockLedger := new(MockLedgerRepository)
	service := newTestService(mockRepo, mockLedger)

	// Same item on two lines, e.g. the same wrench requested for two
	// different purposes.
	request := pendingRequest(
		models.RequestItem{ItemID: 10, ItemName: "Torque Wrench", Quantity: 2},
		models.RequestItem{ItemID: 10, ItemName: "Torque Wrench", Quantity: 1},
	)

	mockRepo.On("GetRequestTx", mock.Anything, 42).Return(request, nil).Once()
	mockLedger.On("GetItemTx", mock.Anything, 10).Return(wrenchItem(10, 5, 4), nil).Once()
	// The second decrement must carry the version the first bumped the
	// row to, or it would always conflict against the real database.
	mockLedger.On("AdjustStock", mock.Anything, 10, 2, models.TransactionIssued, 4).Return(nil).Once()
	mockLedger.On("AdjustStock", mock.Anything, 10, 1, models.TransactionIssued, 5).Return(nil).Once()
	mockLedger.On("RecordTransaction", mock.Anything, 10, mock.Anything).Return(nil).Twice()
	mockRepo.On("UpdateRequest", mock.Anything, 42, mock.Anything, 1).Return(nil).Once()

	updated, err := service.PerformAction(42, ActionInput{
		Action:      ActionApprove,
		PerformedBy: 3,
		Role:        roles.LocalStoreManager,
	})

	assert.NoError(t, err)
	assert.Equal(t, models.StatusApproved, updated.Status)
	mockRepo.AssertExpectations(t)
	mockLedger.AssertExpectations(t)
}

func TestApproveRepeatedItemLinesSumAgainstStock(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	mockLedger := new(MockLedgerRepository)
	service := newTestService(mockRepo, mockLedger)

	// Each line alone fits the stock of 3, together they do not.
	request := pendingRequest(
		models.RequestItem{ItemID: 10, ItemName: "Torque Wrench", Quantity: 2},
		models.RequestItem{ItemID: 10, ItemName: "Torque Wrench", Quantity: 2},
	)

	mockRepo.On("GetRequestTx", mock.Anything, 42).Return(request, nil).Once()
	mockLedger.On("GetItemTx", mock.Anything, 10).Return(wrenchItem(10, 3, 1), nil).Once()

	_, err := service.PerformAction(42, ActionInput{
		Action:      ActionApprove,
		PerformedBy: 3,
		Role:        roles.LocalStoreManager,
	})

	var insufficient *apperrors.InsufficientStockError
	assert.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 3, insufficient.Available)
	assert.Equal(t, 4, insufficient.Requested)
	mockLedger.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestApproveConflictAbortsAction(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	mockLedger := new(MockLedgerRepository)
	service := newTestService(mockRepo, mockLedger)

	request := pendingRequest(models.RequestItem{ItemID: 10, Quantity: 2})

	mockRepo.On("GetRequestTx", mock.Anything, 42).Return(request, nil).Once()
	mockLedger.On("GetItemTx", mock.Anything, 10).Return(wrenchItem(10, 5, 1), nil).Once()
	mockLedger.On("AdjustStock", mock.Anything, 10, 2, models.TransactionIssued, 1).
		Return(apperrors.NewConflictError("item", 10)).Once()

	_, err := service.PerformAction(42, ActionInput{
		Action:      ActionApprove,
		PerformedBy: 3,
		Role:        roles.LocalStoreManager,
	})

	var conflict *apperrors.ConflictError
	assert.ErrorAs(t, err, &conflict)
	mockRepo.AssertNotCalled(t, "UpdateRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTransitionLegality(t *testing.T) {
	tests := []struct {
		name   string
		status models.RequestStatus
		action Action
		legal  bool
	}{
		{"approve from pending", models.StatusPending, ActionApprove, true},
		{"approve from forwarded", models.StatusForwardedToWSG, ActionApprove, false},
		{"forward to WSG from pending", models.StatusPending, ActionForwardToWSG, true},
		{"forward to WSG from approved", models.StatusApproved, ActionForwardToWSG, false},
		{"allocate from forwarded", models.StatusForwardedToWSG, ActionAllocate, true},
		{"allocate from pending", models.StatusPending, ActionAllocate, false},
		{"complete from allocated", models.StatusAllocated, ActionComplete, true},
		{"complete from pending", models.StatusPending, ActionComplete, false},
		{"reject from pending", models.StatusPending, ActionReject, true},
		{"reject from allocated", models.StatusAllocated, ActionReject, true},
		{"reject from rejected", models.StatusRejected, ActionReject, false},
		{"cancel from forwarded", models.StatusForwardedToWSG, ActionCancel, true},
		{"cancel from allocated", models.StatusAllocated, ActionCancel, false},
		{"anything from completed", models.StatusCompleted, ActionCancel, false},
		{"anything from forwardedToCOD", models.StatusForwardedToCOD, ActionReject, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.legal, tt.action.allowedFrom(tt.status))
		})
	}
}

func TestRejectNeverTouchesStock(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	mockLedger := new(MockLedgerRepository)
	service := newTestService(mockRepo, mockLedger)

	request := pendingRequest(models.RequestItem{ItemID: 10, Quantity: 2})

	mockRepo.On("GetRequestTx", mock.Anything, 42).Return(request, nil).Once()
	mockRepo.On("UpdateRequest", mock.Anything, 42, mock.Anything, 1).Return(nil).Once()

	updated, err := service.PerformAction(42, ActionInput{
		Action:      ActionReject,
		PerformedBy: 3,
		Role:        roles.LocalStoreManager,
	})

	assert.NoError(t, err)
	assert.Equal(t, models.StatusRejected, updated.Status)
	assert.Equal(t, "Request rejected", updated.RejectionReason)
	assert.Contains(t, updated.Notes, "Rejection reason: Request rejected")

	mockLedger.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockLedger.AssertNotCalled(t, "RecordTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func TestAllocateFromWSGAcceptsLocalStoreItems(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	mockLedger := new(MockLedgerRepository)
	service := newTestService(mockRepo, mockLedger)

	request := pendingRequest(models.RequestItem{ItemID: 10, Quantity: 1})
	request.Status = models.StatusForwardedToWSG
	request.CurrentLocation = models.LocationWSGStore

	// Item still sits at a local store, which a WSG allocation accepts.
	item := wrenchItem(10, 5, 2)
	item.Location = models.LocationLocalStore

	mockRepo.On("GetRequestTx", mock.Anything, 42).Return(request, nil).Once()
	mockLedger.On("GetItemTx", mock.Anything, 10).Return(item, nil).Once()
	mockLedger.On("AdjustStock", mock.Anything, 10, 1, models.TransactionIssued, 2).Return(nil).Once()
	mockLedger.On("RecordTransaction", mock.Anything, 10, mock.Anything).Return(nil).Once()
	mockRepo.On("UpdateRequest", mock.Anything, 42, mock.Anything, 1).Return(nil).Once()

	updated, err := service.PerformAction(42, ActionInput{
		Action:        ActionAllocate,
		PerformedBy:   5,
		Role:          roles.WSGStoreManager,
		AllocatedFrom: models.LocationWSGStore,
	})

	assert.NoError(t, err)
	assert.Equal(t, models.StatusAllocated, updated.Status)
	assert.Equal(t, models.LocationWSGStore, updated.AllocatedFrom)
	assert.NotNil(t, updated.AllocationDate)
}

func TestAllocateRequiresExactMatchOutsideWSG(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	mockLedger := new(MockLedgerRepository)
	service := newTestService(mockRepo, mockLedger)

	request := pendingRequest(models.RequestItem{ItemID: 10, Quantity: 1})
	request.Status = models.StatusForwardedToWSG

	item := wrenchItem(10, 5, 2)
	item.Location = models.LocationWSGStore

	mockRepo.On("GetRequestTx", mock.Anything, 42).Return(request, nil).Once()
	mockLedger.On("GetItemTx", mock.Anything, 10).Return(item, nil).Once()

	_, err := service.PerformAction(42, ActionInput{
		Action:        ActionAllocate,
		PerformedBy:   5,
		Role:          roles.WSGStoreManager,
		AllocatedFrom: models.LocationLocalStore,
	})

	var validation *apperrors.ValidationError
	assert.ErrorAs(t, err, &validation)
	mockLedger.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAllocateRejectsUnknownSource(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	mockLedger := new(MockLedgerRepository)
	service := newTestService(mockRepo, mockLedger)

	request := pendingRequest(models.RequestItem{ItemID: 10, Quantity: 1})
	request.Status = models.StatusForwardedToWSG

	mockRepo.On("GetRequestTx", mock.Anything, 42).Return(request, nil).Once()

	_, err := service.PerformAction(42, ActionInput{
		Action:        ActionAllocate,
		PerformedBy:   5,
		Role:          roles.WSGStoreManager,
		AllocatedFrom: models.LocationCOD,
	})

	var validation *apperrors.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestRolePolicy(t *testing.T) {
	tests := []struct {
		name    string
		action  Action
		role    roles.Role
		allowed bool
	}{
		{"local manager approves", ActionApprove, roles.LocalStoreManager, true},
		{"WSG manager cannot approve", ActionApprove, roles.WSGStoreManager, false},
		{"WSG manager allocates", ActionAllocate, roles.WSGStoreManager, true},
		{"local manager cannot allocate", ActionAllocate, roles.LocalStoreManager, false},
		{"admin allocates", ActionAllocate, roles.Admin, true},
		{"admin approves", ActionApprove, roles.Admin, true},
		{"either rejects", ActionReject, roles.WSGStoreManager, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.action.allowedForRole(tt.role))
		})
	}
}

func TestPerformActionForbiddenRole(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	mockLedger := new(MockLedgerRepository)
	service := newTestService(mockRepo, mockLedger)

	_, err := service.PerformAction(42, ActionInput{
		Action:      ActionAllocate,
		PerformedBy: 3,
		Role:        roles.LocalStoreManager,
	})

	var forbidden *apperrors.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)
	mockRepo.AssertNotCalled(t, "GetRequestTx", mock.Anything, mock.Anything)
}

func TestCancelDeactivatesRequest(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	mockLedger := new(MockLedgerRepository)
	service := newTestService(mockRepo, mockLedger)

	request := pendingRequest(models.RequestItem{ItemID: 10, Quantity: 1})

	var captured goqu.Record
	mockRepo.On("GetRequestTx", mock.Anything, 42).Return(request, nil).Once()
	mockRepo.On("UpdateRequest", mock.Anything, 42, mock.Anything, 1).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).(goqu.Record)
		}).
		Return(nil).Once()

	updated, err := service.PerformAction(42, ActionInput{
		Action:      ActionCancel,
		PerformedBy: 7,
		Role:        roles.LocalStoreManager,
	})

	assert.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, updated.Status)
	assert.False(t, updated.IsActive)
	assert.Equal(t, false, captured["is_active"])
	mockLedger.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCompleteStampsDelivery(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	mockLedger := new(MockLedgerRepository)
	service := newTestService(mockRepo, mockLedger)

	request := pendingRequest(models.RequestItem{ItemID: 10, Quantity: 1})
	request.Status = models.StatusAllocated

	mockRepo.On("GetRequestTx", mock.Anything, 42).Return(request, nil).Once()
	mockRepo.On("UpdateRequest", mock.Anything, 42, mock.Anything, 1).Return(nil).Once()

	updated, err := service.PerformAction(42, ActionInput{
		Action:      ActionComplete,
		PerformedBy: 3,
		Role:        roles.LocalStoreManager,
	})

	assert.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)
	assert.NotNil(t, updated.ActualDelivery)
	mockLedger.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
