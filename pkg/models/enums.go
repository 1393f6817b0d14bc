package models

// Location identifies one tier of the store hierarchy.
type Location string

const (
	LocationLocalStore Location = "localStore"
	LocationWSGStore   Location = "wsgStore"
	LocationCOD        Location = "cod"
)

func (l Location) Valid() bool {
	switch l {
	case LocationLocalStore, LocationWSGStore, LocationCOD:
		return true
	}
	return false
}

type Category string

const (
	CategoryOrdnance Category = "ORDNANCE"
	CategoryDGEME    Category = "DGEME"
	CategoryPMSE     Category = "PMSE"
	CategoryTTG      Category = "TTG"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryOrdnance, CategoryDGEME, CategoryPMSE, CategoryTTG:
		return true
	}
	return false
}

type ConditionStatus string

const (
	ConditionServiceable   ConditionStatus = "serviceable"
	ConditionUnserviceable ConditionStatus = "unserviceable"
	ConditionOBT           ConditionStatus = "OBT"
	ConditionOBE           ConditionStatus = "OBE"
)

func (s ConditionStatus) Valid() bool {
	switch s {
	case ConditionServiceable, ConditionUnserviceable, ConditionOBT, ConditionOBE:
		return true
	}
	return false
}

// TransactionType classifies one ledger movement.
type TransactionType string

const (
	TransactionReceived   TransactionType = "received"
	TransactionIssued     TransactionType = "issued"
	TransactionReturned   TransactionType = "returned"
	TransactionDamaged    TransactionType = "damaged"
	TransactionCalibrated TransactionType = "calibrated"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionReceived, TransactionIssued, TransactionReturned,
		TransactionDamaged, TransactionCalibrated:
		return true
	}
	return false
}

// IncreasesStock reports whether the movement adds to the stock level.
// Calibration is stock-neutral and is treated as neither here; callers
// skip the adjustment for it.
func (t TransactionType) IncreasesStock() bool {
	return t == TransactionReceived || t == TransactionReturned
}

// RequestStatus is one state of the request workflow.
type RequestStatus string

const (
	StatusPending        RequestStatus = "pending"
	StatusApproved       RequestStatus = "approved"
	StatusRejected       RequestStatus = "rejected"
	StatusForwardedToWSG RequestStatus = "forwardedToWSG"
	StatusAllocated      RequestStatus = "allocated"
	StatusForwardedToCOD RequestStatus = "forwardedToCOD"
	StatusCompleted      RequestStatus = "completed"
	StatusCancelled      RequestStatus = "cancelled"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusForwardedToWSG,
		StatusAllocated, StatusForwardedToCOD, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further workflow action may fire.
func (s RequestStatus) Terminal() bool {
	switch s {
	case StatusRejected, StatusCompleted, StatusForwardedToCOD, StatusCancelled:
		return true
	}
	return false
}

// Rank gives the listing order: actionable states first, closed ones
// last. Must stay in step with the SQL ordering used by request listings.
func (s RequestStatus) Rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusForwardedToWSG:
		return 1
	case StatusApproved:
		return 2
	case StatusAllocated:
		return 3
	case StatusForwardedToCOD:
		return 4
	case StatusCompleted:
		return 5
	case StatusRejected:
		return 6
	default:
		return 7
	}
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}
