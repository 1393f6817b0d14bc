package requests

import (
	"github.com/Ankitshrma25/IMS/pkg/models"
	"github.com/Ankitshrma25/IMS/pkg/roles"
)

// Action is a named workflow step submitted against a request.
type Action string

const (
	ActionApprove      Action = "approve"
	ActionReject       Action = "reject"
	ActionForwardToWSG Action = "forwardToWSG"
	ActionForwardToCOD Action = "forwardToCOD"
	ActionAllocate     Action = "allocate"
	ActionComplete     Action = "complete"
	ActionCancel       Action = "cancel"
)

// actionSources lists the statuses an action may fire from. A nil entry
// means any non-terminal status; the terminal guard runs first either way.
var actionSources = map[Action][]models.RequestStatus{
	ActionApprove:      {models.StatusPending},
	ActionReject:       nil,
	ActionForwardToWSG: {models.StatusPending},
	ActionForwardToCOD: {models.StatusPending, models.StatusForwardedToWSG},
	ActionAllocate:     {models.StatusForwardedToWSG},
	ActionComplete:     {models.StatusAllocated},
	ActionCancel:       {models.StatusPending, models.StatusForwardedToWSG},
}

// actionRoles is the explicit action-to-role policy the engine checks
// before the transition guard. Admin passes everything.
var actionRoles = map[Action][]roles.Role{
	ActionApprove:      {roles.LocalStoreManager},
	ActionReject:       {roles.LocalStoreManager, roles.WSGStoreManager},
	ActionForwardToWSG: {roles.LocalStoreManager},
	ActionForwardToCOD: {roles.LocalStoreManager, roles.WSGStoreManager},
	ActionAllocate:     {roles.WSGStoreManager},
	ActionComplete:     {roles.LocalStoreManager, roles.WSGStoreManager},
	ActionCancel:       {roles.LocalStoreManager, roles.WSGStoreManager},
}

func (a Action) Known() bool {
	_, ok := actionSources[a]
	return ok
}

func (a Action) allowedFrom(status models.RequestStatus) bool {
	if status.Terminal() {
		return false
	}
	sources, ok := actionSources[a]
	if !ok {
		return false
	}
	if sources == nil {
		return true
	}
	for _, s := range sources {
		if s == status {
			return true
		}
	}
	return false
}

func (a Action) allowedForRole(role roles.Role) bool {
	if role == roles.Admin {
		return true
	}
	for _, r := range actionRoles[a] {
		if r == role {
			return true
		}
	}
	return false
}
