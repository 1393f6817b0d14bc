package auditlog

import (
	"github.com/Ankitshrma25/IMS/pkg/models"

	"go.uber.org/zap"
)

// Auditable is anything that can describe itself as an audit-log row.
type Auditable interface {
	CreateLogView() models.AuditLog
}

type AuditRepository interface {
	PersistLog(entry models.AuditLog, data interface{}) error
}

type Auditlog struct {
	r   AuditRepository
	log *zap.Logger
}

func NewAuditLog(repository AuditRepository, log *zap.Logger) *Auditlog {
	return &Auditlog{r: repository, log: log}
}

// Log appends one audit entry. Failures are logged and swallowed: the
// audit trail must never fail the operation it describes.
func (a *Auditlog) Log(action string, data interface{}, item Auditable) {
	entry := item.CreateLogView()
	entry.Action = action

	if err := a.r.PersistLog(entry, data); err != nil {
		a.log.Warn("unable to create audit log entry",
			zap.Int("resource_id", entry.ResourceID),
			zap.String("resource_type", entry.ResourceType),
			zap.Error(err),
		)
		return
	}

	a.log.Debug("audit log entry created",
		zap.Int("resource_id", entry.ResourceID),
		zap.String("action", action),
	)
}
