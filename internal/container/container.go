package container

import (
	"database/sql"

	auditLogRepo "github.com/Ankitshrma25/IMS/internal/auditlog"
	"github.com/Ankitshrma25/IMS/internal/items"
	"github.com/Ankitshrma25/IMS/internal/ledger"
	"github.com/Ankitshrma25/IMS/internal/repository"
	"github.com/Ankitshrma25/IMS/internal/requests"
	"github.com/Ankitshrma25/IMS/internal/users"
	"github.com/Ankitshrma25/IMS/pkg/auditlog"
	"github.com/Ankitshrma25/IMS/pkg/security"

	"go.uber.org/zap"
)

type Container struct {
	Repository     *repository.Repository
	AuditLog       *auditlog.Auditlog
	LoginHandler   *security.LoginHandler
	Ledger         ledger.LedgerRepository
	ItemRepository items.ItemRepository
	RequestService *requests.RequestService
	UserHandler    *users.UsersHandler
	Log            *zap.Logger
}

func NewAppContainer(db *sql.DB, log *zap.Logger) *Container {
	repo := repository.NewRepository(db)
	auditRepo := auditLogRepo.NewRepository(repo)
	auditLog := auditlog.NewAuditLog(auditRepo, log)

	ledgerRepo := ledger.NewRepository(repo)
	itemRepo := items.NewRepository(repo)
	requestRepo := requests.NewRepository(repo)
	requestService := requests.NewService(repo, requestRepo, ledgerRepo, log)

	userRepo := users.NewRepository(repo)
	userHandler := users.NewHandler(userRepo)
	loginHandler := security.NewLoginHandler(repo)

	return &Container{
		Repository:     repo,
		AuditLog:       auditLog,
		LoginHandler:   loginHandler,
		Ledger:         ledgerRepo,
		ItemRepository: itemRepo,
		RequestService: requestService,
		UserHandler:    userHandler,
		Log:            log,
	}
}
