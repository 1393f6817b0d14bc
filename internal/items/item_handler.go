package items

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Ankitshrma25/IMS/internal/ledger"
	"github.com/Ankitshrma25/IMS/pkg/apperrors"
	"github.com/Ankitshrma25/IMS/pkg/auditlog"
	"github.com/Ankitshrma25/IMS/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
)

// TxRunner is the transaction seam; *repository.Repository satisfies it.
type TxRunner interface {
	WithTx(fn func(tx *goqu.TxDatabase) error) error
}

type ItemHandler struct {
	Repository ItemRepository
	Ledger     ledger.LedgerRepository
	Tx         TxRunner
	AuditLog   *auditlog.Auditlog
}

func RegisterRoutes(router gin.IRoutes, r ItemRepository, l ledger.LedgerRepository, tx TxRunner, a *auditlog.Auditlog) {
	handler := ItemHandler{
		Repository: r,
		Ledger:     l,
		Tx:         tx,
		AuditLog:   a,
	}

	router.GET("/items", handler.ListItems)
	router.POST("/items", handler.CreateItem)
	router.GET("/items/:id", handler.GetItem)
	router.GET("/items/:id/transactions", handler.ListTransactions)
	router.POST("/items/:id/transactions", handler.RecordTransaction)
	router.PATCH("/items/:id/stock", handler.AdjustStock)
}

type createItemPayload struct {
	Name            string  `json:"name" binding:"required"`
	Description     string  `json:"description"`
	Category        string  `json:"category" binding:"required"`
	SerialNumber    string  `json:"serial_number" binding:"required"`
	ConditionStatus string  `json:"condition_status"`
	Location        string  `json:"location" binding:"required"`
	Section         string  `json:"section"`
	StockLevel      int     `json:"stock_level"`
	MinStockLevel   int     `json:"min_stock_level"`
	Unit            string  `json:"unit" binding:"required"`
	Supplier        string  `json:"supplier"`
	Cost            float64 `json:"cost"`
}

func (h *ItemHandler) CreateItem(c *gin.Context) {
	var payload createItemPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	item := models.Item{
		Name:            payload.Name,
		Description:     payload.Description,
		Category:        models.Category(payload.Category),
		SerialNumber:    payload.SerialNumber,
		ConditionStatus: models.ConditionStatus(payload.ConditionStatus),
		Location:        models.Location(payload.Location),
		Section:         payload.Section,
		StockLevel:      payload.StockLevel,
		MinStockLevel:   payload.MinStockLevel,
		Unit:            payload.Unit,
		Supplier:        payload.Supplier,
		Cost:            payload.Cost,
		DateReceived:    time.Now(),
		IsActive:        true,
	}
	if item.ConditionStatus == "" {
		item.ConditionStatus = models.ConditionServiceable
	}

	if err := validateNewItem(&item); err != nil {
		respondError(c, err)
		return
	}

	performer := performerFromContext(c)

	err := h.Tx.WithTx(func(tx *goqu.TxDatabase) error {
		itemID, err := h.Repository.CreateItem(tx, &item)
		if err != nil {
			return err
		}
		item.ID = itemID

		// Opening stock shows up in the history like any other receipt.
		if item.StockLevel > 0 {
			return h.Ledger.RecordTransaction(tx, itemID, models.Transaction{
				Type:        models.TransactionReceived,
				Quantity:    item.StockLevel,
				Reference:   "INTAKE",
				Notes:       "Opening stock at intake",
				PerformedBy: performer,
			})
		}

		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	go h.AuditLog.Log("item_created", map[string]interface{}{
		"serial_number": item.SerialNumber,
		"location":      item.Location,
		"stock_level":   item.StockLevel,
	}, &item)

	c.JSON(http.StatusCreated, item)
}

func validateNewItem(item *models.Item) error {
	if !item.Category.Valid() {
		return apperrors.NewValidationError("unknown category %q", item.Category)
	}
	if !item.Location.Valid() {
		return apperrors.NewValidationError("unknown location %q", item.Location)
	}
	if !item.ConditionStatus.Valid() {
		return apperrors.NewValidationError("unknown condition status %q", item.ConditionStatus)
	}
	if item.StockLevel < 0 || item.MinStockLevel < 0 {
		return apperrors.NewValidationError("stock levels cannot be negative")
	}
	if item.Cost < 0 {
		return apperrors.NewValidationError("cost cannot be negative")
	}

	// Section identifies the owning workshop section and only exists on
	// the local-store tier.
	if item.Location == models.LocationLocalStore && item.Section == "" {
		return apperrors.NewValidationError("local store items require a section")
	}
	if item.Location != models.LocationLocalStore && item.Section != "" {
		return apperrors.NewValidationError("only local store items carry a section")
	}

	return nil
}

func (h *ItemHandler) GetItem(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	item, err := h.Ledger.GetItem(itemID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) ListItems(c *gin.Context) {
	filter := ItemFilter{
		Category:        models.Category(c.Query("category")),
		Location:        models.Location(c.Query("location")),
		Section:         c.Query("section"),
		ConditionStatus: models.ConditionStatus(c.Query("condition_status")),
		Search:          c.Query("search"),
		LowStock:        c.Query("low_stock") == "true",
	}

	items, err := h.Repository.ListItems(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *ItemHandler) ListTransactions(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	transactions, err := h.Ledger.ListTransactions(itemID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactions)
}

type transactionPayload struct {
	Type      string `json:"type" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
	Reference string `json:"reference" binding:"required"`
	Notes     string `json:"notes"`
}

// RecordTransaction applies one direct ledger movement outside the request
// workflow: stock adjustment, history row and, for damaged goods, the
// condition flip, all in one transaction.
func (h *ItemHandler) RecordTransaction(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var payload transactionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	txnType := models.TransactionType(payload.Type)
	if !txnType.Valid() {
		respondError(c, apperrors.NewValidationError("unknown transaction type %q", payload.Type))
		return
	}

	var item *models.Item

	err = h.Tx.WithTx(func(tx *goqu.TxDatabase) error {
		current, err := h.Ledger.GetItemTx(tx, itemID)
		if err != nil {
			return err
		}

		// Calibration is stock-neutral, it only leaves a history row.
		if txnType != models.TransactionCalibrated {
			if err := h.Ledger.AdjustStock(tx, itemID, payload.Quantity, txnType, current.Version); err != nil {
				return err
			}
		}

		if err := h.Ledger.RecordTransaction(tx, itemID, models.Transaction{
			Type:        txnType,
			Quantity:    payload.Quantity,
			Reference:   payload.Reference,
			Notes:       payload.Notes,
			PerformedBy: performerFromContext(c),
		}); err != nil {
			return err
		}

		if txnType == models.TransactionDamaged {
			if err := h.Repository.SetCondition(tx, itemID, models.ConditionUnserviceable); err != nil {
				return err
			}
		}

		item = current
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.Ledger.GetItem(itemID)
	if err != nil {
		respondError(c, err)
		return
	}

	go h.AuditLog.Log("item_"+payload.Type, map[string]interface{}{
		"quantity":  payload.Quantity,
		"reference": payload.Reference,
	}, item)

	c.JSON(http.StatusOK, updated)
}

type stockAdjustmentPayload struct {
	Action   string `json:"action" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
	Notes    string `json:"notes"`
}

// AdjustStock is the manual correction surface: add maps to a received
// movement, remove to an issued one, both recorded in the history.
func (h *ItemHandler) AdjustStock(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var payload stockAdjustmentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	var txnType models.TransactionType
	switch payload.Action {
	case "add":
		txnType = models.TransactionReceived
	case "remove":
		txnType = models.TransactionIssued
	default:
		respondError(c, apperrors.NewValidationError("adjustment action must be add or remove, got %q", payload.Action))
		return
	}

	var item *models.Item

	err = h.Tx.WithTx(func(tx *goqu.TxDatabase) error {
		current, err := h.Ledger.GetItemTx(tx, itemID)
		if err != nil {
			return err
		}

		if err := h.Ledger.AdjustStock(tx, itemID, payload.Quantity, txnType, current.Version); err != nil {
			return err
		}

		if err := h.Ledger.RecordTransaction(tx, itemID, models.Transaction{
			Type:        txnType,
			Quantity:    payload.Quantity,
			Reference:   "ADJUSTMENT",
			Notes:       payload.Notes,
			PerformedBy: performerFromContext(c),
		}); err != nil {
			return err
		}

		item = current
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.Ledger.GetItem(itemID)
	if err != nil {
		respondError(c, err)
		return
	}

	go h.AuditLog.Log("item_stock_adjusted", map[string]interface{}{
		"action":   payload.Action,
		"quantity": payload.Quantity,
	}, item)

	c.JSON(http.StatusOK, updated)
}

func respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		c.AbortWithStatusJSON(status, gin.H{"error": "Internal server error", "details": err.Error()})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func performerFromContext(c *gin.Context) string {
	if value, exists := c.Get("username"); exists {
		if s, ok := value.(string); ok && s != "" {
			return s
		}
	}
	return "system"
}
