// Package ledger owns authoritative stock counts and the append-only
// transaction history of every item. Each item is its own unit of
// consistency: no ledger operation spans more than one item row.
package ledger

import (
	"fmt"

	"github.com/Ankitshrma25/IMS/internal/repository"
	"github.com/Ankitshrma25/IMS/pkg/apperrors"
	"github.com/Ankitshrma25/IMS/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type LedgerRepository interface {
	GetItem(itemID int) (*models.Item, error)
	GetItemTx(tx *goqu.TxDatabase, itemID int) (*models.Item, error)
	GetStockLevel(itemID int) (int, error)
	AdjustStock(tx *goqu.TxDatabase, itemID, quantity int, txnType models.TransactionType, expectedVersion int) error
	RecordTransaction(tx *goqu.TxDatabase, itemID int, txn models.Transaction) error
	ListTransactions(itemID int) ([]models.Transaction, error)
}

type ledgerRepository struct {
	repo *repository.Repository
}

func NewRepository(r *repository.Repository) LedgerRepository {
	return &ledgerRepository{repo: r}
}

var itemColumns = []interface{}{
	"id", "name", "description", "category", "serial_number",
	"condition_status", "location", "section", "stock_level",
	"min_stock_level", "unit", "supplier", "cost", "date_received",
	"last_issued", "is_active", "version",
}

func (r *ledgerRepository) GetItem(itemID int) (*models.Item, error) {
	return scanItem(r.repo.GoquDBWrapper.From("items"), itemID)
}

func (r *ledgerRepository) GetItemTx(tx *goqu.TxDatabase, itemID int) (*models.Item, error) {
	return scanItem(tx.From("items"), itemID)
}

func scanItem(dataset *goqu.SelectDataset, itemID int) (*models.Item, error) {
	var flat models.FlatItemRecord

	query := dataset.
		Select(itemColumns...).
		Where(goqu.Ex{"id": itemID, "is_active": true})

	found, err := query.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, apperrors.NewNotFoundError("item", itemID)
	}

	item := flat.TransformToItem()
	return &item, nil
}

func (r *ledgerRepository) GetStockLevel(itemID int) (int, error) {
	item, err := r.GetItem(itemID)
	if err != nil {
		return 0, err
	}
	return item.StockLevel, nil
}

// AdjustStock applies one stock movement as a single conditional UPDATE.
// Decreases clamp at zero so the non-negative invariant holds even if a
// caller slipped past its own guard. The version predicate implements the
// optimistic check: zero rows affected means a concurrent writer bumped
// the version since the caller read the item.
func (r *ledgerRepository) AdjustStock(tx *goqu.TxDatabase, itemID, quantity int, txnType models.TransactionType, expectedVersion int) error {
	if quantity <= 0 {
		return apperrors.NewValidationError("stock adjustment quantity must be positive, got %d", quantity)
	}

	record := goqu.Record{
		"version":    goqu.L("version + 1"),
		"updated_at": goqu.L("NOW()"),
	}
	if txnType.IncreasesStock() {
		record["stock_level"] = goqu.L("stock_level + ?", quantity)
	} else {
		record["stock_level"] = goqu.L("GREATEST(0, stock_level - ?)", quantity)
	}
	if txnType == models.TransactionIssued {
		record["last_issued"] = goqu.L("NOW()")
	}

	query := tx.Update("items").
		Set(record).
		Where(goqu.Ex{
			"id":        itemID,
			"is_active": true,
			"version":   expectedVersion,
		})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to adjust stock for item %d: %w", itemID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for item %d: %w", itemID, err)
	}
	if rowsAffected == 0 {
		return apperrors.NewConflictError("item", itemID)
	}

	return nil
}

// RecordTransaction appends a history row; it never changes the stock
// level itself, callers pair it with AdjustStock.
func (r *ledgerRepository) RecordTransaction(tx *goqu.TxDatabase, itemID int, txn models.Transaction) error {
	if !txn.Type.Valid() {
		return apperrors.NewValidationError("unknown transaction type %q", txn.Type)
	}
	if txn.Quantity <= 0 {
		return apperrors.NewValidationError("transaction quantity must be positive, got %d", txn.Quantity)
	}
	if txn.Reference == "" || txn.PerformedBy == "" {
		return apperrors.NewValidationError("transaction reference and performer are required")
	}

	var exists bool
	existsQuery := tx.From("items").
		Select(goqu.L("TRUE")).
		Where(goqu.Ex{"id": itemID, "is_active": true})
	if _, err := existsQuery.Executor().ScanVal(&exists); err != nil {
		return fmt.Errorf("failed to check item %d: %w", itemID, err)
	}
	if !exists {
		return apperrors.NewNotFoundError("item", itemID)
	}

	query := tx.Insert("item_transactions").
		Rows(goqu.Record{
			"item_id":      itemID,
			"type":         txn.Type,
			"quantity":     txn.Quantity,
			"reference":    txn.Reference,
			"notes":        txn.Notes,
			"performed_by": txn.PerformedBy,
		})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to insert transaction for item %d: %w", itemID, err)
	}

	return nil
}

func (r *ledgerRepository) ListTransactions(itemID int) ([]models.Transaction, error) {
	if _, err := r.GetItem(itemID); err != nil {
		return nil, err
	}

	var transactions []models.Transaction
	query := r.repo.GoquDBWrapper.
		Select("id", "item_id", "type", "quantity", "reference", "notes", "performed_by", "created_at").
		From("item_transactions").
		Where(goqu.Ex{"item_id": itemID}).
		Order(goqu.I("created_at").Asc(), goqu.I("id").Asc())

	if err := query.Executor().ScanStructs(&transactions); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return transactions, nil
}
