package items

import (
	"errors"
	"fmt"

	"github.com/Ankitshrma25/IMS/internal/repository"
	"github.com/Ankitshrma25/IMS/pkg/apperrors"
	"github.com/Ankitshrma25/IMS/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type ItemRepository interface {
	CreateItem(tx *goqu.TxDatabase, item *models.Item) (int, error)
	ListItems(filter ItemFilter) ([]models.Item, error)
	SetCondition(tx *goqu.TxDatabase, itemID int, status models.ConditionStatus) error
}

// ItemFilter narrows catalog listings; zero values mean "any".
type ItemFilter struct {
	Category        models.Category
	Location        models.Location
	Section         string
	ConditionStatus models.ConditionStatus
	Search          string
	LowStock        bool
}

type itemRepository struct {
	repo *repository.Repository
}

func NewRepository(r *repository.Repository) ItemRepository {
	return &itemRepository{repo: r}
}

const uniqueViolationCode = "23505"

func (r *itemRepository) CreateItem(tx *goqu.TxDatabase, item *models.Item) (int, error) {
	record := goqu.Record{
		"name":             item.Name,
		"description":      item.Description,
		"category":         item.Category,
		"serial_number":    item.SerialNumber,
		"condition_status": item.ConditionStatus,
		"location":         item.Location,
		"stock_level":      item.StockLevel,
		"min_stock_level":  item.MinStockLevel,
		"unit":             item.Unit,
		"supplier":         item.Supplier,
		"cost":             item.Cost,
		"date_received":    item.DateReceived,
	}
	if item.Section != "" {
		record["section"] = item.Section
	}

	query := tx.Insert("items").Rows(record).Returning("id")

	var itemID int
	if _, err := query.Executor().ScanVal(&itemID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
			return 0, apperrors.NewDuplicateError("item with serial number %q already exists", item.SerialNumber)
		}
		return 0, fmt.Errorf("failed to insert item: %w", err)
	}

	return itemID, nil
}

func (r *itemRepository) ListItems(filter ItemFilter) ([]models.Item, error) {
	conditions := []goqu.Expression{goqu.Ex{"is_active": true}}
	if filter.Category != "" {
		conditions = append(conditions, goqu.Ex{"category": filter.Category})
	}
	if filter.Location != "" {
		conditions = append(conditions, goqu.Ex{"location": filter.Location})
	}
	if filter.Section != "" {
		conditions = append(conditions, goqu.Ex{"section": filter.Section})
	}
	if filter.ConditionStatus != "" {
		conditions = append(conditions, goqu.Ex{"condition_status": filter.ConditionStatus})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		conditions = append(conditions, goqu.Or(
			goqu.I("name").ILike(pattern),
			goqu.I("serial_number").ILike(pattern),
		))
	}
	if filter.LowStock {
		conditions = append(conditions, goqu.L("stock_level <= min_stock_level"))
	}

	query := r.repo.GoquDBWrapper.
		Select("id", "name", "description", "category", "serial_number",
			"condition_status", "location", "section", "stock_level",
			"min_stock_level", "unit", "supplier", "cost", "date_received",
			"last_issued", "is_active", "version").
		From("items").
		Where(conditions...).
		Order(goqu.I("name").Asc())

	var flats []models.FlatItemRecord
	if err := query.Executor().ScanStructs(&flats); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	items := make([]models.Item, 0, len(flats))
	for i := range flats {
		items = append(items, flats[i].TransformToItem())
	}

	return items, nil
}

// SetCondition bumps the version like every other item write, so a
// concurrent reader's later conditional update observes the change.
func (r *itemRepository) SetCondition(tx *goqu.TxDatabase, itemID int, status models.ConditionStatus) error {
	query := tx.Update("items").
		Set(goqu.Record{
			"condition_status": status,
			"version":          goqu.L("version + 1"),
			"updated_at":       goqu.L("NOW()"),
		}).
		Where(goqu.Ex{"id": itemID, "is_active": true})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update condition for item %d: %w", itemID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for item %d: %w", itemID, err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError("item", itemID)
	}

	return nil
}
