package stats

import (
	"fmt"
	"net/http"

	"github.com/Ankitshrma25/IMS/internal/repository"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
)

// Dashboard is the single payload the front page renders from.
type Dashboard struct {
	TotalItems      int            `json:"total_items"`
	LowStockItems   int            `json:"low_stock_items"`
	TotalStockValue float64        `json:"total_stock_value"`
	ItemsByLocation map[string]int `json:"items_by_location"`
	ActiveRequests  int            `json:"active_requests"`
	PendingRequests int            `json:"pending_requests"`
	RequestsByState map[string]int `json:"requests_by_status"`
}

type StatsHandler struct {
	Repository *repository.Repository
}

func RegisterRoutes(router gin.IRoutes, r *repository.Repository) {
	handler := StatsHandler{Repository: r}

	router.GET("/stats", handler.GetDashboard)
}

func (h *StatsHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.collect()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to collect stats", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

func (h *StatsHandler) collect() (*Dashboard, error) {
	db := h.Repository.GoquDBWrapper
	dashboard := &Dashboard{
		ItemsByLocation: map[string]int{},
		RequestsByState: map[string]int{},
	}

	type itemTotals struct {
		Count      int     `db:"count"`
		LowStock   int     `db:"low_stock"`
		StockValue float64 `db:"stock_value"`
	}
	var totals itemTotals

	itemsQuery := db.From("items").
		Select(
			goqu.L("COUNT(*)").As("count"),
			goqu.L("COUNT(*) FILTER (WHERE stock_level <= min_stock_level)").As("low_stock"),
			goqu.L("COALESCE(SUM(stock_level * cost), 0)").As("stock_value"),
		).
		Where(goqu.Ex{"is_active": true})

	if _, err := itemsQuery.Executor().ScanStruct(&totals); err != nil {
		return nil, fmt.Errorf("failed to aggregate items: %w", err)
	}
	dashboard.TotalItems = totals.Count
	dashboard.LowStockItems = totals.LowStock
	dashboard.TotalStockValue = totals.StockValue

	type grouped struct {
		Key   string `db:"key"`
		Count int    `db:"count"`
	}

	var byLocation []grouped
	locationQuery := db.From("items").
		Select(goqu.I("location").As("key"), goqu.L("COUNT(*)").As("count")).
		Where(goqu.Ex{"is_active": true}).
		GroupBy("location")
	if err := locationQuery.Executor().ScanStructs(&byLocation); err != nil {
		return nil, fmt.Errorf("failed to group items by location: %w", err)
	}
	for _, row := range byLocation {
		dashboard.ItemsByLocation[row.Key] = row.Count
	}

	var byStatus []grouped
	statusQuery := db.From("requests").
		Select(goqu.I("status").As("key"), goqu.L("COUNT(*)").As("count")).
		Where(goqu.Ex{"is_active": true}).
		GroupBy("status")
	if err := statusQuery.Executor().ScanStructs(&byStatus); err != nil {
		return nil, fmt.Errorf("failed to group requests by status: %w", err)
	}
	for _, row := range byStatus {
		dashboard.RequestsByState[row.Key] = row.Count
		dashboard.ActiveRequests += row.Count
	}
	dashboard.PendingRequests = dashboard.RequestsByState["pending"]

	return dashboard, nil
}
