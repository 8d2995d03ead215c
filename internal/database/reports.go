package database

import (
	"time"

	"github.com/RokestarRubel11/khm-sales/internal/models"
)

// SalesReportResult holds the aggregated data the AI and dashboard need
type SalesReportResult struct {
	TotalRevenue float64
	TotalCount   int64
}

// GetSalesReport calculates sales within a date range. When salesman is
// non-empty the ledger is filtered to that agent's invoices only, which
// is what a SALESMAN role sees on their dashboard.
func GetSalesReport(start, end time.Time, salesman string) (*SalesReportResult, error) {
	var result SalesReportResult

	q := DB.Model(&models.Sale{}).Where("date BETWEEN ? AND ?", start, end)
	if salesman != "" {
		q = q.Where("sales_man = ?", salesman)
	}

	// COALESCE ensures we get 0 instead of NULL if no sales exist
	err := q.Select("COALESCE(SUM(total), 0)").Scan(&result.TotalRevenue).Error
	if err != nil {
		return nil, err
	}

	q = DB.Model(&models.Sale{}).Where("date BETWEEN ? AND ?", start, end)
	if salesman != "" {
		q = q.Where("sales_man = ?", salesman)
	}
	err = q.Count(&result.TotalCount).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}
