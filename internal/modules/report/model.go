package report

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Guizaa22/2M-market/internal/apperr"
	"github.com/Guizaa22/2M-market/internal/modules/catalog"
)

// Period is the half-open interval [From, To).
type Period struct {
	Name string    `json:"name,omitempty"`
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func (p Period) Validate() error {
	if !p.From.Before(p.To) {
		return apperr.Invalid("period start must be before its end")
	}
	return nil
}

// PeriodFor returns the calendar period containing now. Weeks start on Monday.
func PeriodFor(name string, now time.Time) (Period, error) {
	y, m, _ := now.Date()
	day := startOfDay(now)
	name = strings.ToLower(strings.TrimSpace(name))

	switch name {
	case "today", "day":
		return Period{Name: "today", From: day, To: day.AddDate(0, 0, 1)}, nil
	case "week":
		offset := (int(day.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -offset)
		return Period{Name: name, From: start, To: start.AddDate(0, 0, 7)}, nil
	case "month":
		start := time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
		return Period{Name: name, From: start, To: start.AddDate(0, 1, 0)}, nil
	case "year":
		start := time.Date(y, time.January, 1, 0, 0, 0, 0, now.Location())
		return Period{Name: name, From: start, To: start.AddDate(1, 0, 0)}, nil
	}
	return Period{}, apperr.Invalid("unknown period %q (allowed: today, week, month, year)", name)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ProductStat aggregates the sales of one product.
type ProductStat struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
	Profit    decimal.Decimal `json:"profit"`
}

// CategoryRevenue is the revenue of one category. Uncategorised products
// are reported under an empty name.
type CategoryRevenue struct {
	Category string          `json:"category"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// DailyRevenue is one point of the revenue chart.
type DailyRevenue struct {
	Day     time.Time       `json:"day"`
	Revenue decimal.Decimal `json:"revenue"`
	Sales   int             `json:"sales"`
}

// Dashboard is the summary shown to the shop owner.
type Dashboard struct {
	Period        Period             `json:"period"`
	Revenue       decimal.Decimal    `json:"revenue"`
	Profit        decimal.Decimal    `json:"profit"`
	SalesCount    int                `json:"sales_count"`
	AverageBasket decimal.Decimal    `json:"average_basket"`
	TopByQuantity []ProductStat      `json:"top_by_quantity"`
	TopByProfit   []ProductStat      `json:"top_by_profit"`
	ByCategory    []CategoryRevenue  `json:"by_category"`
	Daily         []DailyRevenue     `json:"daily"`
	LowStockCount int                `json:"low_stock_count"`
	LowStock      []*catalog.Product `json:"low_stock"`
}
