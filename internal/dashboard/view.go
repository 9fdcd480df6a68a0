package dashboard

import (
	"endurowallet/internal/core"
)

// Overview is the render-ready aggregate view of the current caches. Kinds
// that are not Ready contribute empty data rather than blocking the rest.
type Overview struct {
	TotalIncome        core.Money
	TotalSavings       core.Money
	TotalSpending      core.Money
	SpendingByCategory map[core.Category]core.Money
	IncomeByMonth      [12]core.Money

	// Diagnostics lists stored values excluded from the sums because they
	// were not numeric.
	Diagnostics core.Diagnostics
}

// Overview computes the dashboard aggregates for one year's month series.
// It is recomputed on demand from the caches; nothing is re-fetched.
func (c *Controller) Overview(year string) Overview {
	income := c.Income()
	transactions := c.Transactions()
	savers := c.Savers()

	var ov Overview
	ov.TotalIncome = core.TotalIncome(income.Records, &ov.Diagnostics)
	ov.TotalSavings = core.TotalSavings(savers.Records, &ov.Diagnostics)
	ov.TotalSpending = core.TotalSpending(transactions.Records, &ov.Diagnostics)
	ov.SpendingByCategory = core.SpendingByCategory(transactions.Records, &ov.Diagnostics)
	ov.IncomeByMonth = core.IncomeByMonth(income.Records, year, &ov.Diagnostics)
	return ov
}

// SaverBreakdown groups the cached saver goals by name. The caller can then
// toggle between the amount and goal dimensions without touching the store.
func (c *Controller) SaverBreakdown() *core.SaverBreakdown {
	savers := c.Savers()
	return core.BreakdownSavers(savers.Records)
}
