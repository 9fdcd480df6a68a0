package core

// SkippedField records one numeric field excluded from an aggregate because
// the stored value was not a number.
type SkippedField struct {
	RecordID string
	Field    string
	Raw      string
}

// Diagnostics collects fields skipped while aggregating. Malformed stored
// values degrade the aggregate instead of aborting it; the caller decides
// whether to log or surface the skips.
type Diagnostics struct {
	Skipped []SkippedField
}

func (d *Diagnostics) skip(recordID, field, raw string) {
	if d == nil {
		return
	}
	d.Skipped = append(d.Skipped, SkippedField{RecordID: recordID, Field: field, Raw: raw})
}

// SumField sums one numeric field across records. An empty slice sums to
// zero, and the result does not depend on record order. Records whose field
// is invalid are skipped and reported through diag (which may be nil).
func SumField[T Record](records []T, field string, sel func(T) Amount, diag *Diagnostics) Money {
	var total Money
	for _, r := range records {
		a := sel(r)
		if !a.Valid {
			diag.skip(r.RecordID(), field, a.Raw)
			continue
		}
		total.Cents += a.Money.Cents
	}
	return total
}

// TotalIncome sums the amount field over income records.
func TotalIncome(records []Income, diag *Diagnostics) Money {
	return SumField(records, "incomeAmount", func(i Income) Amount { return i.Amount }, diag)
}

// TotalSavings sums the saved amount over saver goals.
func TotalSavings(records []SaverGoal, diag *Diagnostics) Money {
	return SumField(records, "saverAmount", func(s SaverGoal) Amount { return s.Amount }, diag)
}

// TotalSpending sums the value field over transactions.
func TotalSpending(records []Transaction, diag *Diagnostics) Money {
	return SumField(records, "transactionValue", func(t Transaction) Amount { return t.Value }, diag)
}

// GroupBy sums one numeric field per grouping key. Keys with only invalid
// values still appear in the result with a zero total, so the key set is
// determined by the records alone, never by the value dimension.
func GroupBy[T Record, K comparable](records []T, field string, key func(T) K, sel func(T) Amount, diag *Diagnostics) map[K]Money {
	out := make(map[K]Money, len(records))
	for _, r := range records {
		k := key(r)
		total := out[k]
		a := sel(r)
		if !a.Valid {
			diag.skip(r.RecordID(), field, a.Raw)
			out[k] = total
			continue
		}
		total.Cents += a.Money.Cents
		out[k] = total
	}
	return out
}

// SpendingByCategory totals transaction values per category.
func SpendingByCategory(records []Transaction, diag *Diagnostics) map[Category]Money {
	return GroupBy(records, "transactionValue",
		func(t Transaction) Category { return t.Category },
		func(t Transaction) Amount { return t.Value },
		diag)
}

// IncomeByMonth returns a 12-slot series of income totals for one year,
// indexed jan..dec, ready for a year-overview chart.
func IncomeByMonth(records []Income, year string, diag *Diagnostics) [12]Money {
	var series [12]Money
	for _, r := range records {
		if r.Year != year {
			continue
		}
		idx := r.Month.Index()
		if idx == 0 {
			continue
		}
		if !r.Amount.Valid {
			diag.skip(r.ID, "incomeAmount", r.Amount.Raw)
			continue
		}
		series[idx-1].Cents += r.Amount.Money.Cents
	}
	return series
}

// SaverField selects which numeric dimension of a saver goal feeds a
// breakdown.
type SaverField string

const (
	SaverAmountField SaverField = "saverAmount"
	SaverGoalField   SaverField = "saverGoal"
)

// IsValid returns true for one of the two saver dimensions.
func (f SaverField) IsValid() bool {
	return f == SaverAmountField || f == SaverGoalField
}

type saverGroup struct {
	name   string
	ids    []string
	amount Amount
	goal   Amount
}

// SaverBreakdown groups saver goals by name once and lets the caller swap
// the value dimension (amount vs goal) without regrouping or refetching.
type SaverBreakdown struct {
	groups []saverGroup
}

// BreakdownSavers builds the name grouping for a set of saver goals.
// Duplicate names accumulate into one group.
func BreakdownSavers(records []SaverGoal) *SaverBreakdown {
	b := &SaverBreakdown{}
	index := make(map[string]int, len(records))
	for _, s := range records {
		i, ok := index[s.Name]
		if !ok {
			index[s.Name] = len(b.groups)
			b.groups = append(b.groups, saverGroup{
				name:   s.Name,
				ids:    []string{s.ID},
				amount: s.Amount,
				goal:   s.Goal,
			})
			continue
		}
		g := &b.groups[i]
		g.ids = append(g.ids, s.ID)
		g.amount = addAmount(g.amount, s.Amount)
		g.goal = addAmount(g.goal, s.Goal)
	}
	return b
}

// addAmount accumulates b into a. An invalid operand poisons the group total
// for that dimension; the raw text of the first invalid value is kept.
func addAmount(a, b Amount) Amount {
	if !a.Valid {
		return a
	}
	if !b.Valid {
		return b
	}
	return AmountOf(Money{Cents: a.Money.Cents + b.Money.Cents})
}

// Names returns the group keys in first-seen order.
func (b *SaverBreakdown) Names() []string {
	names := make([]string, len(b.groups))
	for i, g := range b.groups {
		names[i] = g.name
	}
	return names
}

// Values returns the per-name totals for the chosen dimension. The key set
// is identical for both dimensions; only the values change. Groups whose
// stored value is malformed contribute zero and are reported through diag.
func (b *SaverBreakdown) Values(field SaverField, diag *Diagnostics) map[string]Money {
	out := make(map[string]Money, len(b.groups))
	for _, g := range b.groups {
		a := g.amount
		if field == SaverGoalField {
			a = g.goal
		}
		if !a.Valid {
			for _, id := range g.ids {
				diag.skip(id, string(field), a.Raw)
			}
			out[g.name] = Money{}
			continue
		}
		out[g.name] = a.Money
	}
	return out
}
