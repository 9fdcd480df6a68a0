package core

// Kind identifies one of the per-user record collections. Its value is the
// sub-collection name used by the store adapters.
type Kind string

const (
	KindIncome       Kind = "income"
	KindTransactions Kind = "transactions"
	KindSavers       Kind = "savers"

	// KindProfile holds the user's own profile document, written at sign-up.
	// It is not part of the dashboard record kinds.
	KindProfile Kind = "profile"
)

// Kinds returns the financial record kinds in dashboard order.
func Kinds() []Kind {
	return []Kind{KindIncome, KindTransactions, KindSavers}
}

// IsValid returns true for a known record kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindIncome, KindTransactions, KindSavers, KindProfile:
		return true
	default:
		return false
	}
}

// IDField is the document field that mirrors the store-assigned record id.
func (k Kind) IDField() string {
	switch k {
	case KindIncome:
		return "incomeId"
	case KindTransactions:
		return "transactionId"
	case KindSavers:
		return "saverId"
	default:
		return "id"
	}
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}

// Month is a lowercase three-letter month code.
type Month string

const (
	Jan Month = "jan"
	Feb Month = "feb"
	Mar Month = "mar"
	Apr Month = "apr"
	May Month = "may"
	Jun Month = "jun"
	Jul Month = "jul"
	Aug Month = "aug"
	Sep Month = "sep"
	Oct Month = "oct"
	Nov Month = "nov"
	Dec Month = "dec"
)

var monthOrder = []Month{Jan, Feb, Mar, Apr, May, Jun, Jul, Aug, Sep, Oct, Nov, Dec}

// Months returns the twelve month codes in calendar order.
func Months() []Month {
	out := make([]Month, len(monthOrder))
	copy(out, monthOrder)
	return out
}

// IsValid returns true for one of the twelve month codes.
func (m Month) IsValid() bool {
	return m.Index() != 0
}

// Index returns the calendar position 1-12, or 0 for an unknown code.
func (m Month) Index() int {
	for i, known := range monthOrder {
		if m == known {
			return i + 1
		}
	}
	return 0
}

// Category is a spending category code.
type Category string

const (
	CategoryGroceries Category = "groceries"
	CategoryShopping  Category = "shopping"
	CategoryMisc      Category = "misc"
	CategoryHobbies   Category = "hobbies"
	CategoryBills     Category = "bills"
	CategoryRent      Category = "rent"
)

// Categories returns the fixed spending category set.
func Categories() []Category {
	return []Category{
		CategoryGroceries, CategoryShopping, CategoryMisc,
		CategoryHobbies, CategoryBills, CategoryRent,
	}
}

// IsValid returns true for a member of the fixed category set.
func (c Category) IsValid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Record is any stored financial record.
type Record interface {
	RecordID() string
}

// Income is one income entry. Field names mirror the persisted document
// layout, including the self-referential id.
type Income struct {
	ID     string `json:"incomeId"`
	Amount Amount `json:"incomeAmount"`
	Month  Month  `json:"incomeMonth"`
	Year   string `json:"incomeYear"`
}

// RecordID implements Record.
func (i Income) RecordID() string { return i.ID }

// Transaction is one spending entry.
type Transaction struct {
	ID       string   `json:"transactionId"`
	Value    Amount   `json:"transactionValue"`
	Category Category `json:"transactionCategory"`
	Month    Month    `json:"transactionMonth"`
	Year     string   `json:"transactionYear"`
}

// RecordID implements Record.
func (t Transaction) RecordID() string { return t.ID }

// SaverGoal is a named savings goal with the amount saved so far.
type SaverGoal struct {
	ID     string `json:"saverId"`
	Name   string `json:"saverName"`
	Goal   Amount `json:"saverGoal"`
	Amount Amount `json:"saverAmount"`
}

// RecordID implements Record.
func (s SaverGoal) RecordID() string { return s.ID }
