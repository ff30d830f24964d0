package model

import "sort"

// ExpenseCategories are the categories the expense form offers.
var ExpenseCategories = []string{
	"Rent", "Salaries", "Utilities", "Stationery",
	"Marketing", "Maintenance", "Equipment", "Miscellaneous",
}

// Expense is one row of the expenses sheet.
type Expense struct {
	ExpenseID   string `json:"ExpenseID"`
	Date        string `json:"Date"`
	Category    string `json:"Category"`
	Description string `json:"Description,omitempty"`
	Amount      Number `json:"Amount"`
	PaymentMode string `json:"PaymentMode,omitempty"`
	AddedBy     string `json:"AddedBy,omitempty"`
}

// ExpenseKey is the cache key for expenses.
func ExpenseKey(e Expense) string { return e.ExpenseID }

// TotalExpenses sums the expense amounts.
func TotalExpenses(expenses []Expense) Number {
	var total Number
	for _, e := range expenses {
		total += e.Amount
	}
	return total
}

// ExpenseSummary is the yearly roll-up returned by getExpenseSummary.
type ExpenseSummary struct {
	Total      Number            `json:"total"`
	ByCategory map[string]Number `json:"byCategory"`
}

// CategoryShare is one category's slice of the yearly total.
type CategoryShare struct {
	Category string
	Amount   Number
	Percent  int
}

// Breakdown lists categories by amount, largest first. Ties are ordered by
// name so the output is stable.
func (s ExpenseSummary) Breakdown() []CategoryShare {
	out := make([]CategoryShare, 0, len(s.ByCategory))
	total := s.Total
	if total <= 0 {
		total = 1
	}
	for cat, amt := range s.ByCategory {
		out = append(out, CategoryShare{
			Category: cat,
			Amount:   amt,
			Percent:  int(amt.Float()/total.Float()*100 + 0.5),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// TopCategory returns the category with the largest amount, or "" if there
// is none.
func (s ExpenseSummary) TopCategory() string {
	b := s.Breakdown()
	if len(b) == 0 {
		return ""
	}
	return b[0].Category
}
