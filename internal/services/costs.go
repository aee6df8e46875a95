package services

import (
	"sort"
	"strings"

	"fleetplus/internal/core"
)

// uncategorized groups expenses with an empty category in the per-category
// breakdown.
const uncategorized = "uncategorized"

// Aggregate totals a vehicle's two cost ledgers. Expenses and invoices are
// never deduplicated against each other: an expense amount is the actual
// out-of-pocket cost while its linked invoice total may span several expenses
// or vehicles, so the two sums stay independent and meet only at the grand
// total. Only invoices whose plate matches the target vehicle count, which
// keeps invoices attached to other vehicles' expenses out of this total.
// Absent amounts count as zero.
func Aggregate(plate string, expenses []core.Expense, invoices []core.Invoice) core.CostSummary {
	plate = core.NormalizePlate(plate)

	var summary core.CostSummary
	byCategory := make(map[string]int64)

	for _, e := range expenses {
		summary.TotalExpenses.Cents += e.Amount.Cents
		name := strings.TrimSpace(e.Category)
		if name == "" {
			name = uncategorized
		}
		byCategory[name] += e.Amount.Cents
	}

	for _, inv := range invoices {
		if core.NormalizePlate(inv.Plate) != plate {
			continue
		}
		summary.TotalInvoices.Cents += inv.Total.Cents
	}

	summary.GrandTotal = summary.TotalExpenses.Add(summary.TotalInvoices)

	for name, cents := range byCategory {
		summary.ByCategory = append(summary.ByCategory, core.CategoryAmount{
			Name:   name,
			Amount: core.Money{Cents: cents},
		})
	}
	sort.Slice(summary.ByCategory, func(i, j int) bool {
		a, b := summary.ByCategory[i], summary.ByCategory[j]
		if a.Amount.Cents != b.Amount.Cents {
			return a.Amount.Cents > b.Amount.Cents
		}
		return a.Name < b.Name
	})

	return summary
}
