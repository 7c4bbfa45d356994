package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Total is an exact sum of cents. It does not overflow no matter how many
// entries are added, unlike Money which is bounded by int64.
type Total struct {
	cents decimal.Decimal
}

// NewTotal starts a total at cents.
func NewTotal(cents int64) Total {
	return Total{cents: decimal.NewFromInt(cents)}
}

// AddMoney returns t plus m.
func (t Total) AddMoney(m Money) Total {
	return Total{cents: t.cents.Add(decimal.NewFromInt(m.Cents))}
}

// Add returns t plus o.
func (t Total) Add(o Total) Total {
	return Total{cents: t.cents.Add(o.cents)}
}

// Sub returns t minus o. The result may be negative.
func (t Total) Sub(o Total) Total {
	return Total{cents: t.cents.Sub(o.cents)}
}

// Cmp compares t and o like strings.Compare.
func (t Total) Cmp(o Total) int { return t.cents.Cmp(o.cents) }

// Sign returns -1, 0 or 1.
func (t Total) Sign() int { return t.cents.Sign() }

// Equal reports whether t and o hold the same amount.
func (t Total) Equal(o Total) bool { return t.cents.Equal(o.cents) }

// Float64 returns the cents as a float for proportions; it is inexact for
// very large totals.
func (t Total) Float64() float64 { return t.cents.InexactFloat64() }

// String renders t the way FormatTotal does.
func (t Total) String() string { return FormatTotal(t) }

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Total
}

// Summary is the aggregate view of one user's ledger.
type Summary struct {
	Income  Total
	Expense Total
	Balance Total
	// ByMemo groups expenses by their exact memo text.
	ByMemo []CategoryAmount
}

// HasExpenses reports whether at least one expense contributed to s.
func (s Summary) HasExpenses() bool {
	return len(s.ByMemo) > 0
}

// Summarize totals income and expense and groups expenses by memo.
// Memos are compared as-is, so "Food" and "food" are separate groups.
func Summarize(txs []Transaction) Summary {
	var sum Summary
	groups := map[string]Total{}
	var order []string
	for _, t := range txs {
		switch t.Kind {
		case Income:
			sum.Income = sum.Income.AddMoney(t.Amount)
		case Expense:
			sum.Expense = sum.Expense.AddMoney(t.Amount)
			if _, ok := groups[t.Memo]; !ok {
				order = append(order, t.Memo)
			}
			groups[t.Memo] = groups[t.Memo].AddMoney(t.Amount)
		}
	}
	sum.Balance = sum.Income.Sub(sum.Expense)

	for _, name := range order {
		sum.ByMemo = append(sum.ByMemo, CategoryAmount{Name: name, Amount: groups[name]})
	}
	sort.SliceStable(sum.ByMemo, func(i, j int) bool {
		if c := sum.ByMemo[i].Amount.Cmp(sum.ByMemo[j].Amount); c != 0 {
			return c > 0
		}
		return sum.ByMemo[i].Name < sum.ByMemo[j].Name
	})
	return sum
}
