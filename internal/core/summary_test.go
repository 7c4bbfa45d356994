package core

import "testing"

func TestSummarize(t *testing.T) {
	txs := []Transaction{
		{Kind: Income, Memo: "salary", Amount: Money{Cents: 100000}},
		{Kind: Expense, Memo: "food", Amount: Money{Cents: 20000}},
		{Kind: Expense, Memo: "rent", Amount: Money{Cents: 5000}},
		{Kind: Expense, Memo: "food", Amount: Money{Cents: 10000}},
		{Kind: Expense, Memo: "Food", Amount: Money{Cents: 1}},
	}
	s := Summarize(txs)
	if !s.Income.Equal(NewTotal(100000)) || !s.Expense.Equal(NewTotal(35001)) || !s.Balance.Equal(NewTotal(64999)) {
		t.Fatalf("unexpected totals: %+v", s)
	}
	if len(s.ByMemo) != 3 {
		t.Fatalf("expected 3 groups, got %v", s.ByMemo)
	}
	if s.ByMemo[0].Name != "food" || !s.ByMemo[0].Amount.Equal(NewTotal(30000)) {
		t.Fatalf("expected food first, got %+v", s.ByMemo[0])
	}
	if s.ByMemo[2].Name != "Food" {
		t.Fatalf("memos must group case-sensitively, got %+v", s.ByMemo)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Income.Sign() != 0 || s.Expense.Sign() != 0 || s.Balance.Sign() != 0 || s.HasExpenses() {
		t.Fatalf("expected zero summary, got %+v", s)
	}
}

func TestSummarizeIncomeOnly(t *testing.T) {
	s := Summarize([]Transaction{{Kind: Income, Memo: "x", Amount: Money{Cents: 5}}})
	if s.HasExpenses() {
		t.Fatalf("income must not create expense groups")
	}
	if !s.Balance.Equal(NewTotal(5)) {
		t.Fatalf("balance = %s", s.Balance)
	}
}

func TestSummarizeLargeSumsStayExact(t *testing.T) {
	top, err := ParseAmount("90071992547409.91")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	txs := make([]Transaction, 1100)
	for i := range txs {
		txs[i] = Transaction{Kind: Expense, Memo: "big", Amount: top}
	}
	txs = append(txs, Transaction{Kind: Income, Memo: "x", Amount: Money{Cents: 1}})

	s := Summarize(txs)
	if s.Expense.Sign() <= 0 || s.Balance.Sign() >= 0 {
		t.Fatalf("totals wrapped: expense=%s balance=%s", s.Expense, s.Balance)
	}
	if got, want := FormatTotal(s.Expense), "99,079,191,802,150,901.00"; got != want {
		t.Fatalf("expense = %s, want %s", got, want)
	}
	if got, want := FormatTotal(s.Balance), "-99,079,191,802,150,900.99"; got != want {
		t.Fatalf("balance = %s, want %s", got, want)
	}
	if len(s.ByMemo) != 1 || !s.ByMemo[0].Amount.Equal(s.Expense) {
		t.Fatalf("group total = %+v", s.ByMemo)
	}
}
