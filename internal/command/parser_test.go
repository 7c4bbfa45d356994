package command

import (
	"testing"

	"moneybot/internal/core"
)

func TestParseRecord(t *testing.T) {
	cases := []struct {
		in   string
		want Record
	}{
		{"รับ เงินเดือน 50000", Record{Kind: core.Income, Memo: "เงินเดือน", Amount: core.Money{Cents: 5000000}}},
		{"จ่าย food 300", Record{Kind: core.Expense, Memo: "food", Amount: core.Money{Cents: 30000}}},
		{"  จ่าย ค่า ข้าว 45.50  ", Record{Kind: core.Expense, Memo: "ค่า ข้าว", Amount: core.Money{Cents: 4550}}},
		{"จ่าย taxi 0", Record{Kind: core.Expense, Memo: "taxi", Amount: core.Money{}}},
		{"จ่าย coffee 12.345", Record{Kind: core.Expense, Memo: "coffee", Amount: core.Money{Cents: 1235}}},
		// shortest memo that still leaves a number
		{"จ่าย bus 2 stops 15", Record{Kind: core.Expense, Memo: "bus", Amount: core.Money{Cents: 200}}},
		// trailing text after the amount is ignored
		{"รับ bonus 100 thanks", Record{Kind: core.Income, Memo: "bonus", Amount: core.Money{Cents: 10000}}},
		// Thai digits
		{"จ่าย ข้าว ๕๐", Record{Kind: core.Expense, Memo: "ข้าว", Amount: core.Money{Cents: 5000}}},
		{"รับ เงินเดือน ๕๐๐๐๐", Record{Kind: core.Income, Memo: "เงินเดือน", Amount: core.Money{Cents: 5000000}}},
		{"จ่าย กาแฟ ๖๕.๕๐", Record{Kind: core.Expense, Memo: "กาแฟ", Amount: core.Money{Cents: 6550}}},
		// no-break and ideographic spaces separate fields like a plain space
		{"จ่าย\u00a0ข้าว\u00a050", Record{Kind: core.Expense, Memo: "ข้าว", Amount: core.Money{Cents: 5000}}},
		{"จ่าย\u3000ค่า\u00a0รถ\u300020", Record{Kind: core.Expense, Memo: "ค่า\u00a0รถ", Amount: core.Money{Cents: 2000}}},
	}
	for _, tc := range cases {
		got, ok := Parse(tc.in).(Record)
		if !ok {
			t.Fatalf("%q: expected Record, got %#v", tc.in, Parse(tc.in))
		}
		if got != tc.want {
			t.Errorf("%q: got %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestParseKeywords(t *testing.T) {
	cases := []struct {
		in   string
		want Intent
	}{
		{"สรุป", ShowSummary{}},
		{"สรุปยอด", ShowSummary{}},
		{"ล้างข้อมูล", ClearData{}},
		{"ประวัติ", ShowHistory{}},
		{" ประวัติ ล่าสุด", ShowHistory{}},
		{"hello", Unrecognized{}},
		{"", Unrecognized{}},
		{"รับ", Unrecognized{}},
		{"รับ เงินเดือน", Unrecognized{}},
		{"จ่าย 300", Unrecognized{}},
		{"จ่าย food -5", Unrecognized{}},
		{"summary สรุป", Unrecognized{}},
	}
	for _, tc := range cases {
		if got := Parse(tc.in); got != tc.want {
			t.Errorf("%q: got %#v, want %#v", tc.in, got, tc.want)
		}
	}
}

func TestParseOverflowFallsBackToUnrecognized(t *testing.T) {
	if got := Parse("จ่าย big 99999999999999999999999"); got != (Unrecognized{}) {
		t.Fatalf("expected Unrecognized for an amount that cannot be stored, got %#v", got)
	}
}

func TestRuleOrder(t *testing.T) {
	want := []string{"record", "summary", "clear", "history"}
	if len(rules) != len(want) {
		t.Fatalf("expected %d rules, got %d", len(want), len(rules))
	}
	for i, name := range want {
		if rules[i].name != name {
			t.Errorf("rule %d = %s, want %s", i, rules[i].name, name)
		}
	}
}

func TestVerb(t *testing.T) {
	if Verb(core.Income) != KeywordIncome || Verb(core.Expense) != KeywordExpense {
		t.Fatalf("unexpected verbs")
	}
}
