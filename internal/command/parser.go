// Package command turns chat text into ledger intents.
package command

import (
	"regexp"
	"strings"

	"moneybot/internal/core"
)

// Keywords recognised at the start of a message.
const (
	KeywordIncome  = "รับ"
	KeywordExpense = "จ่าย"
	KeywordSummary = "สรุป"
	KeywordClear   = "ล้างข้อมูล"
	KeywordHistory = "ประวัติ"
)

// recordRe accepts digits of any script and Unicode space separators such as
// the no-break space some keyboards insert.
var recordRe = regexp.MustCompile(`^(` + KeywordIncome + `|` + KeywordExpense + `)[\s\p{Zs}]+(.+?)[\s\p{Zs}]+(\p{Nd}+(?:\.\p{Nd}+)?)`)

type rule struct {
	name  string
	match func(text string) (Intent, bool)
}

// rules are tried in order and the first match wins.
var rules = []rule{
	{name: "record", match: matchRecord},
	{name: "summary", match: matchPrefix(KeywordSummary, ShowSummary{})},
	{name: "clear", match: matchPrefix(KeywordClear, ClearData{})},
	{name: "history", match: matchPrefix(KeywordHistory, ShowHistory{})},
}

// Parse classifies text. It never fails: anything that no rule accepts is
// Unrecognized.
func Parse(text string) Intent {
	text = strings.TrimSpace(text)
	for _, r := range rules {
		if in, ok := r.match(text); ok {
			return in
		}
	}
	return Unrecognized{}
}

// KindForKeyword maps an action keyword to its transaction kind.
func KindForKeyword(kw string) (core.Kind, bool) {
	switch kw {
	case KeywordIncome:
		return core.Income, true
	case KeywordExpense:
		return core.Expense, true
	default:
		return "", false
	}
}

// Verb is the keyword users type for kind, used when echoing entries back.
func Verb(kind core.Kind) string {
	if kind == core.Income {
		return KeywordIncome
	}
	return KeywordExpense
}

func matchRecord(text string) (Intent, bool) {
	m := recordRe.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	kind, ok := KindForKeyword(m[1])
	if !ok {
		return nil, false
	}
	memo := strings.TrimSpace(m[2])
	if memo == "" {
		return nil, false
	}
	amount, err := core.ParseAmount(m[3])
	if err != nil {
		// The pattern matched but the number did not survive strict parsing.
		return nil, false
	}
	return Record{Kind: kind, Memo: memo, Amount: amount}, true
}

func matchPrefix(keyword string, in Intent) func(string) (Intent, bool) {
	return func(text string) (Intent, bool) {
		if strings.HasPrefix(text, keyword) {
			return in, true
		}
		return nil, false
	}
}
