package command

import "moneybot/internal/core"

// Intent is the parsed outcome of one chat message. The concrete types are
// Record, ShowSummary, ShowHistory, ClearData and Unrecognized.
type Intent interface {
	isIntent()
}

type (
	// Record stores one income or expense entry.
	Record struct {
		Kind   core.Kind
		Memo   string
		Amount core.Money
	}

	ShowSummary  struct{}
	ShowHistory  struct{}
	ClearData    struct{}
	Unrecognized struct{}
)

func (Record) isIntent()       {}
func (ShowSummary) isIntent()  {}
func (ShowHistory) isIntent()  {}
func (ClearData) isIntent()    {}
func (Unrecognized) isIntent() {}
