// Package ledger executes parsed chat commands against a user's ledger and
// builds the reply.
package ledger

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"moneybot/internal/command"
	"moneybot/internal/core"
	"moneybot/internal/log"
	"moneybot/internal/ports"
)

// DefaultHistoryLimit is how many entries the history command lists.
const DefaultHistoryLimit = 5

// DefaultStaticPath is the URL path prefix rendered charts are served under.
const DefaultStaticPath = "static"

// ErrStoreUnavailable wraps every store failure. The whole request fails and
// nothing is sent back.
var ErrStoreUnavailable = errors.New("ledger store unavailable")

var plainUserID = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// Options are fixed for the lifetime of an Engine.
type Options struct {
	// PublicBaseURL is the externally reachable origin of the static file
	// server. Empty disables chart attachments.
	PublicBaseURL string
	StaticPath    string
	HistoryLimit  int
}

type Engine struct {
	store  ports.Store
	charts ports.ChartRenderer
	opts   Options
	logger *log.Logger
}

// NewEngine wires the engine. charts may be nil, which disables charts just
// like an empty PublicBaseURL.
func NewEngine(store ports.Store, charts ports.ChartRenderer, opts Options, logger *log.Logger) *Engine {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = DefaultHistoryLimit
	}
	opts.StaticPath = strings.Trim(opts.StaticPath, "/")
	if opts.StaticPath == "" {
		opts.StaticPath = DefaultStaticPath
	}
	opts.PublicBaseURL = normalizeBaseURL(opts.PublicBaseURL)
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Engine{
		store:  store,
		charts: charts,
		opts:   opts,
		logger: logger.WithComponent(log.ComponentLedger),
	}
}

// HandleText parses text and handles the resulting intent.
func (e *Engine) HandleText(ctx context.Context, text, userID string) (Response, error) {
	return e.Handle(ctx, command.Parse(text), userID)
}

// Handle executes intent for userID.
func (e *Engine) Handle(ctx context.Context, intent command.Intent, userID string) (Response, error) {
	switch in := intent.(type) {
	case command.Record:
		return e.record(ctx, userID, in)
	case command.ShowHistory:
		return e.history(ctx, userID)
	case command.ShowSummary:
		return e.summary(ctx, userID)
	case command.ClearData:
		return e.clear(ctx, userID)
	default:
		e.logger.DebugContext(ctx, "Unrecognized command", log.FieldUserID, userID, log.FieldOperation, log.OpHelp)
		return text(HelpText()), nil
	}
}

func (e *Engine) record(ctx context.Context, userID string, in command.Record) (Response, error) {
	if err := e.store.Insert(ctx, userID, in.Kind, in.Memo, in.Amount); err != nil {
		return nil, fmt.Errorf("%w: insert: %v", ErrStoreUnavailable, err)
	}
	e.logger.InfoContext(ctx, "Transaction recorded",
		log.NewFields().WithUser(userID).WithOperation(log.OpRecord).
			WithTransaction(string(in.Kind), in.Memo, in.Amount.Cents).ToSlice()...)
	return text(recordedText(in.Kind, in.Memo, in.Amount)), nil
}

func (e *Engine) history(ctx context.Context, userID string) (Response, error) {
	txs, err := e.store.SelectRecent(ctx, userID, e.opts.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: select recent: %v", ErrStoreUnavailable, err)
	}
	if len(txs) == 0 {
		return text(msgNoHistory), nil
	}
	if len(txs) > e.opts.HistoryLimit {
		txs = txs[:e.opts.HistoryLimit]
	}
	e.logger.DebugContext(ctx, "History listed", log.FieldUserID, userID, log.FieldCount, len(txs), log.FieldOperation, log.OpHistory)
	return text(historyText(txs, e.opts.HistoryLimit)), nil
}

func (e *Engine) summary(ctx context.Context, userID string) (Response, error) {
	txs, err := e.store.SelectAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: select all: %v", ErrStoreUnavailable, err)
	}
	s := core.Summarize(txs)
	resp := text(summaryText(s))
	e.logger.DebugContext(ctx, "Summary computed", log.FieldUserID, userID, log.FieldCount, len(txs), log.FieldOperation, log.OpSummary)

	if s.HasExpenses() {
		if img, ok := e.chart(ctx, userID, s.ByMemo); ok {
			resp = append(resp, img)
		}
	}
	return resp, nil
}

// chart renders the breakdown and reports whether an image can be attached.
// Failures are logged and never reach the caller.
func (e *Engine) chart(ctx context.Context, userID string, slices []core.CategoryAmount) (ImageMessage, bool) {
	if e.opts.PublicBaseURL == "" || e.charts == nil {
		return ImageMessage{}, false
	}
	name := ChartFileName(userID)
	path, err := e.charts.Render(ctx, name, slices)
	if err != nil {
		e.logger.ErrorContext(ctx, "Chart rendering failed",
			log.NewFields().WithUser(userID).WithOperation(log.OpRender).
				WithErrorType(log.ErrorTypeRender).WithError(err).ToSlice()...)
		return ImageMessage{}, false
	}
	url := e.opts.PublicBaseURL + "/" + e.opts.StaticPath + "/" + name
	e.logger.DebugContext(ctx, "Chart rendered", log.FieldUserID, userID, log.FieldChartPath, path)
	return ImageMessage{URL: url, PreviewURL: url}, true
}

func (e *Engine) clear(ctx context.Context, userID string) (Response, error) {
	n, err := e.store.DeleteAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: delete: %v", ErrStoreUnavailable, err)
	}
	e.logger.InfoContext(ctx, "Ledger cleared", log.FieldUserID, userID, log.FieldCount, n, log.FieldOperation, log.OpClear)
	return text(msgCleared), nil
}

// ChartFileName is the per-user chart file. The same user always gets the
// same name so a new summary replaces the previous chart, and distinct users
// never share one. Alphanumeric ids, which is what LINE issues, are used
// verbatim; anything else is hex encoded behind a '-' that plain ids cannot
// contain.
func ChartFileName(userID string) string {
	if plainUserID.MatchString(userID) {
		return "expense_chart_" + userID + ".png"
	}
	return "expense_chart_-" + hex.EncodeToString([]byte(userID)) + ".png"
}

// normalizeBaseURL trims trailing slashes and upgrades http to https; the
// chat platform rejects plain http image URLs.
func normalizeBaseURL(base string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if strings.HasPrefix(base, "http://") {
		base = "https://" + strings.TrimPrefix(base, "http://")
	}
	return base
}
