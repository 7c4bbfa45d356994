package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"moneybot/internal/core"
	"moneybot/internal/log"
	"moneybot/internal/storage/memory"
)

type fakePublisher struct {
	recorded, cleared int
	lastDeleted       int64
	err               error
}

func (f *fakePublisher) PublishRecorded(context.Context, string, core.Kind, string, core.Money) error {
	f.recorded++
	return f.err
}

func (f *fakePublisher) PublishCleared(_ context.Context, _ string, deleted int64) error {
	f.cleared++
	f.lastDeleted = deleted
	return f.err
}

type failingStore struct{ *memory.Store }

func (failingStore) Insert(context.Context, string, core.Kind, string, core.Money) error {
	return errors.New("disk I/O error")
}

func (failingStore) DeleteAll(context.Context, string) (int64, error) {
	return 0, errors.New("disk I/O error")
}

func TestLedgerServicePublishesAfterWrite(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	svc := NewLedgerService(memory.New(), pub, log.Discard())

	if err := svc.Insert(ctx, "U1", core.Income, "a", core.Money{Cents: 1}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := svc.Insert(ctx, "U1", core.Expense, "b", core.Money{Cents: 1}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	n, err := svc.DeleteAll(ctx, "U1")
	if err != nil || n != 2 {
		t.Fatalf("delete: n=%d err=%v", n, err)
	}
	if pub.recorded != 2 || pub.cleared != 1 || pub.lastDeleted != 2 {
		t.Fatalf("unexpected publish counts: %+v", pub)
	}
}

func TestLedgerServicePublishFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{err: errors.New("broker down")}
	var buf bytes.Buffer
	svc := NewLedgerService(memory.New(), pub, log.New(log.Config{Output: &buf}))

	if err := svc.Insert(ctx, "U1", core.Income, "a", core.Money{Cents: 1}); err != nil {
		t.Fatalf("publish errors must not fail the insert: %v", err)
	}
	rows, _ := svc.SelectAll(ctx, "U1")
	if len(rows) != 1 {
		t.Fatalf("expected the row to be stored, got %d", len(rows))
	}
	if _, err := svc.DeleteAll(ctx, "U1"); err != nil {
		t.Fatalf("publish errors must not fail the clear: %v", err)
	}
	for _, want := range []string{"component=amqp", "operation=publish", "error_type=network_error", "user_id=U1"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("log missing %s: %s", want, buf.String())
		}
	}
}

func TestLedgerServiceStoreFailureSkipsPublish(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	svc := NewLedgerService(failingStore{memory.New()}, pub, log.Discard())

	if err := svc.Insert(ctx, "U1", core.Income, "a", core.Money{Cents: 1}); err == nil {
		t.Fatalf("expected store error")
	}
	if _, err := svc.DeleteAll(ctx, "U1"); err == nil {
		t.Fatalf("expected store error")
	}
	if pub.recorded != 0 || pub.cleared != 0 {
		t.Fatalf("nothing should be published when the write fails: %+v", pub)
	}
}

func TestLedgerServiceWithoutPublisher(t *testing.T) {
	svc := NewLedgerService(memory.New(), nil, log.Discard())
	if err := svc.Insert(context.Background(), "U1", core.Income, "a", core.Money{Cents: 1}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("close with nothing to close: %v", err)
	}
}
