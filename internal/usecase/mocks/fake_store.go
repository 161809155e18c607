package mocks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/iho/cashbook/internal/domain"
)

// FakeEntryStore is an in-memory implementation of usecase.EntryStore.
// Set a ...Func field to override one method.
type FakeEntryStore struct {
	mu      sync.RWMutex
	entries map[string]domain.Entry
	seq     int
	calls   []string

	ListFunc         func(ctx context.Context, filter domain.Filter) ([]domain.Entry, error)
	InsertFunc       func(ctx context.Context, entry domain.NewEntry) (*domain.Entry, error)
	UpdateFieldsFunc func(ctx context.Context, id string, fields domain.EntryFields) error
	DeleteFunc       func(ctx context.Context, id string) error
}

func NewFakeEntryStore(entries ...domain.Entry) *FakeEntryStore {
	m := &FakeEntryStore{
		entries: make(map[string]domain.Entry),
	}
	for _, e := range entries {
		m.entries[e.ID] = e
	}
	return m
}

func (m *FakeEntryStore) List(ctx context.Context, filter domain.Filter) ([]domain.Entry, error) {
	m.record("List")
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []domain.Entry
	for _, e := range m.entries {
		if filter.Match(e) {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (m *FakeEntryStore) Insert(ctx context.Context, entry domain.NewEntry) (*domain.Entry, error) {
	m.record("Insert")
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	created := domain.Entry{
		ID:          fmt.Sprintf("e%04d", m.seq),
		Date:        entry.Date,
		Particulars: entry.Particulars,
		Type:        entry.Type,
		Comments:    entry.Comments,
		Amount:      entry.Amount,
	}
	m.entries[created.ID] = created
	return &created, nil
}

func (m *FakeEntryStore) UpdateFields(ctx context.Context, id string, fields domain.EntryFields) error {
	if fields.Balance != nil && fields.Date == nil && fields.Particulars == nil &&
		fields.Type == nil && fields.Comments == nil && fields.Amount == nil {
		m.record("UpdateBalance:" + id)
	} else {
		m.record("UpdateFields:" + id)
	}
	if m.UpdateFieldsFunc != nil {
		return m.UpdateFieldsFunc(ctx, id, fields)
	}
	return m.apply(id, fields)
}

func (m *FakeEntryStore) Delete(ctx context.Context, id string) error {
	m.record("Delete:" + id)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return domain.ErrEntryNotFound
	}
	delete(m.entries, id)
	return nil
}

// Apply writes fields to the stored entry, bypassing hooks and call records.
func (m *FakeEntryStore) Apply(id string, fields domain.EntryFields) error {
	return m.apply(id, fields)
}

// Get returns the stored entry.
func (m *FakeEntryStore) Get(id string) (domain.Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[id]
	return e, ok
}

// Calls returns the recorded method calls, balance-only updates as "UpdateBalance:<id>".
func (m *FakeEntryStore) Calls() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.calls...)
}

// BalanceUpdates returns the ids of the recorded balance-only updates.
func (m *FakeEntryStore) BalanceUpdates() []string {
	var ids []string
	for _, c := range m.Calls() {
		if id, ok := strings.CutPrefix(c, "UpdateBalance:"); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// ResetCalls clears the recorded calls.
func (m *FakeEntryStore) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

func (m *FakeEntryStore) apply(id string, fields domain.EntryFields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return domain.ErrEntryNotFound
	}
	if fields.Date != nil {
		e.Date = *fields.Date
	}
	if fields.Particulars != nil {
		e.Particulars = *fields.Particulars
	}
	if fields.Type != nil {
		e.Type = *fields.Type
	}
	if fields.Comments != nil {
		e.Comments = *fields.Comments
	}
	if fields.Amount != nil {
		e.Amount = *fields.Amount
	}
	if fields.Balance != nil {
		e.Balance.Decimal = *fields.Balance
		e.Balance.Valid = true
	}
	m.entries[id] = e
	return nil
}

func (m *FakeEntryStore) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}
