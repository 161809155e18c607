package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/infrastructure/postgres/generated"
	"github.com/iho/cashbook/internal/infrastructure/retry"
	"github.com/iho/cashbook/internal/usecase"
)

// EntryRepository implements usecase.EntryStore.
type EntryRepository struct {
	pool    *pgxpool.Pool
	queries *generated.Queries
	idGen   usecase.IDGenerator
	retrier *retry.Retrier
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool, idGen usecase.IDGenerator, retrier *retry.Retrier) *EntryRepository {
	return &EntryRepository{
		pool:    pool,
		queries: generated.New(pool),
		idGen:   idGen,
		retrier: retrier,
	}
}

// List returns the entries matching filter ordered by date and id.
func (r *EntryRepository) List(ctx context.Context, filter domain.Filter) ([]domain.Entry, error) {
	var rows []generated.Entry
	err := r.retrier.Do(ctx, func() error {
		var err error
		rows, err = r.queries.ListEntries(ctx, generated.ListEntriesParams{
			DateFrom: dateToPgDate(filter.DateFrom),
			DateTo:   dateToPgDate(filter.DateTo),
			Type:     textIfSet(string(filter.Type)),
			Search:   textIfSet(filter.ParticularsContains),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	entries := make([]domain.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}

	return entries, nil
}

// Insert stores a new entry under a fresh id. The balance starts null.
func (r *EntryRepository) Insert(ctx context.Context, entry domain.NewEntry) (*domain.Entry, error) {
	params := generated.CreateEntryParams{
		ID:          r.idGen.Generate(),
		Date:        dateToPgDate(entry.Date),
		Particulars: entry.Particulars,
		Type:        string(entry.Type),
		Comments:    entry.Comments,
		Amount:      decimalToNumeric(entry.Amount),
	}

	var row generated.Entry
	err := r.retrier.Do(ctx, func() error {
		var err error
		row, err = r.queries.CreateEntry(ctx, params)
		return err
	})
	if err != nil {
		return nil, err
	}

	created := rowToEntry(row)
	return &created, nil
}

// UpdateFields writes the set fields of one entry.
func (r *EntryRepository) UpdateFields(ctx context.Context, id string, fields domain.EntryFields) error {
	params := generated.UpdateEntryFieldsParams{
		Date:        optionalDate(fields.Date),
		Particulars: optionalText(fields.Particulars),
		Comments:    optionalText(fields.Comments),
		Amount:      optionalNumeric(fields.Amount),
		Balance:     optionalNumeric(fields.Balance),
		ID:          id,
	}
	if fields.Type != nil {
		params.Type = textIfSet(string(*fields.Type))
	}

	var affected int64
	err := r.retrier.Do(ctx, func() error {
		var err error
		affected, err = r.queries.UpdateEntryFields(ctx, params)
		return err
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// Delete removes an entry.
func (r *EntryRepository) Delete(ctx context.Context, id string) error {
	var affected int64
	err := r.retrier.Do(ctx, func() error {
		var err error
		affected, err = r.queries.DeleteEntry(ctx, id)
		return err
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// Ping checks the database connection.
func (r *EntryRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
