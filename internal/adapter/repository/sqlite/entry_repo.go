package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/infrastructure/retry"
	"github.com/iho/cashbook/internal/usecase"
)

const (
	listEntries = `
SELECT id, date, particulars, type, comments, amount, balance FROM entries
WHERE (?1 IS NULL OR date >= ?1)
  AND (?2 IS NULL OR date <= ?2)
  AND (?3 IS NULL OR type = ?3)
  AND (?4 IS NULL OR instr(fold(particulars), fold(?4)) > 0)
ORDER BY date, id`

	createEntry = `
INSERT INTO entries (id, date, particulars, type, comments, amount, balance, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, NULL, ?, ?)`

	updateEntryFields = `
UPDATE entries SET
	date        = COALESCE(?1, date),
	particulars = COALESCE(?2, particulars),
	type        = COALESCE(?3, type),
	comments    = COALESCE(?4, comments),
	amount      = COALESCE(?5, amount),
	balance     = COALESCE(?6, balance),
	updated_at  = ?7
WHERE id = ?8`

	deleteEntry = `DELETE FROM entries WHERE id = ?`
)

// EntryRepository implements usecase.EntryStore on SQLite.
// Dates are stored as YYYY-MM-DD text and amounts as two-decimal text, so
// both sort and round-trip exactly.
type EntryRepository struct {
	db      *sql.DB
	idGen   usecase.IDGenerator
	retrier *retry.Retrier
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(db *sql.DB, idGen usecase.IDGenerator, retrier *retry.Retrier) *EntryRepository {
	return &EntryRepository{db: db, idGen: idGen, retrier: retrier}
}

// List returns the entries matching filter ordered by date and id.
func (r *EntryRepository) List(ctx context.Context, filter domain.Filter) ([]domain.Entry, error) {
	var entries []domain.Entry
	err := r.retrier.Do(ctx, func() error {
		rows, err := r.db.QueryContext(ctx, listEntries,
			dateArg(filter.DateFrom),
			dateArg(filter.DateTo),
			textArg(string(filter.Type)),
			textArg(filter.ParticularsContains),
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		entries = entries[:0]
		for rows.Next() {
			e, err := scanEntry(rows)
			if err != nil {
				return err
			}
			entries = append(entries, e)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// Insert stores a new entry under a fresh id. The balance starts null.
func (r *EntryRepository) Insert(ctx context.Context, entry domain.NewEntry) (*domain.Entry, error) {
	created := domain.Entry{
		ID:          r.idGen.Generate(),
		Date:        entry.Date,
		Particulars: entry.Particulars,
		Type:        entry.Type,
		Comments:    entry.Comments,
		Amount:      entry.Amount,
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	err := r.retrier.Do(ctx, func() error {
		_, err := r.db.ExecContext(ctx, createEntry,
			created.ID,
			created.Date.String(),
			created.Particulars,
			string(created.Type),
			created.Comments,
			domain.FormatAmount(created.Amount),
			now,
			now,
		)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// UpdateFields writes the set fields of one entry.
func (r *EntryRepository) UpdateFields(ctx context.Context, id string, fields domain.EntryFields) error {
	var date, typ, amount, balance sql.NullString
	if fields.Date != nil {
		date = sql.NullString{String: fields.Date.String(), Valid: true}
	}
	if fields.Type != nil {
		typ = sql.NullString{String: string(*fields.Type), Valid: true}
	}
	if fields.Amount != nil {
		amount = sql.NullString{String: domain.FormatAmount(*fields.Amount), Valid: true}
	}
	if fields.Balance != nil {
		balance = sql.NullString{String: domain.FormatAmount(*fields.Balance), Valid: true}
	}

	var affected int64
	err := r.retrier.Do(ctx, func() error {
		res, err := r.db.ExecContext(ctx, updateEntryFields,
			date,
			nullString(fields.Particulars),
			typ,
			nullString(fields.Comments),
			amount,
			balance,
			time.Now().UTC().Format(time.RFC3339Nano),
			id,
		)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
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
		res, err := r.db.ExecContext(ctx, deleteEntry, id)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
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
	return r.db.PingContext(ctx)
}

func scanEntry(rows *sql.Rows) (domain.Entry, error) {
	var (
		e                 domain.Entry
		date, typ, amount string
		balance           sql.NullString
	)
	if err := rows.Scan(&e.ID, &date, &e.Particulars, &typ, &e.Comments, &amount, &balance); err != nil {
		return e, err
	}

	var err error
	if e.Date, err = domain.ParseDate(date); err != nil {
		return e, fmt.Errorf("entry %s: %w", e.ID, err)
	}
	e.Type = domain.EntryType(typ)
	if e.Amount, err = decimal.NewFromString(amount); err != nil {
		return e, fmt.Errorf("entry %s amount: %w", e.ID, err)
	}
	if balance.Valid {
		b, err := decimal.NewFromString(balance.String)
		if err != nil {
			return e, fmt.Errorf("entry %s balance: %w", e.ID, err)
		}
		e.Balance = decimal.NewNullDecimal(b)
	}

	return e, nil
}

func dateArg(d domain.Date) sql.NullString {
	if d.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func textArg(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
