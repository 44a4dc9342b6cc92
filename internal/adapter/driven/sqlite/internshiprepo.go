package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ericfisherdev/workbook/internal/adapter/driven/jsonfile"
	"github.com/ericfisherdev/workbook/internal/domain/model"
	"github.com/ericfisherdev/workbook/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.InternshipStore = (*InternshipRepo)(nil)

// InternshipRepo is the SQLite implementation of the InternshipStore port.
// Rows hold the adapted string form and are converted back through
// jsonfile.AdaptedInternship, so the database is validated on read the same
// way the data file is.
type InternshipRepo struct {
	db *DB
}

// NewInternshipRepo creates a new InternshipRepo backed by the given DB.
func NewInternshipRepo(db *DB) *InternshipRepo {
	return &InternshipRepo{db: db}
}

const insertInternshipQuery = `
	INSERT INTO internships (company, role, phone, email, stage, date_time, tags)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

// Add inserts an internship. Returns ErrInternshipAlreadyExists if one with
// the same company and role is already stored.
func (r *InternshipRepo) Add(ctx context.Context, in model.Internship) error {
	args, err := insertArgs(in)
	if err != nil {
		return err
	}

	if _, err := r.db.Writer.ExecContext(ctx, insertInternshipQuery, args...); err != nil {
		return translateInsertError(in, err)
	}

	return nil
}

// Remove deletes the internship for company and role, ignoring case.
func (r *InternshipRepo) Remove(ctx context.Context, company, role string) error {
	const query = `DELETE FROM internships WHERE company = ? COLLATE NOCASE AND role = ? COLLATE NOCASE`

	result, err := r.db.Writer.ExecContext(ctx, query, company, role)
	if err != nil {
		return fmt.Errorf("remove internship %q/%q: %w", company, role, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("internship %q/%q: %w", company, role, driven.ErrInternshipNotFound)
	}

	return nil
}

// Update overwrites the internship with the same company and role, ignoring case.
func (r *InternshipRepo) Update(ctx context.Context, in model.Internship) error {
	const query = `
		UPDATE internships
		SET company = ?, role = ?, phone = ?, email = ?, stage = ?, date_time = ?, tags = ?
		WHERE company = ? COLLATE NOCASE AND role = ? COLLATE NOCASE`

	args, err := insertArgs(in)
	if err != nil {
		return err
	}
	args = append(args, in.Company().String(), in.Role().String())

	result, err := r.db.Writer.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update internship %q/%q: %w", in.Company(), in.Role(), err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("internship %q/%q: %w", in.Company(), in.Role(), driven.ErrInternshipNotFound)
	}

	return nil
}

// ListAll returns every stored internship in insertion order.
func (r *InternshipRepo) ListAll(ctx context.Context) ([]model.Internship, error) {
	const query = `SELECT id, company, role, phone, email, stage, date_time, tags FROM internships ORDER BY id`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list internships: %w", err)
	}
	defer rows.Close()

	internships := []model.Internship{}
	for rows.Next() {
		var (
			id      int64
			adapted jsonfile.AdaptedInternship
			tags    string
		)

		if err := rows.Scan(&id, &adapted.Company, &adapted.Role, &adapted.Phone,
			&adapted.Email, &adapted.Stage, &adapted.DateTime, &tags); err != nil {
			return nil, fmt.Errorf("scan internship: %w", err)
		}

		if err := json.Unmarshal([]byte(tags), &adapted.Tags); err != nil {
			return nil, fmt.Errorf("decode tags of internship row %d: %w", id, err)
		}

		in, err := adapted.ToModel()
		if err != nil {
			return nil, fmt.Errorf("internship row %d: %w", id, err)
		}

		internships = append(internships, in)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate internships: %w", err)
	}

	return internships, nil
}

// Replace deletes every stored internship and inserts internships in their
// place, all within one transaction.
func (r *InternshipRepo) Replace(ctx context.Context, internships []model.Internship) error {
	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx, `DELETE FROM internships`); err != nil {
		return fmt.Errorf("clear internships: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertInternshipQuery)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, in := range internships {
		args, err := insertArgs(in)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return translateInsertError(in, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func insertArgs(in model.Internship) ([]any, error) {
	adapted := jsonfile.FromModel(in)

	tags, err := json.Marshal(adapted.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}

	return []any{
		nullable(adapted.Company),
		nullable(adapted.Role),
		nullable(adapted.Phone),
		nullable(adapted.Email),
		nullable(adapted.Stage),
		nullable(adapted.DateTime),
		string(tags),
	}, nil
}

func translateInsertError(in model.Internship, err error) error {
	if strings.Contains(err.Error(), "UNIQUE constraint") {
		return fmt.Errorf("internship %q/%q: %w", in.Company(), in.Role(), driven.ErrInternshipAlreadyExists)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("add internship %q/%q: %w", in.Company(), in.Role(), err)
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
