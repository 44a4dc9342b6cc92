// Package driven defines secondary port interfaces for external adapters.
package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/workbook/internal/domain/model"
)

// Sentinel errors returned by InternshipStore implementations.
var (
	// ErrInternshipNotFound indicates no stored internship matches the company and role.
	ErrInternshipNotFound = errors.New("internship not found")

	// ErrInternshipAlreadyExists indicates an internship for the same company and role is already stored.
	ErrInternshipAlreadyExists = errors.New("internship already exists")
)

// InternshipStore defines the driven port for internship persistence.
// Internships are identified by company and role, compared case-insensitively.
// Add returns ErrInternshipAlreadyExists if the internship already exists.
// Remove and Update return ErrInternshipNotFound if it does not.
type InternshipStore interface {
	Add(ctx context.Context, in model.Internship) error
	Remove(ctx context.Context, company, role string) error
	// Update overwrites the stored internship with the same company and role.
	Update(ctx context.Context, in model.Internship) error
	ListAll(ctx context.Context) ([]model.Internship, error)
	// Replace swaps the stored set for internships in a single transaction.
	Replace(ctx context.Context, internships []model.Internship) error
}
