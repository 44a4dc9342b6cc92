package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ericfisherdev/workbook/internal/domain/model"
	"github.com/ericfisherdev/workbook/internal/domain/port/driven"
)

// WorkBookService keeps the internship store and the data file in step. The
// store is the working set; the file is the persisted copy written after
// every change. It depends only on port interfaces.
//
// Changes are serialized so each save writes a snapshot that includes every
// change made before it. A change whose save fails is undone in the store.
type WorkBookService struct {
	store  driven.InternshipStore
	file   driven.WorkBookFile
	logger *slog.Logger

	mu sync.Mutex // guards store changes together with the save that follows
}

// NewWorkBookService creates a new WorkBookService with the required dependencies.
func NewWorkBookService(store driven.InternshipStore, file driven.WorkBookFile, logger *slog.Logger) *WorkBookService {
	return &WorkBookService{
		store:  store,
		file:   file,
		logger: logger,
	}
}

// Import loads the data file and adds every internship not already in the
// store. Returns the number added.
func (s *WorkBookService) Import(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	internships, err := s.file.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("import: %w", err)
	}

	added := 0
	for _, in := range internships {
		if err := s.store.Add(ctx, in); err != nil {
			if errors.Is(err, driven.ErrInternshipAlreadyExists) {
				s.logger.Debug("internship already stored, skipping",
					"company", in.Company().String(), "role", in.Role().String())
				continue
			}
			return added, fmt.Errorf("import: %w", err)
		}
		added++
	}

	s.logger.Info("import complete", "read", len(internships), "added", added)
	return added, nil
}

// Export writes every stored internship to the data file. Returns the number written.
func (s *WorkBookService) Export(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.export(ctx)
}

// Restore replaces the store's contents with the data file's.
func (s *WorkBookService) Restore(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	internships, err := s.file.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("restore: %w", err)
	}

	if err := s.store.Replace(ctx, internships); err != nil {
		return 0, fmt.Errorf("restore: %w", err)
	}

	return len(internships), nil
}

// List returns every stored internship.
func (s *WorkBookService) List(ctx context.Context) ([]model.Internship, error) {
	return s.store.ListAll(ctx)
}

// ListTagged returns the stored internships carrying tag.
func (s *WorkBookService) ListTagged(ctx context.Context, tag model.Tag) ([]model.Internship, error) {
	all, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	tagged := make([]model.Internship, 0, len(all))
	for _, in := range all {
		if in.HasTag(tag) {
			tagged = append(tagged, in)
		}
	}
	return tagged, nil
}

// Add stores a validated internship and saves the data file.
// Returns driven.ErrInternshipAlreadyExists for a duplicate.
func (s *WorkBookService) Add(ctx context.Context, in model.Internship) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Add(ctx, in); err != nil {
		return err
	}

	if err := s.save(ctx); err != nil {
		s.undo(ctx, "add", s.store.Remove(context.WithoutCancel(ctx), in.Company().String(), in.Role().String()))
		return err
	}

	s.logger.Info("internship added", "company", in.Company().String(), "role", in.Role().String())
	return nil
}

// Remove deletes the internship for company and role and saves the data file.
// Returns driven.ErrInternshipNotFound if there is none.
func (s *WorkBookService) Remove(ctx context.Context, company, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.find(ctx, company, role)
	if err != nil {
		return err
	}

	if err := s.store.Remove(ctx, company, role); err != nil {
		return err
	}

	if err := s.save(ctx); err != nil {
		s.undo(ctx, "remove", s.store.Add(context.WithoutCancel(ctx), existing))
		return err
	}

	s.logger.Info("internship removed", "company", company, "role", role)
	return nil
}

// UpdateStage moves the internship for company and role to stage and saves
// the data file. Returns the updated internship, or driven.ErrInternshipNotFound.
func (s *WorkBookService) UpdateStage(ctx context.Context, company, role string, stage model.Stage) (model.Internship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.find(ctx, company, role)
	if err != nil {
		return model.Internship{}, err
	}

	moved := existing.WithStage(stage)
	if err := s.store.Update(ctx, moved); err != nil {
		return model.Internship{}, err
	}

	if err := s.save(ctx); err != nil {
		s.undo(ctx, "update stage", s.store.Update(context.WithoutCancel(ctx), existing))
		return model.Internship{}, err
	}

	s.logger.Info("internship stage updated",
		"company", company, "role", role,
		"from", existing.Stage().String(), "to", stage.String())
	return moved, nil
}

// find returns the stored internship for company and role.
func (s *WorkBookService) find(ctx context.Context, company, role string) (model.Internship, error) {
	all, err := s.store.ListAll(ctx)
	if err != nil {
		return model.Internship{}, err
	}

	for _, in := range all {
		if in.Matches(company, role) {
			return in, nil
		}
	}
	return model.Internship{}, fmt.Errorf("internship %q/%q: %w", company, role, driven.ErrInternshipNotFound)
}

func (s *WorkBookService) export(ctx context.Context) (int, error) {
	internships, err := s.store.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("export: %w", err)
	}

	if err := s.file.Save(ctx, internships); err != nil {
		return 0, fmt.Errorf("export: %w", err)
	}

	return len(internships), nil
}

func (s *WorkBookService) save(ctx context.Context) error {
	if _, err := s.export(ctx); err != nil {
		return fmt.Errorf("save data file: %w", err)
	}
	return nil
}

// undo logs the outcome of reverting a store change after a failed save.
func (s *WorkBookService) undo(ctx context.Context, op string, err error) {
	if err != nil {
		s.logger.ErrorContext(ctx, "store and data file out of step", "op", op, "error", err)
		return
	}
	s.logger.WarnContext(ctx, "store change reverted after failed save", "op", op)
}
