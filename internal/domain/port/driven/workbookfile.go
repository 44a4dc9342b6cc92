package driven

import (
	"context"

	"github.com/ericfisherdev/workbook/internal/domain/model"
)

// WorkBookFile defines the driven port for the on-disk data file that
// internships are imported from and exported to.
type WorkBookFile interface {
	Load(ctx context.Context) ([]model.Internship, error)
	Save(ctx context.Context, internships []model.Internship) error
}
