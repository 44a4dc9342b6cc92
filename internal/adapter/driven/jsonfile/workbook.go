package jsonfile

import (
	"errors"
	"fmt"
	"io"

	"github.com/ericfisherdev/workbook/internal/domain/model"
)

// ErrDuplicateInternship indicates the file lists the same application twice.
var ErrDuplicateInternship = errors.New("internships list contains duplicate internship(s)")

// AdaptedWorkBook is the top-level object of the storage file.
type AdaptedWorkBook struct {
	Internships []AdaptedInternship `json:"internships"`
}

// NewAdaptedWorkBook converts internships into their persisted form.
func NewAdaptedWorkBook(internships []model.Internship) AdaptedWorkBook {
	adapted := make([]AdaptedInternship, 0, len(internships))
	for _, in := range internships {
		adapted = append(adapted, FromModel(in))
	}
	return AdaptedWorkBook{Internships: adapted}
}

// RecordError ties a conversion failure to the record's position in the file.
type RecordError struct {
	Index int
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("internship %d: %v", e.Index, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// ToModel converts every record, stopping at the first invalid or duplicate
// one. Errors are *RecordError values wrapping the underlying cause.
func (wb AdaptedWorkBook) ToModel() ([]model.Internship, error) {
	out := make([]model.Internship, 0, len(wb.Internships))
	for i, a := range wb.Internships {
		in, err := a.ToModel()
		if err != nil {
			return nil, &RecordError{Index: i, Err: err}
		}
		if containsSame(out, in) {
			return nil, &RecordError{Index: i, Err: ErrDuplicateInternship}
		}
		out = append(out, in)
	}
	return out, nil
}

func containsSame(list []model.Internship, in model.Internship) bool {
	for _, existing := range list {
		if existing.IsSame(in) {
			return true
		}
	}
	return false
}

// Validate converts every record of the document in r and reports each one
// that fails, with its first error. Unlike ToModel it does not stop at the
// first bad record. The returned error is only for an unreadable document.
func Validate(r io.Reader) (int, []RecordError, error) {
	wb, err := Decode(r)
	if err != nil {
		return 0, nil, err
	}

	var (
		valid  []model.Internship
		issues []RecordError
	)
	for i, a := range wb.Internships {
		in, err := a.ToModel()
		if err != nil {
			issues = append(issues, RecordError{Index: i, Err: err})
			continue
		}
		if containsSame(valid, in) {
			issues = append(issues, RecordError{Index: i, Err: ErrDuplicateInternship})
			continue
		}
		valid = append(valid, in)
	}

	return len(wb.Internships), issues, nil
}
