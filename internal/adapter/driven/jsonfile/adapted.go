// Package jsonfile implements the JSON storage file for internships and the
// adapted (string-based) transport form records are persisted in.
package jsonfile

import (
	"encoding/json"
	"slices"

	"github.com/ericfisherdev/workbook/internal/domain/model"
)

// AdaptedInternship is the persisted form of an internship. A nil field means
// the value was absent from storage, which is reported differently from a
// present but malformed value.
type AdaptedInternship struct {
	Company  *string      `json:"company"`
	Role     *string      `json:"role"`
	Phone    *string      `json:"phone"`
	Email    *string      `json:"email"`
	Stage    *string      `json:"stage"`
	DateTime *string      `json:"dateTime"`
	Tags     []AdaptedTag `json:"tagged"`
}

// NewAdaptedInternship stores the given raw values without validating them.
func NewAdaptedInternship(company, role, phone, email, stage, dateTime *string, tags []AdaptedTag) AdaptedInternship {
	return AdaptedInternship{
		Company:  company,
		Role:     role,
		Phone:    phone,
		Email:    email,
		Stage:    stage,
		DateTime: dateTime,
		Tags:     slices.Clone(tags),
	}
}

// FromModel converts a validated internship into its persisted form.
func FromModel(in model.Internship) AdaptedInternship {
	tags := in.Tags()
	adapted := make([]AdaptedTag, 0, len(tags))
	for _, t := range tags {
		adapted = append(adapted, AdaptedTag{Name: t.String()})
	}

	return AdaptedInternship{
		Company:  ptr(in.Company().String()),
		Role:     ptr(in.Role().String()),
		Phone:    ptr(in.Phone().String()),
		Email:    ptr(in.Email().String()),
		Stage:    ptr(in.Stage().String()),
		DateTime: ptr(in.DateTime().String()),
		Tags:     adapted,
	}
}

// ToModel validates every field and builds the internship. Scalar fields are
// checked in declaration order, then tags in list order; the first failure is
// returned as a *model.FieldError.
func (a AdaptedInternship) ToModel() (model.Internship, error) {
	company, err := convertField(a.Company, model.FieldCompany, model.NewCompany)
	if err != nil {
		return model.Internship{}, err
	}
	role, err := convertField(a.Role, model.FieldRole, model.NewRole)
	if err != nil {
		return model.Internship{}, err
	}
	phone, err := convertField(a.Phone, model.FieldPhone, model.NewPhone)
	if err != nil {
		return model.Internship{}, err
	}
	email, err := convertField(a.Email, model.FieldEmail, model.NewEmail)
	if err != nil {
		return model.Internship{}, err
	}
	stage, err := convertField(a.Stage, model.FieldStage, model.NewStage)
	if err != nil {
		return model.Internship{}, err
	}
	dateTime, err := convertField(a.DateTime, model.FieldDateTime, model.NewDateTime)
	if err != nil {
		return model.Internship{}, err
	}

	tags := make([]model.Tag, 0, len(a.Tags))
	for _, at := range a.Tags {
		t, err := at.ToModel()
		if err != nil {
			return model.Internship{}, err
		}
		tags = append(tags, t)
	}

	return model.NewInternship(company, role, phone, email, stage, dateTime, tags), nil
}

// convertField reports a missing-field error for nil input and otherwise
// defers to the field's constructor.
func convertField[T any](raw *string, f model.Field, newValue func(string) (T, error)) (T, error) {
	if raw == nil {
		var zero T
		return zero, model.MissingFieldError(f)
	}
	return newValue(*raw)
}

// AdaptedTag wraps a single raw tag. It is stored as a bare JSON string.
type AdaptedTag struct {
	Name string
}

// ToModel validates the wrapped name as a tag.
func (t AdaptedTag) ToModel() (model.Tag, error) {
	return model.NewTag(t.Name)
}

// MarshalJSON encodes the tag as its name.
func (t AdaptedTag) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Name)
}

// UnmarshalJSON decodes a bare JSON string into the tag.
func (t *AdaptedTag) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &t.Name)
}

func ptr(s string) *string {
	return &s
}
