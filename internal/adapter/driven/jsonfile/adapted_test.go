package jsonfile

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/workbook/internal/domain/model"
)

const (
	invalidCompany  = "R@chel"
	invalidRole     = "R@chel"
	invalidPhone    = "+651234"
	invalidEmail    = "example.com"
	invalidStage    = "H@ Interview"
	invalidDateTime = "12-02-2022 12:00"
	invalidTag      = "#friend"

	validCompany  = "Benson Meier"
	validRole     = "Software Engineer"
	validPhone    = "98765432"
	validEmail    = "johnd@example.com"
	validStage    = "Technical Interview"
	validDateTime = "12-Oct-2022 12:00"
)

var validTags = []AdaptedTag{{Name: "owesMoney"}, {Name: "friends"}}

// benson builds the fixture internship from the valid field values.
func benson(t *testing.T) model.Internship {
	t.Helper()
	in, err := validAdapted().ToModel()
	require.NoError(t, err)
	return in
}

func validAdapted() AdaptedInternship {
	return NewAdaptedInternship(
		ptr(validCompany), ptr(validRole), ptr(validPhone),
		ptr(validEmail), ptr(validStage), ptr(validDateTime), validTags,
	)
}

func TestToModel_ValidInternship_RoundTrips(t *testing.T) {
	in := benson(t)

	got, err := FromModel(in).ToModel()

	require.NoError(t, err)
	assert.Equal(t, in, got)
	assert.True(t, in.Equal(got))
}

func TestToModel_InvalidField_ReturnsConstraintMessage(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(a *AdaptedInternship)
		field   model.Field
		message string
	}{
		{"company", func(a *AdaptedInternship) { a.Company = ptr(invalidCompany) }, model.FieldCompany, model.CompanyConstraint},
		{"role", func(a *AdaptedInternship) { a.Role = ptr(invalidRole) }, model.FieldRole, model.RoleConstraint},
		{"phone", func(a *AdaptedInternship) { a.Phone = ptr(invalidPhone) }, model.FieldPhone, model.PhoneConstraint},
		{"email", func(a *AdaptedInternship) { a.Email = ptr(invalidEmail) }, model.FieldEmail, model.EmailConstraint},
		{"stage", func(a *AdaptedInternship) { a.Stage = ptr(invalidStage) }, model.FieldStage, model.StageConstraint},
		{"date time", func(a *AdaptedInternship) { a.DateTime = ptr(invalidDateTime) }, model.FieldDateTime, model.DateTimeConstraint},
		{"empty company", func(a *AdaptedInternship) { a.Company = ptr("") }, model.FieldCompany, model.CompanyConstraint},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validAdapted()
			tt.mutate(&a)

			_, err := a.ToModel()

			require.Error(t, err)
			assert.EqualError(t, err, tt.message)
			assert.ErrorIs(t, err, model.ErrConstraintViolation)

			var fe *model.FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}

func TestToModel_MissingField_NamesField(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(a *AdaptedInternship)
		field  string
	}{
		{"company", func(a *AdaptedInternship) { a.Company = nil }, "Company"},
		{"role", func(a *AdaptedInternship) { a.Role = nil }, "Role"},
		{"phone", func(a *AdaptedInternship) { a.Phone = nil }, "Phone"},
		{"email", func(a *AdaptedInternship) { a.Email = nil }, "Email"},
		{"stage", func(a *AdaptedInternship) { a.Stage = nil }, "Stage"},
		{"date time", func(a *AdaptedInternship) { a.DateTime = nil }, "DateTime"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validAdapted()
			tt.mutate(&a)

			_, err := a.ToModel()

			require.Error(t, err)
			assert.EqualError(t, err, fmt.Sprintf(model.MissingFieldFormat, tt.field))
			assert.ErrorIs(t, err, model.ErrMissingField)
		})
	}
}

func TestToModel_NullCompany_Message(t *testing.T) {
	a := validAdapted()
	a.Company = nil

	_, err := a.ToModel()

	assert.EqualError(t, err, "Internship's Company field is missing!")
}

func TestToModel_NullStage_ReportsMissingField(t *testing.T) {
	a := NewAdaptedInternship(ptr(validCompany), ptr(validRole), ptr(validPhone),
		ptr(validEmail), nil, ptr(validDateTime), validTags)

	_, err := a.ToModel()

	assert.EqualError(t, err, fmt.Sprintf(model.MissingFieldFormat, "Stage"))
}

func TestToModel_InvalidStage_ReportsConstraint(t *testing.T) {
	a := NewAdaptedInternship(ptr(validCompany), ptr(validRole), ptr(validPhone),
		ptr(validEmail), ptr(invalidStage), ptr(validDateTime), validTags)

	_, err := a.ToModel()

	assert.EqualError(t, err, model.StageConstraint)
}

// Every field from the broken one onwards is also invalid, so the reported
// error proves later fields were never consulted.
func TestToModel_FirstFailingFieldWins(t *testing.T) {
	a := NewAdaptedInternship(ptr(validCompany), nil, ptr(invalidPhone),
		nil, ptr(invalidStage), ptr(invalidDateTime), []AdaptedTag{{Name: invalidTag}})

	_, err := a.ToModel()
	assert.EqualError(t, err, fmt.Sprintf(model.MissingFieldFormat, "Role"))

	a.Role = ptr(validRole)
	_, err = a.ToModel()
	assert.EqualError(t, err, model.PhoneConstraint)

	a.Phone = ptr(validPhone)
	_, err = a.ToModel()
	assert.EqualError(t, err, fmt.Sprintf(model.MissingFieldFormat, "Email"))

	a.Email = ptr(validEmail)
	_, err = a.ToModel()
	assert.EqualError(t, err, model.StageConstraint)

	a.Stage = ptr(validStage)
	_, err = a.ToModel()
	assert.EqualError(t, err, model.DateTimeConstraint)

	a.DateTime = ptr(validDateTime)
	_, err = a.ToModel()
	assert.EqualError(t, err, model.TagConstraint)
}

func TestToModel_InvalidTag_FailsRegardlessOfPosition(t *testing.T) {
	for pos := 0; pos <= len(validTags); pos++ {
		t.Run(fmt.Sprintf("position %d", pos), func(t *testing.T) {
			tags := make([]AdaptedTag, 0, len(validTags)+1)
			tags = append(tags, validTags[:pos]...)
			tags = append(tags, AdaptedTag{Name: invalidTag})
			tags = append(tags, validTags[pos:]...)

			a := NewAdaptedInternship(ptr(validCompany), ptr(validRole), ptr(validPhone),
				ptr(validEmail), ptr(validStage), ptr(validDateTime), tags)

			_, err := a.ToModel()

			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrConstraintViolation)
			assert.EqualError(t, err, model.TagConstraint)
		})
	}
}

func TestToModel_DuplicateTagsCollapse(t *testing.T) {
	a := validAdapted()
	a.Tags = append(a.Tags, AdaptedTag{Name: "friends"})

	got, err := a.ToModel()

	require.NoError(t, err)
	assert.Equal(t, benson(t), got)
	assert.Len(t, got.Tags(), 2)
}

func TestToModel_NoTags(t *testing.T) {
	a := validAdapted()
	a.Tags = nil

	got, err := a.ToModel()

	require.NoError(t, err)
	assert.Empty(t, got.Tags())
}

func TestToModel_Idempotent(t *testing.T) {
	a := validAdapted()

	first, err := a.ToModel()
	require.NoError(t, err)
	second, err := a.ToModel()
	require.NoError(t, err)
	assert.Equal(t, first, second)

	a.Email = ptr(invalidEmail)
	_, errA := a.ToModel()
	_, errB := a.ToModel()
	assert.Equal(t, errA, errB)
}

func TestNewAdaptedInternship_CopiesTags(t *testing.T) {
	tags := []AdaptedTag{{Name: "friends"}}
	a := NewAdaptedInternship(ptr(validCompany), ptr(validRole), ptr(validPhone),
		ptr(validEmail), ptr(validStage), ptr(validDateTime), tags)

	tags[0].Name = invalidTag

	_, err := a.ToModel()
	assert.NoError(t, err)
}

func TestAdaptedInternship_JSONShape(t *testing.T) {
	a := validAdapted()
	a.Phone = nil

	data, err := json.Marshal(a)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"company": "Benson Meier",
		"role": "Software Engineer",
		"phone": null,
		"email": "johnd@example.com",
		"stage": "Technical Interview",
		"dateTime": "12-Oct-2022 12:00",
		"tagged": ["owesMoney", "friends"]
	}`, string(data))
}

func TestAdaptedInternship_DecodesMissingKeysAsAbsent(t *testing.T) {
	var a AdaptedInternship
	err := json.Unmarshal([]byte(`{"company": "Meta", "role": "SWE", "tagged": ["remote"]}`), &a)
	require.NoError(t, err)

	assert.Nil(t, a.Phone)
	assert.Equal(t, []AdaptedTag{{Name: "remote"}}, a.Tags)

	_, err = a.ToModel()
	assert.EqualError(t, err, fmt.Sprintf(model.MissingFieldFormat, "Phone"))
}

func TestAdaptedTag_ToModel(t *testing.T) {
	tag, err := AdaptedTag{Name: "friends"}.ToModel()
	require.NoError(t, err)
	assert.Equal(t, "friends", tag.String())

	_, err = AdaptedTag{Name: invalidTag}.ToModel()
	assert.EqualError(t, err, model.TagConstraint)
}
