package model

// Field identifies one validated attribute of an Internship.
type Field int

const (
	FieldCompany Field = iota + 1
	FieldRole
	FieldPhone
	FieldEmail
	FieldStage
	FieldDateTime
	FieldTag
)

// ScalarFields lists the single-valued fields in the order conversion checks them.
var ScalarFields = []Field{
	FieldCompany,
	FieldRole,
	FieldPhone,
	FieldEmail,
	FieldStage,
	FieldDateTime,
}

type fieldRule struct {
	name       string
	constraint string
	valid      func(string) bool
}

var fieldRules = map[Field]fieldRule{
	FieldCompany:  {name: "Company", constraint: CompanyConstraint, valid: IsValidCompany},
	FieldRole:     {name: "Role", constraint: RoleConstraint, valid: IsValidRole},
	FieldPhone:    {name: "Phone", constraint: PhoneConstraint, valid: IsValidPhone},
	FieldEmail:    {name: "Email", constraint: EmailConstraint, valid: IsValidEmail},
	FieldStage:    {name: "Stage", constraint: StageConstraint, valid: IsValidStage},
	FieldDateTime: {name: "DateTime", constraint: DateTimeConstraint, valid: IsValidDateTime},
	FieldTag:      {name: "Tag", constraint: TagConstraint, valid: IsValidTag},
}

// String returns the field's display name, as used in the missing-field message.
func (f Field) String() string {
	if r, ok := fieldRules[f]; ok {
		return r.name
	}
	return "Unknown"
}

// Constraint returns the fixed message describing the field's syntax rule.
func (f Field) Constraint() string {
	return fieldRules[f].constraint
}

// Valid reports whether raw satisfies the field's syntax rule.
func (f Field) Valid(raw string) bool {
	r, ok := fieldRules[f]
	if !ok {
		return false
	}
	return r.valid(raw)
}

// Validate returns nil when raw satisfies the field's rule, or the field's
// constraint error otherwise.
func (f Field) Validate(raw string) error {
	if !f.Valid(raw) {
		return ConstraintError(f)
	}
	return nil
}
