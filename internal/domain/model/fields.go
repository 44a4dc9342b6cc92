package model

import (
	"regexp"
	"time"
)

// Constraint messages returned verbatim when a field fails validation.
const (
	CompanyConstraint = "Company names should only contain alphanumeric characters and spaces, and it should not be blank"
	RoleConstraint    = "Roles should only contain alphanumeric characters and spaces, and it should not be blank"
	PhoneConstraint   = "Phone numbers should only contain numbers, and it should be at least 3 digits long"
	EmailConstraint   = "Emails should be of the format local-part@domain and adhere to the following constraints:\n" +
		"1. The local-part should only contain alphanumeric characters and these special characters, excluding " +
		"the parentheses, (+_.-). The local-part may not start or end with any special characters.\n" +
		"2. This is followed by a '@' and then a domain name. The domain name is made up of domain labels " +
		"separated by periods, and must contain at least one period.\n" +
		"The domain name must:\n" +
		"    - end with a domain label at least 2 characters long\n" +
		"    - have each domain label start and end with alphanumeric characters\n" +
		"    - have each domain label consist of alphanumeric characters, separated only by hyphens, if any."
	StageConstraint    = "Stages should only contain alphanumeric characters and spaces, and it should not be blank"
	DateTimeConstraint = "Date and time should be in the format dd-MMM-yyyy HH:mm, e.g. 12-Oct-2022 12:00"
	TagConstraint      = "Tags names should be alphanumeric"
)

// DateTimeLayout is the single accepted date-time layout.
const DateTimeLayout = "02-Jan-2006 15:04"

// MinPhoneDigits is the shortest phone number accepted.
const MinPhoneDigits = 3

var (
	wordsPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 ]*$`)
	phonePattern = regexp.MustCompile(`^[0-9]+$`)
	tagPattern   = regexp.MustCompile(`^[A-Za-z0-9]+$`)

	emailPattern = regexp.MustCompile(
		`^[A-Za-z0-9]+(?:[+_.-][A-Za-z0-9]+)*` +
			`@(?:[A-Za-z0-9]+(?:-[A-Za-z0-9]+)*\.)+` +
			`([A-Za-z0-9]+(?:-[A-Za-z0-9]+)*)$`,
	)
)

// IsValidCompany reports whether raw is a valid company name.
func IsValidCompany(raw string) bool { return wordsPattern.MatchString(raw) }

// IsValidRole reports whether raw is a valid role title.
func IsValidRole(raw string) bool { return wordsPattern.MatchString(raw) }

// IsValidStage reports whether raw is a valid pipeline stage name.
func IsValidStage(raw string) bool { return wordsPattern.MatchString(raw) }

// IsValidTag reports whether raw is a valid tag label.
func IsValidTag(raw string) bool { return tagPattern.MatchString(raw) }

// IsValidPhone reports whether raw is all digits and at least MinPhoneDigits long.
func IsValidPhone(raw string) bool {
	return len(raw) >= MinPhoneDigits && phonePattern.MatchString(raw)
}

// IsValidEmail reports whether raw has the local-part@domain shape with a
// dotted domain whose last label is at least two characters.
func IsValidEmail(raw string) bool {
	m := emailPattern.FindStringSubmatch(raw)
	if m == nil {
		return false
	}
	return len(m[1]) >= 2
}

// IsValidDateTime reports whether raw is in DateTimeLayout exactly. Inputs
// that parse but would format differently (e.g. a lower-case month) are rejected.
func IsValidDateTime(raw string) bool {
	t, err := time.Parse(DateTimeLayout, raw)
	if err != nil {
		return false
	}
	return t.Format(DateTimeLayout) == raw
}

// Company is a validated company name.
type Company struct{ value string }

// NewCompany validates raw and returns it as a Company.
func NewCompany(raw string) (Company, error) {
	if !IsValidCompany(raw) {
		return Company{}, ConstraintError(FieldCompany)
	}
	return Company{value: raw}, nil
}

func (c Company) String() string { return c.value }

// Role is a validated role title.
type Role struct{ value string }

// NewRole validates raw and returns it as a Role.
func NewRole(raw string) (Role, error) {
	if !IsValidRole(raw) {
		return Role{}, ConstraintError(FieldRole)
	}
	return Role{value: raw}, nil
}

func (r Role) String() string { return r.value }

// Phone is a validated contact number.
type Phone struct{ value string }

// NewPhone validates raw and returns it as a Phone.
func NewPhone(raw string) (Phone, error) {
	if !IsValidPhone(raw) {
		return Phone{}, ConstraintError(FieldPhone)
	}
	return Phone{value: raw}, nil
}

func (p Phone) String() string { return p.value }

// Email is a validated contact email address.
type Email struct{ value string }

// NewEmail validates raw and returns it as an Email.
func NewEmail(raw string) (Email, error) {
	if !IsValidEmail(raw) {
		return Email{}, ConstraintError(FieldEmail)
	}
	return Email{value: raw}, nil
}

func (e Email) String() string { return e.value }

// Stage is the pipeline status of an application, e.g. "Applied" or
// "Technical Interview".
type Stage struct{ value string }

// NewStage validates raw and returns it as a Stage.
func NewStage(raw string) (Stage, error) {
	if !IsValidStage(raw) {
		return Stage{}, ConstraintError(FieldStage)
	}
	return Stage{value: raw}, nil
}

func (s Stage) String() string { return s.value }

// DateTime is a validated date and time in DateTimeLayout.
type DateTime struct{ value string }

// NewDateTime validates raw and returns it as a DateTime.
func NewDateTime(raw string) (DateTime, error) {
	if !IsValidDateTime(raw) {
		return DateTime{}, ConstraintError(FieldDateTime)
	}
	return DateTime{value: raw}, nil
}

func (d DateTime) String() string { return d.value }

// Tag is a short alphanumeric label.
type Tag struct{ value string }

// NewTag validates raw and returns it as a Tag.
func NewTag(raw string) (Tag, error) {
	if !IsValidTag(raw) {
		return Tag{}, ConstraintError(FieldTag)
	}
	return Tag{value: raw}, nil
}

func (t Tag) String() string { return t.value }
