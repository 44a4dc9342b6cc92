package model

import (
	"slices"
	"strings"
)

// Internship is a validated internship application. It can only be built
// from already-validated field values and is never mutated afterwards; an
// edit produces a new Internship.
type Internship struct {
	company  Company
	role     Role
	phone    Phone
	email    Email
	stage    Stage
	dateTime DateTime
	tags     []Tag // sorted, unique
}

// NewInternship assembles an Internship. Duplicate tags are collapsed and
// tag order is not significant.
func NewInternship(company Company, role Role, phone Phone, email Email, stage Stage, dateTime DateTime, tags []Tag) Internship {
	return Internship{
		company:  company,
		role:     role,
		phone:    phone,
		email:    email,
		stage:    stage,
		dateTime: dateTime,
		tags:     normalizeTags(tags),
	}
}

func (in Internship) Company() Company   { return in.company }
func (in Internship) Role() Role         { return in.role }
func (in Internship) Phone() Phone       { return in.phone }
func (in Internship) Email() Email       { return in.email }
func (in Internship) Stage() Stage       { return in.stage }
func (in Internship) DateTime() DateTime { return in.dateTime }

// Tags returns a copy of the tag set in sorted order.
func (in Internship) Tags() []Tag {
	return slices.Clone(in.tags)
}

// HasTag reports whether the internship carries the given tag.
func (in Internship) HasTag(t Tag) bool {
	_, found := slices.BinarySearchFunc(in.tags, t, compareTags)
	return found
}

// Equal reports whether both internships have identical field values.
func (in Internship) Equal(other Internship) bool {
	return in.company == other.company &&
		in.role == other.role &&
		in.phone == other.phone &&
		in.email == other.email &&
		in.stage == other.stage &&
		in.dateTime == other.dateTime &&
		slices.Equal(in.tags, other.tags)
}

// IsSame reports whether other describes the same application, i.e. the same
// role at the same company. Case is ignored for both.
func (in Internship) IsSame(other Internship) bool {
	return in.Matches(other.company.value, other.role.value)
}

// Matches reports whether the internship is for role at company, ignoring case.
func (in Internship) Matches(company, role string) bool {
	return strings.EqualFold(in.company.value, company) &&
		strings.EqualFold(in.role.value, role)
}

// WithStage returns a copy of the internship moved to a new stage.
func (in Internship) WithStage(stage Stage) Internship {
	out := in
	out.stage = stage
	out.tags = slices.Clone(in.tags)
	return out
}

func normalizeTags(tags []Tag) []Tag {
	if len(tags) == 0 {
		return nil
	}
	out := slices.Clone(tags)
	slices.SortFunc(out, compareTags)
	return slices.Compact(out)
}

func compareTags(a, b Tag) int {
	return strings.Compare(a.value, b.value)
}
