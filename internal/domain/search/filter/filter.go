package filter

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// MaxCircles is the maximum number of circle ids in one filter.
const MaxCircles = 32

// MaxValueLength is the maximum length of a scalar filter value.
const MaxValueLength = 256

// Dimension is a filterable, facetable attribute of a friend.
type Dimension string

// Filter dimensions.
const (
	Country              Dimension = "country"
	City                 Dimension = "city"
	Organization         Dimension = "organization"
	JobTitle             Dimension = "job_title"
	Department           Dimension = "department"
	RelationshipCategory Dimension = "relationship_category"
	Circles              Dimension = "circles"
)

// FieldDimensions are the scalar dimensions, in facet display order.
var FieldDimensions = []Dimension{
	Country, City, Organization, JobTitle, Department, RelationshipCategory,
}

// Label returns the human-readable label of the dimension.
func (d Dimension) Label() string {
	switch d {
	case Country:
		return "Country"
	case City:
		return "City"
	case Organization:
		return "Organization"
	case JobTitle:
		return "Job Title"
	case Department:
		return "Department"
	case RelationshipCategory:
		return "Relationship"
	case Circles:
		return "Circles"
	default:
		return string(d)
	}
}

// IsValid reports whether d is a known dimension.
func (d Dimension) IsValid() bool {
	if d == Circles {
		return true
	}
	for _, f := range FieldDimensions {
		if f == d {
			return true
		}
	}
	return false
}

// RelationshipCategories are the accepted relationship_category values.
var RelationshipCategories = []string{"family", "friend", "professional", "romantic", "other"}

// Set holds the structured filters of a search. A nil field means no constraint.
type Set struct {
	country              *string
	city                 *string
	organization         *string
	jobTitle             *string
	department           *string
	relationshipCategory *string
	circles              []string
}

// Values carries untyped filter input. Empty strings mean unset.
type Values struct {
	Country              string
	City                 string
	Organization         string
	JobTitle             string
	Department           string
	RelationshipCategory string
	Circles              []string
}

// New validates and normalizes filter input.
func New(v Values) (Set, error) {
	var s Set
	scalars := []struct {
		dim Dimension
		raw string
		dst **string
	}{
		{Country, v.Country, &s.country},
		{City, v.City, &s.city},
		{Organization, v.Organization, &s.organization},
		{JobTitle, v.JobTitle, &s.jobTitle},
		{Department, v.Department, &s.department},
		{RelationshipCategory, v.RelationshipCategory, &s.relationshipCategory},
	}
	for _, sc := range scalars {
		val := strings.TrimSpace(sc.raw)
		if val == "" {
			continue
		}
		if len(val) > MaxValueLength {
			return Set{}, fmt.Errorf("%s too long (max %d chars)", sc.dim, MaxValueLength)
		}
		*sc.dst = &val
	}

	if s.relationshipCategory != nil {
		cat := strings.ToLower(*s.relationshipCategory)
		if !isRelationshipCategory(cat) {
			return Set{}, fmt.Errorf("unknown relationship_category %q", *s.relationshipCategory)
		}
		s.relationshipCategory = &cat
	}

	circles, err := normalizeCircles(v.Circles)
	if err != nil {
		return Set{}, err
	}
	s.circles = circles

	return s, nil
}

func normalizeCircles(raw []string) ([]string, error) {
	seen := make(map[string]struct{}, len(raw))
	var out []string
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, fmt.Errorf("invalid circle id %q", r)
		}
		key := id.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	if len(out) > MaxCircles {
		return nil, fmt.Errorf("too many circles (max %d)", MaxCircles)
	}
	return out, nil
}

func isRelationshipCategory(c string) bool {
	for _, known := range RelationshipCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Country returns the country constraint.
func (s Set) Country() *string { return s.country }

// City returns the city constraint.
func (s Set) City() *string { return s.city }

// Organization returns the organization constraint.
func (s Set) Organization() *string { return s.organization }

// JobTitle returns the job title constraint.
func (s Set) JobTitle() *string { return s.jobTitle }

// Department returns the department constraint.
func (s Set) Department() *string { return s.department }

// RelationshipCategory returns the relationship category constraint.
func (s Set) RelationshipCategory() *string { return s.relationshipCategory }

// Circles returns the circle external ids; a friend matches if it belongs to any of them.
func (s Set) Circles() []string { return s.circles }

// Field returns the scalar constraint for d, nil when unset or d is not scalar.
func (s Set) Field(d Dimension) *string {
	switch d {
	case Country:
		return s.country
	case City:
		return s.city
	case Organization:
		return s.organization
	case JobTitle:
		return s.jobTitle
	case Department:
		return s.department
	case RelationshipCategory:
		return s.relationshipCategory
	default:
		return nil
	}
}

// Has reports whether d is constrained.
func (s Set) Has(d Dimension) bool {
	if d == Circles {
		return len(s.circles) > 0
	}
	return s.Field(d) != nil
}

// IsEmpty reports whether no dimension is constrained.
func (s Set) IsEmpty() bool {
	if len(s.circles) > 0 {
		return false
	}
	for _, d := range FieldDimensions {
		if s.Field(d) != nil {
			return false
		}
	}
	return true
}

// Without returns a copy of s with the constraint on d removed.
func (s Set) Without(d Dimension) Set {
	out := s
	switch d {
	case Country:
		out.country = nil
	case City:
		out.city = nil
	case Organization:
		out.organization = nil
	case JobTitle:
		out.jobTitle = nil
	case Department:
		out.department = nil
	case RelationshipCategory:
		out.relationshipCategory = nil
	case Circles:
		out.circles = nil
	}
	return out
}

// Fields returns the active constraints as dimension/value pairs, for logging.
func (s Set) Fields() map[string]string {
	m := make(map[string]string)
	for _, d := range FieldDimensions {
		if v := s.Field(d); v != nil {
			m[string(d)] = *v
		}
	}
	if len(s.circles) > 0 {
		m[string(Circles)] = strings.Join(s.circles, ",")
	}
	return m
}
