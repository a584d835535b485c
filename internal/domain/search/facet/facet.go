// Package facet holds facet counts for the filterable dimensions of a search.
//
// A count for dimension d reflects the candidate set before the constraint on
// d itself is applied, so a client can show how many rows picking a value adds.
package facet

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/friendsearch/internal/domain/search/filter"
)

// MaxValuesPerField caps the number of values returned per dimension.
const MaxValuesPerField = 25

// Scope selects the candidate set facets are counted over.
type Scope string

// Facet scopes.
const (
	// Contextual counts over the query and every filter except the counted dimension.
	Contextual Scope = "contextual"
	// Global counts over all of the user's rows, ignoring query and filters.
	Global Scope = "global"
)

// IsValid checks if the scope is one of the supported values.
func (s Scope) IsValid() bool {
	return s == Contextual || s == Global
}

// Bucket is a named group of facet categories.
type Bucket string

// Buckets.
const (
	Location     Bucket = "location"
	Professional Bucket = "professional"
	Relationship Bucket = "relationship"
)

// BucketOf returns the bucket a scalar dimension is grouped into.
func BucketOf(d filter.Dimension) (Bucket, bool) {
	switch d {
	case filter.Country, filter.City:
		return Location, true
	case filter.Organization, filter.JobTitle, filter.Department:
		return Professional, true
	case filter.RelationshipCategory:
		return Relationship, true
	default:
		return "", false
	}
}

// Value is a facet value and the number of candidates carrying it.
type Value struct {
	Value string `json:"value"`
	Label string `json:"label,omitempty"`
	Count int    `json:"count"`
}

// Category is the list of values of one dimension.
type Category struct {
	Field  filter.Dimension `json:"field"`
	Label  string           `json:"label"`
	Values []Value          `json:"values"`
}

// CircleValue is a circle and the number of candidates in it.
type CircleValue struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

// Groups are the four facet buckets of a response.
type Groups struct {
	Location     []Category    `json:"location"`
	Professional []Category    `json:"professional"`
	Relationship []Category    `json:"relationship"`
	Circles      []CircleValue `json:"circles"`
}

// Row is a raw (field, value, count) triple from the store.
type Row struct {
	Field string
	Value string
	Count int
}

// Merge groups raw rows and circle counts into buckets. Values with a zero
// count are dropped, and a dimension without values is omitted. An unknown
// field is an error.
func Merge(rows []Row, circles []CircleValue) (Groups, error) {
	byField := make(map[filter.Dimension][]Value)
	for _, r := range rows {
		d := filter.Dimension(r.Field)
		if _, ok := BucketOf(d); !ok {
			return Groups{}, fmt.Errorf("unexpected facet field %q", r.Field)
		}
		if r.Count < 0 {
			return Groups{}, fmt.Errorf("negative count for facet %s=%q", r.Field, r.Value)
		}
		if r.Count == 0 || r.Value == "" {
			continue
		}
		byField[d] = append(byField[d], Value{Value: r.Value, Label: valueLabel(d, r.Value), Count: r.Count})
	}

	g := Groups{
		Location:     []Category{},
		Professional: []Category{},
		Relationship: []Category{},
		Circles:      []CircleValue{},
	}
	for _, d := range filter.FieldDimensions {
		values := byField[d]
		if len(values) == 0 {
			continue
		}
		sortValues(values)
		cat := Category{Field: d, Label: d.Label(), Values: values}
		b, _ := BucketOf(d)
		switch b {
		case Location:
			g.Location = append(g.Location, cat)
		case Professional:
			g.Professional = append(g.Professional, cat)
		case Relationship:
			g.Relationship = append(g.Relationship, cat)
		}
	}

	for _, c := range circles {
		if c.Count > 0 {
			g.Circles = append(g.Circles, c)
		}
	}
	sort.SliceStable(g.Circles, func(i, j int) bool {
		if g.Circles[i].Count != g.Circles[j].Count {
			return g.Circles[i].Count > g.Circles[j].Count
		}
		return g.Circles[i].Label < g.Circles[j].Label
	})

	return g, nil
}

func sortValues(values []Value) {
	sort.SliceStable(values, func(i, j int) bool {
		if values[i].Count != values[j].Count {
			return values[i].Count > values[j].Count
		}
		return values[i].Value < values[j].Value
	})
}

// valueLabel: relationship categories are stored lower case, shown capitalized.
func valueLabel(d filter.Dimension, v string) string {
	if d != filter.RelationshipCategory || v == "" {
		return ""
	}
	return strings.ToUpper(v[:1]) + v[1:]
}

// Find returns the category of d, if present.
func (g *Groups) Find(d filter.Dimension) (Category, bool) {
	for _, bucket := range [][]Category{g.Location, g.Professional, g.Relationship} {
		for _, c := range bucket {
			if c.Field == d {
				return c, true
			}
		}
	}
	return Category{}, false
}
