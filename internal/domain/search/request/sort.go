package request

import "strings"

// SortBy is a sortable result field.
type SortBy string

// Sort keys.
const (
	SortRelevance    SortBy = "relevance"
	SortName         SortBy = "display_name"
	SortCreatedAt    SortBy = "created_at"
	SortUpdatedAt    SortBy = "updated_at"
	SortOrganization SortBy = "organization"
)

// SortOrder is the direction of a sort.
type SortOrder string

// Sort directions.
const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

var sortKeys = map[string]SortBy{
	"relevance":    SortRelevance,
	"rank":         SortRelevance,
	"display_name": SortName,
	"name":         SortName,
	"created_at":   SortCreatedAt,
	"updated_at":   SortUpdatedAt,
	"organization": SortOrganization,
}

func parseSortBy(raw string) (SortBy, bool) {
	s, ok := sortKeys[strings.ToLower(strings.TrimSpace(raw))]
	return s, ok
}

func parseSortOrder(raw string) (SortOrder, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "asc":
		return Asc, true
	case "desc":
		return Desc, true
	default:
		return "", false
	}
}

// defaultOrder: most relevant and most recent first, alphabetical otherwise.
func defaultOrder(s SortBy) SortOrder {
	switch s {
	case SortRelevance, SortCreatedAt, SortUpdatedAt:
		return Desc
	default:
		return Asc
	}
}
