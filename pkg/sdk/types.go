package friendsearch

import (
	"github.com/kailas-cloud/friendsearch/internal/domain/search/facet"
	"github.com/kailas-cloud/friendsearch/internal/domain/search/result"
)

// Result is a single search hit.
type Result = result.Item

// Circle is a circle a friend belongs to.
type Circle = result.Circle

// MatchSource is the field category that produced a hit.
type MatchSource = result.MatchSource

// Response is a page of results with totals and optional facets.
type Response = result.Response

// FacetGroups are the facet buckets of a Response.
type FacetGroups = facet.Groups

// Sort keys.
const (
	SortRelevance    = "relevance"
	SortName         = "display_name"
	SortCreatedAt    = "created_at"
	SortUpdatedAt    = "updated_at"
	SortOrganization = "organization"
)

// Filters narrows a search. Empty fields are unset. Circles holds circle ids;
// a friend matches when it belongs to any of them.
type Filters struct {
	Country              string
	City                 string
	Organization         string
	JobTitle             string
	Department           string
	RelationshipCategory string
	Circles              []string
}
