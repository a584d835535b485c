package result

import "github.com/kailas-cloud/friendsearch/internal/domain/search/facet"

// MatchSource names the field category that produced the strongest match.
type MatchSource string

// Match sources, in precedence order.
const (
	MatchName         MatchSource = "name"
	MatchProfessional MatchSource = "professional"
	MatchContact      MatchSource = "contact"
	MatchNotes        MatchSource = "notes"
	MatchRelationship MatchSource = "relationship"
)

// IsValid checks if the source is one of the supported values.
func (m MatchSource) IsValid() bool {
	switch m {
	case MatchName, MatchProfessional, MatchContact, MatchNotes, MatchRelationship:
		return true
	default:
		return false
	}
}

// Circle is a circle a friend belongs to.
type Circle struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Item is a single search hit. Rank is 0 and Headline/MatchSource are nil for
// filter-only results.
type Item struct {
	ID                string       `json:"id"`
	DisplayName       string       `json:"displayName"`
	PhotoThumbnailURL *string      `json:"photoThumbnailUrl"`
	Organization      *string      `json:"organization"`
	JobTitle          *string      `json:"jobTitle"`
	PrimaryEmail      *string      `json:"primaryEmail"`
	PrimaryPhone      *string      `json:"primaryPhone"`
	Rank              float64      `json:"rank"`
	Headline          *string      `json:"headline"`
	MatchSource       *MatchSource `json:"matchSource"`
	Circles           []Circle     `json:"circles"`
}

// Page is a window of items plus the total candidate count.
type Page struct {
	Items []Item
	Total int
}

// Response is the paginated search response shared by every search path.
type Response struct {
	Results    []Item        `json:"results"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalPages int           `json:"totalPages"`
	Facets     *facet.Groups `json:"facets,omitempty"`
}

// NewResponse builds a response for a page window. Results is never nil.
func NewResponse(p Page, page, pageSize int) Response {
	items := p.Items
	if items == nil {
		items = []Item{}
	}
	return Response{
		Results:    items,
		Total:      p.Total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: TotalPages(p.Total, pageSize),
	}
}

// TotalPages returns ceil(total / pageSize), 0 when pageSize < 1.
func TotalPages(total, pageSize int) int {
	if pageSize < 1 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
