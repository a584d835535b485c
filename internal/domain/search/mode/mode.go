package mode

// Mode is the query path a search executes on.
type Mode string

// Search mode constants.
const (
	// Relevance ranks full-text and substring matches of a query.
	Relevance Mode = "relevance"
	// FilterOnly lists rows matching structured filters, without ranking.
	FilterOnly Mode = "filter_only"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Relevance || m == FilterOnly
}

// Ranked reports whether results on this path carry rank, headline and match source.
func (m Mode) Ranked() bool {
	return m == Relevance
}
