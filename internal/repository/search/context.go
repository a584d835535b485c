package search

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/friendsearch/internal/db"
	"github.com/kailas-cloud/friendsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/friendsearch/internal/domain/search/pattern"
	"github.com/kailas-cloud/friendsearch/internal/domain/search/request"
	"github.com/kailas-cloud/friendsearch/internal/domain/search/snippet"
)

// matcher is the text-matching strategy of a search: relevance matching for a
// query, or nothing at all for filter-only listing. Both variants feed the
// same execution routine.
type matcher interface {
	// bind registers the matcher's arguments and returns its SQL fragments.
	bind(args *db.Args) clause
}

// clause holds the SQL fragments a matcher contributes to a statement.
type clause struct {
	joins []string
	// columns renders the rank, headline and match_source select-list
	// expressions, in that order. Arguments only they use are bound on call.
	columns   func(args *db.Args) []string
	predicate string
	ranked    bool
}

// filterOnly contributes constant ranking columns and no predicate.
type filterOnly struct{}

func (filterOnly) bind(*db.Args) clause {
	return clause{
		columns: func(*db.Args) []string {
			return []string{
				"0::float8 AS rank",
				"NULL::text AS headline",
				"NULL::text AS match_source",
			}
		},
	}
}

// relevance matches a query by full-text search and by substring, and ranks,
// highlights and attributes every hit.
type relevance struct {
	query      string
	textConfig string
	headline   string
}

func newRelevance(query, textConfig string, headlineMaxWords int) relevance {
	return relevance{
		query:      query,
		textConfig: textConfig,
		headline:   headlineOptions(headlineMaxWords),
	}
}

// headlineOptions builds the ts_headline option string. MinWords must stay
// below MaxWords.
func headlineOptions(maxWords int) string {
	minWords := maxWords / 2
	if minWords > 15 {
		minWords = 15
	}
	if minWords < 1 {
		minWords = 1
	}
	return fmt.Sprintf("StartSel=%s, StopSel=%s, MaxWords=%d, MinWords=%d",
		snippet.StartSel, snippet.StopSel, maxWords, minWords)
}

// inlineVector mirrors the generated friends.search_vector column for a text
// configuration other than the one the column is generated with.
const inlineVector = `(setweight(to_tsvector(%[1]s, concat_ws(' ', f.display_name, f.nickname)), 'A') || ` +
	`setweight(to_tsvector(%[1]s, concat_ws(' ', f.organization, f.job_title, f.department)), 'B') || ` +
	`setweight(to_tsvector(%[1]s, coalesce(f.notes, '')), 'C'))`

// searchVector returns the document vector for cfg, the stored column when
// cfg is the configuration it is generated with.
func (r relevance) searchVector(cfg string) string {
	if r.textConfig == DefaultTextConfig {
		return "f.search_vector"
	}
	return fmt.Sprintf(inlineVector, cfg)
}

// matchSourceLateral picks the highest-precedence field category matching the
// query: name, professional, contact, notes, relationship. A query whose terms
// only match across categories falls back to the first of name, professional
// and notes holding any of its terms. Verbs: 1 text config, 2 tsquery,
// 3 escaped substring pattern, 4 any-term tsquery.
const matchSourceLateral = `LEFT JOIN LATERAL (
  SELECT m.prio, m.source, m.text
  FROM (
    SELECT 1 AS prio, 'name' AS source, concat_ws(' ', f.display_name, f.nickname) AS text
    WHERE to_tsvector(%[1]s, concat_ws(' ', f.display_name, f.nickname)) @@ %[2]s
       OR concat_ws(' ', f.display_name, f.nickname) ILIKE %[3]s ESCAPE '\'
    UNION ALL
    SELECT 2, 'professional', concat_ws(' ', f.organization, f.job_title, f.department)
    WHERE to_tsvector(%[1]s, concat_ws(' ', f.organization, f.job_title, f.department)) @@ %[2]s
       OR concat_ws(' ', f.organization, f.job_title, f.department) ILIKE %[3]s ESCAPE '\'
    UNION ALL
    SELECT 3, 'contact', e.email_address FROM friend_emails e
    WHERE e.friend_id = f.id AND e.email_address ILIKE %[3]s ESCAPE '\'
    UNION ALL
    SELECT 3, 'contact', ph.phone_number FROM friend_phones ph
    WHERE ph.friend_id = f.id AND ph.phone_number ILIKE %[3]s ESCAPE '\'
    UNION ALL
    SELECT 4, 'notes', f.notes
    WHERE to_tsvector(%[1]s, coalesce(f.notes, '')) @@ %[2]s
       OR f.notes ILIKE %[3]s ESCAPE '\'
    UNION ALL
    SELECT 4, 'notes', mi.met_context FROM friend_met_info mi
    WHERE mi.friend_id = f.id
      AND (to_tsvector(%[1]s, coalesce(mi.met_context, '')) @@ %[2]s OR mi.met_context ILIKE %[3]s ESCAPE '\')
    UNION ALL
    SELECT 5, 'relationship', concat_ws(' ', rt.name, fr.notes) FROM friend_relationships fr
    JOIN relationship_types rt ON rt.id = fr.relationship_type_id
    WHERE fr.friend_id = f.id
      AND (to_tsvector(%[1]s, coalesce(fr.notes, '')) @@ %[2]s
        OR fr.notes ILIKE %[3]s ESCAPE '\' OR rt.name ILIKE %[3]s ESCAPE '\')
    UNION ALL
    SELECT 6, 'name', concat_ws(' ', f.display_name, f.nickname)
    WHERE to_tsvector(%[1]s, concat_ws(' ', f.display_name, f.nickname)) @@ %[4]s
    UNION ALL
    SELECT 7, 'professional', concat_ws(' ', f.organization, f.job_title, f.department)
    WHERE to_tsvector(%[1]s, concat_ws(' ', f.organization, f.job_title, f.department)) @@ %[4]s
    UNION ALL
    SELECT 8, 'notes', f.notes
    WHERE to_tsvector(%[1]s, coalesce(f.notes, '')) @@ %[4]s
  ) m
  ORDER BY m.prio
  LIMIT 1
) ms ON true`

func (r relevance) bind(args *db.Args) clause {
	cfg := args.Add(r.textConfig) + "::regconfig"
	tsq := fmt.Sprintf("websearch_to_tsquery(%s, %s)", cfg, args.Add(r.query))
	like := args.Add(pattern.Contains(r.query))
	anyTerm := fmt.Sprintf("to_tsquery(%s, replace(%s::text, ' & ', ' | '))", cfg, tsq)
	vector := r.searchVector(cfg)

	return clause{
		joins: []string{fmt.Sprintf(matchSourceLateral, cfg, tsq, like, anyTerm)},
		columns: func(args *db.Args) []string {
			return []string{
				// Native rank first; the category bonus keeps substring-only hits above zero.
				fmt.Sprintf("ts_rank(%s, %s) + 0.01 * greatest(0, 6 - coalesce(ms.prio, 6)) AS rank", vector, tsq),
				fmt.Sprintf("ts_headline(%s, coalesce(ms.text, ''), %s, %s) AS headline", cfg, tsq, args.Add(r.headline)),
				"ms.source AS match_source",
			}
		},
		predicate: db.Or(vector+" @@ "+tsq, "ms.source IS NOT NULL"),
		ranked:    true,
	}
}

// searchContext is everything a statement needs besides its select list:
// the caller, the text strategy and the structured filters.
type searchContext struct {
	userID  string
	match   matcher
	filters filter.Set
}

// bound is a searchContext bound to one statement's arguments.
type bound struct {
	clause
	userArg string
	args    *db.Args
}

func (c searchContext) bind(args *db.Args) bound {
	return bound{
		userArg: args.Add(c.userID),
		clause:  c.match.bind(args),
		args:    args,
	}
}

// where returns the base predicates, the text predicate and the filter
// predicates of fs, AND-combined by the builder.
func (b bound) where(fs filter.Set) []string {
	preds := []string{
		"f.user_id = " + b.userArg,
		"f.deleted_at IS NULL",
		b.predicate,
	}
	return append(preds, filterPredicates(b.args, b.userArg, fs)...)
}

// filterPredicates renders fs. Scalar values match case-insensitively and
// literally; circles match when the friend belongs to any of them.
func filterPredicates(args *db.Args, userArg string, fs filter.Set) []string {
	var preds []string
	for _, d := range filter.FieldDimensions {
		v := fs.Field(d)
		if v == nil {
			continue
		}
		switch d {
		case filter.Country, filter.City:
			preds = append(preds, fmt.Sprintf(
				"EXISTS (SELECT 1 FROM friend_addresses a WHERE a.friend_id = f.id AND a.%s ILIKE %s ESCAPE '\\')",
				d, args.Add(pattern.Escape(*v))))
		case filter.Organization, filter.JobTitle, filter.Department:
			preds = append(preds, fmt.Sprintf("f.%s ILIKE %s ESCAPE '\\'", d, args.Add(pattern.Escape(*v))))
		case filter.RelationshipCategory:
			preds = append(preds, fmt.Sprintf(
				"EXISTS (SELECT 1 FROM friend_relationships fr JOIN relationship_types rt ON rt.id = fr.relationship_type_id "+
					"WHERE fr.friend_id = f.id AND rt.category = %s)",
				args.Add(*v)))
		}
	}
	if ids := fs.Circles(); len(ids) > 0 {
		preds = append(preds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM circle_friends cf JOIN circles c ON c.id = cf.circle_id "+
				"WHERE cf.friend_id = f.id AND c.user_id = %s AND c.external_id = ANY(%s::uuid[]))",
			userArg, args.Add(ids)))
	}
	return preds
}

// orderBy renders the sort of req. f.id breaks ties so page windows never
// overlap or skip rows.
func orderBy(by request.SortBy, order request.SortOrder, ranked bool) []string {
	dir := strings.ToUpper(string(order))
	var primary string
	switch by {
	case request.SortRelevance:
		if ranked {
			primary = "rank " + dir
		} else {
			primary = "lower(f.display_name) ASC"
		}
	case request.SortCreatedAt:
		primary = "f.created_at " + dir
	case request.SortUpdatedAt:
		primary = "f.updated_at " + dir
	case request.SortOrganization:
		primary = "lower(f.organization) " + dir + " NULLS LAST"
	default:
		primary = "lower(f.display_name) " + dir
	}
	return []string{primary, "f.id ASC"}
}
