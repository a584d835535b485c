package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/friendsearch/internal/db"
	"github.com/kailas-cloud/friendsearch/internal/domain/search/facet"
	"github.com/kailas-cloud/friendsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/friendsearch/internal/domain/search/request"
)

// facetSource describes where the values of a scalar dimension live.
type facetSource struct {
	value string
	join  string
}

var facetSources = map[filter.Dimension]facetSource{
	filter.Country:      {value: "a.country", join: "JOIN friend_addresses a ON a.friend_id = f.id"},
	filter.City:         {value: "a.city", join: "JOIN friend_addresses a ON a.friend_id = f.id"},
	filter.Organization: {value: "f.organization"},
	filter.JobTitle:     {value: "f.job_title"},
	filter.Department:   {value: "f.department"},
	filter.RelationshipCategory: {
		value: "rt.category",
		join:  "JOIN friend_relationships fr ON fr.friend_id = f.id JOIN relationship_types rt ON rt.id = fr.relationship_type_id",
	},
}

// FacetCounts returns (field, value, count) rows for every scalar dimension.
// A dimension is counted over the query and every filter except its own, and
// capped at facet.MaxValuesPerField values. Values differing only in case
// are one value, as the filters match them alike; the smallest spelling labels it.
func (r *Repo) FacetCounts(ctx context.Context, userID string, req request.Request) ([]facet.Row, error) {
	sc := r.contextOf(userID, &req)
	args := &db.Args{}
	b := sc.bind(args)

	stmts := make([]string, 0, len(filter.FieldDimensions))
	for _, d := range filter.FieldDimensions {
		src := facetSources[d]
		sb := db.NewSelect(args).
			Columns(
				fmt.Sprintf("'%s' AS field", d),
				"min(" + src.value + ") AS value",
				"COUNT(DISTINCT f.id) AS count",
			).
			From("friends f")
		for _, j := range b.joins {
			sb.Join(j)
		}
		if src.join != "" {
			sb.Join(src.join)
		}
		sql, err := sb.
			Where(b.where(sc.filters.Without(d))...).
			Where(src.value+" IS NOT NULL", src.value+" <> ''").
			GroupBy("lower(" + src.value + ")").
			OrderBy("count DESC", "lower("+src.value+") ASC").
			Limit(facet.MaxValuesPerField).
			Build()
		if err != nil {
			return nil, fmt.Errorf("build %s facet: %w", d, err)
		}
		stmts = append(stmts, sql)
	}

	rows, err := r.store.Query(ctx, db.UnionAll(stmts...), args.Values()...)
	if err != nil {
		return nil, fmt.Errorf("facet counts: %w", err)
	}
	defer rows.Close()

	var out []facet.Row
	for rows.Next() {
		var row facet.Row
		var count int64
		if err := rows.Scan(&row.Field, &row.Value, &count); err != nil {
			return nil, fmt.Errorf("scan facet: %w", err)
		}
		row.Count = int(count)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("facet counts: %w", err)
	}
	return out, nil
}

// CircleCounts returns the user's circles with the number of candidates in
// each, counted over the query and every filter except circles.
func (r *Repo) CircleCounts(ctx context.Context, userID string, req request.Request) ([]facet.CircleValue, error) {
	sc := r.contextOf(userID, &req)
	args := &db.Args{}
	b := sc.bind(args)

	sb := db.NewSelect(args).
		Columns("c.external_id::text", "c.name", "c.color", "COUNT(DISTINCT f.id) AS count").
		From("friends f")
	for _, j := range b.joins {
		sb.Join(j)
	}
	sql, err := sb.
		Join("JOIN circle_friends cf ON cf.friend_id = f.id").
		Join("JOIN circles c ON c.id = cf.circle_id").
		Where(b.where(sc.filters.Without(filter.Circles))...).
		Where("c.user_id = " + b.userArg).
		GroupBy("c.external_id", "c.name", "c.color").
		OrderBy("count DESC", "lower(c.name) ASC").
		Build()
	if err != nil {
		return nil, fmt.Errorf("build circle facet: %w", err)
	}

	rows, err := r.store.Query(ctx, sql, args.Values()...)
	if err != nil {
		return nil, fmt.Errorf("circle counts: %w", err)
	}
	defer rows.Close()

	var out []facet.CircleValue
	for rows.Next() {
		var cv facet.CircleValue
		var count int64
		if err := rows.Scan(&cv.Value, &cv.Label, &cv.Color, &count); err != nil {
			return nil, fmt.Errorf("scan circle facet: %w", err)
		}
		cv.Count = int(count)
		out = append(out, cv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("circle counts: %w", err)
	}
	return out, nil
}
