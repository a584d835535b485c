// Package friendsearch is an in-process client for the friend search engine:
// full-text and filtered search over a user's friends, facet counts, and the
// per-user recent-search history, backed by PostgreSQL and optionally Redis.
//
//	client, _ := friendsearch.New(ctx,
//	    friendsearch.WithPostgres("postgres://app@localhost/friends"),
//	    friendsearch.WithRedisHistory("localhost:6379", ""),
//	)
//	defer client.Close()
//
//	search := client.Search(userID)
//	hits, _ := search.FullText(ctx, "ann", 5)
//	page, _ := search.Faceted(ctx, "berlin",
//	    friendsearch.WithFilters(friendsearch.Filters{RelationshipCategory: "friend"}),
//	    friendsearch.WithFacets(),
//	)
//	_ = client.History(userID).Add(ctx, "berlin")
package friendsearch
