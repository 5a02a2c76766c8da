// Package folio is the composition root of the Folio article library.
//
// It connects the synchronizing core (pkg/core) with the store adapters:
// a REST client for a remote articles endpoint, a directory of
// markdown/JSON/YAML files, or a SQLite database.
//
// The core keeps an in-memory, ordered collection of articles in step with
// the store. When the store is empty it is seeded from a bootstrap dataset
// and read again, until it reports data.
//
// Usage:
//
//	svc, err := folio.New("http://localhost:3000",
//		folio.WithLogger(logger),
//		folio.WithTimeout(10*time.Second),
//	)
//
//	// Populate the collection, seeding the store if needed
//	err = svc.FetchAll(ctx, func() { render(svc.Collection().All()) })
package folio
