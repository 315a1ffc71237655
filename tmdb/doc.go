// Package tmdb provides a client for The Movie Database (TMDB) REST API.
//
// The client attaches the API key and language to every call, applies a
// request timeout and memoizes successful responses in a TTL cache keyed by
// operation and parameters.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := tmdb.NewClient(
//		os.Getenv("TMDB_API_KEY"),
//		logger,
//		tmdb.WithLanguage("fr-FR"),
//		tmdb.WithTimeout(10*time.Second),
//		tmdb.WithCache(cache.New(time.Hour)),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	page, err := client.Popular(ctx, 1)
//	if err != nil {
//		fmt.Println(tmdb.Message(err))
//	}
//
// # Error Handling
//
// Every failure wraps one of the kind sentinels:
//
//   - ErrInvalidAPIKey: upstream answered 401
//   - ErrNotFound: upstream answered 404
//   - ErrRateLimited: upstream answered 429
//   - ErrUnavailable: any other non-200 status
//   - ErrTimeout: the request timed out
//   - ErrConnection: the upstream could not be reached
//   - ErrUnexpected: anything else, including undecodable bodies
//
// Message converts any error into the French text displayed to users.
//
// List responses have their total_pages clamped to MaxTotalPages, the
// deepest page the upstream will serve.
package tmdb
