// Package server provides HTTP routing, middleware, and the request handlers
// for the song identification service.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Handlers
//
// [FindSongHandler] serves GET /find-song: it validates the yt_url query
// parameter, runs the identification pipeline, and maps pipeline failures to
// status codes (400 for missing input, 404 when the song cannot be
// identified, 502 when the audio source is unreachable). Successful lookups
// are recorded in the history store when one is configured.
//
// [HistoryHandler] serves GET /history with the most recent lookups.
//
// All error responses share a single envelope: {"detail": "<message>"}.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
