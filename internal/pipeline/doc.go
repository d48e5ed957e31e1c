// Package pipeline sequences the song identification stages for a single request.
//
// The [Pipeline] runs a fixed state machine: fetch the audio payload,
// identify it against the recognition service, then enrich the identity with
// a catalog lookup and a tab-site resolution running concurrently while the
// lesson link is synthesized inline. Identification succeeding is the only
// hard requirement; enrichment faults degrade to data in the [Result].
//
// Resource handling: the fetched audio asset is request-scoped and released
// exactly once on every exit path, including identification failure. Each
// stage runs under its own deadline derived from the request context, so a
// cancelled request also tears down the browser session held by the tab
// resolver (the most expensive resource to leak).
package pipeline
