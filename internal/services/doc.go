// Package services implements clients for the third-party lookups behind the identification pipeline.
//
// # Interfaces
//
// Each external collaborator sits behind a small capability interface so the
// pipeline orchestrator never touches a concrete client:
//   - [Recognizer] : acoustic fingerprint identification (audio bytes in, track candidate out)
//   - [Catalog] : track metadata search (Spotify)
//   - [TabResolver] : guitar-tab page resolution via live site navigation
//
// # Spotify Implementation
//
// [SpotifyService] authenticates with the OAuth2 client-credentials flow.
// The token is provisioned once at process start and refreshed transparently
// by the oauth2 transport; request handling never mutates credential state.
//
// # Recognition Implementation
//
// [RecognitionService] posts the entire audio payload to the recognition API
// and defensively extracts the track candidate. A structurally empty response
// maps to [shared.ErrUnidentified]; transport and protocol faults map to
// [shared.ErrRecognitionFailed].
//
// # Tab Resolver Implementation
//
// [ChromeTabResolver] launches an isolated headless Chrome session per call
// via chromedp and returns the URL the session settles on. It has no error
// return: internal faults degrade to the search URL, which is also what an
// ambiguous "no results" navigation produces.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrUnidentified] : recognition returned no candidate
//   - [shared.ErrRecognitionFailed] : recognition transport/protocol fault
//
// Catalog lookups deliberately return no error at all: failures become
// [CatalogMatch] values with Err set, isolating the pipeline from provider outages.
package services
