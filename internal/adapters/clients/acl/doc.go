// Package acl is the anti-corruption layer between the bot and the quote
// service. Quote service JSON never leaves this package: every response is
// decoded into an unexported DTO, validated, and translated into a domain
// type before it is returned.
//
// # Endpoints
//
//	GET /api/sources/?group={group}&format=json     list sources
//	GET /api/groups/{group}/get_random_quote/       random quote from a group
//	GET /api/sources/{slug}/get_random_quote/       random quote from a source
//	GET /api/groups/{group}/generate_sentence/      sentence from a group
//	GET /api/sources/{slug}/generate_sentence/      sentence from a source
//
// # Error Handling
//
// Only 200 OK counts as success. Everything else becomes a domain error:
//   - 404 Not Found → [domain.ErrNotFound] naming the slug
//   - 409 Conflict → [domain.ErrConflict]
//   - 400/422 → [domain.ErrValidation]
//   - 401/403 → [domain.ErrForbidden]
//   - 5xx, other statuses and transport failures → [domain.ErrUnavailable]
//
// When the body carries {"error": "..."} (or a framework {"detail": "..."}),
// the classified error is wrapped in a [domain.RemoteError] so the message can
// be shown to the user.
//
// A 200 response missing a required field ("quote", "source.name",
// "sentence", or a source's "name" or "slug") yields [domain.ErrValidation].
// A 200 response that is not JSON yields [domain.ErrUnavailable].
//
// Client-level errors ([clients.ErrCircuitOpen], [clients.ErrRateLimited],
// [clients.ErrMaxRetriesExceeded]) map to [domain.ErrUnavailable].
package acl
