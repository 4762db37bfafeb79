// Package acl implements the Anti-Corruption Layer for the upstream
// quote feed. ACL adapters translate between external API models and
// domain models, protecting the domain from external system changes:
//
//   - External DTOs never leak into the domain
//   - External error codes map to domain errors
//   - External data is normalized before creating domain objects
//
// # Package Components
//
//   - [FeedClient]: fetches the upstream feed and maps its records to quotes
//   - [ErrorResponse]: standard external error response parsing
//   - [MapHTTPError]: HTTP status code to domain error mapping
//   - [ParseErrorResponse]: JSON error body parsing
//
// # Error Handling Strategy
//
// External services return errors in various formats: HTTP status codes,
// error response bodies with codes and messages, and network/transport
// errors. The ACL translates all of these to domain errors:
//
//   - 404 Not Found → [domain.ErrNotFound]
//   - 409 Conflict → [domain.ErrConflict]
//   - 400/422 Validation → [domain.ErrValidation]
//   - 5xx/Network/401/403 → [domain.ErrUnavailable]
//
// Client-level errors ([clients.ErrCircuitOpen], [clients.ErrMaxRetriesExceeded])
// are also translated to [domain.ErrUnavailable] with appropriate context.
package acl
