// Package board implements the authentication and authorization core of a
// small community message board, together with the HTTP glue that exposes
// users, posts and comments over a JSON API.
//
// Core:
//   - HashPassword and VerifyPassword wrap bcrypt. Passwords longer than 72
//     bytes are rejected with ErrInputTooLong instead of being truncated.
//   - TokenService encodes and decodes HMAC signed JWT identity claims. Decode
//     collapses every failure into "no identity"; Inspect keeps the reason for
//     diagnostic logging.
//   - IdentityResolver turns a raw credential into a live *User by re-reading
//     the account on every request. ResolveRequired rejects with
//     ErrUnauthenticated or ErrAccountDisabled, ResolveOptional returns nil.
//   - RequireAdmin, RequireOwner and RequireOwnerOrAdmin are pure checks over
//     an already resolved user.
//
// Glue:
//   - Users, Posts and Comments are bun repositories grouped under a
//     RepositoryManager.
//   - Auther drives login and registration and emits ActivityEvents.
//   - RouteAuthenticator and the controllers are go-router handlers served
//     by fiber through NewHTTPServer.
//   - NewPersistenceClient opens sqlite or postgres through go-persistence-bun.
package board
