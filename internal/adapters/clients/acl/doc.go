// Package acl is the anti-corruption layer between downstream services and
// the domain. Supplier payloads are decoded into unexported DTOs, validated,
// and translated into domain.Product before they reach the catalog.
// Transport and HTTP status failures are mapped to domain errors with
// MapHTTPError, so callers only ever see domain.IsUnavailable,
// domain.IsNotFound and friends.
package acl
