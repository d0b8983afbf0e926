// Package app contains the application services that sit between the HTTP
// adapter and the domain engines.
//
// Services here:
//   - load and hold the catalog snapshot
//   - validate requests before handing them to the pure engines
//   - persist recent quotes and favorites through ports, tolerating failures
//   - run product ingestion through the staged executor
//
// What does NOT belong here:
//   - HTTP specifics (that's adapters/http)
//   - storage details (that's adapters/storage and adapters/catalog)
//   - pricing and ranking rules (that's the domain layer)
package app
