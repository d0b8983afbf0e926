// Package domain holds the playbook's reference entities and the two pure
// engines built on them: the Pricing Engine (CalculateQuote) and the
// Recommendation Engine (the Recommender strategies).
//
// Nothing in this package performs I/O. Catalog snapshots are treated as
// read-only once built; only recent quotes and favorites change, and those
// live behind ports implemented by adapters.
//
// Domain errors represent business-level failures, not transport errors, and
// are mapped to HTTP responses by the http adapter.
package domain
