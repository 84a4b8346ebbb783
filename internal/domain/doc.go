// Package domain holds the core types shared across the attendee sync
// pipeline: the canonical Attendee record, the categorical enumerations it
// draws from, and the provenance notes that record every value rewritten
// during migration.
//
// This package has no dependencies beyond the standard library. Services,
// repositories and the migration pipeline all depend on it; it depends on
// none of them.
package domain
