// Package legacy reads and decodes attendee records from the legacy
// registration database. The database is strictly read-only from the
// pipeline's perspective: one denormalized row per issued pass, joined at
// read time with the visitor profile and conference lookup tables.
//
// Decoding happens exactly once, at this boundary: the two semi-structured
// JSON blobs (pass_data, visitor_data) are parsed into a typed Candidate,
// and no other package ever touches raw legacy JSON.
package legacy
