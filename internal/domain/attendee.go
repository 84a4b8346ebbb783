package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Attendee is the canonical, normalized identity record for one issued pass.
// Exactly one Attendee should exist per real-world attendee; the dedupe
// tooling exists because that invariant is violated in practice.
type Attendee struct {
	// Identity. PassID is globally unique in the target store. Email is
	// indexed but NOT unique: duplicate emails are a known real-world
	// condition (multiple pass purchases under one address).
	PassID          string `json:"pass_id" dynamodbav:"pass_id"`
	Email           string `json:"email" dynamodbav:"email"`
	LegacyVisitorID string `json:"legacy_visitor_id" dynamodbav:"legacy_visitor_id"`

	// Descriptive fields.
	Name         string `json:"name" dynamodbav:"name"`
	Mobile       string `json:"mobile" dynamodbav:"mobile"`
	Gender       string `json:"gender,omitempty" dynamodbav:"gender"`
	Designation  string `json:"designation,omitempty" dynamodbav:"designation"`
	Organisation string `json:"organisation,omitempty" dynamodbav:"organisation"`

	// Registration context, carried verbatim from the visitor profile the
	// pass was purchased under.
	RegistrationEmail        string `json:"registration_email,omitempty" dynamodbav:"registration_email"`
	RegistrationOrganisation string `json:"registration_organisation,omitempty" dynamodbav:"registration_organisation"`
	RegistrationCity         string `json:"registration_city,omitempty" dynamodbav:"registration_city"`
	RegistrationState        string `json:"registration_state,omitempty" dynamodbav:"registration_state"`
	RegistrationCountry      string `json:"registration_country,omitempty" dynamodbav:"registration_country"`

	// Categorical fields, each drawn from a fixed enumeration that has been
	// independently re-versioned over time. Values here are always members
	// of the CURRENT enumeration; the mapping package is the only seam where
	// legacy values are translated.
	OrganisationType OrganisationType `json:"organisation_type" dynamodbav:"organisation_type"`
	ProfileType      ProfileType      `json:"profile_type" dynamodbav:"profile_type"`
	SectorInterested SectorInterested `json:"sector_interested" dynamodbav:"sector_interested"`
	WhyAttending     WhyAttending     `json:"why_attending" dynamodbav:"why_attending"`

	// Status.
	CheckedIn   bool            `json:"checked_in" dynamodbav:"checked_in"`
	CheckinData json.RawMessage `json:"checkin_data,omitempty" dynamodbav:"checkin_data"`

	// Provenance: append-only audit trail of every remapping applied to this
	// record. Never trimmed, never rewritten.
	MigrationNotes []string `json:"migration_notes,omitempty" dynamodbav:"migration_notes"`

	PassTypeID     string    `json:"pass_type_id,omitempty" dynamodbav:"pass_type_id"`
	ConferenceName string    `json:"conference_name" dynamodbav:"conference_name"`
	LegacyCreated  time.Time `json:"legacy_created_at,omitempty" dynamodbav:"legacy_created_at"`
	CreatedAt      time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// EffectiveCreated is the timestamp used for duplicate resolution: the
// legacy pass creation time when known, otherwise the record's own CreatedAt.
func (a *Attendee) EffectiveCreated() time.Time {
	if !a.LegacyCreated.IsZero() {
		return a.LegacyCreated
	}
	return a.CreatedAt
}

// AddNote appends a provenance note to the record's migration trail.
func (a *Attendee) AddNote(note string) {
	if note == "" {
		return
	}
	a.MigrationNotes = append(a.MigrationNotes, note)
}

// NormalizeEmail lowercases and trims an email address so that
// "  Foo@Example.COM " and "foo@example.com" are the same identity key.
// A blank input stays blank; it never errors.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
