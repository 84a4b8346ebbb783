package legacy

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/tngss/attendee-sync/internal/domain"
)

// Candidate is the typed intermediate record produced from one PassRow.
// Raw* fields carry legacy categorical strings untranslated; the mapping
// package turns them into current enumeration values.
type Candidate struct {
	PassID          string
	VisitorID       string
	ConferenceName  string
	PassTypeID      string
	Email           string // normalized: lower-case, trimmed; "" when absent
	Name            string
	Mobile          string
	Gender          string
	Designation     string
	Organisation    string
	RegEmail        string
	RegOrganisation string
	RegCity         string
	RegState        string
	RegCountry      string

	RawOrganisationType string
	RawProfileType      string
	RawSector           string
	RawWhyAttending     string

	CheckedIn       bool
	CheckinData     json.RawMessage
	LegacyCreatedAt time.Time

	// MissingEmail is set when neither blob carried a usable address; the
	// reporting layer tallies these.
	MissingEmail bool
}

// Extract decodes a legacy row into a Candidate. It never fails: a path
// lookup that dies at any segment yields the zero value for that field, and
// a malformed blob is treated as empty.
func Extract(row PassRow) Candidate {
	pass := decodeBlob(row.PassData)
	visitor := decodeBlob(row.VisitorData)

	c := Candidate{
		PassID:          row.PassID,
		VisitorID:       row.VisitorID,
		ConferenceName:  row.ConferenceName,
		LegacyCreatedAt: row.CreatedAt,
		PassTypeID:      stringAt(pass, "pass_type_id"),
	}

	// The purchase form lives under pass_data.form; older exports kept the
	// same keys at the top level.
	c.Name = firstOf(stringAt(pass, "form", "name"), stringAt(pass, "name"), stringAt(visitor, "name"))
	c.Mobile = firstOf(stringAt(pass, "form", "mobile"), stringAt(pass, "mobile"), stringAt(visitor, "mobile"))
	c.Gender = firstOf(stringAt(pass, "form", "gender"), stringAt(pass, "gender"))
	c.Designation = firstOf(stringAt(pass, "form", "designation"), stringAt(pass, "designation"))
	c.Organisation = firstOf(stringAt(pass, "form", "organisation"), stringAt(pass, "organisation"), stringAt(visitor, "organisation"))

	c.Email = domain.NormalizeEmail(firstOf(
		stringAt(pass, "form", "email"),
		stringAt(pass, "email"),
		stringAt(visitor, "email"),
	))
	c.MissingEmail = c.Email == ""

	c.RegEmail = domain.NormalizeEmail(stringAt(visitor, "email"))
	c.RegOrganisation = stringAt(visitor, "organisation")
	c.RegCity = stringAt(visitor, "city")
	c.RegState = stringAt(visitor, "state")
	c.RegCountry = stringAt(visitor, "country")

	c.RawOrganisationType = firstOf(stringAt(pass, "form", "organisation_type"), stringAt(pass, "organisation_type"))
	c.RawProfileType = firstOf(stringAt(pass, "form", "profile_type"), stringAt(pass, "profile_type"))
	c.RawSector = firstOf(stringAt(pass, "form", "sector_interested"), stringAt(pass, "sector_interested"))
	c.RawWhyAttending = firstOf(stringAt(pass, "form", "why_attending"), stringAt(pass, "why_attending"))

	if len(row.CheckinData) > 0 && string(row.CheckinData) != "null" {
		c.CheckedIn = true
		c.CheckinData = json.RawMessage(row.CheckinData)
	}

	return c
}

// decodeBlob parses a legacy JSON blob into a map. Missing, empty or
// non-object blobs come back as an empty map, never an error.
func decodeBlob(raw []byte) map[string]any {
	if len(raw) == 0 {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		return map[string]any{}
	}
	return m
}

// stringAt walks nested maps along path and returns the string found at the
// end, or "" if any segment is missing or of the wrong type.
func stringAt(m map[string]any, path ...string) string {
	cur := any(m)
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur, ok = obj[key]
		if !ok {
			return ""
		}
	}
	s, _ := cur.(string)
	return strings.TrimSpace(s)
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
