// Package mapping translates legacy categorical values into the current
// enumerations. The categorical schemas were re-versioned several times over
// the conference's history; this package is the single seam where old and
// new data reconcile, and every silent correction it applies is recorded in
// the record's migration notes so it stays auditable after the fact.
package mapping

import (
	"fmt"

	"github.com/tngss/attendee-sync/internal/domain"
	"github.com/tngss/attendee-sync/internal/legacy"
)

// Mapped carries the four translated categorical values plus the provenance
// notes produced while translating them.
type Mapped struct {
	OrganisationType domain.OrganisationType
	ProfileType      domain.ProfileType
	SectorInterested domain.SectorInterested
	WhyAttending     domain.WhyAttending
	Notes            []string
}

// Fallbacks substituted when a non-empty legacy value has no table entry.
const (
	fallbackOrg    = domain.OrgOther
	fallbackSector = domain.SectorSectorAgnost
	fallbackWhy    = domain.WhyNetworking
)

// Apply maps all categorical fields of a candidate. Organisation type is
// mapped first because the profile-type fallback depends on it.
func Apply(c legacy.Candidate) Mapped {
	var m Mapped

	m.OrganisationType = mapValue(&m.Notes, "organisation_type",
		c.RawOrganisationType, organisationTypeTable, fallbackOrg)
	m.ProfileType = mapProfileType(&m.Notes, c.RawProfileType, m.OrganisationType)
	m.SectorInterested = mapValue(&m.Notes, "sector_interested",
		c.RawSector, sectorTable, fallbackSector)
	m.WhyAttending = mapValue(&m.Notes, "why_attending",
		c.RawWhyAttending, whyAttendingTable, fallbackWhy)

	return m
}

// mapValue performs an exact-string lookup, substituting fallback when the
// raw value has no entry. Any substitution (raw != mapped) is recorded.
func mapValue[T ~string](notes *[]string, field, raw string, table map[string]T, fallback T) T {
	mapped, ok := table[raw]
	if !ok {
		mapped = fallback
	}
	if raw != string(mapped) {
		*notes = append(*notes, fmt.Sprintf("%s: %q → %q", field, raw, mapped))
	}
	return mapped
}

// mapProfileType handles the one field whose fallback is contextual: an
// absent or unmapped profile type falls back through the organisation type.
func mapProfileType(notes *[]string, raw string, orgType domain.OrganisationType) domain.ProfileType {
	if mapped, ok := profileTypeTable[raw]; ok {
		if raw != string(mapped) {
			*notes = append(*notes, fmt.Sprintf("profile_type: %q → %q", raw, mapped))
		}
		return mapped
	}

	fallback := smartProfileFallback[orgType]
	if fallback == "" {
		fallback = domain.ProfileOther
	}
	if raw == "" {
		*notes = append(*notes, fmt.Sprintf(
			"profile_type: empty → smart fallback %q based on orgType %q", fallback, orgType))
	} else {
		*notes = append(*notes, fmt.Sprintf("profile_type: %q → %q", raw, fallback))
	}
	return fallback
}

// CurrentOrganisationTypes exposes the identity key set for the verify and
// recode commands.
func CurrentOrganisationTypes() []domain.OrganisationType {
	return []domain.OrganisationType{
		domain.OrgStartup, domain.OrgCorporate, domain.OrgInvestor,
		domain.OrgGovernment, domain.OrgAcademia, domain.OrgMedia,
		domain.OrgEnabler, domain.OrgOther,
	}
}
