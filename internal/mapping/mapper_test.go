package mapping

import (
	"strings"
	"testing"

	"github.com/tngss/attendee-sync/internal/domain"
	"github.com/tngss/attendee-sync/internal/legacy"
)

func TestApply_LegacyValuesRemapped(t *testing.T) {
	m := Apply(legacy.Candidate{
		RawOrganisationType: "Pvt Ltd",
		RawProfileType:      "CTO",
		RawSector:           "Deep Tech",
		RawWhyAttending:     "Fund Raising",
	})

	if m.OrganisationType != domain.OrgCorporate {
		t.Errorf("org type: %s", m.OrganisationType)
	}
	if m.ProfileType != domain.ProfileCXO {
		t.Errorf("profile type: %s", m.ProfileType)
	}
	if m.SectorInterested != domain.SectorDeeptech {
		t.Errorf("sector: %s", m.SectorInterested)
	}
	if m.WhyAttending != domain.WhyFunding {
		t.Errorf("why: %s", m.WhyAttending)
	}
	if len(m.Notes) != 4 {
		t.Fatalf("expected 4 substitution notes, got %d: %v", len(m.Notes), m.Notes)
	}
	if m.Notes[0] != `organisation_type: "Pvt Ltd" → "corporate"` {
		t.Errorf("note format: %s", m.Notes[0])
	}
}

func TestApply_IdentityValuesProduceNoNotes(t *testing.T) {
	m := Apply(legacy.Candidate{
		RawOrganisationType: "startup",
		RawProfileType:      "founder",
		RawSector:           "fintech",
		RawWhyAttending:     "networking",
	})

	if len(m.Notes) != 0 {
		t.Errorf("identity mapping must not generate notes: %v", m.Notes)
	}
	if m.OrganisationType != domain.OrgStartup || m.ProfileType != domain.ProfileFounder {
		t.Errorf("identity values changed: %s / %s", m.OrganisationType, m.ProfileType)
	}
}

func TestApply_SmartProfileFallback(t *testing.T) {
	cases := []struct {
		org  string
		want domain.ProfileType
	}{
		{"Startup", domain.ProfileFounder},
		{"Pvt Ltd", domain.ProfileProfessional},
		{"VC", domain.ProfileInvestor},
		{"Educational Institution", domain.ProfileStudent},
		{"Press", domain.ProfileMedia},
		{"Govt", domain.ProfileOfficial},
	}

	for _, tc := range cases {
		m := Apply(legacy.Candidate{RawOrganisationType: tc.org})
		if m.ProfileType != tc.want {
			t.Errorf("orgType %q: profile fallback %s, want %s", tc.org, m.ProfileType, tc.want)
		}
		found := false
		for _, n := range m.Notes {
			if strings.Contains(n, "smart fallback") && strings.Contains(n, string(tc.want)) {
				found = true
			}
		}
		if !found {
			t.Errorf("orgType %q: missing smart-fallback note in %v", tc.org, m.Notes)
		}
	}
}

func TestApply_UnmappedValuesFallBack(t *testing.T) {
	m := Apply(legacy.Candidate{
		RawOrganisationType: "Space Agency",
		RawProfileType:      "Astronaut",
		RawSector:           "Rockets",
		RawWhyAttending:     "Curiosity",
	})

	if m.OrganisationType != domain.OrgOther {
		t.Errorf("org fallback: %s", m.OrganisationType)
	}
	// Unmapped profile with an "other" org falls through to other.
	if m.ProfileType != domain.ProfileOther {
		t.Errorf("profile fallback: %s", m.ProfileType)
	}
	if m.SectorInterested != domain.SectorSectorAgnost {
		t.Errorf("sector fallback: %s", m.SectorInterested)
	}
	if m.WhyAttending != domain.WhyNetworking {
		t.Errorf("why fallback: %s", m.WhyAttending)
	}
	if len(m.Notes) != 4 {
		t.Errorf("every fallback must be recorded, got %v", m.Notes)
	}
}

// Every value in every table must map into the current enumeration. A table
// entry pointing at a retired value would let a legacy string leak through.
func TestMappingTotality(t *testing.T) {
	for raw, v := range organisationTypeTable {
		if !v.Valid() {
			t.Errorf("organisation_type table: %q → invalid %q", raw, v)
		}
	}
	for raw, v := range profileTypeTable {
		if !v.Valid() {
			t.Errorf("profile_type table: %q → invalid %q", raw, v)
		}
	}
	for raw, v := range sectorTable {
		if !v.Valid() {
			t.Errorf("sector table: %q → invalid %q", raw, v)
		}
	}
	for raw, v := range whyAttendingTable {
		if !v.Valid() {
			t.Errorf("why_attending table: %q → invalid %q", raw, v)
		}
	}
	for org, p := range smartProfileFallback {
		if !org.Valid() || !p.Valid() {
			t.Errorf("smart fallback: %q → %q not in current enums", org, p)
		}
	}
}

// Historical fixture: one value of every shape seen across the three schema
// versions. Apply must return a current-enum member for each.
func TestMappingTotality_HistoricalFixture(t *testing.T) {
	fixtures := []legacy.Candidate{
		{RawOrganisationType: "Startup", RawProfileType: "Founder", RawSector: "FinTech", RawWhyAttending: "Networking"},
		{RawOrganisationType: "Private Limited", RawProfileType: "Employee", RawSector: "IT/ITES", RawWhyAttending: "Business Development"},
		{RawOrganisationType: "pvt ltd", RawProfileType: "Co-Founder", RawSector: "AI/ML", RawWhyAttending: "Deal Flow"},
		{RawOrganisationType: "", RawProfileType: "", RawSector: "", RawWhyAttending: ""},
		{RawOrganisationType: "PSU", RawProfileType: "Bureaucrat", RawSector: "Renewables", RawWhyAttending: "Attend Sessions"},
	}

	for i, f := range fixtures {
		m := Apply(f)
		if !m.OrganisationType.Valid() || !m.ProfileType.Valid() ||
			!m.SectorInterested.Valid() || !m.WhyAttending.Valid() {
			t.Errorf("fixture %d leaked a non-current value: %+v", i, m)
		}
	}
}
