package pipeline

import (
	"github.com/tngss/attendee-sync/internal/domain"
	"github.com/tngss/attendee-sync/internal/legacy"
	"github.com/tngss/attendee-sync/internal/mapping"
)

// Transform turns one legacy row into a store-ready attendee record. The
// mapping layer's provenance notes land in MigrationNotes untrimmed.
func Transform(row legacy.PassRow) domain.Attendee {
	c := legacy.Extract(row)
	m := mapping.Apply(c)

	a := domain.Attendee{
		PassID:          c.PassID,
		Email:           c.Email,
		LegacyVisitorID: c.VisitorID,
		Name:            c.Name,
		Mobile:          c.Mobile,
		Gender:          c.Gender,
		Designation:     c.Designation,
		Organisation:    c.Organisation,

		RegistrationEmail:        c.RegEmail,
		RegistrationOrganisation: c.RegOrganisation,
		RegistrationCity:         c.RegCity,
		RegistrationState:        c.RegState,
		RegistrationCountry:      c.RegCountry,

		OrganisationType: m.OrganisationType,
		ProfileType:      m.ProfileType,
		SectorInterested: m.SectorInterested,
		WhyAttending:     m.WhyAttending,

		CheckedIn:   c.CheckedIn,
		CheckinData: c.CheckinData,

		PassTypeID:     c.PassTypeID,
		ConferenceName: c.ConferenceName,
		LegacyCreated:  c.LegacyCreatedAt,
	}

	for _, note := range m.Notes {
		a.AddNote(note)
	}
	if c.MissingEmail {
		a.AddNote("email: missing in legacy record")
	}
	return a
}

// TransformAll maps every row. Extraction and mapping never fail; rows with
// missing emails are carried through and tallied by the reporter.
func TransformAll(rows []legacy.PassRow) []domain.Attendee {
	out := make([]domain.Attendee, 0, len(rows))
	for _, row := range rows {
		out = append(out, Transform(row))
	}
	return out
}
