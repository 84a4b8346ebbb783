package api

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/tngss/attendee-sync/internal/domain"
	"github.com/tngss/attendee-sync/internal/pkg/httputil"
)

// CreateRequest is the body of a single pass-creation request and one item
// of a bulk request.
type CreateRequest struct {
	PassID         string `json:"pass_id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Mobile         string `json:"mobile"`
	VisitorID      string `json:"visitor_id"`
	ConferenceName string `json:"conference_name"`

	Gender       string `json:"gender,omitempty"`
	Designation  string `json:"designation,omitempty"`
	Organisation string `json:"organisation,omitempty"`

	OrganisationType string `json:"organisation_type,omitempty"`
	ProfileType      string `json:"profile_type,omitempty"`
	SectorInterested string `json:"sector_interested,omitempty"`
	WhyAttending     string `json:"why_attending,omitempty"`

	RegistrationOrganisation string `json:"registration_organisation,omitempty"`
	RegistrationCity         string `json:"registration_city,omitempty"`
	RegistrationState        string `json:"registration_state,omitempty"`
	RegistrationCountry      string `json:"registration_country,omitempty"`
	PassTypeID               string `json:"pass_type_id,omitempty"`
}

// BulkRequest is the body of a bulk creation request.
type BulkRequest struct {
	Items []CreateRequest `json:"items"`
}

// Validate checks the request against the creation schema. The prefix is
// prepended to field paths so bulk items report as "items[3].email".
func (cr CreateRequest) Validate(prefix string) []httputil.FieldError {
	var errs []httputil.FieldError
	add := func(field, message string) {
		errs = append(errs, httputil.FieldError{Field: prefix + field, Message: message})
	}

	if strings.TrimSpace(cr.PassID) == "" {
		add("pass_id", "is required")
	}
	if strings.TrimSpace(cr.Name) == "" {
		add("name", "is required")
	}
	email := domain.NormalizeEmail(cr.Email)
	if email == "" {
		add("email", "is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		add("email", "must be a valid email address")
	}
	if strings.TrimSpace(cr.Mobile) == "" {
		add("mobile", "is required")
	}
	if strings.TrimSpace(cr.VisitorID) == "" {
		add("visitor_id", "is required")
	}
	if strings.TrimSpace(cr.ConferenceName) == "" {
		add("conference_name", "is required")
	}

	if cr.OrganisationType != "" && !domain.OrganisationType(cr.OrganisationType).Valid() {
		add("organisation_type", fmt.Sprintf("unknown value %q", cr.OrganisationType))
	}
	if cr.ProfileType != "" && !domain.ProfileType(cr.ProfileType).Valid() {
		add("profile_type", fmt.Sprintf("unknown value %q", cr.ProfileType))
	}
	if cr.SectorInterested != "" && !domain.SectorInterested(cr.SectorInterested).Valid() {
		add("sector_interested", fmt.Sprintf("unknown value %q", cr.SectorInterested))
	}
	if cr.WhyAttending != "" && !domain.WhyAttending(cr.WhyAttending).Valid() {
		add("why_attending", fmt.Sprintf("unknown value %q", cr.WhyAttending))
	}

	return errs
}

// ToAttendee converts a validated request into a domain record.
func (cr CreateRequest) ToAttendee() *domain.Attendee {
	return &domain.Attendee{
		PassID:                   strings.TrimSpace(cr.PassID),
		Name:                     strings.TrimSpace(cr.Name),
		Email:                    domain.NormalizeEmail(cr.Email),
		Mobile:                   strings.TrimSpace(cr.Mobile),
		LegacyVisitorID:          strings.TrimSpace(cr.VisitorID),
		ConferenceName:           strings.TrimSpace(cr.ConferenceName),
		Gender:                   cr.Gender,
		Designation:              cr.Designation,
		Organisation:             cr.Organisation,
		OrganisationType:         domain.OrganisationType(cr.OrganisationType),
		ProfileType:              domain.ProfileType(cr.ProfileType),
		SectorInterested:         domain.SectorInterested(cr.SectorInterested),
		WhyAttending:             domain.WhyAttending(cr.WhyAttending),
		RegistrationOrganisation: cr.RegistrationOrganisation,
		RegistrationCity:         cr.RegistrationCity,
		RegistrationState:        cr.RegistrationState,
		RegistrationCountry:      cr.RegistrationCountry,
		PassTypeID:               cr.PassTypeID,
	}
}
