package domain

// OrganisationType is the current enumeration for the kind of organisation
// an attendee belongs to.
type OrganisationType string

const (
	OrgStartup    OrganisationType = "startup"
	OrgCorporate  OrganisationType = "corporate"
	OrgInvestor   OrganisationType = "investor"
	OrgGovernment OrganisationType = "government"
	OrgAcademia   OrganisationType = "academia"
	OrgMedia      OrganisationType = "media"
	OrgEnabler    OrganisationType = "ecosystem_enabler"
	OrgOther      OrganisationType = "other"
)

// Valid reports whether the value is a member of the current enumeration.
func (o OrganisationType) Valid() bool {
	switch o {
	case OrgStartup, OrgCorporate, OrgInvestor, OrgGovernment,
		OrgAcademia, OrgMedia, OrgEnabler, OrgOther:
		return true
	}
	return false
}

// ProfileType is the current enumeration for an attendee's role.
type ProfileType string

const (
	ProfileFounder      ProfileType = "founder"
	ProfileCXO          ProfileType = "cxo"
	ProfileProfessional ProfileType = "working_professional"
	ProfileInvestor     ProfileType = "investor"
	ProfileStudent      ProfileType = "student"
	ProfileAcademic     ProfileType = "academic"
	ProfileMedia        ProfileType = "media_professional"
	ProfileOfficial     ProfileType = "government_official"
	ProfileOther        ProfileType = "other"
)

// Valid reports whether the value is a member of the current enumeration.
func (p ProfileType) Valid() bool {
	switch p {
	case ProfileFounder, ProfileCXO, ProfileProfessional, ProfileInvestor,
		ProfileStudent, ProfileAcademic, ProfileMedia, ProfileOfficial,
		ProfileOther:
		return true
	}
	return false
}

// SectorInterested is the current enumeration for the sector an attendee
// wants to engage with at the summit.
type SectorInterested string

const (
	SectorFintech      SectorInterested = "fintech"
	SectorHealthtech   SectorInterested = "healthtech"
	SectorAgritech     SectorInterested = "agritech"
	SectorDeeptech     SectorInterested = "deeptech"
	SectorSaaS         SectorInterested = "saas"
	SectorMobility     SectorInterested = "mobility"
	SectorCleanEnergy  SectorInterested = "clean_energy"
	SectorManufacture  SectorInterested = "advanced_manufacturing"
	SectorSectorAgnost SectorInterested = "sector_agnostic"
)

// Valid reports whether the value is a member of the current enumeration.
func (s SectorInterested) Valid() bool {
	switch s {
	case SectorFintech, SectorHealthtech, SectorAgritech, SectorDeeptech,
		SectorSaaS, SectorMobility, SectorCleanEnergy, SectorManufacture,
		SectorSectorAgnost:
		return true
	}
	return false
}

// WhyAttending is the current enumeration for an attendee's stated reason
// for registering.
type WhyAttending string

const (
	WhyNetworking   WhyAttending = "networking"
	WhyFunding      WhyAttending = "funding"
	WhyExplore      WhyAttending = "explore_startups"
	WhyPartnerships WhyAttending = "partnerships"
	WhyHiring       WhyAttending = "hiring"
	WhyLearning     WhyAttending = "learning"
	WhyExhibiting   WhyAttending = "exhibiting"
)

// Valid reports whether the value is a member of the current enumeration.
func (w WhyAttending) Valid() bool {
	switch w {
	case WhyNetworking, WhyFunding, WhyExplore, WhyPartnerships,
		WhyHiring, WhyLearning, WhyExhibiting:
		return true
	}
	return false
}
