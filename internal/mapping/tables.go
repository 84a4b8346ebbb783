package mapping

import "github.com/tngss/attendee-sync/internal/domain"

// The tables below enumerate every legacy categorical value ever observed in
// an export, plus every currently valid value mapped to itself. The identity
// entries matter: without them a re-run would treat already-correct data as
// unmapped and "correct" it to the fallback.

var organisationTypeTable = map[string]domain.OrganisationType{
	// current values (identity)
	"startup":           domain.OrgStartup,
	"corporate":         domain.OrgCorporate,
	"investor":          domain.OrgInvestor,
	"government":        domain.OrgGovernment,
	"academia":          domain.OrgAcademia,
	"media":             domain.OrgMedia,
	"ecosystem_enabler": domain.OrgEnabler,
	"other":             domain.OrgOther,

	// 2023 export
	"Startup":                 domain.OrgStartup,
	"Corporate":               domain.OrgCorporate,
	"Pvt Ltd":                 domain.OrgCorporate,
	"Private Limited":         domain.OrgCorporate,
	"MNC":                     domain.OrgCorporate,
	"Investor":                domain.OrgInvestor,
	"VC":                      domain.OrgInvestor,
	"Angel Investor":          domain.OrgInvestor,
	"Govt":                    domain.OrgGovernment,
	"Government Organisation": domain.OrgGovernment,
	"PSU":                     domain.OrgGovernment,
	"Educational Institution": domain.OrgAcademia,
	"College/University":      domain.OrgAcademia,
	"Research Institute":      domain.OrgAcademia,
	"Media":                   domain.OrgMedia,
	"Press":                   domain.OrgMedia,
	"Incubator":               domain.OrgEnabler,
	"Accelerator":             domain.OrgEnabler,
	"Enabler":                 domain.OrgEnabler,

	// 2024 export (lower-cased free text)
	"pvt ltd":     domain.OrgCorporate,
	"mnc":         domain.OrgCorporate,
	"college":     domain.OrgAcademia,
	"university":  domain.OrgAcademia,
	"incubator":   domain.OrgEnabler,
	"accelerator": domain.OrgEnabler,
	"vc firm":     domain.OrgInvestor,
	"govt.":       domain.OrgGovernment,
	"others":      domain.OrgOther,
}

var profileTypeTable = map[string]domain.ProfileType{
	// current values (identity)
	"founder":              domain.ProfileFounder,
	"cxo":                  domain.ProfileCXO,
	"working_professional": domain.ProfileProfessional,
	"investor":             domain.ProfileInvestor,
	"student":              domain.ProfileStudent,
	"academic":             domain.ProfileAcademic,
	"media_professional":   domain.ProfileMedia,
	"government_official":  domain.ProfileOfficial,
	"other":                domain.ProfileOther,

	// legacy values
	"Founder":              domain.ProfileFounder,
	"Co-Founder":           domain.ProfileFounder,
	"Co Founder":           domain.ProfileFounder,
	"CEO":                  domain.ProfileCXO,
	"CTO":                  domain.ProfileCXO,
	"CFO":                  domain.ProfileCXO,
	"COO":                  domain.ProfileCXO,
	"CXO":                  domain.ProfileCXO,
	"Director":             domain.ProfileCXO,
	"Working Professional": domain.ProfileProfessional,
	"Employee":             domain.ProfileProfessional,
	"Professional":         domain.ProfileProfessional,
	"Investor":             domain.ProfileInvestor,
	"Angel":                domain.ProfileInvestor,
	"Student":              domain.ProfileStudent,
	"Research Scholar":     domain.ProfileAcademic,
	"Professor":            domain.ProfileAcademic,
	"Faculty":              domain.ProfileAcademic,
	"Journalist":           domain.ProfileMedia,
	"Media Person":         domain.ProfileMedia,
	"Government Official":  domain.ProfileOfficial,
	"Bureaucrat":           domain.ProfileOfficial,
	"Others":               domain.ProfileOther,
}

var sectorTable = map[string]domain.SectorInterested{
	// current values (identity)
	"fintech":                domain.SectorFintech,
	"healthtech":             domain.SectorHealthtech,
	"agritech":               domain.SectorAgritech,
	"deeptech":               domain.SectorDeeptech,
	"saas":                   domain.SectorSaaS,
	"mobility":               domain.SectorMobility,
	"clean_energy":           domain.SectorCleanEnergy,
	"advanced_manufacturing": domain.SectorManufacture,
	"sector_agnostic":        domain.SectorSectorAgnost,

	// legacy values
	"FinTech":                domain.SectorFintech,
	"Fintech":                domain.SectorFintech,
	"Financial Services":     domain.SectorFintech,
	"HealthTech":             domain.SectorHealthtech,
	"Health Care":            domain.SectorHealthtech,
	"Healthcare":             domain.SectorHealthtech,
	"AgriTech":               domain.SectorAgritech,
	"Agriculture":            domain.SectorAgritech,
	"Deep Tech":              domain.SectorDeeptech,
	"DeepTech":               domain.SectorDeeptech,
	"AI/ML":                  domain.SectorDeeptech,
	"SaaS":                   domain.SectorSaaS,
	"Software":               domain.SectorSaaS,
	"IT/ITES":                domain.SectorSaaS,
	"EV":                     domain.SectorMobility,
	"Mobility":               domain.SectorMobility,
	"Automotive":             domain.SectorMobility,
	"Clean Energy":           domain.SectorCleanEnergy,
	"Renewables":             domain.SectorCleanEnergy,
	"Green Energy":           domain.SectorCleanEnergy,
	"Manufacturing":          domain.SectorManufacture,
	"Advanced Manufacturing": domain.SectorManufacture,
	"All Sectors":            domain.SectorSectorAgnost,
	"Any":                    domain.SectorSectorAgnost,
	"Sector Agnostic":        domain.SectorSectorAgnost,
}

var whyAttendingTable = map[string]domain.WhyAttending{
	// current values (identity)
	"networking":       domain.WhyNetworking,
	"funding":          domain.WhyFunding,
	"explore_startups": domain.WhyExplore,
	"partnerships":     domain.WhyPartnerships,
	"hiring":           domain.WhyHiring,
	"learning":         domain.WhyLearning,
	"exhibiting":       domain.WhyExhibiting,

	// legacy values
	"Networking":             domain.WhyNetworking,
	"To Network":             domain.WhyNetworking,
	"Meet People":            domain.WhyNetworking,
	"Fund Raising":           domain.WhyFunding,
	"Fundraising":            domain.WhyFunding,
	"Raise Funds":            domain.WhyFunding,
	"Looking for Investment": domain.WhyFunding,
	"Explore Startups":       domain.WhyExplore,
	"Scout Startups":         domain.WhyExplore,
	"Deal Flow":              domain.WhyExplore,
	"Partnerships":           domain.WhyPartnerships,
	"Business Development":   domain.WhyPartnerships,
	"Collaboration":          domain.WhyPartnerships,
	"Hiring":                 domain.WhyHiring,
	"Recruitment":            domain.WhyHiring,
	"Learning":               domain.WhyLearning,
	"Knowledge":              domain.WhyLearning,
	"Attend Sessions":        domain.WhyLearning,
	"Exhibiting":             domain.WhyExhibiting,
	"Exhibitor":              domain.WhyExhibiting,
	"Showcase Product":       domain.WhyExhibiting,
}

// smartProfileFallback picks a profile type for records that arrived without
// one, conditioned on the already-mapped organisation type. An empty profile
// is far more informative once you know the organisation category.
var smartProfileFallback = map[domain.OrganisationType]domain.ProfileType{
	domain.OrgStartup:    domain.ProfileFounder,
	domain.OrgCorporate:  domain.ProfileProfessional,
	domain.OrgInvestor:   domain.ProfileInvestor,
	domain.OrgGovernment: domain.ProfileOfficial,
	domain.OrgAcademia:   domain.ProfileStudent,
	domain.OrgMedia:      domain.ProfileMedia,
	domain.OrgEnabler:    domain.ProfileProfessional,
	domain.OrgOther:      domain.ProfileOther,
}
