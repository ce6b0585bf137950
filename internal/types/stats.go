package types

import "time"

// CompanyAvailability is the slot view of one company.
type CompanyAvailability struct {
	FullName       string `json:"fullname"`
	ShortName      string `json:"shortname"`
	RegisterInfo   string `json:"registerInfo"`
	AcceptanceInfo string `json:"acceptanceInfo"`
	IsAvailable    bool   `json:"isAvailable"`
}

// AcceptanceStats aggregates slot counters over the whole directory.
// When the directory is empty only Error is set.
type AcceptanceStats struct {
	TotalCompanies          int    `json:"totalCompanies"`
	ValidCompanyCount       int    `json:"validCompanyCount"`
	TotalStudentAccepted    int    `json:"totalStudentAccepted"`
	TotalMaxAcceptedStudent int    `json:"totalMaxAcceptedStudent"`
	TotalStudentRegister    int    `json:"totalStudentRegister"`
	TotalMaxRegister        int    `json:"totalMaxRegister"`
	AcceptanceRatio         string `json:"acceptanceRatio,omitempty"`
	RegisterRatio           string `json:"registerRatio,omitempty"`
	AcceptancePercentage    string `json:"acceptancePercentage,omitempty"`
	RegisterPercentage      string `json:"registerPercentage,omitempty"`
	Summary                 string `json:"summary,omitempty"`
	Error                   string `json:"error,omitempty"`
}

// AvailabilityReport is the payload served by /api/companies.
type AvailabilityReport struct {
	Success             bool                  `json:"success"`
	AvailableCompanies  []CompanyAvailability `json:"availableCompanies"`
	AllCompaniesDetails []CompanyAvailability `json:"allCompaniesDetails"`
	AcceptanceStats     AcceptanceStats       `json:"acceptanceStats"`
	LastUpdated         time.Time             `json:"lastUpdated"`
}
