package models

// RiskLevel classifies a broker lookup result.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// BrokerReport is the result of a broker-risk lookup by MC number.
type BrokerReport struct {
	MCNumber        string    `json:"mc_number"`
	CompanyName     string    `json:"company_name"`
	IsActive        bool      `json:"is_active"`
	SafetyRating    string    `json:"safety_rating"`
	ScamReports     int       `json:"scam_reports"`
	FactoringRating string    `json:"factoring_rating"`
	DaysInBusiness  int       `json:"days_in_business"`
	RiskLevel       RiskLevel `json:"risk_level"`
}
