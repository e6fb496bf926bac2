package models

import "time"

type KYCStatus string

const (
	KYCUnsubmitted KYCStatus = "unsubmitted"
	KYCPending     KYCStatus = "pending"
	KYCVerified    KYCStatus = "verified"
	KYCRejected    KYCStatus = "rejected"
)

type KYCStep string

const (
	StepPersonalInfo   KYCStep = "personal_info"
	StepIDVerification KYCStep = "id_verification"
	StepFinancialInfo  KYCStep = "financial_info"
	StepCompliance     KYCStep = "compliance"
)

// KYCSteps lists the four verification steps in form order.
var KYCSteps = []KYCStep{StepPersonalInfo, StepIDVerification, StepFinancialInfo, StepCompliance}

type PersonalInfo struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"`
	Nationality string `json:"nationality"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	City        string `json:"city"`
	PostalCode  string `json:"postal_code"`
}

// IDVerification holds only opaque references into the document store;
// the engine never inspects document content.
type IDVerification struct {
	IDType     string `json:"id_type"`
	IDNumber   string `json:"id_number"`
	IDFrontRef string `json:"id_front_ref"`
	IDBackRef  string `json:"id_back_ref"`
	SelfieRef  string `json:"selfie_ref"`
}

type FinancialInfo struct {
	Occupation     string `json:"occupation"`
	Employer       string `json:"employer"`
	MonthlyIncome  string `json:"monthly_income"`
	SourceOfFunds  string `json:"source_of_funds"`
	ExpectedVolume string `json:"expected_volume"`
}

type Compliance struct {
	PEPDeclared       bool `json:"pep_declared"`
	SanctionsDeclared bool `json:"sanctions_declared"`
	TermsAccepted     bool `json:"terms_accepted"`
	PrivacyAccepted   bool `json:"privacy_accepted"`
}

type KYCApplication struct {
	PersonalInfo   PersonalInfo   `json:"personal_info"`
	IDVerification IDVerification `json:"id_verification"`
	FinancialInfo  FinancialInfo  `json:"financial_info"`
	Compliance     Compliance     `json:"compliance"`
	Status         KYCStatus      `json:"status"`
	SubmittedAt    *time.Time     `json:"submitted_at,omitempty"`
	DecidedAt      *time.Time     `json:"decided_at,omitempty"`
}
