// Package kyc implements the multi-step verification workflow. An account
// owns one application; steps are edited independently and a step counts
// as complete only when every required field in it is filled.
package kyc

import (
	"fmt"
	"time"

	"github.com/pinkpay/offramp-engine/engine"
	"github.com/pinkpay/offramp-engine/models"
	"github.com/pinkpay/offramp-engine/store"
)

// SubmitPolicy controls which steps must be complete before an
// application may be submitted.
type SubmitPolicy int

const (
	// PolicyAllSteps requires all four steps. This is the default.
	PolicyAllSteps SubmitPolicy = iota
	// PolicyComplianceOnly gates submission on the compliance checkboxes
	// alone, matching the original intake form.
	PolicyComplianceOnly
)

type Workflow struct {
	store  store.Store
	policy SubmitPolicy
}

func NewWorkflow(s store.Store, policy SubmitPolicy) *Workflow {
	return &Workflow{store: s, policy: policy}
}

// Application loads the account's application, or a fresh unsubmitted one
// if none has been saved yet.
func (w *Workflow) Application(accountID string) (models.KYCApplication, error) {
	app := models.KYCApplication{Status: models.KYCUnsubmitted}
	if _, err := w.store.Load(accountID, store.KindKYC, &app); err != nil {
		return models.KYCApplication{}, err
	}
	return app, nil
}

func (w *Workflow) save(accountID string, app models.KYCApplication) error {
	return w.store.Save(accountID, store.KindKYC, app)
}

// StepComplete evaluates one step's completeness predicate. File fields
// are opaque references and only checked for presence.
func StepComplete(app models.KYCApplication, step models.KYCStep) bool {
	switch step {
	case models.StepPersonalInfo:
		p := app.PersonalInfo
		return p.FirstName != "" && p.LastName != "" && p.DateOfBirth != "" &&
			p.Nationality != "" && p.PhoneNumber != "" && p.Email != ""
	case models.StepIDVerification:
		id := app.IDVerification
		return id.IDType != "" && id.IDNumber != "" && id.IDFrontRef != "" && id.SelfieRef != ""
	case models.StepFinancialInfo:
		f := app.FinancialInfo
		return f.Occupation != "" && f.MonthlyIncome != "" && f.SourceOfFunds != ""
	case models.StepCompliance:
		return app.Compliance.TermsAccepted && app.Compliance.PrivacyAccepted
	default:
		return false
	}
}

// Progress returns the percentage of completed steps.
func Progress(app models.KYCApplication) float64 {
	completed := 0
	for _, step := range models.KYCSteps {
		if StepComplete(app, step) {
			completed++
		}
	}
	return float64(completed) / float64(len(models.KYCSteps)) * 100
}

// editable guards step mutations: once submitted, the application is
// read-only until a verifier decides or the account starts over.
func editable(app models.KYCApplication) error {
	if app.Status != models.KYCUnsubmitted {
		return fmt.Errorf("%w: application is %s and cannot be edited", engine.ErrInvalidTransition, app.Status)
	}
	return nil
}

func (w *Workflow) UpdatePersonalInfo(accountID string, info models.PersonalInfo) (models.KYCApplication, error) {
	return w.update(accountID, func(app *models.KYCApplication) { app.PersonalInfo = info })
}

func (w *Workflow) UpdateIDVerification(accountID string, id models.IDVerification) (models.KYCApplication, error) {
	return w.update(accountID, func(app *models.KYCApplication) { app.IDVerification = id })
}

func (w *Workflow) UpdateFinancialInfo(accountID string, info models.FinancialInfo) (models.KYCApplication, error) {
	return w.update(accountID, func(app *models.KYCApplication) { app.FinancialInfo = info })
}

func (w *Workflow) UpdateCompliance(accountID string, c models.Compliance) (models.KYCApplication, error) {
	return w.update(accountID, func(app *models.KYCApplication) { app.Compliance = c })
}

func (w *Workflow) update(accountID string, mutate func(*models.KYCApplication)) (models.KYCApplication, error) {
	app, err := w.Application(accountID)
	if err != nil {
		return models.KYCApplication{}, err
	}
	if err := editable(app); err != nil {
		return models.KYCApplication{}, err
	}
	mutate(&app)
	if err := w.save(accountID, app); err != nil {
		return models.KYCApplication{}, err
	}
	return app, nil
}

// Submit moves Unsubmitted → Pending when the workflow's policy is
// satisfied.
func (w *Workflow) Submit(accountID string, now time.Time) (models.KYCApplication, error) {
	app, err := w.Application(accountID)
	if err != nil {
		return models.KYCApplication{}, err
	}
	if app.Status != models.KYCUnsubmitted {
		return models.KYCApplication{}, fmt.Errorf("%w: cannot submit a %s application", engine.ErrInvalidTransition, app.Status)
	}

	switch w.policy {
	case PolicyComplianceOnly:
		if !StepComplete(app, models.StepCompliance) {
			return models.KYCApplication{}, fmt.Errorf("%w: compliance step incomplete", engine.ErrInvalidTransition)
		}
	default:
		for _, step := range models.KYCSteps {
			if !StepComplete(app, step) {
				return models.KYCApplication{}, fmt.Errorf("%w: step %s incomplete", engine.ErrInvalidTransition, step)
			}
		}
	}

	app.Status = models.KYCPending
	app.SubmittedAt = &now
	if err := w.save(accountID, app); err != nil {
		return models.KYCApplication{}, err
	}
	return app, nil
}

// Decide applies the external verifier's verdict to a pending
// application. There is no transition out of a decided application.
func (w *Workflow) Decide(accountID string, verdict models.KYCStatus, now time.Time) (models.KYCApplication, error) {
	if verdict != models.KYCVerified && verdict != models.KYCRejected {
		return models.KYCApplication{}, fmt.Errorf("%w: verdict must be verified or rejected", engine.ErrInvalidTransition)
	}
	app, err := w.Application(accountID)
	if err != nil {
		return models.KYCApplication{}, err
	}
	if app.Status != models.KYCPending {
		return models.KYCApplication{}, fmt.Errorf("%w: cannot decide a %s application", engine.ErrInvalidTransition, app.Status)
	}
	app.Status = verdict
	app.DecidedAt = &now
	if err := w.save(accountID, app); err != nil {
		return models.KYCApplication{}, err
	}
	return app, nil
}

// Reset discards the application so the account can start a fresh one.
// This is the only path forward after a rejection.
func (w *Workflow) Reset(accountID string) error {
	return w.store.Delete(accountID, store.KindKYC)
}

// AllowPayout reports whether payout features are unlocked, and if not,
// a status-specific reason to surface to the caller.
func (w *Workflow) AllowPayout(accountID string) (bool, string, error) {
	app, err := w.Application(accountID)
	if err != nil {
		return false, "", err
	}
	switch app.Status {
	case models.KYCVerified:
		return true, "", nil
	case models.KYCPending:
		return false, "identity verification is under review; payouts unlock once verified", nil
	case models.KYCRejected:
		return false, "identity verification was rejected; submit a new application to enable payouts", nil
	default:
		return false, "identity verification required before payouts", nil
	}
}
