package kyc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pinkpay/offramp-engine/engine"
	"github.com/pinkpay/offramp-engine/models"
	"github.com/pinkpay/offramp-engine/store"
)

const account = "0xbaddie"

func setupStore(t *testing.T) store.Store {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))
	return store.NewGormStore(db)
}

func completePersonal() models.PersonalInfo {
	return models.PersonalInfo{
		FirstName:   "Amina",
		LastName:    "Otieno",
		DateOfBirth: "1995-04-12",
		Nationality: "KE",
		PhoneNumber: "+254712345678",
		Email:       "amina@example.com",
		Address:     "Moi Avenue 12",
		City:        "Nairobi",
		PostalCode:  "00100",
	}
}

func completeID() models.IDVerification {
	return models.IDVerification{
		IDType:     "national_id",
		IDNumber:   "12345678",
		IDFrontRef: "doc/front-1",
		IDBackRef:  "doc/back-1",
		SelfieRef:  "doc/selfie-1",
	}
}

func completeFinancial() models.FinancialInfo {
	return models.FinancialInfo{
		Occupation:     "Self-Employed",
		MonthlyIncome:  "$1,000 - $2,500",
		SourceOfFunds:  "Business Income",
		ExpectedVolume: "$500 - $1,000",
	}
}

func completeCompliance() models.Compliance {
	return models.Compliance{TermsAccepted: true, PrivacyAccepted: true}
}

func fillAll(t *testing.T, w *Workflow) {
	t.Helper()
	_, err := w.UpdatePersonalInfo(account, completePersonal())
	require.NoError(t, err)
	_, err = w.UpdateIDVerification(account, completeID())
	require.NoError(t, err)
	_, err = w.UpdateFinancialInfo(account, completeFinancial())
	require.NoError(t, err)
	_, err = w.UpdateCompliance(account, completeCompliance())
	require.NoError(t, err)
}

func TestStepCompleteness(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*models.KYCApplication)
		step     models.KYCStep
		complete bool
	}{
		{
			name:     "personal info with all required fields",
			mutate:   func(a *models.KYCApplication) { a.PersonalInfo = completePersonal() },
			step:     models.StepPersonalInfo,
			complete: true,
		},
		{
			name: "personal info missing email",
			mutate: func(a *models.KYCApplication) {
				p := completePersonal()
				p.Email = ""
				a.PersonalInfo = p
			},
			step:     models.StepPersonalInfo,
			complete: false,
		},
		{
			name: "id verification without selfie reference",
			mutate: func(a *models.KYCApplication) {
				id := completeID()
				id.SelfieRef = ""
				a.IDVerification = id
			},
			step:     models.StepIDVerification,
			complete: false,
		},
		{
			name: "id back reference is optional",
			mutate: func(a *models.KYCApplication) {
				id := completeID()
				id.IDBackRef = ""
				a.IDVerification = id
			},
			step:     models.StepIDVerification,
			complete: true,
		},
		{
			name: "financial info employer is optional",
			mutate: func(a *models.KYCApplication) {
				a.FinancialInfo = completeFinancial()
				a.FinancialInfo.Employer = ""
			},
			step:     models.StepFinancialInfo,
			complete: true,
		},
		{
			name: "compliance needs both checkboxes",
			mutate: func(a *models.KYCApplication) {
				a.Compliance = models.Compliance{TermsAccepted: true}
			},
			step:     models.StepCompliance,
			complete: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := models.KYCApplication{Status: models.KYCUnsubmitted}
			tt.mutate(&app)
			assert.Equal(t, tt.complete, StepComplete(app, tt.step))
		})
	}
}

func TestProgress(t *testing.T) {
	app := models.KYCApplication{Status: models.KYCUnsubmitted}
	assert.Equal(t, 0.0, Progress(app))

	app.PersonalInfo = completePersonal()
	assert.Equal(t, 25.0, Progress(app))

	app.IDVerification = completeID()
	app.FinancialInfo = completeFinancial()
	app.Compliance = completeCompliance()
	assert.Equal(t, 100.0, Progress(app))
}

func TestSubmitAllStepsPolicy(t *testing.T) {
	w := NewWorkflow(setupStore(t), PolicyAllSteps)

	// Only the compliance checkboxes are filled: the strict gate refuses.
	_, err := w.UpdateCompliance(account, completeCompliance())
	require.NoError(t, err)
	_, err = w.Submit(account, time.Now())
	assert.ErrorIs(t, err, engine.ErrInvalidTransition)

	fillAll(t, w)
	app, err := w.Submit(account, time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.KYCPending, app.Status)
	assert.NotNil(t, app.SubmittedAt)
}

func TestSubmitComplianceOnlyPolicy(t *testing.T) {
	w := NewWorkflow(setupStore(t), PolicyComplianceOnly)

	// The loose gate accepts as soon as terms and privacy are ticked,
	// even with the other three steps empty.
	_, err := w.UpdateCompliance(account, completeCompliance())
	require.NoError(t, err)
	app, err := w.Submit(account, time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.KYCPending, app.Status)

	// But never without the checkboxes.
	w2 := NewWorkflow(setupStore(t), PolicyComplianceOnly)
	_, err = w2.Submit(account, time.Now())
	assert.ErrorIs(t, err, engine.ErrInvalidTransition)
}

func TestSubmitTwiceRejected(t *testing.T) {
	w := NewWorkflow(setupStore(t), PolicyAllSteps)
	fillAll(t, w)

	_, err := w.Submit(account, time.Now())
	require.NoError(t, err)
	_, err = w.Submit(account, time.Now())
	assert.ErrorIs(t, err, engine.ErrInvalidTransition)
}

func TestEditingLockedAfterSubmit(t *testing.T) {
	w := NewWorkflow(setupStore(t), PolicyAllSteps)
	fillAll(t, w)
	_, err := w.Submit(account, time.Now())
	require.NoError(t, err)

	_, err = w.UpdatePersonalInfo(account, completePersonal())
	assert.ErrorIs(t, err, engine.ErrInvalidTransition)
}

func TestDecide(t *testing.T) {
	t.Run("verify unlocks payouts", func(t *testing.T) {
		w := NewWorkflow(setupStore(t), PolicyAllSteps)
		fillAll(t, w)
		_, err := w.Submit(account, time.Now())
		require.NoError(t, err)

		app, err := w.Decide(account, models.KYCVerified, time.Now())
		require.NoError(t, err)
		assert.Equal(t, models.KYCVerified, app.Status)

		ok, reason, err := w.AllowPayout(account)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, reason)
	})

	t.Run("cannot decide an unsubmitted application", func(t *testing.T) {
		w := NewWorkflow(setupStore(t), PolicyAllSteps)
		_, err := w.Decide(account, models.KYCVerified, time.Now())
		assert.ErrorIs(t, err, engine.ErrInvalidTransition)
	})

	t.Run("no transition out of rejected", func(t *testing.T) {
		w := NewWorkflow(setupStore(t), PolicyAllSteps)
		fillAll(t, w)
		_, err := w.Submit(account, time.Now())
		require.NoError(t, err)
		_, err = w.Decide(account, models.KYCRejected, time.Now())
		require.NoError(t, err)

		_, err = w.Decide(account, models.KYCVerified, time.Now())
		assert.ErrorIs(t, err, engine.ErrInvalidTransition)

		// A fresh application is the only path forward.
		require.NoError(t, w.Reset(account))
		app, err := w.Application(account)
		require.NoError(t, err)
		assert.Equal(t, models.KYCUnsubmitted, app.Status)
	})
}

func TestAllowPayoutBlockedStatuses(t *testing.T) {
	w := NewWorkflow(setupStore(t), PolicyAllSteps)

	ok, reason, err := w.AllowPayout(account)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, reason, "verification required")

	fillAll(t, w)
	_, err = w.Submit(account, time.Now())
	require.NoError(t, err)

	ok, reason, err = w.AllowPayout(account)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, reason, "under review")
}
