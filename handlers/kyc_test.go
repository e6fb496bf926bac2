package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/pinkpay/offramp-engine/kyc"
	"github.com/pinkpay/offramp-engine/models"
)

func newKYCRouter(handler *KYCHandler, account string) *gin.Engine {
	router := gin.Default()
	router.Use(func(c *gin.Context) {
		c.Set("accountID", account)
		c.Next()
	})
	router.GET("/kyc", handler.GetApplication)
	router.PUT("/kyc/personal", handler.UpdatePersonalInfo)
	router.PUT("/kyc/compliance", handler.UpdateCompliance)
	router.POST("/kyc/submit", handler.Submit)
	router.POST("/kyc/decision", handler.Decide)
	return router
}

func TestKYCApplicationFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	kv := setupTestStore(t)
	wf := kyc.NewWorkflow(kv, kyc.PolicyAllSteps)
	router := newKYCRouter(NewKYCHandler(wf), "acct-1")

	t.Run("Fresh Application", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/kyc", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"unsubmitted"`)
		assert.Contains(t, w.Body.String(), `"progress":0`)
	})

	t.Run("Step Update Advances Progress", func(t *testing.T) {
		body, _ := json.Marshal(models.PersonalInfo{
			FirstName: "Amara", LastName: "Okafor", DateOfBirth: "1995-04-12",
			Nationality: "KE", PhoneNumber: "+254700000000", Email: "amara@example.com",
		})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/kyc/personal", bytes.NewBuffer(body))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"progress":25`)
		assert.Contains(t, w.Body.String(), `"personal_info":true`)
	})

	t.Run("Submit Rejected When Incomplete", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/kyc/submit", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	verifyAccount(t, wf, "acct-1")

	t.Run("Edits Locked After Submission", func(t *testing.T) {
		body, _ := json.Marshal(models.Compliance{TermsAccepted: true, PrivacyAccepted: true})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/kyc/compliance", bytes.NewBuffer(body))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Decide Requires Pending Application", func(t *testing.T) {
		// verifyAccount already decided this application.
		body, _ := json.Marshal(DecisionRequest{AccountID: "acct-1", Verdict: models.KYCRejected})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/kyc/decision", bytes.NewBuffer(body))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
