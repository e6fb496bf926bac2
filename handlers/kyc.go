package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pinkpay/offramp-engine/kyc"
	"github.com/pinkpay/offramp-engine/models"
)

type KYCHandler struct {
	workflow *kyc.Workflow
}

func NewKYCHandler(w *kyc.Workflow) *KYCHandler {
	return &KYCHandler{workflow: w}
}

func applicationView(app models.KYCApplication) gin.H {
	steps := gin.H{}
	for _, step := range models.KYCSteps {
		steps[string(step)] = kyc.StepComplete(app, step)
	}
	return gin.H{
		"application": app,
		"progress":    kyc.Progress(app),
		"steps":       steps,
	}
}

// GetApplication returns the application with per-step completeness and
// overall progress.
func (h *KYCHandler) GetApplication(c *gin.Context) {
	app, err := h.workflow.Application(accountID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, applicationView(app))
}

func (h *KYCHandler) UpdatePersonalInfo(c *gin.Context) {
	var info models.PersonalInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	app, err := h.workflow.UpdatePersonalInfo(accountID(c), info)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, applicationView(app))
}

func (h *KYCHandler) UpdateIDVerification(c *gin.Context) {
	var id models.IDVerification
	if err := c.ShouldBindJSON(&id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	app, err := h.workflow.UpdateIDVerification(accountID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, applicationView(app))
}

func (h *KYCHandler) UpdateFinancialInfo(c *gin.Context) {
	var info models.FinancialInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	app, err := h.workflow.UpdateFinancialInfo(accountID(c), info)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, applicationView(app))
}

func (h *KYCHandler) UpdateCompliance(c *gin.Context) {
	var compliance models.Compliance
	if err := c.ShouldBindJSON(&compliance); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	app, err := h.workflow.UpdateCompliance(accountID(c), compliance)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, applicationView(app))
}

// Submit hands the application to the external verifier.
func (h *KYCHandler) Submit(c *gin.Context) {
	app, err := h.workflow.Submit(accountID(c), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"application": app,
		"message":     "KYC application submitted. You will be notified once verification is complete.",
	})
}

// Reset discards the application so a fresh one can be started, the only
// path forward after a rejection.
func (h *KYCHandler) Reset(c *gin.Context) {
	if err := h.workflow.Reset(accountID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "KYC application reset"})
}

type DecisionRequest struct {
	AccountID string           `json:"account_id" binding:"required"`
	Verdict   models.KYCStatus `json:"verdict" binding:"required"`
}

// Decide records the external verifier's verdict. Requires the verifier
// role.
func (h *KYCHandler) Decide(c *gin.Context) {
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	app, err := h.workflow.Decide(req.AccountID, req.Verdict, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": app})
}
