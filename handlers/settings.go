package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pinkpay/offramp-engine/store"
)

// SupportedLanguages are the interface languages the mobile clients ship.
var SupportedLanguages = map[string]string{
	"en": "English",
	"sw": "Kiswahili",
	"ha": "Hausa",
	"yo": "Yoruba",
}

const defaultLanguage = "en"

type SettingsHandler struct {
	store store.Store
}

func NewSettingsHandler(s store.Store) *SettingsHandler {
	return &SettingsHandler{store: s}
}

func (h *SettingsHandler) GetLanguage(c *gin.Context) {
	var lang string
	ok, err := h.store.Load(accountID(c), store.KindLanguage, &lang)
	if err != nil {
		respondError(c, err)
		return
	}
	if !ok || lang == "" {
		lang = defaultLanguage
	}
	c.JSON(http.StatusOK, gin.H{"language": lang, "languages": SupportedLanguages})
}

type SetLanguageRequest struct {
	Language string `json:"language" binding:"required"`
}

func (h *SettingsHandler) SetLanguage(c *gin.Context) {
	var req SetLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, ok := SupportedLanguages[req.Language]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported language"})
		return
	}
	if err := h.store.Save(accountID(c), store.KindLanguage, req.Language); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"language": req.Language})
}
