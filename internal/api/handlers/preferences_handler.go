package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gradlane/gradlane/internal/models"
	"github.com/gradlane/gradlane/internal/services"
	"github.com/gradlane/gradlane/internal/utils"
)

type PreferencesHandler struct {
	users services.UserService
}

func NewPreferencesHandler(users services.UserService) *PreferencesHandler {
	return &PreferencesHandler{users: users}
}

func (h *PreferencesHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	p, err := h.users.GetPreferences(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

type UpdatePreferencesRequest struct {
	TargetCities *[]string `json:"target_cities,omitempty"`
	CareerPaths  *[]string `json:"career_paths,omitempty"`
	Skills       *string   `json:"skills,omitempty"`

	LanguagesSpoken      *[]string `json:"languages_spoken,omitempty"`
	WorkEnvironment      *string   `json:"work_environment,omitempty"`
	EntryLevelPreference *string   `json:"entry_level_preference,omitempty"`
	VisaStatus           *string   `json:"visa_status,omitempty"`
}

func (h *PreferencesHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "PreferencesHandler.Update", "invalid request body", err))
		return
	}

	existing, err := h.users.GetPreferences(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	if req.TargetCities != nil {
		if len(*req.TargetCities) == 0 || len(*req.TargetCities) > 3 {
			writeError(c, utils.E(utils.CodeInvalidArgument, "PreferencesHandler.Update", "between 1 and 3 target cities are required", nil))
			return
		}
		existing.TargetCities = *req.TargetCities
	}
	if req.CareerPaths != nil {
		existing.CareerPaths = *req.CareerPaths
	}
	if req.Skills != nil {
		existing.Skills = *req.Skills
	}
	if req.LanguagesSpoken != nil {
		existing.LanguagesSpoken = *req.LanguagesSpoken
	}
	if req.WorkEnvironment != nil {
		existing.WorkEnvironment = models.WorkEnvironment(*req.WorkEnvironment)
	}
	if req.EntryLevelPreference != nil {
		existing.EntryLevelPreference = *req.EntryLevelPreference
	}
	if req.VisaStatus != nil {
		existing.VisaStatus = *req.VisaStatus
	}

	existing.UpdatedAt = time.Now().UTC()

	if err := h.users.UpdatePreferences(c.Request.Context(), existing); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, existing)
}
