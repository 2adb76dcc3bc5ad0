package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gradlane/gradlane/internal/models"
	"github.com/gradlane/gradlane/internal/services"
	"github.com/gradlane/gradlane/internal/utils"
)

type AuthHandler struct {
	users   services.UserService
	matcher services.MatchService
}

func NewAuthHandler(users services.UserService, matcher services.MatchService) *AuthHandler {
	return &AuthHandler{users: users, matcher: matcher}
}

type SignupRequest struct {
	Email            string   `json:"email" binding:"required,email"`
	Password         string   `json:"password" binding:"required,min=8"`
	SubscriptionTier string   `json:"subscription_tier"`
	TargetCities     []string `json:"target_cities" binding:"required"`
	CareerPaths      []string `json:"career_paths" binding:"required"`
	Skills           string   `json:"skills"`

	// Premium-only, ignored for free signups at matching time.
	LanguagesSpoken      []string `json:"languages_spoken"`
	WorkEnvironment      string   `json:"work_environment"`
	EntryLevelPreference string   `json:"entry_level_preference"`
	VisaStatus           string   `json:"visa_status"`
}

type SignupResponse struct {
	User     *models.User           `json:"user"`
	Token    string                 `json:"token"`
	Matching *services.MatchOutcome `json:"matching"`
}

// Signup creates the user with their preferences and immediately runs the
// matching pipeline. Matching failures other than hard persistence errors
// resolve to an outcome status, not an HTTP error.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AuthHandler.Signup", "invalid request body", err))
		return
	}

	user, token, err := h.users.Signup(c.Request.Context(), services.SignupInput{
		Email:            req.Email,
		Password:         req.Password,
		SubscriptionTier: models.SubscriptionTier(req.SubscriptionTier),
		Preferences: &models.UserPreferences{
			TargetCities:         req.TargetCities,
			CareerPaths:          req.CareerPaths,
			Skills:               req.Skills,
			LanguagesSpoken:      req.LanguagesSpoken,
			WorkEnvironment:      models.WorkEnvironment(req.WorkEnvironment),
			EntryLevelPreference: req.EntryLevelPreference,
			VisaStatus:           req.VisaStatus,
		},
	})
	if err != nil {
		writeError(c, err)
		return
	}

	outcome, err := h.matcher.RunSignupMatching(c.Request.Context(), user.Email)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SignupResponse{
		User:     user,
		Token:    token,
		Matching: outcome,
	})
}
