package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gradlane/gradlane/internal/services"
	"github.com/gradlane/gradlane/internal/utils"
)

type MatchingHandler struct {
	users   services.UserService
	matcher services.MatchService
}

func NewMatchingHandler(users services.UserService, matcher services.MatchService) *MatchingHandler {
	return &MatchingHandler{users: users, matcher: matcher}
}

// Run re-triggers signup matching for the authenticated user. The
// idempotency check makes repeated calls safe.
func (h *MatchingHandler) Run(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	prefs, err := h.users.GetPreferences(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	outcome, err := h.matcher.RunSignupMatching(c.Request.Context(), prefs.Email)
	if err != nil {
		var ae *utils.AppError
		if errors.As(err, &ae) {
			writeError(c, err)
			return
		}
		writeError(c, utils.E(utils.CodeInternal, "MatchingHandler.Run", "matching failed", err))
		return
	}

	c.JSON(http.StatusOK, outcome)
}

func (h *MatchingHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	matches, err := h.matcher.ListMatches(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"matches": matches, "count": len(matches)})
}
