package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when a login username isn't found, so a miss costs the
// same bcrypt time as a wrong password and usernames can't be probed by timing.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy"), bcrypt.DefaultCost)

// loginRequest is the request body for POST /api/login.
type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// login verifies username/password and returns the user's bearer token.
// POST /api/login (public). Only registered when a database is configured.
func (h *Handler) login(c *gin.Context) {
	var body loginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, bindingErrorMessage(err))
		return
	}

	u, lookupErr := queryOne[user](c.Request.Context(), h.db,
		"SELECT * FROM users WHERE username = @username",
		pgx.NamedArgs{"username": body.Username})

	hashToCheck := dummyHash
	if lookupErr == nil {
		hashToCheck = []byte(u.Password)
	}
	compareErr := bcrypt.CompareHashAndPassword(hashToCheck, []byte(body.Password))

	if lookupErr != nil || compareErr != nil {
		log.Printf("[auth] rid=%s failed login for %q", c.GetString("request_id"), body.Username)
		apiError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": u.AuthToken, "user_id": u.ID})
}

// authMiddleware validates the Bearer token against users.auth_token and sets user_id.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || token == "" {
			apiError(c, http.StatusUnauthorized, "missing or invalid authorization header")
			c.Abort()
			return
		}

		var userID int
		err := h.db.QueryRow(c.Request.Context(), "SELECT id FROM users WHERE auth_token = $1", token).Scan(&userID)
		if err != nil {
			apiError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
