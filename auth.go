package main

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"lg/weight-tracker-api/internal/model"
)

/* ─── Tokens ─────────────────────────────────────────────────────────── */

// issueToken signs an HS256 session token for userID. The subject carries the
// user id and each token gets a random jti.
func (h *Handler) issueToken(userID int64) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(h.tokenTTL)
	claims := jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.jwtSecret)
	return signed, expires, err
}

// parseToken validates the signature and expiry and returns the user id.
func (h *Handler) parseToken(raw string) (int64, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return h.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("token subject is not a user id")
	}
	return id, nil
}

// bearerToken reads the Authorization header. Browsers can't set headers on
// a websocket handshake, so ?token= is accepted when the header is absent.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if t := c.Query("token"); t != "" {
			return t, true
		}
		return "", false
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(header, "Bearer "), true
}

/* ─── Handlers ───────────────────────────────────────────────────────── */

// register creates an account and signs the new user in.
// POST /api/register (public). Body: { "username": "...", "password": "..." }.
func (h *Handler) register(c *gin.Context) {
	var body credentialsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.tracker.Register(c, body.Username, body.Password)
	if err != nil {
		writeError(c, "register", err)
		return
	}
	h.respondWithToken(c, http.StatusCreated, u)
}

// login verifies username/password and returns a session token.
// POST /api/login (public, no auth required).
func (h *Handler) login(c *gin.Context) {
	var body credentialsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	// Authenticate does the same hashing work for unknown usernames, so both
	// failure cases cost the same and share one message.
	u, ok, err := h.tracker.Authenticate(c, body.Username, body.Password)
	if err != nil {
		writeError(c, "login", err)
		return
	}
	if !ok {
		apiError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}
	h.respondWithToken(c, http.StatusOK, u)
}

func (h *Handler) respondWithToken(c *gin.Context, status int, u model.UserSummary) {
	token, expires, err := h.issueToken(u.ID)
	if err != nil {
		log.Printf("[respondWithToken] sign error: %v", err)
		apiError(c, http.StatusInternalServerError, "failed to issue token")
		return
	}
	c.JSON(status, tokenResponse{Token: token, ExpiresAt: expires, User: u})
}

/* ─── Middleware ─────────────────────────────────────────────────────── */

// authMiddleware validates the Bearer token and sets user_id on the context.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			apiError(c, http.StatusUnauthorized, "missing or invalid authorization header")
			c.Abort()
			return
		}
		id, ok := h.authenticate(c, "authMiddleware", token)
		if !ok {
			c.Abort()
			return
		}
		c.Set("user_id", id)
		c.Next()
	}
}

// optionalAuth sets user_id when a valid token is present and lets anonymous
// requests through otherwise. A token that is present but invalid is still
// rejected so a client never silently loses its personal items.
func (h *Handler) optionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}
		id, ok := h.authenticate(c, "optionalAuth", token)
		if !ok {
			c.Abort()
			return
		}
		c.Set("user_id", id)
		c.Next()
	}
}

// authenticate resolves token to a user id. On failure it writes the error
// response itself and returns ok=false.
func (h *Handler) authenticate(c *gin.Context, fn, token string) (int64, bool) {
	id, err := h.parseToken(token)
	if err != nil {
		apiError(c, http.StatusUnauthorized, "invalid token")
		return 0, false
	}
	// A valid signature isn't enough once the account has been deleted.
	if _, err := h.tracker.User(c, id); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			apiError(c, http.StatusUnauthorized, "invalid token")
		} else {
			writeError(c, fn, err)
		}
		return 0, false
	}
	return id, true
}

// optionalUserID returns the signed-in user id, or nil for anonymous callers.
func optionalUserID(c *gin.Context) *int64 {
	v, ok := c.Get("user_id")
	if !ok {
		return nil
	}
	id, ok := v.(int64)
	if !ok {
		return nil
	}
	return &id
}
