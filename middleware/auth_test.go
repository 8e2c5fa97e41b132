package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ClaudioDevv/e-commerce/auth"
	"github.com/ClaudioDevv/e-commerce/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func init() { gin.SetMode(gin.TestMode) }

func token(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := auth.IssueToken(secret, userID, userID+"@example.com", role, time.Hour)
	require.NoError(t, err)
	return tok
}

// whoami echoes the actor the middlewares left in the context.
func whoami(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(KeyUserID), "role": c.GetString(KeyRole)})
}

func serve(r *gin.Engine, header, value string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(header, value)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestValidateToken(t *testing.T) {
	r := gin.New()
	r.GET("/", ValidateToken(secret), whoami)

	w := serve(r, "Authorization", "Bearer "+token(t, "u1", models.RoleCustomer))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"u1","role":"CUSTOMER"}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, serve(r, "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "Authorization", "Bearer nope").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "Authorization", "Bearer "+token(t, "g1", auth.RoleGuest)).Code)
}

func TestOptionalToken(t *testing.T) {
	r := gin.New()
	r.GET("/", OptionalToken(secret), whoami)

	w := serve(r, "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"","role":""}`, w.Body.String())

	w = serve(r, "Authorization", "Bearer "+token(t, "u1", models.RoleCustomer))
	assert.JSONEq(t, `{"user_id":"u1","role":"CUSTOMER"}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, serve(r, "Authorization", "Bearer nope").Code)
}

func TestValidateAPIKey(t *testing.T) {
	r := gin.New()
	r.GET("/", ValidateAPIKey("k3y"), whoami)

	w := serve(r, "X-API-KEY", "k3y")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"admin","role":"ADMIN"}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, serve(r, "X-API-KEY", "wrong").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "", "").Code)

	req := httptest.NewRequest(http.MethodGet, "/?api_key=k3y", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	unset := gin.New()
	unset.GET("/", ValidateAPIKey(""), whoami)
	assert.Equal(t, http.StatusUnauthorized, serve(unset, "X-API-KEY", "").Code)
}

type fakeUsers struct {
	seen []models.User
	err  error
}

func (f *fakeUsers) EnsureUser(_ context.Context, u *models.User) error {
	f.seen = append(f.seen, *u)
	return f.err
}

func TestProvisionUser(t *testing.T) {
	users := &fakeUsers{}
	r := gin.New()
	r.GET("/", ValidateToken(secret), ProvisionUser(users), whoami)

	w := serve(r, "Authorization", "Bearer "+token(t, "u1", models.RoleCustomer))
	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, users.seen, 1)
	assert.Equal(t, "u1@example.com", users.seen[0].Email)

	users.err = errors.New("db down")
	w = serve(r, "Authorization", "Bearer "+token(t, "u1", models.RoleCustomer))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
