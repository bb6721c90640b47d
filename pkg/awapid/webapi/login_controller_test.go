package webapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/assetworks/gantry/pkg/awauth"
	"github.com/assetworks/gantry/pkg/awdb/awmodel"
	"github.com/assetworks/gantry/pkg/awdb/stor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const loginTestSecret = "login-test-secret"

func setupLoginController(t *testing.T) *LoginController {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	userStor := stor.NewInMemoryUserStor([]awmodel.User{
		{ID: 1, Email: "ops@example.com", Password: string(hashed)},
	})

	return NewLoginController(userStor, loginTestSecret)
}

func TestLogin(t *testing.T) {
	controller := setupLoginController(t)

	t.Run("ValidCredentialsReturnAToken", func(t *testing.T) {
		body := []byte(`{"email": "ops@example.com", "password": "s3cret"}`)
		ctx, rec := setupEchoContext(t, http.MethodPost, "/api/login", body, nil)

		require.NoError(t, controller.Login(ctx))
		assert.Equal(t, http.StatusOK, rec.Code)

		response := rec.Body.String()
		assert.Contains(t, response, `"token":`)
		assert.Contains(t, response, `"email":"ops@example.com"`)

		// The password hash must never travel back to the client.
		assert.NotContains(t, response, "password")
	})

	t.Run("TokenValidatesWithTheSameSecret", func(t *testing.T) {
		body := []byte(`{"email": "ops@example.com", "password": "s3cret"}`)
		ctx, rec := setupEchoContext(t, http.MethodPost, "/api/login", body, nil)

		require.NoError(t, controller.Login(ctx))

		var response struct {
			Data struct {
				Token string `json:"token"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

		claims, err := awauth.ValidateToken(loginTestSecret, response.Data.Token)
		require.NoError(t, err)
		assert.Equal(t, 1, claims.UserID)
	})

	t.Run("WrongPasswordIsUnauthorized", func(t *testing.T) {
		body := []byte(`{"email": "ops@example.com", "password": "wrong"}`)
		ctx, _ := setupEchoContext(t, http.MethodPost, "/api/login", body, nil)

		err := controller.Login(ctx)
		assertHTTPError(t, err, http.StatusUnauthorized)
	})

	t.Run("UnknownUserIsUnauthorized", func(t *testing.T) {
		body := []byte(`{"email": "nobody@example.com", "password": "s3cret"}`)
		ctx, _ := setupEchoContext(t, http.MethodPost, "/api/login", body, nil)

		err := controller.Login(ctx)
		assertHTTPError(t, err, http.StatusUnauthorized)
	})
}
