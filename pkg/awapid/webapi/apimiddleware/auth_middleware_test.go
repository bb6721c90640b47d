package apimiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/assetworks/gantry/pkg/awauth"
	"github.com/assetworks/gantry/pkg/awdb/awmodel"
	"github.com/assetworks/gantry/pkg/awdb/stor"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const authTestSecret = "auth-test-secret"

func newAuthTestUserStor() *stor.InMemoryUserStor {
	return stor.NewInMemoryUserStor([]awmodel.User{
		{ID: 1, Email: "ops@example.com", APIToken: "valid-api-key"},
	})
}

func runAuthMiddleware(t *testing.T, userStor *stor.InMemoryUserStor, decorate func(*http.Request)) (*awmodel.User, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/transfers", nil)
	decorate(req)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	var resolved *awmodel.User
	handler := Auth(AuthConfig{
		Keyname:         "apikey",
		JWTSecret:       authTestSecret,
		GetUserByAPIKey: userStor.GetUserByAPIToken,
		GetUserByID:     userStor.GetUserByID,
	})(func(c echo.Context) error {
		resolved = GetUserFromContext(c)
		return c.NoContent(http.StatusOK)
	})

	err := handler(ctx)
	return resolved, err
}

func TestAuthWithBearerToken(t *testing.T) {
	userStor := newAuthTestUserStor()

	token, err := awauth.GenerateToken(authTestSecret, 1, "ops@example.com")
	require.NoError(t, err)

	user, err := runAuthMiddleware(t, userStor, func(req *http.Request) {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	})
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, 1, user.ID)
}

func TestAuthWithAPIKeyHeader(t *testing.T) {
	user, err := runAuthMiddleware(t, newAuthTestUserStor(), func(req *http.Request) {
		req.Header.Set("apikey", "valid-api-key")
	})
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "ops@example.com", user.Email)
}

func TestAuthWithAPIKeyQueryParam(t *testing.T) {
	user, err := runAuthMiddleware(t, newAuthTestUserStor(), func(req *http.Request) {
		q := req.URL.Query()
		q.Set("apikey", "valid-api-key")
		req.URL.RawQuery = q.Encode()
	})
	require.NoError(t, err)
	require.NotNil(t, user)
}

func TestAuthRejectsBadCredentials(t *testing.T) {
	userStor := newAuthTestUserStor()

	tests := []struct {
		name     string
		decorate func(*http.Request)
	}{
		{name: "no credentials", decorate: func(*http.Request) {}},
		{name: "unknown api key", decorate: func(req *http.Request) {
			req.Header.Set("apikey", "no-such-key")
		}},
		{name: "garbage bearer token", decorate: func(req *http.Request) {
			req.Header.Set(echo.HeaderAuthorization, "Bearer not.a.token")
		}},
		{name: "token signed with another secret", decorate: func(req *http.Request) {
			token, err := awauth.GenerateToken("some-other-secret", 1, "ops@example.com")
			require.NoError(t, err)
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		}},
		{name: "token for a deleted user", decorate: func(req *http.Request) {
			token, err := awauth.GenerateToken(authTestSecret, 999, "gone@example.com")
			require.NoError(t, err)
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := runAuthMiddleware(t, userStor, tt.decorate)
			assert.Nil(t, user)

			var httpErr *echo.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
		})
	}
}
