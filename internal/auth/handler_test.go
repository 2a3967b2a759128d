package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"recipebook/internal/identity"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, api identity.API) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	orch := startOrchestrator(t, api, &memStore{})
	router := gin.New()
	NewHandler(orch).RegisterRoutes(router.Group("/auth"))

	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestHandlerLogin_Success(t *testing.T) {
	api := &fakeIdentity{
		signIn: func(ctx context.Context, email, password string) (*identity.Credentials, error) {
			return credentials(time.Hour), nil
		},
	}
	router := newTestRouter(t, api)

	w := postJSON(router, "/auth/login", `{"email":"a@x.com","password":"secret1"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "a@x.com", resp.Email)
	assert.Equal(t, "U1", resp.UserID)
	assert.Equal(t, "T", resp.Token)
	assert.Equal(t, RedirectRoot, resp.Redirect)
	assert.False(t, resp.ExpirationDate.IsZero())
}

func TestHandlerLogin_Failure(t *testing.T) {
	api := &fakeIdentity{
		signIn: func(ctx context.Context, email, password string) (*identity.Credentials, error) {
			return nil, &identity.APIError{Code: identity.CodeInvalidPassword}
		},
	}
	router := newTestRouter(t, api)

	w := postJSON(router, "/auth/login", `{"email":"a@x.com","password":"secret1"}`)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "This password is not correct.")
}

func TestHandlerLogin_InvalidBody(t *testing.T) {
	router := newTestRouter(t, &fakeIdentity{})

	cases := []struct {
		name string
		body string
	}{
		{"empty body", ``},
		{"missing password", `{"email":"a@x.com"}`},
		{"malformed email", `{"email":"not-an-email","password":"secret1"}`},
		{"short password", `{"email":"a@x.com","password":"abc"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(router, "/auth/login", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHandlerSignUp_Success(t *testing.T) {
	api := &fakeIdentity{
		signUp: func(ctx context.Context, email, password string) (*identity.Credentials, error) {
			return credentials(time.Hour), nil
		},
	}
	router := newTestRouter(t, api)

	w := postJSON(router, "/auth/signup", `{"email":"a@x.com","password":"secret1"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token":"T"`)
}

func TestHandlerSignUp_EmailExists(t *testing.T) {
	api := &fakeIdentity{
		signUp: func(ctx context.Context, email, password string) (*identity.Credentials, error) {
			return nil, &identity.APIError{Code: identity.CodeEmailExists}
		},
	}
	router := newTestRouter(t, api)

	w := postJSON(router, "/auth/signup", `{"email":"a@x.com","password":"secret1"}`)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "This email exists already")
}

func TestHandlerAutoLogin_EmptySlot(t *testing.T) {
	router := newTestRouter(t, &fakeIdentity{})

	w := postJSON(router, "/auth/auto-login", ``)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestHandlerLogout(t *testing.T) {
	router := newTestRouter(t, &fakeIdentity{})

	w := postJSON(router, "/auth/logout", ``)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redirect":"/auth"`)
}

func TestHandlerSession(t *testing.T) {
	api := &fakeIdentity{
		signIn: func(ctx context.Context, email, password string) (*identity.Credentials, error) {
			return credentials(time.Hour), nil
		},
	}
	router := newTestRouter(t, api)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/session", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var before StateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &before))
	assert.Equal(t, "unauthenticated", before.State)
	assert.Nil(t, before.Session)

	postJSON(router, "/auth/login", `{"email":"a@x.com","password":"secret1"}`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/session", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var after StateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &after))
	assert.Equal(t, "authenticated", after.State)
	require.NotNil(t, after.Session)
	assert.Equal(t, "a@x.com", after.Session.Email)
}
