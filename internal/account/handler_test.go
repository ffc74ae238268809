package account

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupAuthRouter(repo Repository, sender EmailSender) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(NewService(repo, sender, testSecret, false))

	router := gin.New()
	router.POST("/api/auth/register", handler.Register)
	router.POST("/api/auth/login", handler.Login)
	router.POST("/api/auth/forgot-password", handler.ForgotPassword)
	router.POST("/api/auth/reset-password", handler.ResetPassword)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_Register_DuplicateEmail(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ResellerEmailExists", mock.Anything, "existing@example.com").Return(true, nil)

	router := setupAuthRouter(repo, new(MockEmailSender))

	w := postJSON(t, router, "/api/auth/register", RegisterRequest{
		FirstName: "Dup",
		LastName:  "Reseller",
		Email:     "existing@example.com",
		Phone:     "9876543210",
		Password:  "password123",
	})

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "Email already registered", resp["error"])
	repo.AssertNotCalled(t, "CreateReseller", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_Register_ShortPassword(t *testing.T) {
	router := setupAuthRouter(new(MockRepository), new(MockEmailSender))

	w := postJSON(t, router, "/api/auth/register", RegisterRequest{
		FirstName: "Short",
		LastName:  "Pass",
		Email:     "short@example.com",
		Phone:     "9876543210",
		Password:  "12345",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Login_InvalidCredentials(t *testing.T) {
	repo := new(MockRepository)
	repo.On("FindResellerByEmail", mock.Anything, "ghost@example.com").Return(nil, ErrAccountNotFound)

	router := setupAuthRouter(repo, new(MockEmailSender))

	w := postJSON(t, router, "/api/auth/login", LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid email or password", resp["error"])
}

// A broken lookup must not present as bad credentials.
func TestHandler_Login_DatabaseFailure(t *testing.T) {
	repo := new(MockRepository)
	repo.On("FindResellerByEmail", mock.Anything, "ravi@example.com").Return(nil, assert.AnError)

	router := setupAuthRouter(repo, new(MockEmailSender))

	w := postJSON(t, router, "/api/auth/login", LoginRequest{
		Email:    "ravi@example.com",
		Password: "password123",
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to log in", resp["error"])
}

// The forgot-password reply must not distinguish unknown, inactive and
// active accounts.
func TestHandler_ForgotPassword_NonEnumeration(t *testing.T) {
	activeRes := activeReseller(t, "password123")
	inactiveRes := activeReseller(t, "password123")
	inactiveRes.Email = "inactive@example.com"
	inactiveRes.Status = StatusInactive

	cases := []struct {
		name      string
		email     string
		setupMock func(*MockRepository, *MockEmailSender)
	}{
		{
			name:  "unknown email",
			email: "ghost@example.com",
			setupMock: func(repo *MockRepository, sender *MockEmailSender) {
				repo.On("FindAdminByEmail", mock.Anything, "ghost@example.com").Return(nil, ErrAccountNotFound)
				repo.On("FindResellerByEmail", mock.Anything, "ghost@example.com").Return(nil, ErrAccountNotFound)
			},
		},
		{
			name:  "inactive account",
			email: inactiveRes.Email,
			setupMock: func(repo *MockRepository, sender *MockEmailSender) {
				repo.On("FindAdminByEmail", mock.Anything, inactiveRes.Email).Return(nil, ErrAccountNotFound)
				repo.On("FindResellerByEmail", mock.Anything, inactiveRes.Email).Return(inactiveRes, nil)
			},
		},
		{
			name:  "active account",
			email: activeRes.Email,
			setupMock: func(repo *MockRepository, sender *MockEmailSender) {
				repo.On("FindAdminByEmail", mock.Anything, activeRes.Email).Return(nil, ErrAccountNotFound)
				repo.On("FindResellerByEmail", mock.Anything, activeRes.Email).Return(activeRes, nil)
				sender.On("SendPasswordReset", mock.Anything, activeRes.Email, mock.Anything, mock.Anything).Return(nil)
			},
		},
	}

	var bodies []string
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(MockRepository)
			sender := new(MockEmailSender)
			tc.setupMock(repo, sender)

			router := setupAuthRouter(repo, sender)
			w := postJSON(t, router, "/api/auth/forgot-password", ForgotPasswordRequest{Email: tc.email})

			assert.Equal(t, http.StatusOK, w.Code)

			var resp map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, true, resp["success"])
			assert.Equal(t, forgotPasswordMessage, resp["message"])

			bodies = append(bodies, w.Body.String())
		})
	}

	// byte-identical across all three cases
	for i := 1; i < len(bodies); i++ {
		assert.Equal(t, bodies[0], bodies[i])
	}
}

func TestHandler_ResetPassword_BadToken(t *testing.T) {
	router := setupAuthRouter(new(MockRepository), new(MockEmailSender))

	w := postJSON(t, router, "/api/auth/reset-password", ResetPasswordRequest{
		Token:    "not-a-token",
		Password: "newPassword1",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid or expired reset token", resp["error"])
}
