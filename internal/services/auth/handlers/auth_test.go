package handlers_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/KhangSoDzach/Dead-Zone-Server/internal/middleware"
	"github.com/KhangSoDzach/Dead-Zone-Server/internal/services/account"
	"github.com/KhangSoDzach/Dead-Zone-Server/internal/services/auth"
	"github.com/KhangSoDzach/Dead-Zone-Server/internal/services/auth/handlers"
	"github.com/KhangSoDzach/Dead-Zone-Server/internal/testutils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap/zaptest"
	_ "modernc.org/sqlite"
)

func setupApp(t *testing.T, conn *sql.DB) *fiber.App {
	logger := zaptest.NewLogger(t)
	cfg := testutils.GetTestConfig()

	authService := auth.NewAuthService(cfg, logger, conn)
	accountService := account.NewAccountService(cfg, logger, conn)
	authGate := middleware.AuthMiddleware(authService, logger)
	h := handlers.NewAuthHandlers(authService, accountService, cfg, logger)

	app := fiber.New()
	group := app.Group("/auth")
	group.Post("/register", h.Register)
	group.Post("/login", h.Login)
	group.Post("/refresh", h.Refresh)
	group.Post("/logout", h.Logout)
	group.Get("/user", authGate, h.GetUser)
	group.Get("/verify", authGate, h.Verify)
	return app
}

func jsonRequest(method, target string, body any) *http.Request {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
}

func TestRegisterEndpoint(t *testing.T) {
	conn := testutils.SetupTestDB(t)
	defer conn.Close()
	app := setupApp(t, conn)

	resp, err := app.Test(jsonRequest("POST", "/auth/register", map[string]string{
		"username": "survivor",
		"email":    "survivor@example.com",
		"password": "password123",
	}), -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}

	var body handlers.TokenResponse
	decodeBody(t, resp, &body)
	if body.Token == "" || body.RefreshToken == "" {
		t.Error("Expected access and refresh tokens in response")
	}
	if body.User.Username != "survivor" {
		t.Errorf("Expected username survivor, got %q", body.User.Username)
	}
	if body.User.PlayerID == 0 {
		t.Error("Expected a non-zero player ID")
	}
}

func TestRegisterEndpoint_Validation(t *testing.T) {
	conn := testutils.SetupTestDB(t)
	defer conn.Close()
	app := setupApp(t, conn)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing username", map[string]string{"email": "a@example.com", "password": "password"}},
		{"missing email", map[string]string{"username": "a", "password": "password"}},
		{"missing password", map[string]string{"username": "a", "email": "a@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(jsonRequest("POST", "/auth/register", tt.body), -1)
			if err != nil {
				t.Fatalf("Request failed: %v", err)
			}
			if resp.StatusCode != fiber.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", resp.StatusCode)
			}
		})
	}
}

func TestRegisterEndpoint_Duplicates(t *testing.T) {
	conn := testutils.SetupTestDB(t)
	defer conn.Close()
	app := setupApp(t, conn)
	testutils.CreateTestPlayer(t, conn, "taken", "taken@example.com", "password")

	t.Run("duplicate username", func(t *testing.T) {
		resp, err := app.Test(jsonRequest("POST", "/auth/register", map[string]string{
			"username": "taken",
			"email":    "other@example.com",
			"password": "password",
		}), -1)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", resp.StatusCode)
		}
		var body map[string]string
		decodeBody(t, resp, &body)
		if body["error"] != "username already taken" {
			t.Errorf("Unexpected error message: %q", body["error"])
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		resp, err := app.Test(jsonRequest("POST", "/auth/register", map[string]string{
			"username": "someoneelse",
			"email":    "taken@example.com",
			"password": "password",
		}), -1)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", resp.StatusCode)
		}
		var body map[string]string
		decodeBody(t, resp, &body)
		if body["error"] != "user with this email already exists" {
			t.Errorf("Unexpected error message: %q", body["error"])
		}
	})
}

func TestLoginEndpoint(t *testing.T) {
	conn := testutils.SetupTestDB(t)
	defer conn.Close()
	app := setupApp(t, conn)
	testutils.CreateTestPlayer(t, conn, "fighter", "fighter@example.com", "password123")

	resp, err := app.Test(jsonRequest("POST", "/auth/login", map[string]string{
		"username": "fighter",
		"password": "password123",
	}), -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var body handlers.TokenResponse
	decodeBody(t, resp, &body)
	if body.Token == "" || body.RefreshToken == "" {
		t.Error("Expected access and refresh tokens in response")
	}
}

func TestLoginEndpoint_FailuresAreIndistinguishable(t *testing.T) {
	conn := testutils.SetupTestDB(t)
	defer conn.Close()
	app := setupApp(t, conn)
	testutils.CreateTestPlayer(t, conn, "fighter", "fighter@example.com", "password123")

	readAll := func(req *http.Request) (int, string) {
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("Failed to read body: %v", err)
		}
		return resp.StatusCode, string(raw)
	}

	wrongPasswordStatus, wrongPasswordBody := readAll(jsonRequest("POST", "/auth/login", map[string]string{
		"username": "fighter",
		"password": "wrong",
	}))
	unknownUserStatus, unknownUserBody := readAll(jsonRequest("POST", "/auth/login", map[string]string{
		"username": "nobody",
		"password": "password123",
	}))

	if wrongPasswordStatus != fiber.StatusBadRequest || unknownUserStatus != fiber.StatusBadRequest {
		t.Errorf("Expected status 400 for both failures, got %d and %d", wrongPasswordStatus, unknownUserStatus)
	}
	if wrongPasswordBody != unknownUserBody {
		t.Errorf("Login failure bodies differ:\nwrong password: %s\nunknown user:   %s", wrongPasswordBody, unknownUserBody)
	}
}

func TestRefreshEndpoint(t *testing.T) {
	conn := testutils.SetupTestDB(t)
	defer conn.Close()
	app := setupApp(t, conn)
	playerID := testutils.CreateTestPlayer(t, conn, "refresher", "refresher@example.com", "password")
	refreshToken := testutils.CreateTestSession(t, conn, playerID)

	resp, err := app.Test(jsonRequest("POST", "/auth/refresh", map[string]string{
		"refresh_token": refreshToken,
	}), -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var body map[string]any
	decodeBody(t, resp, &body)
	newToken, _ := body["refresh_token"].(string)
	if newToken == "" || newToken == refreshToken {
		t.Error("Expected a rotated refresh token")
	}

	// The consumed token is no longer valid.
	resp, err = app.Test(jsonRequest("POST", "/auth/refresh", map[string]string{
		"refresh_token": refreshToken,
	}), -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("Expected status 401 for a consumed refresh token, got %d", resp.StatusCode)
	}
}

func TestLogoutEndpoint(t *testing.T) {
	conn := testutils.SetupTestDB(t)
	defer conn.Close()
	app := setupApp(t, conn)
	playerID := testutils.CreateTestPlayer(t, conn, "leaver", "leaver@example.com", "password")
	refreshToken := testutils.CreateTestSession(t, conn, playerID)

	resp, err := app.Test(jsonRequest("POST", "/auth/logout", map[string]string{
		"refresh_token": refreshToken,
	}), -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	resp, err = app.Test(jsonRequest("POST", "/auth/refresh", map[string]string{
		"refresh_token": refreshToken,
	}), -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("Expected status 401 after logout, got %d", resp.StatusCode)
	}
}

func TestGetUserEndpoint(t *testing.T) {
	conn := testutils.SetupTestDB(t)
	defer conn.Close()
	app := setupApp(t, conn)
	playerID := testutils.CreateTestPlayer(t, conn, "profiled", "profiled@example.com", "password")
	token := testutils.CreateTestAccessToken(t, conn, playerID)

	req := httptest.NewRequest("GET", "/auth/user", nil)
	req.Header.Set(middleware.TokenHeader, token)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var body handlers.ProfileResponse
	decodeBody(t, resp, &body)
	if body.PlayerID != playerID {
		t.Errorf("Expected player ID %d, got %d", playerID, body.PlayerID)
	}
	if body.Username != "profiled" {
		t.Errorf("Expected username profiled, got %q", body.Username)
	}
}

func TestVerifyEndpoint(t *testing.T) {
	conn := testutils.SetupTestDB(t)
	defer conn.Close()
	app := setupApp(t, conn)
	playerID := testutils.CreateTestPlayer(t, conn, "verified", "verified@example.com", "password")
	token := testutils.CreateTestAccessToken(t, conn, playerID)

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/auth/verify", nil)
		req.Header.Set(middleware.TokenHeader, token)
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("Expected status 200, got %d", resp.StatusCode)
		}
		var body map[string]any
		decodeBody(t, resp, &body)
		if valid, _ := body["valid"].(bool); !valid {
			t.Error("Expected valid=true")
		}
	})

	t.Run("no token", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/auth/verify", nil), -1)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Errorf("Expected status 401, got %d", resp.StatusCode)
		}
	})
}
