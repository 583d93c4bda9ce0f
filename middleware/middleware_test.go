package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"tournament-booking-system/services"

	"github.com/gofiber/fiber/v2"
)

func echoUser(c *fiber.Ctx) error {
	device, _ := c.Locals(DeviceIDKey).(string)
	return c.SendString(GetUserID(c) + "|" + device)
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, string) {
	t.Helper()
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestGatewayAuth(t *testing.T) {
	app := fiber.New()
	app.Use(GatewayAuthMiddleware("secret"))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", fiber.StatusUnauthorized},
		{"wrong", "Bearer nope", fiber.StatusUnauthorized},
		{"bearer", "Bearer secret", fiber.StatusOK},
		{"raw", "secret", fiber.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if code, _ := do(t, app, req); code != tc.want {
				t.Fatalf("status = %d, want %d", code, tc.want)
			}
		})
	}
}

func TestUserContext(t *testing.T) {
	app := fiber.New()
	app.Use(UserContextMiddleware())
	app.Get("/me", echoUser)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if code, _ := do(t, app, req); code != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", code)
	}

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("X-User-ID", "u1")
	code, body := do(t, app, req)
	if code != fiber.StatusOK || body != "u1|" {
		t.Fatalf("got %d %q", code, body)
	}
}

type stubAdmins struct {
	admins map[string]bool
	err    error
}

func (s stubAdmins) IsAdmin(_ context.Context, uid string) (bool, error) {
	return s.admins[uid], s.err
}

func TestAdminAuth(t *testing.T) {
	newApp := func(checker AdminChecker) *fiber.App {
		app := fiber.New()
		app.Use(UserContextMiddleware(), AdminAuth(checker))
		app.Get("/admin", func(c *fiber.Ctx) error { return c.SendString("ok") })
		return app
	}
	req := func(uid string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/admin", nil)
		r.Header.Set("X-User-ID", uid)
		return r
	}

	app := newApp(stubAdmins{admins: map[string]bool{"boss": true}})
	if code, _ := do(t, app, req("boss")); code != fiber.StatusOK {
		t.Fatalf("admin status = %d", code)
	}
	if code, _ := do(t, app, req("u1")); code != fiber.StatusForbidden {
		t.Fatalf("player status = %d, want 403", code)
	}

	broken := newApp(stubAdmins{err: errors.New("db down")})
	if code, _ := do(t, broken, req("boss")); code != fiber.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", code)
	}
}

type stubValidator struct {
	gotToken, gotDevice string
	err                 error
}

func (s *stubValidator) ValidateToken(_ context.Context, token, device string) (*services.ValidateResponse, error) {
	s.gotToken, s.gotDevice = token, device
	if s.err != nil {
		return nil, s.err
	}
	return &services.ValidateResponse{UserID: "u7", DeviceID: device, Roles: []string{"gamer"}}, nil
}

func TestSSEAuth(t *testing.T) {
	v := &stubValidator{}
	app := fiber.New()
	app.Get("/stream", SSEAuthMiddleware(v), echoUser)

	code, _ := do(t, app, httptest.NewRequest(http.MethodGet, "/stream?token=abc", nil))
	if code != fiber.StatusBadRequest {
		t.Fatalf("missing device: status = %d, want 400", code)
	}

	code, body := do(t, app, httptest.NewRequest(http.MethodGet, "/stream?token=abc&device_id=d1", nil))
	if code != fiber.StatusOK || body != "u7|d1" {
		t.Fatalf("got %d %q", code, body)
	}
	if v.gotToken != "abc" || v.gotDevice != "d1" {
		t.Fatalf("validator saw %q/%q", v.gotToken, v.gotDevice)
	}

	v.err = errors.New("expired")
	if code, _ := do(t, app, httptest.NewRequest(http.MethodGet, "/stream?token=abc&device_id=d1", nil)); code != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", code)
	}
}
