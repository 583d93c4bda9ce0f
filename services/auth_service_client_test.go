package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestValidateToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/validate" || r.Header.Get("Authorization") != "Bearer svc" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		switch body["access_token"] {
		case "good":
			_, _ = w.Write([]byte(`{"user_id":"u1","device_id":"` + body["device_id"] + `","roles":["gamer"]}`))
		case "anon":
			_, _ = w.Write([]byte(`{"user_id":""}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	c := NewAuthServiceClient(srv.URL, "svc")
	c.Client = srv.Client()
	ctx := context.Background()

	resp, err := c.ValidateToken(ctx, "good", "d1")
	if err != nil || resp.UserID != "u1" || resp.DeviceID != "d1" || len(resp.Roles) != 1 {
		t.Fatalf("ValidateToken = %+v, %v", resp, err)
	}
	if _, err := c.ValidateToken(ctx, "expired", "d1"); err == nil {
		t.Fatalf("rejected token accepted")
	}
	if _, err := c.ValidateToken(ctx, "anon", "d1"); err == nil {
		t.Fatalf("response without user accepted")
	}
}
