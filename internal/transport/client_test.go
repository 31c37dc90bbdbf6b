package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cineai/cineai-go/internal/core/domain"
)

func TestClient_Authenticate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["email"] != "admin@cineai.com" || body["password"] != "admin123" {
			t.Fatalf("unexpected credentials: %v", body)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"message": "Login successful",
			"user":    map[string]any{"id": 1, "name": "Admin", "email": "admin@cineai.com"},
			"token":   "abc",
		})
	}))
	defer ts.Close()

	c, err := NewClient(ts.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	user, token, err := c.Authenticate(context.Background(), "admin@cineai.com", "admin123")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if token != "abc" {
		t.Fatalf("token = %q, want %q", token, "abc")
	}
	if user == nil || user.ID != 1 || user.Email != "admin@cineai.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestClient_ErrorEnvelope(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"})
	}))
	defer ts.Close()

	c, err := NewClient(ts.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, _, err = c.Authenticate(context.Background(), "a@b.com", "nope")
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error is %T, want *domain.APIError", err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Message != "Invalid credentials" {
		t.Fatalf("unexpected APIError: %+v", apiErr)
	}
	if !apiErr.Unauthorized() {
		t.Fatal("expected Unauthorized() to report true")
	}
}

func TestClient_ErrorWithoutEnvelope(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway timeout", http.StatusBadGateway)
	}))
	defer ts.Close()

	c, err := NewClient(ts.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	err = c.Health(context.Background())
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error is %T, want *domain.APIError", err)
	}
	if apiErr.Status != http.StatusBadGateway {
		t.Fatalf("status = %d", apiErr.Status)
	}
	// A non-JSON body yields no message; the caller falls back to its own.
	if apiErr.Message != "" {
		t.Fatalf("message = %q, want empty", apiErr.Message)
	}
}

func TestClient_ChangePassword(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]string{"message": "Password changed successfully"})
	}))
	defer ts.Close()

	c, err := NewClient(ts.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	c.Authorizer().SetToken("abc")

	if err := c.ChangePassword(context.Background(), "old", "new-secret"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if gotPath != "POST /api/auth/change-password" {
		t.Fatalf("request was %q", gotPath)
	}
	if gotAuth != "Bearer abc" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if gotBody["current_password"] != "old" || gotBody["new_password"] != "new-secret" {
		t.Fatalf("unexpected body: %v", gotBody)
	}
}

func TestClient_SendMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat/send" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"conversation_id": "conv-1",
				"message":         map[string]any{"role": "assistant", "content": "hello back"},
				"model":           "openai",
			},
		})
	}))
	defer ts.Close()

	c, err := NewClient(ts.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	reply, err := c.SendMessage(context.Background(), domain.ChatRequest{Message: "hello"})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if reply == nil || reply.Message.Content != "hello back" || reply.ConversationID != "conv-1" {
		t.Fatalf("unexpected reply: %+v", reply)
	}
}

func TestClient_VideoStatusPath(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]any{
			"video": map[string]any{"id": 7, "status": "processing", "progress": 40},
		})
	}))
	defer ts.Close()

	c, err := NewClient(ts.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	video, err := c.VideoStatus(context.Background(), 7)
	if err != nil {
		t.Fatalf("VideoStatus: %v", err)
	}
	if gotPath != "/api/video/7/status" {
		t.Fatalf("path = %q", gotPath)
	}
	if video.Status != domain.VideoProcessing || video.Progress != 40 {
		t.Fatalf("unexpected video: %+v", video)
	}
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	if _, err := NewClient("   "); err == nil {
		t.Fatal("expected error for empty base URL")
	}
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}))
	defer ts.Close()

	c, err := NewClient(ts.URL + "/")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if err := c.Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}
	if gotPath != "/api/health" {
		t.Fatalf("path = %q", gotPath)
	}
}
