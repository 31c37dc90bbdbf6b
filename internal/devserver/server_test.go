package devserver

import (
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/cineai/cineai-go/internal/core/domain"
	"github.com/cineai/cineai-go/internal/core/service"
	"github.com/cineai/cineai-go/internal/infrastructure/store"
	"github.com/cineai/cineai-go/internal/transport"
)

// testStack is a full client-side stack wired against one devserver.
type testStack struct {
	url     string
	tokens  *store.File
	client  *transport.Client
	manager *service.SessionManager
}

func newTestServer(t *testing.T) string {
	t.Helper()

	srv, err := New(Options{
		JWTSecret: "test-secret",
		SeedAdmin: true,
		Log:       zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("devserver: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	srv.StartWorkers(ctx)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}

func newStack(t *testing.T, url, tokenPath string) *testStack {
	t.Helper()

	tokens := store.NewFile(tokenPath)
	client, err := transport.NewClient(url)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	manager := service.NewSessionManager(client, tokens, client.Authorizer(), zerolog.Nop())
	t.Cleanup(manager.Close)
	manager.Bootstrap(context.Background())

	return &testStack{url: url, tokens: tokens, client: client, manager: manager}
}

func TestDevserver_LoginAndRestore(t *testing.T) {
	url := newTestServer(t)
	tokenPath := filepath.Join(t.TempDir(), "token.json")
	ctx := context.Background()

	stack := newStack(t, url, tokenPath)
	if res := stack.manager.Login(ctx, SeedAdminEmail, SeedAdminPassword); !res.Success {
		t.Fatalf("login: %s", res.Error)
	}

	session := stack.manager.Session()
	if !session.Authenticated() {
		t.Fatalf("status %s", session.Status)
	}
	if session.User.Email != SeedAdminEmail || !session.User.IsAdmin {
		t.Fatalf("unexpected user: %+v", session.User)
	}

	if token, _ := stack.tokens.Load(ctx); token == "" {
		t.Fatal("token not persisted")
	}

	// A fresh stack over the same token file restores the session silently.
	restored := newStack(t, url, tokenPath)
	session = restored.manager.Session()
	if !session.Authenticated() {
		t.Fatalf("restore failed, status %s lastError %q", session.Status, session.LastError)
	}
	if session.User.Email != SeedAdminEmail {
		t.Fatalf("restored wrong user: %+v", session.User)
	}
}

func TestDevserver_WrongPassword(t *testing.T) {
	url := newTestServer(t)
	stack := newStack(t, url, filepath.Join(t.TempDir(), "token.json"))
	ctx := context.Background()

	res := stack.manager.Login(ctx, SeedAdminEmail, "wrong-password")
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.Error != "Invalid credentials" {
		t.Fatalf("error = %q", res.Error)
	}
	if token, _ := stack.tokens.Load(ctx); token != "" {
		t.Fatalf("token stored on failed login: %q", token)
	}
	if stack.manager.Session().Status != domain.StatusUnauthenticated {
		t.Fatalf("status %s", stack.manager.Session().Status)
	}
}

func TestDevserver_RegisterProfilePassword(t *testing.T) {
	url := newTestServer(t)
	stack := newStack(t, url, filepath.Join(t.TempDir(), "token.json"))
	ctx := context.Background()

	res := stack.manager.Register(ctx, "Alice", "alice@example.com", "password-1")
	if !res.Success {
		t.Fatalf("register: %s", res.Error)
	}

	// Duplicate email is rejected with the server's message.
	dup := newStack(t, url, filepath.Join(t.TempDir(), "token.json"))
	if res := dup.manager.Register(ctx, "Alice2", "alice@example.com", "password-2"); res.Success {
		t.Fatal("duplicate register succeeded")
	} else if res.Error != "user already exists" {
		t.Fatalf("duplicate error = %q", res.Error)
	}

	bio := "filmmaker"
	if res := stack.manager.UpdateProfile(ctx, domain.ProfileUpdate{Bio: &bio}); !res.Success {
		t.Fatalf("update profile: %s", res.Error)
	}
	if got := stack.manager.Session().User.Bio; got != "filmmaker" {
		t.Fatalf("bio = %q", got)
	}

	// Wrong current password fails without ending the session.
	if res := stack.manager.ChangePassword(ctx, "nope", "password-2"); res.Success {
		t.Fatal("expected failure")
	} else if res.Error != "current password is incorrect" {
		t.Fatalf("error = %q", res.Error)
	}
	if !stack.manager.Session().Authenticated() {
		t.Fatal("session lost after rejected password change")
	}

	if res := stack.manager.ChangePassword(ctx, "password-1", "password-2"); !res.Success {
		t.Fatalf("change password: %s", res.Error)
	}

	stack.manager.Logout(ctx)
	if res := stack.manager.Login(ctx, "alice@example.com", "password-1"); res.Success {
		t.Fatal("old password still accepted")
	}
	if res := stack.manager.Login(ctx, "alice@example.com", "password-2"); !res.Success {
		t.Fatalf("login with new password: %s", res.Error)
	}
}

func TestDevserver_TamperedTokenForcesLogout(t *testing.T) {
	url := newTestServer(t)
	stack := newStack(t, url, filepath.Join(t.TempDir(), "token.json"))
	ctx := context.Background()

	if res := stack.manager.Login(ctx, SeedAdminEmail, SeedAdminPassword); !res.Success {
		t.Fatalf("login: %s", res.Error)
	}

	// Simulated server-side invalidation: the credential in flight no longer
	// verifies. The very next authenticated call must end the session.
	stack.client.Authorizer().SetToken("tampered")

	if _, err := stack.client.CurrentUser(ctx); err == nil {
		t.Fatal("expected rejection")
	}

	session := stack.manager.Session()
	if session.Status != domain.StatusUnauthenticated {
		t.Fatalf("status %s, want unauthenticated", session.Status)
	}
	if token, _ := stack.tokens.Load(ctx); token != "" {
		t.Fatalf("token survived forced logout: %q", token)
	}
	if stack.client.Authorizer().Token() != "" {
		t.Fatal("authorizer credential survived forced logout")
	}
}

func TestDevserver_ChatFlow(t *testing.T) {
	url := newTestServer(t)
	stack := newStack(t, url, filepath.Join(t.TempDir(), "token.json"))
	ctx := context.Background()

	if res := stack.manager.Login(ctx, SeedAdminEmail, SeedAdminPassword); !res.Success {
		t.Fatalf("login: %s", res.Error)
	}

	reply, err := stack.client.SendMessage(ctx, domain.ChatRequest{Message: "hello"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if reply.ConversationID == "" || reply.Message.Content == "" {
		t.Fatalf("unexpected reply: %+v", reply)
	}

	// Second message continues the same thread.
	again, err := stack.client.SendMessage(ctx, domain.ChatRequest{Message: "more", ConversationID: reply.ConversationID})
	if err != nil {
		t.Fatalf("send again: %v", err)
	}
	if again.ConversationID != reply.ConversationID {
		t.Fatalf("thread changed: %q vs %q", again.ConversationID, reply.ConversationID)
	}

	convs, err := stack.client.Conversations(ctx)
	if err != nil {
		t.Fatalf("conversations: %v", err)
	}
	if len(convs) != 1 {
		t.Fatalf("conversations = %d, want 1", len(convs))
	}

	conv, err := stack.client.Conversation(ctx, reply.ConversationID)
	if err != nil {
		t.Fatalf("conversation: %v", err)
	}
	// Two user messages plus two assistant replies.
	if len(conv.Messages) != 4 {
		t.Fatalf("messages = %d, want 4", len(conv.Messages))
	}

	models, err := stack.client.Models(ctx)
	if err != nil {
		t.Fatalf("models: %v", err)
	}
	if len(models) == 0 {
		t.Fatal("no models listed")
	}

	if err := stack.client.DeleteConversation(ctx, reply.ConversationID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := stack.client.Conversation(ctx, reply.ConversationID); err == nil {
		t.Fatal("deleted conversation still readable")
	}
}

func TestDevserver_VideoLifecycle(t *testing.T) {
	url := newTestServer(t)
	stack := newStack(t, url, filepath.Join(t.TempDir(), "token.json"))
	ctx := context.Background()

	if res := stack.manager.Login(ctx, SeedAdminEmail, SeedAdminPassword); !res.Success {
		t.Fatalf("login: %s", res.Error)
	}

	video, err := stack.client.CreateVideo(ctx, domain.VideoInput{Title: "demo", Prompt: "a cat in space"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if video.Status != domain.VideoPending {
		t.Fatalf("status = %s, want pending", video.Status)
	}

	if err := stack.client.GenerateVideo(ctx, video.ID); err != nil {
		t.Fatalf("generate: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	var final *domain.Video
	for time.Now().Before(deadline) {
		final, err = stack.client.VideoStatus(ctx, video.ID)
		if err != nil {
			t.Fatalf("status: %v", err)
		}
		if final.Status == domain.VideoCompleted {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if final == nil || final.Status != domain.VideoCompleted {
		t.Fatalf("render never completed: %+v", final)
	}
	if final.Progress != 100 || final.OutputURL == "" {
		t.Fatalf("unexpected completed video: %+v", final)
	}

	// A second generate on a finished render is rejected.
	if err := stack.client.GenerateVideo(ctx, video.ID); err == nil {
		t.Fatal("regenerate accepted")
	}

	if err := stack.client.DeleteVideo(ctx, video.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := stack.client.Video(ctx, video.ID); err == nil {
		t.Fatal("deleted video still readable")
	}
}

func TestDevserver_SettingsAdminGate(t *testing.T) {
	url := newTestServer(t)
	ctx := context.Background()

	admin := newStack(t, url, filepath.Join(t.TempDir(), "token.json"))
	if res := admin.manager.Login(ctx, SeedAdminEmail, SeedAdminPassword); !res.Success {
		t.Fatalf("admin login: %s", res.Error)
	}

	cfg, validation, err := admin.client.Settings(ctx)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if cfg["chat.default_model"] != defaultChatModel {
		t.Fatalf("unexpected config: %v", cfg)
	}
	if len(validation) == 0 {
		t.Fatal("no validation reported")
	}

	if _, err := admin.client.UpdateSettings(ctx, domain.Settings{"chat.temperature": 0.2}); err != nil {
		t.Fatalf("admin update: %v", err)
	}
	cfg, _, _ = admin.client.Settings(ctx)
	if cfg["chat.temperature"] != 0.2 {
		t.Fatalf("update not applied: %v", cfg)
	}

	user := newStack(t, url, filepath.Join(t.TempDir(), "token.json"))
	if res := user.manager.Register(ctx, "Bob", "bob@example.com", "password-3"); !res.Success {
		t.Fatalf("register: %s", res.Error)
	}

	_, err = user.client.UpdateSettings(ctx, domain.Settings{"chat.temperature": 0.9})
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 403 {
		t.Fatalf("expected 403, got %v", err)
	}
	// A 403 is not an authentication failure and must not end the session.
	if !user.manager.Session().Authenticated() {
		t.Fatal("session lost after 403")
	}
}

func TestDevserver_Health(t *testing.T) {
	url := newTestServer(t)
	stack := newStack(t, url, filepath.Join(t.TempDir(), "token.json"))

	if err := stack.client.Health(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
}
