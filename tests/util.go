package testutil

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/shuleplus/ukaguzi/core/session"
	"github.com/shuleplus/ukaguzi/rest"
	"github.com/shuleplus/ukaguzi/services/mockapi"
)

// AdminEmail and AdminPassword are the seeded root admin's credentials.
const (
	AdminEmail    = "root@shuleplus.co"
	AdminPassword = "LordOfTheRoot"
)

// StartServer runs a seeded in-memory backend for the duration of a test
// and returns its base URL.
func StartServer(t *testing.T) (*mockapi.Server, string) {
	t.Helper()
	srv := mockapi.NewServer(&mockapi.Options{DisableReqLogs: true})
	if err := srv.Seed(); err != nil {
		t.Fatalf("StartServer() failed: %v", err)
	}
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return srv, ts.URL
}

// NewSession returns a session backed by in-memory storage.
func NewSession(t *testing.T) *session.Session {
	t.Helper()
	sess, err := session.New(session.NewMemStorage())
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}
	return sess
}

// NewClient wires a client against baseURL with a fresh in-memory session.
func NewClient(t *testing.T, baseURL string) (*rest.Client, *session.Session) {
	t.Helper()
	sess := NewSession(t)
	client := rest.NewClient(rest.Options{BaseURL: baseURL, Session: sess})
	return client, sess
}

// Login authenticates the seeded root admin and stores the issued token
// pair on the session.
func Login(t *testing.T, client *rest.Client, sess *session.Session) {
	t.Helper()
	res := client.Post(context.Background(), "/aauth/login", map[string]string{
		"email":    AdminEmail,
		"password": AdminPassword,
	})
	if res.Error != nil {
		t.Fatalf("Login() failed: %v", res.Error)
	}
	var payload struct {
		Data struct {
			User   session.User   `json:"user"`
			Tokens rest.TokenPair `json:"tokens"`
		} `json:"data"`
	}
	if err := json.Unmarshal(res.Data, &payload); err != nil {
		t.Fatalf("Login() failed: %v", err)
	}
	if err := sess.SetAuth(payload.Data.User, payload.Data.Tokens.AccessToken, payload.Data.Tokens.RefreshToken); err != nil {
		t.Fatalf("Login() failed: %v", err)
	}
}
