package main

import (
	"fmt"
	"io"
	"log"
	"testing"

	"github.com/shuleplus/ukaguzi/core"
	"github.com/shuleplus/ukaguzi/services/mockapi"
	"github.com/shuleplus/ukaguzi/store"
	testutil "github.com/shuleplus/ukaguzi/tests"
)

func setup(t *testing.T) (*commandLine, *mockapi.Server) {
	srv, baseURL := testutil.StartServer(t)
	client, sess := testutil.NewClient(t, baseURL)

	appLogger := core.NewConsoleLogger(log.New(io.Discard, "", 0))
	notifier := store.NewLoggerNotifier(appLogger)
	activity := store.NewActivityLog(client, sess)
	validate, translator := core.NewValidator()

	cli := &commandLine{
		auth:           store.NewAuth(client, sess, notifier, validate, translator, nil),
		users:          store.NewUserStore(client, activity, notifier),
		accounts:       store.NewAuditAccountStore(client, activity, notifier),
		posts:          store.NewAuditPostStore(client, activity, notifier),
		accountReports: store.NewAccountViolationStore(client, activity, notifier),
		postReports:    store.NewPostViolationStore(client, activity, notifier),
		activities:     store.NewActivityStore(client, notifier),
	}
	return cli, srv
}

func loginCLI(t *testing.T, cli *commandLine) {
	t.Helper()
	readPasswordFunc = func(fd int) ([]byte, error) { return []byte(testutil.AdminPassword), nil }
	if err := cli.run([]string{"admin", "login", "-email", testutil.AdminEmail}); err != nil {
		t.Fatalf("login failed: %v", err)
	}
}

type cliTest struct {
	name    string
	args    []string // without program name
	wantErr error
	extra   interface{}
}

func Test_commandLine_login(t *testing.T) {
	cli, _ := setup(t)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"login"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"login", "-email", testutil.AdminEmail}, wantErr: errHelp},
		{name: "bad credentials", args: []string{"login", "-email", testutil.AdminEmail}, extra: extra{pwd: "lol"}},
		{name: "ok", args: []string{"login", "-email", testutil.AdminEmail}, extra: extra{pwd: testutil.AdminPassword}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			switch tt.name {
			case "bad credentials":
				if err == nil {
					t.Error("cli.run() expected an error")
				}
				if cli.auth.LoggedIn() {
					t.Error("session must stay anonymous")
				}
			case "ok":
				if err != nil {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
				if !cli.auth.LoggedIn() {
					t.Error("session must be logged in")
				}
			default:
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
			}
		})
	}

	t.Run("logout", func(t *testing.T) {
		if err := cli.run([]string{"admin", "logout"}); err != nil {
			t.Fatalf("cli.run() unexpected error = %v", err)
		}
		if cli.auth.LoggedIn() {
			t.Error("session must be cleared")
		}
	})
}

func Test_commandLine_users(t *testing.T) {
	cli, srv := setup(t)
	loginCLI(t, cli)

	seeded := len(srv.Collection("/users").All())

	tests := []cliTest{
		{name: "no subcommand", args: []string{"users"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"users", "lol"}, wantErr: errHelp},
		{name: "add: no args", args: []string{"users", "add"}, wantErr: errHelp},
		{name: "add: name but no email", args: []string{"users", "add", "-name", "Eve"}, wantErr: errHelp},
		{name: "delete: no ids", args: []string{"users", "delete"}, wantErr: errHelp},
		{name: "list", args: []string{"users", "list"}},
		{name: "list with filters", args: []string{"users", "list", "-status", "pending", "-limit", "2"}},
		{name: "add", args: []string{"users", "add", "-name", "Eve Wanjiku", "-email", "eve@shuleplus.co"}},
		{name: "delete", args: []string{"users", "delete", "-id", "1,2"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if tt.wantErr != nil {
				t.Errorf("cli.run() expected error %v", tt.wantErr)
			}
		})
	}

	if got := len(srv.Collection("/users").All()); got != seeded-1 { // +1 added, -2 deleted
		t.Errorf("backend holds %d users, want %d", got, seeded-1)
	}
}

func Test_commandLine_moderation(t *testing.T) {
	cli, srv := setup(t)
	loginCLI(t, cli)

	tests := []cliTest{
		{name: "accounts: no subcommand", args: []string{"accounts"}, wantErr: errHelp},
		{name: "accounts: approve without id", args: []string{"accounts", "approve"}, wantErr: errHelp},
		{name: "accounts: list", args: []string{"accounts", "list"}},
		{name: "accounts: approve", args: []string{"accounts", "approve", "-id", "3"}},
		{name: "accounts: decline", args: []string{"accounts", "decline", "-id", "4"}},
		{name: "posts: list", args: []string{"posts", "list"}},
		{name: "posts: decline", args: []string{"posts", "decline", "-id", "3"}},
		{name: "reports: bad kind", args: []string{"reports", "-kind", "lol", "list"}, wantErr: errHelp},
		{name: "reports: account approve", args: []string{"reports", "-kind", "account", "approve", "-id", "1"}},
		{name: "reports: post list", args: []string{"reports", "-kind", "post", "list"}},
		{name: "activities", args: []string{"activities", "-limit", "5"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if tt.wantErr != nil {
				t.Errorf("cli.run() expected error %v", tt.wantErr)
			}
		})
	}

	wantStatus := func(path, id, want string) {
		for _, r := range srv.Collection(path).All() {
			if fmt.Sprint(r["id"]) == id {
				if got, _ := r["status"].(string); got != want {
					t.Errorf("%s/%s status = %s, want %s", path, id, got, want)
				}
				return
			}
		}
		t.Errorf("record %s not found in %s", id, path)
	}
	wantStatus("/users", "3", "active")
	wantStatus("/users", "4", "rejected")
	wantStatus("/posts", "3", "rejected")
	wantStatus("/violating-accounts", "1", "resolved")
}
