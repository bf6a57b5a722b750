package store

import (
	"context"
	"encoding/json"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/shuleplus/ukaguzi/core"
	"github.com/shuleplus/ukaguzi/core/session"
	"github.com/shuleplus/ukaguzi/rest"
)

const authPath = "/aauth"

// Route names used by the guard.
const (
	RouteLogin     = "login"
	RouteDashboard = "dashboard"
)

// Credentials is the login request payload.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Validate cleans and validates the credentials before any network call.
func (c *Credentials) Validate(validate *validator.Validate, translator ut.Translator) error {
	c.Email = core.CleanString(c.Email, true /* lower */)
	return core.TranslateErrors(validate.Struct(c), translator)
}

// Auth owns the session state machine: anonymous or authenticated, keyed
// on the presence of a persisted user.
type Auth struct {
	Err     error
	Loading bool

	session    *session.Session
	client     *rest.Client
	notifier   Notifier
	validate   *validator.Validate
	translator ut.Translator
	navigate   func(route string)
}

func NewAuth(client *rest.Client, sess *session.Session, notifier Notifier, validate *validator.Validate, translator ut.Translator, navigate func(route string)) *Auth {
	if navigate == nil {
		navigate = func(string) {}
	}
	return &Auth{
		session:    sess,
		client:     client,
		notifier:   notifier,
		validate:   validate,
		translator: translator,
		navigate:   navigate,
	}
}

func (a *Auth) LoggedIn() bool            { return a.session.LoggedIn() }
func (a *Auth) User() *session.User       { return a.session.User() }
func (a *Auth) Session() *session.Session { return a.session }

// Login authenticates and persists the session. Invalid credentials
// short-circuit before any network call.
func (a *Auth) Login(ctx context.Context, creds Credentials) error {
	if err := creds.Validate(a.validate, a.translator); err != nil {
		a.Err = err
		a.notifier.Error(err.Error())
		return err
	}

	a.Loading = true
	defer func() { a.Loading = false }()

	res := a.client.Post(ctx, authPath+"/login", creds)
	if res.Error != nil {
		a.Err = res.Error
		a.notifier.Error(res.Error.Message())
		return res.Error
	}

	var payload struct {
		Data struct {
			User   session.User   `json:"user"`
			Tokens rest.TokenPair `json:"tokens"`
		} `json:"data"`
	}
	if err := json.Unmarshal(res.Data, &payload); err != nil {
		err = errors.Wrap(err, "unmarshalling login response")
		a.Err = err
		a.notifier.Error(err.Error())
		return err
	}
	if err := a.session.SetAuth(payload.Data.User, payload.Data.Tokens.AccessToken, payload.Data.Tokens.RefreshToken); err != nil {
		a.Err = err
		a.notifier.Error(err.Error())
		return err
	}
	a.Err = nil
	return nil
}

// Logout clears the persisted session and navigates to the login route.
func (a *Auth) Logout() error {
	if err := a.session.Clear(); err != nil {
		return errors.Wrap(err, "clearing session")
	}
	a.navigate(RouteLogin)
	return nil
}

// RefreshToken exchanges the stored refresh token for a new pair.
func (a *Auth) RefreshToken(ctx context.Context) (rest.TokenPair, error) {
	return a.client.Refresh(ctx)
}

// ChangeUsername renames the logged-in admin and syncs the stored user.
func (a *Auth) ChangeUsername(ctx context.Context, username string) error {
	usr := a.session.User()
	if usr == nil {
		return errors.New("not logged in")
	}

	a.Loading = true
	defer func() { a.Loading = false }()

	res := a.client.Put(ctx, authPath+"/"+usr.ID+"/change-username", map[string]string{"username": username})
	if res.Error != nil {
		a.Err = res.Error
		a.notifier.Error(res.Error.Message())
		return res.Error
	}

	var payload struct {
		Data session.User `json:"data"`
	}
	if err := json.Unmarshal(res.Data, &payload); err != nil {
		err = errors.Wrap(err, "unmarshalling user")
		a.Err = err
		return err
	}
	if err := a.session.SetUser(payload.Data); err != nil {
		a.Err = err
		return err
	}
	a.Err = nil
	a.notifier.Success("Change username successfully!")
	return nil
}

// ChangePassword updates the logged-in admin's password.
func (a *Auth) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	usr := a.session.User()
	if usr == nil {
		return errors.New("not logged in")
	}

	a.Loading = true
	defer func() { a.Loading = false }()

	res := a.client.Put(ctx, authPath+"/"+usr.ID+"/change-password", map[string]string{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	})
	if res.Error != nil {
		a.Err = res.Error
		a.notifier.Error(res.Error.Message())
		return res.Error
	}
	a.Err = nil
	a.notifier.Success("Change password successfully!")
	return nil
}

// GuardRoute decides where a navigation to target should actually land:
// anonymous sessions are sent to login, logged-in ones away from it.
func (a *Auth) GuardRoute(target string) string {
	switch {
	case a.LoggedIn() && target == RouteLogin:
		return RouteDashboard
	case !a.LoggedIn() && target != RouteLogin:
		return RouteLogin
	default:
		return target
	}
}
