// Package mockapi is an in-process stand-in for the dashboard backend,
// used for local development and by the client tests. It speaks both API
// dialects: the legacy json-server one (underscore params, array bodies,
// X-Total-Count) and the newer enveloped one.
package mockapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/shuleplus/ukaguzi/core"
)

type (
	Options struct {
		Addr           string
		DisableReqLogs bool
	}

	Server struct {
		opts   *Options
		app    *echo.Echo
		admins *Collection
		mounts []*mount
	}

	// mount binds one Collection to its route and dialect.
	mount struct {
		path    string
		col     *Collection
		listKey string // envelope list field; "" = json-server dialect
	}
)

var reservedParams = map[string]bool{
	"_sort": true, "_order": true, "_page": true, "_limit": true, "q": true,
	"page": true, "limit": true, "search": true,
}

func NewServer(opts *Options) *Server {
	s := &Server{
		opts:   opts,
		app:    echo.New(),
		admins: newCollection("_id"),
	}
	s.mounts = []*mount{
		{path: "/users", col: newCollection("id")},
		{path: "/posts", col: newCollection("id")},
		{path: "/violating-accounts", col: newCollection("id")},
		{path: "/violating-posts", col: newCollection("id")},
		{path: "/admin-activities", col: newCollection("id")},
		{path: "/faculty", col: newCollection("_id"), listKey: "faculties"},
		{path: "/major", col: newCollection("_id"), listKey: "majors"},
		{path: "/enrollment-year", col: newCollection("_id"), listKey: "enrollmentYears"},
		{path: "/aauth/admin", col: s.admins, listKey: "admins"},
		{path: "/aauth/admin-groups", col: newCollection("_id"), listKey: "_groups"},
		{path: "/permission/resource", col: newCollection("_id"), listKey: "resources"},
		{path: "/permission/resource-permission", col: newCollection("_id"), listKey: "resourcePermissions"},
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	if !(core.Conf.Debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.HTTPErrorHandler = httpErrorHandler
	s.app.Debug = false

	s.app.POST("/aauth/login", s.login)
	s.app.POST("/aauth/refresh-token", s.refreshToken)

	jwt := jwtMiddleware()
	s.app.PUT("/aauth/:id/change-username", s.changeUsername, jwt)
	s.app.PUT("/aauth/:id/change-password", s.changePassword, jwt)

	for _, m := range s.mounts {
		m := m
		s.app.GET(m.path, func(ctx echo.Context) error { return s.list(ctx, m) }, jwt)
		s.app.POST(m.path, func(ctx echo.Context) error { return s.create(ctx, m) }, jwt)
		s.app.PUT(m.path+"/:id", func(ctx echo.Context) error { return s.update(ctx, m) }, jwt)
		s.app.PATCH(m.path+"/:id", func(ctx echo.Context) error { return s.update(ctx, m) }, jwt)
		s.app.DELETE(m.path+"/:id", func(ctx echo.Context) error { return s.remove(ctx, m) }, jwt)
	}
}

func (s *Server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Addr))
}

func (s *Server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

// Collection exposes a mounted Collection for seeding and test fixtures.
func (s *Server) Collection(path string) *Collection {
	for _, m := range s.mounts {
		if m.path == path {
			return m.col
		}
	}
	return nil
}

// AddAdmin registers a login-able admin with a bcrypt-hashed password.
func (s *Server) AddAdmin(username, email, password string) (Record, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, errors.Wrap(err, "hashing password")
	}
	return s.admins.Insert(Record{
		"username": username,
		"email":    email,
		"password": string(hash),
	}), nil
}

// Handlers

func (s *Server) login(ctx echo.Context) error {
	var data struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding login payload")
	}

	matched, _ := s.admins.query(query{filters: map[string][]string{"email": {core.CleanString(data.Email, true)}}})
	if len(matched) == 0 {
		return errAuthenticationFailed
	}
	adm := matched[0]
	hash, _ := adm["password"].(string)
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(data.Password)) != nil {
		return errAuthenticationFailed
	}

	id := idString(adm["_id"])
	username, _ := adm["username"].(string)
	email, _ := adm["email"].(string)
	access, refresh, err := generateTokens(id, username, email)
	if err != nil {
		return errors.Wrap(err, "generating tokens")
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"data": echo.Map{
			"user": echo.Map{"id": id, "username": username, "email": email},
			"tokens": echo.Map{
				"accessToken":  access,
				"refreshToken": refresh,
			},
		},
	})
}

func (s *Server) refreshToken(ctx echo.Context) error {
	var data struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding refresh payload")
	}
	claims, err := parseToken(data.RefreshToken, tokenTypeRefresh)
	if err != nil {
		return errRefreshExpired
	}
	// refreshing must not extend the session past the ceiling set at login
	ceiling := time.Unix(claims.OrigIssuedAt, 0).Add(core.Conf.Server.JWTRefreshExpirationDelta)
	if nowFunc().After(ceiling) {
		return errRefreshExpired
	}
	access, refresh, err := generateTokens(claims.Subject, claims.Username, claims.Email, claims.OrigIssuedAt)
	if err != nil {
		return errors.Wrap(err, "generating tokens")
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"data": echo.Map{"accessToken": access, "refreshToken": refresh},
	})
}

func (s *Server) changeUsername(ctx echo.Context) error {
	var data struct {
		Username string `json:"username"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding payload")
	}
	adm, err := s.admins.update(ctx.Param("id"), Record{"username": data.Username})
	if err != nil {
		return errHTTPNotFound
	}
	out := sanitize(adm)
	out["id"] = idString(adm["_id"])
	return ctx.JSON(http.StatusOK, echo.Map{"data": out})
}

func (s *Server) changePassword(ctx echo.Context) error {
	var data struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding payload")
	}
	adm, err := s.admins.get(ctx.Param("id"))
	if err != nil {
		return errHTTPNotFound
	}
	hash, _ := adm["password"].(string)
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(data.CurrentPassword)) != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "wrong password")
	}
	newHash, err := bcrypt.GenerateFromPassword([]byte(data.NewPassword), bcrypt.MinCost)
	if err != nil {
		return errors.Wrap(err, "hashing password")
	}
	if _, err := s.admins.update(ctx.Param("id"), Record{"password": string(newHash)}); err != nil {
		return errHTTPNotFound
	}
	return ctx.JSON(http.StatusOK, echo.Map{"data": echo.Map{}})
}

func (s *Server) list(ctx echo.Context, m *mount) error {
	params := ctx.QueryParams()
	qr := query{filters: map[string][]string{}}

	for key, vals := range params {
		if !reservedParams[key] {
			qr.filters[key] = vals
		}
	}
	if m.listKey == "" {
		qr.search = params.Get("q")
		qr.sortKey = params.Get("_sort")
		qr.sortAsc = params.Get("_order") != "desc"
		qr.page, _ = strconv.Atoi(params.Get("_page"))
		qr.limit, _ = strconv.Atoi(params.Get("_limit"))
	} else {
		qr.search = params.Get("search")
		qr.page, _ = strconv.Atoi(params.Get("page"))
		qr.limit, _ = strconv.Atoi(params.Get("limit"))
	}
	if qr.page == 0 {
		qr.page = 1
	}

	items, total := m.col.query(qr)
	out := make([]Record, 0, len(items))
	for _, it := range items {
		out = append(out, sanitize(it))
	}

	if m.listKey == "" {
		ctx.Response().Header().Set("X-Total-Count", strconv.Itoa(total))
		return ctx.JSON(http.StatusOK, out)
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"data": echo.Map{m.listKey: out, "totalCount": total},
	})
}

func (s *Server) create(ctx echo.Context, m *mount) error {
	var data Record
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding record")
	}
	created := sanitize(m.col.Insert(data))
	if m.listKey == "" {
		return ctx.JSON(http.StatusCreated, created)
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"data": created})
}

func (s *Server) update(ctx echo.Context, m *mount) error {
	var data Record
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding record")
	}
	updated, err := m.col.update(ctx.Param("id"), data)
	if err != nil {
		return errHTTPNotFound
	}
	out := sanitize(updated)
	if m.listKey == "" {
		return ctx.JSON(http.StatusOK, out)
	}
	return ctx.JSON(http.StatusOK, echo.Map{"data": out})
}

func (s *Server) remove(ctx echo.Context, m *mount) error {
	if err := m.col.delete(ctx.Param("id")); err != nil {
		return errHTTPNotFound
	}
	return ctx.JSON(http.StatusOK, echo.Map{})
}

// sanitize strips server-only fields from a response Record.
func sanitize(r Record) Record {
	out := make(Record, len(r))
	for k, v := range r {
		if k == "password" {
			continue
		}
		out[k] = v
	}
	return out
}

// httpErrorHandler renders every failure as the {"error": message} payload
// the client expects.
func httpErrorHandler(err error, ctx echo.Context) {
	code := http.StatusInternalServerError
	message := http.StatusText(code)

	if herr, ok := errors.Cause(err).(*echo.HTTPError); ok {
		code = herr.Code
		if m, ok := herr.Message.(string); ok {
			message = m
		}
	} else if strings.Contains(err.Error(), "binding") {
		code = http.StatusBadRequest
		message = "malformed payload"
	}

	if !ctx.Response().Committed {
		_ = ctx.JSON(code, echo.Map{"error": message})
	}
}
