package echo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rights-service/internal/config"
	"rights-service/internal/domain/user"
	"rights-service/internal/keys"
	"rights-service/internal/repository/memory"
	"rights-service/internal/rights"
	"rights-service/internal/token"
	"rights-service/pkg/password"
)

type testEnv struct {
	server *Server
	users  *memory.UserRepository
	groups *memory.GroupRepository
	rights *memory.RightRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Port: "0"},
		Token: config.TokenConfig{
			SigningKeyName: "jwt-signing-key",
			ValidityPeriod: 20 * time.Minute,
		},
	}

	users := memory.NewUserRepository()
	groups := memory.NewGroupRepository()
	rightRepo := memory.NewRightRepository()

	tokens := token.NewService(keys.NewMemoryStore(), cfg.Token.SigningKeyName, cfg.Token.ValidityPeriod, nil)
	engine := rights.NewEngine(rightRepo, nil, 0)

	server := NewServer(cfg, users, groups, rightRepo, engine, tokens, zerolog.Nop())

	return &testEnv{server: server, users: users, groups: groups, rights: rightRepo}
}

func (env *testEnv) createUser(t *testing.T, pseudo, plain string) *user.User {
	t.Helper()

	hash, err := password.Hash(plain)
	require.NoError(t, err)

	u, err := env.users.Create(context.Background(), user.CreateUserInput{
		Pseudo:       pseudo,
		PasswordHash: hash,
	})
	require.NoError(t, err)
	return u
}

func (env *testEnv) grant(t *testing.T, subject rights.Subject, resourceType string, method rights.Method) {
	t.Helper()

	_, err := env.rights.Create(context.Background(), rights.CreateRightInput{
		Subject:  subject,
		Resource: rights.GenericResource(resourceType),
		Method:   method,
	})
	require.NoError(t, err)
}

func (env *testEnv) do(method, target, body, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	env.server.echo.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) login(t *testing.T, pseudo, plain string) string {
	t.Helper()

	rec := env.do(http.MethodPost, "/auth/login", `{"pseudo":"`+pseudo+`","password":"`+plain+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", "s3cret-passphrase")

	t.Run("valid credentials", func(t *testing.T) {
		tok := env.login(t, "alice", "s3cret-passphrase")
		assert.NotEmpty(t, tok)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/auth/login", `{"pseudo":"alice","password":"wrong"}`, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/auth/login", `{"pseudo":"bob","password":"whatever"}`, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestVerify(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", "s3cret-passphrase")
	tok := env.login(t, "alice", "s3cret-passphrase")

	t.Run("valid token", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/auth/verify", "", tok)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/auth/verify", "", "not.a.token")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/auth/verify", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestGroupRoutesRequireRight(t *testing.T) {
	env := newTestEnv(t)
	u := env.createUser(t, "alice", "s3cret-passphrase")
	tok := env.login(t, "alice", "s3cret-passphrase")

	rec := env.do(http.MethodGet, "/groups", "", tok)
	assert.Equal(t, http.StatusForbidden, rec.Code, "no grant means default deny")

	env.grant(t, rights.UserSubject(u.ID), resourceTypeGroup, rights.MethodGet)

	rec = env.do(http.MethodGet, "/groups", "", tok)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(http.MethodPost, "/groups", `{"name":"admins"}`, tok)
	assert.Equal(t, http.StatusForbidden, rec.Code, "GET grant must not allow POST")
}

func TestGroupCreateAndList(t *testing.T) {
	env := newTestEnv(t)
	u := env.createUser(t, "alice", "s3cret-passphrase")
	tok := env.login(t, "alice", "s3cret-passphrase")

	subject := rights.UserSubject(u.ID)
	env.grant(t, subject, resourceTypeGroup, rights.MethodGet)
	env.grant(t, subject, resourceTypeGroup, rights.MethodPost)

	rec := env.do(http.MethodPost, "/groups", `{"name":"writers"}`, tok)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(http.MethodPost, "/groups", `{"name":"admins"}`, tok)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(http.MethodPost, "/groups", `{"name":"admins"}`, tok)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(http.MethodGet, "/groups", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "admins", resp.Data[0].Name)
	assert.Equal(t, "writers", resp.Data[1].Name)
}

func TestCheckEndpoint(t *testing.T) {
	env := newTestEnv(t)
	u := env.createUser(t, "alice", "s3cret-passphrase")
	tok := env.login(t, "alice", "s3cret-passphrase")

	env.grant(t, rights.UserSubject(u.ID), "book", rights.MethodGet)

	rec := env.do(http.MethodGet, "/check?resource_type=book&method=GET", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"allowed":true`)

	rec = env.do(http.MethodGet, "/check?resource_type=book&method=DELETE", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"allowed":false`)

	rec = env.do(http.MethodGet, "/check?resource_type=book&method=PATCH", "", tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRightValidation(t *testing.T) {
	env := newTestEnv(t)
	u := env.createUser(t, "alice", "s3cret-passphrase")
	tok := env.login(t, "alice", "s3cret-passphrase")

	subject := rights.UserSubject(u.ID)
	env.grant(t, subject, resourceTypeRight, rights.MethodPost)

	body := `{"subject_kind":"user","subject_id":"` + u.ID.String() + `","resource_type":"book","method":"GET"}`
	rec := env.do(http.MethodPost, "/rights", body, tok)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	badKind := `{"subject_kind":"robot","subject_id":"` + u.ID.String() + `","resource_type":"book","method":"GET"}`
	rec = env.do(http.MethodPost, "/rights", badKind, tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	badMethod := `{"subject_kind":"user","subject_id":"` + u.ID.String() + `","resource_type":"book","method":"PATCH"}`
	rec = env.do(http.MethodPost, "/rights", badMethod, tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
