package test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
	"github.com/mvindas/salon-store/api"
	"github.com/mvindas/salon-store/core/claims"
	"github.com/mvindas/salon-store/core/product"
	"github.com/mvindas/salon-store/core/user"
	"github.com/mvindas/salon-store/database"
	"github.com/mvindas/salon-store/rate"
	"github.com/mvindas/salon-store/validate"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type TestEnv struct {
	DB        *sqlx.DB
	Server    *httptest.Server
	URL       string
	AdminUser string
	AdminPass string
	UserName  string
	UserPass  string

	client *http.Client
}

// NewTestEnv creates a database named after the test on the shared
// container, migrates it, seeds an admin and a regular user, and serves the
// full API mux over it.
func NewTestEnv(t *testing.T, name string) (*TestEnv, error) {
	if _, err := masterDB.Exec("CREATE DATABASE " + name); err != nil {
		return nil, fmt.Errorf("creating database %q: %w", name, err)
	}

	cfg := dbCfg
	cfg.Name = name
	db, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening database %q: %w", name, err)
	}

	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrating database %q: %w", name, err)
	}

	env := &TestEnv{
		DB:        db,
		AdminUser: "admin",
		AdminPass: "s3cr3t-admin",
		UserName:  "cliente",
		UserPass:  "s3cr3t-user",
	}

	if err := seedUser(db, env.AdminUser, env.AdminPass, claims.RoleAdmin); err != nil {
		return nil, err
	}
	if err := seedUser(db, env.UserName, env.UserPass, claims.RoleUser); err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	session := scs.New()
	session.Lifetime = time.Hour

	mux := api.APIMux(api.APIConfig{
		Log:          logger,
		DB:           db,
		Session:      session,
		LoginLimiter: rate.NewLimiter(1000, 60, 1000),
	})

	env.Server = httptest.NewServer(mux)
	env.URL = env.Server.URL

	t.Cleanup(func() {
		env.Server.Close()
		db.Close()
	})

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("building cookie jar: %w", err)
	}
	env.client = &http.Client{Jar: jar}

	return env, nil
}

func seedUser(db *sqlx.DB, username, password, role string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now().UTC()
	usr := user.User{
		ID:           validate.GenerateID(),
		Username:     username,
		Name:         username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := user.Create(context.Background(), db, usr); err != nil {
		return fmt.Errorf("seeding user %q: %w", username, err)
	}
	return nil
}

func (te *TestEnv) Client() *http.Client { return te.client }

// do sends a JSON request through the env's cookie-holding client and
// decodes the response body into out when given.
func (te *TestEnv) do(t *testing.T, method, path string, body any, out any) int {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling %s %s body: %v", method, path, err)
		}
		rd = bytes.NewReader(b)
	}

	r, err := http.NewRequest(method, te.URL+path, rd)
	if err != nil {
		t.Fatal(err)
	}
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}

	w, err := te.client.Do(r)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Body.Close()

	if out != nil {
		if err := json.NewDecoder(w.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
			t.Fatalf("decoding %s %s response: %v", method, path, err)
		}
	}

	return w.StatusCode
}

func (te *TestEnv) login(t *testing.T, username, password string) {
	t.Helper()

	creds := map[string]string{"username": username, "password": password}
	if status := te.do(t, http.MethodPost, "/auth/login", creds, nil); status != http.StatusOK {
		t.Fatalf("login as %q: status code %d", username, status)
	}
}

func (te *TestEnv) logout(t *testing.T) {
	t.Helper()

	if status := te.do(t, http.MethodPost, "/auth/logout", nil, nil); status != http.StatusNoContent {
		t.Fatalf("logout: status code %d", status)
	}
}

func (te *TestEnv) createProductOK(t *testing.T, pn product.ProductNew) product.Product {
	t.Helper()

	var p product.Product
	if status := te.do(t, http.MethodPost, "/admin/products", pn, &p); status != http.StatusCreated {
		t.Fatalf("creating product %q: status code %d", pn.Name, status)
	}
	return p
}
