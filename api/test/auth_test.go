package test

import (
	"net/http"
	"testing"
)

func TestAuth(t *testing.T) {
	env, err := NewTestEnv(t, "auth_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	creds := func(u, p string) map[string]string {
		return map[string]string{"username": u, "password": p}
	}

	if status := env.do(t, http.MethodPost, "/auth/login", creds(env.AdminUser, "wrong"), nil); status != http.StatusUnauthorized {
		t.Fatalf("login with a wrong password: status code %d", status)
	}

	if status := env.do(t, http.MethodPost, "/auth/login", creds("nobody", env.AdminPass), nil); status != http.StatusUnauthorized {
		t.Fatalf("login with an unknown user: status code %d", status)
	}

	if status := env.do(t, http.MethodGet, "/auth/me", nil, nil); status != http.StatusUnauthorized {
		t.Fatalf("me without a session: status code %d", status)
	}

	var me struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Role string `json:"role"`
	}
	env.login(t, env.AdminUser, env.AdminPass)
	if status := env.do(t, http.MethodGet, "/auth/me", nil, &me); status != http.StatusOK {
		t.Fatalf("me with a session: status code %d", status)
	}
	if me.Role != "admin" {
		t.Fatalf("expected role admin, got %q", me.Role)
	}

	env.logout(t)
	if status := env.do(t, http.MethodGet, "/auth/me", nil, nil); status != http.StatusUnauthorized {
		t.Fatalf("me after logout: status code %d", status)
	}
}

// Admin operations must yield a bare "forbidden" to non-admins: no product,
// post or order fields in the body.
func TestAdminGate(t *testing.T) {
	env, err := NewTestEnv(t, "admin_gate_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	adminRoutes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/admin/products"},
		{http.MethodGet, "/admin/posts"},
		{http.MethodGet, "/admin/orders"},
	}

	for _, rt := range adminRoutes {
		if status := env.do(t, rt.method, rt.path, nil, nil); status != http.StatusUnauthorized {
			t.Fatalf("%s %s anonymous: status code %d", rt.method, rt.path, status)
		}
	}

	env.login(t, env.UserName, env.UserPass)
	defer env.logout(t)

	for _, rt := range adminRoutes {
		var body map[string]any
		status := env.do(t, rt.method, rt.path, nil, &body)
		if status != http.StatusForbidden {
			t.Fatalf("%s %s as non-admin: status code %d", rt.method, rt.path, status)
		}

		if len(body) != 1 {
			t.Fatalf("%s %s as non-admin: expected only an error field, got %v", rt.method, rt.path, body)
		}
		if _, ok := body["error"]; !ok {
			t.Fatalf("%s %s as non-admin: expected an error field, got %v", rt.method, rt.path, body)
		}
	}
}
