package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                        "/",
		"/metrics":                "/metrics",
		"/auth/token":             "/auth/token",
		"/v1/users/42":            "/v1/users/:id",
		"/v1/users/42/roles":      "/v1/users/:id/roles",
		"/v1/users/42/extra":      "/v1/users/42/extra",
		"/v1/leaves/7/status":     "/v1/leaves/:id/status",
		"/v1/employees/9?full=1":  "/v1/employees/:id",
		"/v1/departments":         "/v1/departments",
		"/v1/unknown/42":          "/v1/unknown/42",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
