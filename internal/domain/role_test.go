package domain

import "testing"

func TestRoleSatisfies(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		role     Role
		required Role
		want     bool
	}{
		{"admin satisfies admin", RoleAdmin, RoleAdmin, true},
		{"admin satisfies editor", RoleAdmin, RoleEditor, true},
		{"admin satisfies viewer", RoleAdmin, RoleViewer, true},
		{"editor satisfies editor", RoleEditor, RoleEditor, true},
		{"editor denied admin", RoleEditor, RoleAdmin, false},
		// The rule table is intentionally not a hierarchy.
		{"editor denied viewer", RoleEditor, RoleViewer, false},
		{"viewer satisfies viewer", RoleViewer, RoleViewer, true},
		{"viewer denied editor", RoleViewer, RoleEditor, false},
		{"viewer denied admin", RoleViewer, RoleAdmin, false},
		{"unknown role denied", Role("owner"), RoleViewer, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.role.Satisfies(tc.required); got != tc.want {
				t.Fatalf("Satisfies(%q, %q) = %v, want %v", tc.role, tc.required, got, tc.want)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	if r, err := ParseRole("  Admin "); err != nil || r != RoleAdmin {
		t.Fatalf("ParseRole(Admin) = %v, %v", r, err)
	}
	if _, err := ParseRole("superuser"); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

func TestNormalizeAddress(t *testing.T) {
	t.Parallel()

	got, err := NormalizeAddress("0xAbCdEF0123456789abcdef0123456789ABCDEF01")
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if got != "0xabcdef0123456789abcdef0123456789abcdef01" {
		t.Fatalf("unexpected normalized address: %s", got)
	}

	for _, bad := range []string{"", "0x123", "abcdef0123456789abcdef0123456789abcdef01", "0xzzcdef0123456789abcdef0123456789abcdef01"} {
		if _, err := NormalizeAddress(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
