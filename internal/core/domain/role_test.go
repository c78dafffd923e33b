package domain

import "testing"

func TestResolveRole(t *testing.T) {
	cases := []struct {
		name string
		p    *Principal
		want Role
	}{
		{"nil principal", nil, RoleCollector},
		{"no metadata", &Principal{ID: "u1"}, RoleCollector},
		{"collector tag", &Principal{RoleTag: "collector"}, RoleCollector},
		{"creator tag", &Principal{RoleTag: "creator"}, RoleCreator},
		{"investor tag", &Principal{RoleTag: "investor"}, RoleInvestor},
		{"admin tag", &Principal{RoleTag: "admin"}, RoleAdmin},
		{"case insensitive", &Principal{RoleTag: "Creator"}, RoleCreator},
		{"whitespace", &Principal{RoleTag: "  ADMIN "}, RoleAdmin},
		{"unrecognised tag", &Principal{RoleTag: "superuser"}, RoleCollector},
		{"admin flag without tag", &Principal{IsAdmin: true}, RoleAdmin},
		{"recognised tag beats admin flag", &Principal{RoleTag: "investor", IsAdmin: true}, RoleInvestor},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveRole(tc.p); got != tc.want {
				t.Fatalf("ResolveRole() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDemoPersona(t *testing.T) {
	p, ok := DemoPersona("creator")
	if !ok {
		t.Fatalf("creator persona missing")
	}
	if p.Name != "Maya Artist" {
		t.Fatalf("creator persona = %q, want Maya Artist", p.Name)
	}
	if !p.IsDemo {
		t.Fatalf("demo persona must carry IsDemo")
	}
	if ResolveRole(&p) != RoleCreator {
		t.Fatalf("creator persona resolves to %q", ResolveRole(&p))
	}

	for _, kind := range []string{"collector", "creator", "investor", "admin"} {
		p, ok := DemoPersona(kind)
		if !ok {
			t.Fatalf("persona %q missing", kind)
		}
		if ResolveRole(&p) != Role(kind) {
			t.Fatalf("persona %q resolves to %q", kind, ResolveRole(&p))
		}
	}

	if _, ok := DemoPersona("whale"); ok {
		t.Fatalf("unknown persona should not resolve")
	}
}

func TestSessionState(t *testing.T) {
	if got := (Session{Loading: true}).State(); got != StatePending {
		t.Fatalf("loading session state = %q", got)
	}
	if got := (Session{}).State(); got != StateUnauthenticated {
		t.Fatalf("empty session state = %q", got)
	}
	s := Session{Principal: &Principal{ID: "u1"}, IsAuthenticated: true}
	if got := s.State(); got != StateAuthenticated {
		t.Fatalf("authenticated session state = %q", got)
	}
	// Loading dominates even with a principal present.
	s.Loading = true
	if got := s.State(); got != StatePending {
		t.Fatalf("loading+principal state = %q", got)
	}
}
