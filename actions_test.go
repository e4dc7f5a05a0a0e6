package permits

import (
	"errors"
	"testing"
)

func TestActionResolverDefaults(t *testing.T) {
	r, err := NewActionResolver(DefaultRouteTable())
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}

	cases := []struct {
		method, template string
		want             Action
	}{
		{"GET", "/store/{storeId}/pets", ActionSearchPets},
		{"get", "/store/{storeId}/pets", ActionSearchPets},
		{"POST", "/store/{storeId}/pet", ActionCreatePet},
		{"DELETE", "/store/{storeId}/pet/{petId}", ActionDeletePet},
		{"POST", "/store/{storeId}/order/{orderId}/cancel", ActionCancelOrder},
		{"PUT", "/franchise/{franchiseId}", ActionManageFranchise},
		{"GET", "/application", ActionViewApplication},
		// colon-style templates normalize to the brace form
		{"GET", "/store/:storeId/pet/:petId", ActionGetPet},
	}
	for _, tc := range cases {
		got, err := r.Resolve(tc.method, tc.template)
		if err != nil {
			t.Fatalf("%s %s: %v", tc.method, tc.template, err)
		}
		if got != tc.want {
			t.Fatalf("%s %s: got %s, want %s", tc.method, tc.template, got, tc.want)
		}
	}
}

func TestActionResolverUnmappedRoute(t *testing.T) {
	r, err := NewActionResolver(DefaultRouteTable())
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	_, err = r.Resolve("PATCH", "/store/{storeId}/pet/{petId}")
	if err == nil {
		t.Fatalf("expected unmapped route error")
	}
	var unmapped *UnmappedRouteError
	if !errors.As(err, &unmapped) {
		t.Fatalf("expected *UnmappedRouteError, got %T", err)
	}
	if unmapped.Method != "PATCH" {
		t.Fatalf("unexpected method in error: %s", unmapped.Method)
	}
}

func TestActionResolverRejectsBadTables(t *testing.T) {
	cases := []struct {
		name  string
		table map[RouteKey]Action
	}{
		{"empty table", map[RouteKey]Action{}},
		{"missing method", map[RouteKey]Action{{Template: "/x"}: ActionGetPet}},
		{"malformed template", map[RouteKey]Action{{Method: "GET", Template: "/store/{storeId"}: ActionGetPet}},
		{"unknown action", map[RouteKey]Action{{Method: "GET", Template: "/x"}: "TeleportPet"}},
		{"conflicting mapping", map[RouteKey]Action{
			{Method: "GET", Template: "/store/:storeId/pets"}:  ActionSearchPets,
			{Method: "get", Template: "/store/{storeId}/pets"}: ActionListOrders,
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewActionResolver(tc.table); err == nil {
				t.Fatalf("expected ConfigError")
			}
		})
	}
}
