package permits

import (
	"reflect"
	"testing"
)

func TestFromJWTClaims(t *testing.T) {
	p := FromJWTClaims(JWTClaims{
		Subject:                  "user-42",
		Email:                    "owner@example.com",
		Groups:                   []string{GroupCustomer, GroupStoreOwner, GroupCustomer},
		EmploymentStoreCodes:     []string{"store-002", "store-001"},
		EmploymentFranchiseCodes: []string{"franchise-001"},
	})
	if !p.Authenticated {
		t.Fatalf("expected authenticated principal")
	}
	if p.UserID != "user-42" || p.Email != "owner@example.com" {
		t.Fatalf("identity not carried over: %+v", p)
	}
	// Groups are sorted and deduplicated so fingerprints are stable.
	if !reflect.DeepEqual(p.Groups, []string{GroupCustomer, GroupStoreOwner}) {
		t.Fatalf("unexpected groups: %v", p.Groups)
	}
	if !reflect.DeepEqual(p.EmploymentStoreCodes, []string{"store-001", "store-002"}) {
		t.Fatalf("unexpected store codes: %v", p.EmploymentStoreCodes)
	}
	// StoreOwner outranks Customer for the coarse role label.
	if p.Role != GroupStoreOwner {
		t.Fatalf("expected role %s, got %s", GroupStoreOwner, p.Role)
	}
}

func TestFromJWTClaimsIncomplete(t *testing.T) {
	for _, claims := range []JWTClaims{
		{},
		{Subject: "user-1"},
		{Groups: []string{GroupAdmin}},
	} {
		p := FromJWTClaims(claims)
		if p.Authenticated {
			t.Fatalf("claims %+v must yield anonymous principal", claims)
		}
	}
}

func TestFromAPIKeyContext(t *testing.T) {
	p := FromAPIKeyContext(APIKeyContext{KeyID: "key-9", ClientName: "partner-app"})
	if !p.Authenticated {
		t.Fatalf("expected authenticated principal")
	}
	if p.UserID != "api-key:key-9" {
		t.Fatalf("unexpected user id: %s", p.UserID)
	}
	if !p.HasGroup(GroupAPIClient) {
		t.Fatalf("expected default ApiClient group, got %v", p.Groups)
	}
	if len(p.EmploymentStoreCodes) != 0 || len(p.EmploymentFranchiseCodes) != 0 {
		t.Fatalf("api-key principal must carry no employment: %+v", p)
	}

	admin := FromAPIKeyContext(APIKeyContext{KeyID: "key-10", Groups: []string{GroupAdmin}})
	if !admin.HasGroup(GroupAdmin) || admin.HasGroup(GroupAPIClient) {
		t.Fatalf("explicit groups must replace the default: %v", admin.Groups)
	}

	if p := FromAPIKeyContext(APIKeyContext{}); p.Authenticated {
		t.Fatalf("empty key id must yield anonymous principal")
	}
}

func TestPrincipalMatch(t *testing.T) {
	owner := &Principal{UserID: "u1", Groups: []string{GroupStoreOwner}, Authenticated: true}

	if !(PrincipalMatch{Any: true}).Matches(owner) {
		t.Fatalf("any-match should match")
	}
	if !(PrincipalMatch{AnyGroup: []string{GroupAdmin, GroupStoreOwner}}).Matches(owner) {
		t.Fatalf("group match should match on any listed group")
	}
	if (PrincipalMatch{AnyGroup: []string{GroupAdmin}}).Matches(owner) {
		t.Fatalf("non-member group must not match")
	}
	if (PrincipalMatch{}).Matches(owner) {
		t.Fatalf("empty match must match nobody")
	}
}

func TestEmploymentChecks(t *testing.T) {
	p := &Principal{
		EmploymentStoreCodes:     []string{"store-001"},
		EmploymentFranchiseCodes: []string{"franchise-001"},
	}
	if !p.EmployedAtStore("store-001") || p.EmployedAtStore("store-002") {
		t.Fatalf("store employment check wrong")
	}
	if !p.OwnsFranchise("franchise-001") || p.OwnsFranchise("franchise-002") {
		t.Fatalf("franchise ownership check wrong")
	}
	// An unresolved (empty) parent never matches anybody's employment.
	if p.EmployedAtStore("") || p.OwnsFranchise("") {
		t.Fatalf("empty ids must never satisfy employment checks")
	}
}
