package benchmark

import (
	"testing"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/oarkflow/permits"
	"github.com/oarkflow/permits/logger"
)

func newBenchEngine(b *testing.B, opts ...permits.EngineOption) *permits.Engine {
	b.Helper()
	store, err := permits.NewStore(permits.DefaultPolicies())
	if err != nil {
		b.Fatalf("new store: %v", err)
	}
	opts = append([]permits.EngineOption{permits.WithLogger(logger.NewNullLogger())}, opts...)
	eng, err := permits.NewEngine(store, opts...)
	if err != nil {
		b.Fatalf("new engine: %v", err)
	}
	return eng
}

func BenchmarkEvaluateHierarchyPermit(b *testing.B) {
	eng := newBenchEngine(b)
	owner := &permits.Principal{
		UserID:               "owner-1",
		Groups:               []string{permits.GroupStoreOwner},
		EmploymentStoreCodes: []string{"store-001"},
		Authenticated:        true,
	}
	pet := &permits.ResourceDescriptor{Type: permits.ResourcePet, ID: "pet-7", ParentStoreID: "store-001"}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = eng.Evaluate(owner, permits.ActionUpdatePet, pet)
	}
}

func BenchmarkEvaluateDefaultDeny(b *testing.B) {
	eng := newBenchEngine(b)
	customer := &permits.Principal{UserID: "cust-1", Groups: []string{permits.GroupCustomer}, Authenticated: true}
	franchise := &permits.ResourceDescriptor{Type: permits.ResourceFranchise, ID: "franchise-001", ParentFranchiseID: "franchise-001"}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = eng.Evaluate(customer, permits.ActionManageFranchise, franchise)
	}
}

func BenchmarkAuthorizeCached(b *testing.B) {
	cache, err := permits.NewDecisionCache(permits.CacheConfig{TTL: time.Minute})
	if err != nil {
		b.Fatalf("new cache: %v", err)
	}
	defer cache.Close()
	eng := newBenchEngine(b, permits.WithDecisionCache(cache))
	owner := &permits.Principal{
		UserID:               "owner-1",
		Groups:               []string{permits.GroupStoreOwner},
		EmploymentStoreCodes: []string{"store-001"},
		Authenticated:        true,
	}
	pet := &permits.ResourceDescriptor{Type: permits.ResourcePet, ID: "pet-7", ParentStoreID: "store-001"}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = eng.Authorize(owner, permits.ActionUpdatePet, pet)
	}
}

// BenchmarkCasbinRBAC is the closest casbin equivalent of the hierarchy
// permit scenario, as a reference point.
func BenchmarkCasbinRBAC(b *testing.B) {
	modelText := `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

	m, _ := model.NewModelFromString(modelText)
	e, _ := casbin.NewEnforcer(m)
	_, _ = e.AddPolicy("StoreOwner", "Pet", "UpdatePet")
	_, _ = e.AddGroupingPolicy("owner-1", "StoreOwner")

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = e.Enforce("owner-1", "Pet", "UpdatePet")
	}
}
