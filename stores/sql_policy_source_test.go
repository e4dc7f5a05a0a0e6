package stores

import (
	"context"
	"database/sql"
	"reflect"
	"testing"

	"github.com/oarkflow/squealx"
	_ "modernc.org/sqlite"

	"github.com/oarkflow/permits"
)

func newTestDB(t *testing.T) *squealx.DB {
	t.Helper()
	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	db := squealx.NewDb(sqlDB, "sqlite", "testdb")
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestSQLPolicySourceRoundtrip(t *testing.T) {
	db := newTestDB(t)
	src := NewSQLPolicySource(db)
	ctx := context.Background()

	p := &permits.Policy{
		ID:           "store-owner-pet",
		Effect:       permits.EffectPermit,
		Principal:    permits.PrincipalMatch{AnyGroup: []string{permits.GroupStoreOwner}},
		Actions:      []permits.Action{permits.ActionCreatePet, permits.ActionUpdatePet},
		ResourceType: permits.ResourcePet,
		Hierarchy:    permits.HierarchyEmployedAtStore,
	}
	if err := src.CreatePolicy(ctx, p); err != nil {
		t.Fatalf("create policy: %v", err)
	}

	rec, err := src.GetPolicy(ctx, "store-owner-pet")
	if err != nil {
		t.Fatalf("get policy: %v", err)
	}
	if !reflect.DeepEqual(rec.Policy, p) {
		t.Fatalf("roundtrip mismatch: got %+v want %+v", rec.Policy, p)
	}
	if rec.CreatedAt.IsZero() || rec.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps, got created=%v updated=%v", rec.CreatedAt, rec.UpdatedAt)
	}
}

func TestSQLPolicySourceUpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	src := NewSQLPolicySource(db)
	ctx := context.Background()

	p := &permits.Policy{
		ID:           "customer-order",
		Effect:       permits.EffectPermit,
		Principal:    permits.PrincipalMatch{AnyGroup: []string{permits.GroupCustomer}},
		Actions:      []permits.Action{permits.ActionCreateOrder},
		ResourceType: permits.ResourceOrder,
	}
	if err := src.CreatePolicy(ctx, p); err != nil {
		t.Fatalf("create policy: %v", err)
	}

	p.Effect = permits.EffectForbid
	p.Actions = []permits.Action{permits.ActionCreateOrder, permits.ActionCancelOrder}
	if err := src.UpdatePolicy(ctx, p); err != nil {
		t.Fatalf("update policy: %v", err)
	}
	rec, err := src.GetPolicy(ctx, "customer-order")
	if err != nil {
		t.Fatalf("get policy: %v", err)
	}
	if rec.Policy.Effect != permits.EffectForbid || len(rec.Policy.Actions) != 2 {
		t.Fatalf("update not persisted: %+v", rec.Policy)
	}

	if err := src.DeletePolicy(ctx, "customer-order"); err != nil {
		t.Fatalf("delete policy: %v", err)
	}
	if _, err := src.GetPolicy(ctx, "customer-order"); err == nil {
		t.Fatalf("expected get after delete to fail")
	}
}

func TestSQLPolicySourceFeedsStore(t *testing.T) {
	db := newTestDB(t)
	src := NewSQLPolicySource(db)
	ctx := context.Background()

	if err := src.Seed(ctx, permits.DefaultPolicies()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	// seeding twice must be a no-op, not a duplicate-key failure
	if err := src.Seed(ctx, permits.DefaultPolicies()); err != nil {
		t.Fatalf("re-seed: %v", err)
	}

	store, err := permits.NewStoreFromSource(ctx, src)
	if err != nil {
		t.Fatalf("store from source: %v", err)
	}
	if store.Snapshot().Len() != len(permits.DefaultPolicies()) {
		t.Fatalf("expected %d policies, got %d", len(permits.DefaultPolicies()), store.Snapshot().Len())
	}
}

func TestMemoryPolicySourceList(t *testing.T) {
	src := NewMemoryPolicySource()
	ctx := context.Background()
	for _, p := range permits.DefaultPolicies() {
		if err := src.CreatePolicy(ctx, p); err != nil {
			t.Fatalf("create policy %s: %v", p.ID, err)
		}
	}
	if err := src.CreatePolicy(ctx, &permits.Policy{ID: "admin-pet"}); err == nil {
		t.Fatalf("expected duplicate create to fail")
	}
	got, err := src.ListPolicies(ctx)
	if err != nil {
		t.Fatalf("list policies: %v", err)
	}
	if len(got) != len(permits.DefaultPolicies()) {
		t.Fatalf("expected %d policies, got %d", len(permits.DefaultPolicies()), len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].ID >= got[i].ID {
			t.Fatalf("list not sorted: %s before %s", got[i-1].ID, got[i].ID)
		}
	}
}
