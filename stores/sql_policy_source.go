package stores

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oarkflow/permits"
	"github.com/oarkflow/squealx"
)

// PolicyRecord is a policy row with its persistence timestamps.
type PolicyRecord struct {
	Policy    *permits.Policy
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SQLPolicySource persists policies in SQL (squealx) and serves them to the
// engine as a permits.PolicySource. It is the authoring side of the system;
// the engine itself never touches the database after a load or reload.
type SQLPolicySource struct {
	db *squealx.DB
}

func NewSQLPolicySource(db *squealx.DB) *SQLPolicySource {
	return &SQLPolicySource{db: db}
}

func (s *SQLPolicySource) CreatePolicy(ctx context.Context, p *permits.Policy) error {
	now := time.Now()
	groups, _ := json.Marshal(p.Principal.AnyGroup)
	actions, _ := json.Marshal(p.Actions)
	q := `INSERT INTO policies(id, effect, principal_any, principal_groups_json, actions_json, resource_type, hierarchy, created_at, updated_at) VALUES(:id, :effect, :principal_any, :principal_groups_json, :actions_json, :resource_type, :hierarchy, :created_at, :updated_at)`
	_, err := s.db.NamedExecContext(ctx, q, map[string]any{
		"id":                    p.ID,
		"effect":                string(p.Effect),
		"principal_any":         boolToInt(p.Principal.Any),
		"principal_groups_json": string(groups),
		"actions_json":          string(actions),
		"resource_type":         string(p.ResourceType),
		"hierarchy":             string(p.Hierarchy),
		"created_at":            now,
		"updated_at":            now,
	})
	return err
}

func (s *SQLPolicySource) UpdatePolicy(ctx context.Context, p *permits.Policy) error {
	groups, _ := json.Marshal(p.Principal.AnyGroup)
	actions, _ := json.Marshal(p.Actions)
	q := `UPDATE policies SET effect=:effect, principal_any=:principal_any, principal_groups_json=:principal_groups_json, actions_json=:actions_json, resource_type=:resource_type, hierarchy=:hierarchy, updated_at=:updated_at WHERE id=:id`
	_, err := s.db.NamedExecContext(ctx, q, map[string]any{
		"id":                    p.ID,
		"effect":                string(p.Effect),
		"principal_any":         boolToInt(p.Principal.Any),
		"principal_groups_json": string(groups),
		"actions_json":          string(actions),
		"resource_type":         string(p.ResourceType),
		"hierarchy":             string(p.Hierarchy),
		"updated_at":            time.Now(),
	})
	return err
}

func (s *SQLPolicySource) DeletePolicy(ctx context.Context, id string) error {
	q := `DELETE FROM policies WHERE id = :id`
	_, err := s.db.NamedExecContext(ctx, q, map[string]any{"id": id})
	return err
}

func (s *SQLPolicySource) GetPolicy(ctx context.Context, id string) (*PolicyRecord, error) {
	q := `SELECT id, effect, principal_any, principal_groups_json, actions_json, resource_type, hierarchy, created_at, updated_at FROM policies WHERE id = :id`
	r, err := s.db.NamedQueryContext(ctx, q, map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	defer r.Close()
	if !r.Next() {
		return nil, fmt.Errorf("policy not found: %s", id)
	}
	return scanPolicyRecord(r)
}

// ListPolicies implements permits.PolicySource.
func (s *SQLPolicySource) ListPolicies(ctx context.Context) ([]*permits.Policy, error) {
	q := `SELECT id, effect, principal_any, principal_groups_json, actions_json, resource_type, hierarchy, created_at, updated_at FROM policies ORDER BY id`
	r, err := s.db.NamedQueryContext(ctx, q, map[string]any{})
	if err != nil {
		return nil, err
	}
	defer r.Close()
	out := make([]*permits.Policy, 0)
	for r.Next() {
		rec, err := scanPolicyRecord(r)
		if err != nil {
			return nil, err
		}
		out = append(out, rec.Policy)
	}
	return out, nil
}

// Seed inserts the given policies, skipping ids that already exist. Used to
// bootstrap a fresh database with the default policy set.
func (s *SQLPolicySource) Seed(ctx context.Context, policies []*permits.Policy) error {
	for _, p := range policies {
		if _, err := s.GetPolicy(ctx, p.ID); err == nil {
			continue
		}
		if err := s.CreatePolicy(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPolicyRecord(r rowScanner) (*PolicyRecord, error) {
	var id, effect, groupsJSON, actionsJSON, resourceType, hierarchy string
	var anyInt int
	var createdRaw, updatedRaw interface{}
	if err := r.Scan(&id, &effect, &anyInt, &groupsJSON, &actionsJSON, &resourceType, &hierarchy, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}
	p := &permits.Policy{
		ID:           id,
		Effect:       permits.Effect(effect),
		Principal:    permits.PrincipalMatch{Any: anyInt != 0},
		ResourceType: permits.ResourceType(resourceType),
		Hierarchy:    permits.HierarchyRequirement(hierarchy),
	}
	var groups []string
	_ = json.Unmarshal([]byte(groupsJSON), &groups)
	p.Principal.AnyGroup = groups
	var acts []permits.Action
	_ = json.Unmarshal([]byte(actionsJSON), &acts)
	p.Actions = acts
	return &PolicyRecord{
		Policy:    p,
		CreatedAt: scanTime(createdRaw),
		UpdatedAt: scanTime(updatedRaw),
	}, nil
}
