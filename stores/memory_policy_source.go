package stores

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/oarkflow/permits"
)

// MemoryPolicySource implements policy persistence in-memory for testing/demo
type MemoryPolicySource struct {
	mu       sync.RWMutex
	policies map[string]*permits.Policy
}

func NewMemoryPolicySource(policies ...*permits.Policy) *MemoryPolicySource {
	s := &MemoryPolicySource{policies: make(map[string]*permits.Policy)}
	for _, p := range policies {
		s.policies[p.ID] = p
	}
	return s
}

func (s *MemoryPolicySource) CreatePolicy(ctx context.Context, p *permits.Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.policies[p.ID]; ok {
		return fmt.Errorf("policy already exists: %s", p.ID)
	}
	s.policies[p.ID] = p
	return nil
}

func (s *MemoryPolicySource) UpdatePolicy(ctx context.Context, p *permits.Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.policies[p.ID]; !ok {
		return fmt.Errorf("policy not found: %s", p.ID)
	}
	s.policies[p.ID] = p
	return nil
}

func (s *MemoryPolicySource) DeletePolicy(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.policies, id)
	return nil
}

func (s *MemoryPolicySource) GetPolicy(ctx context.Context, id string) (*permits.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.policies[id]
	if !ok {
		return nil, fmt.Errorf("policy not found: %s", id)
	}
	return p, nil
}

// ListPolicies implements permits.PolicySource.
func (s *MemoryPolicySource) ListPolicies(ctx context.Context) ([]*permits.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*permits.Policy, 0, len(s.policies))
	for _, p := range s.policies {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
