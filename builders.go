package permits

// PolicyBuilder provides a fluent API for creating policies, used by tests
// and the config tooling.
type PolicyBuilder struct {
	p *Policy
}

func NewPolicyBuilder() *PolicyBuilder {
	return &PolicyBuilder{p: &Policy{Actions: []Action{}}}
}

func (b *PolicyBuilder) ID(id string) *PolicyBuilder    { b.p.ID = id; return b }
func (b *PolicyBuilder) Effect(e Effect) *PolicyBuilder { b.p.Effect = e; return b }
func (b *PolicyBuilder) Permit() *PolicyBuilder         { b.p.Effect = EffectPermit; return b }
func (b *PolicyBuilder) Forbid() *PolicyBuilder         { b.p.Effect = EffectForbid; return b }
func (b *PolicyBuilder) AnyPrincipal() *PolicyBuilder {
	b.p.Principal = PrincipalMatch{Any: true}
	return b
}
func (b *PolicyBuilder) Groups(g ...string) *PolicyBuilder {
	b.p.Principal.AnyGroup = append(b.p.Principal.AnyGroup, g...)
	return b
}
func (b *PolicyBuilder) Actions(a ...Action) *PolicyBuilder {
	b.p.Actions = append(b.p.Actions, a...)
	return b
}
func (b *PolicyBuilder) AllActions() *PolicyBuilder {
	b.p.Actions = []Action{ActionWildcard}
	return b
}
func (b *PolicyBuilder) Resource(rt ResourceType) *PolicyBuilder { b.p.ResourceType = rt; return b }
func (b *PolicyBuilder) Hierarchy(h HierarchyRequirement) *PolicyBuilder {
	b.p.Hierarchy = h
	return b
}
// Build validates the assembled policy with the same rules the snapshot
// loader applies, so a builder mistake surfaces at authoring time.
func (b *PolicyBuilder) Build() (*Policy, error) {
	if err := validatePolicy(b.p); err != nil {
		return nil, err
	}
	return b.p, nil
}
