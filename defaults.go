package permits

// DefaultPolicies returns the policy set the migrated petstore service
// shipped with. It is used as parity test data and as seed data for the SQL
// policy source; production deployments load their own set via Config or a
// PolicySource.
func DefaultPolicies() []*Policy {
	return []*Policy{
		// Admins can do anything on every resource type.
		{
			ID:           "admin-application",
			Effect:       EffectPermit,
			Principal:    PrincipalMatch{AnyGroup: []string{GroupAdmin}},
			Actions:      []Action{ActionWildcard},
			ResourceType: ResourceApplication,
		},
		{
			ID:           "admin-franchise",
			Effect:       EffectPermit,
			Principal:    PrincipalMatch{AnyGroup: []string{GroupAdmin}},
			Actions:      []Action{ActionWildcard},
			ResourceType: ResourceFranchise,
		},
		{
			ID:           "admin-store",
			Effect:       EffectPermit,
			Principal:    PrincipalMatch{AnyGroup: []string{GroupAdmin}},
			Actions:      []Action{ActionWildcard},
			ResourceType: ResourceStore,
		},
		{
			ID:           "admin-pet",
			Effect:       EffectPermit,
			Principal:    PrincipalMatch{AnyGroup: []string{GroupAdmin}},
			Actions:      []Action{ActionWildcard},
			ResourceType: ResourcePet,
		},
		{
			ID:           "admin-order",
			Effect:       EffectPermit,
			Principal:    PrincipalMatch{AnyGroup: []string{GroupAdmin}},
			Actions:      []Action{ActionWildcard},
			ResourceType: ResourceOrder,
		},

		// Franchise owners manage their franchise and the stores under it,
		// with transitive rights over those stores' pets and orders.
		{
			ID:           "franchise-owner-franchise",
			Effect:       EffectPermit,
			Principal:    PrincipalMatch{AnyGroup: []string{GroupFranchiseOwner}},
			Actions:      []Action{ActionManageFranchise},
			ResourceType: ResourceFranchise,
			Hierarchy:    HierarchyOwnsFranchise,
		},
		{
			ID:           "franchise-owner-store",
			Effect:       EffectPermit,
			Principal:    PrincipalMatch{AnyGroup: []string{GroupFranchiseOwner}},
			Actions:      []Action{ActionManageStore},
			ResourceType: ResourceStore,
			Hierarchy:    HierarchyOwnsFranchise,
		},
		{
			ID:           "franchise-owner-pet",
			Effect:       EffectPermit,
			Principal:    PrincipalMatch{AnyGroup: []string{GroupFranchiseOwner}},
			Actions:      []Action{ActionSearchPets, ActionGetPet, ActionCreatePet, ActionUpdatePet, ActionDeletePet},
			ResourceType: ResourcePet,
			Hierarchy:    HierarchyOwnsStoresFranchise,
		},
		{
			ID:           "franchise-owner-order",
			Effect:       EffectPermit,
			Principal:    PrincipalMatch{AnyGroup: []string{GroupFranchiseOwner}},
			Actions:      []Action{ActionListOrders, ActionGetOrder, ActionCancelOrder},
			ResourceType: ResourceOrder,
			Hierarchy:    HierarchyOwnsStoresFranchise,
		},

		// Store owners run their own store.
		{
			ID:           "store-owner-store",
			Effect:       EffectPermit,
			Principal:    PrincipalMatch{AnyGroup: []string{GroupStoreOwner}},
			Actions:      []Action{ActionManageStore},
			ResourceType: ResourceStore,
			Hierarchy:    HierarchyEmployedAtStore,
		},
		{
			ID:           "store-owner-pet",
			Effect:       EffectPermit,
			Principal:    PrincipalMatch{AnyGroup: []string{GroupStoreOwner}},
			Actions:      []Action{ActionSearchPets, ActionGetPet, ActionCreatePet, ActionUpdatePet, ActionDeletePet},
			ResourceType: ResourcePet,
			Hierarchy:    HierarchyEmployedAtStore,
		},
		{
			ID:           "store-owner-order",
			Effect:       EffectPermit,
			Principal:    PrincipalMatch{AnyGroup: []string{GroupStoreOwner}},
			Actions:      []Action{ActionListOrders, ActionGetOrder, ActionCancelOrder},
			ResourceType: ResourceOrder,
			Hierarchy:    HierarchyEmployedAtStore,
		},

		// Store employees work the counter: pet upkeep and order handling at
		// their own store, no store management.
		{
			ID:           "store-employee-pet",
			Effect:       EffectPermit,
			Principal:    PrincipalMatch{AnyGroup: []string{GroupStoreEmployee}},
			Actions:      []Action{ActionSearchPets, ActionGetPet, ActionUpdatePet},
			ResourceType: ResourcePet,
			Hierarchy:    HierarchyEmployedAtStore,
		},
		{
			ID:           "store-employee-order",
			Effect:       EffectPermit,
			Principal:    PrincipalMatch{AnyGroup: []string{GroupStoreEmployee}},
			Actions:      []Action{ActionListOrders, ActionGetOrder, ActionCancelOrder},
			ResourceType: ResourceOrder,
			Hierarchy:    HierarchyEmployedAtStore,
		},

		// Customers browse pets and manage their own orders. Pet mutation is
		// explicitly forbidden so a customer who also picks up an employee
		// group never gains it by accident.
		{
			ID:           "customer-pet-read",
			Effect:       EffectPermit,
			Principal:    PrincipalMatch{AnyGroup: []string{GroupCustomer}},
			Actions:      []Action{ActionSearchPets, ActionGetPet},
			ResourceType: ResourcePet,
		},
		{
			ID:           "customer-order",
			Effect:       EffectPermit,
			Principal:    PrincipalMatch{AnyGroup: []string{GroupCustomer}},
			Actions:      []Action{ActionCreateOrder, ActionGetOrder, ActionCancelOrder},
			ResourceType: ResourceOrder,
		},
		{
			ID:           "customer-pet-mutation-forbid",
			Effect:       EffectForbid,
			Principal:    PrincipalMatch{AnyGroup: []string{GroupCustomer}},
			Actions:      []Action{ActionCreatePet, ActionUpdatePet, ActionDeletePet},
			ResourceType: ResourcePet,
		},

		// Any authenticated principal may read application metadata.
		{
			ID:           "application-view",
			Effect:       EffectPermit,
			Principal:    PrincipalMatch{Any: true},
			Actions:      []Action{ActionViewApplication},
			ResourceType: ResourceApplication,
		},
	}
}
