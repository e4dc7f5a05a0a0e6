package permits

// JWTClaims is the already-verified claim payload handed over by the
// authentication middleware. Signature verification happened upstream; this
// package only normalizes the claims into a Principal.
type JWTClaims struct {
	Subject                  string   `json:"sub"`
	Email                    string   `json:"email"`
	Groups                   []string `json:"groups"`
	EmploymentStoreCodes     []string `json:"employment_store_codes"`
	EmploymentFranchiseCodes []string `json:"employment_franchise_codes"`
}

// APIKeyContext is the resolved identity of an API-key caller. Keys are a
// privileged but coarse identity: they carry groups, never employment.
type APIKeyContext struct {
	KeyID      string   `json:"key_id"`
	ClientName string   `json:"client_name"`
	Groups     []string `json:"groups"`
}

// rolePrecedence orders groups for the coarse Role label mirrored onto the
// principal: the first group present wins.
var rolePrecedence = []string{
	GroupAdmin, GroupFranchiseOwner, GroupStoreOwner, GroupStoreEmployee, GroupCustomer, GroupAPIClient,
}

func dominantRole(groups []string) string {
	for _, r := range rolePrecedence {
		for _, g := range groups {
			if g == r {
				return r
			}
		}
	}
	if len(groups) > 0 {
		return groups[0]
	}
	return ""
}

// FromJWTClaims normalizes verified JWT claims into a Principal. Missing
// subject or groups yield an anonymous principal rather than an error, so
// the evaluator applies a uniform default-deny path.
func FromJWTClaims(claims JWTClaims) *Principal {
	groups := sortedCopy(claims.Groups)
	if claims.Subject == "" || len(groups) == 0 {
		return AnonymousPrincipal()
	}
	return &Principal{
		UserID:                   claims.Subject,
		Email:                    claims.Email,
		Groups:                   groups,
		EmploymentStoreCodes:     sortedCopy(claims.EmploymentStoreCodes),
		EmploymentFranchiseCodes: sortedCopy(claims.EmploymentFranchiseCodes),
		Role:                     dominantRole(groups),
		Authenticated:            true,
	}
}

// FromAPIKeyContext normalizes an API-key identity into a Principal. A key
// without explicit groups defaults to ApiClient. Employment sets stay empty
// always: an API-key principal never satisfies a hierarchy requirement.
func FromAPIKeyContext(ctx APIKeyContext) *Principal {
	if ctx.KeyID == "" {
		return AnonymousPrincipal()
	}
	groups := sortedCopy(ctx.Groups)
	if len(groups) == 0 {
		groups = []string{GroupAPIClient}
	}
	return &Principal{
		UserID:        "api-key:" + ctx.KeyID,
		Email:         ctx.ClientName,
		Groups:        groups,
		Role:          dominantRole(groups),
		Authenticated: true,
	}
}

// AnonymousPrincipal is the unauthenticated identity. Every evaluation
// against it denies with "authentication required".
func AnonymousPrincipal() *Principal {
	return &Principal{Role: "", Authenticated: false}
}
