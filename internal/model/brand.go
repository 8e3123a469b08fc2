package model

import "time"

// Plan tiers and account states for B2B brand accounts.
const (
	PlanStarter    = "starter"
	PlanPro        = "pro"
	PlanEnterprise = "enterprise"

	BrandActive    = "active"
	BrandInactive  = "inactive"
	BrandSuspended = "suspended"
)

// Brand is a B2B catalog tenant.  Unlike the user-scoped tables, brand
// rows carry no per-row owner restriction in the schema; mutation is
// role-gated instead.
type Brand struct {
	ID                   uint64    // brands.id
	Name                 string    // brands.name
	ShopifyDomain        *string   // brands.shopify_domain (unique, nullable)
	PlanTier             string    // brands.plan_tier
	MonthlyAvatarLimit   uint32    // brands.monthly_avatar_limit
	AvatarsUsedThisMonth uint32    // brands.avatars_used_this_month
	BillingEmail         *string   // brands.billing_email
	StripeCustomerID     *string   // brands.stripe_customer_id
	Status               string    // brands.status
	CreatedAt            time.Time // brands.created_at
	UpdatedAt            time.Time // brands.updated_at
}

// ValidPlanTier reports whether t is an accepted plan_tier value.
func ValidPlanTier(t string) bool {
	return t == PlanStarter || t == PlanPro || t == PlanEnterprise
}

// ValidBrandStatus reports whether s is an accepted brands.status value.
func ValidBrandStatus(s string) bool {
	return s == BrandActive || s == BrandInactive || s == BrandSuspended
}
