package model

import "time"

// Funnel stages for a try-on session.  The action column holds the latest
// stage reached, a single-value snapshot rather than a full event history.
const (
	ActionOpened      = "opened"
	ActionViewed      = "viewed"
	ActionTriedOn     = "tried_on"
	ActionAddedToCart = "added_to_cart"
	ActionPurchased   = "purchased"
)

// TryOnSession is an ephemeral analytics record for a product-page
// interaction.  The user reference is nullable on delete so session rows
// survive account deletion with the owner reference cleared.
//
// Fields:
//  ID              – primary key identifier.
//  UserID          – owning user, nil after the account is deleted.
//  SessionToken    – unique UUID token identifying the widget session.
//  ShopDomain      – storefront the widget was embedded in.
//  ProductID       – shop product identifier.
//  VariantID       – shop variant identifier.
//  GarmentID       – catalog garment being tried on, if known.
//  SizesViewed     – ordered list of sizes the user looked at (JSON array).
//  SizeRecommended – size suggested by the fit engine.
//  SizeSelected    – size the user settled on.
//  Action          – latest funnel stage.
//  CreatedAt       – creation timestamp.
type TryOnSession struct {
	ID              uint64    // tryon_sessions.id
	UserID          *string   // tryon_sessions.user_id (nullable)
	SessionToken    string    // tryon_sessions.session_token
	ShopDomain      *string   // tryon_sessions.shop_domain
	ProductID       *string   // tryon_sessions.product_id
	VariantID       *string   // tryon_sessions.variant_id
	GarmentID       *uint64   // tryon_sessions.garment_id (nullable)
	SizesViewed     []string  // tryon_sessions.sizes_viewed (JSON array)
	SizeRecommended *string   // tryon_sessions.size_recommended
	SizeSelected    *string   // tryon_sessions.size_selected
	Action          string    // tryon_sessions.action
	CreatedAt       time.Time // tryon_sessions.created_at
}

// ValidAction reports whether a is an accepted session action value.
func ValidAction(a string) bool {
	switch a {
	case ActionOpened, ActionViewed, ActionTriedOn, ActionAddedToCart, ActionPurchased:
		return true
	}
	return false
}
