package service

import "github.com/storefront-kit/cart-service/internal/domain/entity"

// CartAction is the closed set of cart mutations the orchestrator performs.
// Each variant carries its own typed payload; dispatch is an exhaustive type
// switch rather than a string tag.
type CartAction interface {
	isCartAction()
}

// AddLines adds lines to the session cart, creating the cart first when the
// session holds no cart id.
type AddLines struct {
	Lines         []entity.CartLineInput
	BuyerIdentity *entity.BuyerIdentity
}

// UpdateLines changes quantities or attributes of existing lines.
type UpdateLines struct {
	Lines []entity.CartLineUpdateInput
}

// RemoveLines removes lines by their line ids.
type RemoveLines struct {
	LineIDs []string
}

// UpdateDiscountCodes replaces the cart's discount codes. An empty set clears
// them.
type UpdateDiscountCodes struct {
	Codes []string
}

// UpdateBuyerIdentity sets buyer fields, creating a cart when none exists
// instead of erroring.
type UpdateBuyerIdentity struct {
	Identity entity.BuyerIdentity
}

func (AddLines) isCartAction()            {}
func (UpdateLines) isCartAction()         {}
func (RemoveLines) isCartAction()         {}
func (UpdateDiscountCodes) isCartAction() {}
func (UpdateBuyerIdentity) isCartAction() {}
