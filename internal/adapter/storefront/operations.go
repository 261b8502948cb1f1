package storefront

import (
	"context"
	"fmt"

	"github.com/storefront-kit/cart-service/internal/domain/entity"
)

// CartInput is the cartCreate input object. Lines and buyer identity are both
// optional: identity-only creation backs the update-buyer-identity path when
// no cart exists yet.
type CartInput struct {
	Lines         []entity.CartLineInput `json:"lines,omitempty"`
	BuyerIdentity *entity.BuyerIdentity  `json:"buyerIdentity,omitempty"`
}

// wireCart is the connection-shaped cart as the API returns it.
type wireCart struct {
	ID            string `json:"id"`
	TotalQuantity int    `json:"totalQuantity"`
	Lines         struct {
		Edges []struct {
			Node entity.CartLine `json:"node"`
		} `json:"edges"`
	} `json:"lines"`
}

func (w *wireCart) toEntity() *entity.Cart {
	if w == nil {
		return nil
	}
	cart := &entity.Cart{
		ID:            w.ID,
		TotalQuantity: w.TotalQuantity,
		Lines:         make([]entity.CartLine, 0, len(w.Lines.Edges)),
	}
	for _, edge := range w.Lines.Edges {
		cart.Lines = append(cart.Lines, edge.Node)
	}
	return cart
}

type cartPayload struct {
	Cart       *wireCart          `json:"cart"`
	UserErrors []entity.UserError `json:"userErrors"`
}

func (p cartPayload) result() (*entity.Cart, []entity.UserError, error) {
	return p.Cart.toEntity(), p.UserErrors, nil
}

func (c *Client) buildDocuments() {
	fragment := fmt.Sprintf(`fragment CartFields on Cart {
  id
  totalQuantity
  lines(first: %d) {
    edges {
      node {
        id
        quantity
        merchandise {
          ... on ProductVariant {
            id
          }
        }
      }
    }
  }
}`, c.pageSize)

	c.docCartQuery = `query cart($id: ID!) {
  cart(id: $id) {
    ...CartFields
  }
}
` + fragment

	c.docCartCreate = `mutation cartCreate($input: CartInput!) {
  cartCreate(input: $input) {
    cart {
      ...CartFields
    }
    userErrors {
      field
      message
      code
    }
  }
}
` + fragment

	c.docCartLinesAdd = `mutation cartLinesAdd($cartId: ID!, $lines: [CartLineInput!]!) {
  cartLinesAdd(cartId: $cartId, lines: $lines) {
    cart {
      ...CartFields
    }
    userErrors {
      field
      message
      code
    }
  }
}
` + fragment

	c.docCartLinesUpdate = `mutation cartLinesUpdate($cartId: ID!, $lines: [CartLineUpdateInput!]!) {
  cartLinesUpdate(cartId: $cartId, lines: $lines) {
    cart {
      ...CartFields
    }
    userErrors {
      field
      message
      code
    }
  }
}
` + fragment

	c.docCartLinesRemove = `mutation cartLinesRemove($cartId: ID!, $lineIds: [ID!]!) {
  cartLinesRemove(cartId: $cartId, lineIds: $lineIds) {
    cart {
      ...CartFields
    }
    userErrors {
      field
      message
      code
    }
  }
}
` + fragment

	c.docCartDiscountCodesUpdate = `mutation cartDiscountCodesUpdate($cartId: ID!, $discountCodes: [String!]) {
  cartDiscountCodesUpdate(cartId: $cartId, discountCodes: $discountCodes) {
    cart {
      ...CartFields
    }
    userErrors {
      field
      message
      code
    }
  }
}
` + fragment

	c.docCartBuyerIdentityUpdate = `mutation cartBuyerIdentityUpdate($cartId: ID!, $buyerIdentity: CartBuyerIdentityInput!) {
  cartBuyerIdentityUpdate(cartId: $cartId, buyerIdentity: $buyerIdentity) {
    cart {
      ...CartFields
    }
    userErrors {
      field
      message
      code
    }
  }
}
` + fragment
}

// CartFetch reads the cart uncached. Used for the before snapshot of the
// add-to-existing-cart path.
func (c *Client) CartFetch(ctx context.Context, cartID string) (*entity.Cart, error) {
	var resp struct {
		Cart *wireCart `json:"cart"`
	}
	if err := c.Query(ctx, c.docCartQuery, map[string]any{"id": cartID}, &resp); err != nil {
		return nil, err
	}
	if resp.Cart == nil {
		return nil, fmt.Errorf("cart %s not found", cartID)
	}
	return resp.Cart.toEntity(), nil
}

func (c *Client) CartCreate(ctx context.Context, input CartInput) (*entity.Cart, []entity.UserError, error) {
	var resp struct {
		CartCreate cartPayload `json:"cartCreate"`
	}
	if err := c.Mutate(ctx, c.docCartCreate, map[string]any{"input": input}, &resp); err != nil {
		return nil, nil, err
	}
	return resp.CartCreate.result()
}

func (c *Client) CartLinesAdd(ctx context.Context, cartID string, lines []entity.CartLineInput) (*entity.Cart, []entity.UserError, error) {
	var resp struct {
		CartLinesAdd cartPayload `json:"cartLinesAdd"`
	}
	vars := map[string]any{"cartId": cartID, "lines": lines}
	if err := c.Mutate(ctx, c.docCartLinesAdd, vars, &resp); err != nil {
		return nil, nil, err
	}
	return resp.CartLinesAdd.result()
}

func (c *Client) CartLinesUpdate(ctx context.Context, cartID string, lines []entity.CartLineUpdateInput) (*entity.Cart, []entity.UserError, error) {
	var resp struct {
		CartLinesUpdate cartPayload `json:"cartLinesUpdate"`
	}
	vars := map[string]any{"cartId": cartID, "lines": lines}
	if err := c.Mutate(ctx, c.docCartLinesUpdate, vars, &resp); err != nil {
		return nil, nil, err
	}
	return resp.CartLinesUpdate.result()
}

func (c *Client) CartLinesRemove(ctx context.Context, cartID string, lineIDs []string) (*entity.Cart, []entity.UserError, error) {
	var resp struct {
		CartLinesRemove cartPayload `json:"cartLinesRemove"`
	}
	vars := map[string]any{"cartId": cartID, "lineIds": lineIDs}
	if err := c.Mutate(ctx, c.docCartLinesRemove, vars, &resp); err != nil {
		return nil, nil, err
	}
	return resp.CartLinesRemove.result()
}

func (c *Client) CartDiscountCodesUpdate(ctx context.Context, cartID string, codes []string) (*entity.Cart, []entity.UserError, error) {
	var resp struct {
		CartDiscountCodesUpdate cartPayload `json:"cartDiscountCodesUpdate"`
	}
	vars := map[string]any{"cartId": cartID, "discountCodes": codes}
	if err := c.Mutate(ctx, c.docCartDiscountCodesUpdate, vars, &resp); err != nil {
		return nil, nil, err
	}
	return resp.CartDiscountCodesUpdate.result()
}

func (c *Client) CartBuyerIdentityUpdate(ctx context.Context, cartID string, identity entity.BuyerIdentity) (*entity.Cart, []entity.UserError, error) {
	var resp struct {
		CartBuyerIdentityUpdate cartPayload `json:"cartBuyerIdentityUpdate"`
	}
	vars := map[string]any{"cartId": cartID, "buyerIdentity": identity}
	if err := c.Mutate(ctx, c.docCartBuyerIdentityUpdate, vars, &resp); err != nil {
		return nil, nil, err
	}
	return resp.CartBuyerIdentityUpdate.result()
}
