package entity

import "errors"

// Attribute is a custom key/value pair attached to a cart line.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// CartLineInput is a line requested by the caller for create/add mutations.
// It is built per request and never persisted locally.
type CartLineInput struct {
	MerchandiseID string      `json:"merchandiseId"`
	Quantity      int         `json:"quantity"`
	Attributes    []Attribute `json:"attributes,omitempty"`
}

func (in CartLineInput) Validate() error {
	if in.MerchandiseID == "" {
		return errors.New("merchandise ID cannot be empty for cart line input")
	}
	if in.Quantity <= 0 {
		return errors.New("cart line quantity must be positive")
	}
	return nil
}

// CartLineUpdateInput targets an already persisted line by its id.
type CartLineUpdateInput struct {
	ID            string      `json:"id"`
	MerchandiseID string      `json:"merchandiseId,omitempty"`
	Quantity      int         `json:"quantity"`
	Attributes    []Attribute `json:"attributes,omitempty"`
}

type Merchandise struct {
	ID string `json:"id"`
}

// CartLine is a read-only snapshot of a line persisted by the remote commerce
// system. Line ids are stable once created.
type CartLine struct {
	ID          string      `json:"id"`
	Quantity    int         `json:"quantity"`
	Merchandise Merchandise `json:"merchandise"`
}

// Cart is a snapshot of the remote cart. The cart id is held in the caller's
// session; one cart id per session at a time.
type Cart struct {
	ID            string     `json:"id"`
	TotalQuantity int        `json:"totalQuantity"`
	Lines         []CartLine `json:"lines"`
}

// BuyerIdentity carries buyer fields passed through to the commerce API on
// cart creation and identity updates.
type BuyerIdentity struct {
	Email               string `json:"email,omitempty"`
	Phone               string `json:"phone,omitempty"`
	CountryCode         string `json:"countryCode,omitempty"`
	CustomerAccessToken string `json:"customerAccessToken,omitempty"`
}
