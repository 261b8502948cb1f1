package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/storefront-kit/cart-service/internal/domain/entity"
)

func TestOptimisticCart_NoOptimisticLines(t *testing.T) {
	lines := []entity.CartLine{
		cartLine("l1", "gid://shop/ProductVariant/1", 1),
	}

	result := OptimisticCart(lines, nil)

	assert.Empty(t, result.OptimisticLines)
	assert.Empty(t, result.OptimisticLinesNew)
}

func TestOptimisticCart_EmptyConfirmedCart_AllLinesNew(t *testing.T) {
	optimistic := []entity.CartLineInput{
		{MerchandiseID: "gid://shop/ProductVariant/1", Quantity: 1},
		{MerchandiseID: "gid://shop/ProductVariant/2", Quantity: 2},
	}

	result := OptimisticCart(nil, optimistic)

	assert.Equal(t, optimistic, result.OptimisticLines)
	assert.Equal(t, optimistic, result.OptimisticLinesNew)
}

func TestOptimisticCart_ConfirmedLineFiltersOverlay(t *testing.T) {
	lines := []entity.CartLine{
		cartLine("l1", "gid://shop/ProductVariant/1", 1),
	}
	optimistic := []entity.CartLineInput{
		{MerchandiseID: "gid://shop/ProductVariant/1", Quantity: 1},
		{MerchandiseID: "gid://shop/ProductVariant/2", Quantity: 1},
	}

	result := OptimisticCart(lines, optimistic)

	assert.Equal(t, optimistic, result.OptimisticLines)
	assert.Equal(t, optimistic[1:], result.OptimisticLinesNew)
}

func TestOptimisticCart_QuantityMismatchStillMatchesByMerchandise(t *testing.T) {
	lines := []entity.CartLine{
		cartLine("l1", "gid://shop/ProductVariant/1", 3),
	}
	optimistic := []entity.CartLineInput{
		{MerchandiseID: "gid://shop/ProductVariant/1", Quantity: 1},
	}

	result := OptimisticCart(lines, optimistic)

	assert.Equal(t, optimistic, result.OptimisticLines)
	assert.Empty(t, result.OptimisticLinesNew)
}

func TestOptimisticCart_DuplicateMerchandiseKeepsDistinctEntries(t *testing.T) {
	lines := []entity.CartLine{
		cartLine("l1", "gid://shop/ProductVariant/1", 1),
	}
	optimistic := []entity.CartLineInput{
		{MerchandiseID: "gid://shop/ProductVariant/1", Quantity: 1},
		{MerchandiseID: "gid://shop/ProductVariant/1", Quantity: 2},
	}

	result := OptimisticCart(lines, optimistic)

	assert.Equal(t, optimistic, result.OptimisticLines)
	assert.Equal(t, optimistic[1:], result.OptimisticLinesNew)
}

func TestOptimisticCart_DoesNotMutateInputs(t *testing.T) {
	lines := []entity.CartLine{
		cartLine("l1", "gid://shop/ProductVariant/1", 1),
	}
	optimistic := []entity.CartLineInput{
		{MerchandiseID: "gid://shop/ProductVariant/2", Quantity: 1},
	}

	result := OptimisticCart(lines, optimistic)
	result.OptimisticLines[0].Quantity = 99

	assert.Equal(t, 1, optimistic[0].Quantity)
}
