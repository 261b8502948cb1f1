package service

import (
	"strconv"

	"github.com/storefront-kit/cart-service/internal/diff"
	"github.com/storefront-kit/cart-service/internal/domain/entity"
)

// OptimisticResult is a render-ready overlay of in-flight line additions on
// top of the last confirmed cart state.
type OptimisticResult struct {
	OptimisticLines    []entity.CartLineInput `json:"optimisticLines"`
	OptimisticLinesNew []entity.CartLineInput `json:"optimisticLinesNew"`
}

// OptimisticCart computes the overlay for lines currently being submitted but
// not yet confirmed. OptimisticLinesNew keeps only the genuinely new entries,
// so a renderer never shows a duplicate row while an optimistic line
// transitions to a confirmed one. Pure function of its inputs; neither slice
// is mutated.
func OptimisticCart(lines []entity.CartLine, optimisticLines []entity.CartLineInput) OptimisticResult {
	if len(optimisticLines) == 0 {
		return OptimisticResult{}
	}

	result := OptimisticResult{
		OptimisticLines: append([]entity.CartLineInput(nil), optimisticLines...),
	}
	if len(lines) == 0 {
		result.OptimisticLinesNew = append([]entity.CartLineInput(nil), optimisticLines...)
		return result
	}

	// Index the diff ids so added entries map back to the original inputs
	// even when merchandise ids repeat.
	next := make([]diff.Line, 0, len(optimisticLines))
	for i, line := range optimisticLines {
		next = append(next, diff.Line{
			ID:            strconv.Itoa(i),
			MerchandiseID: line.MerchandiseID,
			Quantity:      line.Quantity,
		})
	}

	for _, added := range diff.Added(toDiffLines(lines), next, diff.SameMerchandise) {
		i, err := strconv.Atoi(added.ID)
		if err != nil {
			continue
		}
		result.OptimisticLinesNew = append(result.OptimisticLinesNew, optimisticLines[i])
	}
	return result
}
