package service

import (
	"strings"

	"github.com/storefront-kit/cart-service/internal/diff"
	"github.com/storefront-kit/cart-service/internal/domain/entity"
)

// reconcileLinesAdd compares the cart snapshots around a clean add-lines
// mutation and splits the requested lines into those reflected in the new
// cart and those the remote silently dropped. Every requested line lands in
// exactly one of the two sets, keyed by merchandise id.
func reconcileLinesAdd(adding []entity.CartLineInput, prevLines, currentLines []entity.CartLine) (*entity.LinesAddEvent, []entity.UserError) {
	added := diff.Added(toDiffLines(prevLines), toDiffLines(currentLines), diff.SameLine)

	addedMerchandise := make(map[string]bool, len(added))
	for _, line := range added {
		addedMerchandise[line.MerchandiseID] = true
	}

	var linesAdded, linesNotAdded []entity.CartLineInput
	for _, in := range adding {
		if addedMerchandise[in.MerchandiseID] {
			linesAdded = append(linesAdded, in)
		} else {
			linesNotAdded = append(linesNotAdded, in)
		}
	}

	var errs []entity.UserError
	for _, in := range linesNotAdded {
		errs = append(errs, entity.UserError{
			Code:    entity.UserErrorLineNotAdded,
			Message: merchandiseSuffix(in.MerchandiseID),
		})
	}

	return entity.NewLinesAddEvent(linesAdded, linesNotAdded), errs
}

func toDiffLines(lines []entity.CartLine) []diff.Line {
	out := make([]diff.Line, 0, len(lines))
	for _, line := range lines {
		out = append(out, diff.Line{
			ID:            line.ID,
			MerchandiseID: line.Merchandise.ID,
			Quantity:      line.Quantity,
		})
	}
	return out
}

// merchandiseSuffix extracts the human-meaningful tail of an opaque
// merchandise id, e.g. "1" from "gid://shop/ProductVariant/1".
func merchandiseSuffix(id string) string {
	if i := strings.LastIndex(id, "/"); i >= 0 && i+1 < len(id) {
		return id[i+1:]
	}
	return id
}
