package checkout

import (
	"context"
	"fmt"
)

// ValidateAvailability checks every line item against current stock and
// fails fast on the first violation, exactly in input order. Stock is not
// locked here: a concurrent order can still pass the same check before the
// decrements land.
func ValidateAvailability(ctx context.Context, products ProductRepo, items []ItemInput) error {
	for _, it := range items {
		p, err := products.Get(ctx, it.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return &ValidationError{Message: fmt.Sprintf("Producto con id %s no encontrado", it.ProductID)}
		}
		if p.Stock < it.Quantity {
			return &ValidationError{Message: fmt.Sprintf("Producto %s no tiene suficiente stock", p.Name)}
		}
	}
	return nil
}
