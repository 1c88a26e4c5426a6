package checkout

import (
	"context"

	"github.com/google/uuid"
)

// ResolveCustomer returns the id of the customer owning the given email,
// creating one when absent. An existing first name is never overwritten.
// Concurrent calls for the same new email can race; the unique constraint
// on email makes the loser fail its transaction.
func ResolveCustomer(ctx context.Context, customers CustomerRepo, email, firstName string) (string, error) {
	c, err := customers.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if c != nil {
		return c.ID, nil
	}

	nc := &Customer{
		ID:        uuid.NewString(),
		FirstName: firstName,
		Email:     email,
	}
	if err := customers.Insert(ctx, nc); err != nil {
		return "", err
	}
	return nc.ID, nil
}
