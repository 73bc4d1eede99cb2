// README: Third-party supplier gateway contract.
package quote

import "context"

// SupplierGateway fetches transfer offers from one external supplier. A
// failing gateway contributes nothing to the result; it never fails the
// search.
type SupplierGateway interface {
	Name() string
	Fetch(ctx context.Context, req SearchRequest) ([]SupplierOffer, error)
}
