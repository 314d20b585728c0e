/*
Package extract defines the boundary to the receipt extraction
collaborator.

The engine never performs optical extraction itself; an external service
looks at a photographed receipt and proposes candidate field values. The
proposal is plain untrusted input: whatever comes back is merged into a
draft entry and validated exactly like manually typed values
(ledger.ApplySuggestion).
*/
package extract

import (
	"context"

	"github.com/pagotrack/payment-engine/ledger"
)

// Extractor produces a field suggestion from an encoded receipt image.
type Extractor interface {
	// Extract inspects the image and returns candidate amount/date
	// values. Either or both fields may be absent.
	Extract(ctx context.Context, imageData string) (ledger.Suggestion, error)
}

// Disabled is the no-op extractor used when no collaborator is
// configured. It always returns an empty suggestion.
type Disabled struct{}

func (Disabled) Extract(context.Context, string) (ledger.Suggestion, error) {
	return ledger.Suggestion{}, nil
}
