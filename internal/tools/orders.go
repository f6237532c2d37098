package tools

import (
	"context"
	"crypto/sha256"
)

// orderStages is the deterministic mock status progression. Which stage an
// order lands on is keyed by a hash of its number, so repeated lookups for
// the same order agree.
var orderStages = []struct {
	status string
	detail string
}{
	{"processing", "Your order is being prepared."},
	{"shipped", "Your order is on the way."},
	{"in_transit", "Carrier has your package."},
	{"out_for_delivery", "Out for delivery today."},
	{"delivered", "Delivered at destination."},
}

// LookupOrderStatus returns the status record for an order number. This is
// the non-production mock: deterministic, keyed by SHA-256 of the number.
func LookupOrderStatus(orderNumber string) map[string]any {
	if orderNumber == "" {
		return map[string]any{"found": false}
	}

	sum := sha256.Sum256([]byte(orderNumber))
	// Fold the digest into a stage index.
	var acc uint64
	for _, b := range sum {
		acc = acc*31 + uint64(b)
	}
	stage := orderStages[acc%uint64(len(orderStages))]

	return map[string]any{
		"found":        true,
		"order_number": orderNumber,
		"status":       stage.status,
		"detail":       stage.detail,
	}
}

// OrderStatusTool exposes LookupOrderStatus through the registry.
type OrderStatusTool struct{}

func (OrderStatusTool) Name() string { return NameLookupOrderStatus }
func (OrderStatusTool) Description() string {
	return "Look up the shipping status of an order by its order number."
}
func (OrderStatusTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"order_number": map[string]any{
				"type":        "string",
				"description": "The order number to look up",
			},
		},
		"required": []string{"order_number"},
	}
}
func (OrderStatusTool) Execute(_ context.Context, args map[string]any) (any, error) {
	return LookupOrderStatus(stringArg(args, "order_number")), nil
}
