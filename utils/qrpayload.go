package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// QR payload format printed on order cards:
//
//	order_id:<integer>,customer_name:<string>
//
// Scanning only needs the order id back; the name is a human-readable
// fallback when lookup fails.

// BuildQRPayload encodes an order id and customer name into the QR payload string
func BuildQRPayload(orderID uint, customerName string) string {
	return fmt.Sprintf("order_id:%d,customer_name:%s", orderID, customerName)
}

// ParseQRPayload extracts the order id (and customer name, when present) from
// a scanned payload string
func ParseQRPayload(payload string) (orderID uint, customerName string, err error) {
	const idPrefix = "order_id:"
	const namePrefix = "customer_name:"

	if !strings.HasPrefix(payload, idPrefix) {
		return 0, "", fmt.Errorf("not an order QR payload")
	}

	rest := payload[len(idPrefix):]
	idPart := rest
	if i := strings.Index(rest, ","); i >= 0 {
		idPart = rest[:i]
		tail := rest[i+1:]
		if strings.HasPrefix(tail, namePrefix) {
			customerName = tail[len(namePrefix):]
		}
	}

	id, err := strconv.ParseUint(strings.TrimSpace(idPart), 10, 32)
	if err != nil {
		return 0, "", fmt.Errorf("invalid order id in QR payload: %w", err)
	}

	return uint(id), customerName, nil
}
