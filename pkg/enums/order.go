package enums

import "strings"

const (
	// OrderStatusCreated is assigned when a client omits the status.
	OrderStatusCreated = "CREATED"
	// OrderChannelPOS is assigned when a client omits the channel.
	OrderChannelPOS = "POS"
)

// OrDefault returns the trimmed value, or fallback when it is blank.
func OrDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
