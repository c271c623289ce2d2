package enums

// TicketStatus tracks a support ticket's lifecycle.
type TicketStatus string

const (
	TicketStatusOpen   TicketStatus = "open"
	TicketStatusClosed TicketStatus = "closed"
)

// IsValid reports whether the value is a known TicketStatus.
func (t TicketStatus) IsValid() bool {
	return t == TicketStatusOpen || t == TicketStatusClosed
}
