package model

// TicketFilter narrows an already-fetched ticket list on the client. The
// backend scopes the list by role; filtering here never triggers a refetch.
// Empty fields match everything.
type TicketFilter struct {
	Status   string
	Priority string
	Category string
}

// IsZero reports whether no filter is active.
func (f TicketFilter) IsZero() bool {
	return f.Status == "" && f.Priority == "" && f.Category == ""
}

// Match reports whether the ticket passes every active field.
func (f TicketFilter) Match(t Ticket) bool {
	if f.Status != "" && string(t.Status) != f.Status {
		return false
	}
	if f.Priority != "" && string(t.Priority) != f.Priority {
		return false
	}
	if f.Category != "" && string(t.Category) != f.Category {
		return false
	}
	return true
}

// Apply returns the tickets that pass the filter, preserving order. The
// input slice is never modified.
func (f TicketFilter) Apply(tickets []Ticket) []Ticket {
	if f.IsZero() {
		return tickets
	}
	out := make([]Ticket, 0, len(tickets))
	for _, t := range tickets {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}
