// Package sla classifies tickets against their service-level deadline.
package sla

import "time"

// Status is the three-way SLA classification rendered next to a ticket.
type Status string

const (
	StatusNormal   Status = "normal"
	StatusWarning  Status = "warning"
	StatusBreached Status = "breached"
)

// WarningWindow is how close to the deadline a ticket turns into a warning.
const WarningWindow = 2 * time.Hour

// Classify maps a deadline and a clock reading to an SLA status. A nil
// deadline means no SLA is tracked and always classifies as normal. The
// caller supplies now; views call this on every render so the same ticket
// may classify differently a minute later, which is intended.
func Classify(deadline *time.Time, now time.Time) Status {
	if deadline == nil {
		return StatusNormal
	}
	remaining := deadline.Sub(now)
	switch {
	case remaining < 0:
		return StatusBreached
	case remaining < WarningWindow:
		return StatusWarning
	default:
		return StatusNormal
	}
}
