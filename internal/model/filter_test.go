package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicketFilterApply(t *testing.T) {
	tickets := []Ticket{
		{ID: "a", Status: StatusOpen, Priority: PriorityHigh, Category: CategoryBug},
		{ID: "b", Status: StatusClosed, Priority: PriorityHigh, Category: CategoryBilling},
		{ID: "c", Status: StatusOpen, Priority: PriorityLow, Category: CategoryBug},
	}

	t.Run("zero filter returns input unchanged", func(t *testing.T) {
		got := TicketFilter{}.Apply(tickets)
		assert.Equal(t, tickets, got)
	})

	t.Run("single field", func(t *testing.T) {
		got := TicketFilter{Status: "open"}.Apply(tickets)
		assert.Len(t, got, 2)
		assert.Equal(t, "a", got[0].ID)
		assert.Equal(t, "c", got[1].ID)
	})

	t.Run("fields combine with AND", func(t *testing.T) {
		got := TicketFilter{Status: "open", Priority: "high"}.Apply(tickets)
		assert.Len(t, got, 1)
		assert.Equal(t, "a", got[0].ID)
	})

	t.Run("no match", func(t *testing.T) {
		got := TicketFilter{Category: "feature-request"}.Apply(tickets)
		assert.Empty(t, got)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, TicketFilter{Status: "open"}.Apply(nil))
	})
}

func TestTicketFilterIsZero(t *testing.T) {
	assert.True(t, TicketFilter{}.IsZero())
	assert.False(t, TicketFilter{Priority: "low"}.IsZero())
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, Role("agent").Valid())
	assert.False(t, Role("superuser").Valid())
	assert.True(t, TicketStatus("pending").Valid())
	assert.False(t, TicketStatus("reopened").Valid())
	assert.True(t, TicketPriority("urgent").Valid())
	assert.False(t, TicketPriority("critical").Valid())
	assert.True(t, TicketCategory("feature-request").Valid())
	assert.False(t, TicketCategory("other").Valid())
}
