package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/helpdeskmini/webclient/internal/model"
)

func TestInitials(t *testing.T) {
	assert.Equal(t, "AL", initials("Ada Lovelace"))
	assert.Equal(t, "A", initials("ada"))
	assert.Equal(t, "JWD", initials("john w doe"))
	assert.Equal(t, "", initials(""))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exact", truncate("exact", 5))
	assert.Equal(t, "abc...", truncate("abcdef", 3))
	assert.Equal(t, "héll...", truncate("héllo wörld", 4))
}

func TestClampRunes(t *testing.T) {
	assert.Equal(t, "abc", clampRunes("abc", 5))
	assert.Equal(t, "abcde", clampRunes("abcdefgh", 5))
	assert.Equal(t, "héllo", clampRunes("héllo wörld", 5))
}

func TestTitleize(t *testing.T) {
	assert.Equal(t, "Open", titleize("open"))
	assert.Equal(t, "Feature-request", titleize("feature-request"))
	assert.Equal(t, "", titleize(""))
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "-", formatMinutes(0))
	assert.Equal(t, "45m", formatMinutes(45))
	assert.Equal(t, "2h", formatMinutes(120))
	assert.Equal(t, "1h 30m", formatMinutes(90))
}

func TestAssigneeName(t *testing.T) {
	assert.Equal(t, "Unassigned", assigneeName(nil))
	assert.Equal(t, "Grace", assigneeName(&model.User{Name: "Grace"}))
}

func TestSummarize(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	soon := now.Add(time.Hour)
	far := now.Add(48 * time.Hour)

	tickets := []model.Ticket{
		{Status: model.StatusOpen, SLADeadline: &soon},
		{Status: model.StatusOpen, SLADeadline: &far},
		{Status: model.StatusPending},
		{Status: model.StatusResolved},
		{Status: model.StatusClosed},
	}

	s := summarize(tickets, now)
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 2, s.Open)
	assert.Equal(t, 1, s.Pending)
	assert.Equal(t, 2, s.Resolved, "resolved and closed both count")
	assert.Equal(t, 1, s.Warning)

	assert.Equal(t, ticketSummary{}, summarize(nil, now))
}
