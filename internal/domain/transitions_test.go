package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextStatus_AllowedTransitions(t *testing.T) {
	tests := []struct {
		name  string
		from  BookingStatus
		event Event
		role  Role
		want  BookingStatus
	}{
		{"resident accepts terms", StatusPendingTerms, EventAcceptTerms, RoleResident, StatusPending},
		{"resident cancels pending_terms", StatusPendingTerms, EventCancel, RoleResident, StatusCancelled},
		{"resident cancels pending", StatusPending, EventCancel, RoleResident, StatusCancelled},
		{"resident updates items", StatusPending, EventUpdateItems, RoleResident, StatusPending},
		{"admin updates items", StatusPending, EventUpdateItems, RoleAdmin, StatusPending},
		{"resident updates slots", StatusPending, EventUpdateSlots, RoleResident, StatusPending},
		{"admin approves pending", StatusPending, EventApprove, RoleAdmin, StatusApproved},
		{"admin rejects pending", StatusPending, EventReject, RoleAdmin, StatusRejected},
		{"admin completes approved", StatusApproved, EventComplete, RoleAdmin, StatusCompleted},
		{"admin updates payment on pending", StatusPending, EventUpdatePayment, RoleAdmin, StatusPending},
		{"admin updates payment on approved", StatusApproved, EventUpdatePayment, RoleAdmin, StatusApproved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := NextStatus(tt.from, tt.event, tt.role)
			assert.True(t, ok)
			assert.Equal(t, tt.want, next)
		})
	}
}

func TestNextStatus_ForbiddenTransitions(t *testing.T) {
	tests := []struct {
		name  string
		from  BookingStatus
		event Event
		role  Role
	}{
		{"resident cannot approve", StatusPending, EventApprove, RoleResident},
		{"resident cannot reject", StatusPending, EventReject, RoleResident},
		{"resident cannot complete", StatusApproved, EventComplete, RoleResident},
		{"admin cannot approve before terms", StatusPendingTerms, EventApprove, RoleAdmin},
		{"cannot cancel approved", StatusApproved, EventCancel, RoleResident},
		{"cannot update items before terms", StatusPendingTerms, EventUpdateItems, RoleResident},
		{"cannot update slots on approved", StatusApproved, EventUpdateSlots, RoleResident},
		{"cannot complete pending", StatusPending, EventComplete, RoleAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := NextStatus(tt.from, tt.event, tt.role)
			assert.False(t, ok)
		})
	}
}

func TestNextStatus_TerminalStatusesAreImmutable(t *testing.T) {
	events := []Event{
		EventAcceptTerms, EventCancel, EventUpdateItems, EventUpdateSlots,
		EventApprove, EventReject, EventComplete, EventUpdatePayment,
	}
	roles := []Role{RoleResident, RoleAdmin}

	for _, status := range TerminalStatuses {
		for _, event := range events {
			for _, role := range roles {
				_, ok := NextStatus(status, event, role)
				assert.False(t, ok, "transition (%s, %s, %s) must be forbidden", status, event, role)
			}
		}
	}
}
