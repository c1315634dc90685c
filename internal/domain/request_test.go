package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    RequestStatus
		to      RequestStatus
		allowed bool
	}{
		{"pending to under consideration", RequestStatusPendingReview, RequestStatusUnderConsideration, true},
		{"pending to beyond capacity", RequestStatusPendingReview, RequestStatusBeyondCapacity, true},
		{"pending cannot skip to development", RequestStatusPendingReview, RequestStatusInDevelopment, false},
		{"under consideration to development", RequestStatusUnderConsideration, RequestStatusInDevelopment, true},
		{"under consideration cannot complete", RequestStatusUnderConsideration, RequestStatusCompleted, false},
		{"development to testing", RequestStatusInDevelopment, RequestStatusInTesting, true},
		{"testing back to development", RequestStatusInTesting, RequestStatusInDevelopment, true},
		{"testing to completed", RequestStatusInTesting, RequestStatusCompleted, true},
		{"completed is terminal", RequestStatusCompleted, RequestStatusUnderConsideration, false},
		{"completed cannot be shelved", RequestStatusCompleted, RequestStatusBeyondCapacity, false},
		{"beyond capacity can be reopened", RequestStatusBeyondCapacity, RequestStatusUnderConsideration, true},
		{"beyond capacity cannot jump to testing", RequestStatusBeyondCapacity, RequestStatusInTesting, false},
		{"no self transition", RequestStatusInDevelopment, RequestStatusInDevelopment, false},
		{"unknown source", RequestStatus("ARCHIVED"), RequestStatusPendingReview, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestCanTransitionBeyondCapacityReachableFromNonTerminal(t *testing.T) {
	active := []RequestStatus{
		RequestStatusPendingReview,
		RequestStatusUnderConsideration,
		RequestStatusInDevelopment,
		RequestStatusInTesting,
	}
	for _, from := range active {
		assert.True(t, CanTransition(from, RequestStatusBeyondCapacity), "from %s", from)
	}
}

func TestValidRequestStatus(t *testing.T) {
	assert.True(t, ValidRequestStatus(RequestStatusPendingReview))
	assert.True(t, ValidRequestStatus(RequestStatusBeyondCapacity))
	assert.False(t, ValidRequestStatus(RequestStatus("OPEN")))
	assert.False(t, ValidRequestStatus(RequestStatus("")))
}

func TestUserIsAdmin(t *testing.T) {
	admin := &User{Role: RoleAdmin}
	user := &User{Role: RoleUser}
	var nilUser *User

	assert.True(t, admin.IsAdmin())
	assert.False(t, user.IsAdmin())
	assert.False(t, nilUser.IsAdmin())
}
