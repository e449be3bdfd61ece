package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicketOwnedBy(t *testing.T) {
	ticket := Ticket{ID: 1, AdminID: 9}

	assert.True(t, ticket.OwnedBy(9))
	assert.False(t, ticket.OwnedBy(10))
}

func TestUserDisplayName(t *testing.T) {
	user := User{FirstName: "Jane", Surname: "Doe"}

	assert.Equal(t, "Jane Doe", user.DisplayName())
}
