package session_test

import (
	"testing"

	"github.com/corray333/backend-labs/status/internal/service/models/session"
	"github.com/stretchr/testify/assert"
)

func TestActorLabel(t *testing.T) {
	tests := []struct {
		name string
		sess session.Session
		want string
	}{
		{"admin", session.Session{AdminID: 7, AdminName: "Alex"}, "Alex [7]"},
		{"admin with empty name", session.Session{AdminID: 7}, " [7]"},
		{"customer", session.Session{CustomerID: 9}, ""},
		{"nobody", session.Session{}, session.UnknownActor},
		{"admin wins over customer", session.Session{AdminID: 7, AdminName: "Alex", CustomerID: 9}, "Alex [7]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sess.ActorLabel())
		})
	}
}

func TestPresence(t *testing.T) {
	assert.True(t, session.Session{AdminID: 1}.AdminPresent())
	assert.False(t, session.Session{}.AdminPresent())
	assert.False(t, session.Session{AdminID: -1}.AdminPresent())

	assert.True(t, session.Session{CustomerID: 1}.CustomerPresent())
	assert.False(t, session.Session{}.CustomerPresent())
}
