package history_test

import (
	"testing"

	"github.com/corray333/backend-labs/status/internal/service/models/history"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeNotify(t *testing.T) {
	tests := []struct {
		name    string
		notify  int
		subject string
		text    string
		want    int
	}{
		{"email with full content", history.NotifyEmail, "S", "T", history.NotifyEmail},
		{"email without subject downgrades", history.NotifyEmail, "", "T", history.NotifyVisible},
		{"email without body downgrades", history.NotifyEmail, "S", "", history.NotifyVisible},
		{"email without content downgrades", history.NotifyEmail, "", "", history.NotifyVisible},
		{"visible stays visible", history.NotifyVisible, "", "", history.NotifyVisible},
		{"visible with content stays visible", history.NotifyVisible, "S", "T", history.NotifyVisible},
		{"hidden stays hidden", history.NotifyHidden, "S", "T", history.NotifyHidden},
		{"unknown positive becomes hidden", 7, "S", "T", history.NotifyHidden},
		{"unknown negative becomes hidden", -2, "S", "T", history.NotifyHidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, history.NormalizeNotify(tt.notify, tt.subject, tt.text))
		})
	}
}

func TestNewComment(t *testing.T) {
	t.Run("nil is NULL", func(t *testing.T) {
		c := history.NewComment(nil)
		assert.False(t, c.Valid)
	})

	t.Run("empty string is not NULL", func(t *testing.T) {
		s := ""
		c := history.NewComment(&s)
		assert.True(t, c.Valid)
		assert.Equal(t, "", c.String)
	})

	t.Run("text is kept", func(t *testing.T) {
		s := "called the customer"
		c := history.NewComment(&s)
		assert.True(t, c.Valid)
		assert.Equal(t, s, c.String)
	})
}
