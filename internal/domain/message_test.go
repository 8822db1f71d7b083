package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessage_Preview(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"empty", "", ""},
		{"short", "hello", "hello"},
		{"exactly at limit", strings.Repeat("x", 30), strings.Repeat("x", 30)},
		{"truncated", strings.Repeat("x", 31), strings.Repeat("x", 30)},
		{"multibyte counts runes not bytes", strings.Repeat("я", 40), strings.Repeat("я", 30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Message{Content: tt.content}
			assert.Equal(t, tt.want, m.Preview())
		})
	}
}
