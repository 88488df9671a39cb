package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesIsPlainSubstring(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		term   string
		want   bool
	}{
		{"empty term matches all", []string{"Nokia105"}, "", true},
		{"case is ignored", []string{"Tempered Glass"}, "GLASS", true},
		{"space is part of the term", []string{"Nokia105"}, " ", false},
		{"space found", []string{"Nokia 105"}, " ", true},
		{"leading space kept", []string{"Glass"}, " glass", false},
		{"leading space matched", []string{"Tempered Glass"}, " glass", true},
		{"any field", []string{"Screen", "Display"}, "play", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.fields, tt.term))
		})
	}
}
