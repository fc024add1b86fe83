package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"demo@wisharea.com", true},
		{" demo@wisharea.com ", true},
		{"first.last+tag@example.co.uk", true},
		{"", false},
		{"not an email", false},
		{"a@", false},
		{"@wisharea.com", false},
		{"Demo <demo@wisharea.com>", false},
		{"<demo@wisharea.com>", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidEmail(tt.in))
		})
	}
}
