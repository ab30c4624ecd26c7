package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPluralize(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		singular string
		plural   string
		want     string
	}{
		{
			name:     "zero returns plural",
			count:    0,
			singular: "connection",
			plural:   "connections",
			want:     "connections",
		},
		{
			name:     "one returns singular",
			count:    1,
			singular: "connection",
			plural:   "connections",
			want:     "connection",
		},
		{
			name:     "two returns plural",
			count:    2,
			singular: "connection",
			plural:   "connections",
			want:     "connections",
		},
		{
			name:     "negative returns plural",
			count:    -1,
			singular: "connection",
			plural:   "connections",
			want:     "connections",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Pluralize(tt.count, tt.singular, tt.plural)
			assert.Equal(t, tt.want, got)
		})
	}
}
