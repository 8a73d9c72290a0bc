package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundingBox_Geometry(t *testing.T) {
	box := BoundingBox{Top: 10, Right: 110, Bottom: 110, Left: 10}

	assert.Equal(t, 100, box.Width())
	assert.Equal(t, 100, box.Height())
	assert.Equal(t, 10000, box.Area())
	assert.True(t, box.Valid())
}

func TestBoundingBox_Valid(t *testing.T) {
	tests := []struct {
		name string
		box  BoundingBox
		want bool
	}{
		{"positive area", BoundingBox{Top: 0, Right: 10, Bottom: 10, Left: 0}, true},
		{"zero width", BoundingBox{Top: 0, Right: 5, Bottom: 10, Left: 5}, false},
		{"zero height", BoundingBox{Top: 5, Right: 10, Bottom: 5, Left: 0}, false},
		{"inverted", BoundingBox{Top: 10, Right: 0, Bottom: 0, Left: 10}, false},
		{"empty", BoundingBox{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.box.Valid())
		})
	}
}
