package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindSimilar(t *testing.T) {
	formats := []string{"text", "json", "lsp"}

	tests := []struct {
		target string
		want   []string
	}{
		{"lps", []string{"lsp"}},
		{"JSON", []string{"json"}},
		{"jsn", []string{"json", "lsp"}},
		{"tex", []string{"text"}},
		{"protobuf", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, FindSimilar(tt.target, formats, 0))
		})
	}
}

func TestFindSimilarOrdersByDistance(t *testing.T) {
	got := FindSimilar("cat", []string{"cart", "cast", "cat", "dog"}, 1)
	assert.Equal(t, []string{"cat", "cart", "cast"}, got)
}
