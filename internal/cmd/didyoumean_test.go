package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"courses", "courses", 0},
		{"copurses", "courses", 1},
		{"submit", "sumbit", 2},
		{"kitten", "sitting", 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, levenshtein(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}

func TestSuggestCommand(t *testing.T) {
	commands := []string{"setup", "courses", "assessments", "scores", "submit", "download"}
	assert.Equal(t, "courses", suggestCommand("copurses", commands))
	assert.Equal(t, "submit", suggestCommand("sumbit", commands))
	assert.Equal(t, "", suggestCommand("zzzzzzzzz", commands))
}

func TestSuggestFlag(t *testing.T) {
	flagNames := []string{"--query", "--output", "--debug", "--quiet"}
	assert.Equal(t, "--query", suggestFlag("--quert", flagNames))
	assert.Equal(t, "--output", suggestFlag("--otput", flagNames))
	assert.Equal(t, "", suggestFlag("--", flagNames))
}
