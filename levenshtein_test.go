package querypager

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_levenshtein(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"same alias", "created", "created", 0},
		{"missing letter", "nme", "name", 1},
		{"swapped letters", "naem", "name", 2},
		{"empty input", "", "cost", 4},
		{"empty candidate", "price", "", 5},
		{"prefix", "create", "created_at", 4},
		{"multibyte runes count once", "prïce", "price", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, levenshtein([]rune(tt.a), []rune(tt.b)))
			assert.Equal(t, tt.want, levenshtein([]rune(tt.b), []rune(tt.a)))
		})
	}
}
