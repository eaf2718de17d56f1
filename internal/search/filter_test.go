package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	tests := []struct {
		name    string
		records []string
		query   string
		want    []string
	}{
		{name: "prefix match keeps order", records: []string{"Hello", "world", "Help"}, query: "hel", want: []string{"Hello", "Help"}},
		{name: "upper-case query", records: []string{"Hello", "world", "Help"}, query: "WORLD", want: []string{"world"}},
		{name: "substring in the middle", records: []string{"say hello there", "nothing"}, query: "LLO T", want: []string{"say hello there"}},
		{name: "no match", records: []string{"a", "b"}, query: "z", want: []string{}},
		{name: "empty records", records: nil, query: "a", want: []string{}},
		{name: "non ascii", records: []string{"Ärger", "ärmel", "arm"}, query: "ÄR", want: []string{"Ärger", "ärmel"}},
		{name: "duplicates kept", records: []string{"hi", "hi", "ho"}, query: "hi", want: []string{"hi", "hi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filter(tt.records, tt.query))
		})
	}
}

func TestFilter_EmptyQueryReturnsEverything(t *testing.T) {
	records := []string{"b", "a", "c"}

	first := Filter(records, "")
	second := Filter(first, "")

	assert.Equal(t, records, first)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"b", "a", "c"}, records)
}

func TestFilter_DoesNotAliasInput(t *testing.T) {
	records := []string{"a", "b"}
	out := Filter(records, "")
	out[0] = "changed"
	assert.Equal(t, "a", records[0])
}
