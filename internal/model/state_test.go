package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithSearchResetsPage(t *testing.T) {
	s := QueryState{Resource: "games", Search: "zelda", Page: 4}

	assert.Equal(t, 1, s.WithSearch("mario").Page)
	assert.Equal(t, 1, s.WithSearch("").Page)
	assert.Equal(t, 4, s.WithSearch("zelda").Page)
}

func TestWithPageKeepsSearch(t *testing.T) {
	s := QueryState{Resource: "games", Search: "zelda", Page: 1}.WithPage(2)
	assert.Equal(t, QueryState{Resource: "games", Search: "zelda", Page: 2}, s)
}

func TestNormalize(t *testing.T) {
	for _, page := range []int{-5, 0, 1} {
		assert.Equal(t, 1, QueryState{Page: page}.Normalize().Page)
	}
	assert.Equal(t, 7, QueryState{Page: 7}.Normalize().Page)
}
