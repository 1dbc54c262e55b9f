package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIDList(t *testing.T) {
	ids, err := ParseIDList("1, 5,9,,5 ")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 5, 9, 5}, ids)

	_, err = ParseIDList("1,x")
	assert.Error(t, err)

	_, err = ParseIDList(" , ")
	assert.Error(t, err)
}

func TestDedup(t *testing.T) {
	assert.Equal(t, []int64{4, 1, 9}, Dedup([]int64{4, 1, 4, 9, 1}))
	assert.Empty(t, Dedup([]int{}))
}
