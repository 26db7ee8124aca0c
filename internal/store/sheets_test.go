package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToAnyRow(t *testing.T) {
	assert.Equal(t, []any{"1", "한양", ""}, toAnyRow([]string{"1", "한양", ""}))
	assert.Empty(t, toAnyRow(nil))
}
