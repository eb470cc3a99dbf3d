package regroup_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fwojciec/regroup"
)

func TestDefaultTheme(t *testing.T) {
	t.Parallel()

	theme := regroup.DefaultTheme()

	assert.Equal(t, 5, theme.Title)
	assert.Equal(t, 2, theme.Selected)
	assert.Equal(t, 8, theme.Muted)
	assert.Equal(t, 1, theme.Error)
	assert.Equal(t, 4, theme.Accent)
}
