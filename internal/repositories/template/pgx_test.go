package template

import (
	"testing"
	"time"

	apperrors "github.com/orgball2608/omnipost/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTemplate(t *testing.T) {
	now := time.Now()
	tpl, err := newTemplate("  Launch  ", "We shipped {feature}!", now)
	require.NoError(t, err)
	assert.Equal(t, "Launch", tpl.Name)
	assert.Equal(t, now, tpl.CreatedAt)
	assert.NotEmpty(t, tpl.ID)

	_, err = newTemplate("", "body", now)
	assert.True(t, apperrors.IsValidation(err))

	_, err = newTemplate("Name", "   ", now)
	assert.True(t, apperrors.IsValidation(err))
}
