package printing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledRenderer(t *testing.T) {
	r := DisabledRenderer{}

	result, err := r.Render(context.Background(), &RenderRequest{HTML: "<html></html>"})

	assert.Nil(t, result)
	require.Error(t, err)
	var renderErr *RenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, ErrCodeRenderFailed, renderErr.Code)

	assert.NoError(t, r.Close())
}

func TestEstimatePageCount(t *testing.T) {
	single := []byte("%PDF-1.4 /Type /Pages /Type /Page trailer")
	assert.Equal(t, 1, estimatePageCount(single))

	empty := []byte("%PDF-1.4 trailer")
	assert.Equal(t, 1, estimatePageCount(empty))
}
