package handler

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticAssets(t *testing.T) {
	static, err := staticAssets(templateFS)
	require.NoError(t, err)
	_, err = fs.Stat(static, "app.css")
	assert.NoError(t, err)

	_, err = staticAssets(fstest.MapFS{"templates/layout.html": {Data: []byte("x")}})
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = staticAssets(fstest.MapFS{"templates/static": {Data: []byte("x")}})
	assert.Error(t, err)
}
