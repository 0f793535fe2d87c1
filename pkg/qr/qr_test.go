package qr

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataURL(t *testing.T) {
	url, err := DataURL("BK-2026-000042")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "data:image/jpeg;base64,"))

	payload, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, "data:image/jpeg;base64,"))
	require.NoError(t, err)
	assert.NotEmpty(t, payload)
}
