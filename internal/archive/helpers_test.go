package archive

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

func compress(t *testing.T, data []byte) []byte {
	t.Helper()

	var buffer bytes.Buffer

	gw := gzip.NewWriter(&buffer)
	_, err := gw.Write(data)
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	return buffer.Bytes()
}
