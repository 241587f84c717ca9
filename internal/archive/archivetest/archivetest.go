// Package archivetest builds in-memory template archives for tests.
package archivetest

import (
	"archive/tar"
	"bytes"
	"io"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/require"
)

// Entry is a single archive member. Names ending in "/" are directories.
type Entry struct {
	Name     string
	Body     string
	Mode     int64
	Typeflag byte
	Linkname string
}

// Tar returns an uncompressed tar stream with the given entries.
func Tar(t testing.TB, entries ...Entry) []byte {
	t.Helper()

	var buffer bytes.Buffer

	tw := tar.NewWriter(&buffer)

	for _, entry := range entries {
		header := &tar.Header{
			Name:     entry.Name,
			Mode:     entry.Mode,
			Size:     int64(len(entry.Body)),
			Typeflag: entry.Typeflag,
			Linkname: entry.Linkname,
		}

		if header.Typeflag == 0 {
			header.Typeflag = tar.TypeReg
			if len(entry.Name) > 0 && entry.Name[len(entry.Name)-1] == '/' {
				header.Typeflag = tar.TypeDir
			}
		}

		if header.Typeflag != tar.TypeReg {
			header.Size = 0
		}

		if header.Mode == 0 {
			header.Mode = 0o644
			if header.Typeflag == tar.TypeDir {
				header.Mode = 0o755
			}
		}

		require.NoError(t, tw.WriteHeader(header))

		if header.Size > 0 {
			_, err := io.WriteString(tw, entry.Body)
			require.NoError(t, err)
		}
	}

	require.NoError(t, tw.Close())

	return buffer.Bytes()
}

// TarGz returns a gzip-compressed tar stream with the given entries.
func TarGz(t testing.TB, entries ...Entry) []byte {
	t.Helper()

	var buffer bytes.Buffer

	gw := gzip.NewWriter(&buffer)
	_, err := gw.Write(Tar(t, entries...))
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	return buffer.Bytes()
}

// TarZlib returns a zlib-compressed tar stream with the given entries.
func TarZlib(t testing.TB, entries ...Entry) []byte {
	t.Helper()

	var buffer bytes.Buffer

	zw := zlib.NewWriter(&buffer)
	_, err := zw.Write(Tar(t, entries...))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	return buffer.Bytes()
}

// Starter returns a gzip-compressed template with a wrapper folder, a
// package.json, a patch overlay and a nested source file.
func Starter(t testing.TB) []byte {
	t.Helper()

	return TarGz(t,
		Entry{Name: "starter-blank/"},
		Entry{Name: "starter-blank/package.json", Body: `{"name":"ionic-hello-world","version":"0.0.0","description":"Starter","dependencies":{"ionic-angular":"3.0.0"}}`},
		Entry{Name: "starter-blank/patch.package.json", Body: `{"dependencies":{"@ionic/storage":"2.0.0"}}`},
		Entry{Name: "starter-blank/src/"},
		Entry{Name: "starter-blank/src/app.ts", Body: "export class App {}\n"},
	)
}
