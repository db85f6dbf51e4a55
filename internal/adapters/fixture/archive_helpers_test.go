package fixture_test

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stage/internal/core/domain"
)

// member is one archive entry; an empty Body with a trailing slash in Name is a directory.
type member struct {
	Name     string
	Body     string
	Linkname string
	Mode     int64
}

func writeArchive(t *testing.T, dir, name string, format domain.ArchiveFormat, members []member) string {
	t.Helper()

	var buf bytes.Buffer
	if format == domain.ArchiveZip {
		writeZip(t, &buf, members)
	} else {
		writeCompressedTar(t, &buf, format, members)
	}

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), domain.FilePerm))
	return path
}

func writeCompressedTar(t *testing.T, w io.Writer, format domain.ArchiveFormat, members []member) {
	t.Helper()

	var (
		cw  io.WriteCloser
		err error
	)
	switch format {
	case domain.ArchiveTar:
		cw = nopWriteCloser{w}
	case domain.ArchiveTarGz:
		cw = gzip.NewWriter(w)
	case domain.ArchiveTarBz2:
		cw, err = bzip2.NewWriter(w, &bzip2.WriterConfig{Level: 9})
	case domain.ArchiveTarZst:
		cw, err = zstd.NewWriter(w)
	default:
		t.Fatalf("unsupported format %s", format)
	}
	require.NoError(t, err)

	tw := tar.NewWriter(cw)
	for _, m := range members {
		hdr := &tar.Header{Name: m.Name, Mode: m.Mode}
		if hdr.Mode == 0 {
			hdr.Mode = 0o644
		}
		switch {
		case m.Linkname != "":
			hdr.Typeflag = tar.TypeSymlink
			hdr.Linkname = m.Linkname
		case len(m.Name) > 0 && m.Name[len(m.Name)-1] == '/':
			hdr.Typeflag = tar.TypeDir
			hdr.Mode = 0o755
		default:
			hdr.Typeflag = tar.TypeReg
			hdr.Size = int64(len(m.Body))
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if hdr.Typeflag == tar.TypeReg {
			_, err := tw.Write([]byte(m.Body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	require.NoError(t, cw.Close())
}

func writeZip(t *testing.T, w io.Writer, members []member) {
	t.Helper()

	zw := zip.NewWriter(w)
	for _, m := range members {
		f, err := zw.Create(m.Name)
		require.NoError(t, err)
		if m.Body != "" {
			_, err = f.Write([]byte(m.Body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

var answerMembers = []member{
	{Name: "sloshing/"},
	{Name: "sloshing/in.hdf5", Body: "gas"},
	{Name: "sloshing/answers/photons.h5", Body: "photons"},
	{Name: "README", Body: "fixtures"},
}

func sortedNames(ms []member) []string {
	var names []string
	for _, m := range ms {
		if m.Name[len(m.Name)-1] != '/' {
			names = append(names, m.Name)
		}
	}
	slices.Sort(names)
	return names
}
