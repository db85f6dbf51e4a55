package fixture

import (
	"archive/tar"
	"archive/zip"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"go.trai.ch/stage/internal/core/domain"
	"go.trai.ch/stage/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ArchiveExtractor = (*Extractor)(nil)

// Extractor implements ports.ArchiveExtractor for tar (plain, gzip, bzip2, zstd) and zip archives.
type Extractor struct {
	hasher *Hasher
}

// NewExtractor creates a new Extractor.
func NewExtractor(hasher *Hasher) *Extractor {
	return &Extractor{hasher: hasher}
}

// Extract unpacks src into a staging directory next to dest and swaps it into
// place, so dest holds exactly the archive contents afterwards.
func (e *Extractor) Extract(
	ctx context.Context, src string, format domain.ArchiveFormat, dest string,
) (domain.FixtureSet, error) {
	dest, err := filepath.Abs(dest)
	if err != nil {
		return domain.FixtureSet{}, e.extractErr(src, err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), domain.DirPerm); err != nil {
		return domain.FixtureSet{}, e.extractErr(src, err)
	}

	staging, err := os.MkdirTemp(filepath.Dir(dest), ".extract-*")
	if err != nil {
		return domain.FixtureSet{}, e.extractErr(src, err)
	}
	defer func() {
		_ = os.RemoveAll(staging)
	}()

	if err := e.unpack(ctx, src, format, staging); err != nil {
		return domain.FixtureSet{}, err
	}

	if err := os.RemoveAll(dest); err != nil {
		return domain.FixtureSet{}, e.extractErr(src, err)
	}
	if err := os.Rename(staging, dest); err != nil {
		return domain.FixtureSet{}, e.extractErr(src, err)
	}
	//nolint:gosec // dest is derived from the fixture root
	if err := os.Chmod(dest, domain.DirPerm); err != nil {
		return domain.FixtureSet{}, e.extractErr(src, err)
	}

	return e.hasher.FileSet(dest)
}

func (e *Extractor) extractErr(src string, err error) error {
	if errors.Is(err, domain.ErrUnsafeArchivePath) {
		return zerr.With(err, "archive", src)
	}
	return zerr.With(errors.Join(domain.ErrFixtureExtractFailed, err), "archive", src)
}

func (e *Extractor) unpack(ctx context.Context, src string, format domain.ArchiveFormat, dest string) error {
	if format == domain.ArchiveZip {
		if err := extractZip(ctx, src, dest); err != nil {
			return e.extractErr(src, err)
		}
		return nil
	}

	file, err := os.Open(src) //nolint:gosec // src is the download path chosen by the caller
	if err != nil {
		return e.extractErr(src, err)
	}
	defer func() {
		_ = file.Close()
	}()

	r, closeFn, err := decompress(file, format)
	if err != nil {
		return e.extractErr(src, err)
	}
	defer closeFn()

	if err := extractTar(ctx, r, dest); err != nil {
		return e.extractErr(src, err)
	}
	return nil
}

// decompress wraps r according to the tarball compression.
func decompress(r io.Reader, format domain.ArchiveFormat) (io.Reader, func(), error) {
	switch format {
	case domain.ArchiveTar:
		return r, func() {}, nil
	case domain.ArchiveTarGz:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return gz, func() { _ = gz.Close() }, nil
	case domain.ArchiveTarBz2:
		bz, err := bzip2.NewReader(r, &bzip2.ReaderConfig{})
		if err != nil {
			return nil, nil, err
		}
		return bz, func() { _ = bz.Close() }, nil
	case domain.ArchiveTarZst:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return zr, zr.Close, nil
	default:
		return nil, nil, zerr.With(zerr.Wrap(domain.ErrUnsupportedArchive, "no decompressor"), "format", string(format))
	}
}

func extractTar(ctx context.Context, r io.Reader, dest string) error {
	tr := tar.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		target, err := safeJoin(dest, hdr.Name)
		if err != nil {
			return err
		}
		if target == dest {
			continue
		}

		if err := checkParents(dest, target); err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, domain.DirPerm); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeFile(target, tr, fileMode(hdr.FileInfo().Mode())); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := checkLink(dest, target, hdr.Linkname); err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
				return err
			}
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return err
			}
		case tar.TypeLink:
			source, err := safeJoin(dest, hdr.Linkname)
			if err != nil {
				return err
			}
			if err := checkParents(dest, source); err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
				return err
			}
			if err := os.Link(source, target); err != nil {
				return err
			}
		default:
			// Devices, fifos and pax metadata carry no fixture data.
		}
	}
}

func extractZip(ctx context.Context, src, dest string) error {
	zr, err := zip.OpenReader(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = zr.Close()
	}()

	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return err
		}

		target, err := safeJoin(dest, f.Name)
		if err != nil {
			return err
		}
		if target == dest {
			continue
		}
		if err := checkParents(dest, target); err != nil {
			return err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, domain.DirPerm); err != nil {
				return err
			}
			continue
		}

		if err := extractZipFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractZipFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer func() {
		_ = rc.Close()
	}()
	return writeFile(target, rc, fileMode(f.Mode()))
}

func writeFile(target string, r io.Reader, mode fs.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
		return err
	}
	//nolint:gosec // target has been checked by safeJoin
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// fileMode keeps the executable bits of an archive member and nothing more permissive.
func fileMode(m fs.FileMode) fs.FileMode {
	if m.Perm()&0o111 != 0 {
		return domain.FilePerm | 0o111
	}
	return domain.FilePerm
}

// safeJoin resolves an archive member name below root.
func safeJoin(root, name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", zerr.Wrap(domain.ErrUnsafeArchivePath, name)
	}
	return filepath.Join(root, clean), nil
}

// checkLink rejects symlinks whose target resolves outside root. A ".." is only
// accepted before the first named element, since a named element may itself be a link.
func checkLink(root, target, linkname string) error {
	if filepath.IsAbs(linkname) {
		return zerr.Wrap(domain.ErrUnsafeArchivePath, linkname)
	}
	named := false
	for _, part := range strings.Split(filepath.ToSlash(linkname), "/") {
		switch part {
		case "", ".":
		case "..":
			if named {
				return zerr.Wrap(domain.ErrUnsafeArchivePath, linkname)
			}
		default:
			named = true
		}
	}
	resolved := filepath.Join(filepath.Dir(target), filepath.FromSlash(linkname))
	rel, err := filepath.Rel(root, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return zerr.Wrap(domain.ErrUnsafeArchivePath, linkname)
	}
	return nil
}

// checkParents rejects members whose parent path below root crosses a symlink.
func checkParents(root, target string) error {
	rel, err := filepath.Rel(root, filepath.Dir(target))
	if err != nil {
		return zerr.Wrap(domain.ErrUnsafeArchivePath, target)
	}
	if rel == "." {
		return nil
	}

	dir := root
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		dir = filepath.Join(dir, part)
		info, err := os.Lstat(dir)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return err
		}
		if info.Mode()&fs.ModeSymlink != 0 {
			rel, _ := filepath.Rel(root, target)
			return zerr.Wrap(domain.ErrUnsafeArchivePath, filepath.ToSlash(rel))
		}
	}
	return nil
}
