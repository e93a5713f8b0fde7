package repo

import (
	"archive/tar"
	"bytes"
	stderrors "errors"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/matzehuels/depviz/pkg/errors"
)

// APKIndexEntry is the name of the index file inside APKINDEX.tar.gz.
const APKIndexEntry = "APKINDEX"

// maxIndexSize bounds how much of the APKINDEX entry is read.
const maxIndexSize = 256 << 20

// ReadArchive extracts the APKINDEX text from an APKINDEX.tar.gz stream.
// Alpine archives are several concatenated gzip members (signature, then
// index), which the reader decodes as one stream.
func ReadArchive(r io.Reader) ([]byte, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "open index archive")
	}
	defer zr.Close()

	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Signed archives end the first member without a tar trailer.
			if stderrors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read index archive")
		}
		if hdr.Name != APKIndexEntry {
			continue
		}
		data, err := io.ReadAll(io.LimitReader(tr, maxIndexSize))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read %s", APKIndexEntry)
		}
		return data, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidManifest, "archive has no %s entry", APKIndexEntry)
}

// isGzip reports whether data starts with the gzip magic number.
func isGzip(data []byte) bool {
	return bytes.HasPrefix(data, []byte{0x1f, 0x8b})
}
