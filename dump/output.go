package dump

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// CompressedSuffix selects zstd compression for the output file.
const CompressedSuffix = ".zst"

type fileOutput struct {
	file   *os.File
	buf    *bufio.Writer
	enc    *zstd.Encoder
	w      io.Writer
	closed bool
}

// Create truncates or creates the output file at path. Output is buffered and,
// when path ends in CompressedSuffix, zstd compressed. Close must be called to
// flush; calling it more than once is safe.
func Create(path string) (io.WriteCloser, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating output file: %w", err)
	}

	out := &fileOutput{file: file, buf: bufio.NewWriter(file)}
	out.w = out.buf

	if strings.HasSuffix(path, CompressedSuffix) {
		enc, err := zstd.NewWriter(out.buf, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("creating zstd writer: %w", err)
		}
		out.enc = enc
		out.w = enc
	}

	return out, nil
}

func (o *fileOutput) Write(p []byte) (int, error) {
	if o.closed {
		return 0, os.ErrClosed
	}
	return o.w.Write(p)
}

func (o *fileOutput) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true

	var err error
	if o.enc != nil {
		err = o.enc.Close()
	}
	if e := o.buf.Flush(); err == nil {
		err = e
	}
	if e := o.file.Close(); err == nil {
		err = e
	}
	return err
}
