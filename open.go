package ldscmunge

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

// BufferSize is the read buffer used for inputs. Summary statistics lines are
// short, but some tools emit very wide headers.
var BufferSize = 1 << 20

// Input is an opened, decompressed, line-oriented text source.
type Input struct {
	Path     string
	DataType DataType
	*bufio.Reader

	closers []func() error
}

// Close releases every layer of the input, innermost first.
func (in *Input) Close() error {
	var first error
	for i := len(in.closers) - 1; i >= 0; i-- {
		if err := in.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	in.closers = nil

	return first
}

// Sample returns up to n bytes from the head of the decompressed stream
// without consuming them.
func (in *Input) Sample(n int) []byte {
	b, _ := in.Peek(n)
	return b
}

// Open opens a local path or a gs://bucket/object path and transparently
// decompresses it if it carries a known compression signature.
func Open(ctx context.Context, path string) (*Input, error) {
	in := &Input{Path: path}

	raw, err := openRaw(ctx, path, in)
	if err != nil {
		in.Close()
		return nil, pfx.Err(err)
	}

	r, dt, closer, err := MaybeDecompress(bufio.NewReaderSize(raw, BufferSize))
	if err != nil {
		in.Close()
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}
	in.closers = append(in.closers, closer)
	in.DataType = dt
	in.Reader = bufio.NewReaderSize(r, BufferSize)

	return in, nil
}

func openRaw(ctx context.Context, path string, in *Input) (io.Reader, error) {
	if !strings.HasPrefix(path, "gs://") {
		f, err := os.Open(ExpandHome(path))
		if err != nil {
			return nil, err
		}
		in.closers = append(in.closers, f.Close)
		return f, nil
	}

	// Detect the bucket and the path to the actual file
	pathParts := strings.SplitN(strings.TrimPrefix(path, "gs://"), "/", 2)
	if len(pathParts) != 2 {
		return nil, fmt.Errorf("Tried to split your google storage path into 2 parts, but got %d: %v", len(pathParts), pathParts)
	}
	bucketName := pathParts[0]
	pathName := pathParts[1]

	// Open the bucket with default credentials
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	in.closers = append(in.closers, client.Close)

	rdr, err := client.Bucket(bucketName).Object(pathName).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	in.closers = append(in.closers, rdr.Close)

	return rdr, nil
}

// ReadHeader consumes and splits the first line of the input.
func (in *Input) ReadHeader(split SplitFunc) ([]string, error) {
	line, err := in.ReadLine()
	if err == io.EOF && line == "" {
		return nil, fmt.Errorf("Empty file: %s", in.Path)
	} else if err != nil && err != io.EOF {
		return nil, pfx.Err(err)
	}

	return split(line), nil
}

// ReadLine returns the next line without its terminator. At the end of the
// stream it returns whatever remains along with io.EOF.
func (in *Input) ReadLine() (string, error) {
	line, err := in.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if err == io.EOF && line != "" {
		return line, nil
	}

	return line, err
}
