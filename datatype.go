package ldscmunge

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type DataType byte

const (
	DataTypeInvalid DataType = iota
	DataTypeNoCompression
	DataTypeGzip
	DataTypeZip
	DataTypeXZ
	DataTypeZlib
	DataTypeBZip2

	// DataTypeLZW is Unix compress (.Z). It is recognized so that it can be
	// rejected with a clear error; there is no decoder for it.
	DataTypeLZW
)

func (d DataType) String() string {
	switch d {
	case DataTypeNoCompression:
		return "uncompressed"
	case DataTypeGzip:
		return "gzip"
	case DataTypeZip:
		return "zip"
	case DataTypeXZ:
		return "xz"
	case DataTypeZlib:
		return "zlib"
	case DataTypeBZip2:
		return "bzip2"
	case DataTypeLZW:
		return "compress (LZW)"
	}

	return "invalid"
}

type byteCodeSig struct {
	dt  DataType
	sig []byte
}

// Checked in order. The zlib headers are the three common compression levels;
// none of them is printable text.
var byteCodeSigs = []byteCodeSig{
	{DataTypeGzip, []byte{0x1f, 0x8b, 0x08}},
	{DataTypeZip, []byte{0x50, 0x4b, 0x03, 0x04}},
	{DataTypeXZ, []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}},
	{DataTypeLZW, []byte{0x1f, 0x9d}},
	{DataTypeBZip2, []byte{0x42, 0x5a, 0x68}},
	{DataTypeZlib, []byte{0x78, 0x01}},
	{DataTypeZlib, []byte{0x78, 0x9c}},
	{DataTypeZlib, []byte{0x78, 0xda}},
}

// DetectDataType matches the leading bytes of a stream against a set of known
// compression signatures. Byte code signatures from
// https://stackoverflow.com/a/19127748/199475
func DetectDataType(head []byte) DataType {
	for _, s := range byteCodeSigs {
		if bytes.HasPrefix(head, s.sig) {
			return s.dt
		}
	}

	return DataTypeNoCompression
}

// MaybeDecompress sniffs br without consuming it and, if the stream is
// compressed, returns a decompressing reader over it. The returned closer must
// be called once the reader is exhausted; it does not close br's source.
func MaybeDecompress(br *bufio.Reader) (io.Reader, DataType, func() error, error) {
	nop := func() error { return nil }

	// Peek returns fewer bytes (and io.EOF) on tiny inputs; that is fine.
	head, err := br.Peek(6)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, DataTypeInvalid, nop, err
	}

	dt := DetectDataType(head)
	switch dt {
	case DataTypeGzip:
		r, err := gzip.NewReader(br)
		if err != nil {
			return nil, dt, nop, err
		}
		return r, dt, r.Close, nil
	case DataTypeZip:
		// Only the first entry of an archive is read.
		zr := zipstream.NewReader(br)
		if _, err := zr.Next(); err != nil {
			return nil, dt, nop, err
		}
		return zr, dt, nop, nil
	case DataTypeBZip2:
		r, err := bzip2.NewReader(br, nil)
		if err != nil {
			return nil, dt, nop, err
		}
		return r, dt, r.Close, nil
	case DataTypeXZ:
		r, err := xz.NewReader(br, 0)
		if err != nil {
			return nil, dt, nop, err
		}
		return r, dt, nop, nil
	case DataTypeLZW:
		return nil, dt, nop, fmt.Errorf("%w: %s", ErrUnsupportedCompression, dt)
	case DataTypeZlib:
		r, err := zlib.NewReader(br)
		if err != nil {
			return nil, dt, nop, err
		}
		return r, dt, r.Close, nil
	}

	return br, dt, nop, nil
}
