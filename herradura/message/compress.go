package message

import (
	"bytes"
	"errors"
	"io"
	"sync"

	"github.com/pierrec/lz4/v4"
)

var (
	ErrCompressionFailed   = errors.New("message: compression failed")
	ErrDecompressionFailed = errors.New("message: decompression failed")
)

var writerPool = sync.Pool{
	New: func() interface{} { return lz4.NewWriter(nil) },
}

var readerPool = sync.Pool{
	New: func() interface{} { return lz4.NewReader(nil) },
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := writerPool.Get().(*lz4.Writer)
	defer writerPool.Put(w)

	w.Reset(&buf)
	if err := w.Apply(lz4.CompressionLevelOption(lz4.Level4)); err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, ErrCompressionFailed
	}
	if err := w.Close(); err != nil {
		return nil, ErrCompressionFailed
	}
	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	r := readerPool.Get().(*lz4.Reader)
	defer readerPool.Put(r)

	r.Reset(bytes.NewReader(data))
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, ErrDecompressionFailed
	}
	return buf.Bytes(), nil
}
