// Package zstd implements the ZSTD column compression codec.
package zstd

import (
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/canelmas/parquet-mr/columnio/compress"
)

// Codec is the ZSTD compress.Codec. Encoder/decoder concurrency is
// pinned to 1: Readers and Writers may be pooled and reused across
// goroutines through sync.Pool in Compressor/Decompressor, so letting
// zstd spawn its own worker pool per instance would multiply it.
type Codec struct{}

func (c *Codec) String() string { return "ZSTD" }

func (c *Codec) NewReader(r io.Reader) (compress.Reader, error) {
	z, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	return reader{z}, nil
}

func (c *Codec) NewWriter(w io.Writer) (compress.Writer, error) {
	z, err := zstd.NewWriter(nonNilWriter(w),
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedFastest),
		zstd.WithZeroFrames(true),
		zstd.WithEncoderCRC(false),
	)
	if err != nil {
		return nil, err
	}
	return writer{z}, nil
}

// reader embeds *zstd.Decoder, which already implements
// Reset(io.Reader) error, satisfying compress.Reader by promotion.
type reader struct{ *zstd.Decoder }

func (r reader) Close() error { r.Decoder.Close(); return nil }

type writer struct{ *zstd.Encoder }

func (w writer) Close() error             { w.Encoder.Close(); return nil }
func (w writer) Reset(ww io.Writer) error { w.Encoder.Reset(nonNilWriter(ww)); return nil }

func nonNilWriter(w io.Writer) io.Writer {
	if w == nil {
		w = io.Discard
	}
	return w
}
