// Package compress provides the generic codec API column pages are
// written through, the way the teacher's compress package frames its
// sub-packages. It drops the teacher's CompressionCodec() method
// (which returns a format.CompressionCodec from the file/page-format
// layer): that layer is out of this module's scope, so a Codec here
// only needs a name and a Reader/Writer pair.
package compress

import (
	"bytes"
	"io"
	"sync"
)

// Codec represents a column compression codec implemented by one of
// this package's sub-packages. Codec instances must be safe to use
// concurrently from multiple goroutines.
type Codec interface {
	// String returns a human-readable name for the codec.
	String() string

	// NewReader wraps r, decompressing what is read through it.
	NewReader(r io.Reader) (Reader, error)

	// NewWriter wraps w, compressing what is written through it.
	NewWriter(w io.Writer) (Writer, error)
}

// Reader is a resettable decompressing io.Reader, so one instance can
// be pooled across many column pages.
type Reader interface {
	io.ReadCloser
	Reset(io.Reader) error
}

// Writer is a resettable compressing io.Writer, so one instance can be
// pooled across many column pages.
type Writer interface {
	io.WriteCloser
	Reset(io.Writer) error
}

// Compressor pools a codec's Writers, letting Encode run allocation-free
// once warmed up. Column.CompressLevels does not go through it; it
// builds its own Writer from the codec on each call.
type Compressor struct {
	writers sync.Pool
}

// Encode compresses src into dst, reusing a pooled Writer built by
// newWriter when one is available.
func (c *Compressor) Encode(dst, src []byte, newWriter func(io.Writer) (Writer, error)) ([]byte, error) {
	output := bytes.NewBuffer(dst[:0])

	w, _ := c.writers.Get().(Writer)
	if w != nil {
		w.Reset(output)
	} else {
		var err error
		if w, err = newWriter(output); err != nil {
			return dst, err
		}
	}
	defer c.writers.Put(w)
	defer w.Reset(io.Discard)

	if _, err := w.Write(src); err != nil {
		return output.Bytes(), err
	}
	if err := w.Close(); err != nil {
		return output.Bytes(), err
	}
	return output.Bytes(), nil
}

// Decompressor pools a codec's Readers, letting Decode run
// allocation-free once warmed up.
type Decompressor struct {
	readers sync.Pool
}

// Decode decompresses src into dst, reusing a pooled Reader built by
// newReader when one is available.
func (d *Decompressor) Decode(dst, src []byte, newReader func(io.Reader) (Reader, error)) ([]byte, error) {
	input := bytes.NewReader(src)

	r, _ := d.readers.Get().(Reader)
	if r != nil {
		if err := r.Reset(input); err != nil {
			return dst, err
		}
	} else {
		var err error
		if r, err = newReader(input); err != nil {
			return dst, err
		}
	}
	defer d.readers.Put(r)
	defer r.Close()

	output := bytes.NewBuffer(dst[:0])
	if _, err := io.Copy(output, r); err != nil {
		return output.Bytes(), err
	}
	return output.Bytes(), nil
}
