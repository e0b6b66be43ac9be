package spheres

import (
	"encoding/binary"
	"fmt"
)

// IndexWidth is the size in bytes of one index element.
type IndexWidth int

// Index element widths.
const (
	IndexUint8  IndexWidth = 1
	IndexUint16 IndexWidth = 2
	IndexUint32 IndexWidth = 4
)

// IndexWidthFor returns the narrowest width for a buffer addressing
// vertexCount vertices.
func IndexWidthFor(vertexCount int) IndexWidth {
	switch {
	case vertexCount < 1<<8:
		return IndexUint8
	case vertexCount < 1<<16:
		return IndexUint16
	default:
		return IndexUint32
	}
}

func (w IndexWidth) String() string {
	switch w {
	case IndexUint8:
		return "uint8"
	case IndexUint16:
		return "uint16"
	case IndexUint32:
		return "uint32"
	default:
		return fmt.Sprintf("IndexWidth(%d)", int(w))
	}
}

// IndexBuffer is a flat triangle index list of a fixed element width.
type IndexBuffer interface {
	Len() int
	At(i int) uint32
	Set(i int, v uint32)
	Width() IndexWidth
	// Bytes returns the buffer in little-endian order, ready for upload.
	Bytes() []byte
}

// NewIndexBuffer allocates n zeroed indices of width w.
func NewIndexBuffer(w IndexWidth, n int) IndexBuffer {
	switch w {
	case IndexUint8:
		return make(Uint8Indices, n)
	case IndexUint16:
		return make(Uint16Indices, n)
	default:
		return make(Uint32Indices, n)
	}
}

// Uint8Indices is an IndexBuffer of 8-bit indices.
type Uint8Indices []uint8

func (b Uint8Indices) Len() int            { return len(b) }
func (b Uint8Indices) At(i int) uint32     { return uint32(b[i]) }
func (b Uint8Indices) Set(i int, v uint32) { b[i] = uint8(v) }
func (b Uint8Indices) Width() IndexWidth   { return IndexUint8 }
func (b Uint8Indices) Bytes() []byte       { return append([]byte(nil), b...) }

// Uint16Indices is an IndexBuffer of 16-bit indices.
type Uint16Indices []uint16

func (b Uint16Indices) Len() int            { return len(b) }
func (b Uint16Indices) At(i int) uint32     { return uint32(b[i]) }
func (b Uint16Indices) Set(i int, v uint32) { b[i] = uint16(v) }
func (b Uint16Indices) Width() IndexWidth   { return IndexUint16 }

func (b Uint16Indices) Bytes() []byte {
	out := make([]byte, 0, len(b)*2)
	for _, v := range b {
		out = binary.LittleEndian.AppendUint16(out, v)
	}
	return out
}

// Uint32Indices is an IndexBuffer of 32-bit indices.
type Uint32Indices []uint32

func (b Uint32Indices) Len() int            { return len(b) }
func (b Uint32Indices) At(i int) uint32     { return b[i] }
func (b Uint32Indices) Set(i int, v uint32) { b[i] = v }
func (b Uint32Indices) Width() IndexWidth   { return IndexUint32 }

func (b Uint32Indices) Bytes() []byte {
	out := make([]byte, 0, len(b)*4)
	for _, v := range b {
		out = binary.LittleEndian.AppendUint32(out, v)
	}
	return out
}
