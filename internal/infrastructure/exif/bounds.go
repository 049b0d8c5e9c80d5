package exif

import (
	"bytes"
	"encoding/binary"
)

const (
	_markerAPP1 = 0xE1

	_tagExifIFD    = 0x8769
	_tagGPSIFD     = 0x8825
	_tagInteropIFD = 0xA005

	// IFD0, IFD1, Exif, GPS and Interop in a typical camera file.
	_maxIFDs = 16
)

var _exifHeader = []byte("Exif\x00\x00")

// byte size of one value per TIFF field type
var _typeSizes = map[uint16]uint64{
	1: 1, 2: 1, 3: 2, 4: 4, 5: 8, 6: 1,
	7: 1, 8: 2, 9: 4, 10: 8, 11: 4, 12: 8,
}

// tiffPayload returns the TIFF structure goexif would parse: the whole body
// of a TIFF file, otherwise the payload of the first non-empty APP1 segment.
func tiffPayload(b []byte) ([]byte, bool) {
	if len(b) >= 4 && (string(b[:4]) == "II*\x00" || string(b[:4]) == "MM\x00*") {
		return b, true
	}

	for i := 0; i+3 < len(b); {
		if b[i] != 0xFF {
			i++
			continue
		}
		if b[i+1] != _markerAPP1 {
			i += 2
			continue
		}

		n := int(binary.BigEndian.Uint16(b[i+2:])) - 2
		start := i + 4
		if n == 0 {
			i = start
			continue
		}
		if n < 0 || start+n > len(b) {
			return nil, false
		}

		seg := b[start : start+n]
		if !bytes.HasPrefix(seg, _exifHeader) {
			return nil, false
		}
		return seg[len(_exifHeader):], true
	}

	return nil, false
}

// boundedTIFF walks the IFD0 chain and the Exif, GPS and Interop sub-IFDs
// and reports whether every entry's value fits inside t. goexif allocates
// by the declared count before checking it against the data, so anything
// that fails here must not reach it.
func boundedTIFF(t []byte) bool {
	if len(t) < 8 {
		return false
	}

	var order binary.ByteOrder
	switch string(t[:2]) {
	case "II":
		order = binary.LittleEndian
	case "MM":
		order = binary.BigEndian
	default:
		return false
	}

	if order.Uint16(t[2:]) != 42 {
		return false
	}

	w := &ifdWalker{tiff: t, order: order, seen: make(map[uint32]bool)}

	for offset := order.Uint32(t[4:]); offset != 0; {
		next, ok := w.ifd(offset)
		if !ok {
			return false
		}
		offset = next
	}

	return true
}

type ifdWalker struct {
	tiff  []byte
	order binary.ByteOrder
	seen  map[uint32]bool
}

// ifd checks one directory and the sub-IFDs it points to, returning the
// offset of the next directory in its chain.
func (w *ifdWalker) ifd(offset uint32) (uint32, bool) {
	if w.seen[offset] || len(w.seen) >= _maxIFDs {
		return 0, false
	}
	w.seen[offset] = true

	size := uint64(len(w.tiff))
	start := uint64(offset)
	if start+2 > size {
		return 0, false
	}

	n := uint64(w.order.Uint16(w.tiff[start:]))
	end := start + 2 + n*12 + 4
	if end > size {
		return 0, false
	}

	for i := uint64(0); i < n; i++ {
		e := w.tiff[start+2+i*12:]
		tag := w.order.Uint16(e)
		count := uint64(w.order.Uint32(e[4:]))
		value := w.order.Uint32(e[8:])

		typeSize, ok := _typeSizes[w.order.Uint16(e[2:])]
		if !ok {
			return 0, false
		}

		if l := count * typeSize; l > 4 && uint64(value)+l > size {
			return 0, false
		}

		switch tag {
		case _tagExifIFD, _tagGPSIFD, _tagInteropIFD:
			if _, ok := w.ifd(value); !ok {
				return 0, false
			}
		}
	}

	return w.order.Uint32(w.tiff[end-4:]), true
}
