// Package fixture builds in-memory images for tests: plain JPEG/PNG bodies
// and JPEGs carrying a hand-assembled EXIF APP1 segment.
package fixture

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"sort"
)

// Exif lists the tags to embed. Empty fields are omitted.
type Exif struct {
	Make             string
	Model            string
	DateTime         string
	DateTimeOriginal string
}

const (
	tagMake             = 0x010F
	tagModel            = 0x0110
	tagDateTime         = 0x0132
	tagExifIFDPointer   = 0x8769
	tagDateTimeOriginal = 0x9003

	typeASCII = 2
	typeLong  = 4
)

func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	return img
}

func JPEG(w, h int) []byte {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, gradient(w, h), &jpeg.Options{Quality: 90}); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func PNG(w, h int) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, gradient(w, h)); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// JPEGWithExif returns a w x h JPEG whose first segment after SOI is an EXIF
// APP1 block holding the given tags.
func JPEGWithExif(w, h int, x Exif) []byte {
	return withAPP1(JPEG(w, h), append([]byte("Exif\x00\x00"), TIFF(x)...))
}

// JPEGWithBrokenExif carries an APP1 block whose TIFF payload is garbage.
func JPEGWithBrokenExif(w, h int) []byte {
	return withAPP1(JPEG(w, h), []byte("Exif\x00\x00XX\x00\x00\x01"))
}

// JPEGWithOversizedTag carries an IFD0 Make entry retyped LONG whose count
// claims about 4 GiB of values inside a few dozen bytes of TIFF data.
func JPEGWithOversizedTag(w, h int) []byte {
	return withAPP1(JPEG(w, h), append([]byte("Exif\x00\x00"), rawTIFF(ifdEntry{
		tag: tagMake, typ: typeLong, count: 0x40000001, value: 8,
	}, 0)...))
}

// JPEGWithLoopedIFD carries an IFD0 whose next-IFD offset points back at
// itself.
func JPEGWithLoopedIFD(w, h int) []byte {
	return withAPP1(JPEG(w, h), append([]byte("Exif\x00\x00"), rawTIFF(ifdEntry{
		tag: tagModel, typ: typeASCII, count: 4, value: 0x00585858,
	}, 8)...))
}

// rawTIFF writes a little-endian TIFF with a single one-entry IFD0 taken
// verbatim, followed by next as the next-IFD offset.
func rawTIFF(e ifdEntry, next uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("II")
	_ = binary.Write(&buf, binary.LittleEndian, uint16(42))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(8))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(&buf, binary.LittleEndian, e.tag)
	_ = binary.Write(&buf, binary.LittleEndian, e.typ)
	_ = binary.Write(&buf, binary.LittleEndian, e.count)
	_ = binary.Write(&buf, binary.LittleEndian, e.value)
	_ = binary.Write(&buf, binary.LittleEndian, next)
	buf.Write(make([]byte, 16))
	return buf.Bytes()
}

// PNGHeaderOnly is a tiny PNG whose IHDR declares w x h pixels. The image
// data covers only one pixel, so decoding it fully would fail late.
func PNGHeaderOnly(w, h uint32) []byte {
	b := PNG(1, 1)

	// signature(8) length(4) "IHDR"(4) width(4) height(4) ... crc
	binary.BigEndian.PutUint32(b[16:], w)
	binary.BigEndian.PutUint32(b[20:], h)
	binary.BigEndian.PutUint32(b[29:], crc32.ChecksumIEEE(b[12:29]))
	return b
}

// Corrupt is a body that is neither an image nor contains any EXIF marker.
func Corrupt() []byte {
	return []byte("this is definitely not an image, just some plain text bytes")
}

func withAPP1(jpg, payload []byte) []byte {
	seg := make([]byte, 4, 4+len(payload))
	seg[0], seg[1] = 0xFF, 0xE1
	binary.BigEndian.PutUint16(seg[2:], uint16(len(payload)+2))
	seg = append(seg, payload...)

	out := make([]byte, 0, len(jpg)+len(seg))
	out = append(out, jpg[:2]...) // SOI
	out = append(out, seg...)
	out = append(out, jpg[2:]...)
	return out
}

type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	value uint32
	data  []byte
}

func asciiEntry(tag uint16, s string) ifdEntry {
	b := append([]byte(s), 0)
	return ifdEntry{tag: tag, typ: typeASCII, count: uint32(len(b)), data: b}
}

// TIFF encodes a little-endian TIFF structure with IFD0 and, when needed, an
// Exif sub-IFD.
func TIFF(x Exif) []byte {
	var ifd0, sub []ifdEntry
	if x.Make != "" {
		ifd0 = append(ifd0, asciiEntry(tagMake, x.Make))
	}
	if x.Model != "" {
		ifd0 = append(ifd0, asciiEntry(tagModel, x.Model))
	}
	if x.DateTime != "" {
		ifd0 = append(ifd0, asciiEntry(tagDateTime, x.DateTime))
	}
	if x.DateTimeOriginal != "" {
		sub = append(sub, asciiEntry(tagDateTimeOriginal, x.DateTimeOriginal))
	}

	ifdSize := func(n int) uint32 { return uint32(2 + 12*n + 4) }

	n0 := len(ifd0)
	if len(sub) > 0 {
		n0++
	}
	ifd0Offset := uint32(8)
	subOffset := ifd0Offset + ifdSize(n0)
	dataOffset := subOffset
	if len(sub) > 0 {
		dataOffset += ifdSize(len(sub))
		ifd0 = append(ifd0, ifdEntry{tag: tagExifIFDPointer, typ: typeLong, count: 1, value: subOffset})
	}

	var data []byte
	place := func(entries []ifdEntry) {
		for i := range entries {
			e := &entries[i]
			if e.data == nil {
				continue
			}
			if len(e.data) <= 4 {
				var v [4]byte
				copy(v[:], e.data)
				e.value = binary.LittleEndian.Uint32(v[:])
				continue
			}
			e.value = dataOffset + uint32(len(data))
			data = append(data, e.data...)
			if len(data)%2 == 1 {
				data = append(data, 0)
			}
		}
	}
	place(ifd0)
	place(sub)

	var buf bytes.Buffer
	buf.WriteString("II")
	_ = binary.Write(&buf, binary.LittleEndian, uint16(42))
	_ = binary.Write(&buf, binary.LittleEndian, ifd0Offset)
	writeIFD(&buf, ifd0)
	if len(sub) > 0 {
		writeIFD(&buf, sub)
	}
	buf.Write(data)
	return buf.Bytes()
}

func writeIFD(buf *bytes.Buffer, entries []ifdEntry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].tag < entries[j].tag })

	_ = binary.Write(buf, binary.LittleEndian, uint16(len(entries)))
	for _, e := range entries {
		_ = binary.Write(buf, binary.LittleEndian, e.tag)
		_ = binary.Write(buf, binary.LittleEndian, e.typ)
		_ = binary.Write(buf, binary.LittleEndian, e.count)
		_ = binary.Write(buf, binary.LittleEndian, e.value)
	}
	_ = binary.Write(buf, binary.LittleEndian, uint32(0))
}
