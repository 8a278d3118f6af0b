package bytecode

import "encoding/binary"

// EncodeImage assembles an image back into the binary format ParseImage
// reads. The type segment is padded or truncated to ceil(MemorySize/2) and
// the data segment to MemorySize bytes.
func EncodeImage(img *Image) []byte {
	typeLen := (img.MemorySize + 1) / 2
	out := make([]byte, 0, uint64(HeaderSize)+img.MemorySize+typeLen+uint64(len(img.Code)))

	out = append(out, Magic[:]...)
	out = append(out, 0, 0, 0, 0)
	out = binary.BigEndian.AppendUint64(out, img.MemorySize)

	out = appendPadded(out, img.Data, img.MemorySize)
	out = appendPadded(out, img.Types, typeLen)
	return append(out, img.Code...)
}

func appendPadded(dst, src []byte, n uint64) []byte {
	if uint64(len(src)) > n {
		src = src[:n]
	}
	dst = append(dst, src...)
	for i := uint64(len(src)); i < n; i++ {
		dst = append(dst, 0)
	}
	return dst
}
