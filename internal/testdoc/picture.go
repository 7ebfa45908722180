package testdoc

// Picture8 builds a Word 8 picture: a 68 byte picture header followed by a
// single blip record of the given tag and instance, its header of skip
// bytes and the image data.
func Picture8(tag, instance uint16, skip int, data []byte) []byte {
	const headerLen = 68
	b := make([]byte, headerLen+8+skip, headerLen+8+skip+len(data))
	b = append(b, data...)
	PutU32(b, 0, uint32(len(b)))
	PutU16(b, 4, headerLen)
	PutU16(b, 6, 100)
	pictureSize(b, 1440, 720)
	PutU16(b, headerLen, instance<<4)
	PutU16(b, headerLen+2, tag)
	PutU32(b, headerLen+4, uint32(skip+len(data)))
	return b
}

// Picture6 builds a Word 6 metafile picture holding a DIB.
func Picture6(dib []byte) []byte {
	const headerLen = 58
	b := make([]byte, headerLen+18+6+22, headerLen+18+6+22+len(dib))
	b = append(b, dib...)
	PutU32(b, 0, uint32(len(b)))
	PutU16(b, 4, headerLen)
	PutU16(b, 6, 8)
	pictureSize(b, 1440, 1440)
	PutU32(b, headerLen, 0x00090001)
	PutU16(b, headerLen+4, 0x0300)
	PutU32(b, headerLen+18, uint32(len(dib)/2+3+11))
	PutU16(b, headerLen+22, 0x0f43)
	return b
}

// pictureSize sets the size in twips and a scaling of 100 percent.
func pictureSize(b []byte, width, height uint16) {
	PutU16(b, 28, width)
	PutU16(b, 30, height)
	PutU16(b, 32, 1000)
	PutU16(b, 34, 1000)
}

// DIB24 builds an uncompressed 24 bit device independent bitmap filled
// with one color.
func DIB24(width, height int, r, g, bl byte) []byte {
	stride := (width*3 + 3) &^ 3
	b := make([]byte, 40+stride*height)
	PutU32(b, 0, 40)
	PutI32(b, 4, int32(width))
	PutI32(b, 8, int32(height))
	PutU16(b, 12, 1)
	PutU16(b, 14, 24)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := 40 + y*stride + x*3
			b[p], b[p+1], b[p+2] = bl, g, r
		}
	}
	return b
}
