package word

// Word6SprmLength returns the length in bytes of the Word 6/7 property
// modifier whose one byte opcode is at page[i], opcode included.
func Word6SprmLength(page []byte, i int) int {
	p := fkp(page)
	switch p.u8(i) {
	case 0x02, 0x10, 0x11, 0x13, 0x15, 0x16, 0x1b, 0x1c,
		0x26, 0x27, 0x28, 0x29, 0x2a, 0x2b, 0x2d, 0x2e,
		0x2f, 0x30, 0x31, 0x50, 0x5d, 0x60, 0x61, 0x63,
		0x65, 0x69, 0x6a, 0x6b, 0x90, 0xa4, 0xa5, 0xb6,
		0xb8, 0xbd, 0xc3, 0xc5, 0xc6:
		return 3
	case 0x03, 0x0c, 0x0f, 0x51, 0x67, 0x6c, 0xbc, 0xbe, 0xbf:
		return 2 + p.u8(i+1)
	case 0x14, 0x49, 0x4a, 0xc0, 0xc2, 0xc4, 0xc8:
		return 5
	case 0x17:
		n := p.u8(i + 1)
		if n == 255 {
			del := p.u8(i + 2)
			add := p.u8(i + 3 + del*4)
			n = 2 + del*4 + add*3
		}
		return 2 + n
	case 0x44, 0xc1, 0xc7:
		return 6
	case 0x5f, 0x88, 0x89:
		return 4
	case 0x78:
		return 14
	case 0xbb:
		return 13
	default:
		return 2
	}
}

// Word8SprmLength returns the length in bytes of the Word 8 property
// modifier whose two byte opcode is at page[i], opcode included. The size
// class lives in the top three bits of the opcode.
func Word8SprmLength(page []byte, i int) int {
	p := fkp(page)
	op := p.u16(i)
	switch op & 0xe000 {
	case 0x0000, 0x2000:
		return 3
	case 0x4000, 0x8000, 0xa000:
		return 4
	case 0xe000:
		return 5
	case 0x6000:
		return 6
	case 0xc000:
		n := p.u8(i + 2)
		if op == 0xc615 && n == 255 {
			del := p.u8(i + 3)
			add := p.u8(i + 4 + del*4)
			n = 2 + del*4 + add*3
		}
		return 3 + n
	default:
		return 1
	}
}
