// Package msgtest builds minimal Outlook .msg fixtures for tests: a valid
// OLE2 compound file holding a single top-level UTF-16LE body stream.
package msgtest

import (
	"encoding/binary"
	"unicode/utf16"
)

const (
	sectorSize = 512

	freeSect   = 0xFFFFFFFF
	endOfChain = 0xFFFFFFFE
	fatSect    = 0xFFFFFFFD
	noStream   = 0xFFFFFFFF
)

// BuildMsg returns a compound file whose only stream is the plain-text body.
// The body is space-padded to the 4096-byte mini-stream cutoff so it stores
// as a regular stream; extraction trims the padding away again.
func BuildMsg(body string) []byte {
	units := utf16.Encode([]rune(body))
	for len(units)*2 < 4096 {
		units = append(units, uint16(' '))
	}
	data := make([]byte, 0, len(units)*2)
	for _, u := range units {
		data = binary.LittleEndian.AppendUint16(data, u)
	}
	streamSize := len(data)
	dataSectors := (streamSize + sectorSize - 1) / sectorSize

	// Sector layout: 0 = FAT, 1 = directory, 2.. = body stream.
	numSectors := 2 + dataSectors
	if numSectors > sectorSize/4 {
		panic("msgtest: body too large for a single FAT sector")
	}

	buf := make([]byte, sectorSize+numSectors*sectorSize)
	le := binary.LittleEndian

	// Header.
	copy(buf, []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1})
	le.PutUint16(buf[24:], 0x003E)     // minor version
	le.PutUint16(buf[26:], 0x0003)     // major version 3
	le.PutUint16(buf[28:], 0xFFFE)     // little-endian marker
	le.PutUint16(buf[30:], 9)          // 512-byte sectors
	le.PutUint16(buf[32:], 6)          // 64-byte mini sectors
	le.PutUint32(buf[44:], 1)          // one FAT sector
	le.PutUint32(buf[48:], 1)          // directory starts at sector 1
	le.PutUint32(buf[56:], 4096)       // mini stream cutoff
	le.PutUint32(buf[60:], endOfChain) // no mini FAT
	le.PutUint32(buf[68:], endOfChain) // no DIFAT overflow
	le.PutUint32(buf[76:], 0)          // DIFAT[0]: the FAT lives in sector 0
	for i := 1; i < 109; i++ {
		le.PutUint32(buf[76+4*i:], freeSect)
	}

	sector := func(n int) []byte { return buf[sectorSize+n*sectorSize:] }

	// FAT.
	fat := sector(0)
	le.PutUint32(fat[0:], fatSect)
	le.PutUint32(fat[4:], endOfChain) // single directory sector
	for i := 0; i < dataSectors; i++ {
		next := uint32(endOfChain)
		if i < dataSectors-1 {
			next = uint32(2 + i + 1)
		}
		le.PutUint32(fat[(2+i)*4:], next)
	}
	for i := 2 + dataSectors; i < sectorSize/4; i++ {
		le.PutUint32(fat[i*4:], freeSect)
	}

	// Directory: root entry pointing at the body stream; the remaining two
	// entries stay zeroed (unused).
	dir := sector(1)
	writeDirEntry(dir[0:], "Root Entry", 5, noStream, noStream, 1, endOfChain, 0)
	writeDirEntry(dir[128:], "__substg1.0_1000001F", 2, noStream, noStream, noStream, 2, uint64(streamSize))

	// Body stream.
	copy(sector(2), data)

	return buf
}

func writeDirEntry(b []byte, name string, objType byte, left, right, child, start uint32, size uint64) {
	le := binary.LittleEndian
	units := utf16.Encode([]rune(name))
	for i, u := range units {
		le.PutUint16(b[i*2:], u)
	}
	le.PutUint16(b[64:], uint16((len(units)+1)*2)) // name length incl. the null pair
	b[66] = objType
	b[67] = 1 // black
	le.PutUint32(b[68:], left)
	le.PutUint32(b[72:], right)
	le.PutUint32(b[76:], child)
	le.PutUint32(b[116:], start)
	le.PutUint64(b[120:], size)
}
