package mp4io

import "github.com/avpkg/hvcbox/utils/bits/pio"

// HEVC NAL unit types carried in the hvcC array headers.
const (
	NALUnitTypeVPS = 32
	NALUnitTypeSPS = 33
	NALUnitTypePPS = 34
	NALUnitTypeSEI = 39
)

// NALUnit is an opaque parameter-set payload, stored on the wire as a 16-bit
// big-endian length followed by the raw bytes. Payloads longer than 65535
// bytes are not representable.
type NALUnit struct {
	Data []byte
}

func (self NALUnit) Len() int {
	return 2 + len(self.Data)
}

func (self NALUnit) Marshal(b []byte) (n int) {
	pio.PutU16BE(b[n:], uint16(len(self.Data)))
	n += 2
	copy(b[n:], self.Data)
	n += len(self.Data)
	return
}

// Unmarshal reads one unit. A payload shorter than its declared length is a
// parse error, never a silently truncated unit.
func (self *NALUnit) Unmarshal(b []byte, offset int) (n int, err error) {
	if len(b) < n+2 {
		err = parseErr("NALUnitLength", n+offset, err)
		return
	}
	length := int(pio.U16BE(b[n:]))
	n += 2
	if len(b) < n+length {
		err = parseErr("NALUnitData", n+offset, err)
		return
	}
	self.Data = b[n : n+length]
	n += length
	return
}

func marshalNALUnits(b []byte, typ uint8, units []NALUnit) (n int) {
	if len(units) == 0 {
		return
	}
	pio.PutU8(b[n:], typ)
	n++
	pio.PutU16BE(b[n:], uint16(len(units)))
	n += 2
	for _, unit := range units {
		n += unit.Marshal(b[n:])
	}
	return
}

func lenNALUnits(units []NALUnit) (n int) {
	if len(units) == 0 {
		return
	}
	n += 3
	for _, unit := range units {
		n += unit.Len()
	}
	return
}
