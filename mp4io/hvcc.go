package mp4io

import (
	"fmt"

	"github.com/avpkg/hvcbox/utils/bits/pio"
)

const HVCC = Tag(0x68766343)

// Reserved bit patterns mandated by ISO/IEC 14496-15 for the HEVC decoder
// configuration record. Reserved bits are written exactly as below and
// masked off on read; some decoders inspect them, so they must not drift.
const (
	confVersion           = 0x01
	minSpatialSegReserved = 0xF000
	parallelismReserved   = 0xFC
	chromaReserved        = 0xFC
	chromaMask            = 0x03
	bitDepthReserved      = 0xF8
	bitDepthMask          = 0x07
	frameRateReserved     = 0x0000
	lengthSizeReserved    = 0x03
	temporalIDNestedFlag  = 0x04
)

// confFixedLen is the byte count of the record's fixed fields, before the
// NAL unit arrays.
const confFixedLen = 23

func (self HV1Conf) Tag() Tag {
	return HVCC
}

// HV1Conf is the hvcC decoder configuration record. GeneralConfig carries the
// 12 profile/tier/level and constraint bytes verbatim; this package never
// interprets them. The four NAL unit arrays keep their wire order.
type HV1Conf struct {
	GeneralConfig        [12]byte
	NumTemporalLayers    uint8
	ChromaIDC            uint8
	BitDepthLumaMinus8   uint8
	BitDepthChromaMinus8 uint8
	TemporalIDNested     bool
	VPS                  []NALUnit
	SPS                  []NALUnit
	PPS                  []NALUnit
	SEI                  []NALUnit
	AtomPos
}

// NumNALUnits is the total across all four arrays. The wire format stores it
// in one byte, so keeping more than 255 units is a caller error.
func (self HV1Conf) NumNALUnits() int {
	return len(self.VPS) + len(self.SPS) + len(self.PPS) + len(self.SEI)
}

func (self HV1Conf) Marshal(b []byte) (n int) {
	pio.PutU32BE(b[4:], uint32(HVCC))
	n += self.marshal(b[8:]) + 8
	pio.PutU32BE(b[0:], uint32(n))
	return
}

func (self HV1Conf) marshal(b []byte) (n int) {
	pio.PutU8(b[n:], confVersion)
	n++
	copy(b[n:], self.GeneralConfig[:])
	n += len(self.GeneralConfig)
	pio.PutU16BE(b[n:], minSpatialSegReserved)
	n += 2
	pio.PutU8(b[n:], parallelismReserved)
	n++
	pio.PutU8(b[n:], chromaReserved|self.ChromaIDC&chromaMask)
	n++
	pio.PutU8(b[n:], bitDepthReserved|self.BitDepthLumaMinus8&bitDepthMask)
	n++
	pio.PutU8(b[n:], bitDepthReserved|self.BitDepthChromaMinus8&bitDepthMask)
	n++
	pio.PutU16BE(b[n:], frameRateReserved)
	n += 2
	stc := self.NumTemporalLayers&0x07<<3 | lengthSizeReserved
	if self.TemporalIDNested {
		stc |= temporalIDNestedFlag
	}
	pio.PutU8(b[n:], stc)
	n++
	pio.PutU8(b[n:], uint8(self.NumNALUnits()))
	n++
	n += marshalNALUnits(b[n:], NALUnitTypeVPS, self.VPS)
	n += marshalNALUnits(b[n:], NALUnitTypeSPS, self.SPS)
	n += marshalNALUnits(b[n:], NALUnitTypePPS, self.PPS)
	n += marshalNALUnits(b[n:], NALUnitTypeSEI, self.SEI)
	return
}

func (self HV1Conf) Len() (n int) {
	n += HeaderSize + confFixedLen
	n += lenNALUnits(self.VPS)
	n += lenNALUnits(self.SPS)
	n += lenNALUnits(self.PPS)
	n += lenNALUnits(self.SEI)
	return
}

func (self *HV1Conf) Unmarshal(b []byte, offset int) (n int, err error) {
	(&self.AtomPos).setPos(offset, len(b))
	n += 8
	if len(b) < n+confFixedLen {
		err = parseErr("FixedFields", n+offset, err)
		return
	}
	n++ // configuration version
	copy(self.GeneralConfig[:], b[n:])
	n += len(self.GeneralConfig)
	n += 2 // min spatial segmentation
	n++    // parallelism type
	self.ChromaIDC = pio.U8(b[n:]) & chromaMask
	n++
	self.BitDepthLumaMinus8 = pio.U8(b[n:]) & bitDepthMask
	n++
	self.BitDepthChromaMinus8 = pio.U8(b[n:]) & bitDepthMask
	n++
	n += 2 // avg framerate
	stc := pio.U8(b[n:])
	n++
	self.NumTemporalLayers = stc >> 3
	self.TemporalIDNested = stc&temporalIDNestedFlag != 0
	numNALUs := int(pio.U8(b[n:]))
	n++

	// NAL units come grouped by type. The loop runs until the declared total
	// is consumed, however many group headers that takes. Unknown group types
	// are read through to keep alignment but their units are dropped.
	for count := 0; count < numNALUs; {
		if len(b) < n+3 {
			err = parseErr("NALUnitArrayHeader", n+offset, err)
			return
		}
		typ := pio.U8(b[n:])
		n++
		num := int(pio.U16BE(b[n:]))
		n += 2
		for i := 0; i < num; i++ {
			var unit NALUnit
			var nn int
			if nn, err = unit.Unmarshal(b[n:], offset+n); err != nil {
				return
			}
			n += nn
			switch typ {
			case NALUnitTypeVPS:
				self.VPS = append(self.VPS, unit)
			case NALUnitTypeSPS:
				self.SPS = append(self.SPS, unit)
			case NALUnitTypePPS:
				self.PPS = append(self.PPS, unit)
			case NALUnitTypeSEI:
				self.SEI = append(self.SEI, unit)
			}
			count++
		}
	}
	return
}

func (self HV1Conf) Children() (r []Atom) {
	return
}

func (self HV1Conf) String() string {
	return fmt.Sprintf(
		"general_config=%x num_temporal_layers=%d chroma_idc=%d bit_depth_luma_minus8=%d bit_depth_chroma_minus8=%d temporal_id_nested=%t vps=%d sps=%d pps=%d sei=%d",
		self.GeneralConfig, self.NumTemporalLayers, self.ChromaIDC,
		self.BitDepthLumaMinus8, self.BitDepthChromaMinus8, self.TemporalIDNested,
		len(self.VPS), len(self.SPS), len(self.PPS), len(self.SEI),
	)
}

func (self HV1Conf) Summary() string {
	return fmt.Sprintf("chroma_idc=%d", self.ChromaIDC)
}
