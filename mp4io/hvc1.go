package mp4io

import (
	"fmt"

	"github.com/avpkg/hvcbox/utils/bits/pio"
)

const HVC1 = Tag(0x68766331)

const (
	defaultDPI        = 72
	defaultDepth      = 0x0018
	colorTableIDNone  = -1
	compressorNameLen = 32
)

func (self HV1Desc) Tag() Tag {
	return HVC1
}

// HV1Desc is the hvc1 visual sample entry. The pre-defined and reserved
// fields of the 70-byte fixed layout are not kept: they are written as the
// constants the format mandates and discarded on read.
type HV1Desc struct {
	DataRefIdx           int16
	Width                int16
	Height               int16
	HorizontalResolution float64
	VerticalResolution   float64
	FrameCount           int16
	Depth                int16
	Conf                 *HV1Conf
	AtomPos
}

// HVCConfig supplies everything needed to build a sample entry from scratch.
// Parameter sets are raw byte slices, kept in their given order.
type HVCConfig struct {
	Width           int16
	Height          int16
	VideoParamSets  [][]byte
	SeqParamSets    [][]byte
	PicParamSets    [][]byte
	SupplementalSEI [][]byte
}

// NewHV1Desc builds a sample entry with the format's default resolution
// (72 dpi), frame count (1) and depth (24-bit color), wrapping each raw
// parameter set of config as a NALUnit in its array.
func NewHV1Desc(config HVCConfig) *HV1Desc {
	return &HV1Desc{
		DataRefIdx:           1,
		Width:                config.Width,
		Height:               config.Height,
		HorizontalResolution: defaultDPI,
		VerticalResolution:   defaultDPI,
		FrameCount:           1,
		Depth:                defaultDepth,
		Conf: &HV1Conf{
			VPS: toNALUnits(config.VideoParamSets),
			SPS: toNALUnits(config.SeqParamSets),
			PPS: toNALUnits(config.PicParamSets),
			SEI: toNALUnits(config.SupplementalSEI),
		},
	}
}

func toNALUnits(raw [][]byte) (units []NALUnit) {
	for _, data := range raw {
		units = append(units, NALUnit{Data: data})
	}
	return
}

func (self HV1Desc) Marshal(b []byte) (n int) {
	pio.PutU32BE(b[4:], uint32(HVC1))
	n += self.marshal(b[8:]) + 8
	pio.PutU32BE(b[0:], uint32(n))
	return
}

func (self HV1Desc) marshal(b []byte) (n int) {
	clear(b[n : n+6]) // reserved
	n += 6
	pio.PutI16BE(b[n:], self.DataRefIdx)
	n += 2
	clear(b[n : n+16]) // pre-defined, reserved
	n += 16
	pio.PutI16BE(b[n:], self.Width)
	n += 2
	pio.PutI16BE(b[n:], self.Height)
	n += 2
	PutFixed32(b[n:], self.HorizontalResolution)
	n += 4
	PutFixed32(b[n:], self.VerticalResolution)
	n += 4
	clear(b[n : n+4]) // reserved
	n += 4
	pio.PutI16BE(b[n:], self.FrameCount)
	n += 2
	clear(b[n : n+compressorNameLen]) // compressorname
	n += compressorNameLen
	pio.PutI16BE(b[n:], self.Depth)
	n += 2
	pio.PutI16BE(b[n:], colorTableIDNone) // pre-defined
	n += 2
	if self.Conf != nil {
		n += self.Conf.Marshal(b[n:])
	}
	return
}

func (self HV1Desc) Len() (n int) {
	n += HeaderSize
	n += 8  // reserved, data reference index
	n += 70 // fixed visual sample entry fields
	if self.Conf != nil {
		n += self.Conf.Len()
	}
	return
}

// Unmarshal decodes the fixed fields and then requires the next nested box
// to be hvcC; any other tag is a parse error and no partial result is kept.
// Bytes after the hvcC box inside the declared extent are ignored.
func (self *HV1Desc) Unmarshal(b []byte, offset int) (n int, err error) {
	(&self.AtomPos).setPos(offset, len(b))
	n += 8
	n += 6 // reserved
	if len(b) < n+2 {
		err = parseErr("DataRefIdx", n+offset, err)
		return
	}
	self.DataRefIdx = pio.I16BE(b[n:])
	n += 2
	n += 16 // pre-defined, reserved
	if len(b) < n+2 {
		err = parseErr("Width", n+offset, err)
		return
	}
	self.Width = pio.I16BE(b[n:])
	n += 2
	if len(b) < n+2 {
		err = parseErr("Height", n+offset, err)
		return
	}
	self.Height = pio.I16BE(b[n:])
	n += 2
	if len(b) < n+4 {
		err = parseErr("HorizontalResolution", n+offset, err)
		return
	}
	self.HorizontalResolution = GetFixed32(b[n:])
	n += 4
	if len(b) < n+4 {
		err = parseErr("VerticalResolution", n+offset, err)
		return
	}
	self.VerticalResolution = GetFixed32(b[n:])
	n += 4
	n += 4 // reserved
	if len(b) < n+2 {
		err = parseErr("FrameCount", n+offset, err)
		return
	}
	self.FrameCount = pio.I16BE(b[n:])
	n += 2
	n += compressorNameLen
	if len(b) < n+2 {
		err = parseErr("Depth", n+offset, err)
		return
	}
	self.Depth = pio.I16BE(b[n:])
	n += 2
	n += 2 // pre-defined

	if len(b) < n+HeaderSize {
		err = parseErr("ConfHeader", n+offset, err)
		return
	}
	size := int(pio.U32BE(b[n:]))
	if tag := Tag(pio.U32BE(b[n+4:])); tag != HVCC {
		err = parseErr("hvcC", n+offset, err)
		return
	}
	if size < HeaderSize || len(b) < n+size {
		err = parseErr("TagSizeInvalid", n+offset, err)
		return
	}
	atom := &HV1Conf{}
	if _, err = atom.Unmarshal(b[n:n+size], offset+n); err != nil {
		err = parseErr("hvcC", n+offset, err)
		return
	}
	self.Conf = atom
	n += size
	return
}

func (self HV1Desc) Children() (r []Atom) {
	if self.Conf != nil {
		r = append(r, self.Conf)
	}
	return
}

func (self HV1Desc) String() string {
	return fmt.Sprintf(
		"data_reference_index=%d width=%d height=%d horizontal_resolution=%g vertical_resolution=%g frame_count=%d depth=%d",
		self.DataRefIdx, self.Width, self.Height,
		self.HorizontalResolution, self.VerticalResolution,
		self.FrameCount, self.Depth,
	)
}

func (self HV1Desc) Summary() string {
	return fmt.Sprintf("data_reference_index=%d width=%d height=%d frame_count=%d",
		self.DataRefIdx, self.Width, self.Height, self.FrameCount)
}
