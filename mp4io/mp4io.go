// Package mp4io implements marshalling of the ISO base media boxes that carry
// an HEVC track description: the hvc1 visual sample entry, its nested hvcC
// decoder configuration record, and the container chain that leads to them.
package mp4io

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/avpkg/hvcbox/utils/bits/pio"
)

// HeaderSize is the size of a plain box header: 32-bit size plus 4-byte tag.
const HeaderSize = 8

func PutFixed16(b []byte, f float64) {
	intpart, fracpart := math.Modf(f)
	b[0] = uint8(intpart)
	b[1] = uint8(fracpart * 256.0)
}

func GetFixed16(b []byte) float64 {
	return float64(b[0]) + float64(b[1])/256.0
}

// PutFixed32 stores f as a 16.16 fixed-point value.
func PutFixed32(b []byte, f float64) {
	intpart, fracpart := math.Modf(f)
	pio.PutU16BE(b[0:2], uint16(intpart))
	pio.PutU16BE(b[2:4], uint16(fracpart*65536.0))
}

// GetFixed32 reads a 16.16 fixed-point value.
func GetFixed32(b []byte) float64 {
	return float64(pio.U16BE(b[0:2])) + float64(pio.U16BE(b[2:4]))/65536.0
}

type Tag uint32

func (self Tag) String() string {
	var b [4]byte
	pio.PutU32BE(b[:], uint32(self))
	for i := 0; i < 4; i++ {
		if b[i] == 0 {
			b[i] = ' '
		}
	}
	return string(b[:])
}

func StringToTag(tag string) Tag {
	var b [4]byte
	copy(b[:], []byte(tag))
	return Tag(pio.U32BE(b[:]))
}

// Atom is one box. Marshal writes the full box including its header and
// returns the byte count; the size word is recomputed from that count on
// every call, never cached. Unmarshal receives exactly the declared extent
// of the box, header included, and the absolute file offset of its start.
// The parent always advances by the declared size rather than the consumed
// count, so trailing bytes inside a box are tolerated and skipped.
type Atom interface {
	Pos() (int, int)
	Tag() Tag
	Marshal([]byte) int
	Unmarshal([]byte, int) (int, error)
	Len() int
	Children() []Atom
}

type AtomPos struct {
	Offset int
	Size   int
}

func (self AtomPos) Pos() (int, int) {
	return self.Offset, self.Size
}

func (self *AtomPos) setPos(offset int, size int) {
	self.Offset, self.Size = offset, size
}

// Dummy holds a box of a type this package does not interpret.
type Dummy struct {
	Data []byte
	Tag_ Tag
	AtomPos
}

func (self Dummy) Children() []Atom {
	return nil
}

func (self Dummy) Tag() Tag {
	return self.Tag_
}

func (self Dummy) Len() int {
	return len(self.Data)
}

func (self Dummy) Marshal(b []byte) int {
	copy(b, self.Data)
	return len(self.Data)
}

func (self *Dummy) Unmarshal(b []byte, offset int) (n int, err error) {
	(&self.AtomPos).setPos(offset, len(b))
	self.Data = b
	n = len(b)
	return
}

func FindChildrenByName(root Atom, tag string) Atom {
	return FindChildren(root, StringToTag(tag))
}

func FindChildren(root Atom, tag Tag) Atom {
	if root.Tag() == tag {
		return root
	}
	for _, child := range root.Children() {
		if r := FindChildren(child, tag); r != nil {
			return r
		}
	}
	return nil
}

const MDAT = Tag(0x6d646174)

// ReadFileAtoms reads top-level boxes until EOF. The moov box is parsed into
// typed atoms; everything else is recorded as a Dummy and seeked over, so a
// multi-gigabyte mdat costs one seek. I/O errors from r propagate unmodified.
func ReadFileAtoms(r io.ReadSeeker) (atoms []Atom, err error) {
	for {
		var offset int64
		if offset, err = r.Seek(0, io.SeekCurrent); err != nil {
			return
		}
		taghdr := make([]byte, HeaderSize)
		if _, err = io.ReadFull(r, taghdr); err != nil {
			if err == io.EOF {
				err = nil
			}
			return
		}
		size := int(pio.U32BE(taghdr[0:]))
		tag := Tag(pio.U32BE(taghdr[4:]))
		isExtendedSize := tag == MDAT && size == 1

		if isExtendedSize {
			sBuf := make([]byte, 8)
			if _, err = io.ReadFull(r, sBuf); err != nil {
				return
			}
			size = int(pio.I64BE(sBuf))
		}
		if size < HeaderSize {
			err = parseErr("TagSizeInvalid", int(offset), err)
			return
		}

		var atom Atom
		if tag == MOOV {
			atom = &Movie{}
		}

		if atom != nil {
			b := make([]byte, size)
			if _, err = io.ReadFull(r, b[HeaderSize:]); err != nil {
				return
			}
			copy(b, taghdr)
			if _, err = atom.Unmarshal(b, int(offset)); err != nil {
				return
			}
			atoms = append(atoms, atom)
		} else {
			dummy := &Dummy{Tag_: tag}
			dummy.setPos(int(offset), size)
			atoms = append(atoms, dummy)
			seek := int64(size) - HeaderSize
			if isExtendedSize {
				seek -= 8
			}
			if _, err = r.Seek(seek, io.SeekCurrent); err != nil {
				return
			}
		}
	}
}

func printatom(out io.Writer, root Atom, depth int) {
	offset, size := root.Pos()

	type stringintf interface {
		String() string
	}

	fmt.Fprintf(out,
		"%s%s offset=%d size=%d",
		strings.Repeat(" ", depth*2), root.Tag(), offset, size,
	)
	if str, ok := root.(stringintf); ok {
		fmt.Fprint(out, " ", str.String())
	}
	fmt.Fprintln(out)

	for _, child := range root.Children() {
		printatom(out, child, depth+1)
	}
}

// FprintAtom dumps the atom tree, one box per line with all decoded fields.
func FprintAtom(out io.Writer, root Atom) {
	printatom(out, root, 0)
}

func PrintAtom(root Atom) {
	FprintAtom(os.Stdout, root)
}

func (self *Track) GetHV1Desc() (desc *HV1Desc) {
	atom := FindChildren(self, HVC1)
	desc, _ = atom.(*HV1Desc)
	return
}

func (self *Track) GetHV1Conf() (conf *HV1Conf) {
	atom := FindChildren(self, HVCC)
	conf, _ = atom.(*HV1Conf)
	return
}
