package mp4io

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avpkg/hvcbox/utils/bits/pio"
)

func testMovie() *Movie {
	return &Movie{
		Tracks: []*Track{{
			Media: &Media{
				Info: &MediaInfo{
					Sample: &SampleTable{
						SampleDesc: &SampleDesc{
							HV1Desc: NewHV1Desc(testConfig()),
						},
					},
				},
			},
		}},
	}
}

func TestMovieRoundTrip(t *testing.T) {
	t.Parallel()

	movie := testMovie()
	b := make([]byte, movie.Len())
	n := movie.Marshal(b)
	require.Equal(t, movie.Len(), n)

	var got Movie
	nn, err := got.Unmarshal(b, 0)
	require.NoError(t, err)
	require.Equal(t, n, nn)
	require.Len(t, got.Tracks, 1)

	desc := got.Tracks[0].GetHV1Desc()
	require.NotNil(t, desc)
	require.Equal(t, int16(1920), desc.Width)
	require.Equal(t, int16(1080), desc.Height)

	conf := got.Tracks[0].GetHV1Conf()
	require.NotNil(t, conf)
	require.Len(t, conf.SPS, 1)
	require.Equal(t, testSPS, conf.SPS[0].Data)
}

func TestMovieUnknownChildrenPreserved(t *testing.T) {
	t.Parallel()

	udta := &Dummy{Tag_: StringToTag("udta")}
	raw := make([]byte, 16)
	pio.PutU32BE(raw, 16)
	pio.PutU32BE(raw[4:], uint32(StringToTag("udta")))
	udta.Data = raw

	movie := testMovie()
	movie.Unknowns = append(movie.Unknowns, udta)

	b := make([]byte, movie.Len())
	movie.Marshal(b)

	var got Movie
	_, err := got.Unmarshal(b, 0)
	require.NoError(t, err)
	require.Len(t, got.Unknowns, 1)
	require.Equal(t, StringToTag("udta"), got.Unknowns[0].Tag())
	require.Equal(t, raw, got.Unknowns[0].(*Dummy).Data)
}

func TestReadFileAtoms(t *testing.T) {
	t.Parallel()

	movie := testMovie()
	moov := make([]byte, movie.Len())
	movie.Marshal(moov)

	var file bytes.Buffer
	ftyp := []byte{0, 0, 0, 16, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm', 0, 0, 2, 0}
	file.Write(ftyp)
	file.Write(moov)
	mdat := []byte{0, 0, 0, 12, 'm', 'd', 'a', 't', 1, 2, 3, 4}
	file.Write(mdat)

	atoms, err := ReadFileAtoms(bytes.NewReader(file.Bytes()))
	require.NoError(t, err)
	require.Len(t, atoms, 3)

	require.Equal(t, StringToTag("ftyp"), atoms[0].Tag())
	offset, size := atoms[0].Pos()
	require.Equal(t, 0, offset)
	require.Equal(t, 16, size)

	got, ok := atoms[1].(*Movie)
	require.True(t, ok)
	offset, size = got.Pos()
	require.Equal(t, 16, offset)
	require.Equal(t, movie.Len(), size)

	require.Equal(t, MDAT, atoms[2].Tag())

	desc, ok := FindChildren(got, HVC1).(*HV1Desc)
	require.True(t, ok)
	require.Equal(t, int16(1080), desc.Height)
	require.NotNil(t, FindChildrenByName(got, "hvcC"))
	require.Nil(t, FindChildren(got, StringToTag("avcC")))
}

func TestReadFileAtomsBadSize(t *testing.T) {
	t.Parallel()

	bad := []byte{0, 0, 0, 2, 'f', 'r', 'e', 'e'}
	_, err := ReadFileAtoms(bytes.NewReader(bad))
	require.Error(t, err)
	requireParseError(t, err)
}

func TestFprintAtom(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	FprintAtom(&sb, testMovie())
	out := sb.String()

	require.Contains(t, out, "moov")
	require.Contains(t, out, "hvc1")
	require.Contains(t, out, "hvcC")
	require.Contains(t, out, "width=1920")
	require.Contains(t, out, "chroma_idc=0")
	require.Contains(t, out, "sps=1")
}

func TestFixed32(t *testing.T) {
	t.Parallel()

	var b [4]byte
	PutFixed32(b[:], 72)
	require.Equal(t, uint32(0x00480000), pio.U32BE(b[:]))
	require.Equal(t, float64(72), GetFixed32(b[:]))

	PutFixed32(b[:], 1.5)
	require.Equal(t, uint32(0x00018000), pio.U32BE(b[:]))
	require.Equal(t, 1.5, GetFixed32(b[:]))
}

func TestTagString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "hvc1", HVC1.String())
	require.Equal(t, "hvcC", HVCC.String())
	require.Equal(t, HVC1, StringToTag("hvc1"))
}
