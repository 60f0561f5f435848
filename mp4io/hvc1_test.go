package mp4io

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avpkg/hvcbox/utils/bits/pio"
)

var testSPS = []byte{
	0x42, 0x01, 0x01, 0x01, 0x60, 0x00, 0x00, 0x03, 0x00, 0x90, 0x00, 0x00,
	0x03, 0x00, 0x00, 0x03, 0x00, 0x5d, 0xa0, 0x02, 0x80, 0x80, 0x2d, 0x16,
}

var testPPS = []byte{0x44, 0x01, 0xc1, 0x73, 0xd1, 0x89}

func testConfig() HVCConfig {
	return HVCConfig{
		Width:        1920,
		Height:       1080,
		SeqParamSets: [][]byte{testSPS},
		PicParamSets: [][]byte{testPPS},
	}
}

func TestNewHV1DescDefaults(t *testing.T) {
	t.Parallel()

	desc := NewHV1Desc(testConfig())
	require.Equal(t, int16(1), desc.DataRefIdx)
	require.Equal(t, int16(1920), desc.Width)
	require.Equal(t, int16(1080), desc.Height)
	require.Equal(t, float64(72), desc.HorizontalResolution)
	require.Equal(t, float64(72), desc.VerticalResolution)
	require.Equal(t, int16(1), desc.FrameCount)
	require.Equal(t, int16(0x0018), desc.Depth)
	require.NotNil(t, desc.Conf)
	require.Empty(t, desc.Conf.VPS)
	require.Equal(t, testSPS, desc.Conf.SPS[0].Data)
	require.Equal(t, testPPS, desc.Conf.PPS[0].Data)
}

func TestHV1DescWorkedExampleSize(t *testing.T) {
	t.Parallel()

	desc := NewHV1Desc(testConfig())

	// hvcC: 8 header + 23 fixed + 3+(2+24) + 3+(2+6) = 71
	require.Equal(t, 71, desc.Conf.Len())
	// hvc1: 8 header + 8 lead + 70 fixed + 71 nested
	require.Equal(t, 157, desc.Len())

	b := make([]byte, desc.Len())
	require.Equal(t, 157, desc.Marshal(b))
}

func TestHV1DescRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		config HVCConfig
	}{
		{
			name:   "sps_pps",
			config: testConfig(),
		},
		{
			name: "all_roles",
			config: HVCConfig{
				Width:           3840,
				Height:          2160,
				VideoParamSets:  [][]byte{{0x40, 0x01, 0x0c}},
				SeqParamSets:    [][]byte{testSPS, testSPS},
				PicParamSets:    [][]byte{testPPS},
				SupplementalSEI: [][]byte{{0x4e, 0x01, 0x05, 0x0a}},
			},
		},
		{
			name:   "no_parameter_sets",
			config: HVCConfig{Width: 640, Height: 480},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			desc := NewHV1Desc(tt.config)
			b := make([]byte, desc.Len())
			n := desc.Marshal(b)
			require.Equal(t, desc.Len(), n)

			var got HV1Desc
			nn, err := got.Unmarshal(b, 0)
			require.NoError(t, err)
			require.Equal(t, n, nn)

			require.Equal(t, desc.DataRefIdx, got.DataRefIdx)
			require.Equal(t, desc.Width, got.Width)
			require.Equal(t, desc.Height, got.Height)
			require.Equal(t, desc.HorizontalResolution, got.HorizontalResolution)
			require.Equal(t, desc.VerticalResolution, got.VerticalResolution)
			require.Equal(t, desc.FrameCount, got.FrameCount)
			require.Equal(t, desc.Depth, got.Depth)
			require.NotNil(t, got.Conf)
			requireSameUnits(t, desc.Conf.VPS, got.Conf.VPS)
			requireSameUnits(t, desc.Conf.SPS, got.Conf.SPS)
			requireSameUnits(t, desc.Conf.PPS, got.Conf.PPS)
			requireSameUnits(t, desc.Conf.SEI, got.Conf.SEI)
		})
	}
}

func TestHV1DescNestedTagMismatch(t *testing.T) {
	t.Parallel()

	desc := NewHV1Desc(testConfig())
	b := make([]byte, desc.Len())
	desc.Marshal(b)

	// rewrite the nested box tag: avcC instead of hvcC
	pio.PutU32BE(b[8+8+70+4:], uint32(StringToTag("avcC")))

	var got HV1Desc
	_, err := got.Unmarshal(b, 0)
	require.Error(t, err)
	requireParseError(t, err)
	require.Nil(t, got.Conf)
}

func TestHV1DescMissingConf(t *testing.T) {
	t.Parallel()

	desc := NewHV1Desc(testConfig())
	b := make([]byte, desc.Len())
	desc.Marshal(b)

	// cut the stream off right before the nested header
	var got HV1Desc
	_, err := got.Unmarshal(b[:8+8+70], 0)
	require.Error(t, err)
	requireParseError(t, err)
	require.Nil(t, got.Conf)
}

func TestHV1DescTrailingBoxIgnored(t *testing.T) {
	t.Parallel()

	desc := NewHV1Desc(testConfig())
	inner := make([]byte, desc.Len())
	desc.Marshal(inner)

	// append a pasp box inside the declared hvc1 extent
	trailing := []byte{0x00, 0x00, 0x00, 0x10, 'p', 'a', 's', 'p', 0, 0, 0, 1, 0, 0, 0, 1}
	b := append(inner, trailing...)
	pio.PutU32BE(b, uint32(len(b)))

	var got HV1Desc
	_, err := got.Unmarshal(b, 0)
	require.NoError(t, err)
	require.NotNil(t, got.Conf)
	require.Equal(t, desc.Width, got.Width)
}

func TestHV1DescFixedFieldLayout(t *testing.T) {
	t.Parallel()

	desc := NewHV1Desc(testConfig())
	b := make([]byte, desc.Len())
	desc.Marshal(b)

	require.Equal(t, uint32(desc.Len()), pio.U32BE(b))
	require.Equal(t, uint32(HVC1), pio.U32BE(b[4:]))
	require.Equal(t, int16(1), pio.I16BE(b[8+6:]))            // data reference index
	require.Equal(t, int16(1920), pio.I16BE(b[8+24:]))        // width
	require.Equal(t, int16(1080), pio.I16BE(b[8+26:]))        // height
	require.Equal(t, uint32(0x00480000), pio.U32BE(b[8+28:])) // 72 dpi, 16.16
	require.Equal(t, uint32(0x00480000), pio.U32BE(b[8+32:]))
	require.Equal(t, int16(1), pio.I16BE(b[8+40:])) // frame count
	for _, c := range b[8+42 : 8+42+32] {           // compressorname
		require.Equal(t, byte(0), c)
	}
	require.Equal(t, int16(0x0018), pio.I16BE(b[8+74:])) // depth
	require.Equal(t, int16(-1), pio.I16BE(b[8+76:]))     // pre-defined
	require.Equal(t, uint32(HVCC), pio.U32BE(b[8+78+4:]))
}
