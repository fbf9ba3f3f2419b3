package abi

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackName_KnownValues(t *testing.T) {
	cases := []struct {
		in   string
		want uint64
	}{
		{"", 0},
		{"eosio", 0x5530EA0000000000},
		{"transfer", 0xCDCD3C2D57000000},
		{"a", 0x3000000000000000},
		{"zzzzzzzzzzzzj", 0xFFFFFFFFFFFFFFFF},
	}
	for _, c := range cases {
		got, err := PackName(c.in)
		require.NoError(t, err, c.in)
		assert.Equalf(t, c.want, got, "PackName(%q)", c.in)
	}
}

func TestPackName_Invalid(t *testing.T) {
	for _, s := range []string{"UPPER", "has space", "sixes666", "waaaaaaytoolongname"} {
		_, err := PackName(s)
		assert.Error(t, err, s)
	}
}

func TestSymbolPack(t *testing.T) {
	// precision 4, code "GEM" -> 0x04 | 'G'<<8 | 'E'<<16 | 'M'<<24
	s := Symbol{Precision: 4, Code: "GEM"}
	assert.Equal(t, uint64(0x04|0x47<<8|0x45<<16|0x4D<<24), s.pack())
	assert.True(t, s.Valid())
	assert.False(t, Symbol{Precision: 4, Code: "gem"}.Valid())
	assert.False(t, Symbol{Precision: 4, Code: ""}.Valid())
}

func TestAssetString(t *testing.T) {
	sym := Symbol{Precision: 4, Code: "GEM"}
	assert.Equal(t, "1234.0000 GEM", NewAsset(1234, sym).String())
	assert.Equal(t, "0.5000 GEM", NewAsset(0.5, sym).String())
	assert.Equal(t, "12.3456 GEM", Asset{Amount: 123456, Symbol: sym}.String())
}

func TestParseBalance(t *testing.T) {
	v, err := ParseBalance("12.3456 GEM")
	require.NoError(t, err)
	assert.InDelta(t, 12.3456, v, 1e-9)

	_, err = ParseBalance("")
	assert.Error(t, err)
	_, err = ParseBalance("notanumber GEM")
	assert.Error(t, err)
}

func TestEncoder_Varuint32(t *testing.T) {
	cases := []struct {
		in   uint32
		want string
	}{
		{0, "00"},
		{1, "01"},
		{127, "7f"},
		{128, "8001"},
		{300, "ac02"},
	}
	for _, c := range cases {
		var e Encoder
		e.WriteVaruint32(c.in)
		assert.Equal(t, c.want, hex.EncodeToString(e.Bytes()))
	}
}

func TestEncoder_Fields(t *testing.T) {
	var e Encoder
	require.NoError(t, e.WriteName("eosio"))
	e.WriteUint16(0xBEEF)
	e.WriteString("hi")

	want := "00000000ea305500" + "efbe" + "026869"
	assert.Equal(t, want, hex.EncodeToString(e.Bytes()))
}
