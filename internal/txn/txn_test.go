package txn

import (
	"encoding/binary"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ClaimSentinel/internal/abi"
	"ClaimSentinel/internal/model"
)

func packedName(t *testing.T, s string) []byte {
	t.Helper()
	n, err := abi.PackName(s)
	require.NoError(t, err)
	out := make([]byte, 8)
	binary.LittleEndian.PutUint64(out, n)
	return out
}

func TestNewTransfer_DataLayout(t *testing.T) {
	quantity := abi.NewAsset(90199, abi.Symbol{Precision: 4, Code: "GEM"})
	a, err := NewTransfer("gametoken", "alice", "claimgame", quantity, "extend")
	require.NoError(t, err)

	assert.Equal(t, "gametoken", a.Account)
	assert.Equal(t, "transfer", a.Name)
	require.Len(t, a.Authorization, 1)
	assert.Equal(t, PermissionLevel{Actor: "alice", Permission: "active"}, a.Authorization[0])

	// name + name + int64 amount + uint64 symbol + varuint len + memo
	require.Len(t, a.Data, 8+8+8+8+1+len("extend"))
	assert.Equal(t, packedName(t, "alice"), a.Data[:8])
	assert.Equal(t, packedName(t, "claimgame"), a.Data[8:16])
	assert.Equal(t, uint64(901990000), binary.LittleEndian.Uint64(a.Data[16:24]))
	assert.Equal(t, byte(len("extend")), a.Data[32])
	assert.Equal(t, "extend", string(a.Data[33:]))
}

func TestNewClaim_DataIsRecipientName(t *testing.T) {
	a, err := NewClaim("claimgame", "alice")
	require.NoError(t, err)

	assert.Equal(t, "claimgame", a.Account)
	assert.Equal(t, "claim", a.Name)
	require.Len(t, a.Authorization, 1)
	assert.Equal(t, "alice", a.Authorization[0].Actor)
	assert.Equal(t, packedName(t, "alice"), a.Data)
}

func TestNewTransfer_RejectsBadName(t *testing.T) {
	quantity := abi.NewAsset(1, abi.Symbol{Precision: 4, Code: "GEM"})
	_, err := NewTransfer("gametoken", "Alice", "claimgame", quantity, "")
	assert.Error(t, err)
}

func TestBuild_ReplayProtectionFields(t *testing.T) {
	headTime := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	info := model.ChainInfo{
		ChainID:       "1064487b3cd1a897ce03ae5b6a865651747e2e152090f99c1d19d44e01aea5a4",
		HeadBlockID:   strings.Repeat("00", 28) + "aabbccdd",
		HeadBlockNum:  0x1E240, // 123456; & 0xFFFF = 0xE240
		HeadBlockTime: headTime,
	}

	tx, err := Build(info, nil)
	require.NoError(t, err)

	assert.Equal(t, headTime.Add(time.Hour), tx.Expiration)
	assert.Equal(t, uint16(0xE240), tx.RefBlockNum)
	assert.Equal(t, uint32(0xddccbbaa), tx.RefBlockPrefix)
}

func TestPack_EmptyTransactionLayout(t *testing.T) {
	tx := Transaction{
		Expiration:     time.Unix(1_800_000_000, 0),
		RefBlockNum:    0xE240,
		RefBlockPrefix: 0xddccbbaa,
	}
	packed, err := tx.Pack()
	require.NoError(t, err)

	// expiration(4) refBlockNum(2) refBlockPrefix(4) net(1) cpu(1) delay(1)
	// cfa(1) actions(1) extensions(1)
	require.Len(t, packed, 16)
	assert.Equal(t, uint32(1_800_000_000), binary.LittleEndian.Uint32(packed[:4]))
	assert.Equal(t, uint16(0xE240), binary.LittleEndian.Uint16(packed[4:6]))
	assert.Equal(t, uint32(0xddccbbaa), binary.LittleEndian.Uint32(packed[6:10]))
}

func TestSigDigest_Deterministic(t *testing.T) {
	chainID := "1064487b3cd1a897ce03ae5b6a865651747e2e152090f99c1d19d44e01aea5a4"
	d1, err := SigDigest(chainID, []byte{1, 2, 3})
	require.NoError(t, err)
	d2, err := SigDigest(chainID, []byte{1, 2, 3})
	require.NoError(t, err)
	d3, err := SigDigest(chainID, []byte{1, 2, 4})
	require.NoError(t, err)

	assert.Equal(t, d1, d2)
	assert.NotEqual(t, d1, d3)
	assert.Len(t, d1, 32)

	_, err = SigDigest("nothex", []byte{1})
	assert.Error(t, err)
}
