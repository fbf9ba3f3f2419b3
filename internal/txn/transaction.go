package txn

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/eoscanada/eos-go/ecc"

	"ClaimSentinel/internal/abi"
	"ClaimSentinel/internal/model"
)

// expirationWindow is how far past the head block a transaction stays valid.
const expirationWindow = 3600 * time.Second

// Transaction is a transient value built fresh per submission and discarded
// after.
type Transaction struct {
	Expiration     time.Time
	RefBlockNum    uint16
	RefBlockPrefix uint32
	Actions        []Action
}

// Build derives the replay-protection fields from head-of-chain info and
// attaches the actions.
func Build(info model.ChainInfo, actions []Action) (Transaction, error) {
	prefix, err := refBlockPrefix(info.HeadBlockID)
	if err != nil {
		return Transaction{}, err
	}
	return Transaction{
		Expiration:     info.HeadBlockTime.Add(expirationWindow),
		RefBlockNum:    uint16(info.HeadBlockNum & 0xFFFF),
		RefBlockPrefix: prefix,
		Actions:        actions,
	}, nil
}

// refBlockPrefix reads the trailing 4 bytes of the head block id as a
// little-endian uint32.
func refBlockPrefix(headBlockID string) (uint32, error) {
	idBytes, err := hex.DecodeString(headBlockID)
	if err != nil {
		return 0, fmt.Errorf("decode head block id: %w", err)
	}
	if len(idBytes) < 4 {
		return 0, fmt.Errorf("head block id too short: %d bytes", len(idBytes))
	}
	return binary.LittleEndian.Uint32(idBytes[len(idBytes)-4:]), nil
}

// Pack serializes the transaction into the chain's binary wire format.
func (t Transaction) Pack() ([]byte, error) {
	var e abi.Encoder
	e.WriteUint32(uint32(t.Expiration.Unix()))
	e.WriteUint16(t.RefBlockNum)
	e.WriteUint32(t.RefBlockPrefix)
	e.WriteVaruint32(0) // max_net_usage_words
	e.WriteUint8(0)     // max_cpu_usage_ms
	e.WriteVaruint32(0) // delay_sec
	e.WriteVaruint32(0) // context_free_actions
	e.WriteVaruint32(uint32(len(t.Actions)))
	for _, a := range t.Actions {
		if err := a.pack(&e); err != nil {
			return nil, err
		}
	}
	e.WriteVaruint32(0) // transaction_extensions
	return e.Bytes(), nil
}

// SigDigest is the hash a signature must cover: chain id, packed
// transaction, and the (empty) context-free data hash.
func SigDigest(chainID string, packed []byte) ([]byte, error) {
	chainBytes, err := hex.DecodeString(chainID)
	if err != nil {
		return nil, fmt.Errorf("decode chain id: %w", err)
	}
	h := sha256.New()
	h.Write(chainBytes)
	h.Write(packed)
	h.Write(make([]byte, 32))
	return h.Sum(nil), nil
}

// Sign packs the transaction and produces one signature per key over the
// digest bound to chainID.
func (t Transaction) Sign(chainID string, keys []*ecc.PrivateKey) (signatures []string, packed []byte, err error) {
	packed, err = t.Pack()
	if err != nil {
		return nil, nil, fmt.Errorf("pack transaction: %w", err)
	}
	digest, err := SigDigest(chainID, packed)
	if err != nil {
		return nil, nil, err
	}
	for _, key := range keys {
		sig, err := key.Sign(digest)
		if err != nil {
			return nil, nil, fmt.Errorf("sign with key for %s: %w", key.PublicKey().String(), err)
		}
		signatures = append(signatures, sig.String())
	}
	return signatures, packed, nil
}

// pushPayload is the JSON body of a push_transaction call.
type pushPayload struct {
	Signatures            []string `json:"signatures"`
	Compression           string   `json:"compression"`
	PackedContextFreeData string   `json:"packed_context_free_data"`
	PackedTrx             string   `json:"packed_trx"`
}

func newPushPayload(signatures []string, packed []byte) pushPayload {
	return pushPayload{
		Signatures:            signatures,
		Compression:           "none",
		PackedContextFreeData: "",
		PackedTrx:             hex.EncodeToString(packed),
	}
}
