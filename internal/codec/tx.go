package codec

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strconv"

	sdkmath "cosmossdk.io/math"

	"pokerarena/internal/arenacrypto"
)

// TxSignDomain prefixes every signed message so signatures cannot be replayed
// against another protocol.
const TxSignDomain = "arena/tx/v1"

const (
	TypeInitialize            = "arena/initialize"
	TypeCreateRewardTokenMint = "arena/create_reward_token_mint"
	TypeCreateTournament      = "arena/create_tournament"
	TypeOpenRegistration      = "arena/open_registration"
	TypeRegisterPlayer        = "arena/register_player"
	TypeStartTournament       = "arena/start_tournament"
	TypeFinalizeTournament    = "arena/finalize_tournament"
	TypeRecordPlayerResult    = "arena/record_player_result"
	TypeDistributePoints      = "arena/distribute_points"
	TypeBankSend              = "bank/send"
)

// TxEnvelope is the transaction container. CometBFT transactions are opaque
// bytes; ours are JSON.
//
// Sig is an ed25519 signature by Signer over SignBytes(Type, Value, Nonce,
// Signer). Nonce must be strictly greater than the signer's last accepted
// nonce.
type TxEnvelope struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`

	Nonce  string `json:"nonce"`
	Signer string `json:"signer"`
	Sig    []byte `json:"sig"`
}

func DecodeTxEnvelope(txBytes []byte) (TxEnvelope, error) {
	var env TxEnvelope
	if err := json.Unmarshal(txBytes, &env); err != nil {
		return TxEnvelope{}, fmt.Errorf("invalid tx json: %w", err)
	}
	if env.Type == "" {
		return TxEnvelope{}, fmt.Errorf("missing tx.type")
	}
	return env, nil
}

// ParseNonce parses a decimal tx nonce.
func ParseNonce(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("missing tx.nonce")
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid tx.nonce: %w", err)
	}
	return n, nil
}

// SignBytes = DOMAIN || 0x00 || type || 0x00 || nonce || 0x00 || signer || 0x00 || sha256(value)
func SignBytes(typ string, value []byte, nonce string, signer string) []byte {
	sum := sha256.Sum256(value)
	out := make([]byte, 0, len(TxSignDomain)+1+len(typ)+1+len(nonce)+1+len(signer)+1+sha256.Size)
	out = append(out, TxSignDomain...)
	out = append(out, 0)
	out = append(out, typ...)
	out = append(out, 0)
	out = append(out, nonce...)
	out = append(out, 0)
	out = append(out, signer...)
	out = append(out, 0)
	out = append(out, sum[:]...)
	return out
}

// SignTx builds and signs an envelope carrying value.
func SignTx(key arenacrypto.PrivKey, typ string, value any, nonce uint64) (TxEnvelope, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return TxEnvelope{}, fmt.Errorf("marshal value: %w", err)
	}
	env := TxEnvelope{
		Type:   typ,
		Value:  raw,
		Nonce:  strconv.FormatUint(nonce, 10),
		Signer: key.Address().String(),
	}
	sig, err := key.Sign(SignBytes(env.Type, env.Value, env.Nonce, env.Signer))
	if err != nil {
		return TxEnvelope{}, fmt.Errorf("sign: %w", err)
	}
	env.Sig = sig
	return env, nil
}

// EncodeTx signs value and returns the tx bytes to broadcast.
func EncodeTx(key arenacrypto.PrivKey, typ string, value any, nonce uint64) ([]byte, error) {
	env, err := SignTx(key, typ, value, nonce)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

// ---- Bank ----

type BankSendTx struct {
	From   arenacrypto.Address `json:"from"`
	To     arenacrypto.Address `json:"to"`
	Amount sdkmath.Int         `json:"amount"`
}

func (m *BankSendTx) GetSigner() arenacrypto.Address { return m.From }
