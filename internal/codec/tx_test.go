package codec

import (
	"encoding/json"
	"testing"

	"pokerarena/internal/arenacrypto"
)

func TestDecodeTxEnvelope_OK(t *testing.T) {
	b, err := json.Marshal(map[string]any{
		"type":  TypeOpenRegistration,
		"value": map[string]any{"tournament_id": 3},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	env, err := DecodeTxEnvelope(b)
	if err != nil {
		t.Fatalf("DecodeTxEnvelope: %v", err)
	}
	if env.Type != TypeOpenRegistration {
		t.Fatalf("unexpected type: %q", env.Type)
	}

	var v map[string]any
	if err := json.Unmarshal(env.Value, &v); err != nil {
		t.Fatalf("unmarshal value: %v", err)
	}
	if v["tournament_id"] != float64(3) {
		t.Fatalf("unexpected value.tournament_id: %#v", v["tournament_id"])
	}
}

func TestDecodeTxEnvelope_MissingType(t *testing.T) {
	b, err := json.Marshal(map[string]any{
		"value": map[string]any{"x": 1},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if _, err := DecodeTxEnvelope(b); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDecodeTxEnvelope_InvalidJSON(t *testing.T) {
	if _, err := DecodeTxEnvelope([]byte("{")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestParseNonce(t *testing.T) {
	if _, err := ParseNonce(""); err == nil {
		t.Fatalf("expected error for empty nonce")
	}
	if _, err := ParseNonce("-1"); err == nil {
		t.Fatalf("expected error for negative nonce")
	}
	n, err := ParseNonce("18446744073709551615")
	if err != nil {
		t.Fatalf("ParseNonce: %v", err)
	}
	if n != ^uint64(0) {
		t.Fatalf("unexpected nonce %d", n)
	}
}

func TestSignTx_VerifiesAgainstSigner(t *testing.T) {
	key := arenacrypto.PrivKeyFromSecret([]byte("admin"))
	env, err := SignTx(key, TypeStartTournament, map[string]any{"tournament_id": 1}, 7)
	if err != nil {
		t.Fatalf("SignTx: %v", err)
	}
	if env.Nonce != "7" {
		t.Fatalf("unexpected nonce %q", env.Nonce)
	}
	signer, err := arenacrypto.ParseAddress(env.Signer)
	if err != nil {
		t.Fatalf("ParseAddress: %v", err)
	}
	msg := SignBytes(env.Type, env.Value, env.Nonce, env.Signer)
	if !arenacrypto.Verify(signer, msg, env.Sig) {
		t.Fatalf("signature does not verify")
	}

	tampered := SignBytes(env.Type, []byte(`{"tournament_id":2}`), env.Nonce, env.Signer)
	if arenacrypto.Verify(signer, tampered, env.Sig) {
		t.Fatalf("signature verified over a different value")
	}
	otherType := SignBytes(TypeFinalizeTournament, env.Value, env.Nonce, env.Signer)
	if arenacrypto.Verify(signer, otherType, env.Sig) {
		t.Fatalf("signature verified under a different tx type")
	}
}
