package app

import (
	"context"
	"encoding/binary"

	"pokerarena/internal/arena/types"
	"pokerarena/internal/arenacrypto"
	"pokerarena/internal/codec"
)

// nonceKeyPrefix stores the last accepted nonce per signer:
// nonceKeyPrefix || signer.
var nonceKeyPrefix = []byte{0x01}

func nonceKey(signer arenacrypto.Address) []byte {
	bz := make([]byte, 0, 1+arenacrypto.Size)
	bz = append(bz, nonceKeyPrefix...)
	return append(bz, signer[:]...)
}

func requireSignedEnvelope(env codec.TxEnvelope) error {
	if env.Nonce == "" {
		return ErrInvalidNonce.Wrap("missing tx.nonce")
	}
	if env.Signer == "" {
		return types.ErrInvalidSignature.Wrap("missing tx.signer")
	}
	if len(env.Sig) == 0 {
		return types.ErrInvalidSignature.Wrap("missing tx.sig")
	}
	if len(env.Sig) != arenacrypto.SignatureSize {
		return types.ErrInvalidSignature.Wrapf("invalid tx.sig length: got %d want %d", len(env.Sig), arenacrypto.SignatureSize)
	}
	return nil
}

// verifyEnvelope runs the stateless checks: structure and signature.
func verifyEnvelope(env codec.TxEnvelope) error {
	if err := requireSignedEnvelope(env); err != nil {
		return err
	}
	if _, err := codec.ParseNonce(env.Nonce); err != nil {
		return ErrInvalidNonce.Wrap(err.Error())
	}
	signer, err := arenacrypto.ParseAddress(env.Signer)
	if err != nil {
		return types.ErrInvalidSignature.Wrapf("tx.signer: %v", err)
	}
	if !arenacrypto.Verify(signer, codec.SignBytes(env.Type, env.Value, env.Nonce, env.Signer), env.Sig) {
		return types.ErrInvalidSignature
	}
	return nil
}

// authenticate checks that want signed env and consumes the envelope nonce.
// The nonce is written to the tx branch, so a failed tx does not burn it.
func (a *ArenaApp) authenticate(ctx context.Context, env codec.TxEnvelope, want arenacrypto.Address) error {
	if want.IsZero() {
		return types.ErrInvalidRequest.Wrap("message has no signer")
	}
	if err := verifyEnvelope(env); err != nil {
		return err
	}
	if env.Signer != want.String() {
		return types.ErrUnauthorized.Wrapf("tx signer mismatch: signer=%s want=%s", env.Signer, want)
	}

	nonce, err := codec.ParseNonce(env.Nonce)
	if err != nil {
		return ErrInvalidNonce.Wrap(err.Error())
	}
	store := a.authStore.OpenKVStore(ctx)
	key := nonceKey(want)
	bz, err := store.Get(key)
	if err != nil {
		return err
	}
	if len(bz) == 8 {
		last := binary.BigEndian.Uint64(bz)
		if nonce <= last {
			return ErrInvalidNonce.Wrapf("replayed tx.nonce: %d <= %d", nonce, last)
		}
	}
	next := make([]byte, 8)
	binary.BigEndian.PutUint64(next, nonce)
	return store.Set(key, next)
}
