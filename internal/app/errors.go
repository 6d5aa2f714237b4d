package app

import errorsmod "cosmossdk.io/errors"

// Runtime errors raised before a message reaches its module.
var (
	ErrTxDecode       = errorsmod.Register(AppName, 2, "tx decode error")
	ErrUnknownRequest = errorsmod.Register(AppName, 3, "unknown request")
	ErrInvalidNonce   = errorsmod.Register(AppName, 4, "invalid tx.nonce")
	ErrTxFailed       = errorsmod.Register(AppName, 5, "tx failed")
)
