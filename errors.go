// Copyright (c) 2024 The xhdwalletlib developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package xhdwalletlib

import "errors"

var (
	// ErrInvalidSeedLen is returned when a seed is not exactly 64 bytes.
	ErrInvalidSeedLen = errors.New("invalid seed length")

	// ErrUnusableSeed is returned when the SHA-512 expansion of a seed has
	// the third highest bit of the last scalar byte set. Such a seed cannot
	// produce a safely clamped root scalar and must be discarded.
	ErrUnusableSeed = errors.New("unusable seed")

	// ErrHardenedPublicDerivation is returned when a hardened index is
	// supplied to a public-only derivation.
	ErrHardenedPublicDerivation = errors.New("cannot derive hardened child from a public key")

	// ErrTransactionLikeData is returned by SignData when the payload, or
	// its base64 decoding, begins with one of the reserved Algorand
	// transaction prefixes.
	ErrTransactionLikeData = errors.New("data begins with a reserved transaction prefix")

	// ErrInvalidSchema is returned when the payload does not conform to the
	// schema supplied in the signing metadata.
	ErrInvalidSchema = errors.New("data does not conform to the provided schema")

	// ErrInvalidEncoding is returned when the payload cannot be decoded
	// with the encoding named in the signing metadata.
	ErrInvalidEncoding = errors.New("unable to decode data with the specified encoding")

	// ErrWeakPoint is returned when a key exchange produces an all-zero
	// shared point.
	ErrWeakPoint = errors.New("key exchange produced a weak shared point")

	// ErrInvalidPublicKey is returned when a compressed public key does not
	// decode to a curve point.
	ErrInvalidPublicKey = errors.New("invalid public key")

	// ErrBadKeyLen is returned when a shared secret passed to the
	// secretbox helpers is not SharedSecretSize bytes long.
	ErrBadKeyLen = errors.New("bad key length")

	// ErrBadKeyStr is returned when deserializing a malformed key string.
	ErrBadKeyStr = errors.New("bad key string")

	// ErrWalletClosed is returned when using a wallet after Close.
	ErrWalletClosed = errors.New("wallet is closed")
)
