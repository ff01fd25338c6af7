// Copyright (c) 2024 The xhdwalletlib developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package xhdwalletlib

import (
	"crypto/ed25519"
	"crypto/sha256"
	"crypto/sha512"
	"filippo.io/edwards25519"
	"github.com/tyler-smith/go-bip39"
)

const (
	// SeedSize is the size, in bytes, of the master seed.
	SeedSize = 64

	// ExtendedPrivateKeySize is the size, in bytes, of an XPrv:
	// the scalar kL, the auxiliary scalar kR and the chaincode.
	ExtendedPrivateKeySize = 96

	// ExtendedPublicKeySize is the size, in bytes, of an XPub:
	// the compressed public key and the chaincode.
	ExtendedPublicKeySize = 64

	// SignatureSize is the size, in bytes, of a detached signature.
	SignatureSize = 64

	// HardenedIndexStart is the first hardened derivation index.
	// Children at or above this index can only be derived from the
	// private key.
	HardenedIndexStart uint32 = 0x80000000
)

// rootChainCodeTag domain-separates the root chaincode hash from the
// scalar expansion of the seed.
const rootChainCodeTag = 0x01

type (
	// XPrv is an extended private key laid out as kL || kR || chaincode.
	// kL is a clamped Ed25519 scalar, kR seeds deterministic signing
	// nonces, and the chaincode keys child derivation.
	XPrv [ExtendedPrivateKeySize]byte

	// XPub is an extended public key laid out as pk || chaincode. An XPub
	// permits derivation of all non-hardened descendant public keys and
	// must only be shared when that is intended.
	XPub [ExtendedPublicKeySize]byte
)

// KeyContext selects the BIP44 cointype of a derivation path.
type KeyContext int

const (
	// KeyContextAddress derives keys for spending (cointype 283).
	KeyContextAddress KeyContext = iota

	// KeyContextIdentity derives keys for identity assertions (cointype 0).
	KeyContextIdentity
)

func (c KeyContext) coinType() uint32 {
	if c == KeyContextIdentity {
		return 0
	}
	return 283
}

// Harden converts a derivation index into its hardened form.
func Harden(n uint32) uint32 {
	return n + HardenedIndexStart
}

// bip44Path builds m/44'/cointype'/account'/change/keyIndex with the
// first three levels hardened.
func bip44Path(context KeyContext, account, change, keyIndex uint32) []uint32 {
	return []uint32{Harden(44), Harden(context.coinType()), Harden(account), change, keyIndex}
}

// RootXPrv converts a 64-byte master seed into the root extended private
// key. The left scalar is the clamped left half of SHA-512(seed), and the
// chaincode is SHA-256 over the domain-separated seed. Seeds whose
// pre-clamp scalar has the third highest bit set are rejected with
// ErrUnusableSeed; clamping cannot preserve the scalar bound for them.
//
// The caller owns the seed and is responsible for zeroing it.
func RootXPrv(seed []byte) (XPrv, error) {
	var xprv XPrv
	if len(seed) != SeedSize {
		return xprv, ErrInvalidSeedLen
	}

	k := sha512.Sum512(seed)
	if k[31]&0x20 != 0 {
		Zero(k[:])
		return xprv, ErrUnusableSeed
	}
	k[0] &= 0xf8
	k[31] &= 0x7f
	k[31] |= 0x40
	copy(xprv[:64], k[:])
	Zero(k[:])

	h := sha256.New()
	h.Write([]byte{rootChainCodeTag})
	h.Write(seed)
	h.Sum(xprv[64:64])

	return xprv, nil
}

// SeedFromMnemonic converts a BIP39 mnemonic and passphrase into the
// 64-byte master seed accepted by RootXPrv.
func SeedFromMnemonic(mnemonic, passphrase string) []byte {
	return bip39.NewSeed(mnemonic, passphrase)
}

// PublicKey returns the compressed Ed25519 public key kL·B.
func (xprv XPrv) PublicKey() (ed25519.PublicKey, error) {
	pk, err := publicKeyBytes(xprv[:32])
	if err != nil {
		return nil, err
	}
	return ed25519.PublicKey(pk), nil
}

// XPub returns the extended public key for xprv. The result carries the
// chaincode and is as sensitive as the private key for the purpose of
// deriving descendant public keys.
func (xprv XPrv) XPub() (XPub, error) {
	var xpub XPub
	pk, err := publicKeyBytes(xprv[:32])
	if err != nil {
		return xpub, err
	}
	copy(xpub[:32], pk)
	copy(xpub[32:], xprv[64:])
	return xpub, nil
}

// PublicKey extracts the compressed Ed25519 public key from an XPub.
func (xpub XPub) PublicKey() ed25519.PublicKey {
	pk := make([]byte, 32)
	copy(pk, xpub[:32])
	return ed25519.PublicKey(pk)
}

// publicKeyBytes computes kL·B with a straight base scalar-mult. The
// scalar is widened to 64 bytes and reduced mod the group order, which
// yields the same point for the non-canonical scalars derivation
// produces.
func publicKeyBytes(kL []byte) ([]byte, error) {
	s, err := scalarFromLE32(kL)
	if err != nil {
		return nil, err
	}
	return new(edwards25519.Point).ScalarBaseMult(s).Bytes(), nil
}

// scalarFromLE32 interprets b as a 256-bit little-endian integer and
// reduces it into a group scalar.
func scalarFromLE32(b []byte) (*edwards25519.Scalar, error) {
	var wide [64]byte
	copy(wide[:32], b)
	s, err := edwards25519.NewScalar().SetUniformBytes(wide[:])
	Zero(wide[:])
	return s, err
}
