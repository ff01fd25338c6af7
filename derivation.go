// Copyright (c) 2024 The xhdwalletlib developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package xhdwalletlib

import (
	"encoding/binary"
	"fmt"

	"filippo.io/edwards25519"
	"golang.org/x/crypto/blake2b"
)

// DerivationType selects how the left half of the child PRF output is
// folded into the child scalar.
type DerivationType int

const (
	// Peikert keeps the low 247 bits of zL before the multiply-by-8,
	// routing more entropy into the child scalar than Khovratovich while
	// keeping the scalar sum carry-free. This is the default.
	Peikert DerivationType = iota

	// Khovratovich keeps the low 28 bytes of zL, matching the original
	// BIP32-Ed25519 construction. Needed for compatibility with peer
	// libraries and historic vectors.
	Khovratovich
)

// PRF domain tags for the two outputs of child derivation.
const (
	zTag  = 0x00
	ccTag = 0x01
)

// childPRF is the keyed BLAKE2b-512 PRF behind child derivation. The
// parent chaincode is the key; a one-byte domain tag separates the Z
// output from the chaincode output.
func childPRF(out *[64]byte, chainCode []byte, tag byte, payload ...[]byte) error {
	h, err := blake2b.New512(chainCode)
	if err != nil {
		return fmt.Errorf("blake2b: %w", err)
	}
	h.Write([]byte{tag})
	for _, p := range payload {
		h.Write(p)
	}
	h.Sum(out[:0])
	return nil
}

// shiftedLeft3 truncates zL per the derivation type and multiplies the
// result by 8 as a little-endian integer. Both truncations leave the sum
// with the parent scalar below 2^256, so private and public derivation
// stay in agreement.
func shiftedLeft3(zL []byte, dtype DerivationType) [32]byte {
	var buf [32]byte
	copy(buf[:], zL)
	if dtype == Khovratovich {
		buf[28], buf[29], buf[30], buf[31] = 0, 0, 0, 0
	} else {
		buf[30] &= 0x7f
		buf[31] = 0
	}

	var out [32]byte
	var carry byte
	for i := 0; i < 32; i++ {
		out[i] = buf[i]<<3 | carry
		carry = buf[i] >> 5
	}
	Zero(buf[:])
	return out
}

// add256 stores a+b mod 2^256 into dst, all little-endian.
func add256(dst, a, b []byte) {
	var carry uint16
	for i := 0; i < 32; i++ {
		carry = uint16(a[i]) + uint16(b[i]) + carry>>8
		dst[i] = byte(carry)
	}
}

// Child derives the child extended private key at the given index.
// Hardened indices mix both parent scalars into the PRF; soft indices
// mix the parent public key, which is what makes the matching public
// derivation possible.
func (xprv XPrv) Child(index uint32, dtype DerivationType) (XPrv, error) {
	var res XPrv
	var idx [4]byte
	binary.LittleEndian.PutUint32(idx[:], index)

	var z, cc [64]byte
	defer Zero(z[:])
	defer Zero(cc[:])

	if index >= HardenedIndexStart {
		if err := childPRF(&z, xprv[64:], zTag, xprv[:64], idx[:]); err != nil {
			return res, err
		}
		if err := childPRF(&cc, xprv[64:], ccTag, xprv[:64], idx[:]); err != nil {
			return res, err
		}
	} else {
		pub, err := publicKeyBytes(xprv[:32])
		if err != nil {
			return res, err
		}
		if err := childPRF(&z, xprv[64:], zTag, pub, idx[:]); err != nil {
			return res, err
		}
		if err := childPRF(&cc, xprv[64:], ccTag, pub, idx[:]); err != nil {
			return res, err
		}
	}

	zL8 := shiftedLeft3(z[:32], dtype)
	add256(res[:32], zL8[:], xprv[:32])
	add256(res[32:64], z[32:], xprv[32:64])
	copy(res[64:], cc[32:])
	Zero(zL8[:])

	return res, nil
}

// Child derives the child extended public key at the given soft index.
// Hardened indices require the private key and fail with
// ErrHardenedPublicDerivation.
func (xpub XPub) Child(index uint32, dtype DerivationType) (XPub, error) {
	var res XPub
	if index >= HardenedIndexStart {
		return res, ErrHardenedPublicDerivation
	}

	var idx [4]byte
	binary.LittleEndian.PutUint32(idx[:], index)

	var z, cc [64]byte
	defer Zero(z[:])
	if err := childPRF(&z, xpub[32:], zTag, xpub[:32], idx[:]); err != nil {
		return res, err
	}
	if err := childPRF(&cc, xpub[32:], ccTag, xpub[:32], idx[:]); err != nil {
		return res, err
	}

	parent, err := new(edwards25519.Point).SetBytes(xpub[:32])
	if err != nil {
		return res, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}

	zL8 := shiftedLeft3(z[:32], dtype)
	s, err := scalarFromLE32(zL8[:])
	Zero(zL8[:])
	if err != nil {
		return res, err
	}
	sum := new(edwards25519.Point).Add(parent, new(edwards25519.Point).ScalarBaseMult(s))

	copy(res[:32], sum.Bytes())
	copy(res[32:], cc[32:])
	return res, nil
}

// Derive walks the path left to right with private derivation and returns
// the leaf extended private key. Intermediate keys are zeroized before
// return.
func (xprv XPrv) Derive(path []uint32, dtype DerivationType) (XPrv, error) {
	cur := xprv
	for _, index := range path {
		next, err := cur.Child(index, dtype)
		Zero(cur[:])
		if err != nil {
			return XPrv{}, err
		}
		cur = next
	}
	return cur, nil
}

// Derive walks the path left to right with public-only derivation. Any
// hardened level fails the walk.
func (xpub XPub) Derive(path []uint32, dtype DerivationType) (XPub, error) {
	cur := xpub
	for _, index := range path {
		next, err := cur.Child(index, dtype)
		if err != nil {
			return XPub{}, err
		}
		cur = next
	}
	return cur, nil
}

// DeriveKey walks the BIP44-style path from the root. With private set it
// returns the 96-byte leaf extended private key; otherwise it computes
// the root's extended public key and descends with public derivation,
// returning the 64-byte leaf extended public key.
func DeriveKey(root XPrv, path []uint32, private bool, dtype DerivationType) ([]byte, error) {
	if private {
		leaf, err := root.Derive(path, dtype)
		if err != nil {
			return nil, err
		}
		out := make([]byte, ExtendedPrivateKeySize)
		copy(out, leaf[:])
		Zero(leaf[:])
		return out, nil
	}

	xpub, err := root.XPub()
	if err != nil {
		return nil, err
	}
	leaf, err := xpub.Derive(path, dtype)
	if err != nil {
		return nil, err
	}
	out := make([]byte, ExtendedPublicKeySize)
	copy(out, leaf[:])
	return out, nil
}

// KeyGen derives the public key at m/44'/cointype'/account'/0/keyIndex.
func KeyGen(root XPrv, context KeyContext, account, keyIndex uint32, dtype DerivationType) ([]byte, error) {
	leaf, err := root.Derive(bip44Path(context, account, 0, keyIndex), dtype)
	if err != nil {
		return nil, err
	}
	pk, err := publicKeyBytes(leaf[:32])
	Zero(leaf[:])
	if err != nil {
		return nil, err
	}
	return pk, nil
}
