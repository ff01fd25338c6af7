// Copyright (c) 2024 The xhdwalletlib developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package xhdwalletlib

import (
	"crypto/rand"
	"fmt"

	"filippo.io/edwards25519"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/secretbox"
)

// SharedSecretSize is the size, in bytes, of an ECDH session key.
const SharedSecretSize = 32

// nonceSize is the secretbox nonce length prepended to sealed boxes.
const nonceSize = 24

// ECDH derives a 32-byte session key shared with the holder of
// otherPartyPub. The local key sits at m/44'/cointype'/account'/0/keyIndex;
// its scalar is used directly on the Montgomery curve, and both public
// identities are mapped to their X25519 form. The session key hashes the
// shared point together with both converted public keys in a canonical
// order: the party passing meFirst=true places itself first, so the two
// sides must use opposite values to agree.
func ECDH(root XPrv, context KeyContext, account, keyIndex uint32, otherPartyPub []byte, meFirst bool, dtype DerivationType) ([]byte, error) {
	leaf, err := root.Derive(bip44Path(context, account, 0, keyIndex), dtype)
	if err != nil {
		return nil, err
	}
	defer Zero(leaf[:])

	pub, err := publicKeyBytes(leaf[:32])
	if err != nil {
		return nil, err
	}
	selfX, err := publicToCurve25519(pub)
	if err != nil {
		return nil, err
	}
	peerX, err := publicToCurve25519(otherPartyPub)
	if err != nil {
		return nil, err
	}

	var scalar [32]byte
	copy(scalar[:], leaf[:32])
	defer Zero(scalar[:])

	dh, err := curve25519.X25519(scalar[:], peerX)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWeakPoint, err)
	}
	defer Zero(dh)
	if isAllZero(dh) {
		return nil, ErrWeakPoint
	}

	h, err := blake2b.New256(nil)
	if err != nil {
		return nil, fmt.Errorf("blake2b: %w", err)
	}
	h.Write(dh)
	if meFirst {
		h.Write(selfX)
		h.Write(peerX)
	} else {
		h.Write(peerX)
		h.Write(selfX)
	}
	return h.Sum(nil), nil
}

// publicToCurve25519 maps a compressed Ed25519 public key to its X25519
// Montgomery u-coordinate.
func publicToCurve25519(pk []byte) ([]byte, error) {
	p, err := new(edwards25519.Point).SetBytes(pk)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	return p.BytesMontgomery(), nil
}

func isAllZero(b []byte) bool {
	var acc byte
	for _, v := range b {
		acc |= v
	}
	return acc == 0
}

// EncryptWithSharedSecret seals plaintext with an ECDH session key using
// authenticated encryption. The random nonce is prepended to the box.
func EncryptWithSharedSecret(sharedSecret, plaintext []byte) ([]byte, error) {
	if len(sharedSecret) != SharedSecretSize {
		return nil, ErrBadKeyLen
	}
	var key [SharedSecretSize]byte
	copy(key[:], sharedSecret)
	defer Zero(key[:])

	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, err
	}
	return secretbox.Seal(nonce[:], plaintext, &nonce, &key), nil
}

// DecryptWithSharedSecret opens a box produced by EncryptWithSharedSecret.
func DecryptWithSharedSecret(sharedSecret, box []byte) ([]byte, error) {
	if len(sharedSecret) != SharedSecretSize {
		return nil, ErrBadKeyLen
	}
	if len(box) < nonceSize+secretbox.Overhead {
		return nil, fmt.Errorf("box too short")
	}
	var key [SharedSecretSize]byte
	copy(key[:], sharedSecret)
	defer Zero(key[:])

	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])
	plaintext, ok := secretbox.Open(nil, box[nonceSize:], &nonce, &key)
	if !ok {
		return nil, fmt.Errorf("message authentication failed")
	}
	return plaintext, nil
}
