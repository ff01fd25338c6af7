// Copyright (c) 2024 The xhdwalletlib developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package xhdwalletlib

import (
	"crypto/ed25519"
	"sync"
)

// Wallet is a convenience wrapper tying a root extended private key to a
// default derivation variant. Every operation derives the key it needs
// from the root and zeroizes the intermediates before returning; the
// wallet itself holds no per-call state and is safe for concurrent use.
type Wallet struct {
	root   XPrv
	dtype  DerivationType
	closed bool
	mtx    sync.RWMutex
}

// NewWallet creates a wallet from the provided options. One of Seed,
// Mnemonic or RootKey is required; the derivation variant defaults to
// Peikert.
func NewWallet(opts ...Option) (*Wallet, error) {
	var cfg config
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	w := &Wallet{dtype: cfg.dtype}
	switch {
	case cfg.rootKey != nil:
		w.root = *cfg.rootKey
	case cfg.seed != nil:
		root, err := RootXPrv(cfg.seed)
		if err != nil {
			return nil, err
		}
		w.root = root
	default:
		seed := SeedFromMnemonic(cfg.mnemonic, cfg.passphrase)
		root, err := RootXPrv(seed)
		Zero(seed)
		if err != nil {
			return nil, err
		}
		w.root = root
	}

	log.Debugw("wallet initialized", "derivation", w.dtype)
	return w, nil
}

// KeyGen returns the public key at m/44'/cointype'/account'/0/keyIndex.
func (w *Wallet) KeyGen(context KeyContext, account, keyIndex uint32) (ed25519.PublicKey, error) {
	w.mtx.RLock()
	defer w.mtx.RUnlock()
	if w.closed {
		return nil, ErrWalletClosed
	}
	return KeyGen(w.root, context, account, keyIndex, w.dtype)
}

// DeriveKey walks the given path from the wallet root. See the package
// level DeriveKey for the private/public split.
func (w *Wallet) DeriveKey(path []uint32, private bool) ([]byte, error) {
	w.mtx.RLock()
	defer w.mtx.RUnlock()
	if w.closed {
		return nil, ErrWalletClosed
	}
	return DeriveKey(w.root, path, private, w.dtype)
}

// XPub returns the wallet root's extended public key.
func (w *Wallet) XPub() (XPub, error) {
	w.mtx.RLock()
	defer w.mtx.RUnlock()
	if w.closed {
		return XPub{}, ErrWalletClosed
	}
	return w.root.XPub()
}

// SignAlgoTransaction signs a prefix-encoded Algorand transaction.
func (w *Wallet) SignAlgoTransaction(context KeyContext, account, change, keyIndex uint32, prefixEncodedTx []byte) ([]byte, error) {
	w.mtx.RLock()
	defer w.mtx.RUnlock()
	if w.closed {
		return nil, ErrWalletClosed
	}
	return SignAlgoTransaction(w.root, context, account, change, keyIndex, prefixEncodedTx, w.dtype)
}

// SignData signs schema-validated arbitrary data. See the package level
// SignData for the safety pipeline.
func (w *Wallet) SignData(context KeyContext, account, change, keyIndex uint32, data []byte, metadata SignMetadata) ([]byte, error) {
	w.mtx.RLock()
	defer w.mtx.RUnlock()
	if w.closed {
		return nil, ErrWalletClosed
	}
	return SignData(w.root, context, account, change, keyIndex, data, metadata, w.dtype)
}

// ECDH derives a shared session key with the holder of otherPartyPub.
func (w *Wallet) ECDH(context KeyContext, account, keyIndex uint32, otherPartyPub []byte, meFirst bool) ([]byte, error) {
	w.mtx.RLock()
	defer w.mtx.RUnlock()
	if w.closed {
		return nil, ErrWalletClosed
	}
	return ECDH(w.root, context, account, keyIndex, otherPartyPub, meFirst, w.dtype)
}

// Close zeroizes the wallet's root key. The wallet is unusable afterward.
func (w *Wallet) Close() {
	w.mtx.Lock()
	defer w.mtx.Unlock()
	Zero(w.root[:])
	w.closed = true
}
