// Copyright (c) 2024 The xhdwalletlib developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package xhdwalletlib

import "errors"

// Option is a configuration option function for the wallet.
type Option func(cfg *config) error

// Seed sets the 64-byte master seed for the wallet. The seed is only
// read during NewWallet; the caller should zero it afterward.
//
// Exactly one of Seed, Mnemonic or RootKey is required.
func Seed(seed []byte) Option {
	return func(cfg *config) error {
		if len(seed) != SeedSize {
			return ErrInvalidSeedLen
		}
		cfg.seed = seed
		return nil
	}
}

// Mnemonic sets a BIP39 mnemonic from which the master seed is derived.
// Also useful for restoring from seed words.
//
// Exactly one of Seed, Mnemonic or RootKey is required.
func Mnemonic(mnemonic string) Option {
	return func(cfg *config) error {
		cfg.mnemonic = mnemonic
		return nil
	}
}

// MnemonicPassphrase sets the optional BIP39 passphrase used together
// with the Mnemonic option.
func MnemonicPassphrase(passphrase string) Option {
	return func(cfg *config) error {
		cfg.passphrase = passphrase
		return nil
	}
}

// RootKey sets the root extended private key directly, bypassing seed
// expansion.
//
// Exactly one of Seed, Mnemonic or RootKey is required.
func RootKey(root XPrv) Option {
	return func(cfg *config) error {
		cfg.rootKey = &root
		return nil
	}
}

// Derivation selects the child derivation variant used by the wallet.
// The default is Peikert.
func Derivation(dtype DerivationType) Option {
	return func(cfg *config) error {
		if dtype != Peikert && dtype != Khovratovich {
			return errors.New("unknown derivation type")
		}
		cfg.dtype = dtype
		return nil
	}
}

type config struct {
	seed       []byte
	mnemonic   string
	passphrase string
	rootKey    *XPrv
	dtype      DerivationType
}

func (cfg *config) validate() error {
	sources := 0
	if cfg.seed != nil {
		sources++
	}
	if cfg.mnemonic != "" {
		sources++
	}
	if cfg.rootKey != nil {
		sources++
	}
	if sources != 1 {
		return errors.New("exactly one of Seed, Mnemonic or RootKey is required")
	}
	return nil
}
