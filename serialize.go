// Copyright (c) 2024 The xhdwalletlib developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package xhdwalletlib

import "encoding/hex"

func (xpub XPub) Bytes() []byte {
	return xpub[:]
}

func (xpub XPub) MarshalText() ([]byte, error) {
	hexBytes := make([]byte, hex.EncodedLen(len(xpub)))
	hex.Encode(hexBytes, xpub[:])
	return hexBytes, nil
}

func (xpub *XPub) UnmarshalText(inp []byte) error {
	if len(inp) != 2*ExtendedPublicKeySize {
		return ErrBadKeyStr
	}
	_, err := hex.Decode(xpub[:], inp)
	return err
}

func (xpub XPub) String() string {
	return hex.EncodeToString(xpub[:])
}

func (xprv XPrv) Bytes() []byte {
	return xprv[:]
}

func (xprv XPrv) MarshalText() ([]byte, error) {
	hexBytes := make([]byte, hex.EncodedLen(len(xprv)))
	hex.Encode(hexBytes, xprv[:])
	return hexBytes, nil
}

func (xprv *XPrv) UnmarshalText(inp []byte) error {
	if len(inp) != 2*ExtendedPrivateKeySize {
		return ErrBadKeyStr
	}
	_, err := hex.Decode(xprv[:], inp)
	return err
}

func (xprv XPrv) String() string {
	return hex.EncodeToString(xprv[:])
}

// NewXPubFromString parses a hex-encoded extended public key.
func NewXPubFromString(str string) (XPub, error) {
	var xpub XPub
	if len(str) != 2*ExtendedPublicKeySize {
		return xpub, ErrBadKeyStr
	}
	_, err := hex.Decode(xpub[:], []byte(str))
	return xpub, err
}
