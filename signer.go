// Copyright (c) 2024 The xhdwalletlib developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package xhdwalletlib

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha512"
	"encoding/base64"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/algorand/go-algorand-sdk/v2/encoding/msgpack"
	"github.com/xeipuuv/gojsonschema"
)

// Encoding names the wire form of a SignData payload.
type Encoding int

const (
	// EncodingNone treats the payload as raw JSON bytes.
	EncodingNone Encoding = iota

	// EncodingBase64 base64-decodes the payload before validation.
	EncodingBase64

	// EncodingMsgpack msgpack-decodes the payload before validation.
	EncodingMsgpack
)

// SignMetadata describes how a SignData payload is decoded and which
// schema the decoded form must satisfy.
type SignMetadata struct {
	Encoding Encoding
	Schema   *gojsonschema.Schema
}

// transactionTags are the Algorand domain-separation prefixes. A payload
// starting with any of them is structurally indistinguishable from a
// consensus object and must never pass through SignData.
var transactionTags = [][]byte{
	[]byte("TX"),
	[]byte("MX"),
	[]byte("progData"),
	[]byte("Program"),
}

func hasTransactionTag(data []byte) bool {
	for _, tag := range transactionTags {
		if bytes.HasPrefix(data, tag) {
			return true
		}
	}
	return false
}

// Sign produces a detached signature over message with the extended
// private key. The scalar kL and the nonce seed kR are used directly;
// the key is not re-expanded the way a plain Ed25519 secret would be.
func (xprv XPrv) Sign(message []byte) ([]byte, error) {
	pub, err := publicKeyBytes(xprv[:32])
	if err != nil {
		return nil, err
	}

	var digest [64]byte
	defer Zero(digest[:])

	h := sha512.New()
	h.Write(xprv[32:64])
	h.Write(message)
	h.Sum(digest[:0])
	r, err := edwards25519.NewScalar().SetUniformBytes(digest[:])
	if err != nil {
		return nil, err
	}
	R := new(edwards25519.Point).ScalarBaseMult(r).Bytes()

	h.Reset()
	h.Write(R)
	h.Write(pub)
	h.Write(message)
	h.Sum(digest[:0])
	k, err := edwards25519.NewScalar().SetUniformBytes(digest[:])
	if err != nil {
		return nil, err
	}

	s, err := scalarFromLE32(xprv[:32])
	if err != nil {
		return nil, err
	}
	S := edwards25519.NewScalar().MultiplyAdd(k, s, r)

	sig := make([]byte, SignatureSize)
	copy(sig[:32], R)
	copy(sig[32:], S.Bytes())
	return sig, nil
}

// SignAlgoTransaction signs a prefix-encoded Algorand transaction with
// the key at m/44'/cointype'/account'/change/keyIndex. The input must
// already carry its domain-separation prefix ("TX", "MX", "Program" or
// "progData"); the bytes are signed as given.
func SignAlgoTransaction(root XPrv, context KeyContext, account, change, keyIndex uint32, prefixEncodedTx []byte, dtype DerivationType) ([]byte, error) {
	leaf, err := root.Derive(bip44Path(context, account, change, keyIndex), dtype)
	if err != nil {
		return nil, err
	}
	defer Zero(leaf[:])
	return leaf.Sign(prefixEncodedTx)
}

// SignData signs arbitrary data with the key at
// m/44'/cointype'/account'/change/keyIndex after it clears the safety
// pipeline: the raw bytes must not carry a transaction prefix, the
// decoded form (re-checked for prefixes after base64) must satisfy the
// schema in metadata, and only then are the original bytes signed.
func SignData(root XPrv, context KeyContext, account, change, keyIndex uint32, data []byte, metadata SignMetadata, dtype DerivationType) ([]byte, error) {
	if hasTransactionTag(data) {
		log.Debugw("rejecting transaction-like payload", "encoding", metadata.Encoding)
		return nil, ErrTransactionLikeData
	}
	if metadata.Schema == nil {
		return nil, fmt.Errorf("%w: no schema provided", ErrInvalidSchema)
	}

	var loader gojsonschema.JSONLoader
	switch metadata.Encoding {
	case EncodingNone:
		loader = gojsonschema.NewStringLoader(string(data))
	case EncodingBase64:
		decoded, err := base64.StdEncoding.DecodeString(string(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
		}
		if hasTransactionTag(decoded) {
			log.Debugw("rejecting transaction-like payload after base64 decode")
			return nil, ErrTransactionLikeData
		}
		loader = gojsonschema.NewStringLoader(string(decoded))
	case EncodingMsgpack:
		var decoded interface{}
		if err := msgpack.Decode(data, &decoded); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
		}
		loader = gojsonschema.NewGoLoader(normalizeDecoded(decoded))
	default:
		return nil, ErrInvalidEncoding
	}

	result, err := metadata.Schema.Validate(loader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	if !result.Valid() {
		return nil, ErrInvalidSchema
	}

	leaf, err := root.Derive(bip44Path(context, account, change, keyIndex), dtype)
	if err != nil {
		return nil, err
	}
	defer Zero(leaf[:])
	return leaf.Sign(data)
}

// VerifyWithPublicKey reports whether sig is a valid detached signature
// over message under pk. Verification is permissive: no tag policy is
// applied.
func VerifyWithPublicKey(sig, message []byte, pk ed25519.PublicKey) bool {
	if len(sig) != SignatureSize || len(pk) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(pk, message, sig)
}

// normalizeDecoded rewrites msgpack map keys into strings so the value
// can round-trip through JSON for schema validation.
func normalizeDecoded(v interface{}) interface{} {
	switch t := v.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = normalizeDecoded(val)
		}
		return m
	case map[string]interface{}:
		for k, val := range t {
			t[k] = normalizeDecoded(val)
		}
		return t
	case []interface{}:
		for i, val := range t {
			t[i] = normalizeDecoded(val)
		}
		return t
	default:
		return v
	}
}
