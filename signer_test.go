// Copyright (c) 2024 The xhdwalletlib developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package xhdwalletlib

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/algorand/go-algorand-sdk/v2/encoding/msgpack"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

const challengeSchemaJSON = `{
	"type": "object",
	"properties": {
		"challenge": {
			"type": "array",
			"items": {"type": "integer", "minimum": 0, "maximum": 255},
			"minItems": 32,
			"maxItems": 32
		}
	},
	"required": ["challenge"]
}`

func challengeSchema(t *testing.T) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(challengeSchemaJSON))
	require.NoError(t, err)
	return schema
}

func randomChallenge(t *testing.T) []int {
	var buf [32]byte
	_, err := rand.Read(buf[:])
	require.NoError(t, err)
	challenge := make([]int, 32)
	for i, b := range buf {
		challenge[i] = int(b)
	}
	return challenge
}

func TestSignatureVector(t *testing.T) {
	root := testRoot(t)
	leaf, err := root.Derive(bip44Path(KeyContextAddress, 0, 0, 0), Peikert)
	require.NoError(t, err)

	sig, err := leaf.Sign([]byte("arbitrary data to sign"))
	require.NoError(t, err)
	assert.Equal(t,
		"eba7b4f13d6f314b7beb6a78caa628dec5a42866d03c35a31c9e136832a5e063371dfee8e702aec43673a2dd0947943fc2296fc495a3380fe8218c37402bcb01",
		hex.EncodeToString(sig))
}

func TestSignVerifyRoundTrip(t *testing.T) {
	root := testRoot(t)

	for _, dtype := range []DerivationType{Peikert, Khovratovich} {
		leaf, err := root.Derive(bip44Path(KeyContextIdentity, 2, 0, 4), dtype)
		require.NoError(t, err)
		pk, err := leaf.PublicKey()
		require.NoError(t, err)

		for _, message := range [][]byte{
			nil,
			[]byte("a"),
			[]byte("the quick brown fox jumps over the lazy dog"),
			make([]byte, 4096),
		} {
			sig, err := leaf.Sign(message)
			require.NoError(t, err)
			assert.True(t, VerifyWithPublicKey(sig, message, pk))
			assert.False(t, VerifyWithPublicKey(sig, append(message, 0x01), pk))
		}
	}
}

func TestVerifyWithPublicKeyRejectsMalformed(t *testing.T) {
	assert.False(t, VerifyWithPublicKey(make([]byte, 10), []byte("msg"), make([]byte, 32)))
	assert.False(t, VerifyWithPublicKey(make([]byte, 64), []byte("msg"), make([]byte, 10)))
}

func TestSignAlgoTransaction(t *testing.T) {
	root := testRoot(t)

	pk, err := KeyGen(root, KeyContextAddress, 0, 0, Peikert)
	require.NoError(t, err)

	var sender, receiver types.Address
	copy(sender[:], pk)
	receiver[0] = 0x07

	tx := types.Transaction{
		Type: types.PaymentTx,
		Header: types.Header{
			Sender:     sender,
			Fee:        types.MicroAlgos(1000),
			FirstValid: types.Round(10000),
			LastValid:  types.Round(11000),
			GenesisID:  "testnet-v1.0",
		},
		PaymentTxnFields: types.PaymentTxnFields{
			Receiver: receiver,
			Amount:   types.MicroAlgos(50000),
		},
	}
	prefixEncodedTx := append([]byte("TX"), msgpack.Encode(tx)...)

	sig, err := SignAlgoTransaction(root, KeyContextAddress, 0, 0, 0, prefixEncodedTx, Peikert)
	require.NoError(t, err)
	assert.True(t, VerifyWithPublicKey(sig, prefixEncodedTx, pk))
}

func TestSignDataRejectsTransactionTags(t *testing.T) {
	root := testRoot(t)
	metadata := SignMetadata{Encoding: EncodingNone, Schema: challengeSchema(t)}

	for _, tag := range []string{"TX", "MX", "Program", "progData"} {
		payload := append([]byte(tag), []byte("some payload")...)

		_, err := SignData(root, KeyContextAddress, 0, 0, 0, payload, metadata, Peikert)
		assert.ErrorIs(t, err, ErrTransactionLikeData, "outer tag %s", tag)

		encoded := []byte(base64.StdEncoding.EncodeToString(payload))
		b64 := SignMetadata{Encoding: EncodingBase64, Schema: challengeSchema(t)}
		_, err = SignData(root, KeyContextAddress, 0, 0, 0, encoded, b64, Peikert)
		assert.ErrorIs(t, err, ErrTransactionLikeData, "inner tag %s", tag)
	}
}

func TestSignDataBase64Challenge(t *testing.T) {
	root := testRoot(t)

	doc, err := json.Marshal(map[string]interface{}{"challenge": randomChallenge(t)})
	require.NoError(t, err)
	data := []byte(base64.StdEncoding.EncodeToString(doc))

	metadata := SignMetadata{Encoding: EncodingBase64, Schema: challengeSchema(t)}
	sig, err := SignData(root, KeyContextAddress, 0, 0, 0, data, metadata, Peikert)
	require.NoError(t, err)

	// the signature covers the original base64 bytes, not the decoded form
	pk, err := KeyGen(root, KeyContextAddress, 0, 0, Peikert)
	require.NoError(t, err)
	assert.True(t, VerifyWithPublicKey(sig, data, pk))
	assert.False(t, VerifyWithPublicKey(sig, doc, pk))
}

func TestSignDataNone(t *testing.T) {
	root := testRoot(t)

	doc, err := json.Marshal(map[string]interface{}{"challenge": randomChallenge(t)})
	require.NoError(t, err)

	metadata := SignMetadata{Encoding: EncodingNone, Schema: challengeSchema(t)}
	sig, err := SignData(root, KeyContextIdentity, 0, 0, 1, doc, metadata, Peikert)
	require.NoError(t, err)

	pk, err := KeyGen(root, KeyContextIdentity, 0, 1, Peikert)
	require.NoError(t, err)
	assert.True(t, VerifyWithPublicKey(sig, doc, pk))
}

func TestSignDataMsgpack(t *testing.T) {
	root := testRoot(t)

	challenge := randomChallenge(t)
	data := msgpack.Encode(map[string]interface{}{"challenge": challenge})

	metadata := SignMetadata{Encoding: EncodingMsgpack, Schema: challengeSchema(t)}
	sig, err := SignData(root, KeyContextAddress, 1, 0, 0, data, metadata, Peikert)
	require.NoError(t, err)

	pk, err := KeyGen(root, KeyContextAddress, 1, 0, Peikert)
	require.NoError(t, err)
	assert.True(t, VerifyWithPublicKey(sig, data, pk))
}

func TestSignDataSchemaMismatch(t *testing.T) {
	root := testRoot(t)
	metadata := SignMetadata{Encoding: EncodingNone, Schema: challengeSchema(t)}

	_, err := SignData(root, KeyContextAddress, 0, 0, 0, []byte(`{"challenge": "nope"}`), metadata, Peikert)
	assert.ErrorIs(t, err, ErrInvalidSchema)

	// not valid JSON at all
	_, err = SignData(root, KeyContextAddress, 0, 0, 0, []byte{0xff, 0xfe, 0xfd}, metadata, Peikert)
	assert.ErrorIs(t, err, ErrInvalidSchema)

	_, err = SignData(root, KeyContextAddress, 0, 0, 0, []byte(`{}`), SignMetadata{Encoding: EncodingNone}, Peikert)
	assert.ErrorIs(t, err, ErrInvalidSchema)
}

func TestSignDataInvalidEncoding(t *testing.T) {
	root := testRoot(t)
	metadata := SignMetadata{Encoding: EncodingBase64, Schema: challengeSchema(t)}

	_, err := SignData(root, KeyContextAddress, 0, 0, 0, []byte("!!! not base64 !!!"), metadata, Peikert)
	assert.ErrorIs(t, err, ErrInvalidEncoding)

	metadata.Encoding = Encoding(99)
	_, err = SignData(root, KeyContextAddress, 0, 0, 0, []byte("{}"), metadata, Peikert)
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}
