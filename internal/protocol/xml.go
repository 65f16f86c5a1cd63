// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package protocol parses the vendor XML login responses.
//
// A response is one of two shapes:
//
//	<response><ok uid=".." sessionid=".." token=".." privatekeyenc=".."/></response>
//	<response><error message=".." cause=".." .../></response>
//
// Every error attribute is optional; presence varies by failure type.
package protocol

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"encoding/xml"
	"errors"

	"github.com/jeranaias/passkeep/internal/login"
)

// Parser implements login.Parser over the vendor XML wire format.
type Parser struct{}

type okResponse struct {
	XMLName xml.Name `xml:"response"`
	OK      *struct {
		UID           string `xml:"uid,attr"`
		SessionID     string `xml:"sessionid,attr"`
		Token         string `xml:"token,attr"`
		PrivateKeyEnc string `xml:"privatekeyenc,attr"`
	} `xml:"ok"`
}

// ParseSession extracts and validates the session carried by reply.
// Returns nil when reply is not a session response, or when the
// private-key material does not decrypt under the derived key.
func (Parser) ParseSession(reply []byte, key []byte) *login.Session {
	var doc okResponse
	if err := xml.Unmarshal(reply, &doc); err != nil || doc.OK == nil {
		return nil
	}
	if doc.OK.Token == "" || doc.OK.SessionID == "" {
		return nil
	}

	session := &login.Session{
		UID:   doc.OK.UID,
		ID:    doc.OK.SessionID,
		Token: doc.OK.Token,
	}

	// "0" means the account has no sharing key; nothing to validate.
	if enc := doc.OK.PrivateKeyEnc; enc != "" && enc != "0" {
		privateKey, err := decryptPrivateKey(enc, key)
		if err != nil {
			return nil
		}
		session.PrivateKey = privateKey
	}
	return session
}

// ExtractField returns the named attribute of the response's error
// element, with ok=false when the element or attribute is absent.
func (Parser) ExtractField(reply []byte, name string) (string, bool) {
	decoder := xml.NewDecoder(bytes.NewReader(reply))
	for {
		token, err := decoder.Token()
		if err != nil {
			return "", false
		}
		start, ok := token.(xml.StartElement)
		if !ok || start.Name.Local != "error" {
			continue
		}
		for _, attr := range start.Attr {
			if attr.Name.Local == name {
				return attr.Value, true
			}
		}
		return "", false
	}
}

// =============================================================================
// PRIVATE KEY VALIDATION
// =============================================================================

// The private key travels hex-encoded, AES-256-CBC encrypted under the
// derived key with the key's first block as IV, wrapped in a plaintext
// envelope. Anything that fails to decrypt to the envelope means the
// derived key is wrong and the session must be rejected.
const (
	keyEnvelopeOpen  = "LastPassPrivateKey<"
	keyEnvelopeClose = ">LastPassPrivateKey"
)

var errBadPrivateKey = errors.New("invalid private key material")

func decryptPrivateKey(enc string, key []byte) ([]byte, error) {
	ciphertext, err := hex.DecodeString(enc)
	if err != nil {
		return nil, errBadPrivateKey
	}
	if len(key) != 32 || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, errBadPrivateKey
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errBadPrivateKey
	}
	plain := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, key[:aes.BlockSize]).CryptBlocks(plain, ciphertext)

	plain, err = stripPKCS7(plain)
	if err != nil {
		return nil, errBadPrivateKey
	}

	start := bytes.Index(plain, []byte(keyEnvelopeOpen))
	end := bytes.LastIndex(plain, []byte(keyEnvelopeClose))
	if start < 0 || end < 0 || end <= start {
		return nil, errBadPrivateKey
	}
	inner := plain[start+len(keyEnvelopeOpen) : end]

	der, err := hex.DecodeString(string(inner))
	if err != nil {
		return nil, errBadPrivateKey
	}
	return der, nil
}

func stripPKCS7(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errBadPrivateKey
	}
	pad := int(data[len(data)-1])
	if pad == 0 || pad > aes.BlockSize || pad > len(data) {
		return nil, errBadPrivateKey
	}
	for _, b := range data[len(data)-pad:] {
		if int(b) != pad {
			return nil, errBadPrivateKey
		}
	}
	return data[:len(data)-pad], nil
}
