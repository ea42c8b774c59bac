// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package identity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/luxfi/crypto/secp256k1"
	"github.com/luxfi/geth/common/hexutil"
	"github.com/luxfi/pxe-deploy/pkg/pxe"
)

var (
	ErrInvalidKey        = errors.New("invalid key")
	ErrInvalidKeyLen     = errors.New("invalid key length (expect 32 bytes in hex)")
	ErrUnsupportedScheme = errors.New("unsupported signature scheme")
)

const keySize = 32

type keyOp struct {
	scheme     pxe.Scheme
	secretKey  string
	signingKey string
}

type KeyOption func(*keyOp)

func (op *keyOp) applyOpts(opts []KeyOption) {
	for _, opt := range opts {
		opt(op)
	}
}

// WithScheme selects the account signature scheme. Defaults to schnorr.
func WithScheme(scheme pxe.Scheme) KeyOption {
	return func(op *keyOp) {
		op.scheme = scheme
	}
}

// WithSecretKeyHex uses a pre-defined secret key instead of generating one.
func WithSecretKeyHex(secretKey string) KeyOption {
	return func(op *keyOp) {
		op.secretKey = secretKey
	}
}

// WithSigningKeyHex uses a pre-defined signing key instead of generating one.
func WithSigningKeyHex(signingKey string) KeyOption {
	return func(op *keyOp) {
		op.signingKey = signingKey
	}
}

// NewKeyMaterial returns key material for a new account. Keys not supplied
// through options are freshly generated.
func NewKeyMaterial(opts ...KeyOption) (pxe.KeyMaterial, error) {
	op := &keyOp{scheme: pxe.SchnorrScheme}
	op.applyOpts(opts)

	scheme, err := ParseScheme(string(op.scheme))
	if err != nil {
		return pxe.KeyMaterial{}, err
	}
	secretKey, err := loadOrGenerateKey(op.secretKey)
	if err != nil {
		return pxe.KeyMaterial{}, fmt.Errorf("secret key: %w", err)
	}
	signingKey, err := loadOrGenerateKey(op.signingKey)
	if err != nil {
		return pxe.KeyMaterial{}, fmt.Errorf("signing key: %w", err)
	}
	return pxe.KeyMaterial{
		Scheme:     scheme,
		SecretKey:  secretKey,
		SigningKey: signingKey,
	}, nil
}

func ParseScheme(s string) (pxe.Scheme, error) {
	switch pxe.Scheme(strings.ToLower(s)) {
	case "", pxe.SchnorrScheme:
		return pxe.SchnorrScheme, nil
	case pxe.ECDSAScheme:
		return pxe.ECDSAScheme, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnsupportedScheme, s)
}

func loadOrGenerateKey(encoded string) (hexutil.Bytes, error) {
	if encoded == "" {
		privKey, err := secp256k1.NewPrivateKey()
		if err != nil {
			return nil, err
		}
		return hexutil.Bytes(privKey.Bytes()), nil
	}
	if !strings.HasPrefix(encoded, "0x") && !strings.HasPrefix(encoded, "0X") {
		encoded = "0x" + encoded
	}
	key, err := hexutil.Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	if len(key) != keySize {
		return nil, ErrInvalidKeyLen
	}
	return key, nil
}
