// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package pxe

import (
	"fmt"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/common/hexutil"
	"github.com/luxfi/pxe-deploy/pkg/constants"
)

// AddressLength is the size in bytes of an account or contract address.
const AddressLength = 32

// Address is an account or contract address on the execution environment.
type Address [AddressLength]byte

// TxHash identifies a submitted transaction.
type TxHash = common.Hash

// ParseAddress parses a 0x-prefixed, 64 hex digit address.
func ParseAddress(s string) (Address, error) {
	var a Address
	if err := a.UnmarshalText([]byte(s)); err != nil {
		return Address{}, fmt.Errorf("%w %q: %w", constants.ErrInvalidAddress, s, err)
	}
	return a, nil
}

func (a Address) Hex() string {
	return hexutil.Encode(a[:])
}

func (a Address) String() string {
	return a.Hex()
}

func (a Address) IsZero() bool {
	return a == Address{}
}

func (a Address) MarshalText() ([]byte, error) {
	return hexutil.Bytes(a[:]).MarshalText()
}

func (a *Address) UnmarshalText(input []byte) error {
	return hexutil.UnmarshalFixedText("Address", input, a[:])
}

// CompleteAddress is the externally visible identity of an account: its
// address together with the public keys and partial address it was derived from.
type CompleteAddress struct {
	Address        Address       `json:"address"`
	PublicKeys     hexutil.Bytes `json:"publicKeys"`
	PartialAddress Address       `json:"partialAddress"`
}

// String renders the complete address as one hex string: address, public
// keys and partial address concatenated.
func (c CompleteAddress) String() string {
	return c.Address.Hex() + hexutil.Encode(c.PublicKeys)[2:] + c.PartialAddress.Hex()[2:]
}

type completeAddressTuple struct {
	Address        [AddressLength]byte
	PublicKeys     []byte
	PartialAddress [AddressLength]byte
}

// ABIValue returns the value packed for a (bytes32 address, bytes publicKeys,
// bytes32 partialAddress) tuple parameter.
func (c CompleteAddress) ABIValue() any {
	return completeAddressTuple{
		Address:        c.Address,
		PublicKeys:     []byte(c.PublicKeys),
		PartialAddress: c.PartialAddress,
	}
}

// Scheme is the signature scheme of an account contract.
type Scheme string

const (
	SchnorrScheme Scheme = "schnorr"
	ECDSAScheme   Scheme = "ecdsa-secp256k1"
)

// KeyMaterial holds the private inputs an account is derived from.
type KeyMaterial struct {
	Scheme     Scheme        `json:"scheme"`
	SecretKey  hexutil.Bytes `json:"secretKey"`
	SigningKey hexutil.Bytes `json:"signingKey"`
}

// Account is a pre-provisioned account as returned by the environment.
type Account struct {
	CompleteAddress CompleteAddress `json:"completeAddress"`
	Keys            KeyMaterial     `json:"keys"`
}

// DeploymentTx is a contract deployment request bound to a sender.
type DeploymentTx struct {
	Sender          Address       `json:"sender"`
	ArtifactName    string        `json:"artifactName"`
	Bytecode        hexutil.Bytes `json:"bytecode"`
	ConstructorArgs hexutil.Bytes `json:"constructorArgs"`
	Salt            common.Hash   `json:"salt"`
}

type TxStatus string

const (
	TxStatusPending  TxStatus = "pending"
	TxStatusSuccess  TxStatus = "success"
	TxStatusReverted TxStatus = "reverted"
	TxStatusDropped  TxStatus = "dropped"
)

type TxReceipt struct {
	TxHash          TxHash         `json:"txHash"`
	Status          TxStatus       `json:"status"`
	Error           string         `json:"error,omitempty"`
	BlockNumber     hexutil.Uint64 `json:"blockNumber,omitempty"`
	ContractAddress *Address       `json:"contractAddress,omitempty"`
}

type ContractInstance struct {
	Address      Address     `json:"address"`
	ArtifactName string      `json:"artifactName"`
	Deployer     Address     `json:"deployer"`
	Salt         common.Hash `json:"salt"`
}

type NodeInfo struct {
	NodeVersion     string         `json:"nodeVersion"`
	L1ChainID       hexutil.Uint64 `json:"l1ChainId"`
	ProtocolVersion uint64         `json:"protocolVersion"`
}
