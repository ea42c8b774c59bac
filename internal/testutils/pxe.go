// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package testutils

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sync"

	"github.com/luxfi/geth/common/hexutil"
	"github.com/luxfi/crypto"
	"github.com/luxfi/geth/rpc"
	"github.com/luxfi/pxe-deploy/pkg/pxe"
	"github.com/stretchr/testify/require"
)

const (
	DefaultTestAccounts = 3
	FakeNodeVersion     = "0.87.2"
)

var _ pxe.Environment = (*FakePXE)(nil)

// TB is the part of testing.TB the helpers need. GinkgoT() satisfies it too.
type TB interface {
	require.TestingT
	Helper()
	Cleanup(func())
}

// FakePXE is an in-memory execution environment. It can be used directly as
// a pxe.Environment or served over JSON-RPC with Serve.
type FakePXE struct {
	mu sync.Mutex

	accounts   []pxe.Account
	registered []pxe.Account
	sent       []pxe.DeploymentTx
	txs        map[pxe.TxHash]*fakeTx
	instances  map[pxe.Address]pxe.ContractInstance
	block      uint64

	// PendingPolls is the number of receipt queries answered with pending
	// before a transaction reaches FinalStatus.
	PendingPolls int
	// FinalStatus defaults to success.
	FinalStatus    pxe.TxStatus
	RejectSend     bool
	RejectRegister bool
	HideInstances  bool
}

type fakeTx struct {
	tx      pxe.DeploymentTx
	polls   int
	receipt *pxe.TxReceipt
}

type fakeRPCError struct {
	msg string
}

func (e *fakeRPCError) Error() string { return e.msg }

func (*fakeRPCError) ErrorCode() int { return -32000 }

// NewFakePXE returns an environment with [numAccounts] deterministic test accounts.
func NewFakePXE(numAccounts int) *FakePXE {
	f := &FakePXE{
		txs:       map[pxe.TxHash]*fakeTx{},
		instances: map[pxe.Address]pxe.ContractInstance{},
		block:     100,
	}
	for i := 0; i < numAccounts; i++ {
		keys := pxe.KeyMaterial{
			Scheme:     pxe.SchnorrScheme,
			SecretKey:  crypto.Keccak256([]byte(fmt.Sprintf("test-account-secret-%d", i))),
			SigningKey: crypto.Keccak256([]byte(fmt.Sprintf("test-account-signing-%d", i))),
		}
		f.accounts = append(f.accounts, pxe.Account{
			CompleteAddress: deriveCompleteAddress(keys),
			Keys:            keys,
		})
	}
	return f
}

// Serve exposes the fake over HTTP JSON-RPC and returns its URL.
func Serve(t TB, f *FakePXE) string {
	t.Helper()
	server := rpc.NewServer()
	require.NoError(t, server.RegisterName("pxe", f))
	httpServer := httptest.NewServer(server)
	t.Cleanup(func() {
		httpServer.Close()
		server.Stop()
	})
	return httpServer.URL
}

// UnreachableEndpoint returns the URL of a server that is already shut down.
func UnreachableEndpoint(t TB) string {
	t.Helper()
	httpServer := httptest.NewServer(rpc.NewServer())
	url := httpServer.URL
	httpServer.Close()
	return url
}

func deriveCompleteAddress(keys pxe.KeyMaterial) pxe.CompleteAddress {
	publicKeys := crypto.Keccak256(keys.SigningKey, []byte(keys.Scheme))
	partial := crypto.Keccak256Hash(keys.SecretKey, []byte("partial"))
	return pxe.CompleteAddress{
		Address:        pxe.Address(crypto.Keccak256Hash(partial[:], publicKeys)),
		PublicKeys:     hexutil.Bytes(publicKeys),
		PartialAddress: pxe.Address(partial),
	}
}

func (f *FakePXE) GetTestAccounts(_ context.Context) ([]pxe.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]pxe.Account(nil), f.accounts...), nil
}

func (f *FakePXE) RegisterAccount(_ context.Context, keys pxe.KeyMaterial) (pxe.CompleteAddress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.RejectRegister {
		return pxe.CompleteAddress{}, &fakeRPCError{msg: "account registration rejected"}
	}
	completeAddress := deriveCompleteAddress(keys)
	f.registered = append(f.registered, pxe.Account{CompleteAddress: completeAddress, Keys: keys})
	return completeAddress, nil
}

func (f *FakePXE) SendTx(_ context.Context, tx pxe.DeploymentTx) (pxe.TxHash, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.RejectSend {
		return pxe.TxHash{}, &fakeRPCError{msg: "tx rejected: insufficient fee juice"}
	}
	payload, err := json.Marshal(tx)
	if err != nil {
		return pxe.TxHash{}, err
	}
	hash := pxe.TxHash(crypto.Keccak256Hash(payload, []byte{byte(len(f.sent))}))
	f.sent = append(f.sent, tx)
	f.txs[hash] = &fakeTx{tx: tx}
	return hash, nil
}

func (f *FakePXE) GetTxReceipt(_ context.Context, hash pxe.TxHash) (pxe.TxReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.txs[hash]
	if !ok {
		return pxe.TxReceipt{}, &fakeRPCError{msg: fmt.Sprintf("unknown tx %s", hash)}
	}
	if entry.receipt != nil {
		return *entry.receipt, nil
	}
	if entry.polls < f.PendingPolls {
		entry.polls++
		return pxe.TxReceipt{TxHash: hash, Status: pxe.TxStatusPending}, nil
	}
	status := f.FinalStatus
	if status == "" {
		status = pxe.TxStatusSuccess
	}
	f.block++
	receipt := pxe.TxReceipt{
		TxHash:      hash,
		Status:      status,
		BlockNumber: hexutil.Uint64(f.block),
	}
	if status == pxe.TxStatusSuccess {
		address := pxe.Address(crypto.Keccak256Hash(entry.tx.Sender[:], entry.tx.Salt[:], crypto.Keccak256(entry.tx.Bytecode)))
		receipt.ContractAddress = &address
		if !f.HideInstances {
			f.instances[address] = pxe.ContractInstance{
				Address:      address,
				ArtifactName: entry.tx.ArtifactName,
				Deployer:     entry.tx.Sender,
				Salt:         entry.tx.Salt,
			}
		}
	} else {
		receipt.Error = "assertion failed in constructor"
	}
	entry.receipt = &receipt
	return receipt, nil
}

func (f *FakePXE) GetContractInstance(_ context.Context, address pxe.Address) (*pxe.ContractInstance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	instance, ok := f.instances[address]
	if !ok {
		return nil, nil
	}
	return &instance, nil
}

func (*FakePXE) GetNodeInfo(_ context.Context) (pxe.NodeInfo, error) {
	return pxe.NodeInfo{
		NodeVersion:     FakeNodeVersion,
		L1ChainID:       31337,
		ProtocolVersion: 1,
	}, nil
}

// SentTxs returns every deployment submitted so far.
func (f *FakePXE) SentTxs() []pxe.DeploymentTx {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]pxe.DeploymentTx(nil), f.sent...)
}

// Registered returns the accounts created through RegisterAccount.
func (f *FakePXE) Registered() []pxe.Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]pxe.Account(nil), f.registered...)
}
