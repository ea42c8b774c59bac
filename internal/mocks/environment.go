// Code generated manually for testing. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/luxfi/pxe-deploy/pkg/pxe"
	"github.com/stretchr/testify/mock"
)

// Environment is a mock implementation of pxe.Environment
type Environment struct {
	mock.Mock
}

var _ pxe.Environment = (*Environment)(nil)

func (m *Environment) GetTestAccounts(ctx context.Context) ([]pxe.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pxe.Account), args.Error(1)
}

func (m *Environment) RegisterAccount(ctx context.Context, keys pxe.KeyMaterial) (pxe.CompleteAddress, error) {
	args := m.Called(ctx, keys)
	return args.Get(0).(pxe.CompleteAddress), args.Error(1)
}

func (m *Environment) SendTx(ctx context.Context, tx pxe.DeploymentTx) (pxe.TxHash, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).(pxe.TxHash), args.Error(1)
}

func (m *Environment) GetTxReceipt(ctx context.Context, hash pxe.TxHash) (pxe.TxReceipt, error) {
	args := m.Called(ctx, hash)
	return args.Get(0).(pxe.TxReceipt), args.Error(1)
}

func (m *Environment) GetContractInstance(ctx context.Context, address pxe.Address) (*pxe.ContractInstance, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pxe.ContractInstance), args.Error(1)
}

func (m *Environment) GetNodeInfo(ctx context.Context) (pxe.NodeInfo, error) {
	args := m.Called(ctx)
	return args.Get(0).(pxe.NodeInfo), args.Error(1)
}
