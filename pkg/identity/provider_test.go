// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package identity

import (
	"context"
	"fmt"
	"testing"

	luxlog "github.com/luxfi/log"
	"github.com/luxfi/pxe-deploy/internal/mocks"
	"github.com/luxfi/pxe-deploy/internal/testutils"
	"github.com/luxfi/pxe-deploy/pkg/constants"
	"github.com/luxfi/pxe-deploy/pkg/pxe"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testAccounts(t *testing.T, n int) []pxe.Account {
	accounts, err := testutils.NewFakePXE(n).GetTestAccounts(context.Background())
	require.NoError(t, err)
	return accounts
}

func TestResolveFixture(t *testing.T) {
	require := require.New(t)
	accounts := testAccounts(t, 3)
	env := &mocks.Environment{}
	env.On("GetTestAccounts", mock.Anything).Return(accounts, nil)

	identities, err := NewProvider(env, luxlog.Noop()).Resolve(context.Background(), Fixture())
	require.NoError(err)
	require.Len(identities, 3)
	for i, identity := range identities {
		require.Equal(accounts[i].CompleteAddress.Address, identity.Address)
		require.Equal(accounts[i].CompleteAddress, identity.CompleteAddress)
		require.Equal(accounts[i].Keys, identity.Keys)
	}
	env.AssertNotCalled(t, "RegisterAccount", mock.Anything, mock.Anything)
}

func TestResolveFixtureIsDeterministic(t *testing.T) {
	require := require.New(t)
	fake := testutils.NewFakePXE(3)
	provider := NewProvider(fake, luxlog.Noop())

	first, err := provider.Resolve(context.Background(), Fixture())
	require.NoError(err)
	second, err := provider.Resolve(context.Background(), Fixture())
	require.NoError(err)
	require.Equal(first, second)
}

func TestResolveFixtureNotEnoughIdentities(t *testing.T) {
	for _, n := range []int{0, 1, 2} {
		env := &mocks.Environment{}
		env.On("GetTestAccounts", mock.Anything).Return(testAccounts(t, n), nil)

		_, err := NewProvider(env, luxlog.Noop()).Resolve(context.Background(), Fixture())
		require.ErrorIs(t, err, constants.ErrNoIdentities)
	}
}

func TestResolveFixtureUnreachable(t *testing.T) {
	env := &mocks.Environment{}
	env.On("GetTestAccounts", mock.Anything).Return(nil, fmt.Errorf("%w: connection refused", constants.ErrConnectivity))

	_, err := NewProvider(env, luxlog.Noop()).Resolve(context.Background(), Fixture())
	require.ErrorIs(t, err, constants.ErrConnectivity)
}

func TestResolveFresh(t *testing.T) {
	require := require.New(t)
	keys, err := NewKeyMaterial()
	require.NoError(err)
	completeAddress := testAccounts(t, 1)[0].CompleteAddress

	env := &mocks.Environment{}
	env.On("RegisterAccount", mock.Anything, keys).Return(completeAddress, nil).Once()

	identities, err := NewProvider(env, luxlog.Noop()).Resolve(context.Background(), Fresh(keys))
	require.NoError(err)
	require.Equal([]Identity{{
		Address:         completeAddress.Address,
		CompleteAddress: completeAddress,
		Keys:            keys,
	}}, identities)
	env.AssertExpectations(t)
	env.AssertNotCalled(t, "GetTestAccounts", mock.Anything)
}

func TestResolveFreshAgainstFake(t *testing.T) {
	require := require.New(t)
	fake := testutils.NewFakePXE(3)
	strategy, err := NewStrategy(FreshStrategyName, WithScheme(pxe.ECDSAScheme))
	require.NoError(err)

	identities, err := NewProvider(fake, luxlog.Noop()).Resolve(context.Background(), strategy)
	require.NoError(err)
	require.Len(identities, 1)
	require.Equal(pxe.ECDSAScheme, identities[0].Keys.Scheme)

	fixtures, err := fake.GetTestAccounts(context.Background())
	require.NoError(err)
	for _, account := range fixtures {
		require.NotEqual(account.CompleteAddress.Address, identities[0].Address)
	}
	require.Len(fake.Registered(), 1)
}

func TestResolveFreshRejected(t *testing.T) {
	require := require.New(t)
	keys, err := NewKeyMaterial()
	require.NoError(err)
	env := &mocks.Environment{}
	env.On("RegisterAccount", mock.Anything, keys).Return(pxe.CompleteAddress{}, &pxe.RemoteError{Method: "pxe_registerAccount", Code: -32000, Message: "rejected"})

	_, err = NewProvider(env, luxlog.Noop()).Resolve(context.Background(), Fresh(keys))
	require.ErrorIs(err, constants.ErrIdentityResolution)
}

func TestResolveFreshEmptyAddress(t *testing.T) {
	keys, err := NewKeyMaterial()
	require.NoError(t, err)
	env := &mocks.Environment{}
	env.On("RegisterAccount", mock.Anything, keys).Return(pxe.CompleteAddress{}, nil)

	_, err = NewProvider(env, luxlog.Noop()).Resolve(context.Background(), Fresh(keys))
	require.ErrorIs(t, err, constants.ErrIdentityResolution)
}

func TestNewStrategy(t *testing.T) {
	require := require.New(t)

	s, err := NewStrategy("")
	require.NoError(err)
	require.False(s.IsFresh())
	require.Equal(FixtureStrategyName, s.String())

	s, err = NewStrategy("FRESH")
	require.NoError(err)
	require.True(s.IsFresh())
	require.Equal(FreshStrategyName, s.String())
	require.Len(s.Keys().SecretKey, keySize)

	_, err = NewStrategy("random")
	require.ErrorIs(err, ErrUnknownStrategy)

	_, err = NewStrategy(FreshStrategyName, WithSecretKeyHex("0x1234"))
	require.ErrorIs(err, ErrInvalidKeyLen)
}
