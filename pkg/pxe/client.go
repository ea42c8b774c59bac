// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package pxe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/luxfi/geth/rpc"
	"github.com/luxfi/pxe-deploy/pkg/constants"
)

const namespace = "pxe"

// Environment is the set of capabilities the deployer consumes from a PXE.
type Environment interface {
	GetTestAccounts(ctx context.Context) ([]Account, error)
	RegisterAccount(ctx context.Context, keys KeyMaterial) (CompleteAddress, error)
	SendTx(ctx context.Context, tx DeploymentTx) (TxHash, error)
	GetTxReceipt(ctx context.Context, hash TxHash) (TxReceipt, error)
	GetContractInstance(ctx context.Context, address Address) (*ContractInstance, error)
	GetNodeInfo(ctx context.Context) (NodeInfo, error)
}

var _ Environment = (*Client)(nil)

// Client talks to a PXE over JSON-RPC
type Client struct {
	endpoint   string
	rpcClient  *rpc.Client
	timeout    time.Duration
	httpClient *http.Client
}

type Option func(*Client)

// WithRequestTimeout bounds every single request made by the client.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// Dial creates a client for [endpoint]. For http(s) endpoints nothing is sent
// over the wire until the first call, so an unreachable PXE is reported by
// that call rather than here.
func Dial(ctx context.Context, endpoint string, opts ...Option) (*Client, error) {
	if err := ValidateEndpoint(endpoint); err != nil {
		return nil, err
	}
	c := &Client{
		endpoint: endpoint,
		timeout:  constants.APIRequestTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	var rpcOpts []rpc.ClientOption
	if c.httpClient != nil {
		rpcOpts = append(rpcOpts, rpc.WithHTTPClient(c.httpClient))
	}
	rpcClient, err := rpc.DialOptions(ctx, endpoint, rpcOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to dial %s: %w", constants.ErrConnectivity, endpoint, err)
	}
	c.rpcClient = rpcClient
	return c, nil
}

// ValidateEndpoint checks that [endpoint] is an absolute http(s) or ws(s) URL.
func ValidateEndpoint(endpoint string) error {
	u, err := url.ParseRequestURI(endpoint)
	if err != nil {
		return fmt.Errorf("%w %q: %w", constants.ErrInvalidEndpoint, endpoint, err)
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return fmt.Errorf("%w %q: unsupported scheme %q", constants.ErrInvalidEndpoint, endpoint, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w %q: missing host", constants.ErrInvalidEndpoint, endpoint)
	}
	return nil
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

func (c *Client) GetTestAccounts(ctx context.Context) ([]Account, error) {
	var accounts []Account
	if err := c.call(ctx, &accounts, "getTestAccounts"); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (c *Client) RegisterAccount(ctx context.Context, keys KeyMaterial) (CompleteAddress, error) {
	var completeAddress CompleteAddress
	if err := c.call(ctx, &completeAddress, "registerAccount", keys); err != nil {
		return CompleteAddress{}, err
	}
	return completeAddress, nil
}

func (c *Client) SendTx(ctx context.Context, tx DeploymentTx) (TxHash, error) {
	var hash TxHash
	if err := c.call(ctx, &hash, "sendTx", tx); err != nil {
		return TxHash{}, err
	}
	return hash, nil
}

func (c *Client) GetTxReceipt(ctx context.Context, hash TxHash) (TxReceipt, error) {
	var receipt TxReceipt
	if err := c.call(ctx, &receipt, "getTxReceipt", hash); err != nil {
		return TxReceipt{}, err
	}
	return receipt, nil
}

// GetContractInstance returns nil when no contract lives at [address].
func (c *Client) GetContractInstance(ctx context.Context, address Address) (*ContractInstance, error) {
	var instance *ContractInstance
	if err := c.call(ctx, &instance, "getContractInstance", address); err != nil {
		return nil, err
	}
	return instance, nil
}

func (c *Client) GetNodeInfo(ctx context.Context) (NodeInfo, error) {
	var info NodeInfo
	if err := c.call(ctx, &info, "getNodeInfo"); err != nil {
		return NodeInfo{}, err
	}
	return info, nil
}

// Close closes the client connection
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

func (c *Client) call(ctx context.Context, result any, method string, args ...any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	method = namespace + "_" + method
	if err := c.rpcClient.CallContext(ctx, result, method, args...); err != nil {
		return classifyError(method, err)
	}
	return nil
}

// RemoteError is a JSON-RPC error answered by the PXE itself, as opposed to
// a failure to reach it.
type RemoteError struct {
	Method  string
	Code    int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s rejected by pxe (code %d): %s", e.Method, e.Code, e.Message)
}

func classifyError(method string, err error) error {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return &RemoteError{
			Method:  method,
			Code:    rpcErr.ErrorCode(),
			Message: rpcErr.Error(),
		}
	}
	return fmt.Errorf("%w: %s: %w", constants.ErrConnectivity, method, err)
}
