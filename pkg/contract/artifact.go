// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contract

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/luxfi/geth/accounts/abi"
	"github.com/luxfi/geth/common/hexutil"
	"github.com/luxfi/pxe-deploy/pkg/constants"
)

//go:embed artifacts/PublicGroups.json
var publicGroupsJSON []byte

// Artifact is a compiled contract ready to be deployed.
type Artifact struct {
	Name     string
	ABI      abi.ABI
	Bytecode []byte
}

type artifactFile struct {
	Name     string          `json:"name"`
	ABI      json.RawMessage `json:"abi"`
	Bytecode hexutil.Bytes   `json:"bytecode"`
}

// ABIValuer is implemented by domain types that are packed as a different
// Go value than themselves.
type ABIValuer interface {
	ABIValue() any
}

// DefaultArtifact returns the artifact embedded in the binary.
func DefaultArtifact() (*Artifact, error) {
	return ParseArtifact(publicGroupsJSON)
}

// LoadArtifact reads the artifact at [path], or the embedded one when
// [path] is empty.
func LoadArtifact(path string) (*Artifact, error) {
	if path == "" {
		return DefaultArtifact()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", constants.ErrInvalidArtifact, err)
	}
	artifact, err := ParseArtifact(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return artifact, nil
}

func ParseArtifact(data []byte) (*Artifact, error) {
	var file artifactFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %w", constants.ErrInvalidArtifact, err)
	}
	if file.Name == "" {
		return nil, fmt.Errorf("%w: missing name", constants.ErrInvalidArtifact)
	}
	if len(file.Bytecode) == 0 {
		return nil, fmt.Errorf("%w: %s has no bytecode", constants.ErrInvalidArtifact, file.Name)
	}
	if len(file.ABI) == 0 {
		return nil, fmt.Errorf("%w: %s has no abi", constants.ErrInvalidArtifact, file.Name)
	}
	parsed, err := abi.JSON(bytes.NewReader(file.ABI))
	if err != nil {
		return nil, fmt.Errorf("%w: %s abi: %w", constants.ErrInvalidArtifact, file.Name, err)
	}
	if err := validateABI(parsed); err != nil {
		return nil, fmt.Errorf("%w: %s abi: %w", constants.ErrInvalidArtifact, file.Name, err)
	}
	return &Artifact{
		Name:     file.Name,
		ABI:      parsed,
		Bytecode: file.Bytecode,
	}, nil
}

// validateABI rejects integer widths abi.JSON lets through, such as uint7.
func validateABI(parsed abi.ABI) error {
	args := append(abi.Arguments{}, parsed.Constructor.Inputs...)
	for _, method := range parsed.Methods {
		args = append(args, method.Inputs...)
		args = append(args, method.Outputs...)
	}
	for _, event := range parsed.Events {
		args = append(args, event.Inputs...)
	}
	for _, arg := range args {
		if err := validateType(arg.Type); err != nil {
			return fmt.Errorf("argument %q: %w", arg.Name, err)
		}
	}
	return nil
}

func validateType(t abi.Type) error {
	switch t.T {
	case abi.IntTy, abi.UintTy:
		if t.Size < 8 || t.Size > 256 || t.Size%8 != 0 {
			return fmt.Errorf("unsupported integer type %s", t.String())
		}
	case abi.SliceTy, abi.ArrayTy:
		return validateType(*t.Elem)
	case abi.TupleTy:
		for _, elem := range t.TupleElems {
			if err := validateType(*elem); err != nil {
				return err
			}
		}
	}
	return nil
}

// PackConstructor ABI-encodes [args] against the artifact constructor.
func (a *Artifact) PackConstructor(args ...any) ([]byte, error) {
	inputs := a.ABI.Constructor.Inputs
	if len(args) != len(inputs) {
		return nil, fmt.Errorf("%w: %s constructor expects %d arguments, got %d",
			constants.ErrConstructorArgs, a.Name, len(inputs), len(args))
	}
	values := make([]any, len(args))
	for i, arg := range args {
		if v, ok := arg.(ABIValuer); ok {
			values[i] = v.ABIValue()
		} else {
			values[i] = arg
		}
	}
	packed, err := a.ABI.Pack("", values...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s constructor: %w", constants.ErrConstructorArgs, a.Name, err)
	}
	return packed, nil
}

// ConstructorSignature renders the constructor inputs, e.g. "(admin tuple)".
func (a *Artifact) ConstructorSignature() string {
	sig := "("
	for i, input := range a.ABI.Constructor.Inputs {
		if i > 0 {
			sig += ", "
		}
		sig += input.Name + " " + input.Type.String()
	}
	return sig + ")"
}
