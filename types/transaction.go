package types

import (
	"fmt"
	"math"

	"github.com/colorfulnotion/ckbjs/codec"
	"github.com/colorfulnotion/ckbjs/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ShannonsPerByte converts occupied bytes into capacity.
const ShannonsPerByte = 100_000_000

type OutPoint struct {
	TxHash common.Hash    `json:"tx_hash"`
	Index  hexutil.Uint64 `json:"index"`
}

func (o *OutPoint) MarshalMolecule() []byte {
	return codec.Struct(o.TxHash.Bytes(), codec.Uint32(uint32(o.Index)))
}

type CellInput struct {
	Since          hexutil.Uint64 `json:"since"`
	PreviousOutput OutPoint       `json:"previous_output"`
}

func (c *CellInput) MarshalMolecule() []byte {
	return codec.Struct(codec.Uint64(uint64(c.Since)), c.PreviousOutput.MarshalMolecule())
}

type CellOutput struct {
	Capacity hexutil.Uint64 `json:"capacity"`
	Lock     Script         `json:"lock"`
	Type     *Script        `json:"type"`
}

func (c *CellOutput) MarshalMolecule() []byte {
	var typ []byte
	if c.Type != nil {
		typ = c.Type.MarshalMolecule()
	}
	return codec.Table(codec.Uint64(uint64(c.Capacity)), c.Lock.MarshalMolecule(), codec.Option(typ))
}

// OccupiedCapacity returns the capacity in shannons the cell needs to hold
// itself plus dataLen bytes of data.
func (c *CellOutput) OccupiedCapacity(dataLen int) uint64 {
	n := 8 + uint64(dataLen) + c.Lock.OccupiedBytes()
	if c.Type != nil {
		n += c.Type.OccupiedBytes()
	}
	return n * ShannonsPerByte
}

type DepType string

const (
	DepTypeCode     DepType = "code"
	DepTypeDepGroup DepType = "dep_group"
)

type CellDep struct {
	OutPoint OutPoint `json:"out_point"`
	DepType  DepType  `json:"dep_type"`
}

func (c *CellDep) MarshalMolecule() []byte {
	var dt byte
	if c.DepType == DepTypeDepGroup {
		dt = 1
	}
	return codec.Struct(c.OutPoint.MarshalMolecule(), []byte{dt})
}

type Transaction struct {
	Version     hexutil.Uint64  `json:"version"`
	CellDeps    []CellDep       `json:"cell_deps"`
	HeaderDeps  []common.Hash   `json:"header_deps"`
	Inputs      []CellInput     `json:"inputs"`
	Outputs     []CellOutput    `json:"outputs"`
	OutputsData []hexutil.Bytes `json:"outputs_data"`
	Witnesses   []hexutil.Bytes `json:"witnesses"`
}

// RawMolecule encodes the transaction without witnesses.
func (tx *Transaction) RawMolecule() []byte {
	deps := make([][]byte, len(tx.CellDeps))
	for i := range tx.CellDeps {
		deps[i] = tx.CellDeps[i].MarshalMolecule()
	}
	headerDeps := make([][]byte, len(tx.HeaderDeps))
	for i := range tx.HeaderDeps {
		headerDeps[i] = tx.HeaderDeps[i].Bytes()
	}
	inputs := make([][]byte, len(tx.Inputs))
	for i := range tx.Inputs {
		inputs[i] = tx.Inputs[i].MarshalMolecule()
	}
	outputs := make([][]byte, len(tx.Outputs))
	for i := range tx.Outputs {
		outputs[i] = tx.Outputs[i].MarshalMolecule()
	}
	return codec.Table(
		codec.Uint32(uint32(tx.Version)),
		codec.FixVec(deps),
		codec.FixVec(headerDeps),
		codec.FixVec(inputs),
		codec.DynVec(outputs),
		bytesVec(tx.OutputsData),
	)
}

func (tx *Transaction) MarshalMolecule() []byte {
	return codec.Table(tx.RawMolecule(), bytesVec(tx.Witnesses))
}

// Hash is the transaction hash; witnesses are not covered.
func (tx *Transaction) Hash() common.Hash {
	return common.CKBHash(tx.RawMolecule())
}

func (tx *Transaction) Validate() error {
	if tx.Version > math.MaxUint32 {
		return fmt.Errorf("version %d does not fit in u32", tx.Version)
	}
	if len(tx.Outputs) != len(tx.OutputsData) {
		return fmt.Errorf("%d outputs but %d outputs_data", len(tx.Outputs), len(tx.OutputsData))
	}
	for i := range tx.CellDeps {
		d := &tx.CellDeps[i]
		if d.DepType != DepTypeCode && d.DepType != DepTypeDepGroup {
			return fmt.Errorf("cell_deps[%d]: unknown dep_type %q", i, string(d.DepType))
		}
		if d.OutPoint.Index > math.MaxUint32 {
			return fmt.Errorf("cell_deps[%d]: index does not fit in u32", i)
		}
	}
	for i := range tx.Inputs {
		if tx.Inputs[i].PreviousOutput.Index > math.MaxUint32 {
			return fmt.Errorf("inputs[%d]: index does not fit in u32", i)
		}
	}
	for i := range tx.Outputs {
		if err := tx.Outputs[i].validate(); err != nil {
			return fmt.Errorf("outputs[%d]: %w", i, err)
		}
	}
	return nil
}

func (c *CellOutput) validate() error {
	if err := c.Lock.Validate(); err != nil {
		return fmt.Errorf("lock: %w", err)
	}
	if c.Type != nil {
		if err := c.Type.Validate(); err != nil {
			return fmt.Errorf("type: %w", err)
		}
	}
	return nil
}

func bytesVec(items []hexutil.Bytes) []byte {
	enc := make([][]byte, len(items))
	for i, it := range items {
		enc[i] = codec.Bytes(it)
	}
	return codec.DynVec(enc)
}
