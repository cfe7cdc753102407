package types

import (
	"fmt"
	"math"

	"github.com/colorfulnotion/ckbjs/codec"
	"github.com/colorfulnotion/ckbjs/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

type Header struct {
	Version          hexutil.Uint64 `json:"version"`
	CompactTarget    hexutil.Uint64 `json:"compact_target"`
	Timestamp        hexutil.Uint64 `json:"timestamp"`
	Number           hexutil.Uint64 `json:"number"`
	Epoch            hexutil.Uint64 `json:"epoch"`
	ParentHash       common.Hash    `json:"parent_hash"`
	TransactionsRoot common.Hash    `json:"transactions_root"`
	ProposalsHash    common.Hash    `json:"proposals_hash"`
	ExtraHash        common.Hash    `json:"extra_hash"`
	Dao              common.Hash    `json:"dao"`
	Nonce            *uint256.Int   `json:"nonce"`
}

// nonceBytes is the u128 nonce in little endian.
func (h *Header) nonceBytes() []byte {
	out := make([]byte, 16)
	if h.Nonce == nil {
		return out
	}
	be := h.Nonce.Bytes32()
	for i := 0; i < 16; i++ {
		out[i] = be[31-i]
	}
	return out
}

func (h *Header) RawMolecule() []byte {
	return codec.Struct(
		codec.Uint32(uint32(h.Version)),
		codec.Uint32(uint32(h.CompactTarget)),
		codec.Uint64(uint64(h.Timestamp)),
		codec.Uint64(uint64(h.Number)),
		codec.Uint64(uint64(h.Epoch)),
		h.ParentHash.Bytes(),
		h.TransactionsRoot.Bytes(),
		h.ProposalsHash.Bytes(),
		h.ExtraHash.Bytes(),
		h.Dao.Bytes(),
	)
}

func (h *Header) MarshalMolecule() []byte {
	return codec.Struct(h.RawMolecule(), h.nonceBytes())
}

func (h *Header) Hash() common.Hash {
	return common.CKBHash(h.MarshalMolecule())
}

// The epoch field packs number (24 bits), index (16 bits) and length (16 bits).
func (h *Header) EpochNumber() uint64 { return uint64(h.Epoch) & 0xffffff }
func (h *Header) EpochIndex() uint64  { return (uint64(h.Epoch) >> 24) & 0xffff }
func (h *Header) EpochLength() uint64 { return (uint64(h.Epoch) >> 40) & 0xffff }

// EpochStartBlockNumber is the number of the first block of the header's epoch.
func (h *Header) EpochStartBlockNumber() uint64 {
	return uint64(h.Number) - h.EpochIndex()
}

func (h *Header) Validate() error {
	if h.Version > math.MaxUint32 || h.CompactTarget > math.MaxUint32 {
		return fmt.Errorf("header %d: version or compact_target does not fit in u32", h.Number)
	}
	if h.Nonce != nil && h.Nonce.BitLen() > 128 {
		return fmt.Errorf("header %d: nonce does not fit in u128", h.Number)
	}
	if h.EpochIndex() > h.EpochLength() || uint64(h.Number) < h.EpochIndex() {
		return fmt.Errorf("header %d: inconsistent epoch %#x", h.Number, uint64(h.Epoch))
	}
	return nil
}
