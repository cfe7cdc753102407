package types

import (
	"fmt"

	"github.com/colorfulnotion/ckbjs/codec"
	"github.com/colorfulnotion/ckbjs/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ScriptHashType tells how a script's code hash is matched against cell deps.
type ScriptHashType string

const (
	HashTypeData  ScriptHashType = "data"
	HashTypeType  ScriptHashType = "type"
	HashTypeData1 ScriptHashType = "data1"
	HashTypeData2 ScriptHashType = "data2"
)

var hashTypeBytes = map[ScriptHashType]byte{
	HashTypeData:  0,
	HashTypeType:  1,
	HashTypeData1: 2,
	HashTypeData2: 4,
}

// Byte returns the serialized form of the hash type.
func (h ScriptHashType) Byte() (byte, error) {
	b, ok := hashTypeBytes[h]
	if !ok {
		return 0, fmt.Errorf("unknown script hash_type %q", string(h))
	}
	return b, nil
}

type Script struct {
	CodeHash common.Hash    `json:"code_hash"`
	HashType ScriptHashType `json:"hash_type"`
	Args     hexutil.Bytes  `json:"args"`
}

// MarshalMolecule encodes the script as a table. Hash types are checked by
// Validate; an unknown one encodes as 0.
func (s *Script) MarshalMolecule() []byte {
	ht, _ := s.HashType.Byte()
	return codec.Table(s.CodeHash.Bytes(), []byte{ht}, codec.Bytes(s.Args))
}

// Hash is the script hash used for lock and type script groups.
func (s *Script) Hash() common.Hash {
	return common.CKBHash(s.MarshalMolecule())
}

// OccupiedBytes is the on-chain footprint of the script.
func (s *Script) OccupiedBytes() uint64 {
	return common.HashLength + 1 + uint64(len(s.Args))
}

func (s *Script) Validate() error {
	_, err := s.HashType.Byte()
	return err
}

func (s *Script) String() string {
	return fmt.Sprintf("%s/%s/%s", s.CodeHash.String_short(), s.HashType, s.Args)
}
