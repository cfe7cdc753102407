package types

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/colorfulnotion/ckbjs/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// MockInput is a transaction input together with the cell it spends.
type MockInput struct {
	Input  CellInput     `json:"input"`
	Output CellOutput    `json:"output"`
	Data   hexutil.Bytes `json:"data"`
	Header *common.Hash  `json:"header,omitempty"`
}

// MockCellDep is a cell dep together with the cell it references.
type MockCellDep struct {
	CellDep CellDep       `json:"cell_dep"`
	Output  CellOutput    `json:"output"`
	Data    hexutil.Bytes `json:"data"`
	Header  *common.Hash  `json:"header,omitempty"`
}

type MockInfo struct {
	Inputs     []MockInput   `json:"inputs"`
	CellDeps   []MockCellDep `json:"cell_deps"`
	HeaderDeps []Header      `json:"header_deps"`
}

// MockTransaction is a transaction with every cell and header it refers to
// resolved, in the layout used by ckb-debugger mock files.
type MockTransaction struct {
	MockInfo MockInfo    `json:"mock_info"`
	Tx       Transaction `json:"tx"`
}

// ReadMockTransaction loads and validates a JSON fixture from path.
func ReadMockTransaction(path string) (*MockTransaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	mtx, err := DecodeMockTransaction(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mtx, nil
}

// DecodeMockTransaction reads a JSON fixture from r and validates it.
func DecodeMockTransaction(r io.Reader) (*MockTransaction, error) {
	var mtx MockTransaction
	dec := json.NewDecoder(r)
	if err := dec.Decode(&mtx); err != nil {
		return nil, fmt.Errorf("decode mock transaction: %w", err)
	}
	if err := mtx.Validate(); err != nil {
		return nil, err
	}
	return &mtx, nil
}

// FindHeader returns the header dep with the given hash.
func (m *MockTransaction) FindHeader(hash common.Hash) (*Header, bool) {
	for i := range m.MockInfo.HeaderDeps {
		if m.MockInfo.HeaderDeps[i].Hash() == hash {
			return &m.MockInfo.HeaderDeps[i], true
		}
	}
	return nil, false
}

func (m *MockTransaction) Validate() error {
	if err := m.Tx.Validate(); err != nil {
		return fmt.Errorf("tx: %w", err)
	}
	if len(m.MockInfo.Inputs) != len(m.Tx.Inputs) {
		return fmt.Errorf("%d tx inputs but %d resolved inputs", len(m.Tx.Inputs), len(m.MockInfo.Inputs))
	}
	if len(m.MockInfo.CellDeps) != len(m.Tx.CellDeps) {
		return fmt.Errorf("%d tx cell_deps but %d resolved cell_deps", len(m.Tx.CellDeps), len(m.MockInfo.CellDeps))
	}
	for i := range m.MockInfo.HeaderDeps {
		if err := m.MockInfo.HeaderDeps[i].Validate(); err != nil {
			return fmt.Errorf("header_deps[%d]: %w", i, err)
		}
	}
	for i := range m.MockInfo.Inputs {
		in := &m.MockInfo.Inputs[i]
		if err := in.Output.validate(); err != nil {
			return fmt.Errorf("mock input %d: %w", i, err)
		}
		if err := m.checkHeader(in.Header); err != nil {
			return fmt.Errorf("mock input %d: %w", i, err)
		}
	}
	for i := range m.MockInfo.CellDeps {
		dep := &m.MockInfo.CellDeps[i]
		if err := dep.Output.validate(); err != nil {
			return fmt.Errorf("mock cell_dep %d: %w", i, err)
		}
		if err := m.checkHeader(dep.Header); err != nil {
			return fmt.Errorf("mock cell_dep %d: %w", i, err)
		}
	}
	for i, h := range m.Tx.HeaderDeps {
		if _, ok := m.FindHeader(h); !ok {
			return fmt.Errorf("tx header_deps[%d] %s not found in mock_info", i, h.String_short())
		}
	}
	return nil
}

func (m *MockTransaction) checkHeader(h *common.Hash) error {
	if h == nil {
		return nil
	}
	if _, ok := m.FindHeader(*h); !ok {
		return fmt.Errorf("header %s not found in mock_info", h.String_short())
	}
	return nil
}

// String method returns the MockTransaction as a formatted JSON string
func (m *MockTransaction) String() string {
	jsonData, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error marshaling JSON: %v", err)
	}
	return string(jsonData)
}
