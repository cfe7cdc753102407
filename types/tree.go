package types

import (
	"fmt"

	"github.com/xlab/treeprint"
)

func (c *CellOutput) addTo(tree treeprint.Tree, label string, data []byte) {
	branch := tree.AddBranch(label)
	branch.AddNode(fmt.Sprintf("capacity: %d", uint64(c.Capacity)))
	branch.AddNode(fmt.Sprintf("lock: %s (%s)", c.Lock.String(), c.Lock.Hash().String_short()))
	if c.Type != nil {
		branch.AddNode(fmt.Sprintf("type: %s (%s)", c.Type.String(), c.Type.Hash().String_short()))
	}
	branch.AddNode(fmt.Sprintf("data: %d bytes", len(data)))
}

// ToTree renders the transaction with its resolved cells.
func (m *MockTransaction) ToTree() treeprint.Tree {
	tree := treeprint.New()
	tree.SetValue(fmt.Sprintf("tx %s", m.Tx.Hash().Hex()))

	deps := tree.AddBranch(fmt.Sprintf("cell_deps (%d)", len(m.Tx.CellDeps)))
	for i := range m.MockInfo.CellDeps {
		dep := &m.MockInfo.CellDeps[i]
		label := fmt.Sprintf("[%d] %s#%d %s", i, dep.CellDep.OutPoint.TxHash.String_short(),
			uint64(dep.CellDep.OutPoint.Index), dep.CellDep.DepType)
		dep.Output.addTo(deps, label, dep.Data)
	}

	headers := tree.AddBranch(fmt.Sprintf("header_deps (%d)", len(m.Tx.HeaderDeps)))
	for i, h := range m.Tx.HeaderDeps {
		headers.AddNode(fmt.Sprintf("[%d] %s", i, h.String_short()))
	}

	inputs := tree.AddBranch(fmt.Sprintf("inputs (%d)", len(m.Tx.Inputs)))
	for i := range m.MockInfo.Inputs {
		in := &m.MockInfo.Inputs[i]
		label := fmt.Sprintf("[%d] %s#%d since=%d", i, in.Input.PreviousOutput.TxHash.String_short(),
			uint64(in.Input.PreviousOutput.Index), uint64(in.Input.Since))
		in.Output.addTo(inputs, label, in.Data)
	}

	outputs := tree.AddBranch(fmt.Sprintf("outputs (%d)", len(m.Tx.Outputs)))
	for i := range m.Tx.Outputs {
		m.Tx.Outputs[i].addTo(outputs, fmt.Sprintf("[%d]", i), m.Tx.OutputsData[i])
	}

	witnesses := tree.AddBranch(fmt.Sprintf("witnesses (%d)", len(m.Tx.Witnesses)))
	for i, w := range m.Tx.Witnesses {
		witnesses.AddNode(fmt.Sprintf("[%d] %d bytes", i, len(w)))
	}
	return tree
}
