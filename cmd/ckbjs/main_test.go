package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/colorfulnotion/ckbjs/ckb"
	"github.com/colorfulnotion/ckbjs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	fixturePath = "../../types/testdata/mock_tx.json"
	fixtureHash = "0x13e897c7b651c71ee07574cb4d0aa955525fc8d5d5e8faafcca5d715f3f029da"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeScript(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.js")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestRunCommand(t *testing.T) {
	script := writeScript(t, `
		var witness = load_witness(8, CKB.SOURCE_GROUP_INPUT, 1);
		var beyond = load_cell_data(1, CKB.SOURCE_GROUP_INPUT, 5);
		debug("witness " + witness.byteLength);
		witness.byteLength === 3 && beyond === -CKB.INDEX_OUT_OF_BOUND ? 0 : 1;
	`)
	out, err := execute(t, "run", script, "--tx", fixturePath, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "exit code 0")

	failing := writeScript(t, `3`)
	_, err = execute(t, "run", failing, "--tx", fixturePath, "--log-level", "error")
	assert.ErrorContains(t, err, "exited with 3")
}

func TestRunTypeGroup(t *testing.T) {
	script := writeScript(t, `
		var out = load_cell(0, CKB.SOURCE_GROUP_OUTPUT, 0);
		var none = load_cell(0, CKB.SOURCE_GROUP_OUTPUT, 1);
		out.byteLength === 0 && none === -1 ? 0 : 1;
	`)
	out, err := execute(t, "run", script, "--tx", fixturePath, "--group", "type", "--index", "1", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "exit code 0")
}

func TestImportAndInspect(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	out, err := execute(t, "import", "--store", dir, fixturePath, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, fixtureHash)

	out, err = execute(t, "inspect", "--store", dir, "--log-level", "error")
	require.NoError(t, err)
	assert.Equal(t, fixtureHash+"\n", out)

	out, err = execute(t, "inspect", "--store", dir, "--hash", fixtureHash, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "inputs (3)")
	assert.Contains(t, out, "witnesses (3)")
}

func TestTxSourceErrors(t *testing.T) {
	_, err := (&txSource{}).load()
	assert.Error(t, err)
	_, err = (&txSource{txPath: "a", storePath: "b"}).load()
	assert.Error(t, err)
	_, err = (&txSource{storePath: t.TempDir(), hash: "0x12"}).load()
	assert.ErrorContains(t, err, "invalid hash")

	mtx, err := types.ReadMockTransaction(fixturePath)
	require.NoError(t, err)
	_, err = (&txSource{group: "code"}).resolveGroup(mtx)
	assert.Error(t, err)
	_, err = (&txSource{group: "type", side: "dep"}).resolveGroup(mtx)
	assert.Error(t, err)

	g, err := (&txSource{group: "TYPE", side: "output", index: 0}).resolveGroup(mtx)
	require.NoError(t, err)
	assert.Equal(t, ckb.TypeGroup, g.GroupType)
	assert.Equal(t, []uint64{1}, g.InputIndices)
}

func TestDiffCommand(t *testing.T) {
	out, err := execute(t, "diff", fixturePath, fixturePath, "--plain", "--log-level", "error")
	require.NoError(t, err)
	assert.Equal(t, "identical\n", out)

	mtx, err := types.ReadMockTransaction(fixturePath)
	require.NoError(t, err)
	mtx.Tx.Witnesses[0] = []byte{0x56}
	changed := filepath.Join(t.TempDir(), "changed.json")
	require.NoError(t, os.WriteFile(changed, []byte(mtx.String()), 0o644))

	out, err = execute(t, "diff", fixturePath, changed, "--plain", "--log-level", "error")
	assert.ErrorContains(t, err, "differ")
	assert.Contains(t, out, "0x56")
}
