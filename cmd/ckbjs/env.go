package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/colorfulnotion/ckbjs/ckb"
	"github.com/colorfulnotion/ckbjs/common"
	"github.com/colorfulnotion/ckbjs/txstore"
	"github.com/colorfulnotion/ckbjs/types"
)

// txSource says where a mock transaction comes from and which script group
// of it runs.
type txSource struct {
	txPath    string
	storePath string
	hash      string
	group     string
	side      string
	index     int
}

func (s *txSource) load() (*types.MockTransaction, error) {
	switch {
	case s.txPath != "" && s.storePath != "":
		return nil, errors.New("use either --tx or --store, not both")
	case s.txPath != "":
		return types.ReadMockTransaction(s.txPath)
	case s.storePath != "":
		if s.hash == "" {
			return nil, errors.New("--store needs --hash")
		}
		h, err := common.ParseHash(s.hash)
		if err != nil {
			return nil, err
		}
		store, err := txstore.Open(s.storePath)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.Get(h)
	default:
		return nil, errors.New("no transaction: pass --tx or --store with --hash")
	}
}

func (s *txSource) resolveGroup(mtx *types.MockTransaction) (*ckb.ScriptGroup, error) {
	switch ckb.ScriptGroupType(strings.ToLower(s.group)) {
	case ckb.LockGroup:
		return ckb.ResolveLockGroup(mtx, s.index)
	case ckb.TypeGroup:
		src := ckb.SourceInput
		switch strings.ToLower(s.side) {
		case "input":
		case "output":
			src = ckb.SourceOutput
		default:
			return nil, fmt.Errorf("--side must be input or output, got %q", s.side)
		}
		return ckb.ResolveTypeGroup(mtx, src, s.index)
	default:
		return nil, fmt.Errorf("--group must be lock or type, got %q", s.group)
	}
}

func (s *txSource) env() (*ckb.MockEnv, *types.MockTransaction, error) {
	mtx, err := s.load()
	if err != nil {
		return nil, nil, err
	}
	group, err := s.resolveGroup(mtx)
	if err != nil {
		return nil, nil, err
	}
	return ckb.NewMockEnv(mtx, group), mtx, nil
}
