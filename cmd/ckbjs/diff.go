package main

import (
	"encoding/json"
	"fmt"

	"github.com/colorfulnotion/ckbjs/types"
	"github.com/nsf/jsondiff"
	"github.com/spf13/cobra"
)

// diffFixtures compares two fixtures after decoding, so formatting and
// number spelling do not count as differences.
func diffFixtures(a, b string, opts jsondiff.Options) (bool, string, error) {
	left, err := normalizedFixture(a)
	if err != nil {
		return false, "", err
	}
	right, err := normalizedFixture(b)
	if err != nil {
		return false, "", err
	}
	d, text := jsondiff.Compare(left, right, &opts)
	return d == jsondiff.FullMatch, text, nil
}

func normalizedFixture(path string) ([]byte, error) {
	mtx, err := types.ReadMockTransaction(path)
	if err != nil {
		return nil, err
	}
	return json.Marshal(mtx)
}

func newDiffCmd() *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "diff <a.json> <b.json>",
		Short: "Show how two mock transactions differ",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := jsondiff.DefaultConsoleOptions()
			if plain {
				opts = jsondiff.DefaultJSONOptions()
			}
			same, text, err := diffFixtures(args[0], args[1], opts)
			if err != nil {
				return err
			}
			if same {
				fmt.Fprintln(cmd.OutOrStdout(), "identical")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return fmt.Errorf("%s and %s differ", args[0], args[1])
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Disable colors")
	return cmd
}
