package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brettbedarf/memtree/internal/validate"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <path>...",
		Short: "Check paths against the name and path grammar",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rules := validate.NewRules(opts.cfg)
			out := cmd.OutOrStdout()

			invalid := 0
			for _, p := range args {
				switch err := checkPath(rules, p); err {
				case nil:
					fmt.Fprintf(out, "ok\t%q\n", p)
				default:
					invalid++
					fmt.Fprintf(out, "invalid\t%q\t%v\n", p, err)
				}
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d path(s) invalid", invalid, len(args))
			}
			return nil
		},
	}
}

// checkPath applies the same checks, in the same order, as tree mutations
func checkPath(rules validate.Rules, p string) error {
	if !rules.IsValidName(p) {
		return validate.ErrInvalidName
	}
	return rules.ValidatePath(p)
}
