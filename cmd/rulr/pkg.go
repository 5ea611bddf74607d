package main

import "github.com/spf13/cobra"

// newPkgCmd is an intentionally inert sibling command, giving the CLI the
// "toolchain with unrelated siblings" shape SPEC_FULL.md §6 describes. It
// carries no logic beyond this message.
func newPkgCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "pkg",
		Short:  "Manage rule-set packages (not implemented in this subsystem)",
		Hidden: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.Println("pkg: not implemented in this subsystem")
			return nil
		},
	}
}
