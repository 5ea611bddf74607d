package main

import "github.com/spf13/cobra"

// newDocsCmd is an intentionally inert sibling command, giving the CLI the
// "toolchain with unrelated siblings" shape SPEC_FULL.md §6 describes. It
// carries no logic beyond this message.
func newDocsCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "docs",
		Short:  "Generate documentation for a rule set (not implemented in this subsystem)",
		Hidden: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.Println("docs: not implemented in this subsystem")
			return nil
		},
	}
}
