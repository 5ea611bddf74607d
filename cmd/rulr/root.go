package main

import (
	"context"
	"fmt"

	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"

	"github.com/ritamzico/rulr"
	"github.com/ritamzico/rulr/internal/runtime"
)

// NewRootCmd builds the rulr command tree (spec §6's CLI surface, not part
// of the core engine contract). Flags are bound through koanf/posflag
// rather than read directly off the cobra flag set, so a future config
// file provider can be layered in without touching runRoot.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "rulr",
		Short:         "rulr is an embeddable Datalog engine",
		Long:          `rulr loads a rule set, evaluates it to a fixpoint, and prints every tuple of the "error" relation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRoot,
	}

	cmd.Flags().String("rules", "", "rule set name to load (tries NAME.dlc, falls back to NAME.dl)")
	cmd.Flags().String("facts", "", "optional fact file to load as source text")

	cmd.AddCommand(newPkgCmd())
	cmd.AddCommand(newDocsCmd())

	return cmd
}

func runRoot(cmd *cobra.Command, _ []string) error {
	k := koanf.New(".")
	if err := k.Load(posflag.Provider(cmd.Flags(), ".", k), nil); err != nil {
		return fmt.Errorf("loading flags: %w", err)
	}

	rulesName := k.String("rules")
	if rulesName == "" {
		return fmt.Errorf("--rules is required")
	}

	r, err := rulr.Load(rulesName)
	if err != nil {
		return fmt.Errorf("loading rules %q: %w", rulesName, err)
	}

	if factsPath := k.String("facts"); factsPath != "" {
		if err := r.LoadFacts(factsPath); err != nil {
			return fmt.Errorf("loading facts %q: %w", factsPath, err)
		}
	}

	if err := r.Evaluate(context.Background()); err != nil {
		return fmt.Errorf("evaluating: %w", err)
	}

	id, ok := r.GetPredicateID("error")
	if !ok {
		return nil
	}
	view, _ := r.GetRelationView(id)
	for _, tup := range view.Tuples {
		cmd.Println(formatTuple(r, tup))
	}
	return nil
}

// formatTuple renders one tuple's values space-separated, resolving symbol
// values back to their source names through the engine's interner (spec
// §6: "using the default interner's name table to render symbols").
func formatTuple(r *rulr.Rulr, tup runtime.Tuple) string {
	out := ""
	for i, v := range tup {
		if i > 0 {
			out += " "
		}
		if v.Kind == runtime.SymbolKind {
			if name, ok := r.ResolveSymbol(v.Sym); ok {
				out += name
				continue
			}
		}
		out += v.String()
	}
	return out
}
