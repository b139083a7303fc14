package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var contextMaxChars int

var contextCmd = &cobra.Command{
	Use:   "context <query>",
	Short: "Build a bounded memory context block for a query",
	Long: `Assemble relevant facts, procedures, and interactions into a text
block suitable for inclusion in an assistant prompt.

The output is bounded by the configured character budget and is
deterministic for the same stored state and query.

Examples:
  engram context "tell me about einstein"
  engram context "einstein" --max-chars 500`,
	Args: cobra.ExactArgs(1),
	RunE: runContext,
}

func init() {
	contextCmd.Flags().IntVar(&contextMaxChars, "max-chars", 0, "override the context character budget")
}

func runContext(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.Close()

	if contextMaxChars > 0 {
		rt.Config.Context.MaxChars = contextMaxChars
		// Rebuild with the override; setup already validated the rest.
		if err := rt.reopenMemory(); err != nil {
			return err
		}
	}

	out, err := rt.Memory.GenerateContext(args[0])
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
