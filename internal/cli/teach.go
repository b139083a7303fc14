package cli

import (
	"fmt"

	"github.com/engram-oss/engram/internal/errors"
	"github.com/spf13/cobra"
)

var (
	teachSteps   []string
	teachContext string
	teachUpdate  bool
)

var teachCmd = &cobra.Command{
	Use:   "teach <name>",
	Short: "Store a procedure as an ordered step sequence",
	Long: `Store a named procedure in procedural memory.

Examples:
  engram teach analyze_figure \
    --step "1. Research early life" \
    --step "2. Examine achievements" \
    --context "history research"

  engram teach analyze_figure --update --step "1. Start with primary sources"

A repeated name overwrites the prior procedure; --update refuses to
create a procedure that does not exist yet.`,
	Args: cobra.ExactArgs(1),
	RunE: runTeach,
}

func init() {
	teachCmd.Flags().StringArrayVar(&teachSteps, "step", nil, "procedure step, in order (repeatable)")
	teachCmd.Flags().StringVar(&teachContext, "context", "", "when the procedure applies")
	teachCmd.Flags().BoolVar(&teachUpdate, "update", false, "only replace an existing procedure")
}

func runTeach(cmd *cobra.Command, args []string) error {
	name := args[0]

	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.Close()

	if teachUpdate {
		ok, err := rt.Memory.UpdateProcedure(name, teachSteps, teachContext)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("procedure %q does not exist (drop --update to create it)", name)
		}
		fmt.Printf("Updated procedure %q (%d steps)\n", name, len(teachSteps))
		return nil
	}

	if err := rt.Memory.AddProcedure(name, teachSteps, teachContext); err != nil {
		if errors.AsCode(err) == errors.CodePersistence {
			fmt.Printf("Taught %q (warning: not persisted: %v)\n", name, err)
			return nil
		}
		return err
	}
	fmt.Printf("Taught %q (%d steps)\n", name, len(teachSteps))
	return nil
}
