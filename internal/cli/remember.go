package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/engram-oss/engram/internal/errors"
	"github.com/spf13/cobra"
)

var rememberJSON string

var rememberCmd = &cobra.Command{
	Use:   "remember <concept> [attr=value ...]",
	Short: "Store a semantic fact",
	Long: `Store attributes for a concept in semantic memory.

Examples:
  engram remember einstein birth=1879 field=physics
  engram remember napoleon --json '{"birth": "1769", "battles": ["Austerlitz", "Waterloo"]}'

A repeated concept overwrites the prior fact.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRemember,
}

func init() {
	rememberCmd.Flags().StringVar(&rememberJSON, "json", "", "fact attributes as a JSON document")
}

func runRemember(cmd *cobra.Command, args []string) error {
	concept := args[0]

	details := make(map[string]any)
	if rememberJSON != "" {
		if err := json.Unmarshal([]byte(rememberJSON), &details); err != nil {
			return fmt.Errorf("invalid --json document: %w", err)
		}
	}
	for _, pair := range args[1:] {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("expected attr=value, got %q", pair)
		}
		details[key] = value
	}
	if len(details) == 0 {
		return fmt.Errorf("no attributes given (use attr=value pairs or --json)")
	}

	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.Memory.AddFact(concept, details); err != nil {
		if errors.AsCode(err) == errors.CodePersistence {
			// Stored in memory; durability is best-effort.
			fmt.Printf("Remembered %q (warning: not persisted: %v)\n", concept, err)
			return nil
		}
		return err
	}
	fmt.Printf("Remembered %q (%d attributes)\n", concept, len(details))
	return nil
}
