package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var recallJSON bool

var recallCmd = &cobra.Command{
	Use:   "recall <query>",
	Short: "Search all memory kinds",
	Long: `Search semantic, procedural, and episodic memory for a query.

Matching is case-insensitive substring over keys and stored content.

Examples:
  engram recall einstein
  engram recall "physics" --json`,
	Args: cobra.ExactArgs(1),
	RunE: runRecall,
}

func init() {
	recallCmd.Flags().BoolVar(&recallJSON, "json", false, "emit results as JSON")
}

func runRecall(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.Close()

	result, err := rt.Memory.Recall(args[0])
	if err != nil {
		return err
	}

	if recallJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	total := len(result.Facts) + len(result.Procedures) + len(result.Interactions)
	if total == 0 {
		fmt.Printf("No memories match %q\n", args[0])
		return nil
	}

	if len(result.Facts) > 0 {
		fmt.Println("Facts:")
		for _, f := range result.Facts {
			keys := make([]string, 0, len(f.Details))
			for k := range f.Details {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			pairs := make([]string, 0, len(keys))
			for _, k := range keys {
				pairs = append(pairs, fmt.Sprintf("%s=%v", k, f.Details[k]))
			}
			fmt.Printf("  %s: %s\n", f.Concept, strings.Join(pairs, " "))
		}
	}
	if len(result.Procedures) > 0 {
		fmt.Println("Procedures:")
		for _, p := range result.Procedures {
			fmt.Printf("  %s (%d steps)\n", p.Name, len(p.Steps))
		}
	}
	if len(result.Interactions) > 0 {
		fmt.Println("Interactions:")
		for _, rec := range result.Interactions {
			fmt.Printf("  [%s] %s\n", rec.Timestamp, rec.Query)
		}
	}
	return nil
}
