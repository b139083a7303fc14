package cli

import (
	"fmt"
	"strings"

	"github.com/engram-oss/engram/internal/errors"
	"github.com/spf13/cobra"
)

var (
	logMeta   []string
	logRecent int
)

var logCmd = &cobra.Command{
	Use:   "log [query] [response]",
	Short: "Append an interaction, or list recent ones",
	Long: `Append a query/response exchange to episodic memory, or with
--recent list the latest records.

Examples:
  engram log "what is the capital of France?" "Paris" --meta topic=geography
  engram log --recent 5

Interactions are append-only and timestamped at call time.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runLog,
}

func init() {
	logCmd.Flags().StringArrayVar(&logMeta, "meta", nil, "metadata as key=value (repeatable)")
	logCmd.Flags().IntVar(&logRecent, "recent", 0, "list the last n interactions instead of appending")
}

func runLog(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.Close()

	if logRecent > 0 {
		records, err := rt.Memory.Recent(logRecent)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No interactions recorded.")
			return nil
		}
		for _, rec := range records {
			fmt.Printf("[%s] user: %s\n", rec.Timestamp, rec.Query)
			fmt.Printf("%*s assistant: %s\n", len(rec.Timestamp)+2, "", rec.Response)
		}
		return nil
	}

	if len(args) != 2 {
		return fmt.Errorf("expected <query> <response> (or --recent n)")
	}

	metadata := make(map[string]any)
	for _, pair := range logMeta {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("expected key=value, got %q", pair)
		}
		metadata[key] = value
	}
	if len(metadata) == 0 {
		metadata = nil
	}

	rec, err := rt.Memory.AddInteraction(args[0], args[1], metadata)
	if err != nil {
		if errors.AsCode(err) == errors.CodePersistence {
			fmt.Printf("Logged interaction %s (warning: not persisted: %v)\n", rec.ID, err)
			return nil
		}
		return err
	}
	fmt.Printf("Logged interaction %s at %s\n", rec.ID, rec.Timestamp)
	return nil
}
