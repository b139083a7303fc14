package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/engram-oss/engram/internal/memory"
	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show memory counts and storage details",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "emit status as JSON")
}

func runStatus(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.Close()

	counts, err := rt.Memory.Counts()
	if err != nil {
		return err
	}

	if statusJSON {
		out := map[string]any{
			"user":   rt.Config.User,
			"driver": rt.Config.Storage.Driver,
			"path":   rt.Memory.StorePath(),
			"counts": counts,
		}
		if rt.Metrics != nil {
			out["metrics"] = rt.Metrics.Snapshot()
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Printf("User:    %s\n", rt.Config.User)
	if rt.Config.Storage.Enabled {
		fmt.Printf("Driver:  %s\n", rt.Config.Storage.Driver)
		if path := rt.Memory.StorePath(); path != "" {
			fmt.Printf("Store:   %s\n", path)
		}
	} else {
		fmt.Println("Driver:  memory (persistence disabled)")
	}
	fmt.Println("\nMemories:")
	for _, kind := range []string{memory.NamespaceSemantic, memory.NamespaceEpisodic, memory.NamespaceProcedural} {
		fmt.Printf("  %-11s %d\n", kind, counts[kind])
	}
	return nil
}
