package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/engram-oss/engram/internal/config"
	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Scaffold an engram.yaml in the current directory",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing engram.yaml")
}

func runInit(cmd *cobra.Command, args []string) error {
	name := "engram-project"
	if len(args) > 0 {
		name = args[0]
	}

	path := config.ConfigFileName
	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	content := fmt.Sprintf(config.InitTemplate, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	abs, _ := filepath.Abs(path)
	fmt.Println("Created", abs)
	fmt.Println("\nNext steps:")
	fmt.Println("  engram remember einstein birth=1879    # store a fact")
	fmt.Println("  engram teach greet --step wave         # store a procedure")
	fmt.Println("  engram context \"einstein\"              # build prompt context")
	return nil
}
