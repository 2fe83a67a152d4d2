package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nfrund/relay/internal/catalog"
	// Importing status registers its dispatch keys with the default catalog.
	_ "github.com/nfrund/relay/internal/status"
)

var (
	keysOutputFormat string
	keysModuleFilter string
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List all registered dispatch keys",
	Long: `List the dispatch keys registered in the key catalog.
This helps developers discover which keys are available to subscribe to.

Examples:
  relay keys                    # List all keys in table format
  relay keys --format json      # List all keys in JSON format
  relay keys --module status    # Show only keys owned by the status module`,
	RunE: keysListHandler,
}

var keysGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Show details about a specific dispatch key",
	Args:  cobra.ExactArgs(1),
	RunE:  keysGetHandler,
}

func keysListHandler(cmd *cobra.Command, args []string) error {
	c := catalog.Default()

	var infos []catalog.KeyInfo
	if keysModuleFilter != "" {
		infos = c.ListByModule(keysModuleFilter)
	} else {
		infos = c.List()
	}

	switch keysOutputFormat {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	case "table":
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tMODULE\tDESCRIPTION")
		fmt.Fprintln(w, "----\t------\t-----------")
		for _, info := range infos {
			fmt.Fprintf(w, "%s\t%s\t%s\n", info.Name, info.Module, info.Description)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown output format: %s", keysOutputFormat)
	}
}

func keysGetHandler(cmd *cobra.Command, args []string) error {
	info, err := catalog.Default().Lookup(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Name:        %s\n", info.Name)
	fmt.Fprintf(out, "Module:      %s\n", info.Module)
	fmt.Fprintf(out, "Description: %s\n", info.Description)
	if info.Example != "" {
		fmt.Fprintf(out, "Example:     %s\n", info.Example)
	}
	return nil
}

func init() {
	keysCmd.Flags().StringVar(&keysOutputFormat, "format", "table", "Output format (table or json)")
	keysCmd.Flags().StringVar(&keysModuleFilter, "module", "", "Filter keys by owning module")

	keysCmd.AddCommand(keysGetCmd)
	rootCmd.AddCommand(keysCmd)
}
