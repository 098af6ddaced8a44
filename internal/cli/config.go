package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the effective configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration values",
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if f := viper.ConfigFileUsed(); f != "" {
		fmt.Printf("config file: %s\n\n", f)
	} else {
		fmt.Print("config file: (none, defaults in effect)\n\n")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, key := range []string{
		"sources.divingfish.base_url",
		"sources.lxns.base_url",
		"sources.timeout",
		"catalog.url",
		"catalog.path",
		"catalog.expiry",
		"logging.level",
		"logging.format",
	} {
		fmt.Fprintf(w, "%s\t%v\n", key, viper.Get(key))
	}
	// Never echo the credential itself.
	secret := "(unset)"
	if viper.GetString("sources.lxns.secret") != "" {
		secret = "(set)"
	}
	fmt.Fprintf(w, "sources.lxns.secret\t%s\n", secret)
	return w.Flush()
}
