// Package cli implements the maiscore command line interface.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"maiscore/internal/catalog"
	"maiscore/internal/core"
	"maiscore/internal/source"
	"maiscore/pkg/logger"
	"maiscore/pkg/models"
)

var rootCmd = &cobra.Command{
	Use:   "maiscore",
	Short: "Music-rhythm-game score aggregator",
	Long:  "Aggregate best-50 scores from DivingFish and Lxns, normalized into one rating model",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.maiscore.yaml)")
	rootCmd.PersistentFlags().String("source", "divingfish", "score source: divingfish or lxns")
}

// initConfig loads CLI configuration via viper
func initConfig() {
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".maiscore")
		viper.SetConfigType("yaml")
	}

	viper.SetDefault("catalog.path", "static/song_list.json")
	viper.SetDefault("catalog.expiry", "24h")
	viper.SetDefault("sources.timeout", "30s")

	viper.SetEnvPrefix("maiscore")
	viper.AutomaticEnv()
	_ = viper.BindEnv("sources.lxns.secret", "LXNS_API_SECRET")

	// Missing config file is fine; defaults and env cover it.
	_ = viper.ReadInConfig()

	logger.Init(logger.Config{
		Level:  viper.GetString("logging.level"),
		Format: viper.GetString("logging.format"),
		Output: "stderr",
	})
}

// newAggregator wires the catalog cache and source factory from viper config
func newAggregator() core.AggregatorService {
	opts := []catalog.Option{}
	if u := viper.GetString("catalog.url"); u != "" {
		opts = append(opts, catalog.WithURL(u))
	}
	if d := viper.GetDuration("catalog.expiry"); d > 0 {
		opts = append(opts, catalog.WithExpiry(d))
	}
	cat := catalog.New(viper.GetString("catalog.path"), opts...)

	srcCfg := source.Config{
		DivingFishBaseURL: viper.GetString("sources.divingfish.base_url"),
		DivingFishTimeout: viper.GetDuration("sources.timeout"),
		LxnsBaseURL:       viper.GetString("sources.lxns.base_url"),
		LxnsSecret:        viper.GetString("sources.lxns.secret"),
		LxnsTimeout:       viper.GetDuration("sources.timeout"),
	}
	factory := func(kind models.SourceKind, ref string) (source.Source, error) {
		return source.New(kind, ref, srcCfg)
	}

	return core.NewAggregatorService(cat, factory)
}

// sourceKindFlag resolves the --source flag
func sourceKindFlag(cmd *cobra.Command) (models.SourceKind, error) {
	name, _ := cmd.Flags().GetString("source")
	kind, ok := models.ParseSourceKind(name)
	if !ok {
		return 0, fmt.Errorf("unknown source %q (use divingfish or lxns)", name)
	}
	return kind, nil
}

// commandTimeout bounds one CLI invocation against the upstreams
const commandTimeout = 90 * time.Second
