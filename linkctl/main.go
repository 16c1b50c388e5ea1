// Command linkctl mints ids, inspects them and manages users and short
// links from the command line.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/d3ce1t/turtlelink/config"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {

	rootCmd := &cobra.Command{
		Use:           "linkctl",
		Short:         "Turtlelink id generator and link shortener",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "YAML configuration file")
	rootCmd.PersistentFlags().Int64("worker", 0, "Worker ID, overrides configuration")
	rootCmd.PersistentFlags().Int64("datacenter", 0, "Datacenter ID, overrides configuration")

	rootCmd.AddCommand(
		newNextCommand(),
		newEncodeCommand(),
		newDecodeCommand(),
		newInspectCommand(),
		newSchemaCommand(),
		newUserCommand(),
		newShortenCommand(),
		newResolveCommand(),
		newLinksCommand(),
		newDeleteCommand(),
		newMetricsCommand(),
	)

	return rootCmd
}

// loadConfig reads --config if given, then applies the environment overlay
// and the identity flags, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {

	var cfg *config.Config

	file, _ := cmd.Flags().GetString("config")
	if file != "" {
		loaded, err := config.LoadFromFile(file)
		if err != nil {
			return nil, fmt.Errorf("load config %v: %w", file, err)
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}

	config.FromEnv(cfg)

	workerID, datacenterID := cfg.WorkerID(), cfg.DatacenterID()
	if cmd.Flags().Changed("worker") {
		workerID, _ = cmd.Flags().GetInt64("worker")
	}
	if cmd.Flags().Changed("datacenter") {
		datacenterID, _ = cmd.Flags().GetInt64("datacenter")
	}
	cfg.SetIdentity(workerID, datacenterID)

	if !cfg.Store().Valid() {
		return nil, fmt.Errorf("unknown store %q", cfg.Store())
	}

	log.Printf("Config: store %v, worker %v, datacenter %v\n", cfg.Store(), cfg.WorkerID(), cfg.DatacenterID())

	return cfg, nil
}
