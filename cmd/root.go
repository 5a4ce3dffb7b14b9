package cmd

import (
	"fmt"
	"os"

	"github.com/apache/activemq-openwire-sub001/cmd/codec"
	"github.com/apache/activemq-openwire-sub001/cmd/perf"
	"github.com/apache/activemq-openwire-sub001/cmd/schema"
	"github.com/apache/activemq-openwire-sub001/cmd/util"
	"github.com/apache/activemq-openwire-sub001/lib/openwire"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "owire",
		Short: "OpenWire marshaling toolkit",
		Long: fmt.Sprintf(`owire (v%s)

Encode, decode and inspect OpenWire frames, check schema documents
against the built in command catalogue and measure codec throughput.`, Version),
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: dumpMetrics,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of owire",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("owire v%s (OpenWire %d..%d)\n", Version, openwire.MinVersion, openwire.MaxVersion)
		},
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(codec.EncodeCmd)
	RootCmd.AddCommand(codec.DecodeCmd)
	RootCmd.AddCommand(codec.TypesCmd)
	RootCmd.AddCommand(schema.SchemaCommands)
	RootCmd.AddCommand(perf.PerfCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	util.SetupFormatFlags(RootCmd)
	key := "metrics"
	RootCmd.PersistentFlags().Bool(key, false, util.WrapString("Print the codec metrics in Prometheus text format after the command"))
}

// setup binds the flags of the invoked command and configures logging
func setup(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}
	return util.InitLogging()
}

func dumpMetrics(_ *cobra.Command, _ []string) {
	if viper.GetBool("metrics") {
		fmt.Fprintln(os.Stderr)
		openwire.WritePrometheus(os.Stderr)
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
