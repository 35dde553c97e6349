// Package cli wires the symseek command line: flags, configuration, index
// build, the interactive finder, and the post-confirmation navigation.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile     string
	verbose     bool
	quietFlag   bool
	rootFlag    string
	socketFlag  string
	extFlag     []string
	strictFlag  bool
	noCacheFlag bool
)

// rootCmd represents the base command. Running it starts the finder.
var rootCmd = &cobra.Command{
	Use:   "symseek",
	Short: "Interactive fuzzy finder for Rust symbols",
	Long: `Symseek scans a Rust project, indexes every declaration (functions,
types, modules, impls, ...) and lets you fuzzy-search them interactively.

Confirming a match either jumps a running Neovim instance to the
declaration (when --socket points at its RPC socket) or prints the
location to stdout.

Examples:
  # Search the current directory, print the chosen location
  symseek

  # Jump a running Neovim (started with --listen /tmp/nvim.sock)
  symseek --socket /tmp/nvim.sock

  # Search another project, abort on the first unparseable file
  symseek --root ~/src/ripgrep --strict
`,
	SilenceUsage: true,
	RunE:         runFind,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .symseek.yaml in the project root)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.Flags().StringVar(&rootFlag, "root", "", "project root to scan (default is the working directory)")
	rootCmd.Flags().StringVar(&socketFlag, "socket", "", "path to a Neovim RPC socket; navigation prints to stdout when unset")
	rootCmd.Flags().StringSliceVar(&extFlag, "ext", nil, "file extensions to index (default .rs)")
	rootCmd.Flags().BoolVar(&strictFlag, "strict", false, "abort the index build on the first unreadable or unparseable file")
	rootCmd.Flags().BoolVar(&noCacheFlag, "no-cache", false, "disable the cross-run symbol cache")
	rootCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "disable progress output")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("build.strict", rootCmd.Flags().Lookup("strict"))
}

// initConfig reads in the config file and environment variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		if rootFlag != "" {
			viper.AddConfigPath(rootFlag)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName(".symseek")
	}

	viper.SetEnvPrefix("symseek")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
