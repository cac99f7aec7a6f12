// Command armature compiles robot description programs into kinematic trees.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "armature",
	Short: "Robot description compiler",
	Long: `Armature evaluates robot description programs and compiles them into
kinematic trees with sensors, contact points, force sensors, and loop closures
resolved.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default .armature.toml)")
	flags.BoolP("verbose", "v", false, "verbose output")
	flags.Bool("damping", true, "propagate joint damping and stiction")
	flags.Bool("limits", true, "propagate velocity limits")
	flags.StringP("format", "f", "toml", "report format (toml or json)")

	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("enable_damping", flags.Lookup("damping"))
	_ = viper.BindPFlag("enable_limits", flags.Lookup("limits"))
	_ = viper.BindPFlag("format", flags.Lookup("format"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".armature")
		viper.SetConfigType("toml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("ARMATURE")
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}
