package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	port       string
	configPath string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "icebreaker",
		Short:        "Team icebreaker service: profiles, gallery and the who-wrote-this quiz",
		SilenceUsage: true,
	}

	fs := cmd.PersistentFlags()
	fs.StringVar(&port, "port", "", "port to listen on (env: ICEBREAKER_PORT)")
	fs.StringVar(&configPath, "config", "config/config.yaml", "path to YAML config (env: ICEBREAKER_CONFIG)")
	bindEnv(fs)

	cmd.AddCommand(NewStartCmd(&configPath, &port))
	cmd.AddCommand(NewMigrateCmd(&configPath))
	cmd.AddCommand(NewSeedCmd(&configPath))
	return cmd
}

// bindEnv lets ICEBREAKER_* environment variables fill flags that were not set on the command line.
func bindEnv(fs *pflag.FlagSet) {
	v := viper.New()
	v.SetEnvPrefix("ICEBREAKER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}
