package pwmeter

import (
	"fmt"
	"os"
	"pwmeter/cmd/pwmeter/form"
	"pwmeter/cmd/pwmeter/score"
	"pwmeter/cmd/pwmeter/serve"
	"pwmeter/internal/cli"
	"pwmeter/internal/common"
	"pwmeter/internal/config"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var availableLogLevels = []string{
	string(common.LogLevelTrace),
	string(common.LogLevelDebug),
	string(common.LogLevelInfo),
	string(common.LogLevelWarn),
	string(common.LogLevelError),
}

var persistentFlags cli.Flags = cli.Flags{
	{
		Name:         "config",
		Short:        'C',
		DefaultValue: "~/.pwmeter/config",
		Usage:        "Defines the location of the global configuration used",
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "log-level",
		Short:        'l',
		DefaultValue: "info",
		Usage:        fmt.Sprintf("Sets the log level (one of [%s])", strings.Join(availableLogLevels, ", ")),
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "output",
		Short:        'o',
		DefaultValue: common.OutputText,
		Usage:        fmt.Sprintf("Sets the output format where applicable (one of [%s])", strings.Join(common.Outputs, ", ")),
		Type:         cli.FlagTypeString,
	},
}

var flags cli.Flags = cli.Flags{
	{
		Name:         "docs",
		DefaultValue: false,
		Usage:        "When this flag is specified, generates Markdown documentation for the CLI application",
		Type:         cli.FlagTypeBool,
	},
	{
		Name:         "docs-path",
		DefaultValue: "./docs/cli",
		Usage:        "Specifies the location to generate documentation in",
		Type:         cli.FlagTypeString,
	},
}

func init() {
	Command.AddCommand(form.Command.Command)
	Command.AddCommand(score.Command.Command)
	Command.AddCommand(serve.Command.Command)
	Command.SilenceErrors = true
	Command.SilenceUsage = true

	persistentFlags.AddToCommand(Command, true)
	flags.AddToCommand(Command)

	logrus.SetOutput(os.Stderr)
	cobra.OnInitialize(func() {
		persistentFlags.BindViper(Command, true)
		flags.BindViper(Command)
		cli.InitLogging(viper.GetString("log-level"))
		configPath := viper.GetString("config")
		if err := config.LoadGlobal(configPath); err != nil {
			logrus.Warnf("failed to load configuration at path[%s], defaults will be used: %s", configPath, err)
		}
	})

	cli.InitConfig()
}

var Command = &cobra.Command{
	Use:     common.AppName,
	Short:   "Estimates password strength as you type",
	Version: config.GetVersion(),
	Long:    "Estimates password strength as you type, with tips for a stronger password and an optional check against breached passwords",
	RunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetBool("docs") {
			return cli.GenerateDocs(cmd, viper.GetString("docs-path"))
		}
		return cmd.Help()
	},
}
