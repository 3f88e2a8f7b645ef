package form

import (
	"fmt"
	"pwmeter/internal/cli"
	"pwmeter/internal/config"
	"pwmeter/internal/pipeline"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var flags cli.Flags = config.GetContextFlags().
	Append(config.GetScorerFlags()).
	Append(config.GetPwnedFlags()).
	Append(config.GetCacheFlags()).
	Append(config.GetPipelineFlags())

var Command = cli.NewCommand(cli.CommandOpts{
	Name:    "form",
	Flags:   flags,
	Use:     "form",
	Aliases: []string{"f"},
	Short:   "Opens a form that scores a password as you type",
	Long:    "Opens a terminal form with name, email and password fields; the password is scored after typing pauses and tips for a stronger password are shown",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, opts *cli.Command, args []string) error {
		restoreLogs, err := cli.RedirectLogs(viper.GetString(config.LogFile))
		if err != nil {
			return err
		}
		defer restoreLogs()

		loader, closeCache, err := config.NewScorer(config.NewScorerOpts{
			ServiceLogs: opts.GetServiceLogs(),
		})
		if err != nil {
			return err
		}
		opts.AddShutdownProcess("cache", closeCache)

		store := pipeline.New(pipeline.NewOpts{
			Scorer:      loader,
			Debounce:    viper.GetDuration(config.Debounce),
			ServiceLogs: opts.GetServiceLogs(),
		})
		opts.AddShutdownProcess("pipeline", func() error {
			store.Close()
			return nil
		})
		logrus.Debugf("pipeline started with debounce[%v]", viper.GetDuration(config.Debounce))

		name, email := config.GetContextTokens()
		ctx := opts.GetContext()
		if err := cli.RunMeter(cli.MeterOpts{
			Store: store,
			Name:  name,
			Email: email,
		}, tea.WithContext(ctx)); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to display form: %w", err)
		}
		return nil
	},
})
