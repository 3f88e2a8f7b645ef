package serve

import (
	"fmt"
	"pwmeter/internal/cli"
	"pwmeter/internal/config"
	"pwmeter/internal/scorer"
	"pwmeter/internal/server"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var flags cli.Flags = config.GetListenAddrFlags(13370).
	Append(config.GetScorerFlags()).
	Append(config.GetPwnedFlags()).
	Append(config.GetCacheFlags()).
	Append(cli.Flags{
		{
			Name:         "preload",
			DefaultValue: true,
			Usage:        "when true, loads the scorer bundles before accepting requests",
			Type:         cli.FlagTypeBool,
		},
	})

var Command = cli.NewCommand(cli.CommandOpts{
	Name:  "serve",
	Flags: flags,
	Use:   "serve",
	Short: "Serves the scorer over http",
	Long:  "Serves the scorer over http at POST /api/v1/score along with /healthz, /readyz and /metrics",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, opts *cli.Command, args []string) error {
		serviceLogs := opts.GetServiceLogs()

		logrus.Infof("initialising scorer...")
		options := scorer.NewOptions()
		loader, closeCache, err := config.NewScorer(config.NewScorerOpts{
			Options:     options,
			ServiceLogs: serviceLogs,
		})
		if err != nil {
			return err
		}
		opts.AddShutdownProcess("cache", closeCache)
		if viper.GetBool("preload") {
			if err := loader.Preload(opts.GetContext()); err != nil {
				return fmt.Errorf("failed to preload scorer: %w", err)
			}
			logrus.Infof("loaded scorer bundles for language[%s]", viper.GetString(config.Language))
		}

		logrus.Infof("initialising web application...")
		handler, err := server.GetHttpApplication(server.HttpApplicationOpts{
			Scorer: loader,
			ReadinessChecks: []func() error{
				func() error {
					if !options.IsConfigured() {
						return server.ErrorNotReady
					}
					return nil
				},
			},
			ServiceLogs: serviceLogs,
		})
		if err != nil {
			return fmt.Errorf("failed to initialise web application: %w", err)
		}
		httpServer, err := server.NewHttpServer(server.NewHttpServerOpts{
			Addr:        viper.GetString(config.ListenAddr),
			Handler:     handler,
			ServiceLogs: serviceLogs,
		})
		if err != nil {
			return fmt.Errorf("failed to create http server: %w", err)
		}
		opts.AddShutdownProcess("http", httpServer.Shutdown)
		opts.IsReady()

		logrus.Infof("starting web application on %s@%s...", viper.GetString(config.ListenAddr), opts.GetHostname())
		if err := httpServer.Start(); err != nil {
			return fmt.Errorf("failed to start http server: %w", err)
		}
		return nil
	},
})
