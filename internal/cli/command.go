package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"pwmeter/internal/common"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
)

type CommandOpts struct {
	Name  string
	Flags Flags

	Use     string
	Aliases []string
	Short   string
	Long    string
	Args    cobra.PositionalArgs

	Run func(cmd *cobra.Command, opts *Command, args []string) error
}

// NewCommand initialises and returns a data structure that contains
// a set of common constructs and information for all commands to use
func NewCommand(opts CommandOpts) *Command {
	output := &Command{
		name:              opts.Name,
		shutdownProcesses: map[string]func() error{},
	}
	serviceLogs := make(chan common.ServiceLog, 64)
	common.StartServiceLogLoop(serviceLogs)
	output.serviceLogs = serviceLogs

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown_hostname"
	}
	output.hostname = hostname

	output.Command = &cobra.Command{
		Use:     opts.Use,
		Aliases: opts.Aliases,
		Short:   opts.Short,
		Long:    opts.Long,
		Args:    opts.Args,
		PreRun: func(cmd *cobra.Command, args []string) {
			opts.Flags.BindViper(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			output.ctx = ctx
			err := opts.Run(cmd, output, args)
			output.Shutdown()
			return errors.Join(err, output.Error())
		},
	}
	opts.Flags.AddToCommand(output.Command)

	return output
}

// Command is an abstraction for all of pwmeter's commands
type Command struct {
	ctx               context.Context
	errs              []error
	hostname          string
	name              string
	serviceLogs       chan common.ServiceLog
	shutdownOnce      sync.Once
	shutdownProcesses map[string]func() error
	shutdownMutex     sync.Mutex

	*cobra.Command
}

// AddShutdownProcess adds a `process` named `id` for use when the
// Shutdown() method is called
func (cd *Command) AddShutdownProcess(id string, process func() error) {
	cd.shutdownMutex.Lock()
	defer cd.shutdownMutex.Unlock()
	if _, ok := cd.shutdownProcesses[id]; ok {
		cd.serviceLogs <- common.ServiceLogf(common.LogLevelWarn, "process[%s] was overwritten", id)
	}
	cd.shutdownProcesses[id] = process
}

// Error returns the errors of any failed shutdown process
func (cd *Command) Error() error {
	return errors.Join(cd.errs...)
}

// GetContext returns a context that is cancelled when the process
// receives SIGINT or SIGTERM
func (cd *Command) GetContext() context.Context {
	if cd.ctx == nil {
		return context.Background()
	}
	return cd.ctx
}

// GetFullname returns the full namespaced ID of the current command
func (cd *Command) GetFullname() string {
	return strings.ToLower(common.AppName + "." + cd.name)
}

// GetHostname returns the current hostname of the machine
func (cd *Command) GetHostname() string {
	return cd.hostname
}

// GetServiceLogs returns an instance of the service logs channel
// that other components can use for logging to a central logging
// system
func (cd *Command) GetServiceLogs() chan common.ServiceLog {
	return cd.serviceLogs
}

// IsReady tells the command to run its shutdown processes as soon as
// a termination signal arrives instead of waiting for Run to return;
// use it when Run blocks on something a shutdown process unblocks
func (cd *Command) IsReady() {
	ctx := cd.GetContext()
	go func() {
		<-ctx.Done()
		cd.Shutdown()
	}()
}

// Shutdown gracefully terminates any processes in the command, for this
// to be effective, use the AddShutdownProcess method to add functions
// that close things like cache connections or servers. Only the first
// call has any effect
func (cd *Command) Shutdown() {
	cd.shutdownOnce.Do(func() {
		cd.shutdownMutex.Lock()
		processes := make(map[string]func() error, len(cd.shutdownProcesses))
		for id, process := range cd.shutdownProcesses {
			processes[id] = process
		}
		cd.shutdownMutex.Unlock()

		var waiter sync.WaitGroup
		cd.serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "triggering shutdownProcesses (%v registered)", len(processes))
		succeededCount := 0
		failedCount := 0
		var countMutex sync.Mutex
		for id, shutdownProcess := range processes {
			shutdownProcess := shutdownProcess
			waiter.Add(1)
			go func(processId string) {
				defer waiter.Done()
				cd.serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "triggering shutdownProcess[%s]", processId)
				if err := shutdownProcess(); err != nil {
					cd.serviceLogs <- common.ServiceLogf(common.LogLevelError, "shutdownProcess[%s] failed: %s", processId, err.Error())
					countMutex.Lock()
					failedCount++
					cd.errs = append(cd.errs, err)
					countMutex.Unlock()
					return
				}
				countMutex.Lock()
				succeededCount++
				countMutex.Unlock()
				cd.serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "shutdownProcess[%s] succeeded", processId)
			}(id)
		}
		waiter.Wait()
		cd.serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "completed shutdownProcesses (%v successful, %v errored out)", succeededCount, failedCount)
	})
}
