package score

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"pwmeter/internal/cli"
	"pwmeter/internal/common"
	"pwmeter/internal/config"
	"pwmeter/internal/scorer"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var flags cli.Flags = config.GetContextFlags().
	Append(config.GetScorerFlags()).
	Append(config.GetPwnedFlags()).
	Append(config.GetCacheFlags())

var Command = cli.NewCommand(cli.CommandOpts{
	Name:    "score",
	Flags:   flags,
	Use:     "score [password]",
	Aliases: []string{"s"},
	Short:   "Scores a single password",
	Long:    "Scores a single password given as an argument or read from stdin (prompted for without echo when stdin is a terminal)",
	Args:    cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, opts *cli.Command, args []string) error {
		password, err := getPassword(args, os.Stdin)
		if err != nil {
			return err
		}

		loader, closeCache, err := config.NewScorer(config.NewScorerOpts{
			ServiceLogs: opts.GetServiceLogs(),
		})
		if err != nil {
			return err
		}
		opts.AddShutdownProcess("cache", closeCache)

		name, email := config.GetContextTokens()
		result, err := loader.LoadAndScore(opts.GetContext(), password, []string{name, email})
		if err != nil {
			return fmt.Errorf("failed to score password: %w", err)
		}

		switch viper.GetString("output") {
		case common.OutputJson:
			output, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal result: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(output))
		default:
			return printResult(cmd.OutOrStdout(), result)
		}
		return nil
	},
})

// getPassword takes the password from the first argument, then from a
// terminal prompt, then from the first line of a non-terminal stdin
func getPassword(args []string, stdin *os.File) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if term.IsTerminal(int(stdin.Fd())) {
		fmt.Fprint(os.Stderr, "Password: ")
		password, err := term.ReadPassword(int(stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(password), nil
	}
	return readPassword(stdin)
}

func readPassword(reader io.Reader) (string, error) {
	line, err := bufio.NewReader(reader).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read password from stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func printResult(w io.Writer, result *scorer.Result) error {
	cli.PrintBoxedScore(w, result.Score, result.Feedback.Warning, result.Feedback.Suggestions)
	fmt.Fprintf(w, "estimated crack time: %s (%.2f bits of entropy)\n", result.CrackTimeDisplay, result.Entropy)
	if len(result.Sequence) == 0 {
		return nil
	}
	table, err := cli.RenderMatchSequence(result.Sequence)
	if err != nil {
		return fmt.Errorf("failed to render match sequence: %w", err)
	}
	fmt.Fprint(w, table)
	return nil
}
