package cli

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagsBindViper(t *testing.T) {
	command := &cobra.Command{Use: "test"}
	flags := Flags{
		{Name: "test-debounce", DefaultValue: 200 * time.Millisecond, Usage: "debounce", Type: FlagTypeDuration},
		{Name: "test-language", Short: 'L', DefaultValue: "en", Usage: "language", Type: FlagTypeString},
	}.Append(Flags{
		{Name: "test-pwned-enabled", DefaultValue: true, Usage: "pwned", Type: FlagTypeBool},
	})
	flags.AddToCommand(command)
	require.NoError(t, command.ParseFlags([]string{"-L", "de", "--test-debounce", "50ms"}))
	flags.BindViper(command)

	assert.Equal(t, "de", viper.GetString("test-language"))
	assert.Equal(t, 50*time.Millisecond, viper.GetDuration("test-debounce"))
	assert.True(t, viper.GetBool("test-pwned-enabled"))
}

func TestFlagsUnknownTypePanics(t *testing.T) {
	command := &cobra.Command{Use: "test"}
	flag := FlagData{Name: "broken", DefaultValue: "", Type: FlagType("complex")}
	assert.Panics(t, func() { flag.AddToCommand(command) })
}
