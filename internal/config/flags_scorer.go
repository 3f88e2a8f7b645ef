package config

import (
	"pwmeter/internal/cli"
	"pwmeter/internal/pipeline"
	"pwmeter/internal/pwned"
	"pwmeter/internal/scorer"
	"time"

	"github.com/spf13/viper"
)

const (
	Language  = "language"
	BundleUrl = "bundle-url"

	PwnedEnabled  = "pwned-enabled"
	PwnedUrl      = "pwned-url"
	PwnedTimeout  = "pwned-timeout"
	PwnedCacheTtl = "pwned-cache-ttl"

	Debounce = "debounce"
	LogFile  = "log-file"
)

func GetScorerFlags() cli.Flags {
	return cli.Flags{
		{
			Name:         Language,
			DefaultValue: scorer.DefaultLanguage,
			Usage:        "specifies the language of the dictionaries and feedback",
			Type:         cli.FlagTypeString,
		},
		{
			Name:         BundleUrl,
			DefaultValue: "",
			Usage:        "specifies a url to fetch scorer bundles from instead of the ones built into the binary",
			Type:         cli.FlagTypeString,
		},
	}
}

func GetPwnedFlags() cli.Flags {
	return cli.Flags{
		{
			Name:         PwnedEnabled,
			DefaultValue: true,
			Usage:        "when true, checks passwords against the breach database (only a 5-character hash prefix is sent)",
			Type:         cli.FlagTypeBool,
		},
		{
			Name:         PwnedUrl,
			DefaultValue: pwned.DefaultBaseUrl,
			Usage:        "specifies the base url of the breach range api",
			Type:         cli.FlagTypeString,
		},
		{
			Name:         PwnedTimeout,
			DefaultValue: 5 * time.Second,
			Usage:        "specifies the timeout of a single breach range request",
			Type:         cli.FlagTypeDuration,
		},
		{
			Name:         PwnedCacheTtl,
			DefaultValue: pwned.DefaultCacheTtl,
			Usage:        "specifies how long breach range responses are cached",
			Type:         cli.FlagTypeDuration,
		},
	}
}

func GetPipelineFlags() cli.Flags {
	return cli.Flags{
		{
			Name:         Debounce,
			DefaultValue: pipeline.DefaultDebounce,
			Usage:        "specifies how long typing must pause before a password is scored",
			Type:         cli.FlagTypeDuration,
		},
		{
			Name:         LogFile,
			DefaultValue: "",
			Usage:        "specifies a file to write logs to while the form is displayed (logs are discarded when empty)",
			Type:         cli.FlagTypeString,
		},
	}
}

const (
	Name  = "name"
	Email = "email"
)

// GetContextFlags defines the values passed to the scorer as context
// tokens; empty values fall back to the configuration file
func GetContextFlags() cli.Flags {
	return cli.Flags{
		{
			Name:         Name,
			Short:        'n',
			DefaultValue: "",
			Usage:        "specifies the name of the account holder, passwords containing it score lower",
			Type:         cli.FlagTypeString,
		},
		{
			Name:         Email,
			Short:        'e',
			DefaultValue: "",
			Usage:        "specifies the email of the account holder, passwords containing it score lower",
			Type:         cli.FlagTypeString,
		},
	}
}

// GetContextTokens returns the name and email from flags or the
// configuration file, in that order of precedence
func GetContextTokens() (name string, email string) {
	name = viper.GetString(Name)
	if name == "" {
		name = Global.Name
	}
	email = viper.GetString(Email)
	if email == "" {
		email = Global.Email
	}
	return name, email
}
