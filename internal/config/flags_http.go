package config

import (
	"fmt"
	"pwmeter/internal/cli"
)

const ListenAddr = "listen-addr"

func GetListenAddrFlags(port int) cli.Flags {
	return cli.Flags{
		{
			Name:         ListenAddr,
			DefaultValue: fmt.Sprintf("0.0.0.0:%v", port),
			Usage:        "specifies the listen address of the server",
			Type:         cli.FlagTypeString,
		},
	}
}
