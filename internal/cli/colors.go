package cli

type AnsiColor string

// ref https://hexdocs.pm/color_palette/ansi_color_codes.html
const (
	AnsiWhite     AnsiColor = "7"
	AnsiLightGray AnsiColor = "247"

	AnsiRed    AnsiColor = "9"
	AnsiOrange AnsiColor = "166"
	AnsiYellow AnsiColor = "3"
	AnsiGreen  AnsiColor = "2"
	AnsiBlue   AnsiColor = "33"
)
