package cli

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// GenerateDocs writes one markdown page per command under `root` into
// `docsPath` along with a `_sidebar.md` that nests subcommands
func GenerateDocs(root *cobra.Command, docsPath string) error {
	logrus.Infof("generating documentation at path[%s]", docsPath)
	if err := os.MkdirAll(docsPath, 0755); err != nil {
		return fmt.Errorf("failed to create docs directory at path[%s]: %w", docsPath, err)
	}
	commandMap := map[string]bool{}
	if err := doc.GenMarkdownTreeCustom(root, docsPath, func(in string) string {
		return ""
	}, func(in string) string {
		commandMap[in] = true
		return fmt.Sprintf("cli/%s", in)
	}); err != nil {
		return fmt.Errorf("failed to generate markdown tree: %w", err)
	}
	commandList := []string{}
	for k := range commandMap {
		commandList = append(commandList, k)
	}
	sort.Strings(commandList)
	var sidebar strings.Builder
	sidebar.WriteString("* [🏘 Home](/)\n")
	fmt.Fprintf(&sidebar, "* [%s](cli/%s \"CLI\")\n", root.Name(), root.Name())
	for _, page := range commandList {
		commandParts := strings.Split(strings.Split(page, ".")[0], "_")
		if len(commandParts) > 1 {
			sidebar.WriteString(strings.Repeat("  ", len(commandParts)-1))
			fmt.Fprintf(&sidebar, "* [%s](cli/%s \"CLI: %s\")\n", commandParts[len(commandParts)-1], page, strings.Join(commandParts, " "))
		}
	}
	return os.WriteFile(path.Join(docsPath, "_sidebar.md"), []byte(sidebar.String()), 0644)
}
