package cli

import (
	"bytes"
	"fmt"
	"os"
	"pwmeter/internal/scorer"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/term"
)

type TableRowDataInsertor func(*Table) error

type NewTableOpts struct {
	Headers     []string
	Rows        TableRowDataInsertor
	IsFullWidth bool
}

func NewTable(opts NewTableOpts) *Table {
	table := &Table{
		Rows:        opts.Rows,
		isFullWidth: opts.IsFullWidth,
	}
	return table.Init(opts.Headers)
}

type Table struct {
	data  bytes.Buffer
	table *tablewriter.Table

	Rows TableRowDataInsertor

	isFullWidth bool
}

func (t *Table) Init(headers []string) *Table {
	t.table = tablewriter.NewWriter(&t.data)
	t.table.Options(tablewriter.WithHeaderAlignment(tw.AlignLeft))
	t.table.Configure(func(cfg *tablewriter.Config) {
		width, _, _ := term.GetSize(int(os.Stdout.Fd()))
		if width > 0 {
			if t.isFullWidth {
				cfg.Widths.Global = width
			} else {
				cfg.MaxWidth = width
			}
		}
	})
	t.table.Header(headers)
	return t
}

func (t *Table) Render() (*Table, error) {
	if err := t.Rows(t); err != nil {
		return t, err
	}
	return t, nil
}

func (t *Table) NewRow(values ...any) error {
	row := []string{}
	for _, value := range values {
		var valueAsString string
		switch v := value.(type) {
		case int, int8, int16, int32, int64, float32, float64:
			valueAsString = fmt.Sprintf("%v", v)
		case bool:
			valueAsString = "✅"
			if !v {
				valueAsString = "❌"
			}
		case string:
			valueAsString = v
		case []string:
			valueAsString = fmt.Sprintf(`["%s"]`, strings.Join(v, `", "`))
		}
		row = append(row, valueAsString)
	}
	return t.table.Append(row)
}

func (t *Table) GetString() string {
	t.table.Render()
	return t.data.String()
}

// RenderMatchSequence lays out the matches behind a score, one row per
// match. Breach matches cover the whole password so their token is
// masked
func RenderMatchSequence(sequence []scorer.Match) (string, error) {
	table, err := NewTable(NewTableOpts{
		Headers: []string{"pattern", "token", "position", "source", "entropy"},
		Rows: func(t *Table) error {
			for _, match := range sequence {
				token := match.Token
				source := match.DictionaryName
				switch match.Pattern {
				case scorer.PatternPwned:
					token = strings.Repeat("*", len([]rune(token)))
					source = fmt.Sprintf("seen %v times", match.Count)
				case scorer.PatternSpatial:
					source = match.Graph
				}
				if err := t.NewRow(
					match.Pattern,
					token,
					fmt.Sprintf("%v-%v", match.I, match.J),
					source,
					fmt.Sprintf("%.2f", match.Entropy),
				); err != nil {
					return fmt.Errorf("failed to add match[%s]: %w", match.Pattern, err)
				}
			}
			return nil
		},
	}).Render()
	if err != nil {
		return "", err
	}
	return table.GetString(), nil
}
