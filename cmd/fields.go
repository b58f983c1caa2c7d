package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gnolang/tquery/internal/fields"
)

// fieldsCmd: tquery fields
var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the queryable fields and their aliases",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions(cmd)
		if err != nil {
			return err
		}
		return printFields(cmd.OutOrStdout(), opts.Registry)
	},
}

// printFields writes one row per canonical field: level, name, aliases.
func printFields(w io.Writer, registry *fields.Registry) error {
	type row struct {
		level     fields.Level
		canonical string
		aliases   []string
	}

	var rows []*row
	for _, e := range registry.Entries() {
		if n := len(rows); n > 0 && rows[n-1].canonical == e.Canonical && rows[n-1].level == e.Level {
			rows[n-1].aliases = append(rows[n-1].aliases, e.Alias)
			continue
		}
		rows = append(rows, &row{level: e.Level, canonical: e.Canonical, aliases: []string{e.Alias}})
	}

	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%-8s %-9s %s\n", r.level, r.canonical, strings.Join(r.aliases, ", ")); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "\ntoken fields also take a %s (governor) or %s (object) prefix\n",
		fields.Governor.Prefix(), fields.Object.Prefix())
	return err
}
