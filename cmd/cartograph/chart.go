package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"cartograph/surveyor"
)

func chartCmd() *cobra.Command {
	var (
		all  bool
		dump bool
	)

	cmd := &cobra.Command{
		Use:   "chart <doc>",
		Short: "List every charted course of a YAML/JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDoc(args[0])
			if err != nil {
				return err
			}

			s := surveyor.New(surveyor.Config{})

			var entries []surveyor.Entry
			if all {
				var serr *surveyor.SuppressedErrors
				entries, err = s.ChartAll(doc)
				if err != nil && errors.As(err, &serr) {
					for _, e := range serr.Errors {
						fmt.Fprintf(cmd.ErrOrStderr(), "skipped: %v\n", e)
					}
				} else if err != nil {
					return err
				}
			} else {
				entries, err = s.Chart(doc)
				if err != nil {
					return err
				}
			}

			for _, e := range entries {
				if dump {
					fmt.Fprintf(cmd.OutOrStdout(), "%s = %s", e.Course, spew.Sdump(e.Value))
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s = %v\n", e.Course, e.Value)
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Tolerate non-navigable branches, reporting them on stderr")
	cmd.Flags().BoolVar(&dump, "dump", false, "Dump full value structure for each course")

	return cmd
}

// loadDoc reads a YAML document into generic nested data. JSON parses too,
// being a YAML subset.
func loadDoc(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", path, err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse document %s: %w", path, err)
	}

	return doc, nil
}
