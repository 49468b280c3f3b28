package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"cartograph/cartographer"
	"cartograph/internal/mapfile"
	"cartograph/surveyor"
)

func mapCmd() *cobra.Command {
	var (
		mappingPath string
		survey      bool
		tolerant    bool
		outPath     string
	)

	cmd := &cobra.Command{
		Use:   "map <src>",
		Short: "Apply a coordinate file to a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := loadDoc(args[0])
			if err != nil {
				return err
			}

			file, err := mapfile.Load(mappingPath)
			if err != nil {
				return err
			}

			coords, err := file.Build()
			if err != nil {
				return err
			}

			var opts []cartographer.Option
			if survey {
				opts = append(opts, cartographer.WithSurveyor(surveyor.New(surveyor.Config{})))
			}

			dst := map[string]any{}
			cart := &cartographer.Cartographer{}

			if tolerant {
				err = cart.MapAll(src, dst, coords, opts...)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "skipped: %v\n", err)
				}
			} else {
				if err := cart.Map(src, dst, coords, opts...); err != nil {
					return err
				}
			}

			out, err := yaml.Marshal(dst)
			if err != nil {
				return fmt.Errorf("failed to marshal result: %w", err)
			}

			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}

			if err := os.WriteFile(outPath, out, 0644); err != nil {
				return fmt.Errorf("failed to write result %s: %w", outPath, err)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&mappingPath, "mapping", "m", "", "Coordinate file (YAML)")
	cmd.Flags().BoolVar(&survey, "survey", false, "Derive coordinates for uncovered end points")
	cmd.Flags().BoolVar(&tolerant, "tolerant", false, "Skip failing coordinates, reporting them on stderr")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write result to file instead of stdout")
	_ = cmd.MarkFlagRequired("mapping")

	return cmd
}
