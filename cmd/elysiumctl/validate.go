package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/elysium/internal/chronicle"
	"github.com/cory-johannsen/elysium/internal/game/catalog"
	"github.com/cory-johannsen/elysium/internal/game/creation"
	"github.com/cory-johannsen/elysium/internal/game/dice"
)

var (
	catalogPath string
	strict      bool
)

// errBuildInvalid marks a build that failed validation; the report has
// already been printed.
var errBuildInvalid = errors.New("build is not valid")

var validateCmd = &cobra.Command{
	Use:   "validate <build.yaml>...",
	Short: "Check character builds against the creation budget",
	Long:  `validate prices each build file offline against the catalog and prints its pool usage, errors, and warnings.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.LoadFile(catalogPath)
		if err != nil {
			return err
		}
		failed := 0
		for _, path := range args {
			ok, err := validateFile(cmd.OutOrStdout(), cat, path, strict)
			if err != nil {
				return err
			}
			if !ok {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%w: %d of %d", errBuildInvalid, failed, len(args))
		}
		return nil
	},
}

var rollCmd = &cobra.Command{
	Use:   "roll <pool> [difficulty]",
	Short: "Roll a d10 pool, e.g. roll 5d10 vs 3",
	Args:  cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, difficulty, err := dice.ParsePool(strings.Join(args, " "))
		if err != nil {
			return err
		}
		res, err := dice.RollPool(pool, difficulty, dice.NewCryptoSource())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.String())
		return nil
	},
}

// validateFile prints the report for one build file. ok is false when the
// build has errors, or warnings under strict.
func validateFile(w io.Writer, cat *catalog.Catalog, path string, strict bool) (ok bool, err error) {
	b, err := chronicle.LoadBuildFile(path, cat)
	if err != nil {
		return false, err
	}
	sum := creation.Summarize(b, cat)
	res := creation.Validate(b, cat)

	fmt.Fprintf(w, "%s\n", path)
	for _, p := range []struct {
		name string
		pool creation.Pool
	}{
		{"attributes", sum.Attributes},
		{"skills", sum.Skills},
		{"merits", sum.Merits.Pool},
		{"backgrounds", sum.Backgrounds},
	} {
		fmt.Fprintf(w, "  %-12s %d/%d\n", p.name, p.pool.Used, p.pool.Available)
	}
	fmt.Fprintf(w, "  %-12s %d/%d gained\n", "flaws", sum.Flaws.PointsGained, sum.Flaws.MaxGain)
	for _, msg := range res.ErrorMessages() {
		fmt.Fprintf(w, "  error: %s\n", msg)
	}
	for _, msg := range res.WarningMessages() {
		fmt.Fprintf(w, "  warning: %s\n", msg)
	}

	ok = res.Valid && (!strict || len(res.Warnings) == 0)
	if ok {
		fmt.Fprintln(w, "  ok")
	}
	return ok, nil
}

func init() {
	validateCmd.Flags().StringVar(&catalogPath, "catalog", "content/catalog.yaml", "catalog YAML to price against")
	validateCmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as failures")
}
