package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vapstack/fastv7"
)

func newInspectCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect ID...",
		Short: "Decode the fields of UUID v7 identifiers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			var errs []error
			for _, s := range args {
				id, err := fastv7.Parse(s)
				if err != nil {
					a.log.Warn("cannot parse id", zap.String("id", s), zap.Error(err))
					errs = append(errs, fmt.Errorf("%s: %w", s, err))
					continue
				}
				fmt.Fprintf(out, "id:       %s\n", id)
				fmt.Fprintf(out, "time:     %s\n", id.Time().UTC().Format(time.RFC3339Nano))
				fmt.Fprintf(out, "unix_ms:  %d\n", id.Millis())
				fmt.Fprintf(out, "version:  %d\n", id.Version())
				fmt.Fprintf(out, "variant:  %02b\n", id.Variant())
				fmt.Fprintf(out, "counter:  %d\n", id.Counter())
				fmt.Fprintf(out, "ulid:     %s\n", id.ULID())
			}
			return errors.Join(errs...)
		},
	}
}
