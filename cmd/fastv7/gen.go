package main

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vapstack/fastv7"
)

func newGenCommand(a *app) *cobra.Command {
	var (
		n       int
		counted bool
		format  string
	)
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Print new identifiers, one per line",
		RunE: func(cmd *cobra.Command, args []string) error {
			if n < 0 {
				return fmt.Errorf("-n must not be negative")
			}
			render, err := formatter(format)
			if err != nil {
				return err
			}

			g := fastv7.NewGenerator(fastv7.WithLogger(a.log))
			next := g.Next
			if counted {
				next = g.NextCounted
			}

			w := bufio.NewWriter(cmd.OutOrStdout())
			buf := make([]byte, 0, 64)
			for i := 0; i < n; i++ {
				buf = append(render(buf[:0], next()), '\n')
				if _, err = w.Write(buf); err != nil {
					return err
				}
			}
			a.log.Debug("generated", zap.Int("count", n), zap.Bool("counted", counted), zap.String("format", format))
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&n, "count", "n", 1, "Number of identifiers")
	cmd.Flags().BoolVar(&counted, "counted", false, "Use the 18-bit counter layout (strictly increasing)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text|hex|ulid|urn")
	return cmd
}

type renderFunc func(dst []byte, id fastv7.ID) []byte

func formatter(name string) (renderFunc, error) {
	switch name {
	case "text":
		return func(dst []byte, id fastv7.ID) []byte {
			t := fastv7.FormatText(id)
			return append(dst, t[:]...)
		}, nil
	case "hex":
		return func(dst []byte, id fastv7.ID) []byte {
			h := fastv7.FormatHex(id)
			return append(dst, h[:]...)
		}, nil
	case "ulid":
		return func(dst []byte, id fastv7.ID) []byte {
			return append(dst, id.ULID().String()...)
		}, nil
	case "urn":
		return func(dst []byte, id fastv7.ID) []byte {
			return append(dst, id.UUID().URN()...)
		}, nil
	default:
		return nil, fmt.Errorf("unknown format %q; use text|hex|ulid|urn", name)
	}
}
