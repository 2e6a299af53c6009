package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Aidin1998/finalex-ids/internal/store"
	"github.com/Aidin1998/finalex-ids/pkg/errors"
	"github.com/Aidin1998/finalex-ids/pkg/identifiers"
	"github.com/agnivade/levenshtein"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// suggestionScanLimit bounds how many ledger rows check compares against
const suggestionScanLimit = 1000

var errNotIssued = errors.NotFound.WithCode("not_issued").Explain("order list id was not issued")

func newNewCommand(a *app) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Issue new order list identifiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return errors.Invalid.Explain("--count must be at least 1, got %d", count)
			}
			for i := 0; i < count; i++ {
				id, err := a.issuer.Issue(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of identifiers to issue")
	return cmd
}

func newListCommand(a *app) *cobra.Command {
	var (
		limit  int
		output string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recently issued order list identifiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := a.repo.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return writeRows(cmd.OutOrStdout(), rows, output)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of identifiers to show")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text, json or yaml")
	return cmd
}

func newCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <order-list-id>",
		Short: "Report whether an order list identifier was issued",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := identifiers.NewOrderListID(args[0])
			out := cmd.OutOrStdout()

			found, err := a.repo.Exists(cmd.Context(), id)
			if err != nil {
				return err
			}
			if found {
				fmt.Fprintf(out, "%s: issued\n", id)
				return nil
			}

			fmt.Fprintf(out, "%s: not issued\n", id)
			rows, err := a.repo.List(cmd.Context(), suggestionScanLimit)
			if err != nil {
				return err
			}
			if suggestion, ok := closest(id, rows); ok {
				fmt.Fprintf(out, "did you mean %s?\n", suggestion)
			}
			return errNotIssued
		},
	}
}

func newForgetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "forget <order-list-id>",
		Short: "Remove an order list identifier from the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := identifiers.NewOrderListID(args[0])
			if err := a.repo.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: forgotten\n", id)
			return nil
		},
	}
}

func writeRows(w io.Writer, rows []store.IssuedID, format string) error {
	switch format {
	case "text", "":
		for _, row := range rows {
			fmt.Fprintf(w, "%s\t%s\n", row.ID, row.CreatedAt.Format("2006-01-02T15:04:05Z07:00"))
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(rows)
	default:
		return errors.Invalid.Explain("unknown output format %q", format)
	}
}

// closest returns the issued identifier with the smallest edit distance to
// id, if it is near enough to be a plausible typo
func closest(id identifiers.OrderListID, rows []store.IssuedID) (identifiers.OrderListID, bool) {
	target := id.String()
	maxDistance := len(target)/4 + 1

	best, bestDistance := identifiers.OrderListID{}, maxDistance+1
	for _, row := range rows {
		d := levenshtein.ComputeDistance(target, row.ID.String())
		if d < bestDistance {
			best, bestDistance = row.ID, d
		}
	}
	return best, bestDistance <= maxDistance
}
