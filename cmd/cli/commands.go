package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/iho/cashbook/internal/adapter/http/dto"
)

// filterFlags are the read-side filter flags shared by list and summary.
type filterFlags struct {
	from, to, typ, search string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "Earliest date (YYYY-MM-DD), inclusive")
	cmd.Flags().StringVar(&f.to, "to", "", "Latest date (YYYY-MM-DD), inclusive")
	cmd.Flags().StringVar(&f.typ, "type", "", "Credit or Debit")
	cmd.Flags().StringVar(&f.search, "search", "", "Case-insensitive particulars substring")
}

func (f *filterFlags) query() url.Values {
	q := url.Values{}
	for k, v := range map[string]string{"from": f.from, "to": f.to, "type": f.typ, "search": f.search} {
		if v != "" {
			q.Set(k, v)
		}
	}
	return q
}

func entriesCmd(client *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "Entry operations",
	}
	cmd.AddCommand(
		listEntriesCmd(client),
		addEntryCmd(client),
		updateEntryCmd(client),
		deleteEntryCmd(client),
	)
	return cmd
}

func listEntriesCmd(client *apiClient) *cobra.Command {
	var (
		filter filterFlags
		source string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries with running balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := filter.query()
			if source != "" {
				q.Set("source", source)
			}
			resp, err := client.listEntries(cmd.Context(), q)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			printEntries(cmd.OutOrStdout(), resp.Entries)
			return nil
		},
	}
	filter.register(cmd)
	cmd.Flags().StringVar(&source, "source", "", "view (default) or store")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print raw JSON")
	return cmd
}

func addEntryCmd(client *apiClient) *cobra.Command {
	var (
		req    dto.CreateEntryRequest
		amount string
		key    string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Amount = dto.Amount(amount)
			resp, err := client.createEntry(cmd.Context(), req, key)
			if err != nil {
				return err
			}
			return printMutation(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().StringVar(&req.Date, "date", "", "Entry date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.Particulars, "particulars", "", "Description")
	cmd.Flags().StringVar(&req.Type, "type", "", "Credit (default) or Debit")
	cmd.Flags().StringVar(&req.Comments, "comments", "", "Free-form comments")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount, e.g. 1,250.50")
	cmd.Flags().StringVar(&key, "idempotency-key", "", "Idempotency key for safe retries")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("particulars")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func updateEntryCmd(client *apiClient) *cobra.Command {
	var date, particulars, typ, comments, amount string
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update fields of an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req dto.UpdateEntryRequest
			flags := cmd.Flags()
			if flags.Changed("date") {
				req.Date = &date
			}
			if flags.Changed("particulars") {
				req.Particulars = &particulars
			}
			if flags.Changed("type") {
				req.Type = &typ
			}
			if flags.Changed("comments") {
				req.Comments = &comments
			}
			if flags.Changed("amount") {
				a := dto.Amount(amount)
				req.Amount = &a
			}

			resp, err := client.updateEntry(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			return printMutation(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Entry date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&particulars, "particulars", "", "Description")
	cmd.Flags().StringVar(&typ, "type", "", "Credit or Debit")
	cmd.Flags().StringVar(&comments, "comments", "", "Free-form comments")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount")
	return cmd
}

func deleteEntryCmd(client *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client.deleteEntry(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			printReconciliation(cmd.OutOrStdout(), resp)
			return nil
		},
	}
}

func reconcileCmd(client *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Reload all entries and rewrite stale balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client.reconcile(cmd.Context())
			if err != nil {
				return err
			}
			printReconciliation(cmd.OutOrStdout(), resp)
			if !resp.Complete {
				return errors.New("reconciliation incomplete")
			}
			return nil
		},
	}
}

func summaryCmd(client *apiClient) *cobra.Command {
	var filter filterFlags
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Total credits, debits and closing balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client.summary(cmd.Context(), filter.query())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Entries:\t%d\n", resp.Count)
			fmt.Fprintf(w, "Credits:\t%s\n", resp.TotalCredits)
			fmt.Fprintf(w, "Debits:\t%s\n", resp.TotalDebits)
			fmt.Fprintf(w, "Net:\t%s\n", resp.Net)
			fmt.Fprintf(w, "Closing balance:\t%s\n", resp.ClosingBalance)
			return w.Flush()
		},
	}
	filter.register(cmd)
	return cmd
}

func printEntries(out io.Writer, entries []*dto.EntryResponse) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tPARTICULARS\tTYPE\tAMOUNT\tBALANCE")
	for _, e := range entries {
		balance := "-"
		if e.Balance != nil {
			balance = *e.Balance
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", e.ID, e.Date, truncate(e.Particulars, 32), e.Type, e.Amount, balance)
	}
	w.Flush()
}

func printMutation(out io.Writer, resp *dto.MutationResponse) error {
	if resp.Entry != nil {
		printEntries(out, []*dto.EntryResponse{resp.Entry})
	}
	if resp.Reconciliation != nil {
		printReconciliation(out, resp.Reconciliation)
	}
	return nil
}

func printReconciliation(out io.Writer, r *dto.ReconciliationResponse) {
	if r.Complete {
		fmt.Fprintf(out, "Reconciled: %d updated, closing balance %s\n", len(r.Updated), r.ClosingBalance)
		return
	}
	fmt.Fprintf(out, "Reconciliation incomplete: %d updated, %d failed: %s\n", len(r.Updated), len(r.Failed), r.Error)
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}
