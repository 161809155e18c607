package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/iho/cashbook/internal/adapter/http/dto"
	"github.com/iho/cashbook/internal/domain"
)

// importRecord is one entry in an import file. JSON files parse as YAML.
type importRecord struct {
	Date        string       `yaml:"date"`
	Particulars string       `yaml:"particulars"`
	Type        string       `yaml:"type"`
	Comments    string       `yaml:"comments"`
	Amount      importAmount `yaml:"amount"`
}

// importAmount keeps quoted amounts as written and converts YAML numbers
// (1e3, 10.00) to plain decimal text.
type importAmount string

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *importAmount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: amount must be a scalar", node.Line)
	}
	switch node.ShortTag() {
	case "!!int", "!!float":
		plain, err := domain.NumericAmount(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*a = importAmount(plain)
	default:
		*a = importAmount(node.Value)
	}
	return nil
}

func (r importRecord) request() dto.CreateEntryRequest {
	return dto.CreateEntryRequest{
		Date:        r.Date,
		Particulars: r.Particulars,
		Type:        r.Type,
		Comments:    r.Comments,
		Amount:      dto.Amount(string(r.Amount)),
	}
}

func readImportFile(path string) ([]importRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []importRecord
	if err := yaml.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}

func importCmd(client *apiClient) *cobra.Command {
	var keyPrefix string
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Add every entry listed in a YAML or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := readImportFile(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var last *dto.MutationResponse
			for i, rec := range records {
				key := ""
				if keyPrefix != "" {
					key = fmt.Sprintf("%s-%d", keyPrefix, i)
				}
				resp, err := client.createEntry(cmd.Context(), rec.request(), key)
				if err != nil {
					return fmt.Errorf("entry %d (%s %s): %w", i+1, rec.Date, rec.Particulars, err)
				}
				last = resp
			}

			fmt.Fprintf(out, "Imported %d entries\n", len(records))
			if last != nil && last.Reconciliation != nil {
				printReconciliation(out, last.Reconciliation)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&keyPrefix, "idempotency-prefix", "", "Send <prefix>-<index> as Idempotency-Key so a rerun skips imported entries")
	return cmd
}
