package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/martijn/clientbook/internal/core/domain"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

// renderResult prints the result and turns a negative outcome into an error
// so the process exits non-zero.
func renderResult(out io.Writer, result *domain.Result) error {
	mode, err := resolveOutputMode(out)
	if err != nil {
		return err
	}

	if mode == outputJSON {
		if err := writeJSON(out, result); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out, result.Message)
		if len(result.Rows) > 0 {
			if err := writeRows(out, result.Rows); err != nil {
				return err
			}
		}
	}

	if !result.OK() {
		return fmt.Errorf("%s: %w", result.Message, result.Outcome.Err())
	}
	return nil
}

// renderPage prints one page of the client listing
func renderPage(out io.Writer, rows []domain.ProjectionRow, page, totalPages, total int) error {
	mode, err := resolveOutputMode(out)
	if err != nil {
		return err
	}

	if mode == outputJSON {
		return writeJSON(out, map[string]any{
			"items":       rows,
			"page":        page,
			"total_pages": totalPages,
			"total":       total,
		})
	}

	if len(rows) == 0 {
		fmt.Fprintln(out, "No clients found")
		return nil
	}
	if err := writeRows(out, rows); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nPage %d of %d (%d clients)\n", page, totalPages, total)
	return nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeRows(out io.Writer, rows []domain.ProjectionRow) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CLIENT ID\tFIRST NAME\tLAST NAME\tEMAIL\tNUMBER")
	for _, row := range rows {
		number := "-"
		if row.Number != nil {
			number = fmt.Sprint(*row.Number)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			row.ClientID,
			row.FirstName,
			row.LastName,
			row.Email,
			number,
		)
	}
	return w.Flush()
}
