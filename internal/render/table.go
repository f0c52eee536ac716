package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/umairqidwai1/YQ-Chatbot/pkg/interfaces"
)

// utf8BOM prefixes exported CSV content so spreadsheet tools detect the
// encoding.
const utf8BOM = "\xEF\xBB\xBF"

func (r *Renderer) renderTable(ctx context.Context, out *strings.Builder, tok interfaces.Token, idx int, rctx Context) error {
	out.WriteString("<table><thead><tr>")
	for colIdx, cell := range tok.Header {
		out.WriteString("<th")
		if align := columnAlignment(tok.Align, colIdx); align != interfaces.AlignNone {
			fmt.Fprintf(out, ` style="text-align: %s"`, align)
		}
		out.WriteString(">")
		cellCtx := rctx.child(idx, fmt.Sprintf("th-%d", colIdx), false)
		if err := r.renderSequence(ctx, out, cell.Tokens, cellCtx); err != nil {
			return err
		}
		out.WriteString("</th>")
	}
	out.WriteString("</tr></thead><tbody>")

	for rowIdx, row := range tok.Rows {
		out.WriteString("<tr>")
		for colIdx, cell := range row {
			out.WriteString("<td")
			if align := columnAlignment(tok.Align, colIdx); align != interfaces.AlignNone {
				fmt.Fprintf(out, ` style="text-align: %s"`, align)
			}
			out.WriteString(">")
			cellCtx := rctx.child(idx, fmt.Sprintf("td-%d-%d", rowIdx, colIdx), false)
			if err := r.renderSequence(ctx, out, cell.Tokens, cellCtx); err != nil {
				return err
			}
			out.WriteString("</td>")
		}
		out.WriteString("</tr>")
	}
	out.WriteString("</tbody></table>")

	// Offer the CSV artifact alongside the table. The export never alters
	// the rendered markup.
	if cb := r.callbacks.OnCSVExport; cb != nil {
		cb(TableCSV(tok, rctx.ID, idx))
	}
	return nil
}

func columnAlignment(align []interfaces.Alignment, col int) interfaces.Alignment {
	if col < 0 || col >= len(align) {
		return interfaces.AlignNone
	}
	return align[col]
}

// TableCSV builds the downloadable export for a table token: header texts
// and flattened cell texts, every field double-quoted with embedded quotes
// doubled, fields joined by commas, rows by newlines, with a UTF-8 BOM
// prefix. The filename derives deterministically from the container id and
// token index.
func TableCSV(tok interfaces.Token, id string, tokenIdx int) interfaces.CSVArtifact {
	var rows []string

	var header []string
	for _, cell := range tok.Header {
		header = append(header, quoteCSVField(cell.PlainText()))
	}
	rows = append(rows, strings.Join(header, ","))

	for _, row := range tok.Rows {
		var fields []string
		for _, cell := range row {
			fields = append(fields, quoteCSVField(cell.PlainText()))
		}
		rows = append(rows, strings.Join(fields, ","))
	}

	return interfaces.CSVArtifact{
		Filename: fmt.Sprintf("table-%s-%d.csv", id, tokenIdx),
		Content:  []byte(utf8BOM + strings.Join(rows, "\n")),
	}
}

func quoteCSVField(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
