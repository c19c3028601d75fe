package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ludo-technologies/prosim/domain"
)

// SimilarityFormatter implements the domain.SimilarityOutputFormatter interface
type SimilarityFormatter struct {
	utils *FormatUtils
}

// NewSimilarityFormatter creates a new similarity output formatter
func NewSimilarityFormatter() *SimilarityFormatter {
	return &SimilarityFormatter{utils: NewFormatUtils()}
}

// Format writes the response in the requested format. Per-position rows are
// included in text, JSON and YAML output only when showRows is set; CSV
// output always consists of the rows.
func (f *SimilarityFormatter) Format(response *domain.SimilarityResponse, format domain.OutputFormat, showRows bool, writer io.Writer) error {
	if response == nil {
		return domain.NewOutputError("response cannot be nil", nil)
	}

	switch format {
	case domain.OutputFormatText:
		return f.formatText(response, showRows, writer)
	case domain.OutputFormatJSON:
		return WriteJSON(writer, withRows(response, showRows))
	case domain.OutputFormatYAML:
		return WriteYAML(writer, withRows(response, showRows))
	case domain.OutputFormatCSV:
		return f.formatCSV(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// withRows returns response unchanged, or a shallow copy without rows
func withRows(response *domain.SimilarityResponse, showRows bool) *domain.SimilarityResponse {
	if showRows {
		return response
	}
	stripped := *response
	stripped.Documents = make([]domain.DocumentResult, len(response.Documents))
	for i, doc := range response.Documents {
		doc.Rows = nil
		stripped.Documents[i] = doc
	}
	return &stripped
}

func (f *SimilarityFormatter) formatText(response *domain.SimilarityResponse, showRows bool, writer io.Writer) error {
	if !response.Success {
		_, err := fmt.Fprintf(writer, "Similarity analysis failed: %s\n", response.Error)
		return err
	}

	var b strings.Builder
	b.WriteString(f.utils.FormatMainHeader("Prosodic Similarity Report"))

	if stats := response.Statistics; stats != nil {
		b.WriteString(f.utils.FormatSectionHeader("Summary"))
		b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Run ID", response.RunID))
		b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Documents", stats.Documents))
		b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Phonemes", stats.Phonemes))
		b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Phrases", stats.Phrases))
		b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Problems", stats.Problems))
		b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Threads", stats.Threads))
		b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Seed", stats.Seed))
		b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Raw similarity range",
			fmt.Sprintf("%.6f - %.6f", stats.RawMin, stats.RawMax)))
		b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Duration", f.utils.FormatDuration(response.Duration)))
		b.WriteString(f.utils.FormatSectionSeparator())

		b.WriteString(f.utils.FormatSectionHeader("Channels"))
		for _, ch := range response.Channels {
			fmt.Fprintf(&b, "  %-12s weight %d, %d symbols\n", ch.Name, ch.Weight, stats.SymbolsPerChannel[ch.Name])
		}
		b.WriteString(f.utils.FormatSectionSeparator())
	}

	nameWidth := len("Document")
	for _, doc := range response.Documents {
		nameWidth = max(nameWidth, len(doc.Name))
	}

	b.WriteString(f.utils.FormatSectionHeader("Documents"))
	fmt.Fprintf(&b, "  %4s  %-*s  %8s  %7s  %7s\n", "#", nameWidth, "Document", "Phonemes", "Phrases", "Windows")
	for _, doc := range response.Documents {
		fmt.Fprintf(&b, "  %4d  %-*s  %8d  %7d  %7d\n", doc.Index, nameWidth, doc.Name, doc.Phonemes, doc.Phrases, doc.Windows)
	}
	b.WriteString(f.utils.FormatSectionSeparator())

	b.WriteString(f.utils.FormatSectionHeader("Confusion Matrix"))
	b.WriteString("  rows: seed document, columns: most similar document\n")
	b.WriteString("      ")
	for col := range response.Confusion {
		fmt.Fprintf(&b, " %6d", col)
	}
	b.WriteString("\n")
	for row, counts := range response.Confusion {
		fmt.Fprintf(&b, "  %4d", row)
		for _, c := range counts {
			fmt.Fprintf(&b, " %6d", c)
		}
		b.WriteString("\n")
	}
	b.WriteString(f.utils.FormatSectionSeparator())

	b.WriteString(f.utils.FormatSectionHeader("Class Separation"))
	b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Within-class mean", fmt.Sprintf("%.3f", response.Summary.WithinClassMean)))
	b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Between-class mean", fmt.Sprintf("%.3f", response.Summary.BetweenClassMean)))
	b.WriteString(f.utils.FormatLabelWithIndent(SectionPadding, "Ratio", fmt.Sprintf("%.3f", response.Summary.Ratio)))

	if showRows {
		for _, doc := range response.Documents {
			b.WriteString(f.utils.FormatSectionSeparator())
			b.WriteString(f.utils.FormatSectionHeader("Rows: " + doc.Name))
			for pos, row := range doc.Rows {
				fmt.Fprintf(&b, "  %6d", pos)
				for _, v := range row {
					fmt.Fprintf(&b, " %.4f", v)
				}
				b.WriteString("\n")
			}
		}
	}

	_, err := io.WriteString(writer, b.String())
	return err
}

// formatCSV writes one record per (document, position) with the scaled
// similarity to every document as columns
func (f *SimilarityFormatter) formatCSV(response *domain.SimilarityResponse, writer io.Writer) error {
	w := csv.NewWriter(writer)

	header := make([]string, 0, len(response.Documents)+3)
	header = append(header, "document_index", "document", "position")
	for _, doc := range response.Documents {
		header = append(header, doc.Name)
	}
	if err := w.Write(header); err != nil {
		return domain.NewOutputError("failed to write CSV header", err)
	}

	record := make([]string, len(header))
	for _, doc := range response.Documents {
		for pos, row := range doc.Rows {
			record = record[:3]
			record[0] = strconv.Itoa(doc.Index)
			record[1] = doc.Name
			record[2] = strconv.Itoa(pos)
			for _, v := range row {
				record = append(record, strconv.FormatFloat(v, 'f', 6, 64))
			}
			if err := w.Write(record); err != nil {
				return domain.NewOutputError("failed to write CSV record", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return domain.NewOutputError("failed to flush CSV output", err)
	}
	return nil
}
