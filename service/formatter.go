package service

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/kelvinlabs/dupescan/domain"
)

// Formatter implements domain.ScanFormatter across text/json/yaml/csv.
type Formatter struct{}

// NewFormatter constructs a Formatter.
func NewFormatter() *Formatter { return &Formatter{} }

// Format renders resp in the requested format.
func (f *Formatter) Format(resp *domain.ScanResponse, format domain.OutputFormat, w io.Writer) error {
	switch format {
	case domain.OutputFormatText, "":
		return f.formatText(resp, w)
	case domain.OutputFormatJSON:
		return writeJSON(w, resp)
	case domain.OutputFormatYAML:
		return writeYAML(w, resp)
	case domain.OutputFormatCSV:
		return f.formatCSV(resp, w)
	default:
		return domain.NewDomainError("UNSUPPORTED_FORMAT", fmt.Sprintf("unsupported output format %q", format), nil)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return domain.NewOutputError("failed to encode JSON", err)
	}
	return nil
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return domain.NewOutputError("failed to encode YAML", err)
	}
	return nil
}

func (f *Formatter) formatText(resp *domain.ScanResponse, w io.Writer) error {
	if !resp.Success {
		fmt.Fprintf(w, "scan failed: %s\n", resp.Error)
		return nil
	}

	fmt.Fprintf(w, "Similarity Scan Results\n")
	fmt.Fprintf(w, "=======================\n\n")

	if resp.Statistics != nil {
		s := resp.Statistics
		fmt.Fprintf(w, "Files scanned:        %d\n", s.FilesScanned)
		fmt.Fprintf(w, "Fragments extracted:  %d\n", s.FragmentsExtracted)
		fmt.Fprintf(w, "Pairs considered:     %d\n", s.PairsConsidered)
		fmt.Fprintf(w, "Pairs reported:       %d\n", s.PairsReported)
		if s.PairsTruncated > 0 {
			fmt.Fprintf(w, "Pairs truncated:      %d (batch threshold reached)\n", s.PairsTruncated)
		}
		if s.PairsReported > 0 {
			fmt.Fprintf(w, "Average similarity:   %.3f\n", s.AverageSimilarity)
		}
		fmt.Fprintf(w, "Duration:             %dms\n", s.DurationMillis)
		if len(resp.Groups) > 0 {
			fmt.Fprintf(w, "Clone groups:         %d\n", len(resp.Groups))
		}
		fmt.Fprintln(w)
	}

	for i, m := range resp.Matches {
		fmt.Fprintf(w, "%d. [%s] %.3f (priority %.1f)\n", i+1, m.CloneType, m.AdjustedSimilarity, m.Priority)
		fmt.Fprintf(w, "   %s %s\n", m.FragmentA.Kind, m.FragmentA.Location)
		fmt.Fprintf(w, "   %s %s\n", m.FragmentB.Kind, m.FragmentB.Location)
		if m.FragmentA.Source != "" {
			fmt.Fprintf(w, "   --- %s ---\n%s\n", m.FragmentA.Identifier, m.FragmentA.Source)
			fmt.Fprintf(w, "   --- %s ---\n%s\n", m.FragmentB.Identifier, m.FragmentB.Source)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func (f *Formatter) formatCSV(resp *domain.ScanResponse, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{
		"file_a", "line_start_a", "line_end_a", "identifier_a",
		"file_b", "line_start_b", "line_end_b", "identifier_b",
		"similarity", "priority", "clone_type",
	}
	if err := writer.Write(header); err != nil {
		return domain.NewOutputError("failed to write CSV header", err)
	}

	for _, m := range resp.Matches {
		row := []string{
			m.FragmentA.Location.FilePath,
			fmt.Sprintf("%d", m.FragmentA.Location.StartLine),
			fmt.Sprintf("%d", m.FragmentA.Location.EndLine),
			m.FragmentA.Identifier,
			m.FragmentB.Location.FilePath,
			fmt.Sprintf("%d", m.FragmentB.Location.StartLine),
			fmt.Sprintf("%d", m.FragmentB.Location.EndLine),
			m.FragmentB.Identifier,
			fmt.Sprintf("%.4f", m.AdjustedSimilarity),
			fmt.Sprintf("%.2f", m.Priority),
			m.CloneType,
		}
		if err := writer.Write(row); err != nil {
			return domain.NewOutputError("failed to write CSV row", err)
		}
	}
	return nil
}
