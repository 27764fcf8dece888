package design

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
)

// SeedHeader is the column layout of the designs seed CSV. source_image
// repeats image_url; downstream seeding expects both columns.
var SeedHeader = []string{"id", "set_id", "quadrant_index", "image_url", "source_image"}

// SetHeader is the column layout of the design sets CSV.
var SetHeader = []string{"id", "source_image_url", "note"}

// EncodeIndex writes designs as a two-space indented JSON array.
func EncodeIndex(w io.Writer, designs []Design) error {
	if designs == nil {
		designs = []Design{}
	}
	data, err := json.MarshalIndent(designs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal design index: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write design index: %w", err)
	}
	return nil
}

// EncodeSeedCSV writes the header and one row per design.
func EncodeSeedCSV(w io.Writer, designs []Design) error {
	records := make([][]string, 0, len(designs)+1)
	records = append(records, SeedHeader)
	for _, d := range designs {
		records = append(records, []string{
			d.ID,
			d.SetID,
			strconv.Itoa(d.QuadrantIndex),
			d.ImageURL,
			d.ImageURL,
		})
	}
	return encodeCSV(w, records)
}

// EncodeSetCSV writes the header and one row per design set. A nil note is
// written as an empty cell.
func EncodeSetCSV(w io.Writer, sets []DesignSet) error {
	records := make([][]string, 0, len(sets)+1)
	records = append(records, SetHeader)
	for _, s := range sets {
		note := ""
		if s.Note != nil {
			note = *s.Note
		}
		records = append(records, []string{s.ID, s.SourceImageURL, note})
	}
	return encodeCSV(w, records)
}

func encodeCSV(w io.Writer, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// WriteFile creates path and streams encode's output into it.
func WriteFile(path string, encode func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cErr := f.Close(); cErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cErr)
		}
	}()

	if err := encode(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
