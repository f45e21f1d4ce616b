package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSV writes a header row followed by rows. Every row must have one field
// per header.
func CSV(writer io.Writer, header []string, rows [][]string) error {
	csvWriter := csv.NewWriter(writer)

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i, row := range rows {
		if len(row) != len(header) {
			return fmt.Errorf("row %d has %d fields, expected %d", i+1, len(row), len(header))
		}
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
