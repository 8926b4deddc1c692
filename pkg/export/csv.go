package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/goliatone/go-changenotice/pkg/notice"
)

// CSVHeader is the first record of every CSV export.
var CSVHeader = []string{
	"CHG#",
	"Region",
	"Environment",
	"Implementation Start Time (UTC)",
	"Implementation End Time (UTC)",
	"Status",
}

// WriteCSV writes the header and one record per schedule row, in order.
// Fields containing commas, quotes or newlines are quoted per RFC 4180.
func WriteCSV(w io.Writer, rows []notice.ScheduleRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(CSVHeader); err != nil {
		return fmt.Errorf("export: write csv header: %w", err)
	}
	for idx, row := range rows {
		record := []string{
			row.ChangeID,
			string(row.Region),
			string(row.Environment),
			row.StartTime,
			row.EndTime,
			string(row.Status),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("export: write csv row %d: %w", idx, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("export: flush csv: %w", err)
	}
	return nil
}

// CSV returns the CSV export as bytes.
func CSV(rows []notice.ScheduleRow) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
