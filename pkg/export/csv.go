package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/dayoon-dev/homeroom-api/internal/models"
)

// RosterCSV renders a class roster into CSV bytes suitable for pasting
// back into a spreadsheet: number, name, gender, locker, notes.
func RosterCSV(students []models.Student) ([]byte, error) {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)

	if err := writer.Write([]string{"number", "name", "gender", "lockerNo", "notes"}); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, s := range students {
		locker := ""
		if s.LockerNo != nil {
			locker = strconv.Itoa(*s.LockerNo)
		}
		record := []string{strconv.Itoa(s.Number), s.Name, s.Gender, locker, s.Notes}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
