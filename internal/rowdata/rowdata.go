// Shared helpers for translating between raw sheet rows and typed entries.
// Both the Google Sheets adapter and the local xlsx adapter speak this dialect.
package rowdata

import (
	"strconv"
	"strings"

	"github.com/etarang/garba-desk/internal/entity"
)

// Canonical header names, matched case-insensitively after trimming.
const (
	ColRegistrationNumber = "registration number"
	ColName               = "name"
	ColEmail              = "email address"
	ColPhone              = "contact number"
	ColResidency          = "hosteller/day scholar"
	ColUniqueID           = "unique id"
	ColTransaction        = "utr number"
	ColDesk               = "desk"
	ColMailSent           = "sent"
)

// HeaderRow is the sheet row that carries column names. Data starts right below.
const HeaderRow = 1

// CellUpdate addresses a single cell write: zero-based column, 1-based sheet row.
type CellUpdate struct {
	Col   int
	Row   int
	Value string
}

// Snapshot is one full read of the backing store.
type Snapshot struct {
	Entries []entity.Entry
	Columns map[string]int
	Total   int
}

// MapHeaders builds a case-insensitive header-name -> column-index map so the
// column order in the source sheet is irrelevant.
func MapHeaders(headers []string) map[string]int {
	m := make(map[string]int, len(headers))
	for i, h := range headers {
		m[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return m
}

// ToA1 converts a zero-based column index and 1-based row number into an A1
// cell reference: 0 -> "A", 25 -> "Z", 26 -> "AA", 701 -> "ZZ".
func ToA1(colIndex, rowNumber int) string {
	var chars []byte
	n := colIndex + 1
	for n > 0 {
		rem := (n - 1) % 26
		chars = append(chars, byte('A'+rem))
		n = (n - 1) / 26
	}
	for i, j := 0, len(chars)-1; i < j; i, j = i+1, j-1 {
		chars[i], chars[j] = chars[j], chars[i]
	}
	return string(chars) + strconv.Itoa(rowNumber)
}

// ParseSentFlag interprets the boolean-ish "sent" column.
func ParseSentFlag(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// EntryFromRow builds a typed entry from one raw data row via named lookups.
// Missing cells become empty strings.
func EntryFromRow(row []string, columns map[string]int, rowNumber int) entity.Entry {
	get := func(key string) string {
		i, ok := columns[key]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	return entity.Entry{
		RegistrationNumber: get(ColRegistrationNumber),
		Name:               get(ColName),
		Email:              get(ColEmail),
		PhoneNumber:        get(ColPhone),
		ResidencyStatus:    get(ColResidency),
		UniqueID:           get(ColUniqueID),
		TransactionID:      get(ColTransaction),
		Desk:               get(ColDesk),
		MailSent:           ParseSentFlag(get(ColMailSent)),
		RowNumber:          rowNumber,
	}
}

// SnapshotFromRows turns a rectangular read (header row first) into a Snapshot.
func SnapshotFromRows(rows [][]string) *Snapshot {
	if len(rows) == 0 {
		return &Snapshot{Columns: map[string]int{}}
	}

	columns := MapHeaders(rows[0])
	entries := make([]entity.Entry, 0, len(rows)-1)
	for idx, row := range rows[1:] {
		// +2: headers are row 1, data starts at row 2
		entries = append(entries, EntryFromRow(row, columns, idx+2))
	}

	return &Snapshot{Entries: entries, Columns: columns, Total: len(entries)}
}
