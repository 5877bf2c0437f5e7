package archive

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// utf8BOM lets spreadsheet software detect the encoding of the index file.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var exportHeader = []string{
	"ArchivID",
	"ReferenzID",
	"Dokumenttyp",
	"Dateiname",
	"MimeType",
	"GroesseBytes",
	"ContentHash",
	"ChainHash",
	"ArchiviertAm",
	"AufbewahrungBis",
}

// ExportYear builds the GoBD/GDPdU audit index of all documents archived in
// the calendar year: semicolon-delimited CSV with UTF-8 BOM, one row per
// document, cells sanitized against spreadsheet formula injection.
func (s *Service) ExportYear(ctx context.Context, tenantID string, year int) ([]byte, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	docs, err := s.docs.ListByArchiveTime(ctx, tenantID, &from, &to)
	if err != nil {
		return nil, fmt.Errorf("list archived documents: %w", err)
	}

	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)
	w.Comma = ';'

	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, doc := range docs {
		row := []string{
			doc.ID,
			doc.ReferenceID,
			doc.DocumentType,
			doc.FileName,
			doc.MimeType,
			strconv.FormatInt(doc.SizeBytes, 10),
			doc.ContentHash,
			doc.ChainHash,
			doc.ArchivedAt.Format(time.RFC3339),
			doc.RetentionUntil.Format("2006-01-02"),
		}
		for i := range row {
			row[i] = sanitizeCell(row[i])
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// sanitizeCell defuses spreadsheet formula injection: any cell starting with
// a formula trigger character gets a single-quote prefix.
func sanitizeCell(cell string) string {
	if cell == "" {
		return cell
	}
	if strings.ContainsRune("=+-@\t\r", rune(cell[0])) {
		return "'" + cell
	}
	return cell
}
