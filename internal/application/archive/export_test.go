package archive

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/windassist/windpark-api/internal/domain/entity"
)

func TestExportYear(t *testing.T) {
	svc, _, _, clock := newTestService(nil)

	inYear := mustArchive(t, svc, "t1", "inv-1", entity.ArchiveDocTypeInvoice, "pdf one")
	mustArchive(t, svc, "t1", "inv-2", entity.ArchiveDocTypeCreditNote, "pdf two")

	// A document archived the following year must not appear in the index.
	clock.t = clock.t.AddDate(1, 0, 0)
	mustArchive(t, svc, "t1", "inv-3", entity.ArchiveDocTypeInvoice, "pdf three")

	out, err := svc.ExportYear(context.Background(), "t1", 2024)
	require.NoError(t, err)

	require.True(t, bytes.HasPrefix(out, utf8BOM), "index must start with a UTF-8 BOM")

	r := csv.NewReader(bytes.NewReader(out[len(utf8BOM):]))
	r.Comma = ';'
	records, err := r.ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, exportHeader, records[0])
	assert.Equal(t, inYear.ID, records[1][0])
	assert.Equal(t, "inv-1", records[1][1])
	assert.Equal(t, entity.ArchiveDocTypeInvoice, records[1][2])
	assert.Equal(t, inYear.ContentHash, records[1][6])
	assert.Equal(t, inYear.ChainHash, records[1][7])
	assert.Equal(t, "inv-2", records[2][1])
}

func TestExportYear_EmptyYear(t *testing.T) {
	svc, _, _, _ := newTestService(nil)

	out, err := svc.ExportYear(context.Background(), "t1", 2019)
	require.NoError(t, err)

	r := csv.NewReader(bytes.NewReader(out[len(utf8BOM):]))
	r.Comma = ';'
	records, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, exportHeader, records[0])
}

func TestSanitizeCell(t *testing.T) {
	assert.Equal(t, "'=SUM(A1:A9)", sanitizeCell("=SUM(A1:A9)"))
	assert.Equal(t, "'+49 40 123", sanitizeCell("+49 40 123"))
	assert.Equal(t, "'-1", sanitizeCell("-1"))
	assert.Equal(t, "'@cmd", sanitizeCell("@cmd"))
	assert.Equal(t, "Rechnung.pdf", sanitizeCell("Rechnung.pdf"))
	assert.Equal(t, "", sanitizeCell(""))
}
