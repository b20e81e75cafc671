package server

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	consumptiondomain "github.com/fizzlog/fizzlog/internal/consumption/domain"
	transferdomain "github.com/fizzlog/fizzlog/internal/transfer/domain"
	"github.com/fizzlog/fizzlog/pkg/dateonly"
	"github.com/gin-gonic/gin"
)

var csvHeader = []string{"date", "bottle_size", "bottle_count", "cylinder_number", "co2_pushes"}

// requiredCSVColumns is the header prefix every import file must carry;
// the trailing co2_pushes column is optional.
const requiredCSVColumns = 4

// ImportCSV ingests a CSV file uploaded as the multipart "file" field.
// Structural problems (missing file, malformed CSV, wrong header) fail
// the whole request; per-row problems are reported in the result and
// do not block the remaining rows.
func (s *Server) ImportCSV(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil || !isCSVHeader(header) {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	// Every data row must match the header's column count.
	reader.FieldsPerRecord = len(header)

	records, err := reader.ReadAll()
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	rows := make([]transferdomain.Row, 0, len(records))
	for _, record := range records {
		rows = append(rows, parseCSVRow(record))
	}

	result, err := s.transferSvc.Import(c.Request.Context(), rows)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// isCSVHeader accepts both row shapes: the four required columns, or
// the five-column shape with the optional co2_pushes column.
func isCSVHeader(record []string) bool {
	if len(record) != requiredCSVColumns && len(record) != len(csvHeader) {
		return false
	}
	for i, field := range record {
		if !strings.EqualFold(strings.TrimSpace(field), csvHeader[i]) {
			return false
		}
	}
	return true
}

// parseCSVRow never fails: unparsable fields become values the ledger
// rejects, so every bad row surfaces as a row error with its index
// intact instead of aborting the batch.
func parseCSVRow(record []string) transferdomain.Row {
	row := transferdomain.Row{
		BottleSize: consumptiondomain.BottleSize(strings.TrimSpace(record[1])),
	}

	if date, err := dateonly.Parse(strings.TrimSpace(record[0])); err == nil {
		row.Date = date
	}
	if count, err := strconv.Atoi(strings.TrimSpace(record[2])); err == nil {
		row.BottleCount = count
	}
	if number, err := strconv.Atoi(strings.TrimSpace(record[3])); err == nil {
		row.CylinderNumber = number
	}

	if len(record) > requiredCSVColumns {
		if raw := strings.TrimSpace(record[4]); raw != "" {
			pushes := -1
			if parsed, err := strconv.Atoi(raw); err == nil {
				pushes = parsed
			}
			row.CO2Pushes = &pushes
		}
	}

	return row
}

func (s *Server) ExportCSV(c *gin.Context) {
	rows, err := s.transferSvc.Export(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	writeCSVAttachment(c, "fizzlog_export.csv", rows)
}

func (s *Server) SampleCSV(c *gin.Context) {
	writeCSVAttachment(c, "fizzlog_sample.csv", s.transferSvc.Sample())
}

func writeCSVAttachment(c *gin.Context, filename string, rows []transferdomain.Row) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write(csvHeader)
	for _, row := range rows {
		pushes := ""
		if row.CO2Pushes != nil {
			pushes = strconv.Itoa(*row.CO2Pushes)
		}
		_ = w.Write([]string{
			row.Date.String(),
			string(row.BottleSize),
			strconv.Itoa(row.BottleCount),
			strconv.Itoa(row.CylinderNumber),
			pushes,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
