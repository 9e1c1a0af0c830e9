package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"go-candidate-scout/internal/domain"
	"go-candidate-scout/pkg/apperror"
	"go-candidate-scout/pkg/audit"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var exportColumns = []string{"id", "login", "name", "location", "email", "company", "bio", "html_url"}

var exportHeaders = map[string]string{
	"id":       "ID",
	"login":    "GITHUB",
	"name":     "NAME",
	"location": "LOCATION",
	"email":    "EMAIL",
	"company":  "COMPANY",
	"bio":      "BIO",
	"html_url": "PROFILE URL",
}

func exportValue(c *domain.CandidateProfile, column string) string {
	switch column {
	case "id":
		return strconv.FormatInt(c.ID, 10)
	case "login":
		return c.Login
	case "name":
		return c.Field(domain.SortByName)
	case "location":
		return c.Field(domain.SortByLocation)
	case "company":
		return c.Field(domain.SortByCompany)
	case "email":
		if c.Email != nil {
			return *c.Email
		}
	case "bio":
		if c.Bio != nil {
			return *c.Bio
		}
	case "html_url":
		return c.HTMLURL
	}
	return ""
}

// Export renders the current view (search and sort applied) as xlsx or csv.
func (u *savedCandidateUsecase) Export(ctx context.Context, format string) (*domain.ExportFile, error) {
	view, err := u.View(ctx)
	if err != nil {
		return nil, err
	}

	stamp := time.Now().Format("20060102_150405")
	switch format {
	case "xlsx", "":
		data, err := exportExcel(view.Candidates)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		return &domain.ExportFile{
			Filename:    fmt.Sprintf("saved_candidates_%s.xlsx", stamp),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil
	case "csv":
		data, err := exportCSV(view.Candidates)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		return &domain.ExportFile{
			Filename:    fmt.Sprintf("saved_candidates_%s.csv", stamp),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	default:
		return nil, apperror.BadRequest(fmt.Sprintf("unsupported export format: %s", format))
	}
}

// Archive uploads an export to object storage and returns its location.
func (u *savedCandidateUsecase) Archive(ctx context.Context, format string) (string, error) {
	if u.archive == nil {
		return "", apperror.ServiceUnavailable("Archive storage is not configured")
	}

	file, err := u.Export(ctx, format)
	if err != nil {
		return "", err
	}

	key := domain.ScopeFromContext(ctx) + "/" + file.Filename
	location, err := u.archive.Put(ctx, key, file.ContentType, file.Data)
	if err != nil {
		return "", apperror.Internal(err)
	}
	u.audit.Record(ctx, audit.EventListArchived, 0, zap.String("location", location))
	return location, nil
}

func exportExcel(candidates []domain.CandidateProfile) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Candidates"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, exportHeaders[col])
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(exportColumns), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for rowIdx := range candidates {
		for colIdx, col := range exportColumns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if col == "id" {
				f.SetCellValue(sheetName, cell, candidates[rowIdx].ID)
				continue
			}
			f.SetCellValue(sheetName, cell, exportValue(&candidates[rowIdx], col))
		}
	}

	for i := range exportColumns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 24)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func exportCSV(candidates []domain.CandidateProfile) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportColumns); err != nil {
		return nil, err
	}
	for i := range candidates {
		row := make([]string, len(exportColumns))
		for j, col := range exportColumns {
			row[j] = exportValue(&candidates[i], col)
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
