package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/vnkhanh/sloka-backend/models"
	"github.com/xuri/excelize/v2"
)

var rosterHeader = []string{"Student ID", "Email", "Active", "Registered At"}

// BuildRosterWorkbook renders the enrolled students of a course as xlsx.
func BuildRosterWorkbook(course *models.Course, students []models.Student) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Roster"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for col, h := range rosterHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellStr(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	bold, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	end, _ := excelize.CoordinatesToCellName(len(rosterHeader), 1)
	_ = f.SetCellStyle(sheet, "A1", end, bold)
	_ = f.AutoFilter(sheet, "A1:"+end, nil)

	for r, st := range students {
		row := []any{st.ID, st.Email, st.IsActive, st.CreatedAt.UTC().Format(time.RFC3339)}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", r+2, err)
		}
	}
	_ = f.SetColWidth(sheet, "B", "B", 36)
	_ = f.SetColWidth(sheet, "D", "D", 24)
	_ = f.SetDocProps(&excelize.DocProperties{Title: course.Title + " roster", Creator: "sloka-backend"})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}
