package approval

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// exportColumns defines the sheet layout for approval exports.
var exportColumns = []string{
	"ID", "Content ID", "Status", "Quality Score", "Routing Action",
	"Priority", "Assigned Role", "Assigned To", "Escalation Deadline",
	"Rejection Reason", "Created At", "Updated At",
}

// ExportToExcel renders the records matching filter into an xlsx workbook
// and returns the file bytes with a suggested filename.
func (s *ApprovalServiceImpl) ExportToExcel(ctx context.Context, filter ListFilter) ([]byte, string, error) {
	filter.Page = 1
	filter.PerPage = int64(s.Config.BulkOperationLimit) * 20

	records, _, err := s.Repo.List(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Approvals"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, rec := range records {
		values := []interface{}{
			rec.ID,
			rec.ContentID,
			string(rec.Status),
			rec.QualityScore,
			string(rec.RoutingAction),
			string(rec.Priority),
			rec.AssignedRole,
			strOrEmpty(rec.AssignedTo),
			timeOrEmpty(rec.EscalationDeadline),
			rec.RejectionReason,
			rec.CreatedAt.Format("2006-01-02 15:04:05"),
			rec.UpdatedAt.Format("2006-01-02 15:04:05"),
		}
		for colIdx, val := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, val)
		}
	}

	for i := range exportColumns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 18)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("approvals_%s.xlsx", time.Now().Format("20060102_150405"))
	return buffer.Bytes(), filename, nil
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func timeOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
