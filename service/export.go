package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"daily/models"

	"github.com/xuri/excelize/v2"
)

// 导出格式
const (
	ExportCSV  = "csv"
	ExportXLSX = "xlsx"
)

const exportTimeLayout = "2006-01-02 15:04:05"

var billExportHeaders = []string{"ID", "名称", "金额", "类别", "描述", "标签", "消费时间", "创建时间"}

func billExportRow(b models.Bill) []string {
	category := ""
	if b.Category != nil {
		category = b.Category.Name
	}
	return []string{
		b.ID,
		b.OrderName,
		fmt.Sprintf("%.2f", b.Amount),
		category,
		b.Description,
		strings.Join(b.Tags, ","),
		b.SpendingTime.Format(exportTimeLayout),
		b.CreatedAt.Format(exportTimeLayout),
	}
}

// WriteBillsCSV 导出账单为 CSV（带 BOM，Excel 可直接打开中文）
func WriteBillsCSV(w io.Writer, bills []models.Bill) error {
	if _, err := io.WriteString(w, "\xEF\xBB\xBF"); err != nil {
		return err
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(billExportHeaders); err != nil {
		return err
	}
	for _, b := range bills {
		if err := writer.Write(billExportRow(b)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteBillsXLSX 导出账单为 Excel，末行为合计
func WriteBillsXLSX(w io.Writer, bills []models.Bill) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "账单"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	widths := []float64{38, 20, 12, 12, 30, 20, 20, 20}
	for i, width := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, width)
	}

	for i, header := range billExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	var total float64
	for i, b := range bills {
		row := billExportRow(b)
		for j, value := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if j == 2 {
				// 金额按数字写入，便于 Excel 求和
				f.SetCellValue(sheetName, cell, b.Amount)
				continue
			}
			f.SetCellValue(sheetName, cell, value)
		}
		total += b.Amount
	}

	totalRow := len(bills) + 2
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", totalRow), "合计")
	f.SetCellValue(sheetName, fmt.Sprintf("C%d", totalRow), round2(total))
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("C%d", totalRow), headerStyle)

	return f.Write(w)
}
