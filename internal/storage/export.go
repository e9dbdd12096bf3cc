package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"order-relay-bot/pkg/models"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Orders"

var exportHeaders = []string{
	"ID", "User ID", "Source", "Side One", "Side Two", "Status", "Created At",
}

// ExportOrdersToExcel writes orders into a new xlsx file under dir and
// returns its path.
func ExportOrdersToExcel(orders []models.Order, dir string) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	// NewFile always starts with Sheet1
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return "", fmt.Errorf("failed to create sheet: %w", err)
	}

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(exportSheet, cell, header)
	}

	for row, order := range orders {
		var userID any = ""
		if order.UserID != nil {
			userID = *order.UserID
		}
		data := []any{
			order.ID,
			userID,
			string(order.Source),
			order.SideOne,
			order.SideTwo,
			string(order.Status),
			order.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, value := range data {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(exportSheet, cell, value)
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		lastHeader, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
		f.SetCellStyle(exportSheet, "A1", lastHeader, style)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("orders_report_%s.xlsx", time.Now().Format("20060102_150405")))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save Excel file: %w", err)
	}

	return path, nil
}
