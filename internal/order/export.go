package order

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportXLSX renders the order book as a spreadsheet for the admin
// dashboard download.
func ExportXLSX(orders []Order) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Orders"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Order ID", "User ID", "Total", "Paid", "Paid At", "Delivered", "Delivered At", "Created At"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	fmtTime := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02 15:04")
	}

	for i, o := range orders {
		row := i + 2
		values := []interface{}{
			o.ID.String(),
			o.UserID.String(),
			fmt.Sprintf("%.2f", o.TotalPrice),
			o.IsPaid,
			fmtTime(o.PaidAt),
			o.IsDelivered,
			fmtTime(o.DeliveredAt),
			o.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}
