package service

import (
	"io"
	"strconv"
	"strings"

	"github.com/tealeg/xlsx"
)

var exportHeaders = []string{
	"Order ID", "Placed", "Customer", "Email", "Phone", "Address",
	"Items", "Total", "Payment", "Payment Status", "Order Status", "Tracking ID",
}

// ExportSeller writes the seller's order view as an xlsx workbook.
func (s *OrderService) ExportSeller(email string, w io.Writer) error {
	orders, err := s.ListBySeller(email)
	if err != nil {
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return err
	}

	header := sheet.AddRow()
	for _, h := range exportHeaders {
		header.AddCell().SetValue(h)
	}

	for _, o := range orders {
		items := make([]string, 0, len(o.Items))
		for _, l := range o.Items {
			items = append(items, l.Name+" x"+strconv.Itoa(l.Quantity))
		}

		row := sheet.AddRow()
		row.AddCell().SetInt(o.ID)
		row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetValue(o.UserName)
		row.AddCell().SetValue(o.UserEmail)
		row.AddCell().SetValue(o.UserPhone)
		row.AddCell().SetValue(o.UserAddress)
		row.AddCell().SetValue(strings.Join(items, ", "))
		row.AddCell().SetValue(o.Total.StringFixed(2))
		row.AddCell().SetValue(o.PaymentMethod)
		row.AddCell().SetValue(o.PaymentStatus)
		row.AddCell().SetValue(o.OrderStatus)
		row.AddCell().SetValue(o.TrackingID)
	}

	return file.Write(w)
}
