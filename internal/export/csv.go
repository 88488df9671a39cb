package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/GTDGit/om_console/internal/models"
)

const dateLayout = "2006-01-02"

// Entity names used in download filenames.
const (
	EntityInventory = "Inventory_Backup"
	EntitySales     = "Sales_Record"
)

var (
	inventoryHeader = []string{"ID", "Item Name", "Category", "Stock", "Cost Price", "Selling Price", "Date Added"}
	salesHeader     = []string{
		"Date", "Customer Name", "Phone", "Item Name", "Category", "Sale Type",
		"IMEI", "Unit Price", "Quantity", "Total Price", "Payment Method",
	}
)

// Filename returns the download name <entity>_<YYYY-MM-DD>.csv.
func Filename(entity string, t time.Time) string {
	return fmt.Sprintf("%s_%s.csv", entity, t.Format(dateLayout))
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// WriteInventoryCSV writes the full inventory, one row per item. Every field
// is quoted as needed, so names with commas or quotes survive a round trip.
func WriteInventoryCSV(w io.Writer, items []models.InventoryItem) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(inventoryHeader); err != nil {
		return err
	}
	for _, item := range items {
		if err := writer.Write([]string{
			strconv.Itoa(item.ID),
			item.Name,
			item.Category,
			strconv.Itoa(item.Stock),
			item.CostPrice.String(),
			item.Price.String(),
			formatDate(item.CreatedAt),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteSalesCSV writes the sales ledger. Walk-in sales without a customer
// name are exported as Guest.
func WriteSalesCSV(w io.Writer, sales []models.SaleRecord) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(salesHeader); err != nil {
		return err
	}
	for _, s := range sales {
		if err := writer.Write([]string{
			formatDate(s.SaleDate),
			s.CustomerLabel(),
			s.CustomerPhone,
			s.ItemName,
			s.ItemCategory,
			string(s.SaleType),
			s.IMEINumber,
			s.UnitPrice.String(),
			strconv.Itoa(s.Quantity),
			s.TotalPrice.String(),
			string(s.PaymentMethod),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
