package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/om_console/internal/models"
)

func TestFilename(t *testing.T) {
	day := time.Date(2024, 3, 9, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, "Inventory_Backup_2024-03-09.csv", Filename(EntityInventory, day))
	assert.Equal(t, "Sales_Record_2024-03-09.csv", Filename(EntitySales, day))
}

func TestInventoryCSVHasOneLinePerItem(t *testing.T) {
	created := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	items := []models.InventoryItem{
		{ID: 1, Name: "Samsung A15", Category: "Android", Stock: 3, CostPrice: models.NewMoney(18000), Price: models.NewMoney(21000), CreatedAt: created},
		{ID: 2, Name: "Nokia 105", Category: "Keypad", Stock: 10, Price: models.MustMoney("2500.50"), CreatedAt: created},
		{ID: 3, Name: "Type-C Cable", Category: "Accessories", Stock: 0, Price: models.NewMoney(150)},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteInventoryCSV(&buf, items))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, len(items)+1)
	header := strings.Split(lines[0], ",")
	for _, line := range lines[1:] {
		assert.Len(t, strings.Split(line, ","), len(header))
	}
	assert.Equal(t, "2,Nokia 105,Keypad,10,0,2500.5,2024-01-02", lines[2])
	assert.Equal(t, "3,Type-C Cable,Accessories,0,0,150,", lines[3])
}

func TestSalesCSVEscapesFreeText(t *testing.T) {
	sales := []models.SaleRecord{
		{
			ItemName: `Charger "Fast", 25W`, ItemCategory: "Charger", Quantity: 2,
			UnitPrice: models.NewMoney(800), TotalPrice: models.NewMoney(1600),
			SaleType: models.SaleRetail, PaymentMethod: models.PaymentFonepay,
			CustomerName: "Sita, Kathmandu", CustomerPhone: "9812345678",
			SaleDate: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		},
		{ItemName: "Redmi 13C", ItemCategory: "Android", Quantity: 1, IMEINumber: "356789012345678",
			UnitPrice: models.NewMoney(17000), TotalPrice: models.NewMoney(17000),
			SaleType: models.SaleWholesale, PaymentMethod: models.PaymentCash},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSalesCSV(&buf, sales))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, salesHeader, records[0])
	for _, r := range records {
		assert.Len(t, r, len(salesHeader))
	}
	assert.Equal(t, `Charger "Fast", 25W`, records[1][3])
	assert.Equal(t, "Sita, Kathmandu", records[1][1])
	assert.Equal(t, "Guest", records[2][1])
	assert.Equal(t, "356789012345678", records[2][6])
	assert.Equal(t, "Wholesale", records[2][5])
}
