package ingest

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "ID кампании,Источник трафика,Артикул WB,Название товара,Дата,Показы,Клики,CTR %,\"Затраты, ₽\",Добавления в корзину,\"Заказано товаров, шт\",\"Заказано на сумму, ₽\""

func TestParseAdsCSV(t *testing.T) {
	text := "\uFEFF" + header + "\r\n" +
		"C-1,search,123,\"Dress \"\"Summer\"\"\",01.02.2024,1000,20,\"2,0\",\"200,5\",5,1,2000\r\n" +
		"C-1,search,123,Dress,2024-02-02,500,\"1 234\",1,100,0,0,0\n" +
		"C-1,search,,No id,2024-02-02,1,1,1,1,1,1,1\n" +
		"C-1,search,456,No date,,1,1,1,1,1,1,1\n"

	rows, dropped, err := parseAdsCSV(text)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, dropped)

	r := rows[0]
	assert.Equal(t, "C-1", r.CampaignID)
	assert.Equal(t, "search", r.TrafficSource)
	assert.Equal(t, "123", r.ProductID)
	assert.Equal(t, `Dress "Summer"`, r.ProductName)
	assert.Equal(t, "2024-02-01", r.Date)
	assert.Equal(t, int64(1000), r.Impressions)
	assert.Equal(t, int64(20), r.Clicks)
	assert.Equal(t, 2.0, r.CTR)
	assert.True(t, r.Spend.Equal(decimal.RequireFromString("200.5")))
	assert.Equal(t, int64(5), r.CartAdds)
	assert.Equal(t, int64(1), r.Orders)
	assert.True(t, r.Revenue.Equal(decimal.NewFromInt(2000)))

	assert.Equal(t, int64(1234), rows[1].Clicks)
	assert.Equal(t, "2024-02-02", rows[1].Date)
}

func TestParseAdsCSVOptionalColumnsAndGarbage(t *testing.T) {
	text := "ID кампании,Источник трафика,Артикул WB,Дата,Показы,Клики,\"Затраты, ₽\",\"Заказано на сумму, ₽\"\n" +
		"C-1,search,123,2024-01-01,abc,10,x,7\n"
	rows, err := ParseAdsCSV(text)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(0), rows[0].Impressions)
	assert.True(t, rows[0].Spend.IsZero())
	assert.Equal(t, int64(0), rows[0].CartAdds)
	assert.Equal(t, "", rows[0].ProductName)
}

func TestParseAdsCSVMissingHeaders(t *testing.T) {
	_, err := ParseAdsCSV("Артикул WB,Дата\n1,2024-01-01\n")
	require.ErrorIs(t, err, ErrMissingHeaders)
	assert.Contains(t, err.Error(), "ID кампании")
	assert.Contains(t, err.Error(), "Заказано на сумму, ₽")
	assert.NotContains(t, err.Error(), "Артикул WB,")
}

func TestParseAdsCSVHeaderOnly(t *testing.T) {
	rows, err := ParseAdsCSV(header + "\n")
	require.NoError(t, err)
	require.NotNil(t, rows)
	assert.Empty(t, rows)

	rows, err = ParseAdsCSV(strings.Repeat(" ", 3))
	require.NoError(t, err)
	assert.Empty(t, rows)
}
