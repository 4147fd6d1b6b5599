package pdf

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/entity"
)

func TestFormatQty(t *testing.T) {
	cases := map[string]string{
		"0":       "0",
		"25000":   "25.000",
		"1000000": "1.000.000",
		"1500.5":  "1.500,5",
		"-1234":   "-1.234",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatQty(decimal.RequireFromString(in)), in)
	}
}

func TestGenerateShipmentManifest(t *testing.T) {
	exp := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s := &entity.DisposalShipment{
		ID: "sh-1", SenderID: "ent-a", ReceiverID: "ent-b", Status: entity.ShipmentStatusShipped,
		ReportNumber: "BA-001", ShippedAt: time.Now(),
		Items: []entity.DisposalItem{{
			MaterialID: 7, TotalQty: decimal.NewFromInt(6),
			Stocks: []entity.DisposalItemStock{
				{StockID: 1, ReasonID: 21, Batch: &entity.Batch{Code: "B-1", ExpiredDate: &exp},
					DiscardQty: decimal.NewFromInt(5), ReceivedQty: decimal.NewFromInt(1)},
				{StockID: 2, ReasonID: 22, DiscardQty: decimal.NewFromInt(0), ReceivedQty: decimal.NewFromInt(0)},
			},
		}},
	}
	pdf, err := NewMarotoManifestGenerator().GenerateShipmentManifest(s, map[int64]*entity.Material{7: {ID: 7, Name: "BCG"}})
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestGenerateShipmentManifest_Nil(t *testing.T) {
	_, err := NewMarotoManifestGenerator().GenerateShipmentManifest(nil, nil)
	assert.Error(t, err)
}
