package disposal_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/disposal"
)

func qty(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func entry(stockID, reasonID, q int64) disposal.LineItemEntry {
	return disposal.LineItemEntry{StockID: stockID, ReasonID: reasonID, Qty: qty(q)}
}

func assertQty(t *testing.T, expected int64, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	msg := fmt.Sprintf("esperado %d, obtenido %s", expected, got.String())
	if len(msgAndArgs) > 0 {
		msg = fmt.Sprint(msgAndArgs...) + ": " + msg
	}
	assert.True(t, got.Equal(qty(expected)), msg)
}

// ──────────────────────────────────────────────────────────────────────────────
// GroupKey
// ──────────────────────────────────────────────────────────────────────────────

func TestGroupKey_Formato(t *testing.T) {
	assert.Equal(t, "1_5", disposal.GroupKey(1, 5))
	assert.Equal(t, "120_0", disposal.GroupKey(120, 0))
}

// ──────────────────────────────────────────────────────────────────────────────
// Aggregate
// ──────────────────────────────────────────────────────────────────────────────

// Ejemplo de referencia: dos buckets (1_5 con 5/1 y 1_6 con 4/0).
func TestAggregate_EjemploReferencia(t *testing.T) {
	discard := []disposal.LineItemEntry{entry(1, 5, 3), entry(1, 5, 2), entry(1, 6, 4)}
	received := []disposal.LineItemEntry{entry(1, 5, 1)}

	b := disposal.Aggregate(discard, received)

	require.Equal(t, 2, b.Len())
	assert.Equal(t, []string{"1_5", "1_6"}, b.Keys())

	first := b.Get("1_5")
	require.NotNil(t, first)
	assert.Equal(t, int64(1), first.StockID)
	assert.Equal(t, int64(5), first.ReasonID)
	assertQty(t, 5, first.DiscardQty)
	assertQty(t, 1, first.ReceivedQty)

	second := b.Get("1_6")
	require.NotNil(t, second)
	assertQty(t, 4, second.DiscardQty)
	assertQty(t, 0, second.ReceivedQty)
}

// Conservación: la suma de los buckets es igual a la suma de las entradas en cada lado.
func TestAggregate_ConservaTotales(t *testing.T) {
	cases := []struct {
		name     string
		discard  []disposal.LineItemEntry
		received []disposal.LineItemEntry
	}{
		{"vacío", nil, nil},
		{"solo descarte", []disposal.LineItemEntry{entry(1, 1, 7), entry(2, 1, 3)}, nil},
		{"solo recibido", nil, []disposal.LineItemEntry{entry(3, 2, 10), entry(3, 2, 10)}},
		{
			"mezcla con repetidos",
			[]disposal.LineItemEntry{entry(1, 1, 1), entry(2, 2, 2), entry(1, 1, 3), entry(4, 9, 0)},
			[]disposal.LineItemEntry{entry(2, 2, 5), entry(7, 1, 6), entry(1, 1, 1)},
		},
		{"negativos no se filtran", []disposal.LineItemEntry{entry(1, 1, -2), entry(1, 1, 5)}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := disposal.Aggregate(tc.discard, tc.received)

			var wantDiscard, wantReceived int64
			for _, e := range tc.discard {
				wantDiscard += e.Qty.IntPart()
			}
			for _, e := range tc.received {
				wantReceived += e.Qty.IntPart()
			}
			assertQty(t, wantDiscard, b.TotalDiscard(), "total descarte")
			assertQty(t, wantReceived, b.TotalReceived(), "total recibido")
		})
	}
}

// Un par (stock, motivo) repetido produce exactamente un bucket con las cantidades sumadas.
func TestAggregate_ParesRepetidosSeFusionan(t *testing.T) {
	discard := []disposal.LineItemEntry{entry(9, 3, 2), entry(9, 3, 2), entry(9, 3, 2)}
	received := []disposal.LineItemEntry{entry(9, 3, 4), entry(9, 3, 1)}

	b := disposal.Aggregate(discard, received)

	require.Equal(t, 1, b.Len())
	bucket := b.Get(disposal.GroupKey(9, 3))
	assertQty(t, 6, bucket.DiscardQty)
	assertQty(t, 5, bucket.ReceivedQty)
	assertQty(t, 11, bucket.Total())
}

// El orden de los buckets sigue la primera aparición: primero descarte, luego recibido.
func TestAggregate_OrdenPrimeraAparicion(t *testing.T) {
	discard := []disposal.LineItemEntry{entry(3, 1, 1), entry(1, 1, 1)}
	received := []disposal.LineItemEntry{entry(2, 1, 1), entry(3, 1, 1)}

	b := disposal.Aggregate(discard, received)

	assert.Equal(t, []string{"3_1", "1_1", "2_1"}, b.Keys())
	all := b.All()
	require.Len(t, all, 3)
	assert.Equal(t, int64(3), all[0].StockID)
	assert.Equal(t, int64(2), all[2].StockID)
}

func TestAggregate_MismoStockDistintoMotivo(t *testing.T) {
	b := disposal.Aggregate([]disposal.LineItemEntry{entry(1, 5, 1), entry(1, 6, 1)}, nil)
	assert.Equal(t, 2, b.Len())
	assert.Nil(t, b.Get("5_1"), "la clave es stock_motivo, no motivo_stock")
}
