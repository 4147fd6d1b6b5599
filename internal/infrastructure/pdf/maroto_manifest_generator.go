// Package pdf genera el manifiesto de envío de material de disposición.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + N° de acta  │  Estado + Fecha de envío     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ENTIDADES: Emisor / Receptor                                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Material | Lote | Vence | Motivo | Desc. | Rec.      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL + QR del envío + firmas                               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/disposal"
	"github.com/jhoicas/Logistica-vacunas-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 105, Blue: 92}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoManifestGenerator implementa disposal.ManifestGenerator usando Maroto v2.
type MarotoManifestGenerator struct {
	// Title encabezado del documento.
	Title string
}

// NewMarotoManifestGenerator construye el generador.
func NewMarotoManifestGenerator() *MarotoManifestGenerator {
	return &MarotoManifestGenerator{Title: "BERITA ACARA PENGIRIMAN LIMBAH VAKSIN"}
}

// GenerateShipmentManifest genera el PDF y devuelve sus bytes.
func (g *MarotoManifestGenerator) GenerateShipmentManifest(
	s *entity.DisposalShipment,
	materials map[int64]*entity.Material,
) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("pdf: envío nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(g.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.Title, s))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(s))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(s.Items, materials)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(disposal.TotalQty(s.Items)))
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(s))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title string, s *entity.DisposalShipment) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
			}),
			text.New("No. "+nonEmpty(s.ReportNumber, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(strings.ToUpper(s.Status), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Dikirim: "+s.ShippedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func partiesRow(s *entity.DisposalShipment) core.Row {
	party := func(label, id string) core.Col {
		return col.New(6).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(id, props.Text{Size: 8, Top: 6, Color: colorGray}),
		)
	}
	rows := row.New(12).Add(
		party("PENGIRIM", s.SenderID),
		party("PENERIMA", s.ReceiverID),
	)
	return rows
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Material", 4, align.Left),
		h("Batch", 2, align.Left),
		h("Kedaluwarsa", 2, align.Center),
		h("Alasan", 1, align.Center),
		h("Buang", 1, align.Right),
		h("Terima", 1, align.Right),
		h("Total", 1, align.Right),
	)
}

// tableDetailRows una fila por (stock, motivo) de cada material.
func tableDetailRows(items []entity.DisposalItem, materials map[int64]*entity.Material) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	var out []core.Row
	for _, it := range items {
		name := fmt.Sprintf("#%d", it.MaterialID)
		if m := materials[it.MaterialID]; m != nil {
			name = m.Name
		}
		for _, st := range it.Stocks {
			batch, expiry := "—", "—"
			if st.Batch != nil {
				batch = st.Batch.Code
				if st.Batch.ExpiredDate != nil {
					expiry = st.Batch.ExpiredDate.Format("02/01/2006")
				}
			}
			out = append(out, row.New(7).Add(
				cell(name, 4, align.Left),
				cell(batch, 2, align.Left),
				cell(expiry, 2, align.Center),
				cell(fmt.Sprintf("%d", st.ReasonID), 1, align.Center),
				cell(formatQty(st.DiscardQty), 1, align.Right),
				cell(formatQty(st.ReceivedQty), 1, align.Right),
				cell(formatQty(st.DiscardQty.Add(st.ReceivedQty)), 1, align.Right),
			))
		}
	}
	return out
}

func totalRow(total decimal.Decimal) core.Row {
	return row.New(10).Add(
		col.New(9).Add(text.New("TOTAL", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 2,
		})),
		col.New(3).Add(text.New(formatQty(total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

// footerRow QR con el id del envío (el receptor lo escanea al recibir) + espacios de firma.
func footerRow(s *entity.DisposalShipment) core.Row {
	sign := func(label string) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray}),
			text.New("(______________________)", props.Text{Size: 8, Align: align.Center, Top: 28}),
		)
	}
	return row.New(40).Add(
		col.New(4).Add(code.NewQr(s.ID, props.Rect{Percent: 90, Center: true})),
		sign("Pengirim"),
		sign("Penerima"),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatQty inserta puntos de miles en la parte entera y conserva hasta 2 decimales.
// Ej: 25000 → "25.000", 1500.5 → "1.500,5"
func formatQty(d decimal.Decimal) string {
	s := d.Round(2).String()
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")

	n := len(intPart)
	buf := make([]byte, 0, n+n/3+len(frac)+2)
	if neg {
		buf = append(buf, '-')
	}
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	if frac != "" {
		buf = append(buf, ',')
		buf = append(buf, frac...)
	}
	return string(buf)
}
