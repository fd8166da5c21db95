// Package pdf implementa la representación imprimible de los documentos de
// operación de activos: el acta de entrega de una solicitud completada y el
// comprobante de devolución verificada de un préstamo.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la empresa  │  N° Documento + Fecha      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PARTES: solicitante / entregado por                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: ítems entregados o activos devueltos                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FIRMAS: recibe / entrega                                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
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

	"github.com/jhoicas/activos-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoDocGenerator genera los PDF de actas y comprobantes usando Maroto v2.
type MarotoDocGenerator struct {
	companyName string
}

// NewMarotoDocGenerator construye el generador con el nombre de la empresa para el encabezado.
func NewMarotoDocGenerator(companyName string) *MarotoDocGenerator {
	return &MarotoDocGenerator{companyName: companyName}
}

// GenerateHandoverPDF genera el acta de entrega de una solicitud completada
// con sus ítems y cantidades registradas.
func (g *MarotoDocGenerator) GenerateHandoverPDF(_ context.Context, r *entity.Request) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Acta de Entrega de Activos", true).
		WithAuthor(g.companyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow("ACTA DE ENTREGA", r.DocNumber, r.UpdatedAt.Format("02/01/2006")))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow("Solicitante", r.Requester, "División", nonEmpty(r.Division, "—")))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(itemTableHeaderRow())
	for _, it := range r.Items {
		m.AddRows(itemTableRow(it, r.PartiallyRegistered[it.ItemID]))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(signaturesRow("Recibe", "Entrega"))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar acta: %w", err)
	}
	return doc.GetBytes(), nil
}

// GenerateReturnReceiptPDF genera el comprobante de una devolución verificada.
func (g *MarotoDocGenerator) GenerateReturnReceiptPDF(_ context.Context, ret *entity.AssetReturn, loan *entity.LoanRequest) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de Devolución", true).
		WithAuthor(g.companyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow("COMPROBANTE DE DEVOLUCIÓN", ret.DocNumber, ret.UpdatedAt.Format("02/01/2006")))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	verifier := "—"
	if ret.VerifiedBy != nil {
		verifier = *ret.VerifiedBy
	}
	m.AddRows(partiesRow("Devuelve", loan.Requester, "Verifica", verifier))
	m.AddRows(row.New(6).Add(col.New(12).Add(
		text.New("Préstamo: "+loan.DocNumber, props.Text{Size: 8, Color: colorGray, Top: 1}),
	)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(returnTableHeaderRow())
	for _, it := range ret.Items {
		m.AddRows(returnTableRow(it))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(signaturesRow("Devuelve", "Verifica"))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: empresa (izq) y tipo de documento + número + fecha (der).
func (g *MarotoDocGenerator) headerRow(docTitle, docNumber, fecha string) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.companyName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Gestión de Activos y Logística", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(docTitle, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(docNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// partiesRow: dos pares etiqueta/valor en una fila.
func partiesRow(label1, value1, label2, value2 string) core.Row {
	pair := func(label, value string) []core.Component {
		return []core.Component{
			text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(value, props.Text{Size: 10, Top: 6}),
		}
	}
	return row.New(12).Add(
		col.New(6).Add(pair(label1, value1)...),
		col.New(6).Add(pair(label2, value2)...),
	)
}

func itemTableHeaderRow() core.Row {
	return row.New(8).Add(
		tableHeader("Ítem", 5, align.Left),
		tableHeader("Marca", 3, align.Left),
		tableHeader("Cantidad", 2, align.Center),
		tableHeader("Entregado", 2, align.Center),
	)
}

func itemTableRow(it entity.RequestItem, registered int) core.Row {
	return row.New(7).Add(
		tableCell(it.Name, 5, align.Left),
		tableCell(nonEmpty(it.Brand, "—"), 3, align.Left),
		tableCell(fmt.Sprintf("%d", it.TargetQuantity()), 2, align.Center),
		tableCell(fmt.Sprintf("%d", registered), 2, align.Center),
	)
}

func returnTableHeaderRow() core.Row {
	return row.New(8).Add(
		tableHeader("Activo", 3, align.Left),
		tableHeader("Descripción", 4, align.Left),
		tableHeader("Condición reportada", 3, align.Center),
		tableHeader("Resultado", 2, align.Center),
	)
}

func returnTableRow(it entity.ReturnItem) core.Row {
	return row.New(7).Add(
		tableCell(it.AssetID, 3, align.Left),
		tableCell(nonEmpty(it.Name, "—"), 4, align.Left),
		tableCell(string(it.ReturnedCondition), 3, align.Center),
		tableCell(string(it.Status), 2, align.Center),
	)
}

// signaturesRow: dos líneas de firma con sus rótulos.
func signaturesRow(left, right string) core.Row {
	sign := func(label string) []core.Component {
		return []core.Component{
			text.New("______________________________", props.Text{
				Size: 9, Align: align.Center, Top: 8,
			}),
			text.New(label, props.Text{
				Size: 8, Align: align.Center, Top: 14, Color: colorGray,
			}),
		}
	}
	return row.New(20).Add(
		col.New(6).Add(sign(left)...),
		col.New(6).Add(sign(right)...),
	)
}

func tableHeader(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a,
		Color: colorPrimary, Top: 2, Left: 1, Right: 1,
	}))
}

func tableCell(value string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(value, props.Text{
		Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
	}))
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
