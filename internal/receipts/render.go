package receipts

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// Renderer turns receipt data into the downloadable PDF.
type Renderer struct{}

// NewRenderer constructs a receipt renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render lays out the purchase receipt and returns the PDF bytes.
func (r *Renderer) Render(data *Data) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("receipt data required")
	}

	cfg := config.NewBuilder().Build()
	m := maroto.New(cfg)

	m.AddRow(18,
		text.NewCol(12, "SwiftShop", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
	)
	m.AddRow(10,
		text.NewCol(12, "RECIBO DE COMPRA", props.Text{
			Size:  12,
			Align: align.Center,
		}),
	)

	m.AddRow(8, text.NewCol(12, "Informações do Pedido", props.Text{Size: 11, Style: fontstyle.Bold}))
	m.AddRow(24,
		col.New(6).Add(
			text.New("Número do Pedido: "+fmt.Sprintf("#%d", data.OrderID), props.Text{Size: 10}),
			text.New("Data: "+data.OrderedAt.Format("02/01/2006 às 15:04"), props.Text{Size: 10, Top: 5}),
			text.New("Método de Pagamento: "+data.PaymentMethod, props.Text{Size: 10, Top: 10}),
			text.New("Status: Pago", props.Text{Size: 10, Top: 15}),
		),
		col.New(6),
	)

	m.AddRow(8, text.NewCol(12, "Informações do Cliente", props.Text{Size: 11, Style: fontstyle.Bold}))
	m.AddRow(24,
		col.New(12).Add(
			text.New("Nome: "+data.CustomerName, props.Text{Size: 10}),
			text.New("Email: "+data.CustomerEmail, props.Text{Size: 10, Top: 5}),
			text.New("Telefone: "+data.CustomerPhone, props.Text{Size: 10, Top: 10}),
			text.New("Endereço: "+data.ShippingAddress, props.Text{Size: 10, Top: 15}),
		),
	)

	m.AddRow(8, text.NewCol(12, "Produtos", props.Text{Size: 11, Style: fontstyle.Bold}))
	m.AddRow(8,
		text.NewCol(6, "Produto", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(2, "Qtd", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Preço Unit.", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Total", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
	)
	for _, item := range data.Items {
		m.AddRow(7,
			text.NewCol(6, item.ProductName, props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%d", item.Quantity), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, FormatCurrency(item.UnitPrice), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, FormatCurrency(item.LineTotal), props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(7,
		text.NewCol(10, "Subtotal:", props.Text{Size: 9, Align: align.Right}),
		text.NewCol(2, FormatCurrency(data.Subtotal), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(7,
		text.NewCol(10, "Frete:", props.Text{Size: 9, Align: align.Right}),
		text.NewCol(2, FormatCurrency(data.ShippingCost), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(9,
		text.NewCol(10, "TOTAL PAGO:", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, FormatCurrency(data.Total), props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
	)

	m.AddRow(12,
		text.NewCol(12, "SwiftShop - Sua loja online de confiança", props.Text{
			Size:  8,
			Align: align.Center,
			Top:   4,
		}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generating receipt pdf: %w", err)
	}
	return doc.GetBytes(), nil
}
