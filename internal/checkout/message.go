package checkout

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/noventicred/constrular/internal/domain"
)

// Template selects the hand-off message formatting. The storefront and
// the older order flow formatted the message differently; both survive
// here, with plain as the default.
type Template string

const (
	TemplatePlain Template = "plain"
	TemplateEmoji Template = "emoji"
)

// Builder renders the cart into the WhatsApp hand-off text. It is pure:
// it never touches cart state and performs no I/O.
type Builder struct {
	storeName string
	template  Template
}

func NewBuilder(storeName string, template Template) *Builder {
	if template != TemplateEmoji {
		template = TemplatePlain
	}
	return &Builder{storeName: storeName, template: template}
}

// Message builds the full hand-off text: greeting, one block per line
// item, grand total, optional address block and a closing line. An empty
// cart still yields a valid message with a zero total; suppressing
// checkout on empty carts is the caller's job.
func (b *Builder) Message(items []domain.LineItem, addr *domain.Address) string {
	var sb strings.Builder

	total := decimal.Zero
	for _, it := range items {
		total = total.Add(subtotal(it))
	}

	if b.template == TemplateEmoji {
		sb.WriteString("🛒 *Novo pedido - " + b.storeName + "*\n\n")
		for _, it := range items {
			sb.WriteString("📦 " + itemTitle(it) + "\n")
			sb.WriteString("   Qtd: " + itemMath(it) + "\n")
		}
		sb.WriteString("\n💰 *Total: " + formatBRL(total) + "*\n")
		if addr != nil {
			sb.WriteString("\n📍 *Endereço de entrega:*\n")
			writeAddress(&sb, addr)
		}
		sb.WriteString("\n✅ Aguardo a confirmação do pedido. Obrigado!")
		return sb.String()
	}

	sb.WriteString("Olá! Gostaria de fazer um pedido na " + b.storeName + ":\n\n")
	for _, it := range items {
		sb.WriteString("- " + itemTitle(it) + "\n")
		sb.WriteString("  " + itemMath(it) + "\n")
	}
	sb.WriteString("\n*Total: " + formatBRL(total) + "*\n")
	if addr != nil {
		sb.WriteString("\n*Endereço de entrega:*\n")
		writeAddress(&sb, addr)
	}
	sb.WriteString("\nAguardo a confirmação do pedido. Obrigado!")
	return sb.String()
}

func itemTitle(it domain.LineItem) string {
	if it.Brand != "" {
		return it.Name + " (" + it.Brand + ")"
	}
	return it.Name
}

func itemMath(it domain.LineItem) string {
	qty := decimal.NewFromInt(int64(it.Quantity))
	return qty.String() + " x " + formatBRL(decimal.NewFromFloat(it.Price)) + " = " + formatBRL(subtotal(it))
}

func subtotal(it domain.LineItem) decimal.Decimal {
	return decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
}

func writeAddress(sb *strings.Builder, addr *domain.Address) {
	sb.WriteString("Nome: " + addr.Name + "\n")
	if addr.Phone != "" {
		sb.WriteString("Telefone: " + addr.Phone + "\n")
	}
	line := addr.Street + ", " + addr.Number
	if addr.Complement != "" {
		line += " - " + addr.Complement
	}
	sb.WriteString("Endereço: " + line + "\n")
	sb.WriteString("Cidade: " + addr.City + " - " + addr.State + "\n")
	sb.WriteString("CEP: " + addr.PostalCode + "\n")
}

// formatBRL renders a value in the store's currency convention, comma
// as the decimal separator.
func formatBRL(v decimal.Decimal) string {
	return "R$ " + strings.ReplaceAll(v.StringFixed(2), ".", ",")
}
