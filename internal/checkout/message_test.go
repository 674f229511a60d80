package checkout

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noventicred/constrular/internal/domain"
)

func twoItemCart() []domain.LineItem {
	return []domain.LineItem{
		{ProductID: "p1", Name: "Tijolo", Quantity: 3, Price: 1.5},
		{ProductID: "p2", Name: "Tinta", Quantity: 1, Price: 89.9},
	}
}

func TestMessage_TwoItemCart(t *testing.T) {
	b := NewBuilder("Constrular", TemplatePlain)

	msg := b.Message(twoItemCart(), nil)

	assert.Contains(t, msg, "Tijolo")
	assert.Contains(t, msg, "3 x R$ 1,50 = R$ 4,50")
	assert.Contains(t, msg, "Tinta")
	assert.Contains(t, msg, "*Total: R$ 94,40*")
}

func TestMessage_BrandShownWhenPresent(t *testing.T) {
	b := NewBuilder("Constrular", TemplatePlain)

	msg := b.Message([]domain.LineItem{
		{ProductID: "p1", Name: "Cimento", Brand: "Votoran", Quantity: 2, Price: 32.5},
	}, nil)

	assert.Contains(t, msg, "Cimento (Votoran)")
	assert.Contains(t, msg, "2 x R$ 32,50 = R$ 65,00")
}

func TestMessage_EmptyCartIsStillValid(t *testing.T) {
	b := NewBuilder("Constrular", TemplatePlain)

	msg := b.Message(nil, nil)

	assert.Contains(t, msg, "Olá!")
	assert.Contains(t, msg, "*Total: R$ 0,00*")
	assert.Contains(t, msg, "Obrigado!")
}

func TestMessage_AddressBlock(t *testing.T) {
	b := NewBuilder("Constrular", TemplatePlain)
	addr := &domain.Address{
		Name:       "João Pereira",
		Phone:      "(15) 99888-7766",
		Street:     "Rua das Obras",
		Number:     "123",
		Complement: "fundos",
		City:       "Sorocaba",
		State:      "SP",
		PostalCode: "18040-000",
	}

	msg := b.Message(twoItemCart(), addr)

	assert.Contains(t, msg, "*Endereço de entrega:*")
	assert.Contains(t, msg, "Nome: João Pereira")
	assert.Contains(t, msg, "Endereço: Rua das Obras, 123 - fundos")
	assert.Contains(t, msg, "Cidade: Sorocaba - SP")
	assert.Contains(t, msg, "CEP: 18040-000")
}

func TestMessage_NoAddress_NoAddressBlock(t *testing.T) {
	b := NewBuilder("Constrular", TemplatePlain)

	msg := b.Message(twoItemCart(), nil)

	assert.NotContains(t, msg, "Endereço de entrega")
}

func TestMessage_EmojiTemplate(t *testing.T) {
	b := NewBuilder("Constrular", TemplateEmoji)

	msg := b.Message(twoItemCart(), nil)

	assert.Contains(t, msg, "🛒 *Novo pedido - Constrular*")
	assert.Contains(t, msg, "📦 Tijolo")
	assert.Contains(t, msg, "💰 *Total: R$ 94,40*")
}

func TestMessage_DoesNotMutateItems(t *testing.T) {
	b := NewBuilder("Constrular", TemplatePlain)
	items := twoItemCart()

	b.Message(items, nil)

	assert.Equal(t, twoItemCart(), items)
}

func TestLink_EncodesMessageAndStripsPhone(t *testing.T) {
	b := NewBuilder("Constrular", TemplatePlain)
	msg := b.Message(twoItemCart(), nil)

	link := Link("+55 (15) 99777-0000", msg)

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "api.whatsapp.com", parsed.Host)
	assert.Equal(t, "/send", parsed.Path)
	assert.Equal(t, "5515997770000", parsed.Query().Get("phone"))

	decoded := parsed.Query().Get("text")
	assert.Contains(t, decoded, "Tijolo")
	assert.Contains(t, decoded, "3")
	assert.Contains(t, decoded, "Tinta")
	assert.Contains(t, decoded, "94,40")
	// the raw link carries no unencoded message text
	assert.False(t, strings.Contains(link, "Total: R$"))
}
