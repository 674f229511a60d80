package domain

// Settings are the operator-managed store-wide knobs. WhatsAppNumber is
// the checkout hand-off destination, digits only with country code.
type Settings struct {
	StoreName       string  `json:"store_name"`
	WhatsAppNumber  string  `json:"whatsapp_number"`
	FreeShippingMin float64 `json:"free_shipping_min"`
	ShippingFee     float64 `json:"shipping_fee"`
}
