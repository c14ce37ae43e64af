package domain

// PaymentMethod is the fixed set of methods a sale can be closed with.
type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentPOS   PaymentMethod = "pos"
	PaymentMPesa PaymentMethod = "mpesa"
	PaymentEMola PaymentMethod = "emola"
)

var paymentLabels = map[PaymentMethod]string{
	PaymentCash:  "Cash",
	PaymentPOS:   "POS",
	PaymentMPesa: "M-Pesa",
	PaymentEMola: "E-Mola",
}

// Valid reports whether m is one of the enumerated payment methods.
func (m PaymentMethod) Valid() bool {
	_, ok := paymentLabels[m]
	return ok
}

// Label returns the method name as printed on receipts.
// Unknown methods fall back to the raw value.
func (m PaymentMethod) Label() string {
	if l, ok := paymentLabels[m]; ok {
		return l
	}
	return string(m)
}

// PaymentMethods lists the accepted methods in display order.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentCash, PaymentPOS, PaymentMPesa, PaymentEMola}
}
