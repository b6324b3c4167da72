package domain

// PaymentMethod — способ оплаты, выбранный клиентом
type PaymentMethod string

const (
	PaymentPix  PaymentMethod = "pix"
	PaymentCard PaymentMethod = "card"
	PaymentCash PaymentMethod = "cash"
)

var paymentLabels = map[PaymentMethod]string{
	PaymentPix:  "PIX",
	PaymentCard: "Cartão",
	PaymentCash: "Dinheiro",
}

// Label возвращает подпись способа оплаты для сообщения заказа
func (p PaymentMethod) Label() (string, bool) {
	label, ok := paymentLabels[p]
	return label, ok
}

// Address — адрес доставки
type Address struct {
	Street       string
	Number       string
	Complement   string
	Neighborhood string
	City         string
	State        string
	ZipCode      string
}

// Customer — данные клиента для оформления заказа
type Customer struct {
	Name          string
	Phone         string
	Email         string
	Address       *Address
	PaymentMethod PaymentMethod
}
