package usecase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/DRSN-tech/futburguer-cart/internal/domain"
	"github.com/shopspring/decimal"
)

// lineItemRecord — формат позиции в хранилище. Цена пишется JSON-числом.
type lineItemRecord struct {
	ID       flexibleID  `json:"id"`
	Name     string      `json:"name"`
	Price    json.Number `json:"price"`
	Quantity int         `json:"quantity"`
	Image    string      `json:"image"`
	Category string      `json:"category"`
}

// flexibleID принимает идентификатор как строкой, так и числом.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("unexpected product id %s", string(data))
	}
	*f = flexibleID(n.String())

	return nil
}

// encodeCart сериализует корзину в текст для хранилища.
func encodeCart(cart domain.Cart) (string, error) {
	records := make([]lineItemRecord, 0, len(cart.Items))
	for _, item := range cart.Items {
		records = append(records, lineItemRecord{
			ID:       flexibleID(item.ID),
			Name:     item.Name,
			Price:    json.Number(item.UnitPrice.String()),
			Quantity: item.Quantity,
			Image:    item.Image,
			Category: item.Category,
		})
	}

	data, err := json.Marshal(records)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// decodeCart разбирает текст из хранилища. Каждая позиция разбирается отдельно: нечитаемые,
// без ID или с количеством < 1 отбрасываются, чтобы инвариант quantity >= 1 держался и для повреждённых данных.
func decodeCart(raw string) (domain.Cart, []string, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		return domain.NewEmptyCart(), nil, err
	}

	var (
		cart    = domain.NewEmptyCart()
		skipped []string
	)
	for i, elem := range elems {
		var rec lineItemRecord
		if err := json.Unmarshal(elem, &rec); err != nil {
			skipped = append(skipped, fmt.Sprintf("#%d(%v)", i, err))
			continue
		}

		id := strings.TrimSpace(string(rec.ID))
		if id == "" || rec.Quantity < 1 || cart.Find(id) >= 0 {
			skipped = append(skipped, fmt.Sprintf("#%d(%s)", i, id))
			continue
		}

		price := decimal.Zero
		if rec.Price != "" {
			p, err := decimal.NewFromString(rec.Price.String())
			if err != nil || p.IsNegative() {
				skipped = append(skipped, fmt.Sprintf("#%d(%s)", i, id))
				continue
			}
			price = p
		}

		cart.Items = append(cart.Items, domain.LineItem{
			ID:        id,
			Name:      rec.Name,
			UnitPrice: price,
			Quantity:  rec.Quantity,
			Image:     rec.Image,
			Category:  rec.Category,
		})
	}

	return cart, skipped, nil
}
