package domain

import "github.com/shopspring/decimal"

// LineItem — одна позиция корзины. Quantity всегда >= 1: позиция с нулевым количеством удаляется.
type LineItem struct {
	ID        string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	Image     string
	Category  string
}

// Total возвращает стоимость позиции (цена × количество)
func (i LineItem) Total() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart — упорядоченный набор позиций без повторяющихся ID
type Cart struct {
	Items []LineItem
}

func NewEmptyCart() Cart {
	return Cart{Items: []LineItem{}}
}

// Find возвращает индекс позиции с данным ID или -1
func (c Cart) Find(id string) int {
	for i, item := range c.Items {
		if item.ID == id {
			return i
		}
	}

	return -1
}

// Without возвращает копию корзины без позиции с данным ID
func (c Cart) Without(id string) Cart {
	items := make([]LineItem, 0, len(c.Items))
	for _, item := range c.Items {
		if item.ID != id {
			items = append(items, item)
		}
	}

	return Cart{Items: items}
}

func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Total())
	}

	return total
}

// ItemCount считает сумму количеств, а не число различных позиций
func (c Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}

	return count
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Clone возвращает независимую копию позиций
func (c Cart) Clone() Cart {
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)

	return Cart{Items: items}
}
