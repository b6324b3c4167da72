package domain

import "github.com/shopspring/decimal"

// Product описывает позицию меню, которую добавляют в корзину
type Product struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Image    string // опционально, ссылка на изображение
	Category string // опционально
}

func NewProduct(id, name string, price decimal.Decimal, image, category string) *Product {
	return &Product{
		ID:       id,
		Name:     name,
		Price:    price,
		Image:    image,
		Category: category,
	}
}
