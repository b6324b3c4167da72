package ws

import "strconv"

// Элементы страницы, которые отражают количество товаров в корзине
var badgeSelectors = []string{"#cartCount", ".cart-count", ".cart-badge"}

const (
	floatingCartSelector = "#floatingCart"
	hasItemsClass        = "has-items"
)

// UIPatch — изменение одного элемента страницы. Клиент применяет патчи как есть.
type UIPatch struct {
	Selector string `json:"selector"`
	Text     string `json:"text,omitempty"`
	Display  string `json:"display,omitempty"`
	Class    string `json:"class,omitempty"`
	ClassOn  bool   `json:"classOn"`
}

// BadgePatches пересчитывает счётчики корзины и плавающую кнопку для количества товаров
func BadgePatches(itemCount int) []UIPatch {
	display := "none"
	if itemCount > 0 {
		display = "block"
	}

	patches := make([]UIPatch, 0, len(badgeSelectors)+1)
	for _, sel := range badgeSelectors {
		patches = append(patches, UIPatch{
			Selector: sel,
			Text:     strconv.Itoa(itemCount),
			Display:  display,
		})
	}

	patches = append(patches, UIPatch{
		Selector: floatingCartSelector,
		Class:    hasItemsClass,
		ClassOn:  itemCount > 0,
	})

	return patches
}
