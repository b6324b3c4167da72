package e

import "fmt"

var (
	// Ошибки хранилища корзины
	ErrStorageUnavailable = fmt.Errorf("cart storage unavailable")
	ErrCartSerialization  = fmt.Errorf("cart serialization failed")

	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Ошибки конфигурации
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")
	ErrUnknownStorageDriver = fmt.Errorf("unknown storage driver")

	// 400 Bad Request
	ErrStatusBadRequest      = fmt.Errorf("bad request")
	ErrProductIDRequired     = fmt.Errorf("product id is required")
	ErrProductNameRequired   = fmt.Errorf("product name is required")
	ErrInvalidPrice          = fmt.Errorf("price must be a non-negative amount")
	ErrInvalidQuantity       = fmt.Errorf("quantity must be an integer")
	ErrInvalidAmount         = fmt.Errorf("amount must be a non-negative number")
	ErrCustomerNameRequired  = fmt.Errorf("customer name is required")
	ErrCustomerPhoneRequired = fmt.Errorf("customer phone is required")
	ErrUnknownPaymentMethod  = fmt.Errorf("unknown payment method")

	// 401 Unauthorized
	ErrInvalidToken = fmt.Errorf("invalid token")

	// 404 Not Found
	ErrProductNotFound = fmt.Errorf("Produto não encontrado")

	// 409 Conflict
	ErrEmptyCart = fmt.Errorf("Carrinho vazio")

	// 500
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
