package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/DRSN-tech/futburguer-cart/pkg/e"
	"github.com/shopspring/decimal"
)

const maxBodySize = 1 << 20

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		Success: false,
		Error:   message,
	}
}

// ToHTTPResponse сопоставляет ошибку с HTTP-статусом и сообщением для клиента
func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrProductIDRequired),
		errors.Is(err, e.ErrProductNameRequired),
		errors.Is(err, e.ErrInvalidPrice),
		errors.Is(err, e.ErrInvalidQuantity),
		errors.Is(err, e.ErrInvalidAmount),
		errors.Is(err, e.ErrCustomerNameRequired),
		errors.Is(err, e.ErrCustomerPhoneRequired),
		errors.Is(err, e.ErrUnknownPaymentMethod):
		return http.StatusBadRequest, rootMessage(err)
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrInvalidToken):
		return http.StatusUnauthorized, e.ErrInvalidToken.Error()
	case errors.Is(err, e.ErrProductNotFound):
		return http.StatusNotFound, e.ErrProductNotFound.Error()
	case errors.Is(err, e.ErrEmptyCart):
		return http.StatusConflict, e.ErrEmptyCart.Error()
	case errors.Is(err, e.ErrStorageUnavailable), errors.Is(err, e.ErrCartSerialization):
		return http.StatusServiceUnavailable, e.ErrStorageUnavailable.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

// rootMessage возвращает текст сентинел-ошибки валидации без префиксов операций
func rootMessage(err error) string {
	for _, s := range []error{
		e.ErrProductIDRequired,
		e.ErrProductNameRequired,
		e.ErrInvalidPrice,
		e.ErrInvalidQuantity,
		e.ErrInvalidAmount,
		e.ErrCustomerNameRequired,
		e.ErrCustomerPhoneRequired,
		e.ErrUnknownPaymentMethod,
	} {
		if errors.Is(err, s) {
			return s.Error()
		}
	}

	return e.ErrStatusBadRequest.Error()
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(SuccessResponse{Success: true, Data: data})
}

// decodeJSON читает тело запроса в dst; пустое тело и лишние поля допускаются
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}

		return e.Wrap(err.Error(), e.ErrStatusBadRequest)
	}

	return nil
}

// parseAmountQuery читает неотрицательную сумму из query-параметра; пустое значение даёт ноль
func parseAmountQuery(r *http.Request, key string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return decimal.Zero, e.Wrap(key, e.ErrInvalidAmount)
	}

	return d, nil
}

// money отдаёт сумму JSON-числом с двумя знаками после запятой
func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}
