package http

import (
	"net/http"
	"strings"

	"github.com/DRSN-tech/futburguer-cart/internal/domain"
	"github.com/DRSN-tech/futburguer-cart/internal/usecase"
	"github.com/DRSN-tech/futburguer-cart/pkg/e"
	"github.com/DRSN-tech/futburguer-cart/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// NotificationSource отдаёт текущее видимое уведомление владельца
type NotificationSource interface {
	Current(owner string) (domain.Notification, bool)
}

type CartHandler struct {
	cartUsecase   usecase.CartUC
	notifications NotificationSource
	logger        logger.Logger
}

func NewCartHandler(cartUsecase usecase.CartUC, notifications NotificationSource, logger logger.Logger) *CartHandler {
	return &CartHandler{cartUsecase: cartUsecase, notifications: notifications, logger: logger}
}

// getCart
//
//	@Summary	Текущая корзина
//	@Tags		cart
//	@Produce	json
//	@Param		X-Cart-Session	header		string	false	"Идентификатор корзины"
//	@Success	200				{object}	CartResponse
//	@Failure	503				{object}	ErrorResponse	"Хранилище недоступно"
//	@Router		/cart [get]
func (h *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cartUsecase.GetCart(r.Context(), OwnerFromCtx(r.Context()))
	if err != nil {
		h.fail(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCartResponse(cart))
}

// getSummary
//
//	@Summary	Сводка корзины для отображения
//	@Tags		cart
//	@Produce	json
//	@Success	200	{object}	CartResponse
//	@Failure	503	{object}	ErrorResponse
//	@Router		/cart/summary [get]
func (h *CartHandler) getSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.cartUsecase.GetSummary(r.Context(), OwnerFromCtx(r.Context()))
	if err != nil {
		h.fail(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toSummaryResponse(summary))
}

// getTotal
//
//	@Summary	Итог с доставкой и скидкой
//	@Tags		cart
//	@Produce	json
//	@Param		deliveryFee	query		number	false	"Стоимость доставки"
//	@Param		discount	query		number	false	"Скидка"
//	@Success	200			{object}	TotalResponse
//	@Failure	400			{object}	ErrorResponse
//	@Router		/cart/total [get]
func (h *CartHandler) getTotal(w http.ResponseWriter, r *http.Request) {
	fee, err := parseAmountQuery(r, "deliveryFee")
	if err != nil {
		h.fail(w, err)
		return
	}

	discount, err := parseAmountQuery(r, "discount")
	if err != nil {
		h.fail(w, err)
		return
	}

	owner := OwnerFromCtx(r.Context())
	subtotal, err := h.cartUsecase.GetSubtotal(r.Context(), owner)
	if err != nil {
		h.fail(w, err)
		return
	}

	total, err := h.cartUsecase.GetTotal(r.Context(), owner, fee, discount)
	if err != nil {
		h.fail(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, TotalResponse{
		Subtotal:    money(subtotal),
		DeliveryFee: money(fee),
		Discount:    money(discount),
		Total:       money(total),
	})
}

// addItem
//
//	@Summary	Добавить товар в корзину
//	@Tags		cart
//	@Accept		json
//	@Produce	json
//	@Param		product	body		ProductRequest	true	"Товар"
//	@Success	200		{object}	CartResponse
//	@Failure	400		{object}	ErrorResponse	"Ошибка валидации"
//	@Router		/cart/items [post]
func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, err)
		return
	}

	cart, err := h.cartUsecase.AddItem(r.Context(), OwnerFromCtx(r.Context()), req.toDomain())
	if err != nil {
		h.fail(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCartResponse(cart))
}

// updateQuantity
//
//	@Summary		Изменить количество
//	@Description	Количество <= 0 удаляет позицию
//	@Tags			cart
//	@Accept			json
//	@Produce		json
//	@Param			id			path		string			true	"ID товара"
//	@Param			quantity	body		QuantityRequest	true	"Новое количество"
//	@Success		200			{object}	CartResponse
//	@Failure		404			{object}	ErrorResponse	"Produto não encontrado"
//	@Router			/cart/items/{id} [patch]
func (h *CartHandler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	var req QuantityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, err)
		return
	}

	qty, err := req.Quantity.Int64()
	if err != nil {
		h.fail(w, e.Wrap(req.Quantity.String(), e.ErrInvalidQuantity))
		return
	}

	cart, err := h.cartUsecase.UpdateQuantity(r.Context(), OwnerFromCtx(r.Context()), chi.URLParam(r, "id"), int(qty))
	if err != nil {
		h.fail(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCartResponse(cart))
}

// removeItem
//
//	@Summary	Удалить позицию
//	@Tags		cart
//	@Produce	json
//	@Param		id	path		string	true	"ID товара"
//	@Success	200	{object}	CartResponse
//	@Router		/cart/items/{id} [delete]
func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cartUsecase.RemoveItem(r.Context(), OwnerFromCtx(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCartResponse(cart))
}

// clearCart
//
//	@Summary	Очистить корзину
//	@Tags		cart
//	@Produce	json
//	@Success	200	{object}	SuccessResponse
//	@Router		/cart [delete]
func (h *CartHandler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cartUsecase.ClearCart(r.Context(), OwnerFromCtx(r.Context())); err != nil {
		h.fail(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, nil)
}

// getNotification
//
//	@Summary	Текущее уведомление
//	@Tags		cart
//	@Produce	json
//	@Success	200	{object}	NotificationResponse
//	@Success	204	"Нет уведомлений"
//	@Router		/cart/notification [get]
func (h *CartHandler) getNotification(w http.ResponseWriter, r *http.Request) {
	n, ok := h.notifications.Current(OwnerFromCtx(r.Context()))
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	WriteSuccess(w, http.StatusOK, NotificationResponse{
		Message:   n.Message,
		Kind:      string(n.Kind),
		ExpiresAt: n.ExpiresAt,
	})
}

func (h *CartHandler) fail(w http.ResponseWriter, err error) {
	code, _ := ToHTTPResponse(err)
	if code >= http.StatusInternalServerError {
		h.logger.Errorf(err, "cart request failed")
	} else {
		h.logger.Warnf("%d %s", code, strings.TrimSpace(err.Error()))
	}

	WriteError(w, err)
}
