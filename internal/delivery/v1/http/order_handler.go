package http

import (
	"net/http"

	"github.com/DRSN-tech/futburguer-cart/internal/usecase"
	"github.com/DRSN-tech/futburguer-cart/pkg/logger"
	"github.com/skip2/go-qrcode"
)

const qrCodeSize = 320

type OrderHandler struct {
	orderUsecase usecase.OrderUC
	logger       logger.Logger
}

func NewOrderHandler(orderUsecase usecase.OrderUC, logger logger.Logger) *OrderHandler {
	return &OrderHandler{orderUsecase: orderUsecase, logger: logger}
}

// previewOrder
//
//	@Summary	Текст заказа без отправки
//	@Tags		orders
//	@Accept		json
//	@Produce	json
//	@Param		order	body		OrderRequest	true	"Клиент и доставка"
//	@Success	200		{object}	OrderPreviewResponse
//	@Failure	400		{object}	ErrorResponse
//	@Router		/orders/preview [post]
func (h *OrderHandler) previewOrder(w http.ResponseWriter, r *http.Request) {
	req, err := h.orderReq(w, r)
	if err != nil {
		h.fail(w, err)
		return
	}

	msg, err := h.orderUsecase.FormatOrder(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toOrderPreviewResponse(msg))
}

// sendOrder
//
//	@Summary		Ссылка на отправку заказа в WhatsApp
//	@Description	Пустая корзина возвращает 409 "Carrinho vazio"
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			order	body		OrderRequest	true	"Клиент и доставка"
//	@Success		200		{object}	SendOrderResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/orders/send [post]
func (h *OrderHandler) sendOrder(w http.ResponseWriter, r *http.Request) {
	res, err := h.send(w, r)
	if err != nil {
		h.fail(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, SendOrderResponse{
		DeepLink:    res.DeepLink,
		CartCleared: res.CartCleared,
		Message:     toOrderPreviewResponse(res.Message),
	})
}

// orderQRCode
//
//	@Summary	QR-код ссылки на заказ
//	@Tags		orders
//	@Accept		json
//	@Produce	png
//	@Param		order	body	OrderRequest	true	"Клиент и доставка"
//	@Success	200		"PNG"
//	@Failure	409		{object}	ErrorResponse
//	@Router		/orders/qrcode [post]
func (h *OrderHandler) orderQRCode(w http.ResponseWriter, r *http.Request) {
	res, err := h.send(w, r)
	if err != nil {
		h.fail(w, err)
		return
	}

	png, err := qrcode.Encode(res.DeepLink, qrcode.Medium, qrCodeSize)
	if err != nil {
		h.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *OrderHandler) send(w http.ResponseWriter, r *http.Request) (*usecase.SendOrderRes, error) {
	req, err := h.orderReq(w, r)
	if err != nil {
		return nil, err
	}

	return h.orderUsecase.SendOrder(r.Context(), req)
}

func (h *OrderHandler) orderReq(w http.ResponseWriter, r *http.Request) (*usecase.OrderReq, error) {
	var body OrderRequest
	if err := decodeJSON(w, r, &body); err != nil {
		return nil, err
	}

	return usecase.NewOrderReq(OwnerFromCtx(r.Context()), body.Customer.toDomain(), body.DeliveryFee), nil
}

func (h *OrderHandler) fail(w http.ResponseWriter, err error) {
	code, _ := ToHTTPResponse(err)
	if code >= http.StatusInternalServerError {
		h.logger.Errorf(err, "order request failed")
	} else {
		h.logger.Warnf("%d %v", code, err)
	}

	WriteError(w, err)
}
