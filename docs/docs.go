// Package docs содержит описание HTTP API корзины в формате Swagger 2.0.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/cart": {
            "get": {
                "tags": ["cart"],
                "summary": "Текущая корзина",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Идентификатор корзины", "name": "X-Cart-Session", "in": "header"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CartResponse"}},
                    "503": {"description": "Хранилище недоступно", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["cart"],
                "summary": "Очистить корзину",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/SuccessResponse"}}}
            }
        },
        "/cart/summary": {
            "get": {
                "tags": ["cart"],
                "summary": "Сводка корзины для отображения",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/CartResponse"}}}
            }
        },
        "/cart/total": {
            "get": {
                "tags": ["cart"],
                "summary": "Итог с доставкой и скидкой",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "number", "description": "Стоимость доставки", "name": "deliveryFee", "in": "query"},
                    {"type": "number", "description": "Скидка", "name": "discount", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/TotalResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/cart/notification": {
            "get": {
                "tags": ["cart"],
                "summary": "Текущее уведомление",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/NotificationResponse"}},
                    "204": {"description": "Нет уведомлений"}
                }
            }
        },
        "/cart/items": {
            "post": {
                "tags": ["cart"],
                "summary": "Добавить товар в корзину",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"description": "Товар", "name": "product", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ProductRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CartResponse"}},
                    "400": {"description": "Ошибка валидации", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/cart/items/{id}": {
            "patch": {
                "tags": ["cart"],
                "summary": "Изменить количество",
                "description": "Количество <= 0 удаляет позицию",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "ID товара", "name": "id", "in": "path", "required": true},
                    {"description": "Новое количество", "name": "quantity", "in": "body", "required": true, "schema": {"$ref": "#/definitions/QuantityRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CartResponse"}},
                    "404": {"description": "Produto não encontrado", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["cart"],
                "summary": "Удалить позицию",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "ID товара", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/CartResponse"}}}
            }
        },
        "/orders/preview": {
            "post": {
                "tags": ["orders"],
                "summary": "Текст заказа без отправки",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"description": "Клиент и доставка", "name": "order", "in": "body", "required": true, "schema": {"$ref": "#/definitions/OrderRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/OrderPreviewResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/orders/send": {
            "post": {
                "tags": ["orders"],
                "summary": "Ссылка на отправку заказа в WhatsApp",
                "description": "Пустая корзина возвращает 409 \"Carrinho vazio\"",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"description": "Клиент и доставка", "name": "order", "in": "body", "required": true, "schema": {"$ref": "#/definitions/OrderRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SendOrderResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/orders/qrcode": {
            "post": {
                "tags": ["orders"],
                "summary": "QR-код ссылки на заказ",
                "consumes": ["application/json"],
                "produces": ["image/png"],
                "parameters": [{"description": "Клиент и доставка", "name": "order", "in": "body", "required": true, "schema": {"$ref": "#/definitions/OrderRequest"}}],
                "responses": {
                    "200": {"description": "PNG"},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "ErrorResponse": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}, "error": {"type": "string"}}
        },
        "SuccessResponse": {
            "type": "object",
            "properties": {"success": {"type": "boolean"}, "data": {"type": "object"}}
        },
        "ProductRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "price": {"type": "number"},
                "image": {"type": "string"},
                "category": {"type": "string"}
            }
        },
        "QuantityRequest": {
            "type": "object",
            "properties": {"quantity": {"type": "integer"}}
        },
        "AddressRequest": {
            "type": "object",
            "properties": {
                "street": {"type": "string"},
                "number": {"type": "string"},
                "complement": {"type": "string"},
                "neighborhood": {"type": "string"},
                "city": {"type": "string"},
                "state": {"type": "string"},
                "zipCode": {"type": "string"}
            }
        },
        "CustomerRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"},
                "address": {"$ref": "#/definitions/AddressRequest"},
                "paymentMethod": {"type": "string", "enum": ["pix", "card", "cash"]}
            }
        },
        "OrderRequest": {
            "type": "object",
            "properties": {
                "customer": {"$ref": "#/definitions/CustomerRequest"},
                "deliveryFee": {"type": "number"}
            }
        },
        "LineItemResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "price": {"type": "number"},
                "quantity": {"type": "integer"},
                "image": {"type": "string"},
                "category": {"type": "string"},
                "total": {"type": "number"},
                "imageUrl": {"type": "string"}
            }
        },
        "CartResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/LineItemResponse"}},
                "itemCount": {"type": "integer"},
                "subtotal": {"type": "number"},
                "isEmpty": {"type": "boolean"}
            }
        },
        "TotalResponse": {
            "type": "object",
            "properties": {
                "subtotal": {"type": "number"},
                "deliveryFee": {"type": "number"},
                "discount": {"type": "number"},
                "total": {"type": "number"}
            }
        },
        "NotificationResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "kind": {"type": "string", "enum": ["success", "warning", "error", "info"]},
                "expiresAt": {"type": "string", "format": "date-time"}
            }
        },
        "OrderPreviewResponse": {
            "type": "object",
            "properties": {
                "text": {"type": "string"},
                "encoded": {"type": "string"},
                "subtotal": {"type": "number"},
                "deliveryFee": {"type": "number"},
                "total": {"type": "number"},
                "loyalty": {"type": "boolean"}
            }
        },
        "SendOrderResponse": {
            "type": "object",
            "properties": {
                "deepLink": {"type": "string"},
                "cartCleared": {"type": "boolean"},
                "message": {"$ref": "#/definitions/OrderPreviewResponse"}
            }
        }
    }
}`

// SwaggerInfo содержит метаданные API
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Futburguer Cart API",
	Description:      "Корзина Futburguer и формирование заказа для WhatsApp.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
