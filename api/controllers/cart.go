package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mandimart/mandimart-backend/api/middleware"
	"github.com/mandimart/mandimart-backend/api/responses"
	"github.com/mandimart/mandimart-backend/api/validators"
	"github.com/mandimart/mandimart-backend/internal/cart"
	pkgerrors "github.com/mandimart/mandimart-backend/pkg/errors"
	"github.com/mandimart/mandimart-backend/pkg/logger"
	"github.com/mandimart/mandimart-backend/pkg/money"
)

// CartFetch returns the session's current cart.
func CartFetch(mgr *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		state, err := mgr.Get(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCartResponse(state))
	}
}

// CartAddItem adds or merges a line into the session's cart.
func CartAddItem(mgr *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		state, err := mgr.AddItem(r.Context(), sessionID, cart.AddItemInput{
			ProductID: productID,
			PackCode:  payload.PackCode,
			Quantity:  payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toCartResponse(state))
	}
}

// CartUpdateItem sets a line's quantity. Zero removes the line.
func CartUpdateItem(mgr *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())

		productID, err := parseProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := mgr.UpdateItem(r.Context(), sessionID, cart.UpdateItemInput{
			ProductID: productID,
			PackCode:  payload.PackCode,
			Quantity:  payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toCartResponse(state))
	}
}

// CartRemoveItem drops a line from the session's cart.
func CartRemoveItem(mgr *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())

		productID, err := parseProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := mgr.RemoveItem(r.Context(), sessionID, productID, chi.URLParam(r, "packCode"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toCartResponse(state))
	}
}

// CartClear empties the session's cart.
func CartClear(mgr *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())

		state, err := mgr.ClearCart(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toCartResponse(state))
	}
}

type addItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	PackCode  string `json:"pack_code,omitempty"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type updateItemRequest struct {
	PackCode string `json:"pack_code,omitempty"`
	Quantity int    `json:"quantity" validate:"min=0"`
}

type cartLineResponse struct {
	ProductID        string  `json:"product_id"`
	ProductName      string  `json:"product_name"`
	SKU              string  `json:"sku"`
	PackCode         string  `json:"pack_code"`
	PackName         string  `json:"pack_name"`
	Quantity         int     `json:"quantity"`
	ExpandedQuantity int     `json:"expanded_quantity"`
	UnitPrice        float64 `json:"unit_price"`
	DisplayPrice     string  `json:"display_price"`
	Margin           float64 `json:"margin"`
	DisplayMargin    string  `json:"display_margin"`
	LineTotal        float64 `json:"line_total"`
	DisplayTotal     string  `json:"display_total"`
}

type cartResponse struct {
	Items         []cartLineResponse `json:"items"`
	TotalItems    int                `json:"total_items"`
	TotalAmount   float64            `json:"total_amount"`
	DisplayAmount string             `json:"display_amount"`
}

// toCartResponse is the one place raw float amounts become display strings.
func toCartResponse(state cart.State) cartResponse {
	resp := cartResponse{
		Items:         make([]cartLineResponse, 0, len(state.Items)),
		TotalItems:    state.TotalItems,
		TotalAmount:   state.TotalAmount,
		DisplayAmount: money.FormatAmount(state.TotalAmount),
	}
	for _, item := range state.Items {
		resp.Items = append(resp.Items, cartLineResponse{
			ProductID:        item.ProductID.String(),
			ProductName:      item.Product.Name,
			SKU:              item.Product.SKU,
			PackCode:         item.Pack.ID,
			PackName:         item.Pack.Name,
			Quantity:         item.Quantity,
			ExpandedQuantity: item.ExpandedQuantity(),
			UnitPrice:        item.UnitPrice,
			DisplayPrice:     money.FormatPrice(item.UnitPrice),
			Margin:           item.Margin,
			DisplayMargin:    money.FormatMargin(item.Margin),
			LineTotal:        item.LineTotal(),
			DisplayTotal:     money.FormatAmount(item.LineTotal()),
		})
	}
	return resp
}
