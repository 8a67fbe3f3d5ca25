package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lipachap/lipachap-backend/api/middleware"
	"github.com/lipachap/lipachap-backend/api/responses"
	"github.com/lipachap/lipachap-backend/api/validators"
	"github.com/lipachap/lipachap-backend/internal/cart"
	"github.com/lipachap/lipachap-backend/internal/checkout"
	"github.com/lipachap/lipachap-backend/internal/orders"
	"github.com/lipachap/lipachap-backend/pkg/logger"
	"github.com/lipachap/lipachap-backend/pkg/money"
	"github.com/lipachap/lipachap-backend/pkg/share"
)

// Storefront bundles the public checkout endpoints: the shopper-facing
// side of a shared page link. Identity is the anonymous session id.
type Storefront struct {
	Pages  checkout.Service
	Carts  cart.Service
	Orders orders.Service
	Logger *logger.Logger
}

func (s *Storefront) GetPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := s.Pages.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), s.Logger, w, err)
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		sessionCart, err := s.Carts.Get(r.Context(), page.ID, sessionID)
		if err != nil {
			responses.WriteError(r.Context(), s.Logger, w, err)
			return
		}
		summary := s.Carts.Summarize(sessionCart, page.Items)

		responses.WriteSuccess(w, map[string]any{
			"page": page,
			"cart": cartView(sessionCart, summary),
		})
	}
}

type SetQuantityBody struct {
	Quantity int `json:"quantity"`
}

func (s *Storefront) SetCartQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := s.Pages.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), s.Logger, w, err)
			return
		}
		itemID, err := validators.ParseUUIDParam(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), s.Logger, w, err)
			return
		}
		var body SetQuantityBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), s.Logger, w, err)
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		sessionCart, err := s.Carts.SetQuantity(r.Context(), page.ID, sessionID, itemID, body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), s.Logger, w, err)
			return
		}

		summary := s.Carts.Summarize(sessionCart, page.Items)
		responses.WriteSuccess(w, cartView(sessionCart, summary))
	}
}

type CheckoutBody struct {
	CustomerName  string  `json:"customerName" validate:"required,max=120"`
	CustomerPhone string  `json:"customerPhone" validate:"required,max=20"`
	CustomerEmail *string `json:"customerEmail" validate:"omitempty,email"`
	PaymentMethod string  `json:"paymentMethod" validate:"required"`
}

func (s *Storefront) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := s.Pages.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), s.Logger, w, err)
			return
		}
		var body CheckoutBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), s.Logger, w, err)
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		sessionCart, err := s.Carts.Get(r.Context(), page.ID, sessionID)
		if err != nil {
			responses.WriteError(r.Context(), s.Logger, w, err)
			return
		}
		summary := s.Carts.Summarize(sessionCart, page.Items)

		order, err := s.Orders.Place(r.Context(), orders.PlaceOrderInput{
			Page:          page,
			Summary:       summary,
			CustomerName:  validators.SanitizeString(body.CustomerName, 120),
			CustomerPhone: validators.SanitizeString(body.CustomerPhone, 20),
			CustomerEmail: body.CustomerEmail,
			PaymentMethod: body.PaymentMethod,
		})
		if err != nil {
			responses.WriteError(r.Context(), s.Logger, w, err)
			return
		}

		if err := s.Carts.Clear(r.Context(), page.ID, sessionID); err != nil {
			s.Logger.Error(r.Context(), "failed to clear cart after checkout", err)
		}

		message := share.OrderMessage(page.Title, order.OrderNumber,
			money.FormatKES(order.TotalAmount), s.Pages.ShareURL(page))
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"order":        order,
			"shareText":    message,
			"whatsappLink": share.WhatsAppLink(order.CustomerPhone, message),
		})
	}
}

func cartView(c *cart.Cart, summary cart.Summary) map[string]any {
	lines := make([]map[string]any, 0, len(summary.Lines))
	for _, line := range summary.Lines {
		lines = append(lines, map[string]any{
			"item":     line.Item,
			"quantity": line.Quantity,
			"total":    line.Total,
		})
	}
	return map[string]any{
		"sessionId": c.SessionID,
		"lines":     lines,
		"total":     summary.Total,
	}
}
