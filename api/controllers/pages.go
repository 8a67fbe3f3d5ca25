package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/lipachap/lipachap-backend/api/responses"
	"github.com/lipachap/lipachap-backend/api/validators"
	"github.com/lipachap/lipachap-backend/internal/checkout"
	"github.com/lipachap/lipachap-backend/internal/orders"
	pkgerrors "github.com/lipachap/lipachap-backend/pkg/errors"
	"github.com/lipachap/lipachap-backend/pkg/logger"
)

type PageItemBody struct {
	Name        string  `json:"name" validate:"max=120"`
	Price       string  `json:"price" validate:"max=20"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,url"`
}

type CreatePageBody struct {
	VendorID       string         `json:"vendorId" validate:"required,uuid"`
	Title          string         `json:"title" validate:"required,max=120"`
	Description    *string        `json:"description" validate:"omitempty,max=500"`
	PaymentMethods []string       `json:"paymentMethods" validate:"max=3"`
	Items          []PageItemBody `json:"items" validate:"required,min=1,max=50,dive"`
}

func CreatePage(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body CreatePageBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vendorID, err := uuid.Parse(body.VendorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "vendorId must be a uuid"))
			return
		}

		input := checkout.CreatePageInput{
			VendorID:       vendorID,
			Title:          validators.SanitizeString(body.Title, 120),
			Description:    body.Description,
			PaymentMethods: body.PaymentMethods,
		}
		for _, item := range body.Items {
			input.Items = append(input.Items, checkout.CatalogItemInput{
				Name:        validators.SanitizeString(item.Name, 120),
				Price:       item.Price,
				Description: item.Description,
				ImageURL:    item.ImageURL,
			})
		}

		page, err := svc.CreatePage(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"page":     page,
			"shareUrl": svc.ShareURL(page),
		})
	}
}

func ListPages(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID, err := uuid.Parse(r.URL.Query().Get("vendorId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "vendorId query parameter must be a uuid"))
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pages, err := svc.ListByVendor(r.Context(), vendorID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pages)
	}
}

func GetPage(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pageID, err := validators.ParseUUIDParam(r, "pageID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.GetByID(r.Context(), pageID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"page":     page,
			"shareUrl": svc.ShareURL(page),
		})
	}
}

func ListPageOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pageID, err := validators.ParseUUIDParam(r, "pageID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listed, err := svc.ListByPage(r.Context(), pageID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listed)
	}
}

func GetPageLedger(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pageID, err := validators.ParseUUIDParam(r, "pageID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ledger, err := svc.PageLedger(r.Context(), pageID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"totalOrders":  ledger.TotalOrders,
			"totalRevenue": ledger.TotalRevenue,
		})
	}
}
