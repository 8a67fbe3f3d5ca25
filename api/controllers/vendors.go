package controllers

import (
	"net/http"

	"github.com/lipachap/lipachap-backend/api/responses"
	"github.com/lipachap/lipachap-backend/api/validators"
	"github.com/lipachap/lipachap-backend/internal/checkout"
	"github.com/lipachap/lipachap-backend/internal/orders"
	"github.com/lipachap/lipachap-backend/internal/vendors"
	"github.com/lipachap/lipachap-backend/pkg/logger"
)

type RegisterVendorBody struct {
	BusinessName string  `json:"businessName" validate:"required,max=120"`
	OwnerName    string  `json:"ownerName" validate:"required,max=120"`
	Phone        string  `json:"phone" validate:"required,max=20"`
	Email        *string `json:"email" validate:"omitempty,email"`
	BusinessType string  `json:"businessType" validate:"omitempty,oneof=retail services food fashion electronics other"`
	LogoURL      *string `json:"logoUrl" validate:"omitempty,url"`
}

func RegisterVendor(svc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body RegisterVendorBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vendor, err := svc.Register(r.Context(), vendors.RegisterVendorInput{
			BusinessName: validators.SanitizeString(body.BusinessName, 120),
			OwnerName:    validators.SanitizeString(body.OwnerName, 120),
			Phone:        validators.SanitizeString(body.Phone, 20),
			Email:        body.Email,
			BusinessType: body.BusinessType,
			LogoURL:      body.LogoURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, vendor)
	}
}

func GetVendor(svc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID, err := validators.ParseUUIDParam(r, "vendorID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vendor, err := svc.GetByID(r.Context(), vendorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, vendor)
	}
}

// GetVendorLedger reports order counts, revenue and page count across
// every page the vendor owns.
func GetVendorLedger(ordersSvc orders.Service, pagesSvc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID, err := validators.ParseUUIDParam(r, "vendorID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ledger, err := ordersSvc.VendorLedger(r.Context(), vendorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		pageCount, err := pagesSvc.CountByVendor(r.Context(), vendorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"totalOrders":  ledger.TotalOrders,
			"totalRevenue": ledger.TotalRevenue,
			"totalPages":   pageCount,
		})
	}
}
