package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lipachap/lipachap-backend/api/controllers"
	"github.com/lipachap/lipachap-backend/api/middleware"
	cartsvc "github.com/lipachap/lipachap-backend/internal/cart"
	checkoutsvc "github.com/lipachap/lipachap-backend/internal/checkout"
	"github.com/lipachap/lipachap-backend/internal/invoices"
	"github.com/lipachap/lipachap-backend/internal/orders"
	"github.com/lipachap/lipachap-backend/internal/vendors"
	"github.com/lipachap/lipachap-backend/pkg/config"
	"github.com/lipachap/lipachap-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger controllers.Pinger,
	redisPinger controllers.Pinger,
	registry *prometheus.Registry,
	vendorService vendors.Service,
	pageService checkoutsvc.Service,
	cartService cartsvc.Service,
	orderService orders.Service,
	invoiceService invoices.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"postgres": dbPinger,
			"redis":    redisPinger,
		}))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	builder := &controllers.InvoiceBuilder{Invoices: invoiceService, Logger: logg}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/vendors", func(r chi.Router) {
			r.Post("/", controllers.RegisterVendor(vendorService, logg))
			r.Get("/{vendorID}", controllers.GetVendor(vendorService, logg))
			r.Get("/{vendorID}/ledger", controllers.GetVendorLedger(orderService, pageService, logg))

			r.Route("/{vendorID}/invoice-draft", func(r chi.Router) {
				r.Get("/", builder.GetDraft())
				r.Put("/details", builder.UpdateDetails())
				r.Post("/items", builder.AddItem())
				r.Patch("/items/{itemID}", builder.UpdateItem())
				r.Delete("/items/{itemID}", builder.RemoveItem())
				r.Post("/advance", builder.Advance())
				r.Post("/back", builder.Back())
				r.Post("/goto", builder.GoTo())
				r.Delete("/", builder.ClearDraft())
				r.Post("/finalize", builder.Finalize())
			})
			r.Get("/{vendorID}/invoices", builder.ListInvoices())
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Get("/{invoiceID}", builder.GetInvoice())
			r.Get("/{invoiceID}/document", builder.RenderInvoice())
		})

		r.Route("/pages", func(r chi.Router) {
			r.Post("/", controllers.CreatePage(pageService, logg))
			r.Get("/", controllers.ListPages(pageService, logg))
			r.Get("/{pageID}", controllers.GetPage(pageService, logg))
			r.Get("/{pageID}/orders", controllers.ListPageOrders(orderService, logg))
			r.Get("/{pageID}/ledger", controllers.GetPageLedger(orderService, logg))
		})
	})

	storefront := &controllers.Storefront{
		Pages:  pageService,
		Carts:  cartService,
		Orders: orderService,
		Logger: logg,
	}
	r.Route("/api/public/pages/{slug}", func(r chi.Router) {
		r.Use(middleware.Session(logg))
		r.Get("/", storefront.GetPage())
		r.Put("/cart/items/{itemID}", storefront.SetCartQuantity())
		r.Post("/checkout", storefront.Checkout())
	})

	return r
}
