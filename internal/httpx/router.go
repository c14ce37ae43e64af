package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/pos-counter/internal/httpx/middlewares"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachRequestMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", handler.GetCatalog)
		r.Post("/catalog/reload", handler.ReloadCatalog)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", handler.ListProducts)
			r.Post("/", handler.CreateProduct)
			r.Get("/{id}", handler.GetProduct)
			r.Put("/{id}", handler.UpdateProduct)
			r.Delete("/{id}", handler.DeleteProduct)
		})

		r.Post("/clients", handler.CreateClient)
		r.Get("/payment-methods", handler.ListPaymentMethods)

		r.Route("/drafts", func(r chi.Router) {
			r.Post("/", handler.CreateDraft)
			r.Get("/{id}", handler.GetDraft)
			r.Patch("/{id}", handler.UpdateDraft)
			r.Post("/{id}/items", handler.AddDraftItem)
			r.Patch("/{id}/items/{productID}", handler.UpdateDraftItem)
			r.Delete("/{id}/items/{productID}", handler.RemoveDraftItem)
			r.Post("/{id}/submit", handler.SubmitDraft)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", handler.ListOrders)
			r.Post("/{id}/payment", handler.SelectPayment)
			r.Post("/{id}/confirm", handler.ConfirmOrder)
			r.Post("/{id}/cancel", handler.CancelCheckout)
			r.Post("/{id}/edit", handler.EditOrder)
		})

		r.Get("/sales", handler.ListSales)
		r.Get("/sales/{id}/receipt", handler.ReprintReceipt)

		r.Route("/reports", func(r chi.Router) {
			r.Get("/summary", handler.GetSummary)
			r.Get("/sales.csv", handler.ExportSalesCSV)
			r.Get("/sales.xlsx", handler.ExportSalesExcel)
		})
	})

	return r
}
