package controllers

import (
	"net/http"

	"github.com/farmtotable/farmtotable-backend/api/responses"
	"github.com/farmtotable/farmtotable-backend/api/validators"
	"github.com/farmtotable/farmtotable-backend/internal/invoice"
	pkgerrors "github.com/farmtotable/farmtotable-backend/pkg/errors"
	"github.com/farmtotable/farmtotable-backend/pkg/logger"
)

// InvoiceQuote assembles an invoice for the submitted cart. Nothing is
// persisted; the response is the structured document the client renders.
func InvoiceQuote(assembler *invoice.Assembler, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if assembler == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invoice assembler unavailable"))
			return
		}

		var body invoice.QuoteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := assembler.Assemble(body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
