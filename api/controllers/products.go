package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/farmtotable/farmtotable-backend/api/responses"
	productsvc "github.com/farmtotable/farmtotable-backend/internal/products"
	"github.com/farmtotable/farmtotable-backend/pkg/config"
	pkgerrors "github.com/farmtotable/farmtotable-backend/pkg/errors"
	"github.com/farmtotable/farmtotable-backend/pkg/logger"
)

const imageFormField = "image"

// CreateProduct handles multipart product creation with an optional image.
func CreateProduct(svc productsvc.Service, uploads config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		input, image, cleanup, err := parseProductForm(r, uploads)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer cleanup()

		result, err := svc.Create(r.Context(), input, image)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// UpdateProduct handles multipart product updates with an optional replacement image.
func UpdateProduct(svc productsvc.Service, uploads config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := productIDFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, image, cleanup, err := parseProductForm(r, uploads)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer cleanup()

		result, err := svc.Update(r.Context(), id, input, image)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// DeleteProduct removes a catalog entry and its stored image.
func DeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := productIDFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// GetProduct returns one catalog entry.
func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := productIDFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ListProducts returns the full catalog.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		result, err := svc.List(r.Context(), "")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ListProductsFiltered returns catalog entries matching one category.
func ListProductsFiltered(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		category := chi.URLParam(r, "category")
		result, err := svc.List(r.Context(), category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func productIDFromURL(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}
	return id, nil
}

// parseProductForm decodes the multipart payload shared by create and
// update. Numeric fields arrive as strings; parse failures are reported as
// zero values so the service can name every invalid field in one response.
func parseProductForm(r *http.Request, uploads config.UploadsConfig) (productsvc.ProductInput, *productsvc.Upload, func(), error) {
	noop := func() {}
	maxBytes := int64(uploads.MaxUploadMB) << 20

	r.Body = http.MaxBytesReader(nil, r.Body, maxBytes+(1<<20))
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return productsvc.ProductInput{}, nil, noop, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}

	input := productsvc.ProductInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		UnitType:    r.FormValue("unit_type"),
		UnitSize:    parseFloat(r.FormValue("unit_size")),
		Price:       parseFloat(r.FormValue("price")),
		Quantity:    parseInt(r.FormValue("quantity")),
		Category:    r.FormValue("category"),
	}

	file, header, err := r.FormFile(imageFormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return input, nil, noop, nil
		}
		return productsvc.ProductInput{}, nil, noop, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid image upload")
	}

	if err := checkImageUpload(header, maxBytes); err != nil {
		file.Close()
		return productsvc.ProductInput{}, nil, noop, err
	}

	upload := &productsvc.Upload{Reader: file, Filename: header.Filename}
	return input, upload, func() { file.Close() }, nil
}

func checkImageUpload(header *multipart.FileHeader, maxBytes int64) error {
	if header.Size > maxBytes {
		return pkgerrors.New(pkgerrors.CodeValidation, "image exceeds maximum upload size")
	}
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return pkgerrors.New(pkgerrors.CodeValidation, "only image uploads are accepted").
			WithDetails(map[string]string{"content_type": contentType})
	}
	return nil
}

func parseFloat(value string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return f
}

func parseInt(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return -1
	}
	return n
}
