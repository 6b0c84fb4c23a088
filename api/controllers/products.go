package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mandimart/mandimart-backend/api/responses"
	"github.com/mandimart/mandimart-backend/api/validators"
	"github.com/mandimart/mandimart-backend/internal/catalog"
	"github.com/mandimart/mandimart-backend/pkg/enums"
	pkgerrors "github.com/mandimart/mandimart-backend/pkg/errors"
	"github.com/mandimart/mandimart-backend/pkg/logger"
	"github.com/mandimart/mandimart-backend/pkg/pagination"
)

// CreateProduct handles catalog listing creation.
func CreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// UpdateProduct applies partial changes to a listing.
func UpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// DeleteProduct removes a listing.
func DeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// GetProduct fetches a listing with its tier table and pack options.
func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ListProducts pages through active listings.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListProducts(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

type createProductRequest struct {
	SKU         string            `json:"sku" validate:"required"`
	Name        string            `json:"name" validate:"required"`
	Description *string           `json:"description,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Unit        string            `json:"unit" validate:"required"`
	MRP         float64           `json:"mrp" validate:"required,min=0"`
	IsActive    *bool             `json:"is_active,omitempty"`
	Tiers       []tierRequest     `json:"tiers" validate:"required,min=1,dive"`
	Packs       []packRequest     `json:"packs,omitempty" validate:"omitempty,dive"`
	Packaging   *packagingRequest `json:"packaging,omitempty"`
}

type tierRequest struct {
	MinQuantity int     `json:"min_quantity" validate:"required,min=1"`
	MaxQuantity *int    `json:"max_quantity,omitempty" validate:"omitempty,min=1"`
	Price       float64 `json:"price" validate:"min=0"`
	Margin      float64 `json:"margin" validate:"min=0,max=100"`
}

type packRequest struct {
	Code       string `json:"code" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Multiplier int    `json:"multiplier" validate:"required,min=1"`
}

type packagingRequest struct {
	UnitsPerBox  int `json:"units_per_box" validate:"required,min=1"`
	BoxesPerPack int `json:"boxes_per_pack" validate:"required,min=1"`
	MinBoxes     int `json:"min_boxes" validate:"min=0"`
	MaxBoxes     int `json:"max_boxes" validate:"min=0"`
}

type updateProductRequest struct {
	SKU         *string           `json:"sku,omitempty"`
	Name        *string           `json:"name,omitempty"`
	Description *string           `json:"description,omitempty"`
	Tags        *[]string         `json:"tags,omitempty"`
	Unit        *string           `json:"unit,omitempty"`
	MRP         *float64          `json:"mrp,omitempty" validate:"omitempty,min=0"`
	IsActive    *bool             `json:"is_active,omitempty"`
	Tiers       *[]tierRequest    `json:"tiers,omitempty" validate:"omitempty,min=1,dive"`
	Packs       *[]packRequest    `json:"packs,omitempty" validate:"omitempty,dive"`
	Packaging   *packagingRequest `json:"packaging,omitempty"`
}

func (req createProductRequest) toCreateInput() (catalog.CreateProductInput, error) {
	unit, err := enums.ParseProductUnit(strings.TrimSpace(req.Unit))
	if err != nil {
		return catalog.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit")
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	input := catalog.CreateProductInput{
		SKU:         strings.TrimSpace(req.SKU),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Tags:        req.Tags,
		Unit:        unit,
		MRP:         req.MRP,
		IsActive:    isActive,
		Tiers:       tierInputs(req.Tiers),
		Packs:       packInputs(req.Packs),
	}
	if req.Packaging != nil {
		input.Packaging = packagingInput(*req.Packaging)
	}
	return input, nil
}

func (req updateProductRequest) toUpdateInput() (catalog.UpdateProductInput, error) {
	input := catalog.UpdateProductInput{
		Description: req.Description,
		Tags:        req.Tags,
		MRP:         req.MRP,
		IsActive:    req.IsActive,
	}

	if req.SKU != nil {
		trimmed := strings.TrimSpace(*req.SKU)
		input.SKU = &trimmed
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		input.Name = &trimmed
	}
	if req.Unit != nil {
		unit, err := enums.ParseProductUnit(strings.TrimSpace(*req.Unit))
		if err != nil {
			return catalog.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit")
		}
		input.Unit = &unit
	}
	if req.Tiers != nil {
		tiers := tierInputs(*req.Tiers)
		input.Tiers = &tiers
	}
	if req.Packs != nil {
		packs := packInputs(*req.Packs)
		input.Packs = &packs
	}
	if req.Packaging != nil {
		input.Packaging = packagingInput(*req.Packaging)
	}
	return input, nil
}

func tierInputs(reqs []tierRequest) []catalog.TierInput {
	tiers := make([]catalog.TierInput, 0, len(reqs))
	for _, req := range reqs {
		tiers = append(tiers, catalog.TierInput{
			MinQuantity: req.MinQuantity,
			MaxQuantity: req.MaxQuantity,
			Price:       req.Price,
			Margin:      req.Margin,
		})
	}
	return tiers
}

func packInputs(reqs []packRequest) []catalog.PackInput {
	packs := make([]catalog.PackInput, 0, len(reqs))
	for _, req := range reqs {
		packs = append(packs, catalog.PackInput{
			Code:       strings.TrimSpace(req.Code),
			Name:       strings.TrimSpace(req.Name),
			Multiplier: req.Multiplier,
		})
	}
	return packs
}

func packagingInput(req packagingRequest) *catalog.PackagingInput {
	return &catalog.PackagingInput{
		UnitsPerBox:  req.UnitsPerBox,
		BoxesPerPack: req.BoxesPerPack,
		MinBoxes:     req.MinBoxes,
		MaxBoxes:     req.MaxBoxes,
	}
}

func parseProductID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "productId")
	productID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}
	return productID, nil
}
