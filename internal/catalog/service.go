package catalog

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/grocerfront/pkg/docstore"
	pkgerrors "github.com/angelmondragon/grocerfront/pkg/errors"
	"github.com/angelmondragon/grocerfront/pkg/logger"
)

// CreateProductInput is the admin form payload.
type CreateProductInput struct {
	Name        string `validate:"required"`
	Price       string `validate:"required"`
	Image       string `validate:"required,url"`
	Description string
}

// Service owns the admin write path into the catalog collection.
type Service struct {
	store      docstore.Store
	collection string
	validate   *validator.Validate
	logg       *logger.Logger
}

func NewService(store docstore.Store, collection string, logg *logger.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("document store required")
	}
	if collection == "" {
		return nil, fmt.Errorf("catalog collection required")
	}
	return &Service{
		store:      store,
		collection: collection,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		logg:       logg,
	}, nil
}

// CreateProduct validates the form and writes a new product document. A
// write failure leaves nothing behind and surfaces as a dismissable alert
// so the admin can retry verbatim.
func (s *Service) CreateProduct(ctx context.Context, input CreateProductInput) (string, error) {
	if err := s.validate.Struct(input); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product")
	}

	price, err := decimal.NewFromString(input.Price)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product price")
	}
	if price.IsNegative() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "product price must be non-negative")
	}

	fields := map[string]any{
		"name":        input.Name,
		"price":       price.String(),
		"image":       input.Image,
		"description": input.Description,
	}

	id, err := s.store.CreateDocument(ctx, s.collection, fields)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "product.create_failed", err)
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeWriteFailed, err, "failed to add product")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "product_id", id), "product.created")
	}
	return id, nil
}
