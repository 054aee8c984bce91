package ingest

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/retailnet/backend/internal/catalog"
	"github.com/retailnet/backend/pkg/config"
	"github.com/retailnet/backend/pkg/db/models"
	pkgerrors "github.com/retailnet/backend/pkg/errors"
	"github.com/retailnet/backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service reconciles supplier price lists into the relational catalog.
type Service struct {
	repo *catalog.Repository
	tx   txRunner
	cfg  config.IngestConfig
	logg *logger.Logger
}

// NewService builds the ingestion service.
func NewService(repo *catalog.Repository, tx txRunner, cfg config.IngestConfig, logg *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &Service{repo: repo, tx: tx, cfg: cfg, logg: logg}, nil
}

// ImportResult summarizes one accepted price list.
type ImportResult struct {
	Shop       string `json:"shop"`
	Categories int    `json:"categories"`
	Products   int    `json:"products"`
}

// ImportPriceList parses the document and reconciles it in one transaction.
// Any failure rolls back the whole document; partial imports never land.
func (s *Service) ImportPriceList(ctx context.Context, userID uint, raw []byte) (*ImportResult, error) {
	doc, err := Parse(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeIngestion, err, "price list rejected").
			WithDetails(map[string]any{"reason": err.Error()})
	}

	result := &ImportResult{Shop: doc.Shop}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		shop, err := repo.GetOrCreateShop(ctx, doc.Shop, userID)
		if err != nil {
			return fmt.Errorf("shop %q: %w", doc.Shop, err)
		}

		for _, c := range doc.Categories {
			if _, err := repo.UpsertCategory(ctx, c.ID, c.Name); err != nil {
				return fmt.Errorf("category %d: %w", c.ID, err)
			}
			if err := repo.LinkShopCategory(ctx, shop.ID, c.ID); err != nil {
				return fmt.Errorf("linking category %d: %w", c.ID, err)
			}
			result.Categories++
		}

		for _, g := range doc.Goods {
			if err := s.importGood(ctx, repo, shop, g); err != nil {
				return fmt.Errorf("good %d (%q): %w", g.ID, g.Name, err)
			}
			result.Products++
		}
		return nil
	})
	if err != nil {
		var coded *pkgerrors.Error
		if errors.As(err, &coded) {
			return nil, coded
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeIngestion, err, "price list import failed").
			WithDetails(map[string]any{"reason": err.Error()})
	}

	if s.logg != nil {
		fields := map[string]any{
			"shop":       result.Shop,
			"categories": result.Categories,
			"products":   result.Products,
		}
		s.logg.Info(s.logg.WithFields(ctx, fields), "price list imported")
	}
	return result, nil
}

func (s *Service) importGood(ctx context.Context, repo *catalog.Repository, shop *models.Shop, g GoodDoc) error {
	product, err := repo.GetOrCreateProduct(ctx, g.Name, g.Category)
	if err != nil {
		return err
	}

	info := &models.ProductInfo{
		ProductID:  product.ID,
		ShopID:     shop.ID,
		ExternalID: g.ID,
		Model:      g.Model,
		Price:      g.Price.Decimal,
		PriceRRC:   g.PriceRRC.Decimal,
		Quantity:   *g.Quantity,
	}

	if s.cfg.Upsert {
		existing, err := repo.FindProductInfo(ctx, product.ID, shop.ID, g.ID)
		switch {
		case err == nil:
			info.ID = existing.ID
			if err := repo.UpdateProductInfo(ctx, info); err != nil {
				return err
			}
			if err := repo.DeleteProductParameters(ctx, existing.ID); err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := repo.InsertProductInfo(ctx, info); err != nil {
				return err
			}
		default:
			return err
		}
	} else {
		if err := repo.InsertProductInfo(ctx, info); err != nil {
			return err
		}
	}

	// Stable order keeps parameter ids deterministic across runs.
	names := make([]string, 0, len(g.Parameters))
	for name := range g.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		parameter, err := repo.GetOrCreateParameter(ctx, name)
		if err != nil {
			return err
		}
		pp := &models.ProductParameter{
			ProductInfoID: info.ID,
			ParameterID:   parameter.ID,
			Value:         ParameterValue(g.Parameters[name]),
		}
		if err := repo.InsertProductParameter(ctx, pp); err != nil {
			return err
		}
	}
	return nil
}

// PartnerState loads the caller's shop for the state endpoint.
func (s *Service) PartnerState(ctx context.Context, userID uint) (*models.Shop, error) {
	shop, err := s.repo.ShopByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return nil, err
	}
	return shop, nil
}

// SetPartnerState toggles whether the caller's shop accepts orders.
func (s *Service) SetPartnerState(ctx context.Context, userID uint, state bool) (*models.Shop, error) {
	shop, err := s.PartnerState(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateShopState(ctx, shop.ID, state); err != nil {
		return nil, err
	}
	shop.State = state
	return shop, nil
}
