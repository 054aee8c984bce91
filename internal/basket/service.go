package basket

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	dbpkg "github.com/retailnet/backend/pkg/db"
	"github.com/retailnet/backend/pkg/db/models"
	"github.com/retailnet/backend/pkg/enums"
	pkgerrors "github.com/retailnet/backend/pkg/errors"
	"github.com/retailnet/backend/pkg/logger"
	"github.com/retailnet/backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service owns the basket-to-order lifecycle.
type Service struct {
	repo   *Repository
	tx     txRunner
	events eventEmitter
	logg   *logger.Logger
}

// NewService builds the basket service.
func NewService(repo *Repository, tx txRunner, events eventEmitter, logg *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("basket repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	return &Service{repo: repo, tx: tx, events: events, logg: logg}, nil
}

// View returns the caller's basket with the computed total. A user with no
// basket gets an empty payload, not an error.
func (s *Service) View(ctx context.Context, userID uint) (*BasketView, error) {
	order, err := s.repo.FindBasket(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return basketView(nil), nil
		}
		return nil, err
	}
	return basketView(order), nil
}

// AddResult reports how many lines an add-items batch created.
type AddResult struct {
	OrderID uint `json:"order_id"`
	Created int  `json:"created"`
}

// AddItems inserts the batch into the caller's basket. The whole batch runs
// in one transaction; the first invalid entry aborts it and nothing lands.
func (s *Service) AddItems(ctx context.Context, userID uint, items []ItemInput) (*AddResult, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}
	for i, item := range items {
		if item.ProductInfo == 0 {
			return nil, entryError(i, "product_info", "product_info is required")
		}
		if item.Quantity <= 0 {
			return nil, entryError(i, "quantity", "quantity must be positive")
		}
	}

	result := &AddResult{}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.GetOrCreateBasket(ctx, userID)
		if err != nil {
			return err
		}
		result.OrderID = order.ID

		for i, item := range items {
			exists, err := repo.ProductInfoExists(ctx, item.ProductInfo)
			if err != nil {
				return err
			}
			if !exists {
				return entryError(i, "product_info", "unknown product_info")
			}
			row := &models.OrderItem{
				OrderID:       order.ID,
				ProductInfoID: item.ProductInfo,
				Quantity:      item.Quantity,
			}
			if err := repo.InsertItem(ctx, row); err != nil {
				if dbpkg.IsUniqueViolation(err, "ux_order_items_order_info") {
					return entryError(i, "product_info", "listing already in basket")
				}
				return err
			}
			result.Created++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Checkout converts the caller's basket into a placed order. The state flip,
// contact check and order.placed event share one transaction.
func (s *Service) Checkout(ctx context.Context, userID, contactID uint) (*AddResult, error) {
	if contactID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contact_id is required")
	}

	result := &AddResult{}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		owned, err := repo.ContactOwned(ctx, contactID, userID)
		if err != nil {
			return err
		}
		if !owned {
			return pkgerrors.New(pkgerrors.CodeValidation, "contact does not belong to the caller")
		}

		order, err := repo.FindBasket(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "no active basket")
			}
			return err
		}

		rows, err := repo.PlaceOrder(ctx, order.ID, userID, contactID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "no active basket")
		}
		result.OrderID = order.ID
		result.Created = len(order.Items)

		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderPlaced,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{UserID: userID},
			Version:       1,
			Data: map[string]any{
				"order_id":   order.ID,
				"user_id":    userID,
				"contact_id": contactID,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		fields := map[string]any{"order_id": result.OrderID}
		s.logg.Info(s.logg.WithFields(ctx, fields), "order placed")
	}
	return result, nil
}

// History lists the caller's placed orders with their totals.
func (s *Service) History(ctx context.Context, userID uint) ([]OrderView, error) {
	orders, err := s.repo.ListPlacedOrders(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]OrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, orderView(order))
	}
	return views, nil
}

func entryError(index int, field, message string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).
		WithDetails(map[string]any{"index": index, "field": field})
}
