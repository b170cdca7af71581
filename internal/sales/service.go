package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sales_service/internal/apperr"
	"sales_service/internal/pagination"
	"sales_service/internal/products"
)

// ProductRequest names a product and the quantity wanted of it. Used both
// to create a sale and to patch its line items.
type ProductRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Service provides high-level sales management operations on a Storage
// backend. Every successful persisted mutation is announced through the
// notifier; announcement failures are logged, never propagated.
type Service struct {
	storage  Storage
	products products.Storage
	notifier Notifier
	logger   *zap.Logger
}

// NewService creates a new Service.
func NewService(storage Storage, productStorage products.Storage, notifier Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	if notifier == nil {
		notifier = NewLogNotifier(logger)
	}
	return &Service{
		storage:  storage,
		products: productStorage,
		notifier: notifier,
		logger:   logger,
	}
}

// CreateSale builds a sale for userID from the requested products,
// snapshotting each product's current price, and persists it.
func (s *Service) CreateSale(ctx context.Context, userID string, items []ProductRequest) (*Sale, error) {
	if userID == "" {
		return nil, apperr.Validation("user ID must be informed")
	}
	if err := validateProductRequests(items); err != nil {
		return nil, err
	}

	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}
	resolved, err := s.products.GetManyByID(ctx, ids)
	if err != nil {
		s.logger.Error("failed to resolve products", zap.Error(err))
		return nil, err
	}
	byID := make(map[string]*products.Product, len(resolved))
	for _, p := range resolved {
		byID[p.ID] = p
	}

	sale := &Sale{
		ID:        uuid.NewString(),
		UserID:    userID,
		Status:    StatusActive,
		CreatedAt: time.Now().UTC(),
	}
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, apperr.NotFound("product", item.ProductID)
		}
		ps, err := NewProductSale(product.ID, item.Quantity, product.Price)
		if err != nil {
			return nil, err
		}
		sale.Products = append(sale.Products, ps)
	}
	sale.RecalculateTotal()

	created, err := s.storage.Create(ctx, sale)
	if err != nil {
		s.logger.Error("failed to save sale", zap.String("sale_id", sale.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("sale created",
		zap.String("sale_id", created.ID),
		zap.Int64("sequence_number", created.SequenceNumber),
		zap.Float64("total_amount", created.TotalAmount),
	)
	s.notify(ctx, Event{
		Type:        EventSaleCreated,
		SaleID:      created.ID,
		Status:      created.Status,
		TotalAmount: created.TotalAmount,
	})
	return created, nil
}

// GetSale retrieves a single sale by ID.
func (s *Service) GetSale(ctx context.Context, id string) (*Sale, error) {
	return s.storage.GetByID(ctx, id)
}

// ListSales retrieves one page of the sales matching the filter.
func (s *Service) ListSales(ctx context.Context, filter ListFilter, pageNumber, pageSize int) (*pagination.Page[*Sale], error) {
	if filter.Status != "" && !filter.Status.valid() {
		return nil, apperr.Validation("invalid status filter '%s'", filter.Status)
	}
	all, err := s.storage.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list sales", zap.Error(err))
		return nil, err
	}
	return pagination.Paginate(all, pageNumber, pageSize)
}

// AdvanceSale moves a sale one step forward along its workflow and
// persists the new status.
func (s *Service) AdvanceSale(ctx context.Context, id string) (*Sale, error) {
	return s.transition(ctx, id, (*Sale).Advance)
}

// CancelSale cancels a sale from any non-terminal state and persists the
// new status.
func (s *Service) CancelSale(ctx context.Context, id string) (*Sale, error) {
	return s.transition(ctx, id, (*Sale).Cancel)
}

func (s *Service) transition(ctx context.Context, id string, apply func(*Sale) error) (*Sale, error) {
	sale, err := s.storage.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(sale); err != nil {
		return nil, err
	}
	updated, err := s.storage.Update(ctx, sale)
	if err != nil {
		s.logger.Error("failed to update sale", zap.String("sale_id", sale.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("sale status changed",
		zap.String("sale_id", updated.ID),
		zap.String("status", string(updated.Status)),
	)
	s.notify(ctx, Event{
		Type:   EventSaleStatusChanged,
		SaleID: updated.ID,
		Status: updated.Status,
	})
	return updated, nil
}

// DeleteSale soft-cancels a sale instead of erasing it. Returns false when
// the sale does not exist, true otherwise. Deleting an already-terminal
// sale is a no-op that still reports true.
func (s *Service) DeleteSale(ctx context.Context, id string) (bool, error) {
	sale, err := s.storage.GetByID(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	if sale.Status.Terminal() {
		return true, nil
	}
	if err := sale.Cancel(); err != nil {
		return false, err
	}
	if _, err := s.storage.Update(ctx, sale); err != nil {
		s.logger.Error("failed to update sale", zap.String("sale_id", sale.ID), zap.Error(err))
		return false, err
	}

	s.logger.Info("sale deleted", zap.String("sale_id", sale.ID))
	s.notify(ctx, Event{
		Type:   EventSaleDeleted,
		SaleID: sale.ID,
		Status: sale.Status,
	})
	return true, nil
}

// PatchProducts updates the quantity of existing line items and creates
// line items for products the sale does not carry yet. A patch targeting a
// cancelled line item reactivates it with the requested quantity.
func (s *Service) PatchProducts(ctx context.Context, saleID string, items []ProductRequest) (*Sale, error) {
	if err := validateProductRequests(items); err != nil {
		return nil, err
	}
	sale, err := s.storage.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale.Status.Terminal() {
		return nil, apperr.InvalidState("sale '%s' is %s and its products cannot be changed", sale.ID, sale.Status)
	}

	patched := make([]string, 0, len(items))
	for _, item := range items {
		existing := sale.FindProduct(item.ProductID)
		switch {
		case existing == nil:
			product, err := s.products.GetByID(ctx, item.ProductID)
			if err != nil {
				return nil, err
			}
			ps, err := NewProductSale(product.ID, item.Quantity, product.Price)
			if err != nil {
				return nil, err
			}
			sale.Products = append(sale.Products, ps)
		case existing.Status == ProductSaleCancelled:
			if err := existing.reactivate(item.Quantity); err != nil {
				return nil, err
			}
		default:
			if err := existing.ChangeQuantity(item.Quantity); err != nil {
				return nil, err
			}
		}
		patched = append(patched, item.ProductID)
	}
	sale.RecalculateTotal()

	updated, err := s.storage.Update(ctx, sale)
	if err != nil {
		s.logger.Error("failed to update sale", zap.String("sale_id", sale.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("sale products patched",
		zap.String("sale_id", updated.ID),
		zap.Strings("product_ids", patched),
		zap.Float64("total_amount", updated.TotalAmount),
	)
	s.notify(ctx, Event{
		Type:        EventProductSalePatched,
		SaleID:      updated.ID,
		TotalAmount: updated.TotalAmount,
		ProductIDs:  patched,
	})
	return updated, nil
}

// RemoveProducts cancels the line items for the given product ids. Ids not
// present in the sale are silently ignored; the operation is idempotent
// per product id.
func (s *Service) RemoveProducts(ctx context.Context, saleID string, productIDs []string) (*Sale, error) {
	if len(productIDs) == 0 {
		return nil, apperr.Validation("at least one product must be informed")
	}
	sale, err := s.storage.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale.Status.Terminal() {
		return nil, apperr.InvalidState("sale '%s' is %s and its products cannot be changed", sale.ID, sale.Status)
	}

	removed := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		ps := sale.FindProduct(id)
		if ps == nil || ps.Status == ProductSaleCancelled {
			continue
		}
		if err := ps.Cancel(); err != nil {
			return nil, err
		}
		removed = append(removed, id)
	}
	sale.RecalculateTotal()

	updated, err := s.storage.Update(ctx, sale)
	if err != nil {
		s.logger.Error("failed to update sale", zap.String("sale_id", sale.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("sale products removed",
		zap.String("sale_id", updated.ID),
		zap.Strings("product_ids", removed),
		zap.Float64("total_amount", updated.TotalAmount),
	)
	s.notify(ctx, Event{
		Type:        EventProductSalePatched,
		SaleID:      updated.ID,
		TotalAmount: updated.TotalAmount,
		ProductIDs:  removed,
	})
	return updated, nil
}

func (s *Service) notify(ctx context.Context, event Event) {
	if err := s.notifier.Notify(ctx, event); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("type", string(event.Type)),
			zap.String("sale_id", event.SaleID),
			zap.Error(err),
		)
	}
}

func validateProductRequests(items []ProductRequest) error {
	if len(items) == 0 {
		return apperr.Validation("at least one product must be informed")
	}
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item.ProductID == "" {
			return apperr.Validation("product ID must be informed")
		}
		if _, dup := seen[item.ProductID]; dup {
			return apperr.Validation("duplicate product ID '%s'", item.ProductID)
		}
		seen[item.ProductID] = struct{}{}
		if item.Quantity < 1 {
			return apperr.Validation("product quantity must be at least 1, got %d", item.Quantity)
		}
	}
	return nil
}
