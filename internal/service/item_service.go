package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/littleshop/catalog-api/internal/model"
)

// ItemRepositoryInterface defines the interface for item data access.
type ItemRepositoryInterface interface {
	Insert(ctx context.Context, item *model.Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Item, error)
	ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]model.Item, error)
	CountByMerchant(ctx context.Context, merchantID uuid.UUID) (int, error)
	Search(ctx context.Context, search model.ItemSearch) ([]model.Item, error)
	Update(ctx context.Context, item *model.Item) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ItemService provides item CRUD and the catalog search endpoints. No
// coupon logic lives here.
type ItemService struct {
	itemRepo     ItemRepositoryInterface
	merchantRepo MerchantLockerInterface
}

// NewItemService creates a new ItemService with the given repositories.
func NewItemService(itemRepo ItemRepositoryInterface, merchantRepo MerchantLockerInterface) *ItemService {
	return &ItemService{itemRepo: itemRepo, merchantRepo: merchantRepo}
}

// Create validates and persists a new item.
func (s *ItemService) Create(ctx context.Context, req *model.CreateItemRequest) (*model.Item, error) {
	merchant, err := s.merchantRepo.GetByID(ctx, req.MerchantID)
	if err != nil {
		return nil, fmt.Errorf("get merchant: %w", err)
	}
	if merchant == nil {
		return nil, ErrMerchantNotFound
	}

	item := &model.Item{
		ID:          uuid.New(),
		MerchantID:  req.MerchantID,
		Name:        req.Name,
		Description: req.Description,
		UnitPrice:   *req.UnitPrice,
	}
	if err := s.itemRepo.Insert(ctx, item); err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	return item, nil
}

// Get retrieves an item by id.
func (s *ItemService) Get(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	return item, nil
}

// ListByMerchant retrieves a merchant's items.
// Returns ErrMerchantNotFound if the merchant doesn't exist.
func (s *ItemService) ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]model.Item, error) {
	merchant, err := s.merchantRepo.GetByID(ctx, merchantID)
	if err != nil {
		return nil, fmt.Errorf("get merchant: %w", err)
	}
	if merchant == nil {
		return nil, ErrMerchantNotFound
	}
	return s.itemRepo.ListByMerchant(ctx, merchantID)
}

// FindAll retrieves every item matching the search, alphabetical by name.
func (s *ItemService) FindAll(ctx context.Context, search model.ItemSearch) ([]model.Item, error) {
	return s.itemRepo.Search(ctx, search)
}

// FindOne retrieves the alphabetically first item matching the search.
// Returns ErrItemNotFound when nothing matches.
func (s *ItemService) FindOne(ctx context.Context, search model.ItemSearch) (*model.Item, error) {
	items, err := s.itemRepo.Search(ctx, search)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrItemNotFound
	}
	return &items[0], nil
}

// Update applies a field-level item edit.
func (s *ItemService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateItemRequest) (*model.Item, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.UnitPrice != nil {
		item.UnitPrice = *req.UnitPrice
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes an item.
func (s *ItemService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.itemRepo.Delete(ctx, id)
}
