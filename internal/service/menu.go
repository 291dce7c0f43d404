package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/makanlah/backend/internal/models"
	"github.com/makanlah/backend/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrStallNotFound = errors.New("stall not found")
	ErrNotStallOwner = errors.New("stall belongs to another owner")
)

// MenuService handles stall and menu item operations, including
// embedding-backed search on postgres with a keyword fallback elsewhere.
type MenuService struct {
	db               *gorm.DB
	embeddingService EmbeddingServiceInterface
}

func NewMenuService(db *gorm.DB, embeddingService EmbeddingServiceInterface) *MenuService {
	return &MenuService{db: db, embeddingService: embeddingService}
}

// Stalls

func (s *MenuService) CreateStall(ctx context.Context, ownerID uuid.UUID, req *types.CreateStallRequest) (*models.Stall, error) {
	stall := models.Stall{
		ID:       uuid.New(),
		OwnerID:  ownerID,
		Name:     req.Name,
		Location: req.Location,
		Cuisine:  req.Cuisine,
		ImageURL: req.ImageURL,
		IsOpen:   true,
	}
	if err := s.db.WithContext(ctx).Create(&stall).Error; err != nil {
		return nil, err
	}
	return &stall, nil
}

func (s *MenuService) GetStall(ctx context.Context, id uuid.UUID) (*models.Stall, error) {
	var stall models.Stall
	err := s.db.WithContext(ctx).First(&stall, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStallNotFound
	}
	if err != nil {
		return nil, err
	}
	return &stall, nil
}

func (s *MenuService) ListStalls(ctx context.Context) ([]models.Stall, error) {
	var stalls []models.Stall
	err := s.db.WithContext(ctx).Order("name ASC").Find(&stalls).Error
	return stalls, err
}

// UpdateStall applies the request to the owner's stall. Admins bypass the
// ownership check.
func (s *MenuService) UpdateStall(ctx context.Context, id, actorID uuid.UUID, actorRole string, req *types.UpdateStallRequest) (*models.Stall, error) {
	stall, err := s.GetStall(ctx, id)
	if err != nil {
		return nil, err
	}
	if stall.OwnerID != actorID && actorRole != models.RoleAdmin {
		return nil, ErrNotStallOwner
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Location != "" {
		updates["location"] = req.Location
	}
	if req.Cuisine != "" {
		updates["cuisine"] = req.Cuisine
	}
	if req.ImageURL != "" {
		updates["image_url"] = req.ImageURL
	}
	if req.IsOpen != nil {
		updates["is_open"] = *req.IsOpen
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(stall).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetStall(ctx, id)
}

func (s *MenuService) DeleteStall(ctx context.Context, id, actorID uuid.UUID, actorRole string) error {
	stall, err := s.GetStall(ctx, id)
	if err != nil {
		return err
	}
	if stall.OwnerID != actorID && actorRole != models.RoleAdmin {
		return ErrNotStallOwner
	}
	return s.db.WithContext(ctx).Delete(&models.Stall{}, "id = ?", id).Error
}

// Menu items

func (s *MenuService) CreateMenuItem(ctx context.Context, actorID uuid.UUID, actorRole string, req *types.CreateMenuItemRequest) (*models.MenuItem, error) {
	stall, err := s.GetStall(ctx, req.StallID)
	if err != nil {
		return nil, err
	}
	if stall.OwnerID != actorID && actorRole != models.RoleAdmin {
		return nil, ErrNotStallOwner
	}

	item := models.MenuItem{
		ID:          uuid.New(),
		StallID:     req.StallID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		IsAvailable: true,
	}
	if s.embeddingService != nil {
		if vec, err := s.embeddingService.GenerateEmbedding(ctx, item.Name+" "+item.Description); err == nil {
			item.Embedding = vec
		}
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *MenuService) GetMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	err := s.db.WithContext(ctx).Preload("Stall").First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMenuItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *MenuService) ListMenuForStall(ctx context.Context, stallID uuid.UUID) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := s.db.WithContext(ctx).
		Where("stall_id = ?", stallID).
		Order("category ASC, name ASC").
		Find(&items).Error
	return items, err
}

func (s *MenuService) UpdateMenuItem(ctx context.Context, id, actorID uuid.UUID, actorRole string, req *types.UpdateMenuItemRequest) (*models.MenuItem, error) {
	item, err := s.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}
	stall, err := s.GetStall(ctx, item.StallID)
	if err != nil {
		return nil, err
	}
	if stall.OwnerID != actorID && actorRole != models.RoleAdmin {
		return nil, ErrNotStallOwner
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Category != "" {
		updates["category"] = req.Category
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.ImageURL != "" {
		updates["image_url"] = req.ImageURL
	}
	if req.IsAvailable != nil {
		updates["is_available"] = *req.IsAvailable
	}

	if req.Name != "" || req.Description != "" {
		name, desc := item.Name, item.Description
		if req.Name != "" {
			name = req.Name
		}
		if req.Description != "" {
			desc = req.Description
		}
		if s.embeddingService != nil {
			if vec, err := s.embeddingService.GenerateEmbedding(ctx, name+" "+desc); err == nil {
				updates["embedding"] = vec
			}
		}
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(item).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetMenuItem(ctx, id)
}

func (s *MenuService) DeleteMenuItem(ctx context.Context, id, actorID uuid.UUID, actorRole string) error {
	item, err := s.GetMenuItem(ctx, id)
	if err != nil {
		return err
	}
	stall, err := s.GetStall(ctx, item.StallID)
	if err != nil {
		return err
	}
	if stall.OwnerID != actorID && actorRole != models.RoleAdmin {
		return ErrNotStallOwner
	}
	return s.db.WithContext(ctx).Delete(&models.MenuItem{}, "id = ?", id).Error
}

// SearchMenuItems combines embedding distance with keyword matching on
// postgres, and degrades to a plain LIKE search on other dialects.
func (s *MenuService) SearchMenuItems(ctx context.Context, query string) ([]models.MenuItem, error) {
	var items []models.MenuItem

	dbQuery := s.db.WithContext(ctx).Where("is_available = ?", true)

	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		if s.db.Dialector.Name() == "postgres" && s.embeddingService != nil {
			vec, err := s.embeddingService.GenerateEmbedding(ctx, query)
			if err != nil {
				return nil, err
			}
			dbQuery = dbQuery.
				Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like).
				Clauses(clause.OrderBy{
					Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vec}},
				})
		} else {
			dbQuery = dbQuery.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
		}
	}

	err := dbQuery.Limit(candidateCap).Preload("Stall").Find(&items).Error
	return items, err
}
