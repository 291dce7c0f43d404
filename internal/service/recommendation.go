package service

import (
	"context"
	"errors"
	"log"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/makanlah/backend/internal/models"
	"gorm.io/gorm"
)

// ErrNoHistory signals that the user has no orders and no qualifying
// reviews, so the caller should serve the popularity fallback instead.
var ErrNoHistory = errors.New("no order or review history for user")

const (
	historyOrderLimit = 20
	candidateCap      = 50
	topCategoryCount  = 5
	cachedListSize    = 20
)

// RecommendationResult carries the ranked items and whether they came from
// the cache.
type RecommendationResult struct {
	Items  []models.MenuItem
	Cached bool
}

// RecommendationService mines a preference profile from a user's history
// and ranks candidate menu items against it. Personalization is best-effort
// on top of the popularity baseline; cache failures never surface.
type RecommendationService struct {
	db    *gorm.DB
	cache RecommendationCache
}

func NewRecommendationService(db *gorm.DB, cache RecommendationCache) *RecommendationService {
	return &RecommendationService{db: db, cache: cache}
}

// GetRecommendations returns up to limit personalized items. ErrNoHistory
// means the user has nothing to personalize on; any other error also means
// the caller should fall back to GetPopularRecommendations.
func (s *RecommendationService) GetRecommendations(ctx context.Context, userID uuid.UUID, limit int) (*RecommendationResult, error) {
	if cached := s.fromCache(ctx, userID, limit); cached != nil {
		return cached, nil
	}

	events, exclusion, err := s.mineHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ErrNoHistory
	}

	profile := BuildPreferenceProfile(events)

	candidates, err := s.candidateItems(ctx, profile, exclusion)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return &RecommendationResult{Items: []models.MenuItem{}}, nil
	}

	ratings, photos, err := s.reviewAggregates(ctx, candidateIDs(candidates))
	if err != nil {
		return nil, err
	}

	type scored struct {
		item  models.MenuItem
		score float64
	}
	ranked := make([]scored, 0, len(candidates))
	for _, item := range candidates {
		_, tried := exclusion[item.ID]
		sc := ScoreCandidate(item.Category, item.StallID, item.Price,
			profile, ratings[item.ID], photos[item.ID], tried)
		ranked = append(ranked, scored{item: item, score: sc})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	items := make([]models.MenuItem, 0, limit)
	cacheIDs := make([]uuid.UUID, 0, cachedListSize)
	for i, r := range ranked {
		if i < limit {
			items = append(items, r.item)
		}
		if i < cachedListSize {
			cacheIDs = append(cacheIDs, r.item.ID)
		}
	}

	// Best-effort cache write; a broken cache must not fail the request.
	if err := s.cache.Put(ctx, userID, cacheIDs); err != nil {
		log.Printf("[Recommendations] cache write failed for user %s: %v", userID, err)
	}

	return &RecommendationResult{Items: items}, nil
}

// Refresh drops the cached list so the next request rebuilds it.
func (s *RecommendationService) Refresh(ctx context.Context, userID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		log.Printf("[Recommendations] cache invalidation failed for user %s: %v", userID, err)
	}
}

// GetPopularRecommendations is the guaranteed baseline: review-derived
// popularity with logarithmic damping, degrading to an unscored sample when
// no reviews exist at all. It never depends on who is asking.
func (s *RecommendationService) GetPopularRecommendations(ctx context.Context, limit int) ([]models.MenuItem, error) {
	type popularity struct {
		MenuItemID uuid.UUID
		AvgRating  float64
		Count      int64
	}

	var rows []popularity
	err := s.db.WithContext(ctx).Model(&models.Review{}).
		Select("menu_item_id, AVG(rating) as avg_rating, COUNT(*) as count").
		Group("menu_item_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		var items []models.MenuItem
		err := s.db.WithContext(ctx).
			Where("is_available = ?", true).
			Limit(limit).Preload("Stall").Find(&items).Error
		return items, err
	}

	// Log damping keeps a single 5-star review from outranking a stack of
	// 4-star ones.
	sort.SliceStable(rows, func(i, j int) bool {
		si := rows[i].AvgRating * math.Log(float64(rows[i].Count)+1)
		sj := rows[j].AvgRating * math.Log(float64(rows[j].Count)+1)
		return si > sj
	})

	n := 2 * limit
	if n > len(rows) {
		n = len(rows)
	}
	ids := make([]uuid.UUID, 0, n)
	for _, r := range rows[:n] {
		ids = append(ids, r.MenuItemID)
	}

	byID, err := s.menuItemsByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]models.MenuItem, 0, limit)
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			items = append(items, item)
			if len(items) == limit {
				break
			}
		}
	}
	return items, nil
}

// fromCache serves a still-valid cached list. A list whose referenced items
// no longer all resolve is discarded wholesale; there is no partial repair.
func (s *RecommendationService) fromCache(ctx context.Context, userID uuid.UUID, limit int) *RecommendationResult {
	ids, err := s.cache.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("[Recommendations] cache read failed for user %s: %v", userID, err)
		}
		return nil
	}
	if len(ids) == 0 {
		return nil
	}

	byID, err := s.menuItemsByID(ctx, ids)
	if err != nil {
		return nil
	}

	items := make([]models.MenuItem, 0, len(ids))
	for _, id := range ids {
		item, ok := byID[id]
		if !ok {
			return nil
		}
		items = append(items, item)
	}

	if len(items) > limit {
		items = items[:limit]
	}
	return &RecommendationResult{Items: items, Cached: true}
}

// mineHistory loads the preference signal (newest first, so tie-breaks
// favor recent behavior) and the set of items the user has already tried.
func (s *RecommendationService) mineHistory(ctx context.Context, userID uuid.UUID) ([]PreferenceEvent, map[uuid.UUID]struct{}, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(historyOrderLimit).
		Preload("Items").
		Find(&orders).Error
	if err != nil {
		return nil, nil, err
	}

	var qualifying []models.Review
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND rating >= ?", userID, 4).
		Order("created_at DESC").
		Find(&qualifying).Error
	if err != nil {
		return nil, nil, err
	}

	var itemIDs []uuid.UUID
	for _, o := range orders {
		for _, line := range o.Items {
			itemIDs = append(itemIDs, line.MenuItemID)
		}
	}
	for _, r := range qualifying {
		itemIDs = append(itemIDs, r.MenuItemID)
	}

	byID, err := s.menuItemsByID(ctx, itemIDs)
	if err != nil {
		return nil, nil, err
	}

	var events []PreferenceEvent
	for _, o := range orders {
		for _, line := range o.Items {
			if item, ok := byID[line.MenuItemID]; ok {
				events = append(events, preferenceEvent(item, orderSignalWeight))
			}
		}
	}
	for _, r := range qualifying {
		if item, ok := byID[r.MenuItemID]; ok {
			events = append(events, preferenceEvent(item, reviewSignalWeight))
		}
	}

	// The exclusion set covers every reviewed item, not just rating >= 4.
	var reviewedIDs []uuid.UUID
	err = s.db.WithContext(ctx).Model(&models.Review{}).
		Where("user_id = ?", userID).
		Pluck("menu_item_id", &reviewedIDs).Error
	if err != nil {
		return nil, nil, err
	}

	exclusion := make(map[uuid.UUID]struct{})
	for _, o := range orders {
		for _, line := range o.Items {
			exclusion[line.MenuItemID] = struct{}{}
		}
	}
	for _, id := range reviewedIDs {
		exclusion[id] = struct{}{}
	}

	return events, exclusion, nil
}

func preferenceEvent(item models.MenuItem, weight float64) PreferenceEvent {
	return PreferenceEvent{
		MenuItemID: item.ID,
		Category:   item.Category,
		StallID:    item.StallID,
		Price:      item.Price,
		Weight:     weight,
	}
}

// candidateItems widens through three tiers, each only when the previous
// one came back empty: favorite categories minus tried items, favorite
// categories with tried items back in, then anything at all.
func (s *RecommendationService) candidateItems(ctx context.Context, profile *PreferenceProfile, exclusion map[uuid.UUID]struct{}) ([]models.MenuItem, error) {
	topCats := profile.TopCategories(topCategoryCount)

	excludedIDs := make([]uuid.UUID, 0, len(exclusion))
	for id := range exclusion {
		excludedIDs = append(excludedIDs, id)
	}

	// Tier A
	var candidates []models.MenuItem
	query := s.db.WithContext(ctx).
		Where("category IN ?", topCats).
		Where("is_available = ?", true)
	if len(excludedIDs) > 0 {
		query = query.Where("id NOT IN ?", excludedIDs)
	}
	if err := query.Limit(candidateCap).Preload("Stall").Find(&candidates).Error; err != nil {
		return nil, err
	}
	if len(candidates) > 0 {
		return candidates, nil
	}

	// Tier B: resurface already-tried items
	err := s.db.WithContext(ctx).
		Where("category IN ?", topCats).
		Where("is_available = ?", true).
		Limit(candidateCap).Preload("Stall").
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}
	if len(candidates) > 0 {
		return candidates, nil
	}

	// Tier C: no category filter at all
	err = s.db.WithContext(ctx).
		Where("is_available = ?", true).
		Limit(candidateCap).Preload("Stall").
		Find(&candidates).Error
	return candidates, err
}

// reviewAggregates batch-loads average ratings and photo counts for the
// candidate set.
func (s *RecommendationService) reviewAggregates(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]float64, map[uuid.UUID]int, error) {
	ratings := make(map[uuid.UUID]float64, len(ids))
	photos := make(map[uuid.UUID]int, len(ids))
	if len(ids) == 0 {
		return ratings, photos, nil
	}

	type ratingRow struct {
		MenuItemID uuid.UUID
		AvgRating  float64
	}
	var ratingRows []ratingRow
	err := s.db.WithContext(ctx).Model(&models.Review{}).
		Select("menu_item_id, AVG(rating) as avg_rating").
		Where("menu_item_id IN ?", ids).
		Group("menu_item_id").
		Scan(&ratingRows).Error
	if err != nil {
		return nil, nil, err
	}
	for _, r := range ratingRows {
		ratings[r.MenuItemID] = r.AvgRating
	}

	type photoRow struct {
		MenuItemID uuid.UUID
		PhotoCount int
	}
	var photoRows []photoRow
	err = s.db.WithContext(ctx).Model(&models.Review{}).
		Select("menu_item_id, COUNT(*) as photo_count").
		Where("menu_item_id IN ? AND photo_url <> ''", ids).
		Group("menu_item_id").
		Scan(&photoRows).Error
	if err != nil {
		return nil, nil, err
	}
	for _, r := range photoRows {
		photos[r.MenuItemID] = r.PhotoCount
	}

	return ratings, photos, nil
}

func (s *RecommendationService) menuItemsByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.MenuItem, error) {
	byID := make(map[uuid.UUID]models.MenuItem, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}

	var items []models.MenuItem
	err := s.db.WithContext(ctx).
		Where("id IN ?", ids).
		Preload("Stall").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		byID[item.ID] = item
	}
	return byID, nil
}

func candidateIDs(items []models.MenuItem) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}
