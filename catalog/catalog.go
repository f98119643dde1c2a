// Package catalog reads and searches the food catalog.
package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/Kariqs/amexan-eats/models"
	"github.com/Kariqs/amexan-eats/store"
)

// Matches reports whether food matches a search query and category. An empty
// query or category matches everything.
func Matches(food models.Food, query, categoryID string) bool {
	if categoryID != "" && food.CategoryID != categoryID {
		return false
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(food.Name), query) ||
		strings.Contains(strings.ToLower(food.Description), query) {
		return true
	}
	for _, tag := range food.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func Filter(foods []models.Food, query, categoryID string) []models.Food {
	matched := make([]models.Food, 0, len(foods))
	for _, food := range foods {
		if Matches(food, query, categoryID) {
			matched = append(matched, food)
		}
	}
	return matched
}

// Sort orders foods favourites first, then by rating, highest first. Foods
// that tie keep their relative order.
func Sort(foods []models.Food) {
	sort.SliceStable(foods, func(i, j int) bool {
		if foods[i].IsFavorite != foods[j].IsFavorite {
			return foods[i].IsFavorite
		}
		return foods[i].Rating > foods[j].Rating
	})
}

type Service struct {
	remote store.Remote
}

func NewService(remote store.Remote) *Service {
	return &Service{remote: remote}
}

// Foods returns the whole catalog in display order.
func (s *Service) Foods(ctx context.Context) ([]models.Food, error) {
	var foods []models.Food
	err := s.remote.Select(ctx, store.Query{
		Table: store.TableFoods,
		Order: []store.Order{store.Asc("name")},
	}, &foods)
	if err != nil {
		return nil, err
	}
	Sort(foods)
	return foods, nil
}

func (s *Service) Food(ctx context.Context, id string) (models.Food, error) {
	var foods []models.Food
	err := s.remote.Select(ctx, store.Query{
		Table:  store.TableFoods,
		Filter: store.Filter{"id": id},
	}, &foods)
	if err != nil {
		return models.Food{}, err
	}
	if len(foods) == 0 {
		return models.Food{}, store.Errorf(store.CodeNotFound, "food %s not found", id)
	}
	return foods[0], nil
}

func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.remote.Select(ctx, store.Query{
		Table: store.TableCategories,
		Order: []store.Order{store.Asc("name")},
	}, &categories)
	return categories, err
}

// Search filters the catalog by query and category.
func (s *Service) Search(ctx context.Context, query, categoryID string) ([]models.Food, error) {
	foods, err := s.Foods(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(foods, query, categoryID), nil
}
