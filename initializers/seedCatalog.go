package initializers

import (
	"errors"
	"fmt"
	"os"

	"github.com/Kariqs/amexan-eats/models"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Catalog is the seed file layout:
//
//	categories:
//	  - name: Pizza
//	    foods:
//	      - name: Margherita
//	        price: "9.99"
//	        tags: [cheese, classic]
type Catalog struct {
	Categories []SeedCategory `yaml:"categories"`
}

type SeedCategory struct {
	Name     string     `yaml:"name"`
	ImageURL string     `yaml:"image_url"`
	Foods    []SeedFood `yaml:"foods"`
}

type SeedFood struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Price       string   `yaml:"price"`
	ImageURL    string   `yaml:"image_url"`
	CookTime    string   `yaml:"cook_time"`
	Origins     []string `yaml:"origins"`
	Favorite    bool     `yaml:"favorite"`
	Rating      float64  `yaml:"rating"`
	Tags        []string `yaml:"tags"`
}

func LoadCatalog(path string) (Catalog, error) {
	var catalog Catalog
	raw, err := os.ReadFile(path)
	if err != nil {
		return catalog, fmt.Errorf("read catalog: %w", err)
	}
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return catalog, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return catalog, nil
}

// SeedCatalog inserts categories and foods that do not exist yet, matching
// by name. Existing rows are left untouched.
func SeedCatalog(db *gorm.DB, catalog Catalog) (int, error) {
	created := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, sc := range catalog.Categories {
			var category models.Category
			err := tx.Where("name = ?", sc.Name).First(&category).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				category = models.Category{Name: sc.Name, ImageURL: sc.ImageURL}
				if err := tx.Create(&category).Error; err != nil {
					return fmt.Errorf("create category %q: %w", sc.Name, err)
				}
			} else if err != nil {
				return err
			}

			for _, sf := range sc.Foods {
				price, err := decimal.NewFromString(sf.Price)
				if err != nil || price.IsNegative() {
					return fmt.Errorf("food %q: invalid price %q", sf.Name, sf.Price)
				}

				var count int64
				if err := tx.Model(&models.Food{}).Where("name = ?", sf.Name).Count(&count).Error; err != nil {
					return err
				}
				if count > 0 {
					continue
				}

				food := models.Food{
					Name:        sf.Name,
					Description: sf.Description,
					Price:       price,
					ImageURL:    sf.ImageURL,
					CategoryID:  category.ID,
					CookTime:    sf.CookTime,
					Origins:     sf.Origins,
					IsFavorite:  sf.Favorite,
					Rating:      sf.Rating,
					Tags:        sf.Tags,
				}
				if err := tx.Create(&food).Error; err != nil {
					return fmt.Errorf("create food %q: %w", sf.Name, err)
				}
				created++
			}
		}
		return nil
	})
	return created, err
}
