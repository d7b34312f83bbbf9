package seed

import (
	"errors"
	"os"
	"time"

	catalogModel "digistore/internal/domain/catalog/model"
	couponModel "digistore/internal/domain/coupon/model"
	siteconfigModel "digistore/internal/domain/siteconfig/model"
	userRepository "digistore/internal/domain/user/repository"
	userService "digistore/internal/domain/user/service"
	"digistore/pkg/logger"
	"digistore/pkg/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Run seeds the admin account, a starter catalog, sample coupons and the
// site config singleton. Every step checks for existing rows first, so
// running it on every startup is safe.
func Run(db *gorm.DB) error {
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "changeme123"
	}

	users := userService.NewUserService(userRepository.NewUserRepository(db))
	if err := users.EnsureAdmin("admin", adminPassword); err != nil {
		return err
	}

	if err := seedCatalog(db); err != nil {
		return err
	}
	if err := seedCoupons(db); err != nil {
		return err
	}
	if err := seedSiteConfig(db); err != nil {
		return err
	}

	logger.Info("Seed completed")
	return nil
}

func seedCatalog(db *gorm.DB) error {
	categories := []struct {
		Name string
		Icon string
	}{
		{Name: "Streaming", Icon: "🎬"},
		{Name: "Music", Icon: "🎵"},
		{Name: "Productivity", Icon: "🛠️"},
	}

	catIDs := make(map[string]string, len(categories))
	for i, c := range categories {
		slug := utils.Slugify(c.Name)

		var existing catalogModel.Category
		err := db.Where("slug = ?", slug).First(&existing).Error
		if err == nil {
			catIDs[c.Name] = existing.ID
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		cat := catalogModel.Category{
			Name:      c.Name,
			Slug:      slug,
			Icon:      c.Icon,
			SortOrder: i,
			Status:    catalogModel.StatusActive,
		}
		if err := db.Create(&cat).Error; err != nil {
			return err
		}
		catIDs[c.Name] = cat.ID
		logger.Info("Seeded category", zap.String("slug", slug))
	}

	products := []struct {
		Name     string
		Category string
		Desc     string
		Featured bool
		Pricing  catalogModel.PricingTiers
	}{
		{
			Name:     "Netflix Premium",
			Category: "Streaming",
			Desc:     "4K UHD streaming on shared premium slots.",
			Featured: true,
			Pricing: catalogModel.PricingTiers{
				{DurationLabel: "1 Month", Price: 4.99},
				{DurationLabel: "3 Months", Price: 13.99},
				{DurationLabel: "12 Months", Price: 49.99},
			},
		},
		{
			Name:     "Spotify Premium",
			Category: "Music",
			Desc:     "Ad-free music on your own account.",
			Featured: true,
			Pricing: catalogModel.PricingTiers{
				{DurationLabel: "1 Month", Price: 2.99},
				{DurationLabel: "12 Months", Price: 24.99},
			},
		},
		{
			Name:     "Canva Pro",
			Category: "Productivity",
			Desc:     "Design tools with premium templates and assets.",
			Pricing: catalogModel.PricingTiers{
				{DurationLabel: "1 Month", Price: 3.49},
				{DurationLabel: "12 Months", Price: 29.99},
			},
		},
	}

	for _, p := range products {
		slug := utils.Slugify(p.Name)

		var count int64
		if err := db.Model(&catalogModel.Product{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		product := catalogModel.Product{
			Name:        p.Name,
			Slug:        slug,
			Description: p.Desc,
			CategoryID:  catIDs[p.Category],
			Pricing:     p.Pricing,
			Featured:    p.Featured,
			Status:      catalogModel.StatusActive,
		}
		if err := db.Create(&product).Error; err != nil {
			return err
		}
		logger.Info("Seeded product", zap.String("slug", slug))
	}

	return nil
}

func seedCoupons(db *gorm.DB) error {
	until := time.Now().AddDate(1, 0, 0)

	coupons := []couponModel.Coupon{
		{
			Code:            "SAVE20",
			DiscountType:    couponModel.TypePercentage,
			DiscountValue:   20,
			MinimumAmount:   10,
			MaximumDiscount: 15,
			Status:          couponModel.StatusActive,
			ValidFrom:       time.Now(),
			ValidUntil:      &until,
		},
		{
			Code:          "FLAT5",
			DiscountType:  couponModel.TypeFixed,
			DiscountValue: 5,
			MinimumAmount: 20,
			UsageLimit:    100,
			Status:        couponModel.StatusActive,
			ValidFrom:     time.Now(),
			ValidUntil:    &until,
		},
	}

	for _, c := range coupons {
		var count int64
		if err := db.Model(&couponModel.Coupon{}).Where("code = ?", c.Code).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&c).Error; err != nil {
			return err
		}
		logger.Info("Seeded coupon", zap.String("code", c.Code))
	}

	return nil
}

func seedSiteConfig(db *gorm.DB) error {
	var count int64
	if err := db.Model(&siteconfigModel.SiteConfig{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	cfg := siteconfigModel.SiteConfig{
		Currency:           "USD",
		ConversionRate:     1,
		TaxRate:            0,
		BannerIntervalSecs: 5,
		DealsRotationSecs:  8,
	}
	return db.Create(&cfg).Error
}
