package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/halisidigital/halisi-backend/internal/users"
	"github.com/halisidigital/halisi-backend/pkg/config"
	"github.com/halisidigital/halisi-backend/pkg/db"
	"github.com/halisidigital/halisi-backend/pkg/db/models"
	"github.com/halisidigital/halisi-backend/pkg/enums"
	"github.com/halisidigital/halisi-backend/pkg/logger"
	"github.com/halisidigital/halisi-backend/pkg/security"
)

// Seeds the catalog, a starter set of discount rules, and one admin account.
// Safe to re-run: every record is looked up before it is inserted.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	adminEmail := flag.String("admin-email", os.Getenv("HALISI_SEED_ADMIN_EMAIL"), "admin account email")
	adminPassword := flag.String("admin-password", os.Getenv("HALISI_SEED_ADMIN_PASSWORD"), "admin account password")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	dbClient, err := db.New(ctx, cfg.DB, false, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	gdb := dbClient.DB()

	if err := seedEbooks(ctx, gdb); err != nil {
		logg.Error(ctx, "failed to seed ebooks", err)
		os.Exit(1)
	}
	if err := seedDiscountRules(ctx, gdb); err != nil {
		logg.Error(ctx, "failed to seed discount rules", err)
		os.Exit(1)
	}
	if *adminEmail != "" && *adminPassword != "" {
		if err := seedAdmin(ctx, gdb, cfg.Password, *adminEmail, *adminPassword); err != nil {
			logg.Error(ctx, "failed to seed admin user", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(ctx, "admin credentials not provided, skipping admin seed")
	}

	logg.Info(ctx, "seed complete")
}

func seedEbooks(ctx context.Context, gdb *gorm.DB) error {
	ebooks := []models.Ebook{
		{
			Title:       "Pilau Masterclass",
			Description: "Spiced rice the Mombasa way, from whole-spice blends to the perfect crust.",
			Price:       1200,
			Category:    "mains",
			RecipeCount: 18,
			Ingredients: pq.StringArray{"basmati rice", "pilau masala", "beef", "onions"},
			ImageURL:    "https://cdn.halisi.co.ke/covers/pilau-masterclass.jpg",
			Featured:    true,
			BestSeller:  true,
		},
		{
			Title:       "Nyama Choma at Home",
			Description: "Charcoal grilling without the choma joint, plus kachumbari that holds its own.",
			Price:       950,
			Category:    "grills",
			RecipeCount: 12,
			Ingredients: pq.StringArray{"goat meat", "kachumbari", "ugali flour"},
			ImageURL:    "https://cdn.halisi.co.ke/covers/nyama-choma.jpg",
			BestSeller:  true,
		},
		{
			Title:       "Swahili Coast Curries",
			Description: "Coconut-rich curries and biryanis from Lamu to Diani.",
			Price:       1500,
			Category:    "curries",
			RecipeCount: 24,
			Ingredients: pq.StringArray{"coconut milk", "tamarind", "fish", "biryani masala"},
			ImageURL:    "https://cdn.halisi.co.ke/covers/swahili-curries.jpg",
			Featured:    true,
		},
		{
			Title:       "Chapati Perfection",
			Description: "Layered, soft chapati every time, with ten filled variations.",
			Price:       800,
			Category:    "breads",
			RecipeCount: 10,
			Ingredients: pq.StringArray{"wheat flour", "ghee"},
			ImageURL:    "https://cdn.halisi.co.ke/covers/chapati.jpg",
			FlashSale:   true,
		},
		{
			Title:       "Ugali & Sukuma Classics",
			Description: "The weeknight staples, done properly. Free starter collection.",
			Price:       0,
			Category:    "staples",
			RecipeCount: 8,
			Ingredients: pq.StringArray{"maize flour", "sukuma wiki", "tomatoes"},
			ImageURL:    "https://cdn.halisi.co.ke/covers/ugali-sukuma.jpg",
			Free:        true,
		},
		{
			Title:       "Kenyan Street Snacks",
			Description: "Mutura, smokies, mahindi choma and the sauces that make them.",
			Price:       650,
			Category:    "snacks",
			RecipeCount: 14,
			Ingredients: pq.StringArray{"beef", "chilli", "maize"},
			ImageURL:    "https://cdn.halisi.co.ke/covers/street-snacks.jpg",
		},
	}

	for i := range ebooks {
		ebooks[i].ID = uuid.New()
		var existing models.Ebook
		err := gdb.WithContext(ctx).Where("title = ?", ebooks[i].Title).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("lookup ebook %q: %w", ebooks[i].Title, err)
		}
		if err := gdb.WithContext(ctx).Create(&ebooks[i]).Error; err != nil {
			return fmt.Errorf("create ebook %q: %w", ebooks[i].Title, err)
		}
	}
	return nil
}

func seedDiscountRules(ctx context.Context, gdb *gorm.DB) error {
	minCart := 3
	freeCount := 1
	rules := []models.DiscountRule{
		{
			Name:        "Karibu 10% Off",
			Kind:        enums.DiscountKindPercentageOff,
			Value:       10,
			EligibleAll: true,
			Active:      true,
		},
		{
			Name:        "Flash KSh 200 Off",
			Kind:        enums.DiscountKindFixedAmountOff,
			Value:       200,
			EligibleAll: true,
			Active:      false,
		},
		{
			Name:         "Buy 2 Get 1 Free",
			Kind:         enums.DiscountKindBuyXGetYFree,
			Value:        100,
			MinCartCount: &minCart,
			FreeCount:    &freeCount,
			EligibleAll:  true,
			Active:       true,
		},
	}

	for i := range rules {
		rules[i].ID = uuid.New()
		var existing models.DiscountRule
		err := gdb.WithContext(ctx).Where("name = ?", rules[i].Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("lookup rule %q: %w", rules[i].Name, err)
		}
		if err := gdb.WithContext(ctx).Create(&rules[i]).Error; err != nil {
			return fmt.Errorf("create rule %q: %w", rules[i].Name, err)
		}
	}
	return nil
}

func seedAdmin(ctx context.Context, gdb *gorm.DB, passwordCfg config.PasswordConfig, email, password string) error {
	repo := users.NewRepository(gdb)
	_, err := repo.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("lookup admin: %w", err)
	}

	hash, err := security.HashPassword(password, passwordCfg)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if _, err := repo.Create(ctx, users.CreateUserDTO{
		Email:        email,
		PasswordHash: hash,
		Role:         enums.MemberRoleAdmin,
	}); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}
