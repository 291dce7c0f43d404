package main

import (
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/makanlah/backend/config"
	"github.com/makanlah/backend/internal/database"
	"github.com/makanlah/backend/internal/models"
	"github.com/makanlah/backend/internal/service"
)

type seedStall struct {
	name     string
	location string
	cuisine  string
	items    []seedItem
}

type seedItem struct {
	name        string
	description string
	category    string
	price       float64
}

var stalls = []seedStall{
	{
		name: "Ah Hock Chicken Rice", location: "Maxwell Food Centre #01-10", cuisine: "chinese",
		items: []seedItem{
			{"Roasted Chicken Rice", "Fragrant rice with roasted chicken and chilli", "rice", 4.50},
			{"Steamed Chicken Rice", "Classic Hainanese style with ginger paste", "rice", 4.00},
			{"Chicken Rice Set", "Half chicken with rice and soup for two", "rice", 12.00},
		},
	},
	{
		name: "Mak Cik Nasi Lemak", location: "Changi Village #01-26", cuisine: "malay",
		items: []seedItem{
			{"Nasi Lemak Ayam", "Coconut rice, fried chicken wing, sambal", "rice", 5.50},
			{"Nasi Lemak Kosong", "Coconut rice, egg, ikan bilis, peanuts", "rice", 3.00},
			{"Mee Rebus", "Yellow noodles in sweet potato gravy", "noodles", 4.00},
		},
	},
	{
		name: "Raju Prata House", location: "Tekka Centre #01-247", cuisine: "indian",
		items: []seedItem{
			{"Plain Prata", "Crispy flatbread with curry", "prata", 1.40},
			{"Egg Prata", "Prata with egg, served with fish curry", "prata", 2.00},
			{"Teh Tarik", "Pulled milk tea", "drinks", 1.50},
		},
	},
	{
		name: "328 Laksa Corner", location: "Katong, 51 East Coast Road", cuisine: "peranakan",
		items: []seedItem{
			{"Laksa", "Thick vermicelli in spicy coconut broth", "laksa", 5.80},
			{"Otah", "Grilled spiced fish cake", "grill", 1.80},
			{"Lime Juice", "Freshly squeezed calamansi", "drinks", 2.00},
		},
	},
}

var vouchers = []models.Voucher{
	{Code: "WELCOME2", Description: "$2 off your first order", CoinCost: 20, DiscountValue: 2.0, MaxRedemptions: 0},
	{Code: "MAKAN5", Description: "$5 off orders above $20", CoinCost: 50, DiscountValue: 5.0, MaxRedemptions: 100},
	{Code: "TEHDAY", Description: "Free drink with any meal", CoinCost: 15, DiscountValue: 1.5, MaxRedemptions: 500},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewGormDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	var existing int64
	if err := db.Model(&models.Stall{}).Count(&existing).Error; err != nil {
		log.Fatalf("Failed to inspect database: %v", err)
	}
	if existing > 0 {
		log.Printf("[Seed] Database already has %d stalls, nothing to do", existing)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	for _, s := range stalls {
		owner := models.User{
			ID:           uuid.New(),
			Name:         s.name + " Owner",
			Email:        uuid.New().String()[:8] + "@seed.makanlah.local",
			PasswordHash: string(hash),
			Role:         models.RoleStallOwner,
		}
		if err := db.Create(&owner).Error; err != nil {
			log.Fatalf("Failed to create seed owner: %v", err)
		}

		stall := models.Stall{
			ID:       uuid.New(),
			OwnerID:  owner.ID,
			Name:     s.name,
			Location: s.location,
			Cuisine:  s.cuisine,
			IsOpen:   true,
		}
		if err := db.Create(&stall).Error; err != nil {
			log.Fatalf("Failed to create stall %q: %v", s.name, err)
		}

		for _, it := range s.items {
			item := models.MenuItem{
				ID:          uuid.New(),
				StallID:     stall.ID,
				Name:        it.name,
				Description: it.description,
				Category:    it.category,
				Price:       it.price,
				Embedding:   service.LocalEmbedding(it.name + " " + it.description),
				IsAvailable: true,
			}
			if err := db.Create(&item).Error; err != nil {
				log.Fatalf("Failed to create menu item %q: %v", it.name, err)
			}
		}
		log.Printf("[Seed] Created %q with %d items", s.name, len(s.items))
	}

	for _, v := range vouchers {
		v.ID = uuid.New()
		v.ExpiresAt = time.Now().AddDate(0, 6, 0)
		if err := db.Create(&v).Error; err != nil {
			log.Fatalf("Failed to create voucher %q: %v", v.Code, err)
		}
	}
	log.Printf("[Seed] Created %d vouchers", len(vouchers))
	log.Println("[Seed] Done")
}
