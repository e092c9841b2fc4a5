package handlers

import (
	"github.com/jmoiron/sqlx"

	"petcare/internal/config"
	"petcare/internal/repos"
	"petcare/internal/services"
)

type Deps struct {
	Auth *services.AuthService

	AuthHandler      *AuthHandler
	RescueHandler    *RescueHandler
	AdoptionHandler  *AdoptionHandler
	ShopHandler      *ShopHandler
	BookingHandler   *BookingHandler
	AccountHandler   *AccountHandler
	InventoryHandler *InventoryHandler
	AdminHandler     *AdminHandler
	Media            *Media
}

func NewDeps(db *sqlx.DB, cfg config.Config, notify services.Dispatcher) *Deps {
	userRepo := repos.NewUserRepo(db)
	animalRepo := repos.NewAnimalRepo(db)
	prodRepo := repos.NewProductRepo(db)
	planRepo := repos.NewPlanRepo(db)
	invRepo := repos.NewInventoryRepo(db)
	rescueRepo := repos.NewRescueRepo(db)
	adoptRepo := repos.NewAdoptionRepo(db)
	bookingRepo := repos.NewBookingRepo(db)
	orderRepo := repos.NewOrderRepo(db)

	authSvc := services.NewAuthService(userRepo)
	catalogSvc := services.NewCatalogService(animalRepo, prodRepo, planRepo)
	invSvc := services.NewInventoryService(invRepo)
	rescueSvc := services.NewRescueService(rescueRepo, notify)
	adoptSvc := services.NewAdoptionService(animalRepo, adoptRepo)
	shopSvc := services.NewShopService(prodRepo, orderRepo)
	bookingSvc := services.NewBookingService(planRepo, bookingRepo)
	reviewSvc := &services.ReviewService{
		Rescues: rescueRepo, Adoptions: adoptRepo, Bookings: bookingRepo, Orders: orderRepo, Animals: animalRepo,
	}
	accountSvc := &services.AccountService{
		Users: userRepo, Rescues: rescueRepo, Adoptions: adoptRepo, Bookings: bookingRepo, Orders: orderRepo,
	}
	media := &Media{Dir: cfg.MediaDir, MaxBytes: cfg.MaxUploadBytes}

	return &Deps{
		Auth:             authSvc,
		AuthHandler:      &AuthHandler{Auth: authSvc, CookieSecure: cfg.CookieSecure},
		RescueHandler:    &RescueHandler{Rescue: rescueSvc, Media: media},
		AdoptionHandler:  &AdoptionHandler{Catalog: catalogSvc, Adoption: adoptSvc},
		ShopHandler:      &ShopHandler{Catalog: catalogSvc, Shop: shopSvc},
		BookingHandler:   &BookingHandler{Catalog: catalogSvc, Booking: bookingSvc},
		AccountHandler:   &AccountHandler{Account: accountSvc},
		InventoryHandler: &InventoryHandler{Inv: invSvc},
		AdminHandler:     &AdminHandler{Review: reviewSvc, Inv: invSvc, Catalog: catalogSvc, Auth: authSvc},
		Media:            media,
	}
}
