package handlers

import (
	"threadline/internal/config"
	"threadline/internal/repos"
	"threadline/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	CatalogHandler *CatalogHandler
	CartHandler    *CartHandler
	OrderHandler   *OrderHandler
	AdminHandler   *AdminHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) *Deps {
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)

	catalogSvc := services.NewCatalogService(prodRepo)
	invSvc := services.NewInventoryService(prodRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	orderSvc := services.NewOrderService(orderRepo)

	return &Deps{
		CatalogHandler: &CatalogHandler{Catalog: catalogSvc, Inv: invSvc},
		CartHandler:    &CartHandler{Cart: cartSvc},
		OrderHandler:   &OrderHandler{Cart: cartSvc, Order: orderSvc, WhatsAppNumber: cfg.WhatsAppNumber},
		AdminHandler: &AdminHandler{
			Order:    orderSvc,
			Inv:      invSvc,
			Prods:    prodRepo,
			Orders:   orderRepo,
			MediaDir: cfg.MediaDir,
		},
	}
}
