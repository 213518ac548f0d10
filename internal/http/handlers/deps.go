package handlers

import (
	"github.com/jmoiron/sqlx"

	"growlokal/internal/config"
	"growlokal/internal/paymongo"
	"growlokal/internal/repos"
	"growlokal/internal/services"
)

type Deps struct {
	ProductHandler *ProductHandler
	CartHandler    *CartHandler
	OrderHandler   *OrderHandler
	PaymentHandler *PaymentHandler
	AuthHandler    *AuthHandler
	ProfileHandler *ProfileHandler
	AdminHandler   *AdminHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	userRepo := repos.NewUserRepo(db)

	catalogSvc := services.NewCatalogService(catRepo, prodRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	orderSvc := services.NewOrderService(cartRepo, prodRepo, orderRepo)

	gateway := paymongo.New(cfg.PaymongoBaseURL, cfg.PaymongoSecretKey)
	paySvc := services.NewPaymentService(orderRepo, gateway, cfg.PaymongoPublicKey, cfg.BaseURL)

	return &Deps{
		ProductHandler: &ProductHandler{Catalog: catalogSvc},
		CartHandler:    &CartHandler{Cart: cartSvc},
		OrderHandler:   &OrderHandler{Cart: cartSvc, Order: orderSvc, Auth: auth},
		PaymentHandler: &PaymentHandler{Payment: paySvc, Order: orderSvc},
		AuthHandler:    &AuthHandler{Auth: auth},
		ProfileHandler: &ProfileHandler{Users: userRepo},
		AdminHandler:   &AdminHandler{Orders: orderRepo, Users: userRepo},
	}
}
