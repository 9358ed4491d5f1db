package main

import (
	"context"
	"fmt"

	"github.com/eshopcore/storefront/internal/adapter/auth"
	"github.com/eshopcore/storefront/internal/adapter/config"
	"github.com/eshopcore/storefront/internal/adapter/dedup"
	"github.com/eshopcore/storefront/internal/adapter/gateway/stripepay"
	"github.com/eshopcore/storefront/internal/adapter/handler/http"
	"github.com/eshopcore/storefront/internal/adapter/logger"
	"github.com/eshopcore/storefront/internal/adapter/notifier"
	"github.com/eshopcore/storefront/internal/adapter/storage"
	"github.com/eshopcore/storefront/internal/adapter/storage/repository"
	"github.com/eshopcore/storefront/internal/core/service"
	"go.uber.org/zap"
)

func main() {
	conf, err := config.NewConfig()
	if err != nil {
		fmt.Printf("config error:%s", err)
		return
	}

	log := logger.NewLogger(conf.App)
	if log == nil {
		fmt.Printf("error creating log")
		return
	}
	defer func() {
		err := log.Sync()
		if err != nil {
			fmt.Printf("log error: %s", err)
		}
	}()

	ctx := context.Background()

	db, err := storage.NewDBStorage(ctx, conf.Database)
	if err != nil {
		log.Error("database error", zap.Error(err))
		return
	}
	err = db.RunMigrations()
	if err != nil {
		log.Error("database migration error", zap.Error(err))
		return
	}

	repo, err := repository.NewRepository(db)
	if err != nil {
		log.Error("repo creating error", zap.Error(err))
		return
	}
	tokenService, err := auth.New()
	if err != nil {
		log.Error("token service creating error", zap.Error(err))
		return
	}

	gateway, err := stripepay.NewClient(conf.Payment, log.Named("Payment"))
	if err != nil {
		log.Error("payment gateway creating error", zap.Error(err))
		return
	}

	dedupStore := dedup.NewStore(conf.Redis)

	events := notifier.NewNotifier(conf.Notify, log.Named("Notifier"))
	defer func() {
		if err := events.Close(); err != nil {
			log.Warn("notifier close error", zap.Error(err))
		}
	}()

	userService, err := service.NewUserService(repo, tokenService, log.Named("UserService"))
	if err != nil {
		log.Error("user service creating error", zap.Error(err))
		return
	}
	cartService, err := service.NewCartService(repo, log.Named("CartService"))
	if err != nil {
		log.Error("cart service creating error", zap.Error(err))
		return
	}
	checkoutService, err := service.NewCheckoutService(repo, gateway, log.Named("CheckoutService"))
	if err != nil {
		log.Error("checkout service creating error", zap.Error(err))
		return
	}
	orderService, err := service.NewOrderService(repo, events, log.Named("OrderService"))
	if err != nil {
		log.Error("order service creating error", zap.Error(err))
		return
	}
	paymentService, err := service.NewPaymentService(repo, dedupStore, events, log.Named("PaymentService"))
	if err != nil {
		log.Error("payment service creating error", zap.Error(err))
		return
	}

	userHandler, err := http.NewUserHandler(userService, log.Named("User handler"))
	if err != nil {
		log.Error("user handler creating error", zap.Error(err))
		return
	}
	productHandler, err := http.NewProductHandler(repo, log.Named("Product handler"))
	if err != nil {
		log.Error("product handler creating error", zap.Error(err))
		return
	}
	addressHandler, err := http.NewAddressHandler(repo, log.Named("Address handler"))
	if err != nil {
		log.Error("address handler creating error", zap.Error(err))
		return
	}
	cartHandler, err := http.NewCartHandler(cartService, log.Named("Cart handler"))
	if err != nil {
		log.Error("cart handler creating error", zap.Error(err))
		return
	}
	checkoutHandler, err := http.NewCheckoutHandler(checkoutService, log.Named("Checkout handler"))
	if err != nil {
		log.Error("checkout handler creating error", zap.Error(err))
		return
	}
	orderHandler, err := http.NewOrderHandler(orderService, log.Named("Order handler"))
	if err != nil {
		log.Error("order handler creating error", zap.Error(err))
		return
	}
	webhookHandler, err := http.NewWebhookHandler(paymentService, conf.Payment.WebhookSecret, log.Named("Webhook handler"))
	if err != nil {
		log.Error("webhook handler creating error", zap.Error(err))
		return
	}

	r, err := http.NewRouter(conf.HTTP, tokenService,
		userHandler, productHandler, addressHandler,
		cartHandler, checkoutHandler, orderHandler, webhookHandler)
	if err != nil {
		log.Error("router creating error", zap.Error(err))
		return
	}

	err = r.Serve(conf.HTTP.HostString)
	if err != nil {
		log.Error("router serve error", zap.Error(err))
		return
	}
}
