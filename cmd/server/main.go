package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"marketplace_back_end/internal/cache"
	"marketplace_back_end/internal/config"
	"marketplace_back_end/internal/database"
	"marketplace_back_end/internal/handlers/advert"
	"marketplace_back_end/internal/handlers/messaging"
	paymenthandler "marketplace_back_end/internal/handlers/payement"
	"marketplace_back_end/internal/handlers/product"
	"marketplace_back_end/internal/handlers/user"
	"marketplace_back_end/internal/middleware"
	"marketplace_back_end/internal/payment"
	"marketplace_back_end/internal/repository"
	"marketplace_back_end/internal/routes"
	"marketplace_back_end/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Configuration invalide : %v", err)
	}

	conns, err := database.ConnectDatabases(cfg)
	if err != nil {
		log.Fatalf("❌ Connexion aux bases impossible : %v", err)
	}
	defer conns.Close()

	store := cache.New(conns.Redis)

	// Stripe
	provider := payment.NewStripeProvider(cfg.Stripe)
	orderRepo := repository.NewOrderRepository(conns.Scylla)
	resolver := payment.NewStatusResolver(provider)
	checkout := payment.NewCheckout(
		payment.NewTranslator(provider, cfg.Stripe.Currency),
		payment.NewIssuer(provider),
		orderRepo,
		store,
	)
	webhooks := payment.NewWebhookHandler(provider, payment.AuditDispatcher{}, store)
	orders := payment.NewOrderStore(provider, cfg.Stripe.LinksCap, resolver)
	log.Println("✅ Stripe initialisé")

	// Services facultatifs : on ne passe jamais un pointeur nil dans une interface
	var search services.ProductIndex
	if conns.Elastic != nil {
		search = services.NewElasticProductIndex(conns.Elastic)
	}
	var images services.ImageStore
	if conns.MinIO != nil {
		images = services.NewMinIOStore(conns.MinIO, cfg.MinIO.Bucket)
	}
	mailer := services.NewMailer(cfg.SMTP)

	users := repository.NewUserRepository(conns.Scylla)

	h := routes.Handlers{
		Payment: paymenthandler.NewHandler(checkout, orders, resolver, webhooks, orderRepo),
		Users:   user.NewHandler(users, store, mailer, cfg.JWTSecret),
		Products: product.NewHandler(product.Deps{
			Products:   repository.NewProductRepository(conns.Scylla),
			Pictures:   repository.NewPictureRepository(conns.Scylla),
			Favourites: repository.NewFavouriteRepository(conns.Scylla),
			Ratings:    repository.NewRatingRepository(conns.Scylla),
			Cache:      store,
			Search:     search,
			Images:     images,
		}),
		Adverts: advert.NewHandler(repository.NewAdvertRepository(conns.Scylla), images),
		Messaging: messaging.NewHandler(messaging.Deps{
			Messages:      repository.NewMessageRepository(conns.Scylla),
			Notifications: repository.NewNotificationRepository(conns.Scylla),
			Settings:      repository.NewSettingsRepository(conns.Scylla),
			Users:         users,
			Cache:         store,
			Mailer:        mailer,
		}),
		RateLimiter: middleware.NewRateLimiter(store),
		JWTSecret:   cfg.JWTSecret,
	}

	r := gin.Default()
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	routes.RegisterRoutes(r, h)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Println("🚀 Serveur marketplace lancé sur le port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Serveur arrêté : %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🔁 Arrêt du serveur...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Arrêt forcé : %v", err)
	}
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
		c.AllowCredentials = true
	}
	return c
}
