package routes

import (
	"net/http"

	"marketplace_back_end/internal/handlers/advert"
	"marketplace_back_end/internal/handlers/messaging"
	payment "marketplace_back_end/internal/handlers/payement"
	"marketplace_back_end/internal/handlers/product"
	"marketplace_back_end/internal/handlers/user"
	"marketplace_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers regroupe les handlers construits dans main
type Handlers struct {
	Payment   *payment.Handler
	Users     *user.Handler
	Products  *product.Handler
	Adverts   *advert.Handler
	Messaging *messaging.Handler

	RateLimiter *middleware.RateLimiter
	JWTSecret   string
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	rl := h.RateLimiter
	auth := middleware.AuthRequired(h.JWTSecret)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Paiement : chemins historiques à la racine
	r.POST("/create-payment-link", rl.Checkout(), h.Payment.CreatePaymentLink)
	r.GET("/get-all-payment-links-metadata", h.Payment.GetAllPaymentLinksMetadata)
	r.GET("/get-payment-links-by-user", h.Payment.GetPaymentLinksByUser)
	r.POST("/webhook", h.Payment.StripeWebhook)
	r.GET("/payment-status/:linkId", h.Payment.GetPaymentStatus)
	r.GET("/payment-links/:id/qrcode", h.Payment.GetPaymentLinkQRCode)
	r.GET("/orders/:userId", h.Payment.GetOrders)

	api := r.Group("/api")
	{
		// Utilisateurs
		api.POST("/register", rl.Register(), h.Users.Register)
		api.POST("/login", rl.Login(), h.Users.Login)
		api.POST("/forgot-password", rl.ForgotPassword(), h.Users.ForgotPassword)
		api.POST("/reset-password", h.Users.ResetPassword)
		api.GET("/login-history/:userId", h.Users.LoginHistory)
		api.GET("/users", h.Users.ListUsers)
		api.GET("/profile-picture/:userId", h.Users.ProfilePicture)
		api.DELETE("/users", auth, h.Users.DeleteAccount)
		api.POST("/change-password", auth, h.Users.ChangePassword)
		api.PUT("/update-profile", auth, h.Users.UpdateProfile)

		// Produits
		api.POST("/products", h.Products.CreateProduct)
		api.GET("/get-all-products", h.Products.GetAllProducts)
		api.GET("/products/:id", h.Products.GetProduct)
		api.PUT("/products/:id", h.Products.UpdateProduct)
		api.DELETE("/products/:id", h.Products.DeleteProduct)
		api.DELETE("/delete-all-products", auth, h.Products.DeleteAllProducts)
		api.GET("/search-products", h.Products.SearchProducts)

		api.POST("/product-pictures", h.Products.AddPicture)
		api.GET("/product-pictures/:id", h.Products.GetPicture)
		api.PUT("/product-pictures/:id", h.Products.UpdatePicture)
		api.DELETE("/product-pictures/:id", h.Products.DeletePicture)

		api.POST("/favorite-products", h.Products.AddFavourite)
		api.GET("/favorite-products", h.Products.ListFavourites)
		api.GET("/favorite-products/user/:userId", h.Products.ListUserFavourites)
		api.DELETE("/favorite-products/:productId", h.Products.RemoveFavourite)

		api.POST("/add-ratings", h.Products.AddRating)
		api.GET("/ratings", h.Products.ListRatings)
		api.GET("/ratings/summary/:productId", h.Products.RatingSummary)
		api.GET("/ratings/:id", h.Products.GetRating)
		api.PUT("/ratings/:id", h.Products.UpdateRating)
		api.DELETE("/ratings/:id", h.Products.DeleteRating)

		// Publicités
		api.POST("/add-adverts", h.Adverts.CreateAdvert)
		api.GET("/get-adverts", h.Adverts.ListAdverts)
		api.GET("/get-adverts/:id", h.Adverts.GetAdvert)
		api.PUT("/update-adverts/:id", h.Adverts.UpdateAdvert)
		api.DELETE("/delete-adverts/:id", h.Adverts.DeleteAdvert)
		api.DELETE("/delete-adverts-by-user/:userId", h.Adverts.DeleteUserAdverts)

		// Messagerie et notifications
		api.POST("/send-message", h.Messaging.SendMessage)
		api.GET("/receive-messages", h.Messaging.ReceiveMessages)
		api.GET("/ws/messages/:userId", middleware.StreamAuthRequired(h.JWTSecret), h.Messaging.MessageStream)

		api.POST("/notifications", h.Messaging.CreateNotification)
		api.GET("/notifications", h.Messaging.ListNotifications)
		api.GET("/notifications/:id", h.Messaging.GetNotification)
		api.PUT("/notifications/:id", h.Messaging.UpdateNotification)
		api.DELETE("/notifications/:id", h.Messaging.DeleteNotification)

		api.POST("/settings", h.Messaging.SaveSettings)
		api.GET("/settings/:userId", h.Messaging.GetSettings)
		api.DELETE("/settings/:userId", h.Messaging.DeleteSettings)
	}
}
