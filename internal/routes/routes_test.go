package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"marketplace_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRegisterRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, Handlers{RateLimiter: middleware.NewRateLimiter(nil), JWTSecret: "s"})

	registered := map[string]bool{}
	for _, ri := range r.Routes() {
		registered[ri.Method+" "+ri.Path] = true
	}

	for _, want := range []string{
		"POST /create-payment-link",
		"GET /get-all-payment-links-metadata",
		"GET /get-payment-links-by-user",
		"POST /webhook",
		"GET /payment-status/:linkId",
		"GET /payment-links/:id/qrcode",
		"GET /orders/:userId",
		"POST /api/register",
		"POST /api/login",
		"DELETE /api/users",
		"PUT /api/update-profile",
		"DELETE /api/delete-all-products",
		"GET /api/search-products",
		"DELETE /api/favorite-products/:productId",
		"GET /api/ratings/summary/:productId",
		"DELETE /api/delete-adverts-by-user/:userId",
		"GET /api/ws/messages/:userId",
		"PUT /api/notifications/:id",
		"DELETE /api/settings/:userId",
	} {
		assert.True(t, registered[want], want)
	}
	assert.False(t, registered[http.MethodPost+" /api/upload"])
}

func TestMessageStreamRequiresToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, Handlers{RateLimiter: middleware.NewRateLimiter(nil), JWTSecret: "s"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ws/messages/u1", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
