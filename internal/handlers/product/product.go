package product

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"marketplace_back_end/internal/handlers"
	"marketplace_back_end/internal/models"
	"marketplace_back_end/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

func (h *Handler) loadProduct(ctx context.Context, id gocql.UUID) (*models.Product, error) {
	return h.cache.GetProduct(ctx, id.String(), func(ctx context.Context, _ string) (*models.Product, error) {
		return h.products.Get(ctx, id)
	})
}

// reindex maintient Elasticsearch à jour ; un échec n'annule pas l'écriture ScyllaDB
func (h *Handler) reindex(ctx context.Context, p models.Product) {
	if h.search == nil {
		return
	}
	if err := h.search.Index(ctx, p); err != nil {
		log.Printf("⚠️ Indexation du produit %s échouée: %v", p.ID, err)
	}
}

func (h *Handler) unindex(ctx context.Context, ids ...gocql.UUID) {
	if h.search == nil {
		return
	}
	for _, id := range ids {
		if err := h.search.Remove(ctx, id.String()); err != nil {
			log.Printf("⚠️ Désindexation du produit %s échouée: %v", id, err)
		}
	}
}

// CreateProduct : POST /api/products
func (h *Handler) CreateProduct(c *gin.Context) {
	var input struct {
		UserID      string `json:"userId" binding:"required"`
		ProductName string `json:"productName" binding:"required"`
		Price       string `json:"price" binding:"required"`
		Location    string `json:"location"`
		Category    string `json:"category"`
		Username    string `json:"username"`
		PhoneNumber string `json:"phoneNumber"`
		Description string `json:"description"`
		Base64Image string `json:"base64Image"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()

	now := time.Now().UTC()
	p := models.Product{
		ID:          gocql.TimeUUID(),
		UserID:      input.UserID,
		ProductName: strings.TrimSpace(input.ProductName),
		Price:       strings.TrimSpace(input.Price),
		Location:    input.Location,
		Category:    input.Category,
		Username:    input.Username,
		PhoneNumber: input.PhoneNumber,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.products.Create(ctx, &p); err != nil {
		log.Printf("❌ Création du produit %q: %v", p.ProductName, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}
	h.reindex(ctx, p)

	// Image jointe : rangée comme première photo du produit
	if input.Base64Image != "" && h.images != nil {
		if _, err := h.storePicture(ctx, p.ID, input.Base64Image); err != nil {
			log.Printf("⚠️ Photo du produit %s non enregistrée: %v", p.ID, err)
		}
	}

	log.Printf("✅ Produit créé : %s (%s)", p.ProductName, p.ID)
	c.JSON(http.StatusCreated, p)
}

// GetAllProducts : GET /api/get-all-products
func (h *Handler) GetAllProducts(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		log.Printf("❌ Liste des produits: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProduct : GET /api/products/:id (cache Redis 10 min)
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := handlers.PathUUID(c, "id")
	if !ok {
		return
	}
	p, err := h.loadProduct(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Lecture du produit %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpdateProduct : PUT /api/products/:id (nom, prix, description)
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := handlers.PathUUID(c, "id")
	if !ok {
		return
	}
	var input struct {
		ProductName string `json:"productName"`
		Name        string `json:"name"`
		Price       string `json:"price"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()

	p, err := h.products.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Lecture du produit %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	if input.ProductName == "" {
		input.ProductName = input.Name
	}
	if v := strings.TrimSpace(input.ProductName); v != "" {
		p.ProductName = v
	}
	if v := strings.TrimSpace(input.Price); v != "" {
		p.Price = v
	}
	if input.Description != "" {
		p.Description = input.Description
	}
	p.UpdatedAt = time.Now().UTC()

	err = h.products.Update(ctx, p)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Mise à jour du produit %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}
	h.cache.InvalidateProductCache(ctx, id.String())
	h.reindex(ctx, *p)

	c.JSON(http.StatusOK, p)
}

// DeleteProduct : DELETE /api/products/:id
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := handlers.PathUUID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	err := h.products.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Suppression du produit %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	h.cache.InvalidateProductCache(ctx, id.String())
	h.unindex(ctx, id)

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// DeleteAllProducts supprime tous les produits de l'utilisateur authentifié
func (h *Handler) DeleteAllProducts(c *gin.Context) {
	userID, ok := handlers.AuthUserID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	ids, err := h.products.DeleteByUser(ctx, userID.String())
	if err != nil {
		log.Printf("❌ Suppression des produits de %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete all products"})
		return
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, id.String())
	}
	h.cache.InvalidateProductCache(ctx, keys...)
	h.unindex(ctx, ids...)

	log.Printf("🗑️ %d produit(s) supprimé(s) pour %s", len(ids), userID)
	c.JSON(http.StatusOK, gin.H{"message": "All products deleted successfully", "deleted": len(ids)})
}

// SearchProducts : GET /api/search-products?q=
// Sans Elasticsearch (ou s'il échoue), filtre la liste ScyllaDB.
func (h *Handler) SearchProducts(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing q parameter"})
		return
	}
	ctx := c.Request.Context()

	if h.search != nil {
		products, err := h.search.Search(ctx, query)
		if err == nil {
			c.JSON(http.StatusOK, gin.H{"products": products})
			return
		}
		log.Printf("⚠️ Recherche Elasticsearch échouée, repli sur ScyllaDB: %v", err)
	}

	all, err := h.products.List(ctx)
	if err != nil {
		log.Printf("❌ Liste des produits: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": filterProducts(all, query)})
}

func filterProducts(products []models.Product, query string) []models.Product {
	q := strings.ToLower(query)
	out := make([]models.Product, 0)
	for _, p := range products {
		fields := []string{p.ProductName, p.Category, p.Location, p.Description}
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f), q) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
