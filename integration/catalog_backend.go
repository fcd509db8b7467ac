package integration

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/inventory-console/internal/model"
)

// CatalogBackend is an in-memory product REST API answering like the real backend,
// including its {"detail": ...} error bodies.
type CatalogBackend struct {
	mu       sync.Mutex
	products map[int]model.Product
	down     bool

	Server *httptest.Server
}

// StartCatalogBackend serves seed until the test ends.
func StartCatalogBackend(t *testing.T, seed ...model.Product) *CatalogBackend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := &CatalogBackend{products: make(map[int]model.Product)}
	for _, p := range seed {
		b.products[p.ID] = p
	}

	router := gin.New()
	router.GET("/products/", b.list)
	router.GET("/products/:id", b.get)
	router.POST("/products/", b.create)
	router.PUT("/products/:id", b.update)
	router.DELETE("/products/:id", b.delete)

	b.Server = httptest.NewServer(router)
	t.Cleanup(b.Server.Close)
	return b
}

// SetDown makes the list endpoint answer 503.
func (b *CatalogBackend) SetDown(down bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.down = down
}

// Products returns the stored products ordered by id.
func (b *CatalogBackend) Products() []model.Product {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Product, 0, len(b.products))
	for _, p := range b.products {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b model.Product) int { return a.ID - b.ID })
	return out
}

func (b *CatalogBackend) list(c *gin.Context) {
	b.mu.Lock()
	down := b.down
	b.mu.Unlock()
	if down {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Database unavailable"})
		return
	}
	c.JSON(http.StatusOK, b.Products())
}

func (b *CatalogBackend) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	p, found := b.products[id]
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (b *CatalogBackend) create(c *gin.Context) {
	var p model.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		unprocessable(c, "body")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.products[p.ID]; exists {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Product with this ID already exists"})
		return
	}
	b.products[p.ID] = p
	c.JSON(http.StatusOK, p)
}

func (b *CatalogBackend) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var p model.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		unprocessable(c, "body")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, found := b.products[id]; !found {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Product not found"})
		return
	}
	p.ID = id
	b.products[id] = p
	c.JSON(http.StatusOK, p)
}

func (b *CatalogBackend) delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, found := b.products[id]; !found {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Product not found"})
		return
	}
	delete(b.products, id)
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		unprocessable(c, "path")
		return 0, false
	}
	return id, true
}

// unprocessable answers with a structured validation detail, which is not human readable text.
func unprocessable(c *gin.Context, loc string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []gin.H{{"loc": []string{loc}, "msg": "value is not a valid integer", "type": "type_error"}}})
}
