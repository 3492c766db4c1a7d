package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"bookstore-server/internal/managers"
	"bookstore-server/internal/schemas"
	"bookstore-server/internal/utils"
)

type StoreHdl interface {
	ListProducts(c *gin.Context)
	ListAllProducts(c *gin.Context)
	ListCategories(c *gin.Context)
	GetCategory(c *gin.Context)
	GetProduct(c *gin.Context)
}

type StoreHandler struct {
	DatabaseManager managers.DatabaseMgr
}

func NewStoreHandler(databaseMgr managers.DatabaseMgr) StoreHdl {
	return &StoreHandler{DatabaseManager: databaseMgr}
}

const productColumns = "title, author, description, image_url, slug, price, in_stock"

// ListProducts is the storefront listing. Only active products are shown,
// stock status does not matter here.
func (handler *StoreHandler) ListProducts(c *gin.Context) {
	queryString := "SELECT " + productColumns + " FROM store_schema.products WHERE is_active = true ORDER BY title"
	handler.listProductsQuery(c, queryString)
}

// ListAllProducts is the management listing and skips the active filter.
func (handler *StoreHandler) ListAllProducts(c *gin.Context) {
	queryString := "SELECT " + productColumns + " FROM store_schema.products ORDER BY title"
	handler.listProductsQuery(c, queryString)
}

// ListCategories lists every category.
func (handler *StoreHandler) ListCategories(c *gin.Context) {
	queryString := "SELECT name, slug FROM store_schema.categories ORDER BY name"
	rows, err := handler.DatabaseManager.GetPool().Query(c, queryString)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()

	categories := []schemas.CategoryDTO{}
	for rows.Next() {
		category := schemas.CategoryDTO{}
		if err := rows.Scan(&category.Name, &category.Slug); err != nil {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, categories, http.StatusOK)
}

// GetCategory renders one category with all of its products. Unlike the
// storefront listing the category page shows inactive products too.
func (handler *StoreHandler) GetCategory(c *gin.Context) {
	slug := c.Param(utils.CategorySlugKey)

	category := schemas.CategoryDTO{}
	var categoryID string
	queryString := "SELECT category_id, name, slug FROM store_schema.categories WHERE slug = $1"
	if err := handler.DatabaseManager.GetPool().QueryRow(c, queryString, slug).
		Scan(&categoryID, &category.Name, &category.Slug); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.CategoryNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	queryString = "SELECT " + productColumns + " FROM store_schema.products WHERE category_id = $1 ORDER BY title"
	products, ok := handler.queryProducts(c, queryString, categoryID)
	if !ok {
		return
	}

	utils.WriteAndLogResponse(c, &schemas.CategoryDetailDTO{Category: category, Products: products}, http.StatusOK)
}

// GetProduct renders a single product page. An unknown slug and a known but
// out-of-stock product are indistinguishable to the caller. The is_active
// flag only governs the storefront listing, not the detail page.
func (handler *StoreHandler) GetProduct(c *gin.Context) {
	slug := c.Param(utils.ProductSlugKey)

	product := schemas.ProductDTO{}
	queryString := "SELECT " + productColumns + " FROM store_schema.products WHERE slug = $1"
	if err := handler.DatabaseManager.GetPool().QueryRow(c, queryString, slug).
		Scan(&product.Title, &product.Author, &product.Description, &product.ImageURL,
			&product.Slug, &product.Price, &product.InStock); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.ProductNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if !product.InStock {
		utils.WriteAndLogError(c, schemas.ProductNotFound, http.StatusNotFound, errors.New("product out of stock"))
		return
	}

	utils.WriteAndLogResponse(c, &product, http.StatusOK)
}

func (handler *StoreHandler) listProductsQuery(c *gin.Context, queryString string) {
	products, ok := handler.queryProducts(c, queryString)
	if !ok {
		return
	}
	utils.WriteAndLogResponse(c, products, http.StatusOK)
}

func (handler *StoreHandler) queryProducts(c *gin.Context, queryString string, args ...interface{}) ([]schemas.ProductDTO, bool) {
	rows, err := handler.DatabaseManager.GetPool().Query(c, queryString, args...)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return nil, false
	}
	defer rows.Close()

	products := []schemas.ProductDTO{}
	for rows.Next() {
		product := schemas.ProductDTO{}
		if err := rows.Scan(&product.Title, &product.Author, &product.Description, &product.ImageURL,
			&product.Slug, &product.Price, &product.InStock); err != nil {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return nil, false
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return nil, false
	}

	return products, true
}
