package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookstore-server/internal/managers"
	"bookstore-server/internal/schemas"
	"bookstore-server/internal/utils"
)

type BasketHdl interface {
	GetBasket(c *gin.Context)
	UpdateBasket(c *gin.Context)
	RemoveFromBasket(c *gin.Context)
}

type BasketHandler struct {
	BasketManager managers.BasketMgr
}

func NewBasketHandler(basketMgr managers.BasketMgr) BasketHdl {
	return &BasketHandler{BasketManager: basketMgr}
}

// GetBasket renders the caller's basket. The basket middleware has already
// loaded it into the context; reading it again here would double the redis
// round trips.
func (handler *BasketHandler) GetBasket(c *gin.Context) {
	basket, ok := c.Value(utils.BasketKey.String()).(*schemas.BasketDTO)
	if !ok {
		utils.WriteAndLogError(c, schemas.BasketError, http.StatusInternalServerError, errors.New("basket missing from context"))
		return
	}

	utils.WriteAndLogResponse(c, basket, http.StatusOK)
}

// UpdateBasket adds or updates one item. Quantity 0 removes the item.
func (handler *BasketHandler) UpdateBasket(c *gin.Context) {
	basketID, ok := basketIDFrom(c)
	if !ok {
		return
	}

	updateRequest := c.Value(utils.SanitizedPayloadKey.String()).(*schemas.BasketUpdateRequest)
	if err := handler.BasketManager.SetItem(c, basketID, updateRequest.ProductID, updateRequest.Quantity); err != nil {
		utils.WriteAndLogError(c, schemas.BasketError, http.StatusInternalServerError, err)
		return
	}

	basket, err := handler.BasketManager.GetBasket(c, basketID)
	if err != nil {
		utils.WriteAndLogError(c, schemas.BasketError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, basket, http.StatusOK)
}

// RemoveFromBasket deletes one product from the basket.
func (handler *BasketHandler) RemoveFromBasket(c *gin.Context) {
	basketID, ok := basketIDFrom(c)
	if !ok {
		return
	}

	productID := c.Param(utils.ProductIdKey)
	if _, err := uuid.Parse(productID); err != nil {
		utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	if err := handler.BasketManager.RemoveItem(c, basketID, productID); err != nil {
		utils.WriteAndLogError(c, schemas.BasketError, http.StatusInternalServerError, err)
		return
	}

	basket, err := handler.BasketManager.GetBasket(c, basketID)
	if err != nil {
		utils.WriteAndLogError(c, schemas.BasketError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, basket, http.StatusOK)
}

func basketIDFrom(c *gin.Context) (string, bool) {
	basketID, ok := c.Value(utils.BasketIdKey.String()).(string)
	if !ok || basketID == "" {
		utils.WriteAndLogError(c, schemas.BasketError, http.StatusInternalServerError, errors.New("basket id missing from context"))
		return "", false
	}
	return basketID, true
}
