package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookstore-server/internal/managers"
	"bookstore-server/internal/utils"
)

// basketCookieMaxAge matches the basket TTL in the store.
const basketCookieMaxAge = 7 * 24 * 60 * 60

// InjectBasket makes the session basket available to every page render. It
// issues the basket cookie on first contact, loads the basket into the gin
// context and mirrors the item count in a response header.
func InjectBasket(basketMgr managers.BasketMgr) gin.HandlerFunc {
	return func(c *gin.Context) {
		basketID, err := c.Cookie(utils.BasketCookie)
		if err != nil || basketID == "" {
			basketID = uuid.New().String()
			c.SetCookie(utils.BasketCookie, basketID, basketCookieMaxAge, "/", "", false, true)
		}
		c.Set(utils.BasketIdKey.String(), basketID)

		basket, err := basketMgr.GetBasket(c, basketID)
		if err != nil {
			// A broken basket store must not take down page renders
			utils.LogMessageWithFieldsAndError(c, "warn", "Could not load basket", err)
			c.Next()
			return
		}

		c.Set(utils.BasketKey.String(), basket)
		c.Header("X-Basket-Items", strconv.Itoa(len(basket.Items)))
		c.Next()
	}
}
