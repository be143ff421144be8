package echoServer

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"gearrental/app/echoServer/controller/auth"
	"gearrental/app/echoServer/controller/booking"
	"gearrental/app/echoServer/controller/cart"
	"gearrental/app/echoServer/controller/product"
)

type C struct {
	Auth      *auth.Controller
	Product   *product.Controller
	Cart      *cart.Controller
	Booking   *booking.Controller
	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/users/register", c.Auth.Register)
	pub.POST("/users/login", c.Auth.Login)

	pub.GET("/products", c.Product.List)
	pub.GET("/products/:id", c.Product.Detail)
	pub.GET("/products/:id/availability", c.Cart.Availability)

	// Auth
	authed := e.Group("/v1")
	authed.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(c.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
	}))
	authed.Use(extractClaims)

	// Cart & checkout
	authed.GET("/cart", c.Cart.Get)
	authed.POST("/cart/items", c.Cart.AddItem)
	authed.PATCH("/cart/items/:id", c.Cart.UpdateQuantity)
	authed.DELETE("/cart/items/:id", c.Cart.RemoveItem)
	authed.PUT("/cart/dates", c.Cart.Redate)
	authed.DELETE("/cart", c.Cart.Clear)
	authed.POST("/checkout", c.Cart.Checkout)

	// Admin: catalog
	authed.POST("/products", c.Product.Create)
	authed.PUT("/products/:id", c.Product.Update)
	authed.PATCH("/products/:id/availability", c.Product.SetAvailability)

	// Admin: bookings & orders
	authed.GET("/bookings", c.Booking.List)
	authed.GET("/bookings/status-options", c.Booking.StatusOptions)
	authed.PATCH("/bookings/:id/status", c.Booking.UpdateStatus)
	authed.DELETE("/bookings/:id", c.Booking.Delete)
	authed.GET("/orders", c.Booking.Orders)
	authed.POST("/orders/:id/status/plan", c.Booking.PlanGroupStatus)
	authed.POST("/orders/status/apply", c.Booking.ApplyGroupStatus)
}

// extractClaims pulls user_id and role out of the verified token.
func extractClaims(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		tokenObj := ctx.Get("user")
		if tokenObj == nil {
			return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		}
		claims, ok := tokenObj.(jwt.MapClaims)
		if !ok {
			if tok, tokOK := tokenObj.(*jwt.Token); tokOK {
				claims, ok = tok.Claims.(jwt.MapClaims)
			}
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
		}
		sub, ok := claims["sub"].(float64)
		if !ok {
			return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		}
		ctx.Set("user_id", int64(sub))
		if role, ok := claims["role"].(string); ok {
			ctx.Set("role", role)
		}
		return next(ctx)
	}
}
