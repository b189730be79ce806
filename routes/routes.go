package routes

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/thor8126/ProShop/auth"
	"github.com/thor8126/ProShop/middleware"
	"github.com/thor8126/ProShop/orders"
	"github.com/thor8126/ProShop/products"
	"github.com/thor8126/ProShop/profile"
	"github.com/thor8126/ProShop/ratelim"
	"github.com/thor8126/ProShop/razorpay"
	"github.com/thor8126/ProShop/uploads"
	"github.com/thor8126/ProShop/utils"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/productpic/*filepath", http.Dir("static/productpic"))
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(auth.Register))
	router.POST("/api/auth/login", rl.Limit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.LogoutUser))
	router.POST("/api/auth/token/refresh", rl.Limit(middleware.Authenticate(auth.RefreshToken)))
}

// Collection routes live on the plural path, item routes on the
// singular one; httprouter rejects static and wildcard siblings at
// the same position.
func AddProfileRoutes(router *httprouter.Router) {
	admin := middleware.Chain(middleware.Authenticate, middleware.RequireRoles("admin"))

	router.GET("/api/users/profile", middleware.Authenticate(profile.GetProfile))
	router.PUT("/api/users/profile", middleware.Authenticate(profile.UpdateProfile))

	router.GET("/api/users", admin(profile.GetUsers))
	router.GET("/api/user/:id", admin(profile.GetUserByID))
	router.PUT("/api/user/:id", admin(profile.UpdateUser))
	router.DELETE("/api/user/:id", admin(profile.DeleteUser))
}

// AddOrderRoutes wires OrderService handlers to the router.
func AddOrderRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, svc *orders.OrderService) {
	user := middleware.Chain(rl.Limit, middleware.Authenticate)
	admin := middleware.Chain(rl.Limit, middleware.Authenticate, middleware.RequireRoles("admin"))

	router.POST("/api/orders", user(svc.CreateOrder))
	router.GET("/api/orders", admin(svc.GetOrders))
	router.GET("/api/orders/myorders", user(svc.GetMyOrders))
	router.POST("/api/orders/checkout", user(svc.CheckoutOrder))

	router.GET("/api/order/:id", user(svc.GetOrderByID))
	router.PUT("/api/order/:id/pay", user(svc.UpdateOrderToPaid))
	router.PUT("/api/order/:id/deliver", admin(svc.UpdateOrderToDelivered))
	router.GET("/api/order/:id/invoice", user(svc.PrintInvoice))
	router.POST("/api/order/:id/paymentverification", user(svc.PaymentVerification))
}

func AddProductRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	admin := middleware.Chain(middleware.Authenticate, middleware.RequireRoles("admin"))

	router.GET("/api/products", rl.Limit(products.GetProducts))
	router.GET("/api/products/top", rl.Limit(products.GetTopProducts))
	router.POST("/api/products", admin(products.CreateProduct))

	router.GET("/api/product/:id", rl.Limit(products.GetProduct))
	router.PUT("/api/product/:id", admin(products.EditProduct))
	router.DELETE("/api/product/:id", admin(products.DeleteProduct))
	router.POST("/api/product/:id/reviews", middleware.Authenticate(products.CreateReview))
}

func AddUploadRoutes(router *httprouter.Router) {
	router.POST("/api/upload", middleware.Chain(middleware.Authenticate, middleware.RequireRoles("admin"))(uploads.UploadImage))
}

// AddConfigRoutes exposes the publishable Razorpay key id for the
// storefront checkout widget.
func AddConfigRoutes(router *httprouter.Router, rzp *razorpay.Client) {
	router.GET("/api/config/razorpay", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"key": rzp.KeyID()})
	})
}
