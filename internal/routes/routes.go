package routes

import (
	"oldphonedeals_back_end/internal/handlers/admin"
	"oldphonedeals_back_end/internal/handlers/phone"
	"oldphonedeals_back_end/internal/handlers/user"
	"oldphonedeals_back_end/internal/middleware"
	"oldphonedeals_back_end/internal/realtime"
	"oldphonedeals_back_end/internal/services/cart"
	"oldphonedeals_back_end/internal/services/catalog"
	"oldphonedeals_back_end/internal/services/checkout"
	"oldphonedeals_back_end/internal/services/orders"
	"oldphonedeals_back_end/internal/services/wishlist"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes câble les services et déclare toutes les routes de l'API
func RegisterRoutes(r *gin.Engine, hub *realtime.Hub) {
	// --- Câblage des services ---
	catalogStore := catalog.NewStore()
	orderStore := orders.NewStore()
	cartService := cart.NewService(cart.NewRedisStore(), catalogStore)
	wishlistService := wishlist.NewService(wishlist.NewScyllaRepo(), cartService, catalogStore)
	checkoutCoordinator := checkout.NewCoordinator(catalogStore, orderStore, cartService, hub)

	user.Wire(cartService, checkoutCoordinator, wishlistService, orderStore)
	phone.Wire(catalogStore)
	admin.Wire(catalogStore, orderStore, hub)

	api := r.Group("/api")
	api.Use(middleware.APIRateLimit())

	// --- Auth ---
	auth := api.Group("/auth")
	{
		auth.POST("/register", middleware.RegisterRateLimit(), user.Register)
		auth.POST("/login", middleware.LoginRateLimit(), user.Login)
		auth.POST("/forgot-password", middleware.ForgotPasswordRateLimit(), user.ForgotPassword)
		auth.POST("/reset-password", user.ResetPassword)
		auth.POST("/change-password", middleware.AuthRequired(), user.ChangePassword)
		auth.GET("/me", middleware.AuthRequired(), user.Me)
		auth.PUT("/me", middleware.AuthRequired(), user.UpdateProfile)
	}

	// --- Annonces (public) ---
	phones := api.Group("/phones")
	{
		phones.GET("", phone.ListPhones)
		phones.GET("/search", middleware.SearchRateLimit(), phone.SearchPhones)
		phones.GET("/mine", middleware.AuthRequired(), phone.MyListings)
		phones.GET("/:id", phone.GetPhone)
		phones.GET("/:id/reviews", phone.ListReviews)

		// --- Annonces (vendeur connecté) ---
		phones.POST("", middleware.AuthRequired(), phone.CreatePhone)
		phones.PUT("/:id", middleware.AuthRequired(), phone.UpdatePhone)
		phones.DELETE("/:id", middleware.AuthRequired(), phone.DeletePhone)
		phones.PUT("/:id/stock", middleware.AuthRequired(), phone.RestockPhone)
		phones.POST("/images", middleware.AuthRequired(), phone.UploadImage)

		// --- Avis ---
		phones.POST("/:id/reviews", middleware.AuthRequired(), phone.CreateReview)
		phones.PUT("/:id/reviews/:reviewId/visibility", middleware.AuthRequired(), phone.SetReviewVisibility)
	}

	// --- Panier ---
	cartGroup := api.Group("/cart", middleware.AuthRequired())
	{
		cartGroup.GET("", user.GetCart)
		cartGroup.GET("/ws", user.CartWebSocket)
		cartGroup.POST("/items", middleware.CartRateLimit(), user.AddCartItem)
		cartGroup.PUT("/items/:phoneId", middleware.CartRateLimit(), user.SetCartItemQuantity)
		cartGroup.DELETE("/items/:phoneId", middleware.CartRateLimit(), user.RemoveCartItem)
		cartGroup.DELETE("", user.ClearCart)
		cartGroup.POST("/checkout", user.Checkout)
	}

	// --- Wishlist ---
	wishlistGroup := api.Group("/wishlist", middleware.AuthRequired())
	{
		wishlistGroup.GET("", user.GetWishlist)
		wishlistGroup.POST("", user.AddToWishlist)
		wishlistGroup.DELETE("/:phoneId", user.RemoveFromWishlist)
		wishlistGroup.POST("/:phoneId/move-to-cart", user.MoveWishlistToCart)
	}

	// --- Commandes ---
	ordersGroup := api.Group("/orders", middleware.AuthRequired())
	{
		ordersGroup.GET("", user.GetOrders)
		ordersGroup.GET("/:id", user.GetOrder)
		ordersGroup.GET("/:id/qr", user.GetOrderQR)
	}

	// --- Back-office ---
	adminGroup := api.Group("/admin", middleware.AuthRequired(), middleware.RequireAdmin)
	{
		adminGroup.GET("/users", admin.ListUsers)
		adminGroup.PUT("/users/:id/disabled", admin.SetUserDisabled)
		adminGroup.PUT("/users/:id/role", middleware.RequireSuperAdmin, admin.UpdateUserRole)

		adminGroup.GET("/phones", admin.ListAllPhones)
		adminGroup.PUT("/phones/:id/disabled", admin.SetPhoneDisabled)
		adminGroup.PUT("/phones/:id/stock", admin.AdjustPhoneStock)
		adminGroup.GET("/phones/:id/reviews", admin.ListPhoneReviews)
		adminGroup.PUT("/phones/:id/reviews/:reviewId/hidden", admin.SetReviewHidden)

		adminGroup.GET("/orders", admin.ListOrders)
		adminGroup.PUT("/orders/:id/status", admin.UpdateOrderStatus)
		adminGroup.GET("/orders/export", admin.ExportSalesCSV)
		adminGroup.GET("/orders/ws", admin.OrdersWebSocket)
	}
}
