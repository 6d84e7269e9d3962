package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/marlon-leasing/marlon/app/controllers"
	"github.com/marlon-leasing/marlon/internal/pkg/middleware"
	"github.com/marlon-leasing/marlon/internal/pkg/session"
)

type ApiRouter struct {
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	// init session store before any route resolves user context
	session.NewSessionStore()

	app.Use(middleware.UserContextMiddleware)

	api := app.Group("/api", limiter.New(limiter.Config{Max: 120}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "marlon api",
		})
	})

	v1 := api.Group("/v1")
	h.registerPublicRoutes(v1)
	h.registerCustomerRoutes(v1)
	h.registerAdminRoutes(v1)
}

func (h ApiRouter) registerPublicRoutes(v1 fiber.Router) {
	auth := v1.Group("/auth")
	auth.Post("/register", controllers.HandleAuthRegister)
	auth.Post("/login", controllers.HandleAuthLogin)
	auth.Post("/logout", controllers.HandleAuthLogout)
	auth.Get("/me", controllers.HandleAuthMe)

	catalog := v1.Group("/catalog")
	catalog.Get("/products", controllers.HandleCatalogList)
	catalog.Get("/products/:slug", controllers.HandleCatalogDetail)
	catalog.Get("/products/:id/quote", controllers.HandleCatalogQuote)
}

func (h ApiRouter) registerCustomerRoutes(v1 fiber.Router) {
	cart := v1.Group("/cart", middleware.RequireAuth)
	cart.Get("/", controllers.HandleCartGet)
	cart.Post("/items", controllers.HandleCartAddItem)
	cart.Put("/items/:id", controllers.HandleCartUpdateItem)
	cart.Delete("/items/:id", controllers.HandleCartRemoveItem)
	cart.Put("/duration", controllers.HandleCartSetDuration)
	cart.Delete("/", controllers.HandleCartClear)

	orders := v1.Group("/orders", middleware.RequireAuth)
	orders.Post("/checkout", controllers.HandleCheckout)
	orders.Get("/", controllers.HandleOrderList)
	orders.Get("/:id", controllers.HandleOrderDetail)
}

func (h ApiRouter) registerAdminRoutes(v1 fiber.Router) {
	admin := v1.Group("/admin", middleware.RequireAuth, middleware.RequireAdmin)
	admin.Get("/dashboard", controllers.HandleAdminDashboard)

	admin.Get("/leasers", controllers.HandleAdminLeaserList)
	admin.Post("/leasers", controllers.HandleAdminLeaserCreate)
	admin.Get("/leasers/:id", controllers.HandleAdminLeaserDetail)
	admin.Put("/leasers/:id", controllers.HandleAdminLeaserUpdate)
	admin.Get("/leasers/:id/coefficients", controllers.HandleAdminCoefficientList)
	admin.Post("/leasers/:id/coefficients", controllers.HandleAdminCoefficientCreate)
	admin.Put("/coefficients/:coefficient_id", controllers.HandleAdminCoefficientUpdate)
	admin.Delete("/coefficients/:coefficient_id", controllers.HandleAdminCoefficientDelete)

	admin.Get("/durations", controllers.HandleAdminDurationList)
	admin.Post("/durations", controllers.HandleAdminDurationCreate)

	admin.Get("/products", controllers.HandleAdminProductList)
	admin.Post("/products", controllers.HandleAdminProductCreate)
	admin.Post("/products/preview", controllers.HandleAdminProductPreview)
	admin.Put("/products/:id", controllers.HandleAdminProductUpdate)
	admin.Delete("/products/:id", controllers.HandleAdminProductDelete)
	admin.Post("/products/:id/images", controllers.HandleAdminProductImageUpload)

	admin.Get("/brands", controllers.HandleAdminBrandList)
	admin.Post("/brands", controllers.HandleAdminBrandCreate)
	admin.Get("/categories", controllers.HandleAdminCategoryList)
	admin.Post("/categories", controllers.HandleAdminCategoryCreate)

	admin.Get("/orders", controllers.HandleAdminOrderList)
	admin.Get("/orders/:id", controllers.HandleAdminOrderDetail)
	admin.Put("/orders/:id", controllers.HandleAdminOrderUpdate)
	admin.Put("/orders/:id/status", controllers.HandleAdminOrderStatus)
	admin.Patch("/orders/:id/overrides", controllers.HandleAdminOrderOverrides)
	admin.Post("/orders/:id/documents/:doc_type", controllers.HandleAdminOrderDocumentUpload)
}
