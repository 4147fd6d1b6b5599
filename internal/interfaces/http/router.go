package http

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/language"

	"github.com/jhoicas/Logistica-vacunas-api/internal/application/auth"
	"github.com/jhoicas/Logistica-vacunas-api/internal/application/disposal"
	"github.com/jhoicas/Logistica-vacunas-api/internal/application/inventory"
	"github.com/jhoicas/Logistica-vacunas-api/internal/application/order"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	TransactionUC *inventory.TransactionUseCase
	DisposalUC    *disposal.UseCase
	OrderUC       *order.UseCase
	Drafts        DraftStores
	JWTSecret     string
	// DefaultLanguage idioma de los mensajes de validación sin Accept-Language.
	DefaultLanguage language.Tag
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", LanguageMiddleware(deps.DefaultLanguage))
	write := RequireRole(WriteRoles...)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	// Stock, motivos y transacciones
	inventoryHandler := NewInventoryHandler(deps.TransactionUC)
	protected.Get("/stocks", inventoryHandler.ListStocks)
	protected.Get("/transaction-reasons", inventoryHandler.ListReasons)
	protected.Get("/transactions", inventoryHandler.ListTransactions)
	protected.Post("/transactions", write, inventoryHandler.CreateTransactions)

	// Borradores (por usuario, en memoria)
	drafts := protected.Group("/drafts")
	draftHandler := NewDraftHandler(deps.Drafts, deps.DisposalUC)
	drafts.Get("/disposal/preview", draftHandler.DisposalPreview)
	drafts.Get("/:slice", draftHandler.List)
	drafts.Delete("/:slice", draftHandler.Clear)
	drafts.Get("/:slice/:material_id", draftHandler.Get)
	drafts.Put("/:slice/:material_id", draftHandler.Put)
	drafts.Delete("/:slice/:material_id", draftHandler.Delete)

	// Disposición
	disposals := protected.Group("/disposals")
	disposalHandler := NewDisposalHandler(deps.DisposalUC)
	disposals.Get("/stocks", disposalHandler.ListStocks)
	disposals.Post("/self", write, disposalHandler.CreateSelf)
	disposals.Get("/shipments", disposalHandler.ListShipments)
	disposals.Post("/shipments", write, disposalHandler.CreateShipment)
	disposals.Get("/shipments/:id", disposalHandler.GetShipment)
	disposals.Get("/shipments/:id/manifest.pdf", disposalHandler.ManifestPDF)
	disposals.Post("/shipments/:id/receive", write, disposalHandler.ReceiveShipment)
	disposals.Post("/shipments/:id/cancel", write, disposalHandler.CancelShipment)

	// Pedidos
	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Post("/", write, orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.Get)
	orders.Put("/:id", write, orderHandler.Edit)
	orders.Get("/:id/actions", orderHandler.Actions)
	orders.Post("/:id/submit", write, orderHandler.Submit)
	orders.Post("/:id/confirm", write, orderHandler.Confirm)
	orders.Post("/:id/allocate", write, orderHandler.Allocate)
	orders.Post("/:id/ship", write, orderHandler.Ship)
	orders.Post("/:id/receive", write, orderHandler.Receive)
	orders.Post("/:id/cancel", write, orderHandler.Cancel)
}
