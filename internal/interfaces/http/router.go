package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/wms-ledger/internal/application/cyclecount"
	"github.com/jhoicas/wms-ledger/internal/application/inbound"
	"github.com/jhoicas/wms-ledger/internal/application/inventory"
	"github.com/jhoicas/wms-ledger/internal/application/outbound"
	"github.com/jhoicas/wms-ledger/pkg/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Stock       *inventory.StockUseCase
	Inbound     *inbound.SortUseCase
	Outbound    *outbound.SupplyUseCase
	CycleCounts *cyclecount.ReconcileUseCase
	Metrics     *metrics.Engine
	JWTSecret   string
}

// Router registra las rutas de la API. /metrics queda público, todo /api exige Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	stock := api.Group("/stock")
	inventoryHandler := NewInventoryHandler(deps.Stock)
	stock.Post("/movements", inventoryHandler.RegisterMovement)
	stock.Get("/balance", inventoryHandler.Balance)
	stock.Get("/history", inventoryHandler.History)
	stock.Get("/verify", inventoryHandler.Verify)
	stock.Get("/products/:id/total", inventoryHandler.TotalByProduct)
	stock.Get("/locations/:id/total", inventoryHandler.TotalByLocation)

	inboundLines := api.Group("/inbound/lines")
	inboundHandler := NewInboundHandler(deps.Inbound)
	inboundLines.Get("/:id", inboundHandler.GetLine)
	inboundLines.Post("/:id/receive", inboundHandler.Receive)
	inboundLines.Post("/:id/assignments", inboundHandler.Assign)
	inboundLines.Delete("/:id/assignments/:location", inboundHandler.Unassign)
	inboundLines.Post("/:id/commit", inboundHandler.Commit)

	outboundLines := api.Group("/outbound/lines")
	outboundHandler := NewOutboundHandler(deps.Outbound)
	outboundLines.Get("/:id/supply-state", outboundHandler.SupplyState)
	outboundLines.Post("/:id/supplies", outboundHandler.Supply)
	outboundLines.Delete("/:id/supplies/:location", outboundHandler.RevertSupply)

	counts := api.Group("/cycle-counts")
	countHandler := NewCycleCountHandler(deps.CycleCounts)
	counts.Post("/", countHandler.Create)
	counts.Put("/differences/:id", countHandler.RecordCount)
	counts.Get("/:id", countHandler.Get)
	counts.Post("/:id/apply", RequireRole(RoleAdmin, RoleSupervisor), countHandler.Apply)
	counts.Post("/:id/reject", RequireRole(RoleAdmin, RoleSupervisor), countHandler.Reject)
}
