package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rack-inventario-api/internal/application/inventory"
	"github.com/jhoicas/rack-inventario-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Engine    *inventory.Engine
	JWTSecret string
	JWTIssuer string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
//   - lectura y diagnóstico: admin, bodeguero, auditor
//   - ubicaciones y traslados: admin, bodeguero
//   - alta y baja de slots: admin
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	readers := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleAuditor)
	operators := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)
	admins := RequireRole(jwt.RoleAdmin)

	slotHandler := NewSlotHandler(deps.Engine)
	rackItemHandler := NewRackItemHandler(deps.Engine)
	movementHandler := NewMovementHandler(deps.Engine)

	// Slots (la ruta fija /consistency va antes de /:id)
	api.Post("/slots", admins, slotHandler.Create)
	api.Get("/slots/consistency", readers, slotHandler.ConsistencyAll)
	api.Get("/slots/:id", readers, slotHandler.GetByID)
	api.Delete("/slots/:id", admins, slotHandler.Delete)
	api.Get("/slots/:id/consistency", readers, slotHandler.Consistency)
	api.Get("/slots/:id/rack-items", readers, rackItemHandler.ListBySlot)
	api.Get("/racks/:rackId/slots", readers, slotHandler.ListByRack)
	api.Get("/racks/:rackId/slots/:label", readers, slotHandler.GetByRackAndLabel)

	// Rack items (ubicaciones)
	api.Post("/rack-items", operators, rackItemHandler.Create)
	api.Get("/rack-items/:id", readers, rackItemHandler.GetByID)
	api.Put("/rack-items/:id", operators, rackItemHandler.Update)
	api.Delete("/rack-items/:id", operators, rackItemHandler.Delete)
	api.Get("/items/:itemId/rack-items", readers, rackItemHandler.ListByItem)

	// Stock movements
	api.Post("/stock-movements", operators, movementHandler.MoveStock)
	api.Get("/stock-movements", readers, movementHandler.List)
	api.Get("/stock-movements/:id", readers, movementHandler.GetByID)
	api.Put("/stock-movements/:id", operators, movementHandler.Update)
}
