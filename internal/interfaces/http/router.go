package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ankitkhetariya/crm-real-estate/internal/application/analytics"
	"github.com/ankitkhetariya/crm-real-estate/internal/application/auth"
	"github.com/ankitkhetariya/crm-real-estate/internal/application/hierarchy"
	"github.com/ankitkhetariya/crm-real-estate/internal/application/usecase"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/entity"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	Hierarchy  *hierarchy.Manager
	Reconciler *hierarchy.Reconciler
	Dashboard  *analytics.DashboardUseCase
	Report     *analytics.ReportUseCase
	LeadUC     *usecase.LeadUseCase
	PropertyUC *usecase.PropertyUseCase
	TaskUC     *usecase.TaskUseCase
	Users      repository.UserRepository
	JWTSecret  string
}

var (
	roleAdmin   = entity.RoleAdmin.String()
	roleManager = entity.RoleManager.String()
)

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (login público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas: JWT + rol vigente en el directorio
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), LoadActor(deps.Users))

	protected.Get("/auth/me", authHandler.Me)
	protected.Post("/auth/register", RequireRole(roleAdmin), authHandler.Register)

	// Admin
	admin := protected.Group("/admin", RequireRole(roleAdmin))
	adminHandler := NewAdminHandler(deps.Hierarchy, deps.Reconciler, deps.Dashboard, deps.Report)
	admin.Get("/master-dashboard", adminHandler.MasterDashboard)
	admin.Get("/master-dashboard/report.pdf", adminHandler.MasterReport)
	admin.Put("/assign-team", adminHandler.AssignTeam)
	admin.Put("/users/:id/role", adminHandler.ChangeRole)
	admin.Delete("/users/:id", adminHandler.RemoveUser)
	admin.Post("/reconcile", adminHandler.Reconcile)

	// Manager (el admin puede consultar cualquier equipo con ?managerId=)
	manager := protected.Group("/manager", RequireRole(roleManager, roleAdmin))
	managerHandler := NewManagerHandler(deps.Dashboard)
	manager.Get("/my-agents", managerHandler.MyAgents)

	// Leads
	leads := protected.Group("/leads")
	leadHandler := NewLeadHandler(deps.LeadUC, deps.Dashboard)
	leads.Get("/stats", leadHandler.Stats)
	leads.Delete("/delete-all", leadHandler.DeleteAll)
	leads.Get("/", leadHandler.List)
	leads.Post("/", leadHandler.Create)
	leads.Get("/:id", leadHandler.Get)
	leads.Put("/:id", leadHandler.Update)
	leads.Delete("/:id", leadHandler.Delete)

	// Properties
	properties := protected.Group("/properties")
	propertyHandler := NewPropertyHandler(deps.PropertyUC)
	properties.Delete("/delete-all", propertyHandler.DeleteAll)
	properties.Get("/", propertyHandler.List)
	properties.Post("/", propertyHandler.Create)
	properties.Get("/:id", propertyHandler.Get)
	properties.Put("/:id", propertyHandler.Update)
	properties.Delete("/:id", propertyHandler.Delete)

	// Tasks
	tasks := protected.Group("/tasks")
	taskHandler := NewTaskHandler(deps.TaskUC)
	tasks.Delete("/delete-all", taskHandler.DeleteAll)
	tasks.Get("/", taskHandler.List)
	tasks.Post("/", taskHandler.Create)
	tasks.Get("/:id", taskHandler.Get)
	tasks.Put("/:id", taskHandler.Update)
	tasks.Delete("/:id", taskHandler.Delete)
}
