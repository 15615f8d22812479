package router

import (
	"github.com/cotizador/backend/internal/interfaces/http/handler"
	"github.com/cotizador/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers bundles the endpoint handlers mounted under the API prefix
type Handlers struct {
	Health    *handler.HealthHandler
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Company   *handler.CompanyHandler
	Client    *handler.ClientHandler
	Quotation *handler.QuotationHandler
	Note      *handler.NoteHandler
}

// DomainGroups builds the route groups of the quotation API.
// loginGuard runs before the login handler only; pass nil to skip it.
func DomainGroups(h Handlers, loginGuard gin.HandlerFunc) []RouteRegistrar {
	authRoutes := NewDomainGroup("auth", "/auth")
	if loginGuard != nil {
		authRoutes.POST("/login", loginGuard, h.Auth.Login)
	} else {
		authRoutes.POST("/login", h.Auth.Login)
	}
	authRoutes.POST("/logout", h.Auth.Logout)
	authRoutes.GET("/me", h.Auth.Me)

	userRoutes := NewDomainGroup("users", "/users").Use(middleware.RequireAdmin())
	userRoutes.GET("", h.User.List)
	userRoutes.POST("", h.User.Create)
	userRoutes.GET("/:id", h.User.GetByID)
	userRoutes.PUT("/:id", h.User.Update)
	userRoutes.DELETE("/:id", h.User.Delete)

	companyRoutes := NewDomainGroup("companies", "/companies")
	companyRoutes.GET("", h.Company.List)
	companyRoutes.POST("", h.Company.Create)
	companyRoutes.GET("/:id", h.Company.GetByID)
	companyRoutes.GET("/:id/pdf-data", h.Company.GetPDFData)
	companyRoutes.PUT("/:id", h.Company.Update)
	companyRoutes.DELETE("/:id", h.Company.Delete)

	clientRoutes := NewDomainGroup("clients", "/clients")
	clientRoutes.GET("", h.Client.List)
	clientRoutes.POST("", h.Client.Create)
	clientRoutes.GET("/:id", h.Client.GetByID)
	clientRoutes.PUT("/:id", h.Client.Update)
	clientRoutes.DELETE("/:id", h.Client.Delete)

	quotationRoutes := NewDomainGroup("quotations", "/quotations")
	quotationRoutes.GET("", h.Quotation.List)
	quotationRoutes.POST("", h.Quotation.Create)
	quotationRoutes.GET("/:id", h.Quotation.GetByID)
	quotationRoutes.PUT("/:id", h.Quotation.Update)
	quotationRoutes.DELETE("/:id", h.Quotation.Delete)
	quotationRoutes.GET("/:id/pdf", h.Quotation.PDF)
	quotationRoutes.POST("/:id/pdf/archive", h.Quotation.Archive)

	noteRoutes := NewDomainGroup("notes", "/notes")
	noteRoutes.GET("", h.Note.List)
	noteRoutes.POST("", h.Note.Create)
	noteRoutes.PUT("/:id", h.Note.Update)
	noteRoutes.DELETE("/:id", h.Note.Delete)

	systemRoutes := NewDomainGroup("system", "")
	systemRoutes.GET("/health", h.Health.Check)

	return []RouteRegistrar{
		systemRoutes,
		authRoutes,
		userRoutes,
		companyRoutes,
		clientRoutes,
		quotationRoutes,
		noteRoutes,
	}
}
