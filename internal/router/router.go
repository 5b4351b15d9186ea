package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/clubportal/api/handler"
	"github.com/fastygo/clubportal/internal/gate"
	"github.com/fastygo/clubportal/internal/middleware"
	"github.com/fastygo/clubportal/internal/policy"
)

type Handlers struct {
	Auth      *apiHandler.AuthHandler
	Profile   *apiHandler.ProfileHandler
	Setup     *apiHandler.SetupHandler
	Members   *apiHandler.MembersHandler
	Course    *apiHandler.CourseHandler
	Progress  *apiHandler.ProgressHandler
	Content   *apiHandler.ContentHandler
	Analytics *apiHandler.AnalyticsHandler
	Health    *apiHandler.HealthHandler
	Metrics   fasthttp.RequestHandler
}

// Limits throttles the unauthenticated entry points. Nil limiters pass requests through.
type Limits struct {
	Auth  *middleware.RateLimiter
	Setup *middleware.RateLimiter
}

func New(handlers Handlers, g *gate.Gate, limits Limits) *router.Router {
	r := router.New()
	r.SaveMatchedRoutePath = true

	// admin wraps a route with the role check so non-admins never reach the handler.
	admin := func(action policy.Action, category policy.Category, h fasthttp.RequestHandler) fasthttp.RequestHandler {
		return g.Guard(action, category, h)
	}

	r.GET("/health", handlers.Health.Check)
	if handlers.Metrics != nil {
		r.GET("/metrics", handlers.Metrics)
	}

	// Auth routes
	r.POST("/api/auth/signup", limits.Auth.Wrap(handlers.Auth.Signup))
	r.POST("/api/auth/login", limits.Auth.Wrap(handlers.Auth.Login))
	r.POST("/api/auth/logout", handlers.Auth.Logout)
	r.POST("/api/auth/refresh", handlers.Auth.Refresh)
	r.GET("/api/auth/me", handlers.Profile.Me)
	r.GET("/api/dashboard", handlers.Profile.Dashboard)

	// Setup
	r.GET("/api/setup/status", handlers.Setup.Status)
	r.POST("/api/setup/initialize", limits.Setup.Wrap(handlers.Setup.Initialize))

	// Members
	r.GET("/api/admin/users", admin(policy.ActionRead, policy.CategoryUserRecord, handlers.Members.List))
	r.PATCH("/api/admin/users/{id}/approve", admin(policy.ActionUpdate, policy.CategoryUserRecord, handlers.Members.Approve))
	r.PATCH("/api/admin/users/{id}/mentorship", admin(policy.ActionUpdate, policy.CategoryUserRecord, handlers.Members.SetMentorship))
	r.PATCH("/api/admin/users/{id}/archive", admin(policy.ActionArchive, policy.CategoryUserRecord, handlers.Members.Archive))
	r.GET("/api/admin/audit", admin(policy.ActionRead, policy.CategoryAdminOnlyContent, handlers.Members.Audit))

	// Courses
	r.GET("/api/courses", handlers.Course.List)
	r.GET("/api/courses/{id}", handlers.Course.Get)
	r.GET("/api/courses/{id}/modules", handlers.Course.Modules)
	r.GET("/api/modules/{id}", handlers.Course.Module)
	r.POST("/api/admin/courses", admin(policy.ActionCreate, policy.CategoryCourse, handlers.Course.Create))
	r.PUT("/api/admin/courses/{id}", admin(policy.ActionUpdate, policy.CategoryCourse, handlers.Course.Update))
	r.PATCH("/api/admin/courses/{id}/archive", admin(policy.ActionArchive, policy.CategoryCourse, handlers.Course.Archive))
	r.POST("/api/admin/modules", admin(policy.ActionCreate, policy.CategoryModule, handlers.Course.CreateModule))
	r.POST("/api/admin/modules/reorder", admin(policy.ActionUpdate, policy.CategoryModule, handlers.Course.ReorderModules))
	r.PUT("/api/admin/modules/{id}", admin(policy.ActionUpdate, policy.CategoryModule, handlers.Course.UpdateModule))
	r.PATCH("/api/admin/modules/{id}/archive", admin(policy.ActionArchive, policy.CategoryModule, handlers.Course.ArchiveModule))

	// Progress
	r.GET("/api/progress", handlers.Progress.List)
	r.POST("/api/progress", handlers.Progress.Mark)
	r.PUT("/api/progress/{id}", handlers.Progress.Update)
	r.GET("/api/progress/courses/{id}", handlers.Progress.CourseSummary)

	// Public content
	r.GET("/api/announcements", handlers.Content.ListAnnouncements)
	r.GET("/api/leadership", handlers.Content.ListLeadership)
	r.GET("/api/success-events", handlers.Content.ListSuccessEvents)
	r.GET("/api/homepage-content", handlers.Content.ListHomepage)
	r.GET("/api/coach-info", handlers.Content.GetCoach)

	content := func(action policy.Action, h fasthttp.RequestHandler) fasthttp.RequestHandler {
		return admin(action, policy.CategoryPublicContent, h)
	}
	r.POST("/api/admin/announcements", content(policy.ActionCreate, handlers.Content.CreateAnnouncement))
	r.PUT("/api/admin/announcements/{id}", content(policy.ActionUpdate, handlers.Content.UpdateAnnouncement))
	r.PATCH("/api/admin/announcements/{id}/archive", content(policy.ActionArchive, handlers.Content.ArchiveAnnouncement))
	r.POST("/api/admin/leadership", content(policy.ActionCreate, handlers.Content.CreateLeader))
	r.POST("/api/admin/leadership/reorder", content(policy.ActionUpdate, handlers.Content.ReorderLeadership))
	r.PUT("/api/admin/leadership/{id}", content(policy.ActionUpdate, handlers.Content.UpdateLeader))
	r.PATCH("/api/admin/leadership/{id}/archive", content(policy.ActionArchive, handlers.Content.ArchiveLeader))
	r.POST("/api/admin/success-events", content(policy.ActionCreate, handlers.Content.CreateSuccessEvent))
	r.PUT("/api/admin/success-events/{id}", content(policy.ActionUpdate, handlers.Content.UpdateSuccessEvent))
	r.PATCH("/api/admin/success-events/{id}/archive", content(policy.ActionArchive, handlers.Content.ArchiveSuccessEvent))
	r.PUT("/api/admin/homepage-content", content(policy.ActionUpdate, handlers.Content.UpsertHomepage))
	r.PUT("/api/admin/coach-info", content(policy.ActionUpdate, handlers.Content.ReplaceCoach))

	// Analytics
	r.GET("/api/admin/analytics", admin(policy.ActionRead, policy.CategoryAdminOnlyContent, handlers.Analytics.Summary))
	r.GET("/api/admin/analytics/history", admin(policy.ActionRead, policy.CategoryAdminOnlyContent, handlers.Analytics.History))

	return r
}
