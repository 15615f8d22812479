// Package router mounts the API resources under a versioned prefix.
package router

import (
	"net/http"
	"path"
	"sort"

	"github.com/gin-gonic/gin"
)

// RouteRegistrar is anything that can attach its routes to a gin group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Route describes one mounted endpoint
type Route struct {
	Method string
	Path   string
	Group  string
}

// Router collects resource groups and mounts them under /api/<version>.
// Middleware passed to Use guards the API only, never routes added to the
// engine directly such as /health or /swagger.
type Router struct {
	engine     *gin.Engine
	apiVersion string
	guards     []gin.HandlerFunc
	registrars []RouteRegistrar
}

// Option configures a Router
type Option func(*Router)

// WithAPIVersion replaces the default "v1" prefix
func WithAPIVersion(version string) Option {
	return func(r *Router) { r.apiVersion = version }
}

func NewRouter(engine *gin.Engine, opts ...Option) *Router {
	r := &Router{engine: engine, apiVersion: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Router) Use(guards ...gin.HandlerFunc) *Router {
	r.guards = append(r.guards, guards...)
	return r
}

func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

// Prefix returns the path every registered group is mounted under
func (r *Router) Prefix() string {
	return "/api/" + r.apiVersion
}

// Setup mounts the registered groups. Call it once, after Use and Register.
func (r *Router) Setup() *gin.RouterGroup {
	api := r.engine.Group(r.Prefix())
	api.Use(r.guards...)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
	return api
}

// Describe lists the routes of every DomainGroup registered so far, sorted
// by path then method. Other registrars are opaque and skipped.
func (r *Router) Describe() []Route {
	var routes []Route
	for _, registrar := range r.registrars {
		group, ok := registrar.(*DomainGroup)
		if !ok {
			continue
		}
		for _, ep := range group.endpoints {
			routes = append(routes, Route{
				Method: ep.method,
				Path:   joinPath(r.Prefix(), group.prefix, ep.path),
				Group:  group.name,
			})
		}
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})
	return routes
}

// DomainGroup holds the endpoints of one resource until it is mounted
type DomainGroup struct {
	name      string
	prefix    string
	guards    []gin.HandlerFunc
	endpoints []endpoint
}

type endpoint struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

// Use adds middleware that runs before every endpoint of the group
func (g *DomainGroup) Use(guards ...gin.HandlerFunc) *DomainGroup {
	g.guards = append(g.guards, guards...)
	return g
}

func (g *DomainGroup) add(method, relativePath string, handlers []gin.HandlerFunc) *DomainGroup {
	g.endpoints = append(g.endpoints, endpoint{method: method, path: relativePath, handlers: handlers})
	return g
}

func (g *DomainGroup) GET(relativePath string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.add(http.MethodGet, relativePath, handlers)
}

func (g *DomainGroup) POST(relativePath string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.add(http.MethodPost, relativePath, handlers)
}

func (g *DomainGroup) PUT(relativePath string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.add(http.MethodPut, relativePath, handlers)
}

func (g *DomainGroup) DELETE(relativePath string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.add(http.MethodDelete, relativePath, handlers)
}

// RegisterRoutes implements RouteRegistrar
func (g *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(g.prefix, g.guards...)
	for _, ep := range g.endpoints {
		group.Handle(ep.method, ep.path, ep.handlers...)
	}
}

func (g *DomainGroup) Name() string { return g.name }

func (g *DomainGroup) Prefix() string { return g.prefix }

// joinPath mirrors gin's joining: the trailing slash of the last
// non-empty segment survives.
func joinPath(parts ...string) string {
	joined := path.Join(parts...)
	last := ""
	for _, p := range parts {
		if p != "" {
			last = p
		}
	}
	if len(last) > 0 && last[len(last)-1] == '/' && joined[len(joined)-1] != '/' {
		joined += "/"
	}
	return joined
}
