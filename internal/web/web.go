// Package web renders the module's HTML. A request from the in-page refresh
// library (HX-Request: true) gets a fragment, everything else a full page.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"propmgmt-backend/internal/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
)

//go:embed views
var viewsFS embed.FS

const (
	LayoutMain = "layouts/main"

	// ListTarget is the element id list fragments replace.
	ListTarget = "datatable-body"

	ctxNavKey = "nav_active"
)

// NewEngine loads the embedded templates.
func NewEngine() *html.Engine {
	sub, err := fs.Sub(viewsFS, "views")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("isActive", func(active, id string) bool { return active == id })
	return engine
}

// NavItem is one entry of the module menu.
type NavItem struct {
	ID    string
	Label string
	Icon  string
	Href  string
}

var Navigation = []NavItem{
	{ID: "dashboard", Label: "Dashboard", Icon: "speedometer-outline", Href: "/"},
	{ID: "properties", Label: "Properties", Icon: "home-outline", Href: "/properties/"},
	{ID: "tenants", Label: "Tenants", Icon: "people-outline", Href: "/tenants/"},
	{ID: "leases", Label: "Leases", Icon: "document-text-outline", Href: "/leases/"},
	{ID: "settings", Label: "Settings", Icon: "settings-outline", Href: "/settings/"},
}

// WithNav marks the menu entry a route belongs to.
func WithNav(id string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(ctxNavKey, id)
		return c.Next()
	}
}

func IsHTMX(c *fiber.Ctx) bool {
	return c.Get("HX-Request") == "true"
}

func HTMXTarget(c *fiber.Ctx) string {
	return c.Get("HX-Target")
}

// Render renders a content template, wrapped in the page layout unless the
// request asked for a fragment.
func Render(c *fiber.Ctx, content string, data fiber.Map) error {
	data = withChrome(c, data)
	if IsHTMX(c) {
		return c.Render(content, data)
	}
	return c.Render(content, data, LayoutMain)
}

// RenderList is Render for list screens: a fragment request aimed at the
// table body gets only the list template.
func RenderList(c *fiber.Ctx, content, list string, data fiber.Map) error {
	if IsHTMX(c) && HTMXTarget(c) == ListTarget {
		return Partial(c, list, data)
	}
	return Render(c, content, data)
}

// Partial renders a template on its own.
func Partial(c *fiber.Ctx, name string, data fiber.Map) error {
	return c.Render(name, withChrome(c, data))
}

func withChrome(c *fiber.Ctx, data fiber.Map) fiber.Map {
	if data == nil {
		data = fiber.Map{}
	}
	active, _ := c.Locals(ctxNavKey).(string)
	_, userName := auth.Actor(c)
	data["Module"] = "Property Management"
	data["Nav"] = Navigation
	data["ActiveNav"] = active
	data["UserName"] = userName
	return data
}
