package rest

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
)

// IDParam is the path parameter carrying the resource identifier.
const IDParam = "id"

// RestfulMethods lists the verbs the registrar knows about, in registration order.
var RestfulMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}

// Capability interfaces. A resource exposes an endpoint by implementing the
// matching interface; the registrar never looks at anything else.
type (
	Lister interface {
		List(c *gin.Context)
	}
	Getter interface {
		Get(c *gin.Context, id string)
	}
	Creator interface {
		Create(c *gin.Context)
	}
	BulkUpdater interface {
		UpdateMany(c *gin.Context)
	}
	Updater interface {
		Update(c *gin.Context, id string)
	}
	Deleter interface {
		Delete(c *gin.Context, id string)
	}
)

// Route is one entry of the declaration table built at startup.
type Route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
}

func (r Route) String() string {
	return fmt.Sprintf("%-6s %s", r.Method, r.Path)
}

// MethodSet is a set of upper-case HTTP verbs.
type MethodSet map[string]struct{}

// ParseMethods builds a MethodSet, rejecting verbs outside RestfulMethods.
func ParseMethods(methods []string) (MethodSet, error) {
	set := make(MethodSet, len(methods))
	for _, m := range methods {
		m = strings.ToUpper(strings.TrimSpace(m))
		if m == "" {
			continue
		}
		if !isRestful(m) {
			return nil, fmt.Errorf("unsupported method %q", m)
		}
		set[m] = struct{}{}
	}
	return set, nil
}

func (s MethodSet) Has(method string) bool {
	_, ok := s[method]
	return ok
}

func (s MethodSet) List() []string {
	out := make([]string, 0, len(s))
	for m := range s {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Resource names a collection and the verbs it refuses.
type Resource struct {
	Name      string
	URL       string
	Forbidden MethodSet
}

// BasePath is the collection path: URL when set, otherwise "/" + lowercased name.
func (r Resource) BasePath() string {
	url := strings.TrimSpace(r.URL)
	if url == "" {
		url = strings.ToLower(r.Name)
	}
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	return strings.TrimSuffix(url, "/")
}

func (r Resource) ItemPath() string {
	return r.BasePath() + "/:" + IDParam
}

// Routes builds the declaration table for h. Every verb that is not forbidden
// yields the collection rule, the item rule, both or neither depending on the
// capabilities h implements.
func Routes(res Resource, h interface{}) []Route {
	routes := make([]Route, 0, 6)
	for _, method := range RestfulMethods {
		if res.Forbidden.Has(method) {
			continue
		}
		collection, item := handlersFor(method, h)
		if collection != nil {
			routes = append(routes, Route{Method: method, Path: res.BasePath(), Handler: collection})
		}
		if item != nil {
			routes = append(routes, Route{Method: method, Path: res.ItemPath(), Handler: item})
		}
	}
	return routes
}

func handlersFor(method string, h interface{}) (collection, item gin.HandlerFunc) {
	switch method {
	case http.MethodGet:
		if v, ok := h.(Lister); ok {
			collection = v.List
		}
		if v, ok := h.(Getter); ok {
			item = withID(v.Get)
		}
	case http.MethodPost:
		if v, ok := h.(Creator); ok {
			collection = v.Create
		}
	case http.MethodPut:
		if v, ok := h.(BulkUpdater); ok {
			collection = v.UpdateMany
		}
		if v, ok := h.(Updater); ok {
			item = withID(v.Update)
		}
	case http.MethodDelete:
		if v, ok := h.(Deleter); ok {
			item = withID(v.Delete)
		}
	}
	return collection, item
}

func withID(fn func(c *gin.Context, id string)) gin.HandlerFunc {
	return func(c *gin.Context) {
		fn(c, c.Param(IDParam))
	}
}

// Register installs routes on r, running mw before each handler.
func Register(r gin.IRoutes, routes []Route, mw ...gin.HandlerFunc) {
	for _, route := range routes {
		handlers := make([]gin.HandlerFunc, 0, len(mw)+1)
		handlers = append(handlers, mw...)
		handlers = append(handlers, route.Handler)
		r.Handle(route.Method, route.Path, handlers...)
	}
}

func isRestful(method string) bool {
	for _, m := range RestfulMethods {
		if m == method {
			return true
		}
	}
	return false
}
