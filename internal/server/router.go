package server

import (
	"net/http"
	"strings"
	"sync"
)

// BasicRouter routes "METHOD /path" patterns through an [http.ServeMux] and
// runs every request, matched or not, through its middleware chain.
type BasicRouter struct {
	mux         *http.ServeMux
	middlewares []Middleware

	once  sync.Once
	chain http.Handler
}

var _ Router = (*BasicRouter)(nil)

func NewBasicRouter() *BasicRouter {
	return &BasicRouter{mux: http.NewServeMux()}
}

// Use appends middleware. The first one added is the outermost.
// Middleware added after the first request is ignored.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers handler for method and path. GET also matches HEAD and
// other methods on the same path get a 405.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	r.mux.Handle(strings.ToUpper(method)+" "+path, handler)
}

// Handler registers h under each pattern it reports.
func (r *BasicRouter) Handler(h Handler) {
	for _, pattern := range h.Routes() {
		r.mux.Handle(pattern, h)
	}
}

func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.once.Do(func() { r.chain = r.Apply(r.mux) })
	r.chain.ServeHTTP(w, req)
}

// Apply wraps handler with the registered middleware.
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		handler = r.middlewares[i](handler)
	}
	return handler
}
