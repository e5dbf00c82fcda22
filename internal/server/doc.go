// Package server provides HTTP routing, middleware, and the public share viewer for saved favorite lists.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns, so path
// wildcards such as {id} are available through [http.Request.PathValue].
//
// # Share Viewer
//
// [SharedListHandler] serves GET /shared/{id}. It fetches the list through the
// backend's public share endpoint and renders it as HTML, or as JSON when the
// client sends Accept: application/json or ?format=json.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
