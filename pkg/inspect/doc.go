// Package inspect serves a live view of a node tree over HTTP.
//
// The handler returned by New exposes:
//
//	GET /healthz       liveness probe
//	GET /tree          the tree as a snapshot document (JSON)
//	GET /tree.html     the rendered markup
//	GET /nodes/{id}    one captured node
//	GET /metrics       Prometheus metrics
//	GET /events        websocket stream of node lifecycle events
//
// The Hub behind /events is itself a node.Observer; register it on the
// builder with node.WithObserver so created, started, replayed and
// swallowed events reach connected clients.
//
// A node.Builder is not safe for concurrent use. When the tree is mutated
// while the inspector serves requests, pass the mutex guarding it with
// WithLock.
package inspect
