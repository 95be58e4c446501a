// Package server wires the HTTP surface: sentiment classification endpoints,
// news article CRUD, health probes, and Prometheus metrics, all served
// through a single Echo instance.
package server
