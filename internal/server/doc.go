// Package server exposes a trained classifier over HTTP: an HTML page with a
// probability chart, a JSON API, health and Prometheus endpoints.
package server
