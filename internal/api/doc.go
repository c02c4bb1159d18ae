// Package api exposes the deck store, review sessions and card generation
// over HTTP. Handlers decode and validate requests, call the services and
// translate their errors into status codes with safe messages.
package api
