// Package api defines the request and response types of the public HTTP
// surface. Handlers live in the handlers subpackage.
package api
