// Package docs carries the OpenAPI description served under /swagger/.
package docs

// @title           Ride Coordinator API
// @version         1.0
// @description     Books accessible rides, assigns approved drivers, tracks them live and lets admins review driver applications.

// @host      localhost:3000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
