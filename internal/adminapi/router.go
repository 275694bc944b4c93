// Package adminapi exposes the shop dashboard HTTP API: operator login
// plus inventory, point-of-sale, repair and customer management.
package adminapi

// InitRouter registers every dashboard route with the web server. Call
// once after webserver.Init.
func InitRouter() {
	registerLoginRoutes()
	registerInventoryRoutes()
	registerPosRoutes()
	registerRepairRoutes()
	registerCustomerRoutes()
}
