// Package events names the topics the shop services publish on the
// application event bus.
package events

const (
	TopicSaleCompleted      = "shop.sale.completed"
	TopicRepairCreated      = "shop.repair.created"
	TopicCustomerRegistered = "shop.customer.registered"
)
