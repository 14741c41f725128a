// Package models defines the order aggregate and its table rows.
//
// Order and OrderItem are the domain types handled by the service. OrderPO
// and OrderItemPO map the demo_order and demo_order_item tables.
package models
