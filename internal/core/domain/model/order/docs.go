// Package order provides the Order aggregate and its lifecycle state machine.
//
// The package includes:
//   - Order: the aggregate root, owning its items and its status
//   - Item: an immutable order line with a price snapshot
//   - Status: the lifecycle states and the edge/role table
//   - StatusChanged: the domain event recorded on every accepted status change
//
// Key business rules:
//   - Orders start Pending and move Pending -> Preparing -> Ready ->
//     OutForDelivery -> Delivered, or into Cancelled before delivery
//   - Delivered and Cancelled are terminal
//   - Each edge names the roles allowed to take it; ownership of the order is
//     checked on top of the role
//   - A courier is attached exactly when the order goes OutForDelivery, by
//     auto-assign or by a courier's claim
//   - Retrying an applied transition fails with InvalidTransition; it is not
//     idempotent
package order
