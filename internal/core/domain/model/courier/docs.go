// Package courier provides the Courier entity used by the courier directory.
//
// The package includes:
//   - Courier: identity, display name and availability of a courier
//   - Availability: Offline, Available or Busy
//
// Key business rules:
//   - Couriers must have a valid unique identifier and a non-empty name
//   - New couriers start Offline
//   - Availability is changed by the courier itself (or an admin), never by
//     the order lifecycle; claiming an order does not make a courier Busy
package courier
