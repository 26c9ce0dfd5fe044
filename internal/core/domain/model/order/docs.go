// Package order models delivery orders as the assignment engine sees them.
//
// The package includes:
//   - Order: an immutable order with pickup, dropoff, preparation time, value and priority
//   - Priority: the normal / high / urgent tier used to sequence batches
//   - Status: the delivery lifecycle kept by the order store; assigned, picked_up
//     and in_transit deliveries count towards a driver's active load
package order
