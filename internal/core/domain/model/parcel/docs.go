// Package parcel models the unit of work moved through the relay network.
//
// The package includes:
//   - Parcel: the aggregate root holding route, price, payment and lifecycle status
//   - Status: the closed set of lifecycle phases and the transition graph
//   - ActorRole and Actor: who may request which transition
//   - DeliveryMode: which ends of the route are relays and which are addresses
//   - ConfirmationCode: the 6-digit pickup and delivery proofs
//   - Event: the append-only audit record
//
// Allowed transitions:
//
//	CREATED                 -> DROPPED_AT_ORIGIN_RELAY, OUT_FOR_DELIVERY, CANCELLED
//	DROPPED_AT_ORIGIN_RELAY -> IN_TRANSIT, CANCELLED
//	IN_TRANSIT              -> AT_DESTINATION_RELAY, OUT_FOR_DELIVERY
//	AT_DESTINATION_RELAY    -> AVAILABLE_AT_RELAY, OUT_FOR_DELIVERY
//	AVAILABLE_AT_RELAY      -> DELIVERED, EXPIRED
//	OUT_FOR_DELIVERY        -> DELIVERED, DELIVERY_FAILED
//	DELIVERY_FAILED         -> REDIRECTED_TO_RELAY, RETURNED
//	REDIRECTED_TO_RELAY     -> AVAILABLE_AT_RELAY
//	DISPUTED                -> DELIVERED, RETURNED, CANCELLED
//
// DELIVERED, CANCELLED, EXPIRED and RETURNED are terminal. A relay-received
// parcel cannot skip availability, and a failed home delivery is either
// redirected to a relay or returned.
package parcel
