// Package model defines the ephemeral types shared by the supervisor and
// the platform bindings: device descriptors, connection states, open
// results and attempt identifiers. Nothing here is persisted.
package model
