// Package protocol turns wire bytes into validated, typed messages and back.
//
// Ownership boundary:
// - message model: Value, Message, RawMessage
// - payload codec: schema-driven decode/encode with one shared rule set
// - Codec: framing + registry lookup + payload codec over a byte stream
//
// Framing primitives live in protocol/frame, layout declarations and the
// type registry in protocol/schema, and the concrete device profile in
// protocol/modem.
package protocol
