// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package wallet supplies the transaction reference recorded with each vote.

There is no on-chain vote. The reference is an opaque 0x-prefixed 32-byte
hash that a wallet would return after signing.

  - SimulatedLedger: waits a configurable delay, then mints a keccak hash.
    A hash supplied by the client is validated and used as is.
  - RPCLedger: requires a client-supplied hash and checks it exists on an
    Ethereum JSON-RPC node.

NormalizeAddress validates wallet addresses linked to voter records.
*/
package wallet
