// Package authority resolves the caller identity behind privileged
// operations. Callers present a signed grant asserting which on-contract
// address they act as; the contract never takes an address at face value
// unless the deployment explicitly opts into trusted mode.
package authority
