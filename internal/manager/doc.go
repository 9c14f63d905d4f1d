// Package manager owns the device's connectivity lifecycle.
//
// The manager is the one component with real failure handling and mode
// transitions. It decides, from boot onward, whether the device is trying to
// join a network as a station, has joined one, or has degraded into hosting
// its own access point with the captive configuration portal:
//
//	Uninitialized --(no stored credential)--> PortalActive
//	Uninitialized --(stored credential)-----> Connecting
//	Connecting ----(attempt connected)------> Connected
//	Connecting ----(timed out / rejected)---> PortalActive
//	Connected -----(link loss)--------------> Connecting (same identity)
//	Connected -----(reset)------------------> PortalActive (credential erased)
//	PortalActive --(submitted identity ok)--> Connected
//	PortalActive --(submitted identity bad)-> PortalActive
//
// There is no automatic retry of a stored credential from portal mode; the
// only exits are a user-submitted identity or a reset. Repeated failure
// leaves the device in portal mode indefinitely, awaiting the operator.
//
// # Ownership and Concurrency
//
// All transition state (current mode, current identity, the portal session's
// broadcaster and resolver handles) is owned by a single run-loop goroutine.
// The HTTP layer talks to it through buffered command channels and never
// blocks on the multi-second connection deadline: submitting an identity
// returns a Ticket immediately, and the outcome is polled later.
//
// A credential is persisted only on a confirmed Connected transition, never
// for an attempt that has not yet proven the identity works. A failed
// durable write downgrades gracefully: the session keeps the credential in
// memory and the ticket carries a flag so the UI can warn that it may not
// survive a reboot.
//
// Failure to enter portal mode (access point or resolver bind) is the one
// fatal condition: with no further fallback, Run returns the error and the
// process supervisor decides whether to retry boot.
package manager
