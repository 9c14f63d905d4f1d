// Package captivedns implements the captive portal's name resolution trick.
//
// While the device hosts its configuration portal, any client associated to
// the portal's network that looks up any hostname gets the device's own
// address back. Every A query is answered with one fixed record regardless
// of the queried name; that is the entire protocol. Clients are handed this
// resolver as their DNS server through the access point's DHCP, so the first
// thing a joining phone does — an OS connectivity probe — lands on the
// portal page.
//
// This is not a DNS server in any general sense and does not try to be:
// no recursion, no caching, no record types beyond the wildcard A answer.
package captivedns
