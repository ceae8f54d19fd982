// Package ports declares the interfaces between the dialog core and
// its adapters: session persistence, distributed locking, and the
// document store holding the caller's business records.
package ports
