package egnyte

// Version information for the egnyte client.
const (
	// Version is the current version of the client.
	Version = "1.0.0"

	// APIVersion is the Egnyte public API revision the wrappers target.
	APIVersion = "v1"
)
