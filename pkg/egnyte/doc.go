// Package egnyte is a client for the Egnyte public REST API.
//
// Every call funnels through a Dispatcher, which sends one prepared
// *http.Request through an injected HTTPClient and turns the response into
// a Response[T] or an *APIError:
//
//	client, err := egnyte.NewClient("acme", token)
//	if err != nil {
//	    return err
//	}
//	ok, err := client.Files.CreateFolder(ctx, "/Shared/Reports")
//
// # Errors
//
// A non-2xx status, or a 2xx status whose body cannot be decoded, is
// reported as *APIError carrying the raw body and status code. Transport
// failures (DNS, timeouts, resets) come back exactly as the HTTPClient
// returned them. Wrappers reject missing arguments with *ArgumentError
// before touching the network.
//
// # Version
//
// See version.go for version constants that can be used programmatically.
package egnyte
