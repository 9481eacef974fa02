// Package ampcomponents provides the configuration builders for the standard SDK components.
//
// Obtain a builder from one of the package's functions, such as SendEvents() or Logging(), modify
// its properties, and store it in the corresponding Config field before creating the client.
package ampcomponents
