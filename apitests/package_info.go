// Package apitests contains the contract scenarios for the cold email generator API and
// the T type they are written against.
//
// Infrastructure that is not specific to this API, such as running scenarios in order,
// passing artifacts between them and reporting results, is in the lower-level framework
// package. Sending requests is done by the transport package.
package apitests
