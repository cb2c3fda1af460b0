// Package types holds the data structures shared by providers, the
// service registry and the HTTP API.
//
// Core Types:
//   - Service, Tool, Parameter: what a provider exposes
//   - Context: per-call execution context
//   - Result: the uniform tool outcome
//   - ExecuteRequest: a tool invocation over HTTP
//
// Params helpers read loosely typed JSON parameters:
//
//	path, err := types.GetString(params, "path", true)
//	overwrite := types.GetBool(params, "overwrite", false)
package types
