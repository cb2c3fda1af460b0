// Package service routes tool calls to providers.
//
// Tool ids have the form "<service>.<tool>", for example
// "filesystem.dir.copy". The registry splits on the first dot, finds
// the provider, checks the tool is declared and times the call.
//
// Example Usage:
//
//	registry := service.NewRegistry(logger, metrics)
//	registry.Register(filesystemProvider)
//	services := registry.Discover("copy a directory", 5)
//	result, err := registry.Execute(ctx, "filesystem.dir.copy", params, appCtx)
package service
