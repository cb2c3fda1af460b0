// Package server is the composition root: it turns a config.Config into
// a running tool API with the filesystem and http providers registered.
package server
