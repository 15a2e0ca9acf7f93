// Package main hosts the metaqueue CLI.
//
// The run command loads configuration from the environment, wires the queue
// manager with the image extractor, a daily quota and a preview backend, then
// pushes the given files through the queue in chunks of the configured
// capacity and prints a result table.
package main
