// Command rdbscan decodes Redis RDB snapshots: inspect them in place,
// migrate them into a local bbolt index, serve that index over HTTP, or
// replicate them onto a live Redis-protocol-compatible server.
package main

func main() {
	Execute()
}
