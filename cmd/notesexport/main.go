// notesexport stores client-encrypted note bundles and keeps the most recent
// bundle per calendar day.
//
// It serves an HTTP API that accepts export bundles, files each one under a
// timestamped name in the exports directory and prunes older files from past
// days after every upload.
//
// Usage:
//
//	# Start the server (reads notesexport.yaml when present)
//	notesexport run
//
//	# Start with a custom configuration file
//	notesexport run --config /etc/notesexport/config.yaml
//
//	# List node names in an exports directory
//	notesexport exports names --dir ./exports
//
//	# Print the latest bundle of a node
//	notesexport exports latest --name laptop
//
//	# Check a configuration file
//	notesexport config validate --config /etc/notesexport/config.yaml
package main

func main() {
	Execute()
}
