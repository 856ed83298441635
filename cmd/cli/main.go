// ChatSift - Chat Archive Ingestion Tool
//
// ChatSift parses exported chat transcripts and their zip archives into
// structured events, with bounded media caching for the extracted payloads.
package main

import (
	"os"

	"github.com/ccollicutt/chatsift/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
