// Command httpmsg inspects HTTP messages: it parses raw HTTP/1.x messages
// and CGI gateway environments into server requests and dumps them.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
