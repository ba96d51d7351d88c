// Command practicectl drives the practice API from a terminal: sign in, browse
// services and the blog, check free slots, send a contact message and upload
// images.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
