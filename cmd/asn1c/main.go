package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/thebagchi/asn1codec"
)

func main() {
	var (
		filename = flag.String("file", "", "Abstract Syntax Notation 1 file")
	)
	flag.Parse()
	if len(*filename) == 0 {
		fmt.Println("Error: ", "input asn1 file required ...")
		os.Exit(0)
	}
	if err := asn1codec.Parse(*filename); err != nil {
		fmt.Println("Error: ", err)
		os.Exit(1)
	}
}
