package main

import "github.com/jrsteele09/go-shop-client/cmd/shop/cmd"

func main() {
	cmd.Execute()
}
