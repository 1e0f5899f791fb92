package main

import "github.com/fekuna/omnipos-order-service/internal/cmd"

func main() {
	cmd.Execute()
}
