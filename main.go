package main

import (
	"github.com/akbar-dignity/custom-whatsapp-chatb/cmd"
)

func main() {
	cmd.Execute()
}
