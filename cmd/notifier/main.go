package main

import (
	"fmt"
	"os"

	"github.com/metinatakli/cinema-booking/internal/notifier"
)

func main() {
	err := notifier.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
