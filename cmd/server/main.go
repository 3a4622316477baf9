package main

import (
	"os"

	"restaurant_pos_backend/pkg/utils"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		utils.LogError(err, "Command failed")
		os.Exit(1)
	}
}
