package main

import (
	"context"
	"log"

	"github.com/libreria/bookstore-api/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("bookstore api exited: %v", err)
	}
}
