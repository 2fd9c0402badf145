// Command devtoken prints a bearer token for local testing.
//
//	JWT_SECRET=dev go run ./cmd/devtoken -role courier -sub 7b0c5e0e-...
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"fooddelivery/internal/adapters/out/jwtauth"
	"fooddelivery/internal/core/domain/model/actor"
	"fooddelivery/internal/core/domain/model/kernel"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

func main() {
	role := flag.String("role", "customer", "customer, restaurant, courier or admin")
	sub := flag.String("sub", "", "actor id; a random one is generated when empty")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime, 0 for no expiry")
	flag.Parse()

	_ = godotenv.Load(".env")

	verifier, err := jwtauth.NewVerifier(os.Getenv("JWT_SECRET"))
	if err != nil {
		log.Fatal(err)
	}

	r, err := actor.ParseRole(*role)
	if err != nil {
		log.Fatal(err)
	}

	id := kernel.NewUUID()
	if *sub != "" {
		if id, err = kernel.UUIDFromString(*sub); err != nil {
			log.Fatal(err)
		}
	}

	a, err := actor.New(id, r)
	if err != nil {
		log.Fatal(err)
	}

	token, err := verifier.Sign(a, *ttl)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Fprintf(os.Stderr, "sub=%s role=%s\n", a.ID(), a.Role())
	fmt.Println(token)
}
