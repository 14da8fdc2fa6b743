package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/tunaaoguzhann/selfie-relay/core"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.DebugLevel)

	now := time.Now()
	clock := func() time.Time { return now }

	relay, err := core.NewRelay(core.Config{
		Store:     core.NewMemoryStore(30*time.Minute, clock),
		Allowlist: core.NewAllowlist([]string{"room1"}),
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("Failed to create relay: %v", err)
	}

	ctx := context.Background()

	if _, err := relay.Set(ctx, "room1", "123456"); err != nil {
		log.Fatalf("Failed to set code: %v", err)
	}

	got, err := relay.Get(ctx, "room1")
	if err != nil {
		log.Fatalf("Failed to get code: %v", err)
	}
	fmt.Printf("room1 right away:   code=%q expired=%v\n", got.Code, got.Expired)

	now = now.Add(31 * time.Minute)
	got, err = relay.Get(ctx, "room1")
	if err != nil {
		log.Fatalf("Failed to get code: %v", err)
	}
	fmt.Printf("room1 after 31 min: code=%q expired=%v\n", got.Code, got.Expired)

	if _, err := relay.Set(ctx, "room2", "000000"); err != nil {
		fmt.Printf("\nAs expected, room2 is not on the allowlist: %v\n", err)
	}
}
