// Command consistency_check hammers the configured backend with concurrent
// inventory mutations, then reloads it into a fresh service and verifies that
// memory and storage still agree.
package main

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ecolife/inventory/internal/app"
	"github.com/ecolife/inventory/internal/config"
	"github.com/ecolife/inventory/internal/core/domain"
	"github.com/ecolife/inventory/internal/core/service"
	"github.com/ecolife/inventory/internal/logging"
)

const (
	idPrefix      = "CHECK-"
	distinctIDs   = 20
	totalRequests = 200
	workers       = 32
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if cfg.Backend == config.BackendMemory {
		fmt.Fprintln(os.Stderr, "the memory backend does not survive a reopen; pick sqlite, mysql or redis")
		os.Exit(2)
	}
	logger, err := logging.Setup(os.Stderr, "error", cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	inventory, closeInventory, err := app.OpenInventory(ctx, cfg, logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open inventory")
	}

	// Clear previous run
	for i := 0; i < distinctIDs; i++ {
		_ = inventory.Remove(ctx, fmt.Sprintf("%s%02d", idPrefix, i))
	}

	var added, duplicates, removed, updated atomic.Int32
	var g errgroup.Group
	g.SetLimit(workers)
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		n := i
		g.Go(func() error {
			id := fmt.Sprintf("%s%02d", idPrefix, n%distinctIDs)

			switch n % 4 {
			case 0, 1:
				err := inventory.Add(ctx, domain.NewProduct(id, "Producto de prueba "+id, n, float64(n)/10))
				if err == nil {
					added.Add(1)
				} else if errors.Is(err, service.ErrDuplicateID) {
					duplicates.Add(1)
				}
			case 2:
				quantity := n
				if _, err := inventory.Update(ctx, id, service.UpdateRequest{Quantity: &quantity}); err == nil {
					updated.Add(1)
				}
			case 3:
				if err := inventory.Remove(ctx, id); err == nil {
					removed.Add(1)
				} else if service.IsFatal(err) {
					return err
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("storage became unavailable during the run")
	}
	elapsed := time.Since(start)

	inMemory, _ := inventory.ListAll()
	closeInventory()

	reloaded, closeReloaded, err := app.OpenInventory(ctx, cfg, logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to reopen inventory")
	}
	defer closeReloaded()
	fromStorage, _ := reloaded.ListAll()

	fmt.Println("========== CONSISTENCY CHECK RESULTS ==========")
	fmt.Printf("Backend:          %s\n", cfg.Backend)
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Added:            %d\n", added.Load())
	fmt.Printf("Duplicates:       %d\n", duplicates.Load())
	fmt.Printf("Updated:          %d\n", updated.Load())
	fmt.Printf("Removed:          %d\n", removed.Load())
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("===============================================")

	want := byID(inMemory)
	got := byID(fromStorage)
	if reflect.DeepEqual(want, got) {
		fmt.Printf("PASS: %d products identical in memory and storage\n", len(want))
	} else {
		fmt.Printf("FAIL: memory holds %d products, storage reloaded %d\n", len(want), len(got))
		os.Exit(1)
	}

	live := int(added.Load()) - int(removed.Load())
	if live == countPrefixed(want) {
		fmt.Println("PASS: adds minus removes match surviving products")
	} else {
		fmt.Printf("FAIL: expected %d surviving products, got %d\n", live, countPrefixed(want))
		os.Exit(1)
	}
}

func byID(products []domain.Product) map[string]domain.Product {
	out := make(map[string]domain.Product, len(products))
	for _, p := range products {
		out[p.ID()] = p
	}
	return out
}

func countPrefixed(products map[string]domain.Product) int {
	n := 0
	for id := range products {
		if strings.HasPrefix(id, idPrefix) {
			n++
		}
	}
	return n
}
