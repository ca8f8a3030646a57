package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/rl1809/storefront/internal/adapter/handler"
)

const (
	productID       = "1"
	totalSessions   = 20
	addsPerSession  = 25
	retriesPerAdd   = 2
	decrementsAfter = 5
)

func main() {
	addr := os.Getenv("GRPC_ADDR")
	if addr == "" {
		addr = "localhost:50051"
	}

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("failed to dial %s: %v", addr, err)
	}
	defer conn.Close()
	client := handler.NewCartClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// Counters
	var addedCount atomic.Int32
	var duplicateCount atomic.Int32
	var failCount atomic.Int32

	sessions := make([]string, totalSessions)
	for i := range sessions {
		resp, err := client.CreateSession(ctx, &handler.CreateSessionRequest{})
		if err != nil {
			log.Fatalf("failed to create session: %v", err)
		}
		sessions[i] = resp.SessionID
	}

	// Every add is sent retriesPerAdd+1 times with the same request id, as a
	// client retrying on a flaky network would.
	var wg sync.WaitGroup
	start := time.Now()

	for _, sessionID := range sessions {
		for i := 0; i < addsPerSession; i++ {
			requestID := uuid.NewString()
			for attempt := 0; attempt <= retriesPerAdd; attempt++ {
				wg.Add(1)
				go func() {
					defer wg.Done()

					_, err := client.AddToCart(ctx, &handler.AddToCartGRPCRequest{
						SessionID: sessionID,
						ProductID: productID,
						RequestID: requestID,
					})
					switch status.Code(err) {
					case codes.OK:
						addedCount.Add(1)
					case codes.AlreadyExists:
						duplicateCount.Add(1)
					default:
						failCount.Add(1)
						log.Printf("add failed: %v", err)
					}
				}()
			}
		}
	}
	wg.Wait()

	for _, sessionID := range sessions {
		for i := 0; i < decrementsAfter; i++ {
			if _, err := client.DecrementQuantity(ctx, &handler.ItemRequest{SessionID: sessionID, ProductID: productID}); err != nil {
				log.Fatalf("decrement failed: %v", err)
			}
		}
	}
	elapsed := time.Since(start)

	// Results
	added := addedCount.Load()
	duplicates := duplicateCount.Load()
	failed := failCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Sessions:         %d\n", totalSessions)
	fmt.Printf("Adds per session: %d (x%d sends)\n", addsPerSession, retriesPerAdd+1)
	fmt.Printf("Added:            %d\n", added)
	fmt.Printf("Duplicates:       %d\n", duplicates)
	fmt.Printf("Failed:           %d\n", failed)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	// Assertions
	wantAdded := int32(totalSessions * addsPerSession)
	if added == wantAdded && failed == 0 {
		fmt.Printf("PASS: exactly %d adds applied, %d retries rejected\n", added, duplicates)
	} else {
		fmt.Printf("FAIL: expected %d adds and no failures, got %d/%d\n", wantAdded, added, failed)
	}

	wantQuantity := addsPerSession - decrementsAfter
	bad := 0
	for _, sessionID := range sessions {
		cart, err := client.GetCart(ctx, &handler.GetCartRequest{SessionID: sessionID})
		if err != nil {
			log.Fatalf("get cart failed: %v", err)
		}
		if len(cart.Items) != 1 || cart.Items[0].Quantity != wantQuantity {
			bad++
			fmt.Printf("FAIL: session %s has %+v\n", sessionID, cart.Items)
		}
	}
	if bad == 0 {
		fmt.Printf("PASS: every cart holds quantity %d\n", wantQuantity)
	}
}
