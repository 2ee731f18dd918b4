//go:build ignore

// Публикует событие выбора района и ждёт пересчитанный дашборд от воркера.
//
//	go run scripts/test_publish.go -region 포항
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/region-dashboard/internal/domain"
)

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	region := flag.String("region", "포항", "Selected region label")
	wait := flag.Duration("timeout", 30*time.Second, "How long to wait for the dashboard")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// запоминаем хвост done-стрима, чтобы не читать старые ответы
	startID := "$"
	if last, err := client.XRevRangeN(ctx, domain.StreamDashboardDone, "+", "-", 1).Result(); err == nil && len(last) > 0 {
		startID = last[0].ID
	}

	event := domain.SelectionEvent{
		SessionID:   uuid.New(),
		Region:      *region,
		RequestedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	messageID, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: domain.StreamDashboardSelect,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("✅ Event published\n")
	fmt.Printf("   Stream: %s\n", domain.StreamDashboardSelect)
	fmt.Printf("   Message ID: %s\n", messageID)
	fmt.Printf("   Session ID: %s\n", event.SessionID)
	fmt.Printf("   Region: %s\n", event.Region)

	fmt.Printf("\n⏳ Waiting for response in %s...\n", domain.StreamDashboardDone)

	deadline := time.Now().Add(*wait)
	for time.Now().Before(deadline) {
		results, err := client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{domain.StreamDashboardDone, startID},
			Count:   10,
			Block:   time.Second,
		}).Result()
		if err != nil && err != redis.Nil {
			log.Printf("XREAD failed: %v", err)
			time.Sleep(time.Second)
			continue
		}

		for _, stream := range results {
			for _, msg := range stream.Messages {
				startID = msg.ID

				dataStr, ok := msg.Values["data"].(string)
				if !ok {
					continue
				}

				var response domain.DashboardEvent
				if err := json.Unmarshal([]byte(dataStr), &response); err != nil {
					continue
				}
				if response.SessionID != event.SessionID {
					continue
				}

				fmt.Printf("\n✅ Response received\n")
				if response.Selected != nil {
					fmt.Printf("   Selected: %s\n", *response.Selected)
				}
				if response.Error != "" {
					fmt.Printf("   Error: %s\n", response.Error)
				}
				pretty, _ := json.MarshalIndent(response.Dashboard, "", "  ")
				fmt.Printf("%s\n", pretty)
				return
			}
		}
	}

	fmt.Println("❌ Timeout waiting for response")
}
