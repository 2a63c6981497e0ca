package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/donation-ledger/internal/models"
	"github.com/sheikh-saqib/donation-ledger/internal/models/events"
)

// A read-only consumer of the audit notification stream. It tallies
// activity per action kind and per actor and prints a rolling report,
// optionally enriching each notification with the full record (and its
// amount) fetched from the ledger API. It never writes to the ledger.

type report struct {
	total    uint64
	byAction map[models.Action]uint64
	byActor  map[models.Principal]uint64
	amounts  map[models.Action]decimal.Decimal
}

func newReport() *report {
	return &report{
		byAction: make(map[models.Action]uint64),
		byActor:  make(map[models.Principal]uint64),
		amounts:  make(map[models.Action]decimal.Decimal),
	}
}

func (rep *report) observe(n events.AuditNotification, amount decimal.Decimal) {
	rep.total++
	rep.byAction[n.Action]++
	rep.byActor[n.Actor]++
	rep.amounts[n.Action] = rep.amounts[n.Action].Add(amount)
}

func (rep *report) print() {
	fmt.Printf("\n=== audit stream report (%d records) ===\n", rep.total)
	for _, action := range models.Actions() {
		if count := rep.byAction[action]; count > 0 {
			fmt.Printf("  %-24s %6d  total amount %s\n", action, count, rep.amounts[action])
		}
	}
	fmt.Println("  top actors:")
	for _, actor := range rep.topActors(5) {
		fmt.Printf("    %-20s %6d\n", shortPrincipal(actor), rep.byActor[actor])
	}
}

func (rep *report) topActors(n int) []models.Principal {
	actors := make([]models.Principal, 0, len(rep.byActor))
	for actor := range rep.byActor {
		actors = append(actors, actor)
	}
	sort.Slice(actors, func(i, j int) bool {
		if rep.byActor[actors[i]] != rep.byActor[actors[j]] {
			return rep.byActor[actors[i]] > rep.byActor[actors[j]]
		}
		return actors[i] < actors[j]
	})
	if len(actors) > n {
		actors = actors[:n]
	}
	return actors
}

// shortPrincipal shortens a long address-like principal for display.
func shortPrincipal(p models.Principal) string {
	s := p.String()
	if len(s) <= 13 {
		return s
	}
	return s[:6] + "..." + s[len(s)-4:]
}

// fetchAmount pulls the full audit record from the ledger API so the
// report can include amounts, which the notification envelope omits.
func fetchAmount(client *http.Client, apiURL string, id uint64) decimal.Decimal {
	resp, err := client.Get(fmt.Sprintf("%s/audit/%d", strings.TrimRight(apiURL, "/"), id))
	if err != nil {
		log.Printf("fetch record %d: %v", id, err)
		return decimal.Zero
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("fetch record %d: status %s", id, resp.Status)
		return decimal.Zero
	}
	var record models.AuditRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		log.Printf("decode record %d: %v", id, err)
		return decimal.Zero
	}
	return record.Amount
}

func main() {
	_ = godotenv.Load()

	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		log.Fatal("KAFKA_BROKERS must be set")
	}
	topic := os.Getenv("KAFKA_TOPIC")
	if topic == "" {
		topic = "audit_notifications"
	}
	apiURL := os.Getenv("LEDGER_API_URL") // empty disables amount enrichment

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: strings.Split(brokers, ","),
		Topic:   topic,
		GroupID: "donation-ledger-analytics",
	})
	defer reader.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	rep := newReport()

	log.Printf("consuming %s from %s", topic, brokers)
	for {
		message, err := reader.ReadMessage(context.Background())
		if err != nil {
			log.Fatal(err)
		}

		var notification events.AuditNotification
		if err := json.Unmarshal(message.Value, &notification); err != nil {
			log.Printf("skip malformed notification: %v", err)
			continue
		}

		amount := decimal.Zero
		if apiURL != "" {
			amount = fetchAmount(client, apiURL, notification.RecordID)
		}
		rep.observe(notification, amount)
		rep.print()
	}
}
