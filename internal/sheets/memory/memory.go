package memory

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"obed/internal/core"
)

// Store is a fixture-backed loader for local development and tests. It
// serves the same workbook for any document id.
type Store struct {
	mu       sync.Mutex
	workbook core.Workbook
	modified time.Time
}

func New(wb core.Workbook) *Store {
	return &Store{workbook: wb, modified: time.Now().UTC()}
}

// NewFromFiles seeds the store from optional fixture files under base:
// seed_clients.txt (one client per line) and seed_orders.txt
// (semicolon-separated: client;restaurant;desc;price;disc_price;quant;total).
// Falls back to a small built-in sample.
func NewFromFiles(base string) *Store {
	clients := readLines(filepath.Join(base, "seed_clients.txt"))
	orderLines := readLines(filepath.Join(base, "seed_orders.txt"))

	var orders []core.Order
	for _, line := range orderLines {
		parts := strings.Split(line, ";")
		get := func(i int) string {
			if i < len(parts) {
				return strings.TrimSpace(parts[i])
			}
			return ""
		}
		o := core.Order{
			Client:      get(0),
			Restaurant:  get(1),
			Description: get(2),
			Price:       core.ParseAmount(get(3)),
			DiscPrice:   core.ParseAmount(get(4)),
			Quantity:    core.ParseQuantity(get(5)),
			Total:       core.ParseAmount(get(6)),
		}
		if o.Client == "" {
			continue
		}
		orders = append(orders, o)
	}

	if len(orders) == 0 {
		orders = []core.Order{
			{Client: "Ivan", Restaurant: "Grill", Description: "Kebapche", Quantity: core.Quantity{N: 2, Valid: true}, Total: core.Amount{Cents: 500, Valid: true}},
			{Client: "Maria", Restaurant: "Pizzeria", Description: "Margherita", Quantity: core.Quantity{N: 1, Valid: true}, Total: core.Amount{Cents: 800, Valid: true}},
		}
	}
	if len(clients) == 0 {
		clients = []string{"Ivan", "Maria", "Petar"}
	}

	scheduleRows := make([][]string, 0, len(clients))
	for _, c := range clients {
		scheduleRows = append(scheduleRows, []string{c, "12:00"})
	}

	return New(core.Workbook{
		Schedule: core.Grid{Headers: []string{"Client", "Hour"}, Rows: scheduleRows},
		Orders:   orders,
	})
}

// LoadWorkbook returns a copy of the fixture workbook.
func (s *Store) LoadWorkbook(_ context.Context, _ string) (core.Workbook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wb := s.workbook
	wb.Orders = append([]core.Order(nil), s.workbook.Orders...)
	return wb, nil
}

// LastModified reports when the store was seeded.
func (s *Store) LastModified(_ context.Context, _ string) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modified, nil
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}
