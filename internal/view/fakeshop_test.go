package view

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/GTDGit/om_console/internal/models"
	"github.com/GTDGit/om_console/pkg/shopapi"
)

// fakeShop is an in-memory stand-in for the shop REST API.
type fakeShop struct {
	mu        sync.Mutex
	items     []models.InventoryItem
	repairs   []models.RepairTicket
	sales     []models.SaleRecord
	damaged   []models.DamageReport
	dashboard models.DashboardSnapshot
	nextID    int
	log       []string
	bodies    map[string]json.RawMessage
	failParts bool
}

func newFakeShop(t *testing.T) (*fakeShop, *shopapi.Client) {
	t.Helper()
	shop := &fakeShop{nextID: 1000, bodies: map[string]json.RawMessage{}}
	srv := httptest.NewServer(shop)
	t.Cleanup(srv.Close)
	return shop, shopapi.NewClient(shopapi.Config{BaseURL: srv.URL, Timeout: 2 * time.Second})
}

func (s *fakeShop) requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.log...)
}

func (s *fakeShop) count(prefix string) int {
	n := 0
	for _, r := range s.requests() {
		if strings.HasPrefix(r, prefix) {
			n++
		}
	}
	return n
}

func (s *fakeShop) body(key string) json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bodies[key]
}

func (s *fakeShop) itemByID(id int) *models.InventoryItem {
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i]
		}
	}
	return nil
}

func splitPath(p string) (collection string, id int, hasID bool) {
	rest := strings.Trim(strings.TrimPrefix(p, "/api/"), "/")
	parts := strings.Split(rest, "/")
	if len(parts) == 2 {
		if n, err := strconv.Atoi(parts[1]); err == nil {
			return parts[0], n, true
		}
		return rest, 0, false
	}
	return parts[0], 0, false
}

func (s *fakeShop) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, _ := io.ReadAll(r.Body)
	key := r.Method + " " + r.URL.Path
	s.log = append(s.log, key)
	if len(raw) > 0 {
		s.bodies[key] = raw
	}

	collection, id, hasID := splitPath(r.URL.Path)
	reply := func(status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}

	switch {
	case collection == "dashboard":
		reply(http.StatusOK, s.dashboard)

	case collection == "items" && !hasID && r.Method == http.MethodGet:
		reply(http.StatusOK, s.items)
	case collection == "items" && !hasID && r.Method == http.MethodPost:
		var p models.ItemPayload
		_ = json.Unmarshal(raw, &p)
		s.nextID++
		item := models.InventoryItem{ID: s.nextID, Name: p.Name, Category: p.Category, Stock: p.Stock, CostPrice: p.CostPrice, Price: p.Price, CreatedAt: time.Now()}
		s.items = append(s.items, item)
		reply(http.StatusCreated, item)
	case collection == "items" && hasID && r.Method == http.MethodPut:
		var p models.ItemPayload
		_ = json.Unmarshal(raw, &p)
		item := s.itemByID(id)
		if item == nil {
			reply(http.StatusNotFound, map[string]string{"detail": "Not found."})
			return
		}
		item.Name, item.Category, item.Stock, item.CostPrice, item.Price = p.Name, p.Category, p.Stock, p.CostPrice, p.Price
		reply(http.StatusOK, item)
	case collection == "items" && hasID && r.Method == http.MethodDelete:
		for i := range s.items {
			if s.items[i].ID == id {
				s.items = append(s.items[:i], s.items[i+1:]...)
				break
			}
		}
		w.WriteHeader(http.StatusNoContent)

	case collection == "repairs/parts" && r.Method == http.MethodPost:
		if s.failParts {
			reply(http.StatusBadRequest, map[string]string{"detail": "Item out of stock"})
			return
		}
		var p models.RepairPartRequest
		_ = json.Unmarshal(raw, &p)
		for i := range s.repairs {
			if s.repairs[i].ID == p.RepairID {
				name := ""
				if item := s.itemByID(p.Item); item != nil {
					item.Stock -= p.Quantity
					name = item.Name
				}
				s.nextID++
				s.repairs[i].Parts = append(s.repairs[i].Parts, models.RepairPart{ID: s.nextID, Item: p.Item, ItemName: name, Quantity: p.Quantity})
			}
		}
		reply(http.StatusCreated, map[string]string{"status": "Part added"})
	case collection == "repairs" && !hasID && r.Method == http.MethodGet:
		reply(http.StatusOK, s.repairs)
	case collection == "repairs" && !hasID && r.Method == http.MethodPost:
		var p models.RepairPayload
		_ = json.Unmarshal(raw, &p)
		s.nextID++
		t := models.RepairTicket{ID: s.nextID, CustomerName: p.CustomerName, DeviceModel: p.DeviceModel,
			IssueDescription: p.IssueDescription, EstimatedCost: models.NewMoney(int64(p.EstimatedCost)),
			Status: p.Status, PaymentMethod: p.PaymentMethod, CreatedAt: time.Now()}
		s.repairs = append(s.repairs, t)
		reply(http.StatusCreated, t)
	case collection == "repairs" && hasID && r.Method == http.MethodPut:
		var p models.RepairPayload
		_ = json.Unmarshal(raw, &p)
		for i := range s.repairs {
			if s.repairs[i].ID == id {
				s.repairs[i].Status = p.Status
				s.repairs[i].IssueDescription = p.IssueDescription
				reply(http.StatusOK, s.repairs[i])
				return
			}
		}
		reply(http.StatusNotFound, map[string]string{"detail": "Not found."})

	case collection == "sales" && !hasID && r.Method == http.MethodGet:
		reply(http.StatusOK, s.sales)
	case collection == "sales" && !hasID && r.Method == http.MethodPost:
		var p models.SalePayload
		_ = json.Unmarshal(raw, &p)
		item := s.itemByID(p.Item)
		if item == nil || item.Stock < p.Quantity {
			reply(http.StatusBadRequest, []string{"Insufficient stock"})
			return
		}
		item.Stock -= p.Quantity
		s.nextID++
		sale := models.SaleRecord{ID: s.nextID, Item: p.Item, ItemName: item.Name, ItemCategory: item.Category,
			Quantity: p.Quantity, UnitPrice: p.UnitPrice, TotalPrice: p.UnitPrice.Times(p.Quantity),
			SaleType: p.SaleType, PaymentMethod: p.PaymentMethod, IMEINumber: p.IMEINumber,
			CustomerName: p.CustomerName, CustomerPhone: p.CustomerPhone, SaleDate: time.Now()}
		s.sales = append(s.sales, sale)
		reply(http.StatusCreated, sale)

	case collection == "damaged" && !hasID && r.Method == http.MethodGet:
		reply(http.StatusOK, s.damaged)
	case collection == "damaged" && !hasID && r.Method == http.MethodPost:
		var p models.DamagePayload
		_ = json.Unmarshal(raw, &p)
		s.nextID++
		name := ""
		if item := s.itemByID(p.Item); item != nil {
			name = item.Name
		}
		rep := models.DamageReport{ID: s.nextID, Item: p.Item, ItemName: name, Quantity: p.Quantity, Reason: p.Reason, ReportedAt: time.Now()}
		s.damaged = append(s.damaged, rep)
		reply(http.StatusCreated, rep)

	default:
		reply(http.StatusNotFound, map[string]string{"detail": "Not found."})
	}
}

type toastLog struct {
	mu   sync.Mutex
	msgs []string
}

func (t *toastLog) Show(m string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.msgs = append(t.msgs, m)
}

func (t *toastLog) last() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.msgs) == 0 {
		return ""
	}
	return t.msgs[len(t.msgs)-1]
}

func stockFixture() []models.InventoryItem {
	day := time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)
	return []models.InventoryItem{
		{ID: 1, Name: "Samsung A15", Category: "Android", Stock: 4, CostPrice: models.NewMoney(18000), Price: models.NewMoney(21000), CreatedAt: day},
		{ID: 2, Name: "Nokia 105", Category: "Keypad", Stock: 10, CostPrice: models.NewMoney(2000), Price: models.NewMoney(2600), CreatedAt: day.Add(time.Hour)},
		{ID: 3, Name: "Tempered Glass", Category: "Glass", Stock: 40, CostPrice: models.NewMoney(40), Price: models.NewMoney(500), CreatedAt: day.Add(2 * time.Hour)},
		{ID: 4, Name: "A15 Display", Category: "Display", Stock: 1, CostPrice: models.NewMoney(3000), Price: models.NewMoney(4500), CreatedAt: day.Add(3 * time.Hour)},
		{ID: 5, Name: "Loose Screws", Category: "", Stock: 100, Price: models.NewMoney(5), CreatedAt: day.Add(4 * time.Hour)},
	}
}
