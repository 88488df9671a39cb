package view

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/GTDGit/om_console/internal/models"
)

// CategoryGroup is one optgroup of the item picker.
type CategoryGroup struct {
	Category string                 `json:"category"`
	Items    []models.InventoryItem `json:"items"`
}

// GroupByCategory groups items for the picker. Groups are ordered by
// category name with Uncategorized last; items keep their input order.
func GroupByCategory(items []models.InventoryItem) []CategoryGroup {
	index := make(map[string]int)
	var groups []CategoryGroup
	for _, item := range items {
		cat := strings.TrimSpace(item.Category)
		if cat == "" {
			cat = models.UncategorizedLabel
		}
		i, ok := index[cat]
		if !ok {
			i = len(groups)
			index[cat] = i
			groups = append(groups, CategoryGroup{Category: cat})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	sort.SliceStable(groups, func(a, b int) bool {
		ga, gb := groups[a].Category, groups[b].Category
		if (ga == models.UncategorizedLabel) != (gb == models.UncategorizedLabel) {
			return gb == models.UncategorizedLabel
		}
		return strings.ToLower(ga) < strings.ToLower(gb)
	})
	return groups
}

// Catalog is the inventory snapshot a page fetched alongside its own
// records, used by its item picker.
type Catalog struct {
	mu    sync.RWMutex
	items []models.InventoryItem
}

func (c *Catalog) set(items []models.InventoryItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items
}

func (c *Catalog) clear() { c.set(nil) }

type itemLister interface {
	ListItems(ctx context.Context, ordering string) ([]models.InventoryItem, error)
}

// fetch loads the catalog next to a page's records. The items are applied
// only if the page keeps the load.
func (c *Catalog) fetch(api itemLister) func(ctx context.Context) (func(), error) {
	return func(ctx context.Context) (func(), error) {
		items, err := api.ListItems(ctx, "")
		if err != nil {
			return nil, err
		}
		return func() { c.set(items) }, nil
	}
}

// Find returns the item with the given id.
func (c *Catalog) Find(id int) (models.InventoryItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if it.ID == id {
			return it, true
		}
	}
	return models.InventoryItem{}, false
}

// Groups returns the picker groups.
func (c *Catalog) Groups() []CategoryGroup {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return GroupByCategory(c.items)
}
