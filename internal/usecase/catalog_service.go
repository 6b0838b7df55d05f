package usecase

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"rendezvous/internal/domain"
)

const (
	AllMenuTypes  = "all"
	AllCategories = "All"
	OtherCategory = "Other"
)

// Menu is the flattened list of orderable items.
type Menu struct {
	Items []domain.MenuItem `json:"items"`
}

// NewMenu keeps available products only and stamps each with its category's
// name and menu type.
func NewMenu(cats []domain.Category) Menu {
	items := []domain.MenuItem{}
	for _, c := range cats {
		for _, p := range c.Products {
			if !p.Available {
				continue
			}
			p.Category = c.Name
			p.MenuType = c.MenuType
			items = append(items, p)
		}
	}
	return Menu{Items: items}
}

func (m Menu) Filter(menuType, category string) []domain.MenuItem {
	out := []domain.MenuItem{}
	for _, it := range m.Items {
		if !matchType(it, menuType) {
			continue
		}
		if category != "" && category != AllCategories && it.Category != category {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Tabs lists "All" then every category present for menuType, in first-seen
// order.
func (m Menu) Tabs(menuType string) []string {
	tabs := []string{AllCategories}
	seen := map[string]bool{}
	for _, it := range m.Items {
		if !matchType(it, menuType) {
			continue
		}
		c := it.Category
		if c == "" {
			c = OtherCategory
		}
		if !seen[c] {
			seen[c] = true
			tabs = append(tabs, c)
		}
	}
	return tabs
}

func (m Menu) Find(itemID string) (domain.MenuItem, bool) {
	for _, it := range m.Items {
		if it.ID == itemID {
			return it, true
		}
	}
	return domain.MenuItem{}, false
}

func matchType(it domain.MenuItem, menuType string) bool {
	return menuType == "" || menuType == AllMenuTypes || string(it.MenuType) == menuType
}

type CatalogService struct {
	Client CatalogClient
	Log    *slog.Logger

	mu   sync.RWMutex
	menu Menu
}

// Load fetches the menu. On failure the menu is left empty and the error is
// returned for the caller to show; it is never fatal.
func (s *CatalogService) Load(ctx context.Context) (Menu, error) {
	cats, err := s.Client.Categories(ctx)
	if err != nil {
		s.logger().Error("failed to load menu", "error", err)
		s.mu.Lock()
		s.menu = Menu{Items: []domain.MenuItem{}}
		s.mu.Unlock()
		return Menu{Items: []domain.MenuItem{}}, &ErrUnavailable{Op: "load menu", Err: err}
	}
	m := NewMenu(cats)
	s.mu.Lock()
	s.menu = m
	s.mu.Unlock()
	return m, nil
}

func (s *CatalogService) Menu() Menu {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.menu
}

// TableLabel resolves a human label for tableID. Lookup failures are logged
// and yield "".
func (s *CatalogService) TableLabel(ctx context.Context, tableID string) string {
	tableID = strings.TrimSpace(tableID)
	if tableID == "" {
		return ""
	}
	tables, err := s.Client.Tables(ctx)
	if err != nil {
		s.logger().Warn("failed to fetch tables", "error", err, "table_id", tableID)
		return ""
	}
	for _, t := range tables {
		if t.TableID == tableID {
			return t.Label
		}
	}
	return ""
}

func (s *CatalogService) logger() *slog.Logger {
	if s.Log == nil {
		return slog.Default()
	}
	return s.Log
}
