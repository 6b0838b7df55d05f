package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"rendezvous/internal/domain"
)

func sampleCategories() []domain.Category {
	latte := menuItem("latte", "Latte", 120)
	tea := menuItem("tea", "Tea", 90)
	tea.Available = false
	muffin := menuItem("muffin", "Muffin", 80)
	return []domain.Category{
		{ID: "c1", Name: "Coffee", MenuType: domain.MenuDrink, Products: []domain.MenuItem{latte, tea}},
		{ID: "c2", Name: "Bakery", MenuType: domain.MenuFood, Products: []domain.MenuItem{muffin}},
	}
}

func TestMenu_FilterAndTabs(t *testing.T) {
	svc := &CatalogService{Client: &fakeCatalog{cats: sampleCategories()}}
	m, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(m.Items) != 2 {
		t.Fatalf("items = %d, want 2 available", len(m.Items))
	}
	drinks := m.Filter(string(domain.MenuDrink), AllCategories)
	if len(drinks) != 1 || drinks[0].ID != "latte" || drinks[0].Category != "Coffee" {
		t.Fatalf("drinks = %+v", drinks)
	}
	if got := m.Filter(AllMenuTypes, "Bakery"); len(got) != 1 || got[0].ID != "muffin" {
		t.Fatalf("bakery = %+v", got)
	}
	if got := m.Tabs(AllMenuTypes); !reflect.DeepEqual(got, []string{"All", "Coffee", "Bakery"}) {
		t.Fatalf("tabs = %v", got)
	}
	if got := m.Tabs(string(domain.MenuFood)); !reflect.DeepEqual(got, []string{"All", "Bakery"}) {
		t.Fatalf("food tabs = %v", got)
	}
	if _, ok := svc.Menu().Find("muffin"); !ok {
		t.Fatalf("loaded menu not kept")
	}
}

func TestCatalogService_LoadFailure(t *testing.T) {
	svc := &CatalogService{Client: &fakeCatalog{err: errDown}}
	m, err := svc.Load(context.Background())
	var un *ErrUnavailable
	if !errors.As(err, &un) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	if m.Items == nil || len(m.Items) != 0 {
		t.Fatalf("menu = %+v, want empty", m)
	}
}

func TestCatalogService_TableLabelFailureIsEmpty(t *testing.T) {
	svc := &CatalogService{Client: &fakeCatalog{tablesErr: errDown}}
	if got := svc.TableLabel(context.Background(), "table-5"); got != "" {
		t.Fatalf("label = %q", got)
	}
}
