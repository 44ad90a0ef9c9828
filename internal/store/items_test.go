package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erazemk/shramba/internal/model"
	"github.com/erazemk/shramba/internal/sorter"
)

func TestAddAndGetItem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := mustAccount(t, s, "alice")
	folderID := mustFolder(t, s, "Pantry", a.ID)

	id, err := s.AddItem(ctx, model.Item{
		Name:        "Rice",
		Quantity:    10,
		Description: "Basmati",
		Barcode:     "3838989",
	}, a.ID, folderID)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	item, err := s.GetItem(ctx, id)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if item.Name != "Rice" || item.Quantity != 10 || item.Description != "Basmati" || item.Barcode != "3838989" {
		t.Errorf("unexpected item: %+v", item)
	}
	if item.AccountID != a.ID || item.FolderID != folderID {
		t.Errorf("expected owner %d folder %d, got %d %d", a.ID, folderID, item.AccountID, item.FolderID)
	}
	if item.ImagePath != "" {
		t.Errorf("expected no image, got %q", item.ImagePath)
	}
	if !item.CreatedAt.Equal(testNow) {
		t.Errorf("expected created_at from store clock, got %v", item.CreatedAt)
	}
}

func TestAddItemKeepsGivenCreatedAt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := mustAccount(t, s, "alice")
	folderID := mustFolder(t, s, "Pantry", a.ID)

	when := time.Date(2023, 12, 24, 18, 0, 0, 0, time.UTC)
	id, _ := s.AddItem(ctx, model.Item{Name: "Ham", CreatedAt: when}, a.ID, folderID)

	item, _ := s.GetItem(ctx, id)
	if !item.CreatedAt.Equal(when) {
		t.Errorf("expected %v, got %v", when, item.CreatedAt)
	}
}

func TestAddItemFolderNotOwned(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustAccount(t, s, "alice")
	bob := mustAccount(t, s, "bob")
	bobsFolder := mustFolder(t, s, "Garage", bob.ID)

	if _, err := s.AddItem(ctx, model.Item{Name: "Drill"}, alice.ID, bobsFolder); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if n, _ := s.ItemCountInFolder(ctx, bobsFolder); n != 0 {
		t.Errorf("expected no item written, got %d", n)
	}
}

func TestGetItemNotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetItem(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListItems(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustAccount(t, s, "alice")
	bob := mustAccount(t, s, "bob")
	pantry := mustFolder(t, s, "Pantry", alice.ID)
	tools := mustFolder(t, s, "Tools", alice.ID)
	garage := mustFolder(t, s, "Garage", bob.ID)

	s.AddItem(ctx, model.Item{Name: "Rice"}, alice.ID, pantry)
	s.AddItem(ctx, model.Item{Name: "Hammer"}, alice.ID, tools)
	s.AddItem(ctx, model.Item{Name: "Beans"}, alice.ID, pantry)
	s.AddItem(ctx, model.Item{Name: "Drill"}, bob.ID, garage)

	all, err := s.ListItems(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 items for alice, got %d", len(all))
	}

	inPantry, err := s.ListFolderItems(ctx, alice.ID, pantry)
	if err != nil {
		t.Fatalf("ListFolderItems: %v", err)
	}
	if len(inPantry) != 2 {
		t.Errorf("expected 2 pantry items, got %d", len(inPantry))
	}

	// Another account's folder yields nothing rather than its contents.
	if leaked, _ := s.ListFolderItems(ctx, alice.ID, garage); len(leaked) != 0 {
		t.Errorf("expected no items from bob's folder, got %d", len(leaked))
	}
}

func TestLowStockItems(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := mustAccount(t, s, "alice")
	pantry := mustFolder(t, s, "Pantry", a.ID)

	s.AddItem(ctx, model.Item{Name: "Rice", Quantity: 10}, a.ID, pantry)
	s.AddItem(ctx, model.Item{Name: "Salt", Quantity: 0}, a.ID, pantry)
	s.AddItem(ctx, model.Item{Name: "Beans", Quantity: 2}, a.ID, pantry)

	low, err := s.LowStockItems(ctx, a.ID, 2)
	if err != nil {
		t.Fatalf("LowStockItems: %v", err)
	}
	if len(low) != 2 || low[0].Name != "Salt" || low[1].Name != "Beans" {
		t.Errorf("expected [Salt Beans], got %+v", low)
	}
}

func TestUpdateItem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := mustAccount(t, s, "alice")
	pantry := mustFolder(t, s, "Pantry", a.ID)
	freezer := mustFolder(t, s, "Freezer", a.ID)

	id, _ := s.AddItem(ctx, model.Item{Name: "Peas", Quantity: 3, Barcode: "123"}, a.ID, pantry)
	item, _ := s.GetItem(ctx, id)
	created := item.CreatedAt

	item.Name = "Frozen peas"
	item.Quantity = 5
	item.Barcode = ""
	item.CreatedAt = time.Time{}

	n, err := s.UpdateItem(ctx, *item, a.ID, freezer)
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 row updated, got %d", n)
	}

	got, _ := s.GetItem(ctx, id)
	if got.Name != "Frozen peas" || got.Quantity != 5 || got.Barcode != "" || got.FolderID != freezer {
		t.Errorf("unexpected item after update: %+v", got)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("expected created_at unchanged %v, got %v", created, got.CreatedAt)
	}
}

func TestUpdateItemTargetFolderNotOwned(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustAccount(t, s, "alice")
	bob := mustAccount(t, s, "bob")
	pantry := mustFolder(t, s, "Pantry", alice.ID)
	garage := mustFolder(t, s, "Garage", bob.ID)

	id, _ := s.AddItem(ctx, model.Item{Name: "Rice", Quantity: 1}, alice.ID, pantry)
	item, _ := s.GetItem(ctx, id)
	item.Quantity = 99

	if n, err := s.UpdateItem(ctx, *item, alice.ID, garage); err != nil || n != 0 {
		t.Errorf("expected 0 rows, got %d (%v)", n, err)
	}

	got, _ := s.GetItem(ctx, id)
	if got.Quantity != 1 || got.FolderID != pantry {
		t.Errorf("expected item unchanged, got %+v", got)
	}
}

func TestOwnershipIsolation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustAccount(t, s, "alice")
	bob := mustAccount(t, s, "bob")
	pantry := mustFolder(t, s, "Pantry", alice.ID)
	garage := mustFolder(t, s, "Garage", bob.ID)

	id, _ := s.AddItem(ctx, model.Item{Name: "Rice", Quantity: 7}, alice.ID, pantry)
	before, _ := s.GetItem(ctx, id)

	hijack := *before
	hijack.Name = "Mine now"
	if n, err := s.UpdateItem(ctx, hijack, bob.ID, garage); err != nil || n != 0 {
		t.Errorf("update as bob: expected 0 rows, got %d (%v)", n, err)
	}
	if n, err := s.DeleteItem(ctx, id, bob.ID); err != nil || n != 0 {
		t.Errorf("delete as bob: expected 0 rows, got %d (%v)", n, err)
	}

	// Missing and foreign look identical.
	missing := hijack
	missing.ID = 9999
	if n, _ := s.UpdateItem(ctx, missing, bob.ID, garage); n != 0 {
		t.Errorf("update of missing item: expected 0 rows, got %d", n)
	}
	if n, _ := s.DeleteItem(ctx, 9999, bob.ID); n != 0 {
		t.Errorf("delete of missing item: expected 0 rows, got %d", n)
	}

	after, _ := s.GetItem(ctx, id)
	if *after != *before {
		t.Errorf("expected item unchanged:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestDeleteItem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := mustAccount(t, s, "alice")
	pantry := mustFolder(t, s, "Pantry", a.ID)
	id, _ := s.AddItem(ctx, model.Item{Name: "Rice"}, a.ID, pantry)

	n, err := s.DeleteItem(ctx, id, a.ID)
	if err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 row deleted, got %d", n)
	}
	if _, err := s.GetItem(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Now the folder can go.
	if err := s.DeleteFolder(ctx, pantry, a.ID); err != nil {
		t.Errorf("expected empty folder to delete, got %v", err)
	}
}

func TestScenarioNewAccountHasNoFolders(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice, err := s.CreateAccount(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	folders, err := s.ListFolders(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListFolders: %v", err)
	}
	if len(folders) != 0 {
		t.Errorf("expected no folders, got %d", len(folders))
	}

	if _, err := s.AddItem(ctx, model.Item{Name: "Rice"}, alice.ID, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected AddItem without a folder to fail with ErrNotFound, got %v", err)
	}
}

func TestScenarioCaseVariantNamesKeepInsertionOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustAccount(t, s, "alice")
	pantry := mustFolder(t, s, "Pantry", alice.ID)

	s.AddItem(ctx, model.Item{Name: "Rice", Quantity: 10}, alice.ID, pantry)
	s.AddItem(ctx, model.Item{Name: "rice", Quantity: 3}, alice.ID, pantry)

	items, _ := s.ListFolderItems(ctx, alice.ID, pantry)
	for _, dir := range []sorter.Direction{sorter.Ascending, sorter.Descending} {
		sorted := sorter.Items(items, sorter.ByName, dir)
		if len(sorted) != 2 || sorted[0].Name != "Rice" || sorted[1].Name != "rice" {
			t.Errorf("%v: expected [Rice rice], got %+v", dir, sorted)
		}
	}
}

func TestScenarioZeroQuantityAccepted(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := mustAccount(t, s, "alice")
	pantry := mustFolder(t, s, "Pantry", alice.ID)

	id, err := s.AddItem(ctx, model.Item{Name: "Saffron", Quantity: 0}, alice.ID, pantry)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	item, err := s.GetItem(ctx, id)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if item.Quantity != 0 {
		t.Errorf("expected quantity 0, got %d", item.Quantity)
	}

	// Negative quantities are stored as given.
	item.Quantity = -2
	s.UpdateItem(ctx, *item, alice.ID, pantry)
	if got, _ := s.GetItem(ctx, id); got.Quantity != -2 {
		t.Errorf("expected quantity -2, got %d", got.Quantity)
	}
}
