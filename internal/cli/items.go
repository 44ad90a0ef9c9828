package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/erazemk/shramba/internal/model"
	"github.com/erazemk/shramba/internal/notify"
	"github.com/erazemk/shramba/internal/sorter"
	"github.com/erazemk/shramba/internal/store"
)

func (a *App) items(ctx context.Context, args []string) error {
	fs := a.newFlagSet("items", "items [-folder <folder>] [-sort name|quantity|date] [-desc]")
	folderRef := fs.String("folder", "", "only list items in this folder (id or name)")
	sortBy := fs.String("sort", "name", "sort key: name, quantity or date")
	desc := fs.Bool("desc", false, "sort in descending order")
	if _, err := parse(fs, args, 0, 0); err != nil {
		return err
	}

	key, err := sorter.ParseKey(*sortBy)
	if err != nil {
		return failf("%v", err)
	}
	dir := sorter.Ascending
	if *desc {
		dir = sorter.Descending
	}

	account, err := a.current(ctx)
	if err != nil {
		return err
	}

	var items []model.Item
	if *folderRef != "" {
		f, err := a.resolveFolder(ctx, account.ID, *folderRef)
		if err != nil {
			return err
		}
		items, err = a.Store.ListFolderItems(ctx, account.ID, f.ID)
		if err != nil {
			return err
		}
	} else {
		items, err = a.Store.ListItems(ctx, account.ID)
		if err != nil {
			return err
		}
	}

	names, err := a.folderNames(ctx, account.ID)
	if err != nil {
		return err
	}
	printItems(a.Stdout, sorter.Items(items, key, dir), names)
	return nil
}

func (a *App) lowStock(ctx context.Context, args []string) error {
	fs := a.newFlagSet("low-stock", "low-stock [-threshold <n>]")
	threshold := fs.Int("threshold", a.LowStock, "list items with quantity at or below this")
	if _, err := parse(fs, args, 0, 0); err != nil {
		return err
	}

	account, err := a.current(ctx)
	if err != nil {
		return err
	}
	items, err := a.Store.LowStockItems(ctx, account.ID, *threshold)
	if err != nil {
		return err
	}
	names, err := a.folderNames(ctx, account.ID)
	if err != nil {
		return err
	}

	printItems(a.Stdout, sorter.Items(items, sorter.ByQuantity, sorter.Ascending), names)
	return nil
}

func (a *App) item(ctx context.Context, args []string) error {
	const usage = "item add|show|edit|rm ..."
	if len(args) == 0 {
		fmt.Fprintf(a.Stderr, "Usage: shramba %s\n", usage)
		return ErrUsage
	}

	switch args[0] {
	case "add":
		return a.itemAdd(ctx, args[1:])
	case "show":
		return a.itemShow(ctx, args[1:])
	case "edit":
		return a.itemEdit(ctx, args[1:])
	case "rm", "remove", "delete":
		return a.itemRemove(ctx, args[1:])
	default:
		fmt.Fprintf(a.Stderr, "unknown item command: %s\nUsage: shramba %s\n", args[0], usage)
		return ErrUsage
	}
}

func (a *App) itemAdd(ctx context.Context, args []string) error {
	fs := a.newFlagSet("item add", "item add -folder <folder> [-qty <n>] [-desc <text>] [-barcode <code>] [-photo <file>] <name>")
	folderRef := fs.String("folder", "", "folder to add the item to (id or name, required)")
	qty := fs.Int("qty", 0, "quantity")
	description := fs.String("desc", "", "description")
	barcode := fs.String("barcode", "", "barcode")
	photo := fs.String("photo", "", "JPEG or PNG photo to attach")
	pos, err := parse(fs, args, 1, 1)
	if err != nil {
		return err
	}

	name := strings.TrimSpace(pos[0])
	if err := invalid("item name", model.ValidateItemName(name)); err != nil {
		return err
	}
	if *folderRef == "" {
		return failf("an item must go in a folder: pass -folder (see 'shramba folders')")
	}

	account, err := a.current(ctx)
	if err != nil {
		return err
	}
	f, err := a.resolveFolder(ctx, account.ID, *folderRef)
	if err != nil {
		return err
	}

	item := model.Item{
		Name:        name,
		Quantity:    *qty,
		Description: *description,
		Barcode:     *barcode,
	}
	if *photo != "" {
		if item.ImagePath, err = a.Photos.ImportFile(name, *photo); err != nil {
			return failf("cannot attach photo: %v", err)
		}
	}

	id, err := a.Store.AddItem(ctx, item, account.ID, f.ID)
	if err != nil {
		a.discardPhoto(item.ImagePath)
		return explain("cannot add item", err)
	}
	item.ID = id
	item.FolderID = f.ID

	fmt.Fprintf(a.Stdout, "Item added: %s (id %d) in %s\n", item.Name, id, f.Name)
	a.checkStock(ctx, account, item)
	return nil
}

func (a *App) itemShow(ctx context.Context, args []string) error {
	fs := a.newFlagSet("item show", "item show <id>")
	pos, err := parse(fs, args, 1, 1)
	if err != nil {
		return err
	}

	account, err := a.current(ctx)
	if err != nil {
		return err
	}
	item, err := a.ownedItem(ctx, account.ID, pos[0])
	if err != nil {
		return err
	}
	names, err := a.folderNames(ctx, account.ID)
	if err != nil {
		return err
	}

	printItem(a.Stdout, item, names[item.FolderID])
	return nil
}

func (a *App) itemEdit(ctx context.Context, args []string) error {
	fs := a.newFlagSet("item edit", "item edit [-name <name>] [-qty <n>] [-desc <text>] [-barcode <code>] [-folder <folder>] [-photo <file> | -no-photo] <id>")
	name := fs.String("name", "", "new name")
	qty := fs.Int("qty", 0, "new quantity")
	description := fs.String("desc", "", "new description (empty to clear)")
	barcode := fs.String("barcode", "", "new barcode (empty to clear)")
	folderRef := fs.String("folder", "", "move to this folder (id or name)")
	photo := fs.String("photo", "", "replace the photo")
	noPhoto := fs.Bool("no-photo", false, "remove the photo")
	pos, err := parse(fs, args, 1, 1)
	if err != nil {
		return err
	}
	if *photo != "" && *noPhoto {
		return failf("-photo and -no-photo cannot be combined")
	}

	account, err := a.current(ctx)
	if err != nil {
		return err
	}
	item, err := a.ownedItem(ctx, account.ID, pos[0])
	if err != nil {
		return err
	}

	if isSet(fs, "name") {
		item.Name = strings.TrimSpace(*name)
		if err := invalid("item name", model.ValidateItemName(item.Name)); err != nil {
			return err
		}
	}
	if isSet(fs, "qty") {
		item.Quantity = *qty
	}
	if isSet(fs, "desc") {
		item.Description = *description
	}
	if isSet(fs, "barcode") {
		item.Barcode = *barcode
	}

	folderID := item.FolderID
	if *folderRef != "" {
		f, err := a.resolveFolder(ctx, account.ID, *folderRef)
		if err != nil {
			return err
		}
		folderID = f.ID
	}

	oldPhoto := item.ImagePath
	switch {
	case *noPhoto:
		item.ImagePath = ""
	case *photo != "":
		if item.ImagePath, err = a.Photos.ImportFile(item.Name, *photo); err != nil {
			return failf("cannot attach photo: %v", err)
		}
	}

	n, err := a.Store.UpdateItem(ctx, *item, account.ID, folderID)
	if err == nil && n == 0 {
		err = store.ErrNotFound
	}
	if err != nil {
		if item.ImagePath != oldPhoto {
			a.discardPhoto(item.ImagePath)
		}
		return explain("cannot update item", err)
	}
	if item.ImagePath != oldPhoto {
		a.discardPhoto(oldPhoto)
	}
	item.FolderID = folderID

	fmt.Fprintf(a.Stdout, "Item updated: %s (id %d)\n", item.Name, item.ID)
	a.checkStock(ctx, account, *item)
	return nil
}

func (a *App) itemRemove(ctx context.Context, args []string) error {
	fs := a.newFlagSet("item rm", "item rm <id>")
	pos, err := parse(fs, args, 1, 1)
	if err != nil {
		return err
	}

	account, err := a.current(ctx)
	if err != nil {
		return err
	}
	item, err := a.ownedItem(ctx, account.ID, pos[0])
	if err != nil {
		return err
	}

	n, err := a.Store.DeleteItem(ctx, item.ID, account.ID)
	if err == nil && n == 0 {
		err = store.ErrNotFound
	}
	if err != nil {
		return explain("cannot delete item", err)
	}
	a.discardPhoto(item.ImagePath)

	fmt.Fprintf(a.Stdout, "Item deleted: %s\n", item.Name)
	return nil
}

// ownedItem loads an item and hides it unless it belongs to ownerID.
func (a *App) ownedItem(ctx context.Context, ownerID int64, ref string) (*model.Item, error) {
	id, err := parseID(ref)
	if err != nil {
		return nil, err
	}
	item, err := a.Store.GetItem(ctx, id)
	if err == nil && item.AccountID != ownerID {
		err = store.ErrNotFound
	}
	if err != nil {
		return nil, explain(fmt.Sprintf("item %d", id), err)
	}
	return item, nil
}

// checkStock warns about a low item and sends an alert if the account has
// opted in.
func (a *App) checkStock(ctx context.Context, account *model.Account, item model.Item) {
	if !notify.Low(item, a.LowStock) {
		return
	}
	if item.Quantity <= 0 {
		fmt.Fprintf(a.Stdout, "Warning: %s is out of stock.\n", item.Name)
	} else {
		fmt.Fprintf(a.Stdout, "Warning: %s is low on stock (%d left).\n", item.Name, item.Quantity)
	}

	alert, ok := notify.Due(*account, item, a.LowStock)
	if !ok || a.Sender == nil {
		return
	}
	if err := a.Sender.Send(ctx, alert); err != nil {
		a.logger().Warn("sending low stock alert", "item_id", item.ID, "error", err)
		fmt.Fprintln(a.Stdout, "Could not send the low stock alert.")
		return
	}
	fmt.Fprintf(a.Stdout, "Low stock alert sent to %s.\n", alert.Phone)
}

func (a *App) discardPhoto(path string) {
	if err := a.Photos.Remove(path); err != nil {
		a.logger().Warn("removing photo", "path", path, "error", err)
	}
}
