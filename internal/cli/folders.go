package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/erazemk/shramba/internal/model"
	"github.com/erazemk/shramba/internal/store"
)

func (a *App) folders(ctx context.Context, args []string) error {
	fs := a.newFlagSet("folders", "folders")
	if _, err := parse(fs, args, 0, 0); err != nil {
		return err
	}
	account, err := a.current(ctx)
	if err != nil {
		return err
	}

	folders, err := a.Store.ListFolders(ctx, account.ID)
	if err != nil {
		return err
	}
	rows := make([]folderRow, 0, len(folders))
	for _, f := range folders {
		n, err := a.Store.ItemCountInFolder(ctx, f.ID)
		if err != nil {
			return err
		}
		rows = append(rows, folderRow{folder: f, items: n})
	}

	printFolders(a.Stdout, rows)
	return nil
}

func (a *App) folder(ctx context.Context, args []string) error {
	const usage = "folder add <name> | folder rename <folder> <new name> | folder rm <folder>"
	if len(args) == 0 {
		fmt.Fprintf(a.Stderr, "Usage: shramba %s\n", usage)
		return ErrUsage
	}

	switch args[0] {
	case "add":
		return a.folderAdd(ctx, args[1:])
	case "rename", "mv":
		return a.folderRename(ctx, args[1:])
	case "rm", "remove", "delete":
		return a.folderRemove(ctx, args[1:])
	default:
		fmt.Fprintf(a.Stderr, "unknown folder command: %s\nUsage: shramba %s\n", args[0], usage)
		return ErrUsage
	}
}

func (a *App) folderAdd(ctx context.Context, args []string) error {
	fs := a.newFlagSet("folder add", "folder add <name>")
	pos, err := parse(fs, args, 1, 1)
	if err != nil {
		return err
	}
	name := pos[0]
	if err := invalid("folder name", model.ValidateFolderName(name)); err != nil {
		return err
	}

	account, err := a.current(ctx)
	if err != nil {
		return err
	}
	id, err := a.Store.CreateFolder(ctx, name, account.ID)
	if err != nil {
		return explain("cannot create folder "+strconv.Quote(name), err)
	}

	fmt.Fprintf(a.Stdout, "Folder created: %s (id %d)\n", name, id)
	return nil
}

func (a *App) folderRename(ctx context.Context, args []string) error {
	fs := a.newFlagSet("folder rename", "folder rename <folder> <new name>")
	pos, err := parse(fs, args, 2, 2)
	if err != nil {
		return err
	}
	name := pos[1]
	if err := invalid("folder name", model.ValidateFolderName(name)); err != nil {
		return err
	}

	account, err := a.current(ctx)
	if err != nil {
		return err
	}
	f, err := a.resolveFolder(ctx, account.ID, pos[0])
	if err != nil {
		return err
	}
	if err := a.Store.RenameFolder(ctx, f.ID, name, account.ID); err != nil {
		return explain("cannot rename folder", err)
	}

	fmt.Fprintf(a.Stdout, "Folder renamed: %s -> %s\n", f.Name, name)
	return nil
}

func (a *App) folderRemove(ctx context.Context, args []string) error {
	fs := a.newFlagSet("folder rm", "folder rm <folder>")
	pos, err := parse(fs, args, 1, 1)
	if err != nil {
		return err
	}

	account, err := a.current(ctx)
	if err != nil {
		return err
	}
	f, err := a.resolveFolder(ctx, account.ID, pos[0])
	if err != nil {
		return err
	}
	if err := a.Store.DeleteFolder(ctx, f.ID, account.ID); err != nil {
		return explain("cannot delete folder "+strconv.Quote(f.Name), err)
	}

	fmt.Fprintf(a.Stdout, "Folder deleted: %s\n", f.Name)
	return nil
}

// resolveFolder finds one of the account's folders by ID or by exact name.
func (a *App) resolveFolder(ctx context.Context, ownerID int64, ref string) (*model.Folder, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		f, err := a.Store.GetFolder(ctx, id, ownerID)
		if err == nil {
			return f, nil
		}
		if store.IsFault(err) {
			return nil, err
		}
	}

	folders, err := a.Store.ListFolders(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for i := range folders {
		if folders[i].Name == ref {
			return &folders[i], nil
		}
	}
	return nil, failf("folder %q: not found", ref)
}

// folderNames maps the account's folder IDs to names.
func (a *App) folderNames(ctx context.Context, ownerID int64) (map[int64]string, error) {
	folders, err := a.Store.ListFolders(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(folders))
	for _, f := range folders {
		names[f.ID] = f.Name
	}
	return names, nil
}
