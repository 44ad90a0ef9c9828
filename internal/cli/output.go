package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/erazemk/shramba/internal/imaging"
	"github.com/erazemk/shramba/internal/model"
)

const dateLayout = "2006-01-02 15:04"

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(dateLayout)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func printAccount(w io.Writer, a *model.Account) {
	tw := newTable(w)
	fmt.Fprintf(tw, "Username:\t%s\n", a.Username)
	fmt.Fprintf(tw, "Business:\t%s\n", orDash(a.BusinessName))
	fmt.Fprintf(tw, "Text alerts:\t%s\n", onOff(a.SMSEnabled))
	fmt.Fprintf(tw, "Phone:\t%s\n", orDash(a.PhoneNumber))
	tw.Flush()
}

type folderRow struct {
	folder model.Folder
	items  int
}

func printFolders(w io.Writer, rows []folderRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No folders yet.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tITEMS\tCREATED")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", r.folder.ID, r.folder.Name, r.items, formatDate(r.folder.CreatedAt))
	}
	tw.Flush()
}

func printItems(w io.Writer, items []model.Item, folderNames map[int64]string) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No items.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tQTY\tFOLDER\tADDED")
	for _, it := range items {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n",
			it.ID, orDash(it.Name), it.Quantity, orDash(folderNames[it.FolderID]), formatDate(it.CreatedAt))
	}
	tw.Flush()
}

func printItem(w io.Writer, it *model.Item, folderName string) {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%d\n", it.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", it.Name)
	fmt.Fprintf(tw, "Quantity:\t%d\n", it.Quantity)
	fmt.Fprintf(tw, "Folder:\t%s\n", orDash(folderName))
	fmt.Fprintf(tw, "Description:\t%s\n", orDash(it.Description))
	fmt.Fprintf(tw, "Barcode:\t%s\n", orDash(it.Barcode))
	fmt.Fprintf(tw, "Added:\t%s\n", formatDate(it.CreatedAt))

	photo := "-"
	if it.ImagePath != "" {
		if info, err := imaging.Stat(it.ImagePath); err == nil {
			photo = fmt.Sprintf("%s (%dx%d, %d KiB)", it.ImagePath, info.Width, info.Height, (info.Bytes+1023)/1024)
		} else {
			photo = it.ImagePath + " (missing)"
		}
	}
	fmt.Fprintf(tw, "Photo:\t%s\n", photo)
	tw.Flush()
}
