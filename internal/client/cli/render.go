package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/scalehub/internal/expiry"
	"github.com/dmitrijs2005/scalehub/internal/scaleapi"
)

// renderDevices prints a one-line-per-device table.
func renderDevices(w io.Writer, devices []scaleapi.Device) {
	if len(devices) == 0 {
		fmt.Fprintln(w, "No devices registered")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tADDRESS\tPROTO\tAUTO\tCACHED\tSTATE")
	for _, d := range devices {
		auto := "off"
		if d.AutoUpdate.Enabled {
			auto = fmt.Sprintf("every %dm", d.AutoUpdate.IntervalMinutes)
		}
		state := ""
		if d.CachedDirty {
			state = "unpushed edits"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s:%d\t%s\t%s\t%d\t%s\n",
			d.ID, d.Name, d.Host, d.Port, d.Protocol, auto, d.CachedCount, state)
	}
	tw.Flush()
}

// renderDevice prints the detail view for one device.
func renderDevice(w io.Writer, d scaleapi.Device) {
	fmt.Fprintf(w, "Device %d: %s\n", d.ID, d.Name)
	if d.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", d.Description)
	}
	fmt.Fprintf(w, "Address: %s:%d (%s)\n", d.Host, d.Port, d.Protocol)
	if d.CachedDirty {
		fmt.Fprintf(w, "Cache: %d products, has unpushed edits\n", d.CachedCount)
	} else {
		fmt.Fprintf(w, "Cache: %d products, in sync with device\n", d.CachedCount)
	}
	renderAutoUpdate(w, d.AutoUpdate)
}

// renderProducts prints the catalog with an expiry status label per row.
// Rows that are fine stay unlabeled so the ones needing attention stand out.
func renderProducts(w io.Writer, products []scaleapi.Product, now time.Time) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products cached")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PLU\tNAME\tPRICE\tSHELF\tMADE\tSELL BY\tSTATUS")
	for _, p := range products {
		status := expiry.ProductStatus(p.SellByDate, now)
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%dd\t%s\t%s\t%s\n",
			p.PLU, p.Name, p.Price, p.ShelfLifeDays, p.ManufactureDate, p.SellByDate, status.Label)
	}
	tw.Flush()
}

// renderAutoUpdate prints auto-update settings including the last run.
func renderAutoUpdate(w io.Writer, au scaleapi.AutoUpdate) {
	if au.Enabled {
		fmt.Fprintf(w, "Auto-update: enabled, every %d minutes\n", au.IntervalMinutes)
	} else {
		fmt.Fprintln(w, "Auto-update: disabled")
	}
	lastRun := "never"
	if au.LastRunUTC != nil {
		lastRun = au.LastRunUTC.UTC().Format(time.RFC3339)
	}
	fmt.Fprintf(w, "Last run: %s\n", lastRun)
}
