package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/scalehub/internal/common"
	"github.com/dmitrijs2005/scalehub/internal/scaleapi"
)

// Fetch reads the product catalog off a physical scale into the hub cache.
func (a *App) Fetch(ctx context.Context) error {
	id, err := a.promptDeviceID()
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	n, err := a.productService.Fetch(ctx, id)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Printf("Fetched %d products from device %d\n", n, id)
	return nil
}

// Products shows a device's cached catalog with per-row expiry status.
func (a *App) Products(ctx context.Context) error {
	id, err := a.promptDeviceID()
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	products, err := a.productService.Cached(ctx, id)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	renderProducts(os.Stdout, products, time.Now())
	return nil
}

// EditProduct collects a partial edit for one cached product. Only the
// fields the user answers are sent; dates are masked and validated before
// anything leaves the process.
func (a *App) EditProduct(ctx context.Context) error {
	id, err := a.promptDeviceID()
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	pluText, err := getSimpleText(a.reader, "Enter product PLU", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	plu, err := strconv.ParseInt(strings.TrimSpace(pluText), 10, 64)
	if err != nil {
		err = fmt.Errorf("%w: invalid PLU %q", common.ErrorValidation, pluText)
		log.Printf("error: %v", err)
		return err
	}

	patch, err := a.inputProductPatch()
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if patch.IsEmpty() {
		fmt.Println("Nothing to change")
		return nil
	}

	p, err := a.productService.Patch(ctx, id, plu, patch)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	renderProducts(os.Stdout, []scaleapi.Product{p}, time.Now())
	return nil
}

// Push writes the cached catalog back to the physical scale.
func (a *App) Push(ctx context.Context) error {
	id, err := a.promptDeviceID()
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	n, err := a.productService.Push(ctx, id)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Printf("Pushed %d products to device %d\n", n, id)
	return nil
}

// AutoUpdate shows a device's auto-update settings.
func (a *App) AutoUpdate(ctx context.Context) error {
	id, err := a.promptDeviceID()
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	au, err := a.productService.AutoUpdate(ctx, id)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	renderAutoUpdate(os.Stdout, au)
	return nil
}

// SetAutoUpdate changes a device's auto-update settings. The interval is
// read as a free-form number; sanitizing it (fractional values truncate,
// unusable values fall back to the default) happens in the service.
func (a *App) SetAutoUpdate(ctx context.Context) error {
	id, err := a.promptDeviceID()
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	enabled, err := GetYesNo(a.reader, "Enable auto-update?", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	intervalText, err := getSimpleText(a.reader, "Interval in minutes (empty for default)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	var interval float64
	if intervalText != "" {
		interval, err = strconv.ParseFloat(intervalText, 64)
		if err != nil {
			err = fmt.Errorf("%w: interval must be a number", common.ErrorValidation)
			log.Printf("error: %v", err)
			return err
		}
	}

	au, err := a.productService.SetAutoUpdate(ctx, id, enabled, interval)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	renderAutoUpdate(os.Stdout, au)
	return nil
}

// inputProductPatch prompts per product field; empty answers leave the
// field out of the patch entirely.
func (a *App) inputProductPatch() (scaleapi.ProductPatch, error) {
	var patch scaleapi.ProductPatch
	var zero scaleapi.ProductPatch

	name, err := getSimpleText(a.reader, "New name (empty to keep)", os.Stdout)
	if err != nil {
		return zero, err
	}
	if name != "" {
		patch.Name = &name
	}

	priceText, err := getSimpleText(a.reader, "New price (empty to keep)", os.Stdout)
	if err != nil {
		return zero, err
	}
	if priceText != "" {
		price, err := strconv.ParseFloat(priceText, 64)
		if err != nil {
			return zero, fmt.Errorf("%w: price must be a number", common.ErrorValidation)
		}
		patch.Price = &price
	}

	shelfText, err := getSimpleText(a.reader, "New shelf life in days (empty to keep)", os.Stdout)
	if err != nil {
		return zero, err
	}
	if shelfText != "" {
		days, err := strconv.Atoi(shelfText)
		if err != nil {
			return zero, fmt.Errorf("%w: shelf life must be a whole number of days", common.ErrorValidation)
		}
		patch.ShelfLifeDays = &days
	}

	manufactured, err := GetMaskedDate(a.reader, "New manufacture date DDMMYY (empty to keep)", os.Stdout)
	if err != nil {
		return zero, err
	}
	if manufactured != "" {
		patch.ManufactureDate = &manufactured
	}

	sellBy, err := GetMaskedDate(a.reader, "New sell-by date DDMMYY (empty to keep)", os.Stdout)
	if err != nil {
		return zero, err
	}
	if sellBy != "" {
		patch.SellByDate = &sellBy
	}

	return patch, nil
}
