package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/clozet/clozet-backend/config"
	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/internal/app/repository"
	"github.com/clozet/clozet-backend/internal/app/service"
	"github.com/clozet/clozet-backend/internal/app/session"
	"github.com/clozet/clozet-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// addressColumns is the expected header row, in order.
var addressColumns = []string{"label", "full_name", "phone", "line1", "line2", "city", "state", "postal_code"}

func main() {
	if len(os.Args) < 3 {
		log.Fatal("Usage: go run cmd/seed/main.go <email> <xlsx_file_path>")
	}

	email := strings.TrimSpace(os.Args[1])
	filePath := os.Args[2]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	conn, err := db.Connect(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close(conn)

	if err := db.Migrate(conn); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	addresses, err := readAddressesFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total addresses to import for %s: %d\n", email, len(addresses))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	confirm, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	confirm = strings.TrimSpace(confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	ctx := context.Background()
	identity, created, err := repository.NewIdentityRepository(conn).FindOrCreateByEmail(ctx, email)
	if err != nil {
		log.Fatal("Failed to resolve identity:", err)
	}
	if created {
		fmt.Printf("Created identity %s\n", identity.ID)
	}

	imported, err := importAddresses(ctx, session.New(identity, repository.NewStores(conn), nil), service.NewAddressService(), addresses)
	if err != nil {
		log.Fatal("Import stopped:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total addresses imported: %d\n", imported)
}

// importAddresses saves each row through the address service so the
// first-address-is-default rule and field validation apply as they do over HTTP.
func importAddresses(ctx context.Context, sess *session.Session, addresses service.AddressService, rows []model.AddressFields) (int, error) {
	imported := 0
	for i, fields := range rows {
		if _, err := addresses.Create(ctx, sess, fields); err != nil {
			return imported, fmt.Errorf("row %d: %w", i+2, err)
		}
		imported++
	}
	return imported, nil
}

func readAddressesFromXLSX(filePath string) ([]model.AddressFields, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var addresses []model.AddressFields
	seen := make(map[string]bool)
	skippedCount := 0

	for i, row := range rows {
		// header
		if i == 0 {
			continue
		}

		cells := make([]string, len(addressColumns))
		for j := range cells {
			if j < len(row) {
				cells[j] = strings.TrimSpace(row[j])
			}
		}

		fields := model.AddressFields{
			Label:        cells[0],
			FullName:     cells[1],
			Phone:        cells[2],
			AddressLine1: cells[3],
			AddressLine2: cells[4],
			City:         cells[5],
			State:        cells[6],
			PostalCode:   cells[7],
		}

		if fields.FullName == "" || fields.AddressLine1 == "" || fields.City == "" || fields.PostalCode == "" {
			skippedCount++
			continue
		}

		key := strings.ToLower(strings.Join([]string{fields.FullName, fields.AddressLine1, fields.City, fields.PostalCode}, "|"))
		if seen[key] {
			skippedCount++
			continue
		}
		seen[key] = true

		addresses = append(addresses, fields)
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid addresses: %d\n", len(addresses))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)

	return addresses, nil
}
