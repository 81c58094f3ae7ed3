package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"ftth-billing/internal/config"
	"ftth-billing/internal/domain/model"
	pg "ftth-billing/internal/infra/db/postgres"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	pkgRepo := pg.NewPackageRepo(pool)

	// If packages already exist, do nothing
	pkgs, err := pkgRepo.ListAll(ctx, nil)
	if err != nil {
		log.Fatalf("list packages: %v", err)
	}
	if len(pkgs) > 0 {
		fmt.Printf("%d packages already present. No changes.\n", len(pkgs))
		for _, p := range pkgs {
			fmt.Printf("  - %s (speed=%d Mbps, price=%d IDR)\n", p.Name, p.SpeedMbps, p.Price)
		}
		return
	}

	// Brand profiles carry the tax rate applied at invoice generation.
	brands := []struct {
		ID    string
		Brand string
		Tax   float64
	}{
		{"brand-jelantik", "Jelantik", 11},
		{"brand-lantiknet", "LantikNet", 11},
	}
	for _, b := range brands {
		if _, err := pool.Exec(ctx,
			`INSERT INTO brand_profiles (id, brand, tax_percent) VALUES ($1,$2,$3) ON CONFLICT (id) DO NOTHING`,
			b.ID, b.Brand, b.Tax); err != nil {
			log.Fatalf("insert brand %q: %v", b.Brand, err)
		}
		fmt.Printf("seeded brand: %s (tax=%.1f%%)\n", b.Brand, b.Tax)
	}

	// Seed the purchasable FTTH packages.
	seed := []struct {
		ID    string
		Name  string
		Speed int
		Price int64
	}{
		{"pkg-home-10", "Home 10", 10, 125_000},
		{"pkg-home-20", "Home 20", 20, 150_000},
		{"pkg-home-50", "Home 50", 50, 250_000},
		{"pkg-biz-100", "Business 100", 100, 750_000},
	}
	for _, s := range seed {
		p, err := model.NewServicePackage(s.ID, s.Name, s.Speed, s.Price)
		if err != nil {
			log.Fatalf("build package %q: %v", s.Name, err)
		}
		if err := pkgRepo.Save(ctx, nil, p); err != nil {
			log.Fatalf("save package %q: %v", s.Name, err)
		}
		fmt.Printf("seeded package: %s (id=%s, speed=%d Mbps, price=%d IDR)\n", p.Name, p.ID, p.SpeedMbps, p.Price)
	}

	// One router so technical records can be attached right away.
	if _, err := pool.Exec(ctx,
		`INSERT INTO routers (id, name, host, api_port) VALUES ($1,$2,$3,$4) ON CONFLICT (id) DO NOTHING`,
		"router-tambun-01", "bts-tambun-01", "10.0.8.1", 443); err != nil {
		log.Fatalf("insert router: %v", err)
	}
	fmt.Println("seeded router: bts-tambun-01 (10.0.8.1)")

	fmt.Println("✅ Seeding complete.")
}
