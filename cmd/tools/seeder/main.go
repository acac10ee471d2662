// Seeds the spice catalog for local development. Safe to run repeatedly:
// every insert is keyed on the spice name.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

type seedSpice struct {
	Name               string
	Description        string
	PriceCents         int64
	WeightGrams        int32
	PackageWeightGrams int32
	ImageURL           string
}

var spices = []seedSpice{
	{"Páprica Defumada", "Páprica doce defumada em lenha, perfeita para carnes e feijoada.", 1290, 100, 140, ""},
	{"Cominho Moído", "Cominho moído na hora, presença obrigatória no feijão de cada dia.", 890, 80, 120, ""},
	{"Açafrão-da-terra", "Cúrcuma pura moída, cor e aroma para arroz e caldos.", 990, 100, 140, ""},
	{"Pimenta-do-reino Preta", "Grãos moídos grossos, colhidos no sul da Bahia.", 1190, 90, 130, ""},
	{"Orégano Desidratado", "Folhas inteiras desidratadas, ideal para molhos e pizzas.", 790, 40, 80, ""},
	{"Canela em Pó", "Canela do Ceilão moída fina, para doces e café.", 1090, 70, 110, ""},
	{"Chimichurri Tradicional", "Mistura argentina com salsa, alho e pimenta calabresa.", 1390, 110, 150, ""},
	{"Alho Granulado", "Alho desidratado granulado, sabor intenso sem descascar nada.", 950, 120, 160, ""},
	{"Colorau Nordestino", "Urucum moído com fubá, a cor da cozinha nordestina.", 690, 100, 140, ""},
	{"Pimenta Calabresa em Flocos", "Flocos com sementes, ardência na medida.", 990, 60, 100, ""},
	{"Lemon Pepper", "Mistura cítrica de pimenta-do-reino e raspas de limão.", 1290, 90, 130, ""},
	{"Tempero Baiano", "Mistura tradicional com coentro, cominho e pimentas.", 890, 100, 140, ""},
	{"Ervas Finas", "Mistura francesa de ervas desidratadas para aves e peixes.", 1190, 50, 90, ""},
	{"Noz-moscada Inteira", "Sementes inteiras para ralar na hora, aroma incomparável.", 1590, 30, 70, ""},
	{"Cravo-da-índia", "Botões inteiros selecionados, para doces e caldas.", 850, 40, 80, ""},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("ping database: %v", err)
	}

	log.Printf("seeding %d spices...", len(spices))
	for _, s := range spices {
		_, err := pool.Exec(ctx, `
			INSERT INTO spices (name, description, price_cents, weight_grams, package_weight_grams, image_url, active)
			VALUES ($1, $2, $3, $4, $5, $6, TRUE)
			ON CONFLICT (name) DO UPDATE
			SET description = EXCLUDED.description,
			    price_cents = EXCLUDED.price_cents,
			    weight_grams = EXCLUDED.weight_grams,
			    package_weight_grams = EXCLUDED.package_weight_grams
		`, s.Name, s.Description, s.PriceCents, s.WeightGrams, s.PackageWeightGrams, s.ImageURL)
		if err != nil {
			log.Printf("seed spice %s: %v", s.Name, err)
		}
	}

	log.Println("seeding completed")
}
