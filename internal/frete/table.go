package frete

// Road distances in km from the shop's base in Campo Grande (Zona Sul) to
// São Paulo neighborhoods, as calibrated by the delivery volunteers.
var neighborhoodKm = map[string]float64{
	// Zona Sul
	"Campo Grande":    2,
	"Santo Amaro":     5,
	"Jardim São Luís": 4,
	"Capão Redondo":   6,
	"Grajaú":          12,
	"Parelheiros":     18,
	"Cidade Dutra":    10,
	"Socorro":         4,
	"Interlagos":      8,
	"Pedreira":        6,
	"Cidade Ademar":   7,
	"Jabaquara":       9,
	"Saúde":           12,
	"Vila Mariana":    14,
	"Moema":           15,
	"Brooklin":        13,
	"Campo Belo":      12,
	"Itaim Bibi":      16,

	// Centro
	"Sé":         20,
	"República":  20,
	"Consolação": 18,
	"Bela Vista": 18,
	"Liberdade":  18,
	"Cambuci":    16,

	// Zona Oeste
	"Pinheiros":       17,
	"Butantã":         15,
	"Perdizes":        20,
	"Lapa":            22,
	"Vila Leopoldina": 24,
	"Jaguaré":         20,
	"Rio Pequeno":     18,
	"Raposo Tavares":  16,

	// Zona Norte
	"Santana":        28,
	"Tucuruvi":       30,
	"Tremembé":       35,
	"Jaçanã":         32,
	"Vila Maria":     26,
	"Casa Verde":     25,
	"Limão":          24,
	"Freguesia do Ó": 26,
	"Pirituba":       28,

	// Zona Leste
	"Mooca":               20,
	"Tatuapé":             24,
	"Penha":               28,
	"Vila Matilde":        30,
	"Itaquera":            35,
	"São Mateus":          32,
	"Sapopemba":           25,
	"Vila Prudente":       22,
	"São Lucas":           20,
	"Ipiranga":            14,
	"Vila Formosa":        26,
	"Aricanduva":          28,
	"Ermelino Matarazzo":  35,
	"São Miguel Paulista": 40,
	"Guaianases":          42,
}

// prefixBand maps a range of three-digit CEP prefixes to a fallback
// distance used when the neighborhood is not in the table. Bands are
// checked in order; codes outside every band get defaultDistanceKm.
type prefixBand struct {
	lo, hi int
	km     float64
}

var prefixBands = []prefixBand{
	{10, 19, 20}, // Centro
	{20, 39, 28}, // Zona Norte / Nordeste
	{40, 49, 8},  // Zona Sul
	{50, 59, 30}, // Zona Leste
	{80, 89, 38}, // Zona Leste extremo
}
