// Package mockdata seeds the in-memory stores with a plausible seller account.
package mockdata

import (
	"time"

	"melidash/internal/domain/entity"
)

const day = 24 * time.Hour

// Products returns listings with creation dates relative to now.
func Products(now time.Time) []entity.Product {
	return []entity.Product{
		{
			ID: "MLA1001", Title: "Auriculares Bluetooth X200", Price: 45999, AvailableQuantity: 8,
			SoldQuantity: 112, InitialQuantity: 120, CostPrice: 29000, Category: "Electrónica",
			Status: "active", DateCreated: now.Add(-120 * day),
		},
		{
			ID: "MLA1002", Title: "Smartwatch Fit Pro", Price: 89999, AvailableQuantity: 35,
			SoldQuantity: 15, InitialQuantity: 50, Category: "Electrónica",
			Status: "active", DateCreated: now.Add(-75 * day),
		},
		{
			ID: "MLA1003", Title: "Zapatillas Running Air", Price: 64500, AvailableQuantity: 3,
			SoldQuantity: 57, InitialQuantity: 60, CostPrice: 41000, Category: "Deportes",
			Status: "active", DateCreated: now.Add(-40 * day),
		},
		{
			ID: "MLA1004", Title: "Cafetera Espresso 15 bar", Price: 132000, AvailableQuantity: 22,
			SoldQuantity: 4, InitialQuantity: 26, Category: "Hogar",
			Status: "active", DateCreated: now.Add(-95 * day),
		},
		{
			ID: "MLA1005", Title: "Mochila Urbana Antirrobo", Price: 28750, AvailableQuantity: 60,
			SoldQuantity: 40, InitialQuantity: 100, CostPrice: 15500, Category: "Accesorios",
			Status: "active", DateCreated: now.Add(-12 * day),
		},
		{
			ID: "MLA1006", Title: "Lámpara LED Escritorio", Price: 18990, AvailableQuantity: 0,
			SoldQuantity: 80, InitialQuantity: 80, Category: "Hogar",
			Status: "paused", DateCreated: now.Add(-200 * day),
		},
		{
			ID: "MLA1007", Title: "Teclado Mecánico RGB", Price: 74900, AvailableQuantity: 14,
			SoldQuantity: 26, InitialQuantity: 40, CostPrice: 52000, Category: "Computación",
			Status: "active", DateCreated: now.Add(-33 * day),
		},
		{
			ID: "MLA1008", Title: "Botella Térmica 1L", Price: 15400, AvailableQuantity: 150,
			SoldQuantity: 9, InitialQuantity: 159, Category: "Deportes",
			Status: "active", DateCreated: now.Add(-150 * day),
		},
	}
}

func Trends(now time.Time) []entity.Trend {
	return []entity.Trend{
		{ID: "tr-01", Keyword: "auriculares inalámbricos", Category: "Electrónica", SearchVolume: 185000, GrowthPercent: 32.5, Competition: entity.CompetitionHigh, AveragePrice: 38900, Period: "30d", UpdatedAt: now},
		{ID: "tr-02", Keyword: "smartwatch", Category: "Electrónica", SearchVolume: 142000, GrowthPercent: 18.2, Competition: entity.CompetitionHigh, AveragePrice: 79500, Period: "30d", UpdatedAt: now},
		{ID: "tr-03", Keyword: "freidora de aire", Category: "Hogar", SearchVolume: 210000, GrowthPercent: 45.1, Competition: entity.CompetitionMedium, AveragePrice: 98000, Period: "30d", UpdatedAt: now},
		{ID: "tr-04", Keyword: "zapatillas running", Category: "Deportes", SearchVolume: 98000, GrowthPercent: 12.4, Competition: entity.CompetitionMedium, AveragePrice: 61000, Period: "30d", UpdatedAt: now},
		{ID: "tr-05", Keyword: "teclado mecánico", Category: "Computación", SearchVolume: 56000, GrowthPercent: 27.9, Competition: entity.CompetitionLow, AveragePrice: 70500, Period: "30d", UpdatedAt: now},
		{ID: "tr-06", Keyword: "botella térmica", Category: "Deportes", SearchVolume: 43000, GrowthPercent: -6.3, Competition: entity.CompetitionLow, AveragePrice: 14200, Period: "30d", UpdatedAt: now},
		{ID: "tr-07", Keyword: "mochila antirrobo", Category: "Accesorios", SearchVolume: 61000, GrowthPercent: 38.7, Competition: entity.CompetitionLow, AveragePrice: 27400, Period: "7d", UpdatedAt: now},
		{ID: "tr-08", Keyword: "cafetera espresso", Category: "Hogar", SearchVolume: 37000, GrowthPercent: 8.8, Competition: entity.CompetitionMedium, AveragePrice: 125000, Period: "90d", UpdatedAt: now},
		{ID: "tr-09", Keyword: "lámpara led", Category: "Hogar", SearchVolume: 52000, GrowthPercent: 21.0, Competition: entity.CompetitionLow, AveragePrice: 17800, Period: "7d", UpdatedAt: now},
		{ID: "tr-10", Keyword: "mouse gamer", Category: "Computación", SearchVolume: 88000, GrowthPercent: 15.6, Competition: entity.CompetitionHigh, AveragePrice: 32500, Period: "90d", UpdatedAt: now},
	}
}

func Competitors() []entity.Competitor {
	return []entity.Competitor{
		{ID: "cp-01", Name: "TechStore Oficial", ProductCount: 1240, AveragePrice: 58300, ReputationLevel: "platinum", MarketShare: 18.4},
		{ID: "cp-02", Name: "MegaShop", ProductCount: 3380, AveragePrice: 41200, ReputationLevel: "gold", MarketShare: 22.1},
		{ID: "cp-03", Name: "PrecioJusto", ProductCount: 860, AveragePrice: 35700, ReputationLevel: "gold", MarketShare: 9.7},
		{ID: "cp-04", Name: "ElectroMax", ProductCount: 540, AveragePrice: 72900, ReputationLevel: "silver", MarketShare: 6.2},
		{ID: "cp-05", Name: "MundoDigital", ProductCount: 1710, AveragePrice: 49800, ReputationLevel: "platinum", MarketShare: 14.5},
	}
}

func Reviews(now time.Time) []entity.Review {
	replied := now.Add(-20 * time.Hour)

	return []entity.Review{
		{ID: "rv-01", ProductID: "MLA1001", ProductTitle: "Auriculares Bluetooth X200", Rating: 5, Comment: "Excelente sonido y llegó rápido.", BuyerName: "Lucía M.", CreatedAt: now.Add(-2 * day), Reply: "¡Gracias por tu compra!", RepliedAt: &replied},
		{ID: "rv-02", ProductID: "MLA1001", ProductTitle: "Auriculares Bluetooth X200", Rating: 4, Comment: "Buena batería, el estuche es frágil.", BuyerName: "Martín G.", CreatedAt: now.Add(-3 * day)},
		{ID: "rv-03", ProductID: "MLA1003", ProductTitle: "Zapatillas Running Air", Rating: 2, Comment: "El talle vino más chico.", BuyerName: "Sofía R.", CreatedAt: now.Add(-4 * day)},
		{ID: "rv-04", ProductID: "MLA1002", ProductTitle: "Smartwatch Fit Pro", Rating: 5, Comment: "Muy completo para el precio.", BuyerName: "Diego P.", CreatedAt: now.Add(-6 * day), Reply: "¡Que lo disfrutes!", RepliedAt: &replied},
		{ID: "rv-05", ProductID: "MLA1004", ProductTitle: "Cafetera Espresso 15 bar", Rating: 1, Comment: "Llegó con la jarra rota.", BuyerName: "Carla F.", CreatedAt: now.Add(-8 * day)},
		{ID: "rv-06", ProductID: "MLA1005", ProductTitle: "Mochila Urbana Antirrobo", Rating: 5, Comment: "Cómoda y espaciosa.", BuyerName: "Julián T.", CreatedAt: now.Add(-10 * day)},
		{ID: "rv-07", ProductID: "MLA1007", ProductTitle: "Teclado Mecánico RGB", Rating: 4, Comment: "Switches muy buenos, software limitado.", BuyerName: "Nicolás B.", CreatedAt: now.Add(-12 * day)},
		{ID: "rv-08", ProductID: "MLA1008", ProductTitle: "Botella Térmica 1L", Rating: 3, Comment: "Mantiene el frío pero pierde un poco.", BuyerName: "Valentina S.", CreatedAt: now.Add(-15 * day)},
	}
}

// SellerRates returns the operational rates of the seeded account, in percent.
func SellerRates() entity.SellerRates {
	return entity.SellerRates{
		ClaimsRate:           1.2,
		DelayedShipmentsRate: 4.5,
		CancellationsRate:    0.8,
	}
}
