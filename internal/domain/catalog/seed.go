package catalog

import "github.com/shopspring/decimal"

// SeedProducts returns the built-in catalog used to initialize an empty store.
// PriceSYP is left at zero; it is derived from the exchange rate on load.
func SeedProducts() []Product {
	return []Product{
		{
			ID:          "e1",
			Name:        "مثقاب بوش ١٣مم احترافي (GSB 13 RE)",
			Category:    CategoryElectricity,
			PriceUSD:    decimal.NewFromInt(65),
			Brand:       "Bosch",
			Rating:      4.9,
			Stock:       20,
			Image:       "https://images.unsplash.com/photo-1617103996702-96ff29b1c467?q=80&w=1000&auto=format&fit=crop",
			Description: "المثقاب الأقوى في فئته. محرك 600 واط، مقبض مريح، وتصميم مدمج للعمل في الأماكن الضيقة. كفالة سنة حقيقية.",
		},
		{
			ID:          "e2",
			Name:        "طقم مفكات عزل 1000 فولت",
			Category:    CategoryElectricity,
			PriceUSD:    decimal.NewFromInt(12),
			Brand:       "Wiha",
			Rating:      4.8,
			Stock:       50,
			Image:       "https://images.unsplash.com/photo-1581147036324-c17ac41dfa6c?q=80&w=1000&auto=format&fit=crop",
			Description: "طقم مفكات ألماني أصلي معزول لضمان سلامتك أثناء العمل بالكهرباء. رؤوس مغناطيسية قوية.",
		},
		{
			ID:          "e3",
			Name:        "فاحص جهد رقمي (Digital Multimeter)",
			Category:    CategoryElectricity,
			PriceUSD:    decimal.NewFromInt(25),
			Brand:       "Fluke",
			Rating:      5.0,
			Stock:       15,
			Image:       "https://images.unsplash.com/photo-1585338665972-c2e36d4f13c6?q=80&w=1000&auto=format&fit=crop",
			Description: "جهاز فحص دقيق جداً للمحترفين. قياس الفولت، الأمبير، والمقاومة بدقة عالية.",
		},
		{
			ID:          "w1",
			Name:        "مفتاح أنابيب سويدي ٦٠٠مم",
			Category:    CategoryWater,
			PriceUSD:    decimal.NewFromInt(35),
			Brand:       "Bahco",
			Rating:      4.9,
			Stock:       12,
			Image:       "https://images.unsplash.com/photo-1542838686-37da4a9fd1b3?q=80&w=1000&auto=format&fit=crop",
			Description: "الوحش السويدي الأصلي. فك متحرك قوي جداً، لا ينزلق ولا يصدأ. استثمار للعمر.",
		},
		{
			ID:          "w2",
			Name:        "صاروخ قص وتجليخ ٤.٥ إنش",
			Category:    CategoryConstruction,
			PriceUSD:    decimal.NewFromInt(45),
			Brand:       "Makita",
			Rating:      4.7,
			Stock:       25,
			Image:       "https://images.unsplash.com/photo-1504148455328-c376907d081c?q=80&w=1000&auto=format&fit=crop",
			Description: "صاروخ ماكيتا الأصلي، محرك جبار وسرعة دوران عالية لقص الحديد والبلاستيك والحجر.",
		},
		{
			ID:          "c1",
			Name:        "شريط قياس ليزري ٥٠ متر",
			Category:    CategoryConstruction,
			PriceUSD:    decimal.NewFromInt(40),
			Brand:       "Bosch",
			Rating:      4.9,
			Stock:       10,
			Image:       "https://images.unsplash.com/photo-1594950346369-236b283f3898?q=80&w=1000&auto=format&fit=crop",
			Description: "وداعاً للمتر التقليدي. قس المسافات والمساحات بضغطة زر وبدقة مليمترية.",
		},
		{
			ID:          "c2",
			Name:        "مطرقة هدم وتكسير (هيلتي)",
			Category:    CategoryConstruction,
			PriceUSD:    decimal.NewFromInt(180),
			Brand:       "DeWalt",
			Rating:      4.8,
			Stock:       5,
			Image:       "https://images.unsplash.com/photo-1572981779307-38b8cabb2407?q=80&w=1000&auto=format&fit=crop",
			Description: "هيلتي تكسير جبارة للأعمال الشاقة في الباطون والجدران.",
		},
		{
			ID:          "p1",
			Name:        "دهان جوتن فينوماستيك (أبيض ملكي)",
			Category:    CategoryPaint,
			PriceUSD:    decimal.NewFromInt(45),
			Brand:       "Jotun",
			Rating:      5.0,
			Stock:       100,
			Image:       "https://images.unsplash.com/photo-1562259949-e8e7689d7828?q=80&w=1000&auto=format&fit=crop",
			Description: "دهان داخلي فاخر، قابل للغسل، تغطية ممتازة، وملمس حريري ناعم.",
		},
		{
			ID:          "p2",
			Name:        "رولة دهان احترافية مع عصا تمديد",
			Category:    CategoryPaint,
			PriceUSD:    decimal.NewFromInt(10),
			Brand:       "Harris",
			Rating:      4.5,
			Stock:       200,
			Image:       "https://images.unsplash.com/photo-1589939705384-5185137a7f0f?q=80&w=1000&auto=format&fit=crop",
			Description: "لا تترك وبر وتضمن توزيع متساوي للدهان على الجدران.",
		},
	}
}
