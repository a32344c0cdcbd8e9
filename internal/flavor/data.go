package flavor

type seed struct {
	id          int
	name        string
	description string
}

//nolint:gochecknoglobals // Static reference dataset
var defaultSeeds = map[Category][]seed{
	CategoryFruity: {
		{1, "Blackberry", "Dark, jammy bramble fruit with a tart edge"},
		{2, "Raspberry", "Bright red berry, sweet-tart and slightly floral"},
		{3, "Blueberry", "Round, ripe berry sweetness typical of natural process"},
		{4, "Strawberry", "Soft red fruit, sweet and fragrant"},
		{5, "Raisin", "Dried grape, concentrated and winey"},
		{6, "Prune", "Dried plum, deep and syrupy"},
		{7, "Coconut", "Creamy tropical note with a nutty finish"},
		{8, "Cherry", "Red stone fruit, juicy and bright"},
		{9, "Pomegranate", "Tart red fruit with a tannic grip"},
		{10, "Pineapple", "Tropical, tangy, and sweet"},
		{11, "Grape", "Fresh grape juice, sweet and clean"},
		{12, "Apple", "Crisp orchard fruit with malic brightness"},
		{13, "Peach", "Soft stone fruit, sweet and perfumed"},
		{14, "Pear", "Delicate, juicy orchard fruit"},
		{15, "Apricot", "Stone fruit with a honeyed tartness"},
		{16, "Plum", "Dark stone fruit, sweet with a sour skin"},
		{17, "Mango", "Ripe tropical fruit, lush and resinous"},
		{18, "Passion Fruit", "Intensely tart tropical fruit"},
		{19, "Papaya", "Mellow, musky tropical sweetness"},
		{20, "Fig", "Dried fig, seedy and caramel-sweet"},
	},
	CategoryCitrus: {
		{21, "Grapefruit", "Bitter-sweet citrus with a pithy edge"},
		{22, "Orange", "Sweet citrus juice"},
		{23, "Lemon", "Sharp, clean citric acidity"},
		{24, "Lime", "Green, zesty citrus"},
		{25, "Tangerine", "Sweet, easy mandarin citrus"},
		{26, "Bergamot", "Perfumed citrus peel, as in Earl Grey"},
		{27, "Yuzu", "Aromatic Japanese citrus, tart and floral"},
		{28, "Citrus Zest", "Oily, aromatic peel"},
	},
	CategoryFloral: {
		{29, "Black Tea", "Tannic, brisk, lightly floral tea leaf"},
		{30, "Chamomile", "Gentle, honeyed herbal flower"},
		{31, "Rose", "Sweet, perfumed petal"},
		{32, "Jasmine", "Heady white blossom common in washed Ethiopians"},
		{33, "Lavender", "Herbal purple flower, slightly soapy"},
		{34, "Hibiscus", "Tart red flower tea"},
		{35, "Orange Blossom", "Sweet citrus flower"},
		{36, "Honeysuckle", "Nectar-sweet climbing flower"},
		{37, "Elderflower", "Light, muscat-like blossom"},
		{38, "Lilac", "Soft, powdery spring flower"},
	},
	CategorySweet: {
		{39, "Brown Sugar", "Moist, molasses-tinged sugar"},
		{40, "Molasses", "Dark, bittersweet sugar syrup"},
		{41, "Maple Syrup", "Woody, rounded syrup sweetness"},
		{42, "Caramel", "Cooked sugar, rich and creamy"},
		{43, "Honey", "Floral, viscous sweetness"},
		{44, "Vanilla", "Warm, creamy bean sweetness"},
		{45, "Vanillin", "Sweet, synthetic-leaning vanilla aroma"},
		{46, "Toffee", "Buttery, deeply cooked sugar"},
		{47, "Butterscotch", "Butter and brown sugar"},
		{48, "Marshmallow", "Light, airy confection"},
		{49, "Candied Fruit", "Sugared fruit peel"},
		{50, "Panela", "Unrefined cane sugar, earthy and sweet"},
		{51, "Cane Sugar", "Clean, light sweetness"},
		{52, "Nougat", "Honeyed nut confection"},
	},
	CategoryNuttyCocoa: {
		{53, "Peanut", "Roasted groundnut"},
		{54, "Hazelnut", "Sweet, toasty nut"},
		{55, "Almond", "Mild, marzipan-leaning nut"},
		{56, "Walnut", "Earthy nut with tannic skin"},
		{57, "Pecan", "Buttery, sweet nut"},
		{58, "Cashew", "Creamy, mild nut"},
		{59, "Macadamia", "Rich, buttery nut"},
		{60, "Cocoa", "Cocoa powder, dry and chocolatey"},
		{61, "Dark Chocolate", "Bittersweet chocolate with depth"},
		{62, "Milk Chocolate", "Sweet, creamy chocolate"},
		{63, "Cacao Nib", "Roasted cacao, bitter and nutty"},
		{64, "Praline", "Caramelized nuts"},
	},
	CategorySpices: {
		{65, "Pungent", "Sharp, nose-tingling spice"},
		{66, "Black Pepper", "Hot, woody spice"},
		{67, "Anise", "Sweet licorice-like seed"},
		{68, "Nutmeg", "Warm, sweet-woody spice"},
		{69, "Cinnamon", "Sweet, warm bark"},
		{70, "Clove", "Intense, medicinal-sweet bud"},
		{71, "Cardamom", "Cool, resinous pod"},
		{72, "Ginger", "Zingy, warming root"},
		{73, "Allspice", "Clove, cinnamon and nutmeg in one berry"},
		{74, "Star Anise", "Bold licorice spice"},
		{75, "Licorice", "Sweet, dark root"},
		{76, "Pink Peppercorn", "Fruity, mildly hot berry"},
	},
	CategoryRoasted: {
		{77, "Pipe Tobacco", "Sweet, aromatic cured leaf"},
		{78, "Tobacco", "Dry, dark cured leaf"},
		{79, "Acrid", "Harsh, burnt sharpness"},
		{80, "Ashy", "Dry ash, like a cold fireplace"},
		{81, "Smoky", "Wood smoke"},
		{82, "Brown Roast", "Generic dark roast character"},
		{83, "Cereal", "Breakfast cereal, toasty and grainy"},
		{84, "Malt", "Sweet, toasted barley"},
		{85, "Grain", "Raw cereal grain"},
		{86, "Toast", "Browned bread crust"},
		{87, "Burnt Sugar", "Sugar cooked past caramel"},
		{88, "Charred Wood", "Blackened, bitter wood"},
	},
	CategoryGreenVegetative: {
		{89, "Olive Oil", "Green, grassy fat"},
		{90, "Raw", "Uncooked, green-bean character"},
		{91, "Under-ripe", "Green, astringent fruit"},
		{92, "Peapod", "Fresh green legume"},
		{93, "Fresh", "Clean, green and lively"},
		{94, "Dark Green", "Cooked leafy greens"},
		{95, "Vegetative", "Generic green plant matter"},
		{96, "Hay-like", "Dry cut grass"},
		{97, "Herb-like", "Fresh culinary herbs"},
		{98, "Beany", "Raw legume, often from under-development"},
		{99, "Green Pepper", "Bell pepper, vegetal and sharp"},
		{100, "Tomato", "Savory, sweet-acid vine fruit"},
		{101, "Cucumber", "Cool, watery green"},
		{102, "Snap Pea", "Sweet green crunch"},
	},
	CategorySourFermented: {
		{103, "Sour Aromatics", "Sour-smelling volatile acids"},
		{104, "Acetic Acid", "Vinegar-like sourness"},
		{105, "Butyric Acid", "Sour, cheesy note"},
		{106, "Isovaleric Acid", "Sweaty, sour-cheese aroma"},
		{107, "Citric Acid", "Clean, lemony sourness"},
		{108, "Malic Acid", "Green-apple sourness"},
		{109, "Winey", "Red wine, fruity and fermented"},
		{110, "Whiskey", "Boozy, oaky spirit"},
		{111, "Fermented", "Deliberate or accidental fermentation"},
		{112, "Overripe", "Fruit past its peak, sweet and slightly rotten"},
		{113, "Kombucha", "Fermented tea, tangy and effervescent"},
		{114, "Yogurt", "Lactic, creamy sourness"},
	},
	CategoryOther: {
		{115, "Stale", "Flat, aged coffee"},
		{116, "Cardboard", "Dry, papery packaging"},
		{117, "Papery", "Filter paper taint"},
		{118, "Woody", "Dry wood, like an old crate"},
		{119, "Moldy/Damp", "Damp basement, moldy bread"},
		{120, "Musty/Dusty", "Dusty attic"},
		{121, "Musty/Earthy", "Wet soil, forest floor"},
		{122, "Animalic", "Wet fur, barnyard"},
		{123, "Meaty Brothy", "Savory, umami broth"},
		{124, "Phenolic", "Medicinal, chemical taint"},
		{125, "Bitter", "Basic bitter taste"},
		{126, "Salty", "Basic salty taste"},
		{127, "Medicinal", "Antiseptic, hospital-like"},
		{128, "Petroleum", "Gasoline, kerosene"},
		{129, "Skunky", "Light-struck, sulfurous"},
		{130, "Rubber", "Hot rubber, tire"},
		{131, "Leather", "Tanned hide"},
		{132, "Mineral", "Wet stone, flinty"},
	},
}

//nolint:gochecknoglobals // Static reference dataset
var defaultColors = map[Category]string{
	CategoryFruity:          "#E53935",
	CategoryCitrus:          "#FDD835",
	CategoryFloral:          "#EC407A",
	CategorySweet:           "#FF8F00",
	CategoryNuttyCocoa:      "#795548",
	CategorySpices:          "#BF360C",
	CategoryRoasted:         "#4E342E",
	CategoryGreenVegetative: "#43A047",
	CategorySourFermented:   "#8E24AA",
	CategoryOther:           "#78909C",
}

// Relations are curated one flavor at a time and are not mirrored.
//
//nolint:gochecknoglobals // Static reference dataset
var defaultRelated = map[int][]int{
	1:   {2, 3, 16},
	2:   {1, 4},
	3:   {1, 11},
	4:   {2, 8},
	5:   {6, 20, 109},
	8:   {9, 16},
	10:  {17, 18},
	12:  {14, 108},
	13:  {15},
	17:  {10, 19},
	21:  {22, 23},
	22:  {25, 35},
	23:  {24, 107},
	26:  {29},
	29:  {26, 30},
	31:  {34},
	32:  {35, 37},
	39:  {40, 50},
	42:  {39, 46, 47},
	43:  {36, 30},
	44:  {45, 48},
	54:  {64, 62},
	60:  {61, 62},
	61:  {60, 63},
	69:  {68, 70},
	75:  {67, 74},
	81:  {80, 79},
	84:  {83, 85},
	99:  {95},
	109: {111, 5},
	110: {109},
	113: {104},
	131: {78},
}

// DefaultDataset returns a fresh copy of the built-in 132-flavor dataset.
func DefaultDataset() Dataset {
	ds := Dataset{
		Names:           make(map[int]string, 132),
		Descriptions:    make(map[int]string, 132),
		CategoryColors:  make(map[Category]string, len(defaultColors)),
		CategoryMembers: make(map[Category][]int, len(defaultSeeds)),
		Related:         make(map[int][]int, len(defaultRelated)),
	}
	for cat, seeds := range defaultSeeds {
		for _, s := range seeds {
			ds.Names[s.id] = s.name
			ds.Descriptions[s.id] = s.description
			ds.CategoryMembers[cat] = append(ds.CategoryMembers[cat], s.id)
		}
	}
	for cat, color := range defaultColors {
		ds.CategoryColors[cat] = color
	}
	for id, rel := range defaultRelated {
		ds.Related[id] = append([]int(nil), rel...)
	}
	return ds
}

// Default builds a new catalog from DefaultDataset.
func Default() *Catalog {
	return New(DefaultDataset())
}
