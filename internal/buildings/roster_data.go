package buildings

import "github.com/propmaint/backend/internal/models"

// roster lists every building per category in display order.
var roster = []CategoryBuildings{
	{
		Category: models.CategoryTourist,
		Buildings: []Building{
			{Name: "Andres Obispo", Apartments: []string{"2A", "2B", "3A", "3B", "Cuarto de limpieza", "Cajetín garaje"}},
			{Name: "General Martinez Campos", Apartments: []string{"1", "2", "3", "4"}},
			{Name: "Juan Bravo", Apartments: []string{"1A", "1B", "1C", "1D", "2A", "2B", "2C", "2D", "3A", "3B", "3C", "3D", "5C", "5D", "6C", "6D", "7B", "BA", "BB", "Trastero 18"}},
			{Name: "Abada", Apartments: []string{"BA", "BB", "1A", "1B", "2A", "2B", "3A", "3B", "4A", "4B", "5"}},
		},
	},
	{
		Category: models.CategoryCorporate,
		Buildings: []Building{
			{Name: "Juan Bautista de Toledo 17", Apartments: []string{"02 A", "03 B"}},
			{Name: "Madera 29", Apartments: []string{"1 D 2 (Ext)", "1 D 1 (Int)", "1 I2 (Ext)", "1 I1 (Int)", "2 D2 (Ext)", "2 D1 (Int)", "2 I2 (Ext)", "2 I1 (Int)", "3 D1 (Int)", "3 I2 (Ext)", "3 I1 (Int)", "4 D2 (Ext)", "4 D1 (Int)", "4 I", "Bajo 1A (Int)"}},
			{Name: "Presidente Carmona 6", Apartments: []string{"SM 02"}},
			{Name: "Villanueva 13", Apartments: []string{"Habitacion 1", "Habitacion 2", "Habitacion 3", "Habitacion 4", "Habitacion 5", "Habitacion 6", "Habitacion 7", "Habitacion 8", "Habitacion 9", "Habitacion 10", "Habitacion 11", "Habitacion 12"}},
		},
	},
	{
		Category: models.CategoryVitarooms,
		Buildings: []Building{
			{Name: "VG15 - Vasco de Gama 15", Apartments: []string{"Habitación 1", "Habitación 2", "Habitación 3", "Habitación 4"}},
			{Name: "CM6 - Callejón de Murcia 6", Apartments: []string{"Habitación 1", "Habitación 2", "Habitación 3", "Habitación 4"}},
			{Name: "LG66 - López Grass 66, 4B", Apartments: []string{"Habitación 1", "Habitación 2", "Habitación 3"}},
			{Name: "ANLB21 - Ana Albi 21, 1 Izq", Apartments: []string{"Habitación 1", "Habitación 2", "Habitación 3", "Habitación 4"}},
			{Name: "GT6 - Getafe 6, 2-3D", Apartments: []string{"Habitación 1", "Habitación 2", "Habitación 3", "Habitación 4"}},
			{Name: "NSG1 - Ntra Sra de Guadalupe 1", Apartments: []string{"Habitación 1", "Habitación 2", "Habitación 3", "Habitación 4"}},
			{Name: "VLD4 - Valdeparazuelos 4, 1D", Apartments: []string{"Habitación 1", "Habitación 2", "Habitación 3", "Habitación 4"}},
			{Name: "AP11 - Alberto Palacios 11, 1B", Apartments: []string{"Habitación 1", "Habitación 2", "Habitación 3", "Habitación 4"}},
			{Name: "VER8 - Verónica 8", Apartments: []string{"Habitación 1", "Habitación 2", "Habitación 3", "Habitación 4"}},
			{Name: "ESP3 - Españoleto 3, 2C", Apartments: []string{"Habitación 1", "Habitación 2", "Habitación 3", "Habitación 4", "Habitación 5"}},
			{Name: "TRL7 - Teruel 7, bajo C", Apartments: []string{"Habitación 1", "Habitación 2", "Habitación 3", "Habitación 4"}},
			{Name: "RG1 - Río Guadarrama 1, 2D", Apartments: []string{"Habitación 1", "Habitación 2", "Habitación 3", "Habitación 4"}},
			{Name: "PV1 - Pz Valencia 1, 3D", Apartments: []string{"Habitación 1", "Habitación 2", "Habitación 3", "Habitación 4"}},
			{Name: "VG4 - Vega 4, 4-03", Apartments: []string{"Habitación 1", "Habitación 2", "Habitación 3", "Habitación 4"}},
			{Name: "PR9 - Pz de los Ríos 9, 3D", Apartments: []string{"Habitación 1", "Habitación 2", "Habitación 3", "Habitación 4"}},
			{Name: "TRJ2 - Trujillo 2, 5B", Apartments: []string{"Habitación 1", "Habitación 2", "Habitación 3", "Habitación 4"}},
			{Name: "LT6 - Lago Tiberíades 6, 1C", Apartments: []string{"Habitación 1", "Habitación 2", "Habitación 3", "Habitación 4"}},
			{Name: "BDZ14 - Badajoz 14, bajo", Apartments: []string{"Habitación 1"}},
			{Name: "PDC3 - Puerta del Campo 3, 3 Izq", Apartments: []string{"Habitación 1", "Habitación 2", "Habitación 3", "Habitación 4"}},
			{Name: "HTS2 - Hortensia 2, 4D", Apartments: []string{"Habitación 1", "Habitación 2", "Habitación 3", "Habitación 4"}},
			{Name: "DB4 - Doctor Barraquer 4, 4-4", Apartments: []string{"Habitación 1", "Habitación 2", "Habitación 3", "Habitación 4"}},
			{Name: "PP50 - Pablo Picasso 50, 4-2", Apartments: []string{"Habitación 1", "Habitación 2", "Habitación 3", "Habitación 4"}},
			{Name: "LBT51 - Libertad 51, 4D", Apartments: []string{"Habitación 1", "Habitación 2", "Habitación 3", "Habitación 4"}},
			{Name: "MA7 - Manuel Arranz 7, bajo int 3", Apartments: []string{"Habitación 1", "Habitación 2"}},
			{Name: "SA3 - San Andrés 3, 4A", Apartments: []string{"Habitación 1", "Habitación 2", "Habitación 3", "Habitación 4"}},
			{Name: "CA105 - Cuevas de Almanzora 105, 1 Izq", Apartments: []string{"Habitación 1", "Habitación 2", "Habitación 3", "Habitación 4", "Habitación 5"}},
			{Name: "VA1 - Valladolid 1, 4E", Apartments: []string{"Habitación 1", "Habitación 2", "Habitación 3", "Habitación 4"}},
		},
	},
}

// aliases are the short codes maintenance records use for buildings. CDV
// has no roster entry and resolves without apartments.
var aliases = map[string]Alias{
	"JB":    {Name: "Juan Bravo", Category: models.CategoryTourist},
	"AO":    {Name: "Andres Obispo", Category: models.CategoryTourist},
	"GMC":   {Name: "General Martinez Campos", Category: models.CategoryTourist},
	"CDV":   {Name: "Conde de Vilches", Category: models.CategoryTourist},
	"Abada": {Name: "Abada", Category: models.CategoryTourist},
}
