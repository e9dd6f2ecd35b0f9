package listing

import "strings"

// Option is one selectable district or equipment.
type Option struct {
	Value    string
	Label    string
	Category string
}

var districtCatalog = map[string][]Option{
	"abidjan": {
		{Value: "cocody riviera 3", Label: "Cocody - Riviera 3", Category: "Cocody"},
		{Value: "cocody riviera 2", Label: "Cocody - Riviera 2", Category: "Cocody"},
		{Value: "cocody deux-plateaux", Label: "Cocody - Deux Plateaux", Category: "Cocody"},
		{Value: "cocody angre", Label: "Cocody - Angré", Category: "Cocody"},
		{Value: "cocody blockhaus", Label: "Cocody - Blockhaus", Category: "Cocody"},
		{Value: "cocody 7eme tranche", Label: "Cocody - 7ème Tranche", Category: "Cocody"},
		{Value: "cocody ambassades", Label: "Cocody - Quartier des Ambassades", Category: "Cocody"},
		{Value: "cocody faya", Label: "Cocody - Faya", Category: "Cocody"},
		{Value: "cocody danga", Label: "Cocody - Danga", Category: "Cocody"},
		{Value: "cocody vallon", Label: "Cocody - Vallon", Category: "Cocody"},
		{Value: "cocody mbadon", Label: "Cocody - M'Badon", Category: "Cocody"},
		{Value: "cocody mermoz", Label: "Cocody - Mermoz", Category: "Cocody"},
		{Value: "cocody attoban", Label: "Cocody - Attoban", Category: "Cocody"},
		{Value: "cocody bonoumin", Label: "Cocody - Bonoumin", Category: "Cocody"},
		{Value: "yopougon niangon", Label: "Yopougon - Niangon", Category: "Yopougon"},
		{Value: "yopougon selmer", Label: "Yopougon - Selmer", Category: "Yopougon"},
		{Value: "yopougon sicogi", Label: "Yopougon - SICOGI", Category: "Yopougon"},
		{Value: "yopougon ananeraie", Label: "Yopougon - Ananeraie", Category: "Yopougon"},
		{Value: "yopougon toits-rouges", Label: "Yopougon - Toits Rouges", Category: "Yopougon"},
		{Value: "yopougon mamie-adjoua", Label: "Yopougon - Mamie Adjoua", Category: "Yopougon"},
		{Value: "yopougon niangon-nord", Label: "Yopougon - Niangon Nord", Category: "Yopougon"},
		{Value: "yopougon niangon-sud", Label: "Yopougon - Niangon Sud", Category: "Yopougon"},
		{Value: "yopougon port", Label: "Yopougon - Port", Category: "Yopougon"},
		{Value: "yopougon sogefiha", Label: "Yopougon - Sogefiha", Category: "Yopougon"},
		{Value: "yopougon wassakara", Label: "Yopougon - Wassakara", Category: "Yopougon"},
		{Value: "abobo pk18", Label: "Abobo - PK18", Category: "Abobo"},
		{Value: "abobo anador", Label: "Abobo - Anador", Category: "Abobo"},
		{Value: "abobo avocatier", Label: "Abobo - Avocatier", Category: "Abobo"},
		{Value: "abobo baule", Label: "Abobo - Baoulé", Category: "Abobo"},
		{Value: "abobo sagbe", Label: "Abobo - Sagbé", Category: "Abobo"},
		{Value: "abobo banco2", Label: "Abobo - Banco 2", Category: "Abobo"},
		{Value: "abobo te", Label: "Abobo - Té", Category: "Abobo"},
		{Value: "abobo derriere-rails", Label: "Abobo - Derrière Rails", Category: "Abobo"},
		{Value: "abobo gare", Label: "Abobo - Gare", Category: "Abobo"},
		{Value: "abobo dokui", Label: "Abobo - Dokoui", Category: "Abobo"},
		{Value: "plateau centre", Label: "Plateau - Centre", Category: "Plateau"},
		{Value: "plateau zone1", Label: "Plateau - Zone 1", Category: "Plateau"},
		{Value: "plateau zone2", Label: "Plateau - Zone 2", Category: "Plateau"},
		{Value: "plateau zone3", Label: "Plateau - Zone 3", Category: "Plateau"},
		{Value: "plateau zone4", Label: "Plateau - Zone 4", Category: "Plateau"},
		{Value: "marcory zone3", Label: "Marcory - Zone 3", Category: "Marcory"},
		{Value: "marcory zone4", Label: "Marcory - Zone 4", Category: "Marcory"},
		{Value: "marcory remblais", Label: "Marcory - Remblais", Category: "Marcory"},
		{Value: "marcory biafra", Label: "Marcory - Biafra", Category: "Marcory"},
		{Value: "marcory anoumabo", Label: "Marcory - Anoumabo", Category: "Marcory"},
		{Value: "marcory gendarmerie", Label: "Marcory - Gendarmerie", Category: "Marcory"},
		{Value: "treichville zone1", Label: "Treichville - Zone 1", Category: "Treichville"},
		{Value: "treichville zone2", Label: "Treichville - Zone 2", Category: "Treichville"},
		{Value: "treichville zone3", Label: "Treichville - Zone 3", Category: "Treichville"},
		{Value: "treichville zone4", Label: "Treichville - Zone 4", Category: "Treichville"},
		{Value: "treichville arras", Label: "Treichville - Arras", Category: "Treichville"},
		{Value: "treichville vridi", Label: "Treichville - Vridi", Category: "Treichville"},
		{Value: "koumassi grand-campement", Label: "Koumassi - Grand Campement", Category: "Koumassi"},
		{Value: "koumassi remblais", Label: "Koumassi - Remblais", Category: "Koumassi"},
		{Value: "koumassi zone-industrielle", Label: "Koumassi - Zone Industrielle", Category: "Koumassi"},
		{Value: "koumassi sicogi", Label: "Koumassi - SICOGI", Category: "Koumassi"},
		{Value: "koumassi cite-douane", Label: "Koumassi - Cité Douane", Category: "Koumassi"},
		{Value: "port-bouet vridi", Label: "Port-Bouët - Vridi", Category: "Port-Bouët"},
		{Value: "port-bouet cite-phare", Label: "Port-Bouët - Cité du Phare", Category: "Port-Bouët"},
		{Value: "port-bouet gonzagueville", Label: "Port-Bouët - Gonzagueville", Category: "Port-Bouët"},
		{Value: "port-bouet aeroport", Label: "Port-Bouët - Aéroport", Category: "Port-Bouët"},
		{Value: "port-bouet petit-bassam", Label: "Port-Bouët - Petit Bassam", Category: "Port-Bouët"},
		{Value: "attecoube akeikoi", Label: "Attécoubé - Akéikoi", Category: "Attécoubé"},
		{Value: "attecoube locodjoro", Label: "Attécoubé - Locodjoro", Category: "Attécoubé"},
		{Value: "attecoube sagbe", Label: "Attécoubé - Sagbé", Category: "Attécoubé"},
		{Value: "attecoube banco", Label: "Attécoubé - Banco", Category: "Attécoubé"},
		{Value: "adjame 220-logements", Label: "Adjamé - 220 Logements", Category: "Adjamé"},
		{Value: "adjame liberty", Label: "Adjamé - Liberté", Category: "Adjamé"},
		{Value: "adjame bracodi", Label: "Adjamé - Bracodi", Category: "Adjamé"},
		{Value: "adjame williamsville", Label: "Adjamé - Williamsville", Category: "Adjamé"},
		{Value: "adjame sogefiha", Label: "Adjamé - Sogefiha", Category: "Adjamé"},
		{Value: "songon gbagbe", Label: "Songon - Gbagbé", Category: "Songon"},
		{Value: "songon mbrago", Label: "Songon - M'Brago", Category: "Songon"},
		{Value: "songon yaosse", Label: "Songon - Yaossé", Category: "Songon"},
		{Value: "bingerville centre", Label: "Bingerville - Centre", Category: "Bingerville"},
		{Value: "bingerville nouveau-quartier", Label: "Bingerville - Nouveau Quartier", Category: "Bingerville"},
		{Value: "anyama centre", Label: "Anyama - Centre", Category: "Anyama"},
		{Value: "anyama nouveau-quartier", Label: "Anyama - Nouveau Quartier", Category: "Anyama"},
	},
	"yamoussoukro": {
		{Value: "centre", Label: "Centre-ville", Category: "centre"},
	},
}

// Districts returns the districts of city, or an empty list for a city the
// catalog does not know.
func Districts(city string) []Option {
	options := districtCatalog[strings.ToLower(strings.TrimSpace(city))]
	out := make([]Option, len(options))
	copy(out, options)
	return out
}

// Cities lists the catalog keys.
func Cities() []string {
	return []string{"abidjan", "yamoussoukro"}
}

func knownDistrict(city string, district string) bool {
	for _, option := range districtCatalog[strings.ToLower(strings.TrimSpace(city))] {
		if option.Value == district {
			return true
		}
	}
	return false
}

var interiorFeatures = []Option{
	{Value: "climatisation", Label: "Climatisation"},
	{Value: "cuisine-equipee", Label: "Cuisine équipée"},
	{Value: "meuble", Label: "Meublé"},
	{Value: "placards", Label: "Placards"},
	{Value: "chauffe-eau", Label: "Chauffe-eau"},
	{Value: "wifi", Label: "Wi-Fi"},
	{Value: "dressing", Label: "Dressing"},
}

var exteriorFeatures = []Option{
	{Value: "parking", Label: "Parking"},
	{Value: "piscine", Label: "Piscine"},
	{Value: "jardin", Label: "Jardin"},
	{Value: "terrasse", Label: "Terrasse"},
	{Value: "balcon", Label: "Balcon"},
	{Value: "gardiennage", Label: "Gardiennage"},
	{Value: "groupe-electrogene", Label: "Groupe électrogène"},
}

func InteriorFeatures() []Option {
	return append([]Option(nil), interiorFeatures...)
}

func ExteriorFeatures() []Option {
	return append([]Option(nil), exteriorFeatures...)
}
