package creation_test

import (
	"github.com/cory-johannsen/elysium/internal/game/catalog"
	"github.com/cory-johannsen/elysium/internal/game/creation"
)

// Ids used throughout the tests.
const (
	attrStrength     int64 = 1
	attrDexterity    int64 = 2
	attrCharisma     int64 = 4
	attrIntelligence int64 = 7

	skillAthletics  int64 = 1
	skillBrawl      int64 = 2
	skillAnimalKen  int64 = 4
	skillPersuasion int64 = 5
	skillOccult     int64 = 6

	discAnimalism int64 = 1
	discAuspex    int64 = 2
	discCelerity  int64 = 3
	discPotence   int64 = 4
	discPresence  int64 = 5

	bgContacts  int64 = 2
	bgHerd      int64 = 7
	bgResources int64 = 9

	clanBrujah   int64 = 1
	clanToreador int64 = 2
	clanCaitiff  int64 = 3

	predAlleycat int64 = 1
	predFarmer   int64 = 2
	predOsiris   int64 = 3

	sectCamarilla   int64 = 1
	sectAnarch      int64 = 2
	sectIndependent int64 = 3
)

func testCatalog() *catalog.Catalog {
	cat := &catalog.Catalog{
		Attributes: []*catalog.Attribute{
			{ID: 1, Name: "Strength", Category: catalog.Physical},
			{ID: 2, Name: "Dexterity", Category: catalog.Physical},
			{ID: 3, Name: "Stamina", Category: catalog.Physical},
			{ID: 4, Name: "Charisma", Category: catalog.Social},
			{ID: 5, Name: "Manipulation", Category: catalog.Social},
			{ID: 6, Name: "Composure", Category: catalog.Social},
			{ID: 7, Name: "Intelligence", Category: catalog.Mental},
			{ID: 8, Name: "Wits", Category: catalog.Mental},
			{ID: 9, Name: "Resolve", Category: catalog.Mental},
		},
		Skills: []*catalog.Skill{
			{ID: 1, Name: "Athletics", Category: catalog.Physical},
			{ID: 2, Name: "Brawl", Category: catalog.Physical},
			{ID: 3, Name: "Stealth", Category: catalog.Physical},
			{ID: 4, Name: "Animal Ken", Category: catalog.Social},
			{ID: 5, Name: "Persuasion", Category: catalog.Social},
			{ID: 6, Name: "Occult", Category: catalog.Mental},
			{ID: 7, Name: "Investigation", Category: catalog.Mental},
		},
		Disciplines: []*catalog.Discipline{
			{ID: 1, Name: "Animalism"},
			{ID: 2, Name: "Auspex"},
			{ID: 3, Name: "Celerity"},
			{ID: 4, Name: "Potence"},
			{ID: 5, Name: "Presence"},
		},
		Merits: []*catalog.Merit{
			{ID: 1, Name: "Stunning", Cost: 4},
			{ID: 2, Name: "Unbondable", Cost: 5},
			{ID: 3, Name: "Thin-Blood Resilience", Cost: 5},
			{ID: 4, Name: "Linguistics", Cost: 1},
		},
		Flaws: []*catalog.Flaw{
			{ID: 1, Name: "Hunted", Cost: 4},
			{ID: 2, Name: "Organovore", Cost: 5},
			{ID: 3, Name: "Enemy", Cost: 1},
			{ID: 4, Name: "Known Corpse", Cost: -2},
		},
		Backgrounds: []*catalog.Background{
			{ID: 2, Name: "Contacts"},
			{ID: 7, Name: "Herd"},
			{ID: 9, Name: "Resources", MaxRating: 3},
		},
		Clans: []*catalog.Clan{
			{ID: 1, Name: "Brujah", FavoredCategory: catalog.Physical, Disciplines: []int64{3, 4, 5}},
			{ID: 2, Name: "Toreador", FavoredCategory: catalog.Social, Disciplines: []int64{2, 3, 5}},
			{ID: 3, Name: "Caitiff", FavoredCategory: catalog.Any},
		},
		PredatorTypes: []*catalog.PredatorType{
			{ID: 1, Name: "Alleycat", FreeDisciplineID: 3, FreeSkillID: 2,
				FreeBackground: &catalog.FreeBackground{BackgroundID: 7}},
			{ID: 2, Name: "Farmer", FreeDisciplineID: 1, FreeSkillID: 4},
			{ID: 3, Name: "Osiris", FreeDisciplineID: 5, FreeSkillID: 6,
				FreeBackground: &catalog.FreeBackground{BackgroundID: 2, Rating: 2}},
		},
		Sects: []*catalog.Sect{
			{ID: 1, Name: "Camarilla", FreeBackground: &catalog.FreeBackground{BackgroundID: 7}},
			{ID: 2, Name: "Anarch", FreeBackground: &catalog.FreeBackground{BackgroundID: 2}},
			{ID: 3, Name: "Independent"},
		},
	}
	return cat.Index()
}

func mustPredator(cat *catalog.Catalog, id int64) *catalog.PredatorType {
	p, ok := cat.PredatorType(id)
	if !ok {
		panic("unknown predator type")
	}
	return p
}

func mustSect(cat *catalog.Catalog, id int64) *catalog.Sect {
	s, ok := cat.Sect(id)
	if !ok {
		panic("unknown sect")
	}
	return s
}

// withModifiers applies clan, predator type, and sect choices in that order.
func withModifiers(b creation.Build, cat *catalog.Catalog, clan, predator, sect int64) creation.Build {
	if clan != 0 {
		b = creation.ApplyModifierChange(b, creation.ClanChange(b, cat, clan))
	}
	if predator != 0 {
		b = creation.ApplyModifierChange(b, creation.PredatorTypeChange(b, cat, predator))
	}
	if sect != 0 {
		b = creation.ApplyModifierChange(b, creation.SectChange(b, cat, sect))
	}
	return b
}
