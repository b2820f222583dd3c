package domain

import "strings"

// Technology 科技编号，0 表示无。
type Technology uint8

const (
	TechNone Technology = iota
	AnimalHusbandry
	Archery
	HorsebackRiding
	IronWorking
	MedievalWarfare
	Gunpowder
	Ballistics
	TanksAndArmor
	Writing
	Education
	Economics
	Academia
	Astronomy
	Capitalism
	Agriculture
	Construction
	Industrialization
	ElectricalPower
	ModernFarming
	Urbanization
	MaritimeNavigation
	AdvancedShipbuilding
	OceanicTrade
	techCount
)

type TechStats struct {
	Name   string
	Cost   int
	Prereq Technology
}

var techTable = [techCount]TechStats{
	TechNone:             {Name: "None"},
	AnimalHusbandry:      {"AnimalHusbandry", 7, TechNone},
	Archery:              {"Archery", 10, AnimalHusbandry},
	HorsebackRiding:      {"HorsebackRiding", 20, Archery},
	IronWorking:          {"IronWorking", 21, HorsebackRiding},
	MedievalWarfare:      {"MedievalWarfare", 30, IronWorking},
	Gunpowder:            {"Gunpowder", 42, MedievalWarfare},
	Ballistics:           {"Ballistics", 60, Gunpowder},
	TanksAndArmor:        {"TanksAndArmor", 80, Ballistics},
	Writing:              {"Writing", 5, TechNone},
	Education:            {"Education", 7, Writing},
	Economics:            {"Economics", 10, Education},
	Academia:             {"Academia", 14, Economics},
	Astronomy:            {"Astronomy", 18, Academia},
	Capitalism:           {"Capitalism", 22, Astronomy},
	Agriculture:          {"Agriculture", 6, TechNone},
	Construction:         {"Construction", 8, Agriculture},
	Industrialization:    {"Industrialization", 12, Construction},
	ElectricalPower:      {"ElectricalPower", 16, Industrialization},
	ModernFarming:        {"ModernFarming", 24, ElectricalPower},
	Urbanization:         {"Urbanization", 30, ModernFarming},
	MaritimeNavigation:   {"MaritimeNavigation", 14, Construction},
	AdvancedShipbuilding: {"AdvancedShipbuilding", 18, MaritimeNavigation},
	OceanicTrade:         {"OceanicTrade", 20, AdvancedShipbuilding},
}

func (t Technology) Valid() bool { return t > TechNone && t < techCount }

func (t Technology) Stats() TechStats {
	if t >= techCount {
		return TechStats{}
	}
	return techTable[t]
}

func (t Technology) String() string {
	if t >= techCount {
		return "Unknown"
	}
	return techTable[t].Name
}

func (t Technology) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Technology) UnmarshalText(b []byte) error {
	v, ok := ParseTechnology(string(b))
	if !ok && string(b) != "None" {
		return ErrInvalidResearch.WithData("tech", string(b))
	}
	*t = v
	return nil
}

// ParseTechnology 大小写不敏感。
func ParseTechnology(name string) (Technology, bool) {
	for i := Technology(1); i < techCount; i++ {
		if strings.EqualFold(techTable[i].Name, name) {
			return i, true
		}
	}
	return TechNone, false
}

func AllTechnologies() []Technology {
	out := make([]Technology, 0, techCount-1)
	for i := Technology(1); i < techCount; i++ {
		out = append(out, i)
	}
	return out
}

// TechSet 已完成科技的位集合，只关心成员关系。
type TechSet uint32

func (s TechSet) Has(t Technology) bool { return t == TechNone || s&(1<<t) != 0 }

func (s TechSet) With(t Technology) TechSet { return s | 1<<t }

func (s TechSet) Len() int {
	n := 0
	for v := s; v != 0; v &= v - 1 {
		n++
	}
	return n
}
