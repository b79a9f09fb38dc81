package models

type Department string

const (
	DepartmentElectrical  Department = "elektroinstallation"
	DepartmentService     Department = "wartung_service"
	DepartmentSiteManager Department = "bauleitung"
	DepartmentPlanning    Department = "planung"
	DepartmentWarehouse   Department = "lager"
	DepartmentAdmin       Department = "verwaltung"
)

func (d Department) Valid() bool {
	switch d {
	case DepartmentElectrical, DepartmentService, DepartmentSiteManager,
		DepartmentPlanning, DepartmentWarehouse, DepartmentAdmin:
		return true
	}
	return false
}

type ToolCategory string

const (
	CategoryCordless    ToolCategory = "akkuwerkzeug"
	CategoryPowerTool   ToolCategory = "elektrowerkzeug"
	CategoryHandTool    ToolCategory = "handwerkzeug"
	CategoryMeasuring   ToolCategory = "messgeraet"
	CategoryTester      ToolCategory = "pruefgeraet"
	CategoryLadder      ToolCategory = "leiter"
	CategoryCables      ToolCategory = "kabel_leitungen"
	CategoryMiscellanea ToolCategory = "sonstiges"
)

var categoryLabels = map[ToolCategory]string{
	CategoryCordless:    "Akkuwerkzeug",
	CategoryPowerTool:   "Elektrowerkzeug",
	CategoryHandTool:    "Handwerkzeug",
	CategoryMeasuring:   "Messgerät",
	CategoryTester:      "Prüfgerät",
	CategoryLadder:      "Leiter",
	CategoryCables:      "Kabel/Leitungen",
	CategoryMiscellanea: "Sonstiges",
}

func (c ToolCategory) Valid() bool { _, ok := categoryLabels[c]; return ok }

func (c ToolCategory) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

type ToolCondition string

const (
	ConditionNew         ToolCondition = "neu"
	ConditionVeryGood    ToolCondition = "sehr_gut"
	ConditionGood        ToolCondition = "gut"
	ConditionWorn        ToolCondition = "gebrauchsspuren"
	ConditionNeedsRepair ToolCondition = "reparaturbeduerftig"
	ConditionDefective   ToolCondition = "defekt"
)

var conditionLabels = map[ToolCondition]string{
	ConditionNew:         "Neu",
	ConditionVeryGood:    "Sehr gut",
	ConditionGood:        "Gut",
	ConditionWorn:        "Gebrauchsspuren",
	ConditionNeedsRepair: "Reparaturbedürftig",
	ConditionDefective:   "Defekt",
}

func (c ToolCondition) Valid() bool { _, ok := conditionLabels[c]; return ok }

func (c ToolCondition) Label() string {
	if l, ok := conditionLabels[c]; ok {
		return l
	}
	return string(c)
}

// NeedsAttention is true for exactly reparaturbeduerftig and defekt.
func (c ToolCondition) NeedsAttention() bool {
	return c == ConditionNeedsRepair || c == ConditionDefective
}

type LocationType string

const (
	LocationWorkshop  LocationType = "werkstatt"
	LocationVehicle   LocationType = "fahrzeug"
	LocationSite      LocationType = "baustelle"
	LocationOutdoor   LocationType = "aussenlager"
	LocationElsewhere LocationType = "sonstiges"
)

var locationTypeLabels = map[LocationType]string{
	LocationWorkshop:  "Werkstatt",
	LocationVehicle:   "Fahrzeug",
	LocationSite:      "Baustelle",
	LocationOutdoor:   "Außenlager",
	LocationElsewhere: "Sonstiges",
}

func (t LocationType) Valid() bool { _, ok := locationTypeLabels[t]; return ok }

func (t LocationType) Label() string {
	if l, ok := locationTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

type ReturnCondition string

const (
	ReturnFlawless  ReturnCondition = "einwandfrei"
	ReturnLightWear ReturnCondition = "leichte_gebrauchsspuren"
	ReturnDirty     ReturnCondition = "verschmutzt"
	ReturnDamaged   ReturnCondition = "beschaedigt"
	ReturnDefective ReturnCondition = "defekt"
)

func (c ReturnCondition) Valid() bool {
	switch c {
	case ReturnFlawless, ReturnLightWear, ReturnDirty, ReturnDamaged, ReturnDefective:
		return true
	}
	return false
}
